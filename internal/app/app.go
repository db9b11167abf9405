package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/TanaroSch/snapask/internal/capture"
	"github.com/TanaroSch/snapask/internal/eventloop"
	"github.com/TanaroSch/snapask/internal/hotkey"
	"github.com/TanaroSch/snapask/internal/overlay"
)

// Shortcuts is the part of hotkey.Registry the application drives.
type Shortcuts interface {
	Start(handlers map[hotkey.Action]func()) error
	GetBindings() map[hotkey.Action]string
	UpdateBinding(action hotkey.Action, accel string) error
	ResetToDefaults() error
	SuspendAll()
	ResumeAll() error
	Enabled() bool
	Close() error
}

// Capturer produces artifacts. capture.Service implements it.
type Capturer interface {
	CaptureRegion(ctx context.Context) capture.Result
	CaptureSelection(ctx context.Context) capture.Result
}

// Overlay is the part of overlay.Controller the application drives.
type Overlay interface {
	SetEscapeHandler(handler func())
	ShowNear(p overlay.Point) error
	Hide()
	Closed()
	SendArtifact(event string, payload any) bool
	Shutdown()
}

// Preferences persists the user's global shortcut switch.
type Preferences interface {
	ShortcutsEnabled() bool
	SetShortcutsEnabled(enabled bool) error
}

// Notifier shows a desktop notification.
type Notifier interface {
	Notify(title, message string)
}

// Deps collects the collaborators of an Application.
type Deps struct {
	Loop        *eventloop.Loop
	Shortcuts   Shortcuts
	Capturer    Capturer
	Overlay     Overlay
	Cursor      overlay.Cursor
	Preferences Preferences
	Notifier    Notifier
	Log         zerolog.Logger
}

// Artifact is the payload of an artifact event.
type Artifact struct {
	Action string `json:"action"`
	Kind   string `json:"kind"`
	Text   string `json:"text,omitempty"`
	Image  []byte `json:"image,omitempty"`
}

// ArtifactEvent names the presentation-layer event for action.
func ArtifactEvent(action hotkey.Action) string {
	return "artifact:" + string(action)
}

// Application connects shortcut triggers to captures and captures to the
// overlay. Fields below the blank line are owned by the event loop.
type Application struct {
	loop      *eventloop.Loop
	shortcuts Shortcuts
	capturer  Capturer
	overlay   Overlay
	cursor    overlay.Cursor
	prefs     Preferences
	notifier  Notifier
	log       zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	userEnabled bool
	inFlight    hotkey.Action
	queue       []hotkey.Action
}

// New creates an Application. Nothing runs until Start.
func New(d Deps) *Application {
	ctx, cancel := context.WithCancel(context.Background())
	return &Application{
		loop:        d.Loop,
		shortcuts:   d.Shortcuts,
		capturer:    d.Capturer,
		overlay:     d.Overlay,
		cursor:      d.Cursor,
		prefs:       d.Preferences,
		notifier:    d.Notifier,
		log:         d.Log.With().Str("component", "app").Logger(),
		ctx:         ctx,
		cancel:      cancel,
		userEnabled: true,
	}
}

// Start runs the event loop and registers the action shortcuts. A failed
// registration is reported once and leaves that action inert. Cancelling
// ctx stops the loop like Shutdown does.
func (a *Application) Start(ctx context.Context) {
	context.AfterFunc(ctx, a.cancel)

	a.overlay.SetEscapeHandler(func() { a.post(a.overlay.Hide) })

	a.userEnabled = a.prefs.ShortcutsEnabled()
	if !a.userEnabled {
		a.log.Info().Msg("Shortcuts disabled by user setting")
		a.shortcuts.SuspendAll()
	}

	go func() {
		if err := a.loop.Run(a.ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error().Err(err).Msg("Event loop stopped")
		}
	}()

	handlers := make(map[hotkey.Action]func(), len(hotkey.Actions()))
	for _, action := range hotkey.Actions() {
		handlers[action] = a.handlerFor(action)
	}
	if err := a.shortcuts.Start(handlers); err != nil {
		a.log.Error().Err(err).Msg("Some shortcuts could not be registered")
		if a.notifier != nil {
			a.notifier.Notify("Shortcut registration issue",
				"Some shortcuts could not be registered. Check accessibility permissions or pick other shortcuts.")
		}
	}
	a.log.Info().Msg("Application started")
}

// Shutdown stops the loop and releases the overlay and every shortcut.
func (a *Application) Shutdown() {
	a.cancel()
	a.overlay.Shutdown()
	if err := a.shortcuts.Close(); err != nil {
		a.log.Warn().Err(err).Msg("Failed to release shortcuts")
	}
	a.log.Info().Msg("Application stopped")
}

// OverlayClosed handles the user closing the overlay window.
func (a *Application) OverlayClosed() {
	a.overlay.Closed()
}

func (a *Application) handlerFor(action hotkey.Action) func() {
	return func() {
		a.post(func() { a.trigger(action) })
	}
}

func (a *Application) post(task func()) {
	if err := a.loop.Post(task); err != nil {
		a.log.Warn().Err(err).Msg("Dropped event")
	}
}

// trigger runs on the loop.
func (a *Application) trigger(action hotkey.Action) {
	log := a.log.With().Str("action", string(action)).Logger()

	if !a.userEnabled || !a.shortcuts.Enabled() {
		log.Debug().Msg("Shortcuts disabled, ignoring trigger")
		return
	}
	if a.inFlight == action || a.queued(action) {
		log.Debug().Msg("Capture already pending, ignoring trigger")
		return
	}
	if a.inFlight != "" {
		log.Debug().Str("busy", string(a.inFlight)).Msg("Capture queued")
		a.queue = append(a.queue, action)
		return
	}
	a.begin(action)
}

func (a *Application) queued(action hotkey.Action) bool {
	for _, q := range a.queue {
		if q == action {
			return true
		}
	}
	return false
}

// begin runs on the loop. The capture itself runs on its own goroutine
// and reports back through the loop.
func (a *Application) begin(action hotkey.Action) {
	a.inFlight = action
	ctx := a.ctx
	a.log.Debug().Str("action", string(action)).Msg("Capture started")

	go func() {
		res := a.capture(ctx, action)
		if err := a.loop.Post(func() { a.finish(action, res) }); err != nil {
			a.log.Debug().Err(err).Str("action", string(action)).Msg("Capture result dropped")
		}
	}()
}

func (a *Application) capture(ctx context.Context, action hotkey.Action) capture.Result {
	if action == hotkey.ActionTextSelection {
		return a.capturer.CaptureSelection(ctx)
	}
	return a.capturer.CaptureRegion(ctx)
}

// finish runs on the loop.
func (a *Application) finish(action hotkey.Action, res capture.Result) {
	a.inFlight = ""
	a.deliver(action, res)

	if len(a.queue) == 0 {
		return
	}
	next := a.queue[0]
	a.queue = a.queue[1:]
	if !a.userEnabled || !a.shortcuts.Enabled() {
		a.log.Debug().Int("dropped", len(a.queue)+1).Msg("Shortcuts disabled, clearing queued captures")
		a.queue = nil
		return
	}
	a.begin(next)
}

func (a *Application) deliver(action hotkey.Action, res capture.Result) {
	log := a.log.With().Str("action", string(action)).Logger()

	switch res.Kind {
	case capture.KindCancelled:
		log.Debug().Msg("Capture cancelled")
		return
	case capture.KindFailed:
		log.Info().Str("reason", res.Reason).Msg("Capture produced nothing")
		return
	}

	if err := a.overlay.ShowNear(a.cursor.Position()); err != nil {
		log.Error().Err(err).Msg("Failed to show overlay")
		return
	}
	a.overlay.SendArtifact(ArtifactEvent(action), Artifact{
		Action: string(action),
		Kind:   res.Kind.String(),
		Text:   res.Text,
		Image:  res.Image,
	})
	log.Info().Stringer("result", res).Msg("Artifact delivered")
}
