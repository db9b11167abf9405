package overlay

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// State is the overlay window's lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateHidden
	StateVisible
)

func (s State) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateVisible:
		return "visible"
	default:
		return "uninitialized"
	}
}

// Window is the native overlay window.
type Window interface {
	Size() (width, height int)
	SetPosition(x, y int)
	// SetVisibleOnAllWorkspaces lets the window appear over full-screen
	// spaces while set.
	SetVisibleOnAllWorkspaces(on bool)
	RaiseAboveOthers()
	// ShowInactive shows the window without taking focus.
	ShowInactive()
	Focus()
	Hide()
	// Send delivers an event to the presentation layer.
	Send(event string, payload any)
}

// Factory builds the window on first use.
type Factory func() (Window, error)

// EscapeBinder owns the escape hotkey.
type EscapeBinder interface {
	BindEscape(handler func()) error
	UnbindEscape() error
}

// ErrNoWindow is returned when the factory produced no window.
var ErrNoWindow = errors.New("overlay window unavailable")

// Controller owns the single overlay window. Escape is bound exactly while
// the window is visible.
type Controller struct {
	mu       sync.Mutex
	state    State
	win      Window
	gen      uint64
	factory  Factory
	displays Displays
	escape   EscapeBinder
	onEscape func()
	delay    time.Duration
	log      zerolog.Logger

	afterFunc func(time.Duration, func())
}

// NewController creates a controller in the Uninitialized state.
// focusDelay separates the inactive show from the explicit focus.
func NewController(factory Factory, displays Displays, escape EscapeBinder, focusDelay time.Duration, log zerolog.Logger) *Controller {
	c := &Controller{
		factory:  factory,
		displays: displays,
		escape:   escape,
		delay:    focusDelay,
		log:      log.With().Str("component", "overlay").Logger(),
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	c.onEscape = c.Hide
	return c
}

// SetEscapeHandler replaces what happens when escape is pressed while the
// overlay is visible. The default hides the overlay.
func (c *Controller) SetEscapeHandler(handler func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEscape = handler
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ShowNear centers the overlay on the display containing p and shows it.
// A visible overlay is moved rather than recreated.
func (c *Controller) ShowNear(p Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureWindowLocked(); err != nil {
		return err
	}

	w, h := c.win.Size()
	x, y := Place(c.displayFor(p), w, h, p)
	c.win.SetPosition(x, y)

	c.win.SetVisibleOnAllWorkspaces(true)
	c.win.RaiseAboveOthers()
	c.win.ShowInactive()
	c.win.SetVisibleOnAllWorkspaces(false)

	c.state = StateVisible
	c.gen++
	c.log.Debug().Int("x", x).Int("y", y).Msg("Overlay shown")

	if err := c.escape.BindEscape(c.escapePressed); err != nil {
		c.log.Warn().Err(err).Msg("Failed to bind escape")
	}

	gen := c.gen
	c.afterFunc(c.delay, func() { c.focusIfCurrent(gen) })
	return nil
}

func (c *Controller) ensureWindowLocked() error {
	if c.win != nil {
		return nil
	}
	win, err := c.factory()
	if err != nil {
		return err
	}
	if win == nil {
		return ErrNoWindow
	}
	c.win = win
	c.state = StateHidden
	c.log.Debug().Msg("Overlay window created")
	return nil
}

// displayFor returns the display containing p, else the primary display.
func (c *Controller) displayFor(p Point) Rect {
	var bounds []Rect
	if c.displays != nil {
		bounds = c.displays.Bounds()
	}
	for _, b := range bounds {
		if b.Contains(p) {
			return b
		}
	}
	if len(bounds) > 0 {
		return bounds[0]
	}
	return Rect{}
}

func (c *Controller) focusIfCurrent(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateVisible || c.gen != gen || c.win == nil {
		return
	}
	c.win.Focus()
}

func (c *Controller) escapePressed() {
	c.mu.Lock()
	handler := c.onEscape
	c.mu.Unlock()

	if handler != nil {
		handler()
	}
}

// Hide hides the overlay and unbinds escape. The window is kept.
func (c *Controller) Hide() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateVisible {
		return
	}
	c.win.Hide()
	c.state = StateHidden
	c.unbindEscapeLocked()
	c.log.Debug().Msg("Overlay hidden")
}

// Closed handles the user closing the window: the handle is dropped and
// the next ShowNear builds a new one.
func (c *Controller) Closed() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.win != nil {
		c.win.Hide()
	}
	c.win = nil
	if c.state != StateUninitialized {
		c.state = StateHidden
	}
	c.unbindEscapeLocked()
	c.log.Debug().Msg("Overlay closed")
}

// SendArtifact forwards an event to the window. It reports false and drops
// the event when no window exists.
func (c *Controller) SendArtifact(event string, payload any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.win == nil {
		c.log.Debug().Str("event", event).Msg("No overlay window, artifact dropped")
		return false
	}
	c.win.Send(event, payload)
	return true
}

// Shutdown releases escape and forgets the window.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.unbindEscapeLocked()
	c.win = nil
	c.state = StateUninitialized
}

func (c *Controller) unbindEscapeLocked() {
	if err := c.escape.UnbindEscape(); err != nil {
		c.log.Warn().Err(err).Msg("Failed to unbind escape")
	}
}
