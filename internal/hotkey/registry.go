package hotkey

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Store persists the action bindings, keyed by Action string.
type Store interface {
	LoadBindings() (map[string]string, error)
	SaveBindings(map[string]string) error
}

// Registry owns the action bindings and the system hotkey registrations
// backing them. Every change to the registered set tears the whole set
// down and rebuilds it. The escape accelerator is tracked on its own and
// is never touched by rebuilds or suspension.
type Registry struct {
	mu       sync.Mutex
	backend  Backend
	store    Store
	log      zerolog.Logger
	bindings map[Action]string
	handlers map[Action]func()
	active   map[string]RegisteredHotkey
	enabled  bool
	escape   RegisteredHotkey
}

// NewRegistry loads the persisted bindings, falling back to the defaults
// when the store is empty, unreadable or holds an invalid set.
// Nothing is registered until Start.
func NewRegistry(backend Backend, store Store, log zerolog.Logger) *Registry {
	r := &Registry{
		backend:  backend,
		store:    store,
		log:      log.With().Str("component", "shortcuts").Logger(),
		handlers: make(map[Action]func()),
		active:   make(map[string]RegisteredHotkey),
		enabled:  true,
	}
	r.bindings = r.loadBindings()
	return r
}

func (r *Registry) loadBindings() map[Action]string {
	defaults := DefaultBindings()
	if r.store == nil {
		return defaults
	}

	stored, err := r.store.LoadBindings()
	if err != nil {
		r.log.Debug().Err(err).Msg("Using default shortcuts")
		return defaults
	}
	if len(stored) == 0 {
		return defaults
	}

	bindings := make(map[Action]string, len(defaults))
	for _, action := range Actions() {
		accel := strings.TrimSpace(stored[string(action)])
		if accel == "" {
			accel = defaults[action]
		}
		bindings[action] = accel
	}
	if err := validateBindings(bindings); err != nil {
		r.log.Debug().Err(err).Msg("Stored shortcuts are invalid, using defaults")
		return defaults
	}
	return bindings
}

func validateBindings(bindings map[Action]string) error {
	actions := Actions()
	for i, action := range actions {
		accel := bindings[action]
		if _, err := ParseAccelerator(accel); err != nil {
			return fmt.Errorf("%s: %w", action, err)
		}
		if IsProtected(accel) {
			return fmt.Errorf("%s: %w: %s", action, ErrProtected, accel)
		}
		for _, other := range actions[:i] {
			if SameAccelerator(bindings[other], accel) {
				return fmt.Errorf("%s: %w: %s", action, ErrDuplicate, accel)
			}
		}
	}
	return nil
}

// Start installs the action handlers and registers every binding unless
// the registry is suspended. A failed registration leaves that action
// inert; the joined error lists every failure.
func (r *Registry) Start(handlers map[Action]func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers = make(map[Action]func(), len(handlers))
	for action, h := range handlers {
		r.handlers[action] = h
	}
	if !r.enabled {
		return nil
	}
	return r.rebuildLocked()
}

// GetBindings returns a copy of the current bindings.
func (r *Registry) GetBindings() map[Action]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[Action]string, len(r.bindings))
	for action, accel := range r.bindings {
		out[action] = accel
	}
	return out
}

// UpdateBinding rebinds action to accel. On any error the previous
// binding stays in memory, on disk and registered.
func (r *Registry) UpdateBinding(action Action, accel string) error {
	if !action.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	accel = strings.TrimSpace(accel)
	if _, err := ParseAccelerator(accel); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if IsProtected(accel) {
		return fmt.Errorf("%w: %s", ErrProtected, accel)
	}
	for _, other := range Actions() {
		if other != action && SameAccelerator(r.bindings[other], accel) {
			return fmt.Errorf("%w: %s is used by %q", ErrDuplicate, accel, other.Label())
		}
	}

	prev := r.bindings[action]
	if SameAccelerator(prev, accel) {
		r.log.Debug().Str("action", string(action)).Str("accelerator", accel).Msg("Shortcut unchanged")
		return nil
	}

	if err := r.tryRegisterLocked(accel); err != nil {
		return fmt.Errorf("%w: %w", ErrOSRejected, err)
	}

	r.bindings[action] = accel
	if err := r.saveLocked(); err != nil {
		r.bindings[action] = prev
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	if r.enabled {
		if err := r.rebuildLocked(); err != nil {
			r.bindings[action] = prev
			if saveErr := r.saveLocked(); saveErr != nil {
				r.log.Error().Err(saveErr).Msg("Failed to restore previous shortcuts on disk")
			}
			if restoreErr := r.rebuildLocked(); restoreErr != nil {
				r.log.Error().Err(restoreErr).Msg("Failed to re-register previous shortcuts")
			}
			return fmt.Errorf("%w: %w", ErrOSRejected, err)
		}
	}

	r.log.Info().Str("action", string(action)).Str("from", prev).Str("to", accel).Msg("Shortcut updated")
	return nil
}

// ResetToDefaults restores the default bindings. They stay in memory even
// when persisting or registering them fails.
func (r *Registry) ResetToDefaults() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bindings = DefaultBindings()

	var errs []error
	if err := r.saveLocked(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrPersistFailed, err))
	}
	if r.enabled {
		if err := r.rebuildLocked(); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrOSRejected, err))
		}
	}
	r.log.Info().Msg("Shortcuts reset to defaults")
	return errors.Join(errs...)
}

// SuspendAll unregisters every action accelerator.
func (r *Registry) SuspendAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.enabled {
		return
	}
	r.teardownLocked()
	r.enabled = false
	r.log.Debug().Msg("Shortcuts suspended")
}

// ResumeAll re-registers the current bindings after SuspendAll.
func (r *Registry) ResumeAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.enabled {
		return nil
	}
	r.enabled = true
	r.log.Debug().Msg("Shortcuts resumed")
	return r.rebuildLocked()
}

// Enabled reports whether the action accelerators are live.
func (r *Registry) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// ActiveAccelerators returns the accelerators currently registered for
// actions, escape excluded.
func (r *Registry) ActiveAccelerators() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.active))
	for _, action := range Actions() {
		if _, ok := r.active[r.bindings[action]]; ok {
			out = append(out, r.bindings[action])
		}
	}
	return out
}

// BindEscape registers the escape accelerator. Binding twice is a no-op.
func (r *Registry) BindEscape(handler func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.escape != nil {
		return nil
	}
	hk, err := r.backend.Register(EscapeAccelerator)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOSRejected, err)
	}
	r.escape = hk
	r.listen("escape", EscapeAccelerator, hk, handler)
	return nil
}

// UnbindEscape releases the escape accelerator. Unbinding when not bound is a no-op.
func (r *Registry) UnbindEscape() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.escape == nil {
		return nil
	}
	r.escape = nil
	return r.backend.Unregister(EscapeAccelerator)
}

// Close releases every registration, escape included.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = make(map[string]RegisteredHotkey)
	r.escape = nil
	return r.backend.UnregisterAll()
}

func (r *Registry) tryRegisterLocked(accel string) error {
	if _, err := r.backend.Register(accel); err != nil {
		return err
	}
	if err := r.backend.Unregister(accel); err != nil {
		r.log.Warn().Err(err).Str("accelerator", accel).Msg("Failed to release trial registration")
	}
	return nil
}

func (r *Registry) saveLocked() error {
	if r.store == nil {
		return nil
	}
	out := make(map[string]string, len(r.bindings))
	for action, accel := range r.bindings {
		out[string(action)] = accel
	}
	return r.store.SaveBindings(out)
}

func (r *Registry) teardownLocked() {
	for accel := range r.active {
		if err := r.backend.Unregister(accel); err != nil {
			r.log.Warn().Err(err).Str("accelerator", accel).Msg("Failed to unregister shortcut")
		}
	}
	r.active = make(map[string]RegisteredHotkey)
}

// rebuildLocked unregisters every action accelerator and registers the
// current bindings from scratch.
func (r *Registry) rebuildLocked() error {
	r.teardownLocked()

	var errs []error
	for _, action := range Actions() {
		accel := r.bindings[action]
		hk, err := r.backend.Register(accel)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s (%s): %w", action, accel, err))
			continue
		}
		r.active[accel] = hk
		r.listen(string(action), accel, hk, r.handlers[action])
		r.log.Info().Str("action", string(action)).Str("accelerator", accel).Msg("Registered shortcut")
	}
	return errors.Join(errs...)
}

// listen forwards presses until the hotkey's Keydown channel closes.
func (r *Registry) listen(name, accel string, hk RegisteredHotkey, handler func()) {
	go func() {
		for range hk.Keydown() {
			r.log.Debug().Str("action", name).Str("accelerator", accel).Msg("Shortcut pressed")
			r.invoke(accel, handler)
		}
	}()
}

func (r *Registry) invoke(accel string, handler func()) {
	if handler == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Str("accelerator", accel).Msg("Recovered from panic in shortcut handler")
		}
	}()
	handler()
}
