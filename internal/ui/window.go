package ui

import (
	"context"
	"errors"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/TanaroSch/snapask/internal/overlay"
)

// ErrWindowNotReady is returned by the factory before the webview started.
var ErrWindowNotReady = errors.New("overlay window not started yet")

var (
	runtimeWindowGetSizeFn        = runtime.WindowGetSize
	runtimeWindowSetPositionFn    = runtime.WindowSetPosition
	runtimeWindowSetAlwaysOnTopFn = runtime.WindowSetAlwaysOnTop
	runtimeWindowShowFn           = runtime.WindowShow
	runtimeWindowHideFn           = runtime.WindowHide
	runtimeEventsEmitFn           = runtime.EventsEmit
	runtimeQuitFn                 = runtime.Quit
)

// WailsWindow drives the Wails main window as the overlay. The webview is
// created hidden by wails.Run; Attach hands over its runtime context.
type WailsWindow struct {
	mu       sync.Mutex
	ctx      context.Context
	quitting bool
}

// Attach stores the context passed to the Wails OnStartup hook.
func (w *WailsWindow) Attach(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctx = ctx
}

// Factory returns an overlay.Factory that yields w once attached.
func (w *WailsWindow) Factory() overlay.Factory {
	return func() (overlay.Window, error) {
		if w.context() == nil {
			return nil, ErrWindowNotReady
		}
		return w, nil
	}
}

func (w *WailsWindow) context() context.Context {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ctx
}

func (w *WailsWindow) Size() (int, int) {
	return runtimeWindowGetSizeFn(w.context())
}

func (w *WailsWindow) SetPosition(x, y int) {
	runtimeWindowSetPositionFn(w.context(), x, y)
}

// SetVisibleOnAllWorkspaces is a no-op: Wails v2 exposes no per-space
// visibility switch. The window joins full-screen spaces through the
// always-on-top level set by RaiseAboveOthers.
func (w *WailsWindow) SetVisibleOnAllWorkspaces(bool) {}

func (w *WailsWindow) RaiseAboveOthers() {
	runtimeWindowSetAlwaysOnTopFn(w.context(), true)
}

// ShowInactive and Focus both map to WindowShow; Wails has no show without
// activation.
func (w *WailsWindow) ShowInactive() {
	runtimeWindowShowFn(w.context())
}

func (w *WailsWindow) Focus() {
	runtimeWindowShowFn(w.context())
}

func (w *WailsWindow) Hide() {
	runtimeWindowHideFn(w.context())
}

func (w *WailsWindow) Send(event string, payload any) {
	runtimeEventsEmitFn(w.context(), event, payload)
}

// Quit ends the Wails application. Before Attach it does nothing.
func (w *WailsWindow) Quit() {
	w.mu.Lock()
	ctx := w.ctx
	if ctx != nil {
		w.quitting = true
	}
	w.mu.Unlock()

	if ctx != nil {
		runtimeQuitFn(ctx)
	}
}

// BeforeClose is the Wails OnBeforeClose hook. A close requested by Quit
// goes through; any other close only hides the overlay through closed.
func (w *WailsWindow) BeforeClose(closed func()) (prevent bool) {
	w.mu.Lock()
	quitting := w.quitting
	w.mu.Unlock()

	if quitting {
		return false
	}
	closed()
	return true
}
