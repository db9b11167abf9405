package hotkey

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeHotkey struct {
	ch   chan struct{}
	once sync.Once
}

func (h *fakeHotkey) Keydown() <-chan struct{} { return h.ch }

func (h *fakeHotkey) Close() error {
	h.once.Do(func() { close(h.ch) })
	return nil
}

// fakeBackend is an in-memory hotkey table. failOn decides whether the
// attempt-th registration of accel (1-based) is refused.
type fakeBackend struct {
	mu         sync.Mutex
	registered map[string]*fakeHotkey
	attempts   map[string]int
	calls      int
	failOn     func(accel string, attempt int) bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		registered: make(map[string]*fakeHotkey),
		attempts:   make(map[string]int),
	}
}

func (b *fakeBackend) Register(accel string) (RegisteredHotkey, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls++
	b.attempts[accel]++
	if b.failOn != nil && b.failOn(accel, b.attempts[accel]) {
		return nil, errors.New("already taken by another application")
	}
	if existing, ok := b.registered[accel]; ok {
		return existing, nil
	}
	hk := &fakeHotkey{ch: make(chan struct{}, 1)}
	b.registered[accel] = hk
	return hk, nil
}

func (b *fakeBackend) Unregister(accel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if hk, ok := b.registered[accel]; ok {
		delete(b.registered, accel)
		return hk.Close()
	}
	return nil
}

func (b *fakeBackend) UnregisterAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for accel, hk := range b.registered {
		_ = hk.Close()
		delete(b.registered, accel)
	}
	return nil
}

func (b *fakeBackend) Name() string      { return "fake" }
func (b *fakeBackend) IsAvailable() bool { return true }

func (b *fakeBackend) keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, 0, len(b.registered))
	for accel := range b.registered {
		out = append(out, accel)
	}
	sort.Strings(out)
	return out
}

func (b *fakeBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func (b *fakeBackend) press(t *testing.T, accel string) {
	t.Helper()
	b.mu.Lock()
	hk, ok := b.registered[accel]
	b.mu.Unlock()
	require.True(t, ok, "accelerator %q is not registered", accel)
	hk.ch <- struct{}{}
}

type memStore struct {
	data    map[string]string
	loadErr error
	saveErr error
	saves   int
}

func (s *memStore) LoadBindings() (map[string]string, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out, nil
}

func (s *memStore) SaveBindings(m map[string]string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.data = m
	return nil
}

func sortedValues(m map[Action]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func startedRegistry(t *testing.T) (*Registry, *fakeBackend, *memStore, chan Action) {
	t.Helper()
	backend := newFakeBackend()
	store := &memStore{}
	reg := NewRegistry(backend, store, zerolog.Nop())

	fired := make(chan Action, 8)
	handlers := make(map[Action]func())
	for _, action := range Actions() {
		action := action
		handlers[action] = func() { fired <- action }
	}
	require.NoError(t, reg.Start(handlers))
	t.Cleanup(func() { _ = reg.Close() })
	return reg, backend, store, fired
}

func waitFired(t *testing.T, fired <-chan Action, want Action) {
	t.Helper()
	select {
	case got := <-fired:
		require.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatalf("handler for %s did not fire", want)
	}
}

func TestNewRegistryUsesDefaultsOnFirstRun(t *testing.T) {
	reg := NewRegistry(newFakeBackend(), &memStore{}, zerolog.Nop())
	require.Equal(t, DefaultBindings(), reg.GetBindings())
}

func TestNewRegistryFallsBackOnBadStore(t *testing.T) {
	tests := []struct {
		name  string
		store *memStore
	}{
		{"load error", &memStore{loadErr: errors.New("malformed json")}},
		{"duplicate", &memStore{data: map[string]string{
			"textSelection":  "ctrl+alt+t",
			"screenshotChat": "ctrl+alt+t",
		}}},
		{"protected", &memStore{data: map[string]string{"screenshotChat": "mod+c"}}},
		{"unparseable", &memStore{data: map[string]string{"screenshotExplain": "hyper+q"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry(newFakeBackend(), tt.store, zerolog.Nop())
			require.Equal(t, DefaultBindings(), reg.GetBindings())
		})
	}
}

func TestNewRegistryFillsMissingEntries(t *testing.T) {
	store := &memStore{data: map[string]string{"screenshotChat": "ctrl+alt+s"}}
	reg := NewRegistry(newFakeBackend(), store, zerolog.Nop())

	want := DefaultBindings()
	want[ActionScreenshotChat] = "ctrl+alt+s"
	require.Equal(t, want, reg.GetBindings())
}

func TestStartRegistersEveryBinding(t *testing.T) {
	reg, backend, _, fired := startedRegistry(t)

	bindings := reg.GetBindings()
	require.Equal(t, sortedValues(bindings), backend.keys())

	for _, action := range Actions() {
		backend.press(t, bindings[action])
		waitFired(t, fired, action)
	}
}

func TestStartReportsFailedRegistrations(t *testing.T) {
	backend := newFakeBackend()
	backend.failOn = func(accel string, _ int) bool { return accel == "mod+shift+X" }
	reg := NewRegistry(backend, &memStore{}, zerolog.Nop())

	err := reg.Start(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "screenshotChat")
	require.Equal(t, []string{"mod+shift+C", "mod+shift+E"}, backend.keys())
}

func TestUpdateBindingRejectsProtected(t *testing.T) {
	reg, backend, store, _ := startedRegistry(t)
	before := reg.GetBindings()
	calls := backend.callCount()

	for _, action := range Actions() {
		for _, accel := range ProtectedAccelerators() {
			err := reg.UpdateBinding(action, accel)
			require.ErrorIs(t, err, ErrProtected, "%s -> %s", action, accel)
			require.Equal(t, "Protected", ErrorCode(err))
		}
	}
	require.Equal(t, before, reg.GetBindings())
	require.Equal(t, calls, backend.callCount())
	require.Zero(t, store.saves)
}

func TestUpdateBindingRejectsDuplicate(t *testing.T) {
	reg, _, store, _ := startedRegistry(t)
	before := reg.GetBindings()

	for _, x := range Actions() {
		for _, y := range Actions() {
			if x == y {
				continue
			}
			err := reg.UpdateBinding(y, before[x])
			require.ErrorIs(t, err, ErrDuplicate, "%s onto %s", y, x)

			// Same chord, different spelling.
			respelled := strings.ToUpper(strings.Replace(before[x], "mod", PrimaryModifier(), 1))
			require.ErrorIs(t, reg.UpdateBinding(y, respelled), ErrDuplicate)
		}
	}
	require.Equal(t, before, reg.GetBindings())
	require.Zero(t, store.saves)
}

func TestUpdateBindingToOwnAcceleratorIsNoop(t *testing.T) {
	reg, backend, store, _ := startedRegistry(t)
	calls := backend.callCount()

	require.NoError(t, reg.UpdateBinding(ActionScreenshotChat, "mod+shift+X"))
	require.NoError(t, reg.UpdateBinding(ActionScreenshotChat, " MOD+Shift+x "))

	require.Equal(t, DefaultBindings(), reg.GetBindings())
	require.Equal(t, calls, backend.callCount())
	require.Zero(t, store.saves)
}

func TestUpdateBindingSuccess(t *testing.T) {
	reg, backend, store, fired := startedRegistry(t)

	require.NoError(t, reg.UpdateBinding(ActionScreenshotChat, "ctrl+alt+1"))

	bindings := reg.GetBindings()
	require.Equal(t, "ctrl+alt+1", bindings[ActionScreenshotChat])
	require.Equal(t, "ctrl+alt+1", store.data["screenshotChat"])
	require.Equal(t, sortedValues(bindings), backend.keys())
	require.NotContains(t, backend.keys(), "mod+shift+X")

	backend.press(t, "ctrl+alt+1")
	waitFired(t, fired, ActionScreenshotChat)
}

func TestUpdateBindingOSRejectedKeepsPrevious(t *testing.T) {
	reg, backend, store, fired := startedRegistry(t)
	backend.failOn = func(accel string, _ int) bool { return accel == "ctrl+alt+1" }

	err := reg.UpdateBinding(ActionScreenshotChat, "ctrl+alt+1")
	require.ErrorIs(t, err, ErrOSRejected)
	require.Equal(t, "OSRejected", ErrorCode(err))

	require.Equal(t, DefaultBindings(), reg.GetBindings())
	require.Zero(t, store.saves)
	backend.press(t, "mod+shift+X")
	waitFired(t, fired, ActionScreenshotChat)
}

func TestUpdateBindingPersistFailureRollsBack(t *testing.T) {
	reg, backend, store, _ := startedRegistry(t)
	store.saveErr = errors.New("disk full")

	err := reg.UpdateBinding(ActionTextSelection, "ctrl+alt+t")
	require.ErrorIs(t, err, ErrPersistFailed)

	require.Equal(t, DefaultBindings(), reg.GetBindings())
	require.Equal(t, sortedValues(DefaultBindings()), backend.keys())
}

func TestUpdateBindingRebuildFailureRollsBack(t *testing.T) {
	reg, backend, store, _ := startedRegistry(t)
	// The trial registration succeeds, the rebuild that follows does not.
	backend.failOn = func(accel string, attempt int) bool { return accel == "ctrl+alt+t" && attempt >= 2 }

	err := reg.UpdateBinding(ActionTextSelection, "ctrl+alt+t")
	require.ErrorIs(t, err, ErrOSRejected)

	require.Equal(t, DefaultBindings(), reg.GetBindings())
	require.Equal(t, "mod+shift+C", store.data["textSelection"])
	require.Equal(t, sortedValues(DefaultBindings()), backend.keys())
}

func TestUpdateBindingValidation(t *testing.T) {
	reg, _, _, _ := startedRegistry(t)

	err := reg.UpdateBinding(Action("bogus"), "ctrl+alt+b")
	require.ErrorIs(t, err, ErrUnknownAction)

	err = reg.UpdateBinding(ActionTextSelection, "ctrl+alt+escap")
	require.ErrorIs(t, err, ErrInvalidAccelerator)
	require.Equal(t, "Invalid", ErrorCode(err))
	require.Contains(t, err.Error(), `did you mean "escape"`)
}

func TestConsecutiveUpdatesUseInMemoryTable(t *testing.T) {
	reg, _, store, _ := startedRegistry(t)

	require.NoError(t, reg.UpdateBinding(ActionScreenshotChat, "ctrl+alt+1"))
	store.data = nil // disk is never consulted for conflicts
	require.ErrorIs(t, reg.UpdateBinding(ActionScreenshotExplain, "ctrl+alt+1"), ErrDuplicate)
	require.NoError(t, reg.UpdateBinding(ActionScreenshotExplain, "mod+shift+X"))
}

func TestResetToDefaults(t *testing.T) {
	reg, backend, store, _ := startedRegistry(t)
	require.NoError(t, reg.UpdateBinding(ActionScreenshotChat, "ctrl+alt+1"))
	require.NoError(t, reg.UpdateBinding(ActionTextSelection, "ctrl+alt+2"))

	require.NoError(t, reg.ResetToDefaults())

	require.Equal(t, DefaultBindings(), reg.GetBindings())
	require.Equal(t, "mod+shift+X", store.data["screenshotChat"])
	require.Equal(t, sortedValues(DefaultBindings()), backend.keys())
}

func TestResetToDefaultsKeepsDefaultsOnFailure(t *testing.T) {
	reg, backend, store, _ := startedRegistry(t)
	require.NoError(t, reg.UpdateBinding(ActionScreenshotChat, "ctrl+alt+1"))

	store.saveErr = errors.New("read-only")
	backend.failOn = func(accel string, _ int) bool { return accel == "mod+shift+E" }

	err := reg.ResetToDefaults()
	require.ErrorIs(t, err, ErrPersistFailed)
	require.ErrorIs(t, err, ErrOSRejected)
	require.Equal(t, DefaultBindings(), reg.GetBindings())
}

func TestSuspendAndResume(t *testing.T) {
	reg, backend, _, fired := startedRegistry(t)
	require.NoError(t, reg.BindEscape(func() {}))
	before := backend.keys()

	reg.SuspendAll()
	reg.SuspendAll()
	require.False(t, reg.Enabled())
	require.Equal(t, []string{EscapeAccelerator}, backend.keys())
	require.Empty(t, reg.ActiveAccelerators())

	require.NoError(t, reg.ResumeAll())
	require.NoError(t, reg.ResumeAll())
	require.True(t, reg.Enabled())
	require.Equal(t, before, backend.keys())

	bindings := reg.GetBindings()
	for _, action := range Actions() {
		backend.press(t, bindings[action])
		waitFired(t, fired, action)
	}
}

func TestUpdateWhileSuspendedRegistersOnResume(t *testing.T) {
	reg, backend, _, fired := startedRegistry(t)

	reg.SuspendAll()
	require.NoError(t, reg.UpdateBinding(ActionScreenshotExplain, "ctrl+alt+e"))
	require.Empty(t, backend.keys())

	require.NoError(t, reg.ResumeAll())
	require.Contains(t, backend.keys(), "ctrl+alt+e")
	backend.press(t, "ctrl+alt+e")
	waitFired(t, fired, ActionScreenshotExplain)
}

func TestEscapeBinding(t *testing.T) {
	reg, backend, _, _ := startedRegistry(t)
	pressed := make(chan struct{}, 1)

	require.NoError(t, reg.UnbindEscape())
	require.NoError(t, reg.BindEscape(func() { pressed <- struct{}{} }))
	calls := backend.callCount()
	require.NoError(t, reg.BindEscape(func() {}))
	require.Equal(t, calls, backend.callCount())

	backend.press(t, EscapeAccelerator)
	select {
	case <-pressed:
	case <-time.After(time.Second):
		t.Fatal("escape handler did not fire")
	}

	// Rebuilds leave escape alone.
	require.NoError(t, reg.UpdateBinding(ActionTextSelection, "ctrl+alt+t"))
	require.Contains(t, backend.keys(), EscapeAccelerator)

	require.NoError(t, reg.UnbindEscape())
	require.NoError(t, reg.UnbindEscape())
	require.NotContains(t, backend.keys(), EscapeAccelerator)
}

func TestBindEscapeFailure(t *testing.T) {
	reg, backend, _, _ := startedRegistry(t)
	backend.failOn = func(accel string, _ int) bool { return accel == EscapeAccelerator }

	require.ErrorIs(t, reg.BindEscape(func() {}), ErrOSRejected)
	// A failed bind leaves the registry unbound so a later attempt retries.
	backend.failOn = nil
	require.NoError(t, reg.BindEscape(func() {}))
	require.Contains(t, backend.keys(), EscapeAccelerator)
}

func TestHandlerPanicDoesNotStopListener(t *testing.T) {
	backend := newFakeBackend()
	reg := NewRegistry(backend, nil, zerolog.Nop())
	t.Cleanup(func() { _ = reg.Close() })

	calls := make(chan int, 2)
	n := 0
	require.NoError(t, reg.Start(map[Action]func(){
		ActionTextSelection: func() {
			n++
			calls <- n
			if n == 1 {
				panic("boom")
			}
		},
	}))

	for want := 1; want <= 2; want++ {
		backend.press(t, "mod+shift+C")
		select {
		case got := <-calls:
			require.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatalf("press %d was not handled", want)
		}
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrProtected, "Protected"},
		{ErrDuplicate, "Duplicate"},
		{ErrOSRejected, "OSRejected"},
		{ErrBackendNotAvailable, "OSRejected"},
		{ErrPersistFailed, "PersistFailed"},
		{ErrInvalidAccelerator, "Invalid"},
		{ErrUnknownAction, "UnknownAction"},
		{errors.New("other"), "Error"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ErrorCode(tt.err))
	}
}
