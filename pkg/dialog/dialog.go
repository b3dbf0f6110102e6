// Package dialog is a modal dialog manager: one overlay, one visible
// dialog at a time, answers delivered as Results instead of blocking the
// caller.
package dialog

import (
	"context"
	"sync"
	"time"
)

type Kind string

const (
	KindAlert   Kind = "alert"
	KindConfirm Kind = "confirm"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultFade is how long a hidden overlay stays attached.
const DefaultFade = 300 * time.Millisecond

// Dialog is what an Overlay is asked to render.
type Dialog struct {
	Kind    Kind
	Title   string
	Message string
}

// Cancellable reports whether the dialog offers a decline control.
func (d Dialog) Cancellable() bool { return d.Kind == KindConfirm }

// declineValue is the answer a dialog resolves with when it is declined,
// clicked outside of, or superseded. Only confirm can answer false.
func (d Dialog) declineValue() bool { return d.Kind != KindConfirm }

// Overlay is the single surface dialogs are drawn on.
type Overlay interface {
	// Render shows d, replacing whatever was shown before.
	Render(d Dialog)
	// Hide starts the fade-out.
	Hide()
	// Detach removes the overlay from the interaction layer once faded.
	Detach()
}

// Result is the eventual answer to one dialog. It never fails.
type Result struct {
	done  chan struct{}
	once  sync.Once
	value bool
	dflt  bool
}

func newResult(dflt bool) *Result {
	return &Result{done: make(chan struct{}), dflt: dflt}
}

func (r *Result) resolve(v bool) {
	r.once.Do(func() {
		r.value = v
		close(r.done)
	})
}

// Done is closed once the dialog has been answered.
func (r *Result) Done() <-chan struct{} { return r.done }

// Wait blocks until the dialog is answered. If ctx ends first the
// dialog's decline value is returned.
func (r *Result) Wait(ctx context.Context) bool {
	select {
	case <-r.done:
		return r.value
	case <-ctx.Done():
		return r.dflt
	}
}

// Manager owns exactly one Overlay, created on first use.
type Manager struct {
	mu         sync.Mutex
	newOverlay func() Overlay
	overlay    Overlay
	fade       time.Duration
	afterFunc  func(time.Duration, func())

	current    *Result
	shown      Dialog
	visible    bool
	dismissing bool
	generation uint64
}

type Option func(*Manager)

// WithFade overrides DefaultFade.
func WithFade(d time.Duration) Option {
	return func(m *Manager) { m.fade = d }
}

// NewManager returns a Manager whose overlay is built by factory when the
// first dialog is shown.
func NewManager(factory func() Overlay, opts ...Option) *Manager {
	m := &Manager{
		newOverlay: factory,
		fade:       DefaultFade,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Alert resolves true once acknowledged.
func (m *Manager) Alert(message, title string) *Result {
	return m.show(Dialog{Kind: KindAlert, Title: title, Message: message})
}

// Confirm resolves true on accept and false on decline or outside click.
func (m *Manager) Confirm(message, title string) *Result {
	return m.show(Dialog{Kind: KindConfirm, Title: title, Message: message})
}

func (m *Manager) Success(message, title string) *Result {
	return m.show(Dialog{Kind: KindSuccess, Title: title, Message: message})
}

func (m *Manager) Error(message, title string) *Result {
	return m.show(Dialog{Kind: KindError, Title: title, Message: message})
}

func (m *Manager) show(d Dialog) *Result {
	m.mu.Lock()
	if m.overlay == nil {
		m.overlay = m.newOverlay()
	}
	prev := m.current
	prevDecline := m.shown.declineValue()

	r := newResult(d.declineValue())
	m.current = r
	m.shown = d
	m.visible = true
	m.dismissing = false
	m.generation++
	m.overlay.Render(d)
	m.mu.Unlock()

	if prev != nil {
		prev.resolve(prevDecline)
	}
	return r
}

// Accept activates the primary control of the visible dialog.
func (m *Manager) Accept() { m.dismiss(true) }

// Decline activates the cancel control. Alert-type dialogs have none and
// still resolve true.
func (m *Manager) Decline() { m.dismiss(false) }

// ClickOutside behaves as Decline.
func (m *Manager) ClickOutside() { m.dismiss(false) }

// Visible reports whether a dialog is showing and not being dismissed.
func (m *Manager) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible && !m.dismissing
}

func (m *Manager) dismiss(accepted bool) {
	m.mu.Lock()
	if !m.visible || m.dismissing {
		m.mu.Unlock()
		return
	}
	m.dismissing = true
	r := m.current
	value := accepted || m.shown.declineValue()
	m.current = nil
	gen := m.generation
	m.overlay.Hide()
	m.mu.Unlock()

	m.afterFunc(m.fade, func() { m.detach(gen) })

	if r != nil {
		r.resolve(value)
	}
}

// detach completes a dismissal unless a newer dialog was shown during the
// fade.
func (m *Manager) detach(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.generation || !m.dismissing {
		return
	}
	m.overlay.Detach()
	m.visible = false
	m.dismissing = false
}
