package monitor

import (
	"context"
	"sync"
)

// Unit serializes every call into the Engine behind a single mutex and
// exposes Ready/Done lifecycle channels plus a cancellable context, the
// concrete mechanism a Monitor uses to meet the Engine's single-threaded,
// cooperative-dispatch requirement regardless of how many goroutines feed
// it inbound messages or timer fires.
type Unit struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc

	ready     chan struct{}
	readyOnce sync.Once
	done      chan struct{}
	doneOnce  sync.Once
}

// NewUnit returns a Unit in its not-yet-ready, not-yet-done state.
func NewUnit() *Unit {
	ctx, cancel := context.WithCancel(context.Background())
	return &Unit{
		ctx:    ctx,
		cancel: cancel,
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Do runs f with exclusive access: no two calls to Do ever execute
// concurrently against the same Unit. Every Engine entry point the
// Monitor exposes is wrapped in a call to Do.
func (u *Unit) Do(f func()) {
	u.mu.Lock()
	defer u.mu.Unlock()
	f()
}

// Ctx returns the Unit's context, cancelled by Stop.
func (u *Unit) Ctx() context.Context { return u.ctx }

// MarkReady closes the Ready channel; safe to call more than once.
func (u *Unit) MarkReady() { u.readyOnce.Do(func() { close(u.ready) }) }

// Ready closes once MarkReady has been called.
func (u *Unit) Ready() <-chan struct{} { return u.ready }

// Stop cancels the Unit's context and closes Done; safe to call more
// than once.
func (u *Unit) Stop() {
	u.cancel()
	u.doneOnce.Do(func() { close(u.done) })
}

// Done closes once Stop has been called.
func (u *Unit) Done() <-chan struct{} { return u.done }
