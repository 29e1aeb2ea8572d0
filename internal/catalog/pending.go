package catalog

import (
	"context"
	"sync"
	"time"
)

// Stopper is the handle of a scheduled callback.
type Stopper interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Stopper
}

type SystemScheduler struct{}

func (SystemScheduler) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

type pendingState int

const (
	statePending pendingState = iota
	stateSettled
	stateCancelled
)

// Pending is a one-shot deferred load. It moves from pending to either
// settled (the callback ran) or cancelled (it never will).
type Pending struct {
	mu    sync.Mutex
	state pendingState
	timer Stopper
	done  chan struct{}
}

func schedule(s Scheduler, d time.Duration, deliver func()) *Pending {
	p := &Pending{done: make(chan struct{})}
	p.timer = s.AfterFunc(d, func() { p.settle(deliver) })
	return p
}

func (p *Pending) settle(deliver func()) {
	p.mu.Lock()
	if p.state != statePending {
		p.mu.Unlock()
		return
	}
	p.state = stateSettled
	p.mu.Unlock()

	deliver()
	close(p.done)
}

// Cancel stops the pending load. It reports whether the callback was
// prevented; false means it already ran or was cancelled before.
func (p *Pending) Cancel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != statePending {
		return false
	}
	p.state = stateCancelled
	if p.timer != nil {
		p.timer.Stop()
	}
	close(p.done)
	return true
}

func (p *Pending) Settled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == stateSettled
}

func (p *Pending) Cancelled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == stateCancelled
}

// Done is closed once the callback has returned or the load was cancelled.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until Done or ctx ends.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
