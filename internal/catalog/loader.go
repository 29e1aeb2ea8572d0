package catalog

import (
	"time"

	"go.uber.org/zap"
)

// DefaultLoadDelay mimics the latency of a remote catalog fetch.
const DefaultLoadDelay = 1800 * time.Millisecond

type Loader struct {
	table *Table
	delay time.Duration
	sched Scheduler
	log   *zap.Logger
}

type LoaderOption func(*Loader)

func WithDelay(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d >= 0 {
			l.delay = d
		}
	}
}

func WithScheduler(s Scheduler) LoaderOption {
	return func(l *Loader) { l.sched = s }
}

func WithLogger(log *zap.Logger) LoaderOption {
	return func(l *Loader) { l.log = log }
}

func NewLoader(t *Table, opts ...LoaderOption) *Loader {
	l := &Loader{
		table: t,
		delay: DefaultLoadDelay,
		sched: SystemScheduler{},
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Loader) Delay() time.Duration { return l.delay }

// Has reports whether id is in the table, without waiting for the delay.
func (l *Loader) Has(id string) bool {
	_, ok := l.table.Find(id)
	return ok
}

// LoadAll delivers the whole collection to fn after the load delay.
func (l *Loader) LoadAll(fn func([]Product)) *Pending {
	return schedule(l.sched, l.delay, func() {
		products := l.table.All()
		l.log.Debug("catalog loaded", zap.Int("products", len(products)))
		fn(products)
	})
}

// LoadOne delivers the product whose id equals id, or ok=false.
func (l *Loader) LoadOne(id string, fn func(p Product, ok bool)) *Pending {
	return schedule(l.sched, l.delay, func() {
		p, ok := l.table.Find(id)
		l.log.Debug("product resolved", zap.String("id", id), zap.Bool("found", ok))
		fn(p, ok)
	})
}
