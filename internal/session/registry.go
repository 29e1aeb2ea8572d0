// Package session keeps the mounted views of connected clients.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUnknownSession = errors.New("unknown view session")

type Kind string

const (
	KindListing Kind = "listing"
	KindDetail  Kind = "detail"
)

func (k Kind) Valid() bool {
	return k == KindListing || k == KindDetail
}

// View is a mounted presenter.
type View interface {
	Unmount()
}

type Entry struct {
	ID   string
	Kind Kind
	View View
}

type entry struct {
	Entry
	lastSeen time.Time
}

// Registry owns mounted views. Views idle for longer than the TTL are
// unmounted by Sweep.
type Registry struct {
	ttl time.Duration
	log *zap.Logger
	now func() time.Time

	// OnRemove, if set, is called after a view is unmounted.
	OnRemove func(Kind)

	mu    sync.Mutex
	items map[string]*entry
}

func NewRegistry(ttl time.Duration, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		ttl:   ttl,
		log:   log,
		now:   time.Now,
		items: make(map[string]*entry),
	}
}

func (r *Registry) Add(kind Kind, v View) string {
	id := uuid.NewString()

	r.mu.Lock()
	r.items[id] = &entry{
		Entry:    Entry{ID: id, Kind: kind, View: v},
		lastSeen: r.now(),
	}
	r.mu.Unlock()

	r.log.Debug("view mounted", zap.String("session", id), zap.String("kind", string(kind)))
	return id
}

// Get returns the view and marks it as recently used.
func (r *Registry) Get(id string) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]
	if !ok {
		return Entry{}, errors.Wrapf(ErrUnknownSession, "%s", id)
	}
	e.lastSeen = r.now()
	return e.Entry, nil
}

// Remove unmounts and forgets the view.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	e, ok := r.items[id]
	delete(r.items, id)
	r.mu.Unlock()

	if !ok {
		return errors.Wrapf(ErrUnknownSession, "%s", id)
	}
	r.unmount(e.Entry, "removed")
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep unmounts views idle since before now-TTL and returns how many.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.ttl)

	r.mu.Lock()
	var expired []Entry
	for id, e := range r.items {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.Entry)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for _, e := range expired {
		r.unmount(e, "expired")
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then unmounts everything.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Close()
			return nil
		case <-t.C:
			if n := r.Sweep(r.now()); n > 0 {
				r.log.Info("expired idle views", zap.Int("count", n))
			}
		}
	}
}

// Close unmounts every view.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]Entry, 0, len(r.items))
	for _, e := range r.items {
		all = append(all, e.Entry)
	}
	r.items = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range all {
		r.unmount(e, "closed")
	}
}

func (r *Registry) unmount(e Entry, reason string) {
	e.View.Unmount()
	r.log.Debug("view unmounted",
		zap.String("session", e.ID),
		zap.String("kind", string(e.Kind)),
		zap.String("reason", reason),
	)
	if r.OnRemove != nil {
		r.OnRemove(e.Kind)
	}
}
