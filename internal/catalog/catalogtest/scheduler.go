// Package catalogtest provides deterministic helpers for code built on
// catalog.Loader.
package catalogtest

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"MiniShowcase/internal/catalog"
)

// Scheduler queues callbacks until Fire is called.
type Scheduler struct {
	mu    sync.Mutex
	tasks []*task
}

type task struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *task) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *Scheduler) AfterFunc(d time.Duration, f func()) catalog.Stopper {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &task{d: d, f: f}
	s.tasks = append(s.tasks, t)
	return stopper{s: s, t: t}
}

type stopper struct {
	s *Scheduler
	t *task
}

func (st stopper) Stop() bool {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	return st.t.Stop()
}

// Pending counts scheduled callbacks that were neither fired nor stopped.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Fire runs every live callback in scheduling order and returns how many ran.
func (s *Scheduler) Fire() int {
	s.mu.Lock()
	var run []func()
	for _, t := range s.tasks {
		if t.stopped || t.fired {
			continue
		}
		t.fired = true
		run = append(run, t.f)
	}
	s.tasks = nil
	s.mu.Unlock()

	for _, f := range run {
		f()
	}
	return len(run)
}

// FireStale runs callbacks even if they were stopped, like a timer whose
// Stop lost the race against expiry.
func (s *Scheduler) FireStale() int {
	s.mu.Lock()
	run := make([]func(), 0, len(s.tasks))
	for _, t := range s.tasks {
		t.fired = true
		run = append(run, t.f)
	}
	s.tasks = nil
	s.mu.Unlock()

	for _, f := range run {
		f()
	}
	return len(run)
}

// Products is a small fixed collection: id "1" in stock at 500, id "2"
// out of stock at 900 without an image.
func Products() []catalog.Product {
	return []catalog.Product{
		{
			ID:          "1",
			Name:        "Desk Lamp",
			Description: "Adjustable LED desk lamp.",
			Brand:       "Lumen",
			Price:       decimal.NewFromInt(500),
			Rating:      4.4,
			Reviews:     12,
			InStock:     true,
			Image:       "/img/lamp.jpg",
			Link:        "https://shop.example.com/lamp",
		},
		{
			ID:          "2",
			Name:        "Office Chair",
			Description: "Mesh back office chair.",
			Brand:       "Sitwell",
			Price:       decimal.NewFromInt(900),
			Rating:      3.6,
			Reviews:     40,
			InStock:     false,
			Link:        "https://shop.example.com/chair",
		},
	}
}

// Loader returns a loader over Products driven by a fresh Scheduler.
func Loader() (*catalog.Loader, *Scheduler) {
	t, err := catalog.NewTable(Products())
	if err != nil {
		panic(err)
	}
	s := &Scheduler{}
	return catalog.NewLoader(t, catalog.WithScheduler(s)), s
}
