// Package media holds image references with a one-shot fallback to a
// default asset.
package media

import (
	"net/url"
	"strings"
)

// Slot is one rendered image. When the rendering layer reports a broken
// image the slot switches to its fallback, at most once, so a broken
// fallback can never cause a substitution loop.
type Slot struct {
	src      string
	fallback string
	applied  bool
}

// NewSlot starts on src, or directly on fallback when src is absent or not
// a usable URL reference.
func NewSlot(src, fallback string) Slot {
	if !usable(src) {
		return Slot{src: fallback, fallback: fallback, applied: true}
	}
	return Slot{src: src, fallback: fallback}
}

func (s Slot) Src() string { return s.src }

func (s Slot) FallbackApplied() bool { return s.applied }

// Fail records a load failure and reports whether the source changed.
func (s *Slot) Fail() bool {
	if s.applied {
		return false
	}
	s.applied = true
	s.src = s.fallback
	return true
}

func usable(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	_, err := url.Parse(ref)
	return err == nil
}
