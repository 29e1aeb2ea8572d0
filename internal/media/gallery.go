package media

import (
	"github.com/go-faster/errors"
)

var ErrSlotOutOfRange = errors.New("gallery slot out of range")

// Gallery is an ordered, wrapping carousel of image slots.
type Gallery struct {
	slots []Slot
	index int
}

// NewGallery seeds the carousel with primary followed by extra.
func NewGallery(primary string, extra []string, fallback string) Gallery {
	slots := make([]Slot, 0, 1+len(extra))
	slots = append(slots, NewSlot(primary, fallback))
	for _, src := range extra {
		slots = append(slots, NewSlot(src, fallback))
	}
	return Gallery{slots: slots}
}

func (g *Gallery) Len() int { return len(g.slots) }

func (g *Gallery) Index() int { return g.index }

func (g *Gallery) Next() {
	if len(g.slots) == 0 {
		return
	}
	g.index = (g.index + 1) % len(g.slots)
}

func (g *Gallery) Prev() {
	if len(g.slots) == 0 {
		return
	}
	g.index = (g.index - 1 + len(g.slots)) % len(g.slots)
}

func (g *Gallery) Select(i int) error {
	if i < 0 || i >= len(g.slots) {
		return errors.Wrapf(ErrSlotOutOfRange, "index %d of %d", i, len(g.slots))
	}
	g.index = i
	return nil
}

// Fail applies the fallback to slot i. The active index is not affected.
func (g *Gallery) Fail(i int) (bool, error) {
	if i < 0 || i >= len(g.slots) {
		return false, errors.Wrapf(ErrSlotOutOfRange, "index %d of %d", i, len(g.slots))
	}
	return g.slots[i].Fail(), nil
}

func (g *Gallery) Current() string {
	if len(g.slots) == 0 {
		return ""
	}
	return g.slots[g.index].Src()
}

func (g *Gallery) Sources() []string {
	out := make([]string, len(g.slots))
	for i, s := range g.slots {
		out[i] = s.Src()
	}
	return out
}
