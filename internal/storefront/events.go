package storefront

import (
	"github.com/go-faster/errors"

	"MiniShowcase/internal/detail"
	"MiniShowcase/internal/listing"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrMissingField = errors.New("missing event field")
)

// Event is a UI event posted by the rendering layer.
type Event struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Index *int   `json:"index,omitempty"`
	Slot  *int   `json:"slot,omitempty"`
	Tab   string `json:"tab,omitempty"`
}

const (
	EventToggleLike      = "toggleLike"
	EventNextSlide       = "nextSlide"
	EventPrevSlide       = "prevSlide"
	EventSelectThumbnail = "selectThumbnail"
	EventIncrementQty    = "incrementQty"
	EventDecrementQty    = "decrementQty"
	EventSelectTab       = "selectTab"
	EventGoBack          = "goBack"
	EventImageError      = "imageError"
)

func dispatchListing(p *listing.Presenter, ev Event) error {
	switch ev.Type {
	case EventToggleLike:
		if ev.ID == "" {
			return errors.Wrap(ErrMissingField, "id")
		}
		p.ToggleLike(ev.ID)
	case EventImageError:
		if ev.ID == "" {
			return errors.Wrap(ErrMissingField, "id")
		}
		p.OnImageError(ev.ID)
	default:
		return errors.Wrapf(ErrUnknownEvent, "%q for listing", ev.Type)
	}
	return nil
}

func dispatchDetail(p *detail.Presenter, ev Event) error {
	switch ev.Type {
	case EventToggleLike:
		return p.ToggleLike()
	case EventNextSlide:
		return p.NextSlide()
	case EventPrevSlide:
		return p.PrevSlide()
	case EventSelectThumbnail:
		if ev.Index == nil {
			return errors.Wrap(ErrMissingField, "index")
		}
		return p.SelectThumbnail(*ev.Index)
	case EventIncrementQty:
		return p.IncrementQty()
	case EventDecrementQty:
		return p.DecrementQty()
	case EventSelectTab:
		tab, err := detail.ParseTab(ev.Tab)
		if err != nil {
			return err
		}
		return p.SelectTab(tab)
	case EventGoBack:
		p.GoBack()
		return nil
	case EventImageError:
		if ev.Slot == nil {
			return errors.Wrap(ErrMissingField, "slot")
		}
		_, err := p.OnImageError(*ev.Slot)
		return err
	default:
		return errors.Wrapf(ErrUnknownEvent, "%q for detail", ev.Type)
	}
}
