package detail

import (
	"encoding/json"

	"github.com/go-faster/errors"
)

type Status int

const (
	StatusLoading Status = iota
	StatusFound
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

type Tab int

const (
	TabDescription Tab = iota
	TabSpecifications
	TabReviews
)

var ErrUnknownTab = errors.New("unknown tab")

// Tabs lists every tab in display order.
func Tabs() []Tab {
	return []Tab{TabDescription, TabSpecifications, TabReviews}
}

func (t Tab) String() string {
	switch t {
	case TabDescription:
		return "Description"
	case TabSpecifications:
		return "Specifications"
	case TabReviews:
		return "Reviews"
	default:
		return "unknown"
	}
}

func (t Tab) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func ParseTab(s string) (Tab, error) {
	for _, t := range Tabs() {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownTab, "%q", s)
}
