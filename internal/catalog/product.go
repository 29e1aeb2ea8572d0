package catalog

import (
	"bytes"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Product is a read-only catalog entry.
type Product struct {
	ID          ProductID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	Reviews     int             `json:"reviews"`
	InStock     bool            `json:"inStock"`
	Image       string          `json:"image,omitempty"`
	Link        string          `json:"link,omitempty"`
}

// ProductID is always compared in its string form. Data files may carry it
// as a JSON number, so decoding accepts both.
type ProductID string

func (id ProductID) String() string { return string(id) }

func (id *ProductID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return errors.New("product id: empty")
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errors.Wrap(err, "product id")
		}
		*id = ProductID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrap(err, "product id")
	}
	// 1.0 and 1e0 both name product "1"
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return errors.Wrap(err, "product id")
	}
	*id = ProductID(d.String())
	return nil
}
