package catalog

import (
	"github.com/go-faster/errors"
)

var (
	ErrEmptyID     = errors.New("product with empty id")
	ErrDuplicateID = errors.New("duplicate product id")
)

// Table is the process-wide product collection. It is built once from a
// Source and never written to afterwards, so readers need no locking.
type Table struct {
	products []Product
	byID     map[ProductID]int
}

func NewTable(products []Product) (*Table, error) {
	t := &Table{
		products: make([]Product, len(products)),
		byID:     make(map[ProductID]int, len(products)),
	}
	copy(t.products, products)

	for i, p := range t.products {
		if p.ID == "" {
			return nil, errors.Wrapf(ErrEmptyID, "position %d", i)
		}
		if _, dup := t.byID[p.ID]; dup {
			return nil, errors.Wrapf(ErrDuplicateID, "id %q", p.ID)
		}
		t.byID[p.ID] = i
	}
	return t, nil
}

func (t *Table) Len() int { return len(t.products) }

// All returns the collection in source order. The slice is a copy.
func (t *Table) All() []Product {
	out := make([]Product, len(t.products))
	copy(out, t.products)
	return out
}

// Find resolves id by string equality.
func (t *Table) Find(id string) (Product, bool) {
	i, ok := t.byID[ProductID(id)]
	if !ok {
		return Product{}, false
	}
	return t.products[i], true
}
