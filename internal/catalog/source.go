package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"os"

	"github.com/go-faster/errors"
)

//go:embed data/products.json
var defaultProducts []byte

// Source yields the product collection in display order. It is read once
// at startup.
type Source interface {
	Load(ctx context.Context) ([]Product, error)
}

// JSONSource reads a JSON array of products from Path, or from the
// embedded default data when Path is empty.
type JSONSource struct {
	Path string
}

func (s JSONSource) Load(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := defaultProducts
	if s.Path != "" {
		b, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, errors.Wrap(err, "read products file")
		}
		raw = b
	}

	var out []Product
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return out, nil
}

// LoadTable reads src once and freezes the result.
func LoadTable(ctx context.Context, src Source) (*Table, error) {
	products, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	return NewTable(products)
}
