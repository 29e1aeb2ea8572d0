package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MiniShowcase/internal/catalog"
	"MiniShowcase/internal/catalog/catalogtest"
)

func TestTable_FindByStringID(t *testing.T) {
	tbl, err := catalog.NewTable(catalogtest.Products())
	require.NoError(t, err)

	p, ok := tbl.Find("2")
	require.True(t, ok)
	assert.Equal(t, "Office Chair", p.Name)
	assert.False(t, p.InStock)

	for _, id := range []string{"", "3", " 1", "01", "1.0"} {
		_, ok := tbl.Find(id)
		assert.False(t, ok, "id %q", id)
	}
}

func TestTable_AllKeepsOrderAndIsACopy(t *testing.T) {
	tbl, err := catalog.NewTable(catalogtest.Products())
	require.NoError(t, err)

	all := tbl.All()
	require.Len(t, all, 2)
	assert.Equal(t, catalog.ProductID("1"), all[0].ID)
	assert.Equal(t, catalog.ProductID("2"), all[1].ID)

	all[0].Name = "mutated"
	p, _ := tbl.Find("1")
	assert.Equal(t, "Desk Lamp", p.Name)
}

func TestTable_InputSliceIsCopied(t *testing.T) {
	in := catalogtest.Products()
	tbl, err := catalog.NewTable(in)
	require.NoError(t, err)

	in[1].Name = "mutated"
	p, _ := tbl.Find("2")
	assert.Equal(t, "Office Chair", p.Name)
}

func TestTable_RejectsBadIDs(t *testing.T) {
	_, err := catalog.NewTable([]catalog.Product{{ID: "a"}, {ID: "a"}})
	require.True(t, errors.Is(err, catalog.ErrDuplicateID), "got %v", err)

	_, err = catalog.NewTable([]catalog.Product{{ID: "a"}, {ID: ""}})
	require.True(t, errors.Is(err, catalog.ErrEmptyID), "got %v", err)
}

func TestProductID_DecodesNumbersAndStrings(t *testing.T) {
	var ps []catalog.Product
	raw := `[{"id": 7, "price": 12.50}, {"id": "sku-9", "price": "3"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &ps))

	require.Len(t, ps, 2)
	assert.Equal(t, catalog.ProductID("7"), ps[0].ID)
	assert.Equal(t, catalog.ProductID("sku-9"), ps[1].ID)
	assert.True(t, ps[0].Price.Equal(decimal.RequireFromString("12.5")))

	var bad catalog.Product
	assert.Error(t, json.Unmarshal([]byte(`{"id": null}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"id": true}`), &bad))
}

func TestProductID_MatchesStringForm(t *testing.T) {
	cases := map[string]catalog.ProductID{
		`7`:    "7",
		`1.0`:  "1",
		`1e1`:  "10",
		`2.50`: "2.5",
		`" 7"`: " 7",
		`"07"`: "07",
	}
	for raw, want := range cases {
		var id catalog.ProductID
		require.NoError(t, json.Unmarshal([]byte(raw), &id), raw)
		assert.Equal(t, want, id, raw)
	}

	var ps []catalog.Product
	require.NoError(t, json.Unmarshal([]byte(`[{"id": "7"}, {"id": " 7"}]`), &ps))
	tbl, err := catalog.NewTable(ps)
	require.NoError(t, err, "distinct strings are distinct ids")

	_, ok := tbl.Find("7")
	assert.True(t, ok)
	p, ok := tbl.Find(" 7")
	require.True(t, ok)
	assert.Equal(t, catalog.ProductID(" 7"), p.ID)
}

func TestStars_Clamped(t *testing.T) {
	cases := map[float64]string{
		-3:  "☆☆☆☆☆",
		0:   "☆☆☆☆☆",
		2.4: "★★☆☆☆",
		2.5: "★★★☆☆",
		5:   "★★★★★",
		9.9: "★★★★★",
	}
	for in, want := range cases {
		assert.Equal(t, want, catalog.Stars(in), "rating %v", in)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₹500", catalog.FormatPrice(decimal.NewFromInt(500)))
	assert.Equal(t, "₹12.5", catalog.FormatPrice(decimal.RequireFromString("12.50")))
	assert.Equal(t, "In Stock", catalog.StockLabel(true))
	assert.Equal(t, "Out of Stock", catalog.StockLabel(false))
}
