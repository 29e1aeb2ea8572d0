package catalog

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CurrencyGlyph = "₹"
	MaxRating     = 5
)

func FormatPrice(p decimal.Decimal) string {
	return CurrencyGlyph + p.String()
}

// Stars renders a rating as MaxRating glyphs. Out-of-range and NaN ratings
// are clamped.
func Stars(rating float64) string {
	r := math.Round(rating)
	if math.IsNaN(r) {
		r = 0
	}
	n := int(math.Max(0, math.Min(MaxRating, r)))
	return strings.Repeat("★", n) + strings.Repeat("☆", MaxRating-n)
}

func StockLabel(inStock bool) string {
	if inStock {
		return "In Stock"
	}
	return "Out of Stock"
}
