package listing

import (
	"MiniShowcase/internal/catalog"
)

// View is the render state of the grid.
type View struct {
	Loading bool   `json:"loading"`
	Cards   []Card `json:"cards"`
}

// Card is either a placeholder or one product tile.
type Card struct {
	Placeholder bool `json:"placeholder,omitempty"`

	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Price       string `json:"price,omitempty"`
	Description string `json:"description,omitempty"`
	InStock     bool   `json:"in_stock,omitempty"`
	StockLabel  string `json:"stock_label,omitempty"`
	Image       string `json:"image,omitempty"`
	DetailPath  string `json:"detail_path,omitempty"`

	Liked     bool   `json:"liked,omitempty"`
	LikeTitle string `json:"like_title,omitempty"`

	// AddToCartEnabled only gates the control; adding to cart has no effect.
	AddToCartEnabled bool   `json:"add_to_cart_enabled,omitempty"`
	BuyNowURL        string `json:"buy_now_url,omitempty"`
	BuyNowTarget     string `json:"buy_now_target,omitempty"`
}

const buyNowTarget = "_blank"

func (p *Presenter) Render() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loading {
		cards := make([]Card, PlaceholderCount)
		for i := range cards {
			cards[i] = Card{Placeholder: true}
		}
		return View{Loading: true, Cards: cards}
	}

	cards := make([]Card, 0, len(p.products))
	for _, product := range p.products {
		liked := p.liked[product.ID]
		cards = append(cards, Card{
			ID:               product.ID.String(),
			Name:             product.Name,
			Price:            catalog.FormatPrice(product.Price),
			Description:      product.Description,
			InStock:          product.InStock,
			StockLabel:       catalog.StockLabel(product.InStock),
			Image:            p.slot(product).Src(),
			DetailPath:       DetailPath(product.ID.String()),
			Liked:            liked,
			LikeTitle:        likeTitle(liked),
			AddToCartEnabled: product.InStock,
			BuyNowURL:        product.Link,
			BuyNowTarget:     buyNowTarget,
		})
	}
	return View{Cards: cards}
}

func DetailPath(id string) string {
	return "/products/" + id
}

func likeTitle(liked bool) string {
	if liked {
		return "Liked"
	}
	return "Like"
}
