package detail

import (
	"strconv"

	"MiniShowcase/internal/catalog"
)

const (
	ListingPath = "/products"

	buyNowTarget = "_blank"
	buyNowRel    = "noopener noreferrer"
)

// View is the render state of the detail page. Only the block matching
// Status is populated.
type View struct {
	ID       string    `json:"id"`
	Status   Status    `json:"status"`
	Product  *Pane     `json:"product,omitempty"`
	NotFound *NotFound `json:"not_found,omitempty"`
}

type NotFound struct {
	Title    string `json:"title"`
	BackPath string `json:"back_path"`
	BackText string `json:"back_text"`
}

type Pane struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Stars       string `json:"stars"`
	Reviews     int    `json:"reviews"`
	StockLabel  string `json:"stock_label"`
	InStock     bool   `json:"in_stock"`

	Gallery  GalleryView `json:"gallery"`
	Quantity int         `json:"quantity"`
	Liked    bool        `json:"liked"`

	AddToCart Action `json:"add_to_cart"`
	BuyNow    Action `json:"buy_now"`

	Tabs      []TabView  `json:"tabs"`
	ActiveTab Tab        `json:"active_tab"`
	Content   TabContent `json:"content"`
	BackPath  string     `json:"back_path"`
}

type GalleryView struct {
	Index   int      `json:"index"`
	Current string   `json:"current"`
	Images  []string `json:"images"`
}

// Action is a button or link. A disabled action is inert.
type Action struct {
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Href    string `json:"href,omitempty"`
	Target  string `json:"target,omitempty"`
	Rel     string `json:"rel,omitempty"`
}

type TabView struct {
	Tab    Tab  `json:"tab"`
	Active bool `json:"active"`
}

type TabContent struct {
	Tab   Tab      `json:"tab"`
	Lines []string `json:"lines"`
}

func (p *Presenter) Render() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{ID: p.id, Status: p.status}
	switch p.status {
	case StatusNotFound:
		v.NotFound = &NotFound{
			Title:    "Product Not Found",
			BackPath: ListingPath,
			BackText: "Back to Products",
		}
	case StatusFound:
		v.Product = p.pane()
	}
	return v
}

func (p *Presenter) pane() *Pane {
	pr := p.product

	tabs := make([]TabView, 0, len(Tabs()))
	for _, t := range Tabs() {
		tabs = append(tabs, TabView{Tab: t, Active: t == p.tab})
	}

	return &Pane{
		Name:        pr.Name,
		Price:       catalog.FormatPrice(pr.Price),
		Description: pr.Description,
		Stars:       catalog.Stars(pr.Rating),
		Reviews:     pr.Reviews,
		StockLabel:  catalog.StockLabel(pr.InStock),
		InStock:     pr.InStock,
		Gallery: GalleryView{
			Index:   p.gallery.Index(),
			Current: p.gallery.Current(),
			Images:  p.gallery.Sources(),
		},
		Quantity: p.quantity,
		Liked:    p.liked,
		AddToCart: Action{
			Label:   "Add to Cart",
			Enabled: pr.InStock,
		},
		BuyNow: Action{
			Label:   "Buy Now",
			Enabled: true,
			Href:    pr.Link,
			Target:  buyNowTarget,
			Rel:     buyNowRel,
		},
		Tabs:      tabs,
		ActiveTab: p.tab,
		Content:   Content(pr, p.tab),
		BackPath:  ListingPath,
	}
}

// Content derives a tab's text from the product alone.
func Content(pr catalog.Product, t Tab) TabContent {
	var lines []string
	switch t {
	case TabDescription:
		lines = []string{pr.Description}
	case TabSpecifications:
		stock := "Available"
		if !pr.InStock {
			stock = "Out of Stock"
		}
		lines = []string{
			"Brand: " + pr.Brand,
			"Price: " + catalog.FormatPrice(pr.Price),
			"Stock: " + stock,
		}
	case TabReviews:
		lines = []string{
			strconv.Itoa(pr.Reviews) + " customer reviews.",
			"Customer reviews coming soon!",
		}
	}
	return TabContent{Tab: t, Lines: lines}
}
