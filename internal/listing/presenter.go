// Package listing presents the product grid.
package listing

import (
	"sync"

	"go.uber.org/zap"

	"MiniShowcase/internal/catalog"
	"MiniShowcase/internal/media"
)

const (
	PlaceholderCount = 8

	DefaultImage = "./src/Page/Assemby_Service.jpeg"
)

type Hooks struct {
	Loaded        func(products int)
	ImageFallback func()
}

type Options struct {
	DefaultImage string
	Log          *zap.Logger
	Hooks        Hooks
}

// Presenter owns the state of one mounted listing view. Events and the
// load callback are serialized by mu.
type Presenter struct {
	loader       *catalog.Loader
	defaultImage string
	log          *zap.Logger
	hooks        Hooks

	mu       sync.Mutex
	mounted  bool
	loading  bool
	gen      uint64
	pending  *catalog.Pending
	products []catalog.Product
	liked    map[catalog.ProductID]bool
	images   map[catalog.ProductID]*media.Slot
}

func New(loader *catalog.Loader, opts Options) *Presenter {
	if opts.DefaultImage == "" {
		opts.DefaultImage = DefaultImage
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Presenter{
		loader:       loader,
		defaultImage: opts.DefaultImage,
		log:          opts.Log,
		hooks:        opts.Hooks,
		loading:      true,
		liked:        map[catalog.ProductID]bool{},
		images:       map[catalog.ProductID]*media.Slot{},
	}
}

// Mount starts the simulated fetch. Mounting twice is a no-op.
func (p *Presenter) Mount() *catalog.Pending {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mounted {
		return p.pending
	}
	p.mounted = true
	p.gen++

	gen := p.gen
	p.pending = p.loader.LoadAll(func(products []catalog.Product) {
		p.resolve(gen, products)
	})
	return p.pending
}

// resolve drops results that belong to an earlier mount.
func (p *Presenter) resolve(gen uint64, products []catalog.Product) {
	p.mu.Lock()
	if !p.mounted || p.gen != gen {
		p.mu.Unlock()
		return
	}
	p.products = products
	p.loading = false
	p.mu.Unlock()

	p.log.Debug("listing loaded", zap.Int("products", len(products)))
	if p.hooks.Loaded != nil {
		p.hooks.Loaded(len(products))
	}
}

// Unmount cancels a pending load and drops all session state.
func (p *Presenter) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending != nil {
		p.pending.Cancel()
	}
	p.pending = nil
	p.gen++
	p.mounted = false
	p.loading = true
	p.products = nil
	p.liked = map[catalog.ProductID]bool{}
	p.images = map[catalog.ProductID]*media.Slot{}
}

// Pending returns the current load handle, or nil when unmounted.
func (p *Presenter) Pending() *catalog.Pending {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

func (p *Presenter) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// ToggleLike flips the like of a catalog product. Ids outside the catalog
// are ignored.
func (p *Presenter) ToggleLike(id string) {
	if !p.loader.Has(id) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	pid := catalog.ProductID(id)
	if p.liked[pid] {
		delete(p.liked, pid)
		return
	}
	p.liked[pid] = true
}

func (p *Presenter) Liked(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.liked[catalog.ProductID(id)]
}

func (p *Presenter) ImageFor(product catalog.Product) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.slot(product).Src()
}

// OnImageError swaps the card's image for the default. Only the first
// report per card has an effect.
func (p *Presenter) OnImageError(id string) bool {
	p.mu.Lock()
	var changed bool
	for _, product := range p.products {
		if product.ID == catalog.ProductID(id) {
			changed = p.slot(product).Fail()
			break
		}
	}
	p.mu.Unlock()

	if changed {
		p.log.Debug("listing image fallback", zap.String("id", id))
		if p.hooks.ImageFallback != nil {
			p.hooks.ImageFallback()
		}
	}
	return changed
}

func (p *Presenter) slot(product catalog.Product) *media.Slot {
	s, ok := p.images[product.ID]
	if !ok {
		ns := media.NewSlot(product.Image, p.defaultImage)
		s = &ns
		p.images[product.ID] = s
	}
	return s
}
