// Package detail presents a single product: gallery, quantity stepper,
// like toggle and tabbed information, or a not-found fallback.
package detail

import (
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"MiniShowcase/internal/catalog"
	"MiniShowcase/internal/media"
)

const DefaultImage = "/assets/Product_Page/default.jpg"

// DefaultGallery are the supplementary images shown after the product's own.
var DefaultGallery = []string{
	"/assets/Product_Page/gallery1.jpg",
	"/assets/Product_Page/gallery2.jpg",
	"/assets/Product_Page/gallery3.jpg",
	"/assets/Product_Page/gallery4.jpg",
}

// ErrNoProduct rejects product events while loading or after not-found.
var ErrNoProduct = errors.New("no product resolved")

// Navigator is the router's "back to listing" action.
type Navigator interface {
	GoToListing()
}

type NavigatorFunc func()

func (f NavigatorFunc) GoToListing() { f() }

type Hooks struct {
	Resolved      func(found bool)
	ImageFallback func()
}

type Options struct {
	DefaultImage string
	Gallery      []string
	Log          *zap.Logger
	Hooks        Hooks
}

// Presenter owns the state of one mounted detail view. Events and the load
// callback are serialized by mu.
type Presenter struct {
	loader       *catalog.Loader
	nav          Navigator
	defaultImage string
	extra        []string
	log          *zap.Logger
	hooks        Hooks

	mu       sync.Mutex
	mounted  bool
	id       string
	gen      uint64
	pending  *catalog.Pending
	status   Status
	product  catalog.Product
	liked    bool
	quantity int
	tab      Tab
	gallery  media.Gallery
}

func New(loader *catalog.Loader, nav Navigator, opts Options) *Presenter {
	if opts.DefaultImage == "" {
		opts.DefaultImage = DefaultImage
	}
	if opts.Gallery == nil {
		opts.Gallery = DefaultGallery
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if nav == nil {
		nav = NavigatorFunc(func() {})
	}

	extra := make([]string, len(opts.Gallery))
	copy(extra, opts.Gallery)

	return &Presenter{
		loader:       loader,
		nav:          nav,
		defaultImage: opts.DefaultImage,
		extra:        extra,
		log:          opts.Log,
		hooks:        opts.Hooks,
		quantity:     1,
	}
}

// SetID mounts the view for id, or restarts it when id differs from the
// current one. The returned handle settles when the product is resolved.
func (p *Presenter) SetID(id string) *catalog.Pending {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mounted && p.id == id {
		return p.pending
	}
	if p.pending != nil {
		p.pending.Cancel()
	}

	p.reset()
	p.mounted = true
	p.id = id
	p.gen++

	gen := p.gen
	p.pending = p.loader.LoadOne(id, func(product catalog.Product, ok bool) {
		p.resolve(gen, product, ok)
	})
	return p.pending
}

func (p *Presenter) resolve(gen uint64, product catalog.Product, ok bool) {
	p.mu.Lock()
	if !p.mounted || p.gen != gen || p.status != StatusLoading {
		p.mu.Unlock()
		return
	}
	if ok {
		p.status = StatusFound
		p.product = product
		p.gallery = media.NewGallery(product.Image, p.extra, p.defaultImage)
	} else {
		p.status = StatusNotFound
	}
	id := p.id
	p.mu.Unlock()

	p.log.Debug("detail resolved", zap.String("id", id), zap.Bool("found", ok))
	if p.hooks.Resolved != nil {
		p.hooks.Resolved(ok)
	}
}

// Unmount cancels a pending load; the presenter then never changes state
// until SetID is called again.
func (p *Presenter) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending != nil {
		p.pending.Cancel()
	}
	p.reset()
	p.gen++
	p.mounted = false
	p.id = ""
}

func (p *Presenter) reset() {
	p.pending = nil
	p.status = StatusLoading
	p.product = catalog.Product{}
	p.liked = false
	p.quantity = 1
	p.tab = TabDescription
	p.gallery = media.Gallery{}
}

// Pending returns the current load handle, or nil when unmounted.
func (p *Presenter) Pending() *catalog.Pending {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

func (p *Presenter) ID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id
}

func (p *Presenter) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Presenter) Product() (catalog.Product, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.product, p.status == StatusFound
}

func (p *Presenter) Quantity() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.quantity
}

func (p *Presenter) Liked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.liked
}

func (p *Presenter) ActiveTab() Tab {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tab
}

func (p *Presenter) GalleryIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gallery.Index()
}

// found runs fn under the lock when a product is resolved.
func (p *Presenter) found(fn func() error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status != StatusFound {
		return errors.Wrap(ErrNoProduct, p.status.String())
	}
	return fn()
}

func (p *Presenter) ToggleLike() error {
	return p.found(func() error {
		p.liked = !p.liked
		return nil
	})
}

func (p *Presenter) IncrementQty() error {
	return p.found(func() error {
		p.quantity++
		return nil
	})
}

func (p *Presenter) DecrementQty() error {
	return p.found(func() error {
		if p.quantity > 1 {
			p.quantity--
		}
		return nil
	})
}

func (p *Presenter) SelectTab(t Tab) error {
	return p.found(func() error {
		if t < TabDescription || t > TabReviews {
			return ErrUnknownTab
		}
		p.tab = t
		return nil
	})
}

func (p *Presenter) NextSlide() error {
	return p.found(func() error {
		p.gallery.Next()
		return nil
	})
}

func (p *Presenter) PrevSlide() error {
	return p.found(func() error {
		p.gallery.Prev()
		return nil
	})
}

func (p *Presenter) SelectThumbnail(i int) error {
	return p.found(func() error {
		return p.gallery.Select(i)
	})
}

// OnImageError substitutes the default image for gallery slot i, once.
func (p *Presenter) OnImageError(i int) (bool, error) {
	var changed bool
	err := p.found(func() error {
		var err error
		changed, err = p.gallery.Fail(i)
		return err
	})
	if changed {
		p.log.Debug("detail image fallback", zap.Int("slot", i))
		if p.hooks.ImageFallback != nil {
			p.hooks.ImageFallback()
		}
	}
	return changed, err
}

// GoBack navigates to the listing. It is valid in every state.
func (p *Presenter) GoBack() {
	p.nav.GoToListing()
}
