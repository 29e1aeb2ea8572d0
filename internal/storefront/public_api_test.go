package storefront_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniShowcase/internal/catalog"
	"MiniShowcase/internal/catalog/catalogtest"
	"MiniShowcase/internal/detail"
	"MiniShowcase/internal/listing"
	"MiniShowcase/internal/session"
	"MiniShowcase/internal/storefront"
	"MiniShowcase/pkg/kit"
)

const tokenSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	ts       *httptest.Server
	sched    *catalogtest.Scheduler
	sessions *session.Registry
}

func newFixture(t *testing.T, opts ...catalog.LoaderOption) *fixture {
	t.Helper()

	tbl, err := catalog.NewTable(catalogtest.Products())
	if err != nil {
		t.Fatalf("table: %v", err)
	}

	sched := &catalogtest.Scheduler{}
	opts = append([]catalog.LoaderOption{catalog.WithScheduler(sched)}, opts...)

	sessions := session.NewRegistry(time.Hour, zap.NewNop())
	s := &storefront.Server{
		Table:    tbl,
		Loader:   catalog.NewLoader(tbl, opts...),
		Sessions: sessions,
		Tokens:   session.NewTokenMaker(tokenSecret),
		Views: storefront.ViewOptions{
			ListingImage: "/default-card.jpg",
			DetailImage:  "/default-detail.jpg",
			MaxWait:      2 * time.Second,
		},
		Limiter: kit.NewIPRateLimiter(100, time.Minute),
		Log:     zap.NewNop(),
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "storefront",
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	t.Cleanup(sessions.Close)

	return &fixture{ts: ts, sched: sched, sessions: sessions}
}

type viewResp[V any] struct {
	Token      string `json:"token"`
	Kind       string `json:"kind"`
	View       V      `json:"view"`
	NavigateTo string `json:"navigate_to"`
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}
	return v
}

// detailJSON mirrors the JSON shape of detail.View.
type detailJSON struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	NotFound *struct {
		BackPath string `json:"back_path"`
	} `json:"not_found"`
	Product *struct {
		Price      string `json:"price"`
		InStock    bool   `json:"in_stock"`
		Quantity   int    `json:"quantity"`
		Liked      bool   `json:"liked"`
		ActiveTab  string `json:"active_tab"`
		StockLabel string `json:"stock_label"`
		Gallery    struct {
			Index   int      `json:"index"`
			Current string   `json:"current"`
			Images  []string `json:"images"`
		} `json:"gallery"`
		AddToCart struct {
			Enabled bool `json:"enabled"`
		} `json:"add_to_cart"`
		BuyNow struct {
			Enabled bool   `json:"enabled"`
			Href    string `json:"href"`
			Target  string `json:"target"`
		} `json:"buy_now"`
		Content struct {
			Tab   string   `json:"tab"`
			Lines []string `json:"lines"`
		} `json:"content"`
	} `json:"product"`
}

func TestCatalogRoutes(t *testing.T) {
	f := newFixture(t)

	resp, raw := doJSON(t, http.MethodGet, f.ts.URL+"/products", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status=%d", resp.StatusCode)
	}
	products := decode[[]catalog.Product](t, raw)
	if len(products) != 2 || products[0].ID != "1" || products[1].ID != "2" {
		t.Fatalf("unexpected products: %+v", products)
	}

	resp, raw = doJSON(t, http.MethodGet, f.ts.URL+"/products/2", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status=%d", resp.StatusCode)
	}
	if p := decode[catalog.Product](t, raw); p.InStock || p.Name != "Office Chair" {
		t.Fatalf("unexpected product: %+v", p)
	}

	resp, raw = doJSON(t, http.MethodGet, f.ts.URL+"/products/404", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing status=%d body=%s", resp.StatusCode, string(raw))
	}

	resp, _ = doJSON(t, http.MethodGet, f.ts.URL+"/readyz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("readyz status=%d", resp.StatusCode)
	}
}

func TestListingView_Lifecycle(t *testing.T) {
	f := newFixture(t)

	resp, raw := doJSON(t, http.MethodPost, f.ts.URL+"/views/listing", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("mount status=%d body=%s", resp.StatusCode, string(raw))
	}
	mounted := decode[viewResp[listing.View]](t, raw)
	if !mounted.View.Loading || len(mounted.View.Cards) != listing.PlaceholderCount {
		t.Fatalf("expected %d placeholders, got %+v", listing.PlaceholderCount, mounted.View)
	}
	viewURL := f.ts.URL + "/views/" + mounted.Token

	f.sched.Fire()

	resp, raw = doJSON(t, http.MethodPost, viewURL+"/events", map[string]any{"type": "toggleLike", "id": "2"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle status=%d body=%s", resp.StatusCode, string(raw))
	}
	doJSON(t, http.MethodPost, viewURL+"/events", map[string]any{"type": "imageError", "id": "1"})

	resp, raw = doJSON(t, http.MethodGet, viewURL, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("render status=%d", resp.StatusCode)
	}
	v := decode[viewResp[listing.View]](t, raw).View
	if v.Loading || len(v.Cards) != 2 {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.Cards[0].ID != "1" || v.Cards[0].Image != "/default-card.jpg" || v.Cards[0].Liked {
		t.Fatalf("card 1: %+v", v.Cards[0])
	}
	if v.Cards[1].ID != "2" || !v.Cards[1].Liked || v.Cards[1].AddToCartEnabled {
		t.Fatalf("card 2: %+v", v.Cards[1])
	}

	resp, _ = doJSON(t, http.MethodPost, viewURL+"/events", map[string]any{"type": "nextSlide"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("detail event on listing: status=%d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, viewURL, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unmount status=%d", resp.StatusCode)
	}
	if f.sessions.Len() != 0 {
		t.Fatalf("sessions=%d after unmount", f.sessions.Len())
	}

	resp, _ = doJSON(t, http.MethodGet, viewURL, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("render after unmount status=%d", resp.StatusCode)
	}
}

func TestDetailView_OutOfStockScenario(t *testing.T) {
	f := newFixture(t)

	resp, raw := doJSON(t, http.MethodPost, f.ts.URL+"/views/products/2", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("mount status=%d body=%s", resp.StatusCode, string(raw))
	}
	mounted := decode[viewResp[detailJSON]](t, raw)
	if mounted.View.Status != "loading" {
		t.Fatalf("status=%s", mounted.View.Status)
	}
	viewURL := f.ts.URL + "/views/" + mounted.Token

	resp, _ = doJSON(t, http.MethodPost, viewURL+"/events", map[string]any{"type": "incrementQty"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("event while loading: status=%d", resp.StatusCode)
	}

	f.sched.Fire()

	for _, ev := range []map[string]any{
		{"type": "incrementQty"},
		{"type": "incrementQty"},
		{"type": "decrementQty"},
		{"type": "toggleLike"},
		{"type": "prevSlide"},
		{"type": "selectTab", "tab": "Specifications"},
	} {
		resp, raw := doJSON(t, http.MethodPost, viewURL+"/events", ev)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("event %v: status=%d body=%s", ev, resp.StatusCode, string(raw))
		}
	}

	_, raw = doJSON(t, http.MethodGet, viewURL, nil)
	v := decode[viewResp[detailJSON]](t, raw).View
	if v.Status != "found" || v.Product == nil {
		t.Fatalf("unexpected view: %s", string(raw))
	}
	p := v.Product
	if p.InStock || p.AddToCart.Enabled {
		t.Fatalf("add to cart must be inert when out of stock: %+v", p.AddToCart)
	}
	if !p.BuyNow.Enabled || p.BuyNow.Href != "https://shop.example.com/chair" || p.BuyNow.Target != "_blank" {
		t.Fatalf("buy now: %+v", p.BuyNow)
	}
	if p.Quantity != 2 || !p.Liked || p.ActiveTab != "Specifications" {
		t.Fatalf("state: qty=%d liked=%v tab=%s", p.Quantity, p.Liked, p.ActiveTab)
	}
	if p.Gallery.Index != len(p.Gallery.Images)-1 || p.Gallery.Images[0] != "/default-detail.jpg" {
		t.Fatalf("gallery: %+v", p.Gallery)
	}
	want := []string{"Brand: Sitwell", "Price: ₹900", "Stock: Out of Stock"}
	if len(p.Content.Lines) != len(want) {
		t.Fatalf("specifications lines: %v", p.Content.Lines)
	}
	for i := range want {
		if p.Content.Lines[i] != want[i] {
			t.Fatalf("specifications line %d=%q want %q", i, p.Content.Lines[i], want[i])
		}
	}

	for _, ev := range []map[string]any{
		{"type": "selectTab", "tab": "Shipping"},
		{"type": "selectThumbnail", "index": 99},
		{"type": "selectThumbnail"},
		{"type": "explode"},
	} {
		resp, _ := doJSON(t, http.MethodPost, viewURL+"/events", ev)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("event %v: status=%d", ev, resp.StatusCode)
		}
	}
}

func TestDetailView_NotFoundGoBack(t *testing.T) {
	f := newFixture(t)

	_, raw := doJSON(t, http.MethodPost, f.ts.URL+"/views/products/999", nil)
	mounted := decode[viewResp[detailJSON]](t, raw)
	viewURL := f.ts.URL + "/views/" + mounted.Token

	f.sched.Fire()

	_, raw = doJSON(t, http.MethodGet, viewURL, nil)
	v := decode[viewResp[detailJSON]](t, raw).View
	if v.Status != "not_found" || v.NotFound == nil || v.NotFound.BackPath != detail.ListingPath {
		t.Fatalf("unexpected view: %s", string(raw))
	}

	resp, raw := doJSON(t, http.MethodPost, viewURL+"/events", map[string]any{"type": "goBack"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("goBack status=%d body=%s", resp.StatusCode, string(raw))
	}
	if nav := decode[viewResp[detailJSON]](t, raw).NavigateTo; nav != "/products" {
		t.Fatalf("navigate_to=%q", nav)
	}
	if f.sessions.Len() != 0 {
		t.Fatalf("view still mounted after navigating away")
	}
}

func TestViewTokens(t *testing.T) {
	f := newFixture(t)

	resp, _ := doJSON(t, http.MethodGet, f.ts.URL+"/views/garbage", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token status=%d", resp.StatusCode)
	}

	foreign, err := session.NewTokenMaker("ffffffffffffffffffffffffffffffff").New("x", session.KindListing, time.Minute)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	resp, _ = doJSON(t, http.MethodGet, f.ts.URL+"/views/"+foreign, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("foreign token status=%d", resp.StatusCode)
	}

	orphan, err := session.NewTokenMaker(tokenSecret).New("not-mounted", session.KindListing, time.Minute)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	resp, _ = doJSON(t, http.MethodGet, f.ts.URL+"/views/"+orphan, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("orphan token status=%d", resp.StatusCode)
	}
}

func TestMount_WaitForResolution(t *testing.T) {
	tbl, err := catalog.NewTable(catalogtest.Products())
	if err != nil {
		t.Fatalf("table: %v", err)
	}

	reg := prometheus.NewRegistry()
	sessions := session.NewRegistry(time.Hour, zap.NewNop())
	t.Cleanup(sessions.Close)

	s := &storefront.Server{
		Table:    tbl,
		Loader:   catalog.NewLoader(tbl, catalog.WithDelay(time.Millisecond)),
		Sessions: sessions,
		Tokens:   session.NewTokenMaker(tokenSecret),
		Views:    storefront.ViewOptions{MaxWait: 2 * time.Second},
		Metrics:  storefront.NewViewMetrics(reg),
	}
	ts := httptest.NewServer(storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            zap.NewNop(),
		Service:        "storefront",
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   "metrics-token",
	}))
	t.Cleanup(ts.Close)

	_, raw := doJSON(t, http.MethodPost, ts.URL+"/views/products/1?wait=true", nil)
	v := decode[viewResp[detailJSON]](t, raw).View
	if v.Status != "found" || v.Product == nil || v.Product.Price != "₹500" {
		t.Fatalf("unexpected view: %s", string(raw))
	}

	_, raw = doJSON(t, http.MethodPost, ts.URL+"/views/listing?wait=true", nil)
	lv := decode[viewResp[listing.View]](t, raw).View
	if lv.Loading || len(lv.Cards) != 2 {
		t.Fatalf("unexpected listing: %s", string(raw))
	}

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/metrics", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("metrics without token status=%d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/metrics", nil)
	req.Header.Set("Authorization", "Bearer metrics-token")
	mresp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ := io.ReadAll(mresp.Body)
	_ = mresp.Body.Close()
	if !bytes.Contains(body, []byte(`storefront_view_resolutions_total{kind="detail",outcome="found"} 1`)) {
		t.Fatalf("metrics missing resolution counter:\n%s", string(body))
	}
}
