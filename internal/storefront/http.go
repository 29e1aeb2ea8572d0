// Package storefront exposes the catalog and its presenters over HTTP. A
// client mounts a view, reads its render state, posts UI events into it
// and unmounts it when navigating away.
package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"MiniShowcase/internal/catalog"
	"MiniShowcase/internal/session"
	"MiniShowcase/pkg/kit"
)

const defaultTokenTTL = 24 * time.Hour

type ViewOptions struct {
	ListingImage string
	DetailImage  string
	Gallery      []string
	MaxWait      time.Duration
	TokenTTL     time.Duration
}

type Server struct {
	Table    *catalog.Table
	Loader   *catalog.Loader
	Sessions *session.Registry
	Tokens   *session.TokenMaker
	Views    ViewOptions
	Metrics  *ViewMetrics
	Limiter  *kit.IPRateLimiter
	Log      *zap.Logger
}

func (s *Server) Routes() http.Handler {
	s.init()

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.readyz)

	r.Get("/products", s.list)
	r.Get("/products/{id}", s.get)

	r.Route("/views", func(vr chi.Router) {
		vr.Group(func(mr chi.Router) {
			if s.Limiter != nil {
				mr.Use(s.Limiter.Middleware)
			}
			mr.Post("/listing", s.mountListing)
			mr.Post("/products/{id}", s.mountDetail)
		})

		vr.Get("/{token}", s.render)
		vr.Post("/{token}/events", s.event)
		vr.Delete("/{token}", s.unmount)
	})

	return r
}

func (s *Server) init() {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	if s.Metrics == nil {
		s.Metrics = NewViewMetrics(nil)
	}
	if s.Views.TokenTTL <= 0 {
		s.Views.TokenTTL = defaultTokenTTL
	}
	if s.Sessions != nil && s.Sessions.OnRemove == nil {
		s.Sessions.OnRemove = s.Metrics.removed
	}
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.Table == nil || s.Table.Len() == 0 {
		s.Log.Warn("readyz failed: catalog empty")
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Table.All())
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok := s.Table.Find(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

// wait blocks on pending when the request asks for it, bounded by MaxWait.
// Timing out is not an error: the caller renders whatever state exists.
func (s *Server) wait(r *http.Request, pending *catalog.Pending) {
	if pending == nil || r.URL.Query().Get("wait") != "true" {
		return
	}

	ctx := r.Context()
	if s.Views.MaxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Views.MaxWait)
		defer cancel()
	}
	if err := pending.Wait(ctx); err != nil {
		s.Log.Debug("view wait ended early", zap.Error(err))
	}
}
