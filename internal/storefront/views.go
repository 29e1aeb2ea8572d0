package storefront

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"MiniShowcase/internal/catalog"
	"MiniShowcase/internal/detail"
	"MiniShowcase/internal/listing"
	"MiniShowcase/internal/media"
	"MiniShowcase/internal/session"
	"MiniShowcase/pkg/kit"
)

type viewResponse struct {
	Token      string       `json:"token,omitempty"`
	Kind       session.Kind `json:"kind"`
	View       any          `json:"view,omitempty"`
	NavigateTo string       `json:"navigate_to,omitempty"`
}

// detailView couples a detail presenter with the navigation it requested.
type detailView struct {
	*detail.Presenter
	nav *redirect
}

// redirect records the router's "back to listing" action for the handler
// that dispatched the event.
type redirect struct {
	mu sync.Mutex
	to string
}

func (r *redirect) GoToListing() {
	r.mu.Lock()
	r.to = detail.ListingPath
	r.mu.Unlock()
}

func (r *redirect) take() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	to := r.to
	r.to = ""
	return to
}

func (s *Server) mountListing(w http.ResponseWriter, r *http.Request) {
	p := listing.New(s.Loader, listing.Options{
		DefaultImage: s.Views.ListingImage,
		Log:          s.Log,
		Hooks: listing.Hooks{
			Loaded:        func(int) { s.Metrics.resolved(session.KindListing, true) },
			ImageFallback: func() { s.Metrics.fallback(session.KindListing) },
		},
	})
	pending := p.Mount()
	s.mount(w, r, session.KindListing, p, pending)
}

func (s *Server) mountDetail(w http.ResponseWriter, r *http.Request) {
	nav := &redirect{}
	p := detail.New(s.Loader, nav, detail.Options{
		DefaultImage: s.Views.DetailImage,
		Gallery:      s.Views.Gallery,
		Log:          s.Log,
		Hooks: detail.Hooks{
			Resolved:      func(found bool) { s.Metrics.resolved(session.KindDetail, found) },
			ImageFallback: func() { s.Metrics.fallback(session.KindDetail) },
		},
	})
	pending := p.SetID(chi.URLParam(r, "id"))
	s.mount(w, r, session.KindDetail, &detailView{Presenter: p, nav: nav}, pending)
}

func (s *Server) mount(w http.ResponseWriter, r *http.Request, kind session.Kind, v session.View, pending *catalog.Pending) {
	id := s.Sessions.Add(kind, v)
	s.Metrics.mounted(kind)

	token, err := s.Tokens.New(id, kind, s.Views.TokenTTL)
	if err != nil {
		_ = s.Sessions.Remove(id)
		s.Log.Error("issue view token failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	s.wait(r, pending)
	kit.WriteJSON(w, http.StatusCreated, viewResponse{
		Token: token,
		Kind:  kind,
		View:  renderView(v),
	})
}

// lookup resolves the {token} parameter to a mounted view.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (session.Entry, bool) {
	claims, err := s.Tokens.Parse(chi.URLParam(r, "token"))
	if err != nil {
		kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
		return session.Entry{}, false
	}

	e, err := s.Sessions.Get(claims.SessionID)
	if err != nil || e.Kind != claims.Kind {
		kit.WriteError(w, r, http.StatusNotFound, "view not mounted", nil)
		return session.Entry{}, false
	}
	return e, true
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}

	s.wait(r, pendingOf(e.View))
	kit.WriteJSON(w, http.StatusOK, viewResponse{Kind: e.Kind, View: renderView(e.View)})
}

func (s *Server) unmount(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}

	if err := s.Sessions.Remove(e.ID); err != nil {
		kit.WriteError(w, r, http.StatusNotFound, "view not mounted", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) event(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var ev Event
	if err := kit.DecodeJSON(w, r, &ev); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	var err error
	switch v := e.View.(type) {
	case *listing.Presenter:
		err = dispatchListing(v, ev)
	case *detailView:
		err = dispatchDetail(v.Presenter, ev)
	default:
		err = errors.Errorf("unsupported view %T", e.View)
	}
	if err != nil {
		s.writeEventError(w, r, ev, err)
		return
	}

	resp := viewResponse{Kind: e.Kind, View: renderView(e.View)}
	if dv, ok := e.View.(*detailView); ok {
		if to := dv.nav.take(); to != "" {
			// navigating away ends the view
			_ = s.Sessions.Remove(e.ID)
			resp.View = nil
			resp.NavigateTo = to
		}
	}
	kit.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) writeEventError(w http.ResponseWriter, r *http.Request, ev Event, err error) {
	details := map[string]any{"type": ev.Type}
	switch {
	case errors.Is(err, detail.ErrNoProduct):
		kit.WriteError(w, r, http.StatusConflict, "no product", details)
	case errors.Is(err, ErrUnknownEvent), errors.Is(err, ErrMissingField),
		errors.Is(err, detail.ErrUnknownTab), errors.Is(err, media.ErrSlotOutOfRange):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), details)
	default:
		s.Log.Error("view event failed", zap.Error(err), zap.String("type", ev.Type))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func renderView(v session.View) any {
	switch v := v.(type) {
	case *listing.Presenter:
		return v.Render()
	case *detailView:
		return v.Render()
	default:
		return nil
	}
}

func pendingOf(v session.View) *catalog.Pending {
	switch v := v.(type) {
	case *listing.Presenter:
		return v.Pending()
	case *detailView:
		return v.Pending()
	default:
		return nil
	}
}
