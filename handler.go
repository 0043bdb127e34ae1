package spanav

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Handler serves a table over HTTP. Full pages are rendered for plain requests
// and history restores; htmx navigations get the view alone and push their
// location to the browser history.
type Handler struct {
	table    *Table
	resolver *Resolver
	cfg      *config
	handlers map[string]http.Handler
}

// NewHandler returns a handler for table that resolves views with resolver.
func NewHandler(table *Table, resolver *Resolver, options ...Option) *Handler {
	h := &Handler{
		table:    table,
		resolver: resolver,
		cfg:      newConfig(options),
		handlers: make(map[string]http.Handler, table.Len()),
	}
	for route := range table.All() {
		var handler http.Handler = http.HandlerFunc(h.serveRoute)
		for _, mw := range h.cfg.middlewares {
			handler = mw(handler, route)
		}
		h.handlers[route.Name] = handler
	}
	return h
}

// Mount registers a GET handler for every route on router, with and without
// a trailing slash. Unmatched paths are left to the router; pass the Handler
// itself as its fallback to render the not found view.
func (h *Handler) Mount(router Router) {
	for route := range h.table.All() {
		router.HandleMethod(http.MethodGet, route.Path, h)
		if route.Path != "/" && !strings.HasSuffix(route.Path, "...}") {
			router.HandleMethod(http.MethodGet, route.Path+"/", h)
		}
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m, err := h.table.Match(r.URL.Path)
	if err != nil {
		h.cfg.logger.Debug("no route for request", "path", r.URL.Path)
		h.render(w, r, http.StatusNotFound, nil, h.cfg.notFound(r.URL.Path))
		return
	}
	ctx := tableCtx.WithValue(r.Context(), h.table)
	ctx = matchCtx.WithValue(ctx, m)
	h.handlers[m.Route.Name].ServeHTTP(w, r.WithContext(ctx))
}

func (h *Handler) serveRoute(w http.ResponseWriter, r *http.Request) {
	m := MatchFromContext(r.Context())
	res := h.resolver.Resolve(r.Context(), m.Route)

	ctx := r.Context()
	if h.cfg.waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.waitTimeout)
		defer cancel()
	}
	view, err := res.Wait(ctx)
	var loadErr *LoadError
	switch {
	case errors.As(err, &loadErr):
		h.render(w, r, http.StatusBadGateway, m, h.cfg.loadFailed(loadErr))
	case err != nil:
		h.cfg.logger.Debug("view still loading", "route", m.Route.Name, "error", err)
		w.Header().Set("Retry-After", "1")
		h.render(w, r, http.StatusServiceUnavailable, m, h.cfg.pending(m))
	default:
		h.render(w, r, http.StatusOK, m, view)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, m *Match, view View) {
	fragment := isFragmentRequest(r)
	if !fragment {
		view = h.cfg.layout(m, view)
	}
	buf := newBuffered(w)
	if err := view.Render(r.Context(), buf); err != nil {
		buf.discard()
		h.cfg.onError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if fragment {
		if err := pushLocation(w, r); err != nil {
			buf.discard()
			h.cfg.onError(w, r, err)
			return
		}
	} else {
		w.WriteHeader(status)
	}
	if err := buf.close(); err != nil {
		h.cfg.logger.Warn("write response", "path", r.URL.Path, "error", err)
	}
}
