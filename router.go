package spanav

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Router is an interface for registering HTTP routes. It lets a [Handler]
// mount a table on different routing implementations.
type Router interface {
	HandleMethod(method, path string, handler http.Handler)
}

type stdRouter struct {
	router *http.ServeMux
}

// NewRouter creates a new router that wraps http.ServeMux.
// If router is nil, it uses http.DefaultServeMux.
//
// Example:
//
//	mux := http.NewServeMux()
//	handler.Mount(spanav.NewRouter(mux))
func NewRouter(router *http.ServeMux) *stdRouter {
	if router == nil {
		router = http.DefaultServeMux
	}
	return &stdRouter{router: router}
}

func (r *stdRouter) HandleMethod(method, pattern string, handler http.Handler) {
	// a trailing slash makes a prefix pattern on ServeMux
	if strings.HasSuffix(pattern, "/") {
		pattern += "{$}"
	}
	if method != "" {
		pattern = method + " " + pattern
	}
	r.router.Handle(pattern, handler)
}

func (r *stdRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

type chiRouter struct {
	router chi.Router
}

// NewChiRouter creates a router that registers routes on a chi router.
func NewChiRouter(r chi.Router) *chiRouter {
	return &chiRouter{router: r}
}

func (r *chiRouter) HandleMethod(method, pattern string, handler http.Handler) {
	pattern = chiPattern(pattern)
	if method == "" {
		r.router.Handle(pattern, handler)
		return
	}
	r.router.Method(method, pattern, handler)
}

func (r *chiRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// chiPattern rewrites a trailing wildcard segment to chi's "*".
func chiPattern(pattern string) string {
	i := strings.LastIndex(pattern, "/{")
	if i >= 0 && strings.HasSuffix(pattern, "...}") {
		return pattern[:i] + "/*"
	}
	return pattern
}
