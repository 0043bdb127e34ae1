package spanav

import (
	"context"
	"strings"

	"github.com/a-h/templ"
)

// View is an opaque view handle. The router never inspects it, it only knows
// whether it is available yet.
type View = templ.Component

// Loader produces the view of a lazy route. It is called on the first visit
// of the route and again only after a failed load.
type Loader func(ctx context.Context) (View, error)

// Route binds a path pattern to a view.
//
// Patterns are literal ("/expenses"), may contain named segments
// ("/expenses/{id}") and may end in a wildcard segment ("/files/{path...}").
type Route struct {
	Path  string
	Name  string
	Title string

	view     View
	loader   Loader
	segments []part
}

// Eager returns a route whose view is available immediately.
func Eager(path, name string, view View) *Route {
	return &Route{Path: path, Name: name, view: view}
}

// Lazy returns a route whose view is produced by loader on first visit.
func Lazy(path, name string, loader Loader) *Route {
	return &Route{Path: path, Name: name, loader: loader}
}

// WithTitle sets the route title and returns the route.
func (r *Route) WithTitle(title string) *Route {
	r.Title = title
	return r
}

// IsLazy reports whether the route view is loaded on demand.
func (r *Route) IsLazy() bool {
	return r.loader != nil
}

// IsDynamic reports whether the pattern captures path parameters.
func (r *Route) IsDynamic() bool {
	for _, p := range r.segments {
		if p.param {
			return true
		}
	}
	return false
}

func (r *Route) String() string {
	var sb strings.Builder
	sb.WriteString("Route{")
	sb.WriteString("\n  name: " + r.Name)
	sb.WriteString("\n  path: " + r.Path)
	if r.Title != "" {
		sb.WriteString("\n  title: " + r.Title)
	}
	if r.IsLazy() {
		sb.WriteString("\n  resolution: lazy")
	} else {
		sb.WriteString("\n  resolution: eager")
	}
	sb.WriteString("\n}")
	return sb.String()
}
