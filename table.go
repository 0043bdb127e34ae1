package spanav

import (
	"fmt"
	"iter"
	"net/url"
	"slices"
	"strings"
)

// Table is an ordered, immutable set of routes.
type Table struct {
	routes []*Route
	byName map[string]*Route
}

// Match is the result of matching a path against a table.
type Match struct {
	Route  *Route
	Path   string
	Params map[string]string
}

// Param returns the value captured for name, or "".
func (m *Match) Param(name string) string {
	return m.Params[name]
}

// NewTable validates routes and returns them as a table. Routes are matched in
// the order given. A repeated route name yields a [*DuplicateRouteNameError].
func NewTable(routes ...*Route) (*Table, error) {
	t := &Table{
		routes: make([]*Route, 0, len(routes)),
		byName: make(map[string]*Route, len(routes)),
	}
	for i, r := range routes {
		if r == nil {
			return nil, fmt.Errorf("%w: route %d is nil", ErrInvalidRoute, i)
		}
		route := *r
		if route.Name == "" {
			return nil, fmt.Errorf("%w: route %s has no name", ErrInvalidRoute, route.Path)
		}
		if (route.view == nil) == (route.loader == nil) {
			return nil, fmt.Errorf("%w: route %s must have exactly one of view or loader", ErrInvalidRoute, route.Name)
		}
		segments, err := compilePattern(route.Path)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", route.Name, err)
		}
		route.segments = segments
		if prev, ok := t.byName[route.Name]; ok {
			return nil, &DuplicateRouteNameError{Name: route.Name, FirstPath: prev.Path, SecondPath: route.Path}
		}
		t.byName[route.Name] = &route
		t.routes = append(t.routes, &route)
	}
	return t, nil
}

// MustTable is like NewTable but panics on an invalid table.
func MustTable(routes ...*Route) *Table {
	t, err := NewTable(routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// Match returns the first route, in declaration order, whose pattern matches
// path. Query string and fragment are ignored, as is a trailing slash. When
// nothing matches the error wraps [ErrNotFound].
func (t *Table) Match(path string) (*Match, error) {
	clean, ok := normalizePath(path)
	if !ok {
		return nil, notFound(path)
	}
	fields := splitPath(clean)
	for _, r := range t.routes {
		if params, ok := matchSegments(r.segments, fields); ok {
			return &Match{Route: r, Path: clean, Params: params}, nil
		}
	}
	return nil, notFound(path)
}

// Route returns the route declared with name.
func (t *Table) Route(name string) (*Route, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// All iterates the routes in declaration order.
func (t *Table) All() iter.Seq[*Route] {
	return slices.Values(t.routes)
}

// Len returns the number of routes.
func (t *Table) Len() int {
	return len(t.routes)
}

// part is one "/"-separated piece of a compiled pattern.
type part struct {
	name     string
	param    bool
	wildcard bool
}

func compilePattern(pattern string) ([]part, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("%w: pattern %q must start with /", ErrInvalidRoute, pattern)
	}
	if strings.ContainsAny(pattern, "?#") {
		return nil, fmt.Errorf("%w: pattern %q contains a query or fragment", ErrInvalidRoute, pattern)
	}
	fields := splitPath(strings.TrimRight(pattern, "/"))
	parts := make([]part, 0, len(fields))
	seen := make(map[string]bool)
	for i, f := range fields {
		if f == "" {
			return nil, fmt.Errorf("%w: pattern %q has an empty segment", ErrInvalidRoute, pattern)
		}
		if !strings.HasPrefix(f, "{") || !strings.HasSuffix(f, "}") {
			if strings.ContainsAny(f, "{}") {
				return nil, fmt.Errorf("%w: pattern %q: segment %q mixes text and parameter", ErrInvalidRoute, pattern, f)
			}
			parts = append(parts, part{name: f})
			continue
		}
		p := part{name: f[1 : len(f)-1], param: true}
		if name, ok := strings.CutSuffix(p.name, "..."); ok {
			if i != len(fields)-1 {
				return nil, fmt.Errorf("%w: pattern %q: wildcard %q must be the last segment", ErrInvalidRoute, pattern, f)
			}
			p.name, p.wildcard = name, true
		}
		if p.name == "" || strings.ContainsAny(p.name, "{}") {
			return nil, fmt.Errorf("%w: pattern %q: bad parameter %q", ErrInvalidRoute, pattern, f)
		}
		if seen[p.name] {
			return nil, fmt.Errorf("%w: pattern %q: parameter %q repeated", ErrInvalidRoute, pattern, p.name)
		}
		seen[p.name] = true
		parts = append(parts, p)
	}
	return parts, nil
}

func matchSegments(parts []part, fields []string) (map[string]string, bool) {
	var params map[string]string
	capture := func(name, value string) {
		if params == nil {
			params = make(map[string]string)
		}
		if v, err := url.PathUnescape(value); err == nil {
			value = v
		}
		params[name] = value
	}
	for i, p := range parts {
		if p.wildcard {
			capture(p.name, strings.Join(fields[i:], "/"))
			return params, true
		}
		if i >= len(fields) {
			return nil, false
		}
		switch {
		case p.param:
			if fields[i] == "" {
				return nil, false
			}
			capture(p.name, fields[i])
		case p.name != fields[i]:
			return nil, false
		}
	}
	return params, len(fields) == len(parts)
}

// normalizePath drops the query string, fragment and trailing slash.
func normalizePath(p string) (string, bool) {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		return "", false
	}
	if p = strings.TrimRight(p, "/"); p == "" {
		p = "/"
	}
	return p, true
}

// splitPath splits a normalized path; "/" has no fields.
func splitPath(p string) []string {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
