package spanav

import "fmt"

// Registry maps component names used in a declarative table to views and
// loaders.
type Registry struct {
	views   map[string]View
	loaders map[string]Loader
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		views:   make(map[string]View),
		loaders: make(map[string]Loader),
	}
}

// View registers an eagerly available view under name.
func (reg *Registry) View(name string, v View) error {
	if v == nil {
		return fmt.Errorf("component %s: nil view", name)
	}
	if err := reg.checkFree(name); err != nil {
		return err
	}
	reg.views[name] = v
	return nil
}

// Loader registers a lazy loader under name.
func (reg *Registry) Loader(name string, l Loader) error {
	if l == nil {
		return fmt.Errorf("component %s: nil loader", name)
	}
	if err := reg.checkFree(name); err != nil {
		return err
	}
	reg.loaders[name] = l
	return nil
}

func (reg *Registry) checkFree(name string) error {
	_, isView := reg.views[name]
	_, isLoader := reg.loaders[name]
	if isView || isLoader {
		return fmt.Errorf("duplicate component %s in registry", name)
	}
	return nil
}

// route builds the route of a record. A lazy record needs a registered
// loader, an eager one a registered view.
func (reg *Registry) route(rec Record) (*Route, error) {
	if rec.Lazy {
		l, ok := reg.loaders[rec.Component]
		if !ok {
			return nil, fmt.Errorf("route %s: %w: no loader %q", rec.Name, ErrUnknownComponent, rec.Component)
		}
		return Lazy(rec.Path, rec.Name, l).WithTitle(rec.Title), nil
	}
	v, ok := reg.views[rec.Component]
	if !ok {
		return nil, fmt.Errorf("route %s: %w: no view %q", rec.Name, ErrUnknownComponent, rec.Component)
	}
	return Eager(rec.Path, rec.Name, v).WithTitle(rec.Title), nil
}
