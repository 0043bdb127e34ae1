package spanav

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no route matches a path.
	ErrNotFound = errors.New("no route matches path")
	// ErrDuplicateRouteName is returned when two routes in a table share a name.
	ErrDuplicateRouteName = errors.New("duplicate route name")
	// ErrInvalidRoute is returned for a malformed route definition.
	ErrInvalidRoute = errors.New("invalid route")
	// ErrUnknownComponent is returned when a declared component is not registered.
	ErrUnknownComponent = errors.New("unknown component")
)

// DuplicateRouteNameError reports the second declaration of a route name.
type DuplicateRouteNameError struct {
	Name       string
	FirstPath  string
	SecondPath string
}

func (e *DuplicateRouteNameError) Error() string {
	return fmt.Sprintf("duplicate route name %q: declared for %s and %s", e.Name, e.FirstPath, e.SecondPath)
}

func (e *DuplicateRouteNameError) Is(target error) bool {
	return target == ErrDuplicateRouteName
}

// LoadError reports a failed lazy view load.
type LoadError struct {
	Route string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load view for route %q: %v", e.Route, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func notFound(path string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, path)
}
