package spanav

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// State is the resolution status of a route view.
type State int

const (
	Unresolved State = iota
	Loading
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Loading:
		return "loading"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Resolution is a handle on one attempt to resolve a route view. Callers
// visiting a route while its view is loading share the same handle.
type Resolution struct {
	route string
	done  chan struct{}
	// view and err are written once, before done is closed.
	view View
	err  error
}

func settled(route string, view View, err error) *Resolution {
	r := &Resolution{route: route, done: make(chan struct{}), view: view, err: err}
	close(r.done)
	return r
}

// Route returns the name of the route being resolved.
func (r *Resolution) Route() string { return r.route }

// Done is closed once the view is available or the load failed.
func (r *Resolution) Done() <-chan struct{} { return r.done }

// State returns Loading, Resolved or Failed.
func (r *Resolution) State() State {
	select {
	case <-r.done:
		if r.err != nil {
			return Failed
		}
		return Resolved
	default:
		return Loading
	}
}

// View returns the view if it is available. While loading it returns a nil
// view and Loading.
func (r *Resolution) View() (View, State) {
	s := r.State()
	if s != Resolved {
		return nil, s
	}
	return r.view, s
}

// Err returns the [*LoadError] of a failed resolution.
func (r *Resolution) Err() error {
	if r.State() != Failed {
		return nil
	}
	return r.err
}

// Wait blocks until the resolution settles or ctx is done. Giving up on the
// wait does not stop the load.
func (r *Resolution) Wait(ctx context.Context) (View, error) {
	select {
	case <-r.done:
		return r.view, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Resolver resolves route views and caches them by route name for its
// lifetime. Use one resolver per [Table].
type Resolver struct {
	cfg *config

	mu      sync.Mutex
	entries map[string]*Resolution
}

// NewResolver returns an empty resolver.
func NewResolver(options ...Option) *Resolver {
	return &Resolver{
		cfg:     newConfig(options),
		entries: make(map[string]*Resolution),
	}
}

// Resolve returns the view resolution of route.
//
// Eager routes resolve immediately to their view. The first visit of a lazy
// route starts a background load; visits while it is loading get the same
// handle, and visits after it resolved get the cached view. A visit after a
// failed load starts a new one. Loads are detached from ctx cancellation.
func (res *Resolver) Resolve(ctx context.Context, route *Route) *Resolution {
	res.mu.Lock()
	cur := res.entries[route.Name]
	if !route.IsLazy() {
		if cur == nil {
			cur = settled(route.Name, route.view, nil)
			res.entries[route.Name] = cur
		}
		res.mu.Unlock()
		return cur
	}
	if cur != nil && cur.State() != Failed {
		res.mu.Unlock()
		if cur.State() == Resolved {
			res.cfg.metrics.cacheHit(route.Name)
		}
		return cur
	}
	r := &Resolution{route: route.Name, done: make(chan struct{})}
	res.entries[route.Name] = r
	res.mu.Unlock()

	go res.load(context.WithoutCancel(ctx), route, r)
	return r
}

// State returns the resolution status of the route named name.
func (res *Resolver) State(name string) State {
	res.mu.Lock()
	defer res.mu.Unlock()
	if r, ok := res.entries[name]; ok {
		return r.State()
	}
	return Unresolved
}

// Prefetch resolves the lazy routes among routes concurrently and waits for
// them. It returns the first load error.
func (res *Resolver) Prefetch(ctx context.Context, routes ...*Route) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, route := range routes {
		if !route.IsLazy() {
			continue
		}
		g.Go(func() error {
			_, err := res.Resolve(ctx, route).Wait(ctx)
			return err
		})
	}
	return g.Wait()
}

func (res *Resolver) load(ctx context.Context, route *Route, r *Resolution) {
	if res.cfg.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, res.cfg.loadTimeout)
		defer cancel()
	}
	ctx, span := res.cfg.tracer.Start(ctx, "spanav.load", trace.WithAttributes(
		attribute.String("spanav.route", route.Name),
		attribute.String("spanav.path", route.Path),
	))
	defer span.End()

	logger := res.cfg.logger.With("route", route.Name)
	logger.Debug("loading view")
	start := time.Now()
	view, err := callLoader(ctx, route.loader)
	elapsed := time.Since(start)
	if err == nil && view == nil {
		err = errors.New("loader returned no view")
	}
	if err != nil {
		err = &LoadError{Route: route.Name, Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("view load failed", "error", err, "elapsed", elapsed)
	} else {
		logger.Debug("view loaded", "elapsed", elapsed)
	}
	res.cfg.metrics.observeLoad(route.Name, err, elapsed)

	r.view, r.err = view, err
	close(r.done)
}

func callLoader(ctx context.Context, loader Loader) (view View, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("loader panicked: %v", p)
		}
	}()
	return loader(ctx)
}
