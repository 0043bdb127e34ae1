package spanav

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/atomic"
)

// Outcome is how a navigation ended.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeCommitted
	OutcomeNotFound
	OutcomeFailed
	// OutcomeStale means a later navigation was issued before this one's view
	// was ready; its result was discarded.
	OutcomeStale
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeCommitted:
		return "committed"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// NavigationState is the committed location of a [Navigator].
type NavigationState struct {
	Path   string
	Route  *Route
	Params map[string]string
}

// Navigation tracks one navigation request.
type Navigation struct {
	ID         uint64
	Path       string
	Match      *Match
	Resolution *Resolution

	done    chan struct{}
	outcome Outcome
	err     error
}

// Done is closed when the navigation has an outcome.
func (n *Navigation) Done() <-chan struct{} { return n.done }

// Outcome returns the outcome, or OutcomePending.
func (n *Navigation) Outcome() Outcome {
	select {
	case <-n.done:
		return n.outcome
	default:
		return OutcomePending
	}
}

// Err returns the error of a NotFound or Failed navigation.
func (n *Navigation) Err() error {
	select {
	case <-n.done:
		return n.err
	default:
		return nil
	}
}

// Wait blocks until the navigation has an outcome or ctx is done.
func (n *Navigation) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-n.done:
		return n.outcome, n.err
	case <-ctx.Done():
		return OutcomePending, ctx.Err()
	}
}

// NavigateOption configures a single navigation.
type NavigateOption func(*navigateOptions)

type navigateOptions struct {
	replace     bool
	fromHistory bool
}

// WithReplace replaces the current history entry instead of pushing one.
func WithReplace() NavigateOption {
	return func(o *navigateOptions) {
		o.replace = true
	}
}

// Navigator owns the navigation state of one client. The last navigation
// issued wins: a navigation whose view becomes available after a later one
// was issued is discarded.
type Navigator struct {
	table    *Table
	resolver *Resolver
	history  History
	cfg      *config
	seq      *atomic.Uint64

	mu          sync.Mutex
	state       NavigationState
	view        View
	listeners   map[int]func(NavigationState, View)
	nextID      int
	stopHistory func()
	committed   uint64
	queue       []commit
	delivering  bool
}

// NewNavigator returns a navigator over table. It does nothing until Start.
func NewNavigator(table *Table, resolver *Resolver, history History, options ...Option) *Navigator {
	return &Navigator{
		table:     table,
		resolver:  resolver,
		history:   history,
		cfg:       newConfig(options),
		seq:       atomic.NewUint64(0),
		listeners: make(map[int]func(NavigationState, View)),
	}
}

// Start navigates to the current history location and follows external
// history changes from then on. Calling Start again only re-navigates.
func (n *Navigator) Start(ctx context.Context) *Navigation {
	current := n.history.Current()
	n.mu.Lock()
	n.state.Path = current
	if n.stopHistory == nil {
		n.stopHistory = n.history.Listen(func(path string) {
			n.navigate(ctx, path, navigateOptions{fromHistory: true})
		})
	}
	n.mu.Unlock()
	return n.navigate(ctx, current, navigateOptions{fromHistory: true})
}

// Stop stops following history changes.
func (n *Navigator) Stop() {
	n.mu.Lock()
	stop := n.stopHistory
	n.stopHistory = nil
	n.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Navigate requests a navigation to path. The returned navigation settles
// immediately for unknown paths and eager routes, and once the view is loaded
// for lazy routes.
func (n *Navigator) Navigate(ctx context.Context, path string, options ...NavigateOption) *Navigation {
	var o navigateOptions
	for _, opt := range options {
		opt(&o)
	}
	return n.navigate(ctx, path, o)
}

// Back moves the history back; the navigator follows through Listen.
func (n *Navigator) Back() bool { return n.history.Back() }

// Forward moves the history forward.
func (n *Navigator) Forward() bool { return n.history.Forward() }

// State returns the committed navigation state.
func (n *Navigator) State() NavigationState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// View returns the view of the committed route, nil before the first commit.
func (n *Navigator) View() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

// Subscribe calls fn with the committed state and view. Calls are made one at
// a time; a commit superseded before delivery is skipped. fn may navigate. The
// returned func unsubscribes.
func (n *Navigator) Subscribe(fn func(NavigationState, View)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

func (n *Navigator) navigate(ctx context.Context, path string, o navigateOptions) *Navigation {
	nav := &Navigation{ID: n.seq.Inc(), Path: path, done: make(chan struct{})}
	m, err := n.table.Match(path)
	if err != nil {
		n.cfg.logger.Debug("no route for path", "path", path, "navigation", nav.ID)
		n.settle(nav, OutcomeNotFound, err)
		return nav
	}
	nav.Match = m
	nav.Resolution = n.resolver.Resolve(ctx, m.Route)
	select {
	case <-nav.Resolution.Done():
		n.finish(nav, o)
	default:
		go func() {
			<-nav.Resolution.Done()
			n.finish(nav, o)
		}()
	}
	return nav
}

func (n *Navigator) finish(nav *Navigation, o navigateOptions) {
	view, rs := nav.Resolution.View()

	n.mu.Lock()
	if latest := n.seq.Load(); latest != nav.ID {
		n.mu.Unlock()
		n.cfg.logger.Debug("discarding stale navigation",
			"path", nav.Path, "navigation", nav.ID, "latest", latest)
		n.settle(nav, OutcomeStale, nil)
		return
	}
	if rs == Failed {
		n.mu.Unlock()
		n.settle(nav, OutcomeFailed, nav.Resolution.Err())
		return
	}
	m := nav.Match
	n.state = NavigationState{Path: m.Path, Route: m.Route, Params: m.Params}
	n.view = view
	n.committed = nav.ID
	var err error
	switch {
	case o.fromHistory:
	case o.replace:
		err = n.history.Replace(m.Path, m.Route.Name)
	default:
		err = n.history.Push(m.Path, m.Route.Name)
	}
	n.queue = append(n.queue, commit{id: nav.ID, state: n.state, view: view})
	n.mu.Unlock()

	if err != nil {
		n.cfg.logger.Warn("history update failed", "path", m.Path, "error", err)
	}
	n.cfg.logger.Debug("navigation committed", "path", m.Path, "route", m.Route.Name, "navigation", nav.ID)
	n.deliver()
	n.settle(nav, OutcomeCommitted, nil)
}

// commit is a state change waiting to be delivered to subscribers.
type commit struct {
	id    uint64
	state NavigationState
	view  View
}

// deliver drains the commit queue unless another goroutine is already doing
// so. Commits superseded by a later one are dropped, so subscribers always see
// the committed state last.
func (n *Navigator) deliver() {
	n.mu.Lock()
	if n.delivering {
		n.mu.Unlock()
		return
	}
	n.delivering = true
	for len(n.queue) > 0 {
		c := n.queue[0]
		n.queue = n.queue[1:]
		if c.id != n.committed {
			continue
		}
		listeners := slices.Collect(maps.Values(n.listeners))
		n.mu.Unlock()
		for _, fn := range listeners {
			fn(c.state, c.view)
		}
		n.mu.Lock()
	}
	n.delivering = false
	n.mu.Unlock()
}

func (n *Navigator) settle(nav *Navigation, outcome Outcome, err error) {
	nav.outcome, nav.err = outcome, err
	n.cfg.metrics.navigation(outcome)
	close(nav.done)
}
