package spanav

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/jackielii/spanav"

// MiddlewareFunc wraps the handler of a single route.
type MiddlewareFunc = func(http.Handler, *Route) http.Handler

type config struct {
	logger      *slog.Logger
	metrics     *Metrics
	tracer      trace.Tracer
	loadTimeout time.Duration
	waitTimeout time.Duration
	onError     func(http.ResponseWriter, *http.Request, error)
	middlewares []MiddlewareFunc
	layout      func(*Match, View) View
	notFound    func(path string) View
	loadFailed  func(*LoadError) View
	pending     func(*Match) View
}

// Option configures a [Resolver], [Navigator] or [Handler]. Each of them reads
// the settings that concern it and ignores the rest.
type Option func(*config)

func newConfig(options []Option) *config {
	c := &config{
		logger:      slog.Default(),
		tracer:      otel.Tracer(tracerName),
		waitTimeout: 10 * time.Second,
		onError: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		layout:     func(_ *Match, body View) View { return body },
		notFound:   defaultNotFound,
		loadFailed: defaultLoadFailed,
		pending:    defaultPending,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics records loads, cache hits and navigation outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithTracerProvider traces lazy loads with tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// WithLoadTimeout bounds every lazy load. Zero means no bound.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *config) {
		c.loadTimeout = d
	}
}

// WithWaitTimeout bounds how long a [Handler] waits for a pending view before
// answering with the pending view.
func WithWaitTimeout(d time.Duration) Option {
	return func(c *config) {
		c.waitTimeout = d
	}
}

// WithErrorHandler sets the handler for rendering errors.
func WithErrorHandler(onError func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *config) {
		c.onError = onError
	}
}

// WithMiddlewares adds middlewares applied to every route handler, in order.
func WithMiddlewares(middlewares ...MiddlewareFunc) Option {
	return func(c *config) {
		c.middlewares = append(c.middlewares, middlewares...)
	}
}

// WithLayout wraps views in a full page for non-htmx requests and history
// restores. m is nil for fallback views.
func WithLayout(layout func(m *Match, body View) View) Option {
	return func(c *config) {
		c.layout = layout
	}
}

// WithNotFoundView sets the fallback view for unmatched paths.
func WithNotFoundView(view func(path string) View) Option {
	return func(c *config) {
		c.notFound = view
	}
}

// WithLoadErrorView sets the placeholder shown when a lazy view fails to load.
func WithLoadErrorView(view func(*LoadError) View) Option {
	return func(c *config) {
		c.loadFailed = view
	}
}

// WithPendingView sets the placeholder shown while a lazy view is loading.
func WithPendingView(view func(*Match) View) Option {
	return func(c *config) {
		c.pending = view
	}
}

func defaultNotFound(path string) View {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<p>Page %s not found</p>", templ.EscapeString(path))
		return err
	})
}

func defaultLoadFailed(err *LoadError) View {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, werr := fmt.Fprintf(w, "<p>%s could not be loaded</p>", templ.EscapeString(err.Route))
		return werr
	})
}

func defaultPending(m *Match) View {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>Loading…</p>")
		return err
	})
}
