// Package views holds the views of the expense tracker served by the spanav
// command: the eager home page, fallbacks, and the fragments of the lazy
// pages.
package views

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"

	"github.com/a-h/templ"

	"github.com/jackielii/spanav"
)

//go:embed fragments/*.html
var fragments embed.FS

// Fragments returns the embedded fragments of the lazy pages.
func Fragments() fs.FS {
	sub, err := fs.Sub(fragments, "fragments")
	if err != nil {
		panic(err)
	}
	return sub
}

// Lazy lists the components loaded on first visit, by fragment file name.
var Lazy = map[string]string{
	"expenses":   "expenses.html",
	"categories": "categories.html",
	"reports":    "reports.html",
}

// Registry registers the home view and a loader per lazy component. source
// maps a fragment file name to its loader.
func Registry(source func(file string) spanav.Loader) (*spanav.Registry, error) {
	reg := spanav.NewRegistry()
	if err := reg.View("home", Home()); err != nil {
		return nil, err
	}
	for name, file := range Lazy {
		if err := reg.Loader(name, source(file)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Home is the landing page.
func Home() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="home">
  <h1>Expense Tracker</h1>
  <p>Track expenses, organise them in categories and read the reports.</p>
</section>`)
		return err
	})
}

// Layout wraps a view in the full page with a navigation bar built from the
// static routes of table.
func Layout(table *spanav.Table) func(*spanav.Match, spanav.View) spanav.View {
	return func(m *spanav.Match, body spanav.View) spanav.View {
		title := "Expense Tracker"
		if m != nil && m.Route.Title != "" {
			title = m.Route.Title + " · " + title
		}
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<script src="https://unpkg.com/htmx.org@2.0.4"></script>
</head>
<body>
<nav>`, templ.EscapeString(title)); err != nil {
				return err
			}
			for r := range table.All() {
				if r.IsDynamic() {
					continue
				}
				href := templ.EscapeString(r.Path)
				if _, err := fmt.Fprintf(w, `<a href="%s" hx-get="%s" hx-target="#view">%s</a>`,
					href, href, templ.EscapeString(r.Name)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</nav>
<main id="view">`); err != nil {
				return err
			}
			if err := body.Render(ctx, w); err != nil {
				return err
			}
			_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
			return err
		})
	}
}

// NotFound is the fallback for unknown paths.
func NotFound(path string) spanav.View {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="not-found"><h1>Not found</h1><p>Nothing lives at %s.</p><a href="/">Home</a></section>`,
			templ.EscapeString(path))
		return err
	})
}

// LoadFailed is the placeholder for a page that could not be loaded. Visiting
// the page again retries the load.
func LoadFailed(err *spanav.LoadError) spanav.View {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		retry := "/"
		if m := spanav.MatchFromContext(ctx); m != nil {
			retry = m.Path
		}
		_, werr := fmt.Fprintf(w, `<section class="load-error"><h1>%s is unavailable</h1><a href="%s" hx-get="%s" hx-target="#view">Try again</a></section>`,
			templ.EscapeString(err.Route), templ.EscapeString(retry), templ.EscapeString(retry))
		return werr
	})
}

// Pending polls the page until its view is loaded.
func Pending(m *spanav.Match) spanav.View {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		path := templ.EscapeString(m.Path)
		_, err := fmt.Fprintf(w, `<div class="pending" hx-get="%s" hx-trigger="load delay:1s" hx-swap="outerHTML">Loading %s…</div>`,
			path, templ.EscapeString(m.Route.Name))
		return err
	})
}
