// Package spanav provides client-side navigation for single page applications.
// It binds URL paths to views, resolves views eagerly or lazily on first visit,
// and keeps a navigation state in sync with a browser-style history.
//
// A table is declared once and never changes:
//
//	table := spanav.MustTable(
//	    spanav.Eager("/", "Home", views.Home()),
//	    spanav.Lazy("/expenses", "Expenses", loaders.FS(fragments, "expenses.html")),
//	)
//
// Views are [templ.Component] values. Lazy views are loaded by a [Resolver] the
// first time their route is visited and cached by route name afterwards.
// A [Navigator] drives the table from a [History] and discards results of
// navigations that were superseded while their view was still loading.
// A [Handler] serves the same table over HTTP to an htmx front end.
package spanav
