package spanav

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type testComponent struct {
	content string
}

func (t testComponent) Render(ctx context.Context, w io.Writer) error {
	_, err := w.Write([]byte(t.content))
	return err
}

func staticLoader(content string) Loader {
	return func(context.Context) (View, error) {
		return testComponent{content: content}, nil
	}
}

func expenseTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(
		Eager("/", "Home", testComponent{content: "home"}),
		Lazy("/expenses", "Expenses", staticLoader("expenses")),
		Lazy("/expenses/{id}", "Expense", staticLoader("expense")),
		Lazy("/categories", "Categories", staticLoader("categories")),
		Lazy("/reports", "Reports", staticLoader("reports")),
		Eager("/files/{path...}", "Files", testComponent{content: "files"}),
	)
	require.NoError(t, err)
	return table
}

func TestTableMatch(t *testing.T) {
	table := expenseTable(t)
	tests := []struct {
		name       string
		path       string
		wantRoute  string
		wantPath   string
		wantParams map[string]string
	}{
		{name: "root", path: "/", wantRoute: "Home", wantPath: "/"},
		{name: "literal", path: "/expenses", wantRoute: "Expenses", wantPath: "/expenses"},
		{name: "query ignored", path: "/reports?month=2024-01", wantRoute: "Reports", wantPath: "/reports"},
		{name: "fragment ignored", path: "/categories#food", wantRoute: "Categories", wantPath: "/categories"},
		{name: "trailing slash ignored", path: "/expenses/", wantRoute: "Expenses", wantPath: "/expenses"},
		{
			name: "named segment", path: "/expenses/42", wantRoute: "Expense", wantPath: "/expenses/42",
			wantParams: map[string]string{"id": "42"},
		},
		{
			name: "escaped segment", path: "/expenses/a%20b", wantRoute: "Expense", wantPath: "/expenses/a%20b",
			wantParams: map[string]string{"id": "a b"},
		},
		{
			name: "wildcard", path: "/files/2024/01/receipt.pdf", wantRoute: "Files", wantPath: "/files/2024/01/receipt.pdf",
			wantParams: map[string]string{"path": "2024/01/receipt.pdf"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := table.Match(tt.path)
			require.NoError(t, err)
			if m.Route.Name != tt.wantRoute {
				t.Errorf("expected route %s, got %s", tt.wantRoute, m.Route.Name)
			}
			if m.Path != tt.wantPath {
				t.Errorf("expected path %s, got %s", tt.wantPath, m.Path)
			}
			if diff := cmp.Diff(m.Params, tt.wantParams); diff != "" {
				t.Errorf("params mismatch (-got +want):\n%s", diff)
			}
		})
	}
}

func TestTableMatchNotFound(t *testing.T) {
	table := expenseTable(t)
	for _, path := range []string{"/missing", "", "expenses", "/expenses/42/edit", "/reportsx", "?x=1"} {
		t.Run(path, func(t *testing.T) {
			m, err := table.Match(path)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Match(%q) expected ErrNotFound, got %v", path, err)
			}
			if m != nil {
				t.Errorf("Match(%q) expected no match, got %s", path, m.Route.Name)
			}
		})
	}
}

func TestTableMatchFirstDeclarationWins(t *testing.T) {
	table, err := NewTable(
		Eager("/expenses/new", "NewExpense", testComponent{content: "new"}),
		Eager("/expenses/{id}", "Expense", testComponent{content: "expense"}),
		Eager("/expenses/new", "Shadowed", testComponent{content: "shadowed"}),
	)
	require.NoError(t, err)
	for range 3 {
		m, err := table.Match("/expenses/new")
		require.NoError(t, err)
		if m.Route.Name != "NewExpense" {
			t.Errorf("expected first declaration NewExpense, got %s", m.Route.Name)
		}
	}
}

func TestNewTableErrors(t *testing.T) {
	home := testComponent{content: "home"}
	tests := []struct {
		name    string
		routes  []*Route
		wantErr error
		msg     string
	}{
		{
			name:    "duplicate name",
			routes:  []*Route{Eager("/", "Home", home), Eager("/home", "Home", home)},
			wantErr: ErrDuplicateRouteName,
			msg:     `duplicate route name "Home": declared for / and /home`,
		},
		{name: "empty name", routes: []*Route{Eager("/", "", home)}, wantErr: ErrInvalidRoute},
		{name: "relative path", routes: []*Route{Eager("expenses", "Expenses", home)}, wantErr: ErrInvalidRoute},
		{name: "no view", routes: []*Route{Eager("/", "Home", nil)}, wantErr: ErrInvalidRoute},
		{name: "no loader", routes: []*Route{Lazy("/", "Home", nil)}, wantErr: ErrInvalidRoute},
		{name: "nil route", routes: []*Route{nil}, wantErr: ErrInvalidRoute},
		{name: "empty segment", routes: []*Route{Eager("/a//b", "A", home)}, wantErr: ErrInvalidRoute},
		{name: "query in pattern", routes: []*Route{Eager("/a?b", "A", home)}, wantErr: ErrInvalidRoute},
		{name: "mixed segment", routes: []*Route{Eager("/a{b}", "A", home)}, wantErr: ErrInvalidRoute},
		{name: "wildcard not last", routes: []*Route{Eager("/{a...}/b", "A", home)}, wantErr: ErrInvalidRoute},
		{name: "repeated parameter", routes: []*Route{Eager("/{a}/{a}", "A", home)}, wantErr: ErrInvalidRoute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewTable(tt.routes...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if table != nil {
				t.Errorf("expected no table on error")
			}
			if tt.msg != "" && err.Error() != tt.msg {
				t.Errorf("expected message %q, got %q", tt.msg, err.Error())
			}
		})
	}
}

func TestMustTablePanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrDuplicateRouteName) {
			t.Errorf("expected panic with ErrDuplicateRouteName, got %v", r)
		}
	}()
	MustTable(Eager("/", "Home", testComponent{}), Eager("/x", "Home", testComponent{}))
}

func TestTableIsImmutable(t *testing.T) {
	r := Eager("/expenses", "Expenses", testComponent{content: "expenses"})
	table := MustTable(r)
	r.Path = "/changed"
	r.Name = "Changed"

	if _, err := table.Match("/expenses"); err != nil {
		t.Errorf("expected table to keep original path, got %v", err)
	}
	if _, ok := table.Route("Changed"); ok {
		t.Errorf("expected table to keep original name")
	}
}

func TestTableRoutes(t *testing.T) {
	table := expenseTable(t)
	var names []string
	for r := range table.All() {
		names = append(names, r.Name)
	}
	want := []string{"Home", "Expenses", "Expense", "Categories", "Reports", "Files"}
	if diff := cmp.Diff(names, want); diff != "" {
		t.Errorf("All() mismatch (-got +want):\n%s", diff)
	}
	if table.Len() != len(want) {
		t.Errorf("expected Len %d, got %d", len(want), table.Len())
	}
	r, ok := table.Route("Expense")
	require.True(t, ok)
	if !r.IsLazy() || !r.IsDynamic() {
		t.Errorf("expected Expense to be lazy and dynamic")
	}
	if _, ok := table.Route("Missing"); ok {
		t.Errorf("expected no route named Missing")
	}
}

func TestRouteString(t *testing.T) {
	r := Lazy("/expenses", "Expenses", staticLoader("")).WithTitle("All expenses")
	s := r.String()
	for _, want := range []string{"name: Expenses", "path: /expenses", "title: All expenses", "resolution: lazy"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %s", want, s)
		}
	}
}
