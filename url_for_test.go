package spanav

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatPathSegments(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		current map[string]string
		args    []any
		want    string
		wantErr string
	}{
		{name: "static", pattern: "/expenses", want: "/expenses"},
		{name: "static with args", pattern: "/expenses", args: []any{1}, wantErr: "takes no arguments"},
		{name: "positional", pattern: "/expenses/{id}", args: []any{42}, want: "/expenses/42"},
		{name: "pairs", pattern: "/categories/{cat}/expenses/{id}", args: []any{"id", 7, "cat", "food"}, want: "/categories/food/expenses/7"},
		{name: "map", pattern: "/categories/{cat}/expenses/{id}", args: []any{map[string]any{"cat": "rent", "id": 1}}, want: "/categories/rent/expenses/1"},
		{name: "positional strings", pattern: "/{a}/{b}", args: []any{"x", "y"}, want: "/x/y"},
		{name: "escaped", pattern: "/expenses/{id}", args: []any{"a b/c"}, want: "/expenses/a%20b%2Fc"},
		{name: "wildcard keeps slashes", pattern: "/files/{path...}", args: []any{"2024/01/a b.pdf"}, want: "/files/2024/01/a%20b.pdf"},
		{name: "from current", pattern: "/expenses/{id}", current: map[string]string{"id": "9"}, want: "/expenses/9"},
		{name: "args override current", pattern: "/expenses/{id}", current: map[string]string{"id": "9"}, args: []any{"id", 3}, want: "/expenses/3"},
		{
			name: "fill unfilled", pattern: "/categories/{cat}/expenses/{id}",
			current: map[string]string{"cat": "food"}, args: []any{5}, want: "/categories/food/expenses/5",
		},
		{name: "too many", pattern: "/{a}/{b}", args: []any{1, 2, 3}, wantErr: "expected 2 arguments, got 3"},
		{name: "missing named", pattern: "/{a}/{b}", args: []any{"a", 1}, wantErr: "argument b not provided"},
		{name: "missing", pattern: "/expenses/{id}", wantErr: "argument id not provided"},
		{
			name: "missing after current", pattern: "/categories/{cat}/expenses/{id}",
			current: map[string]string{"cat": "food"}, wantErr: "argument id not provided",
		},
		{name: "unmatched brace", pattern: "/expenses/{id", args: []any{1}, wantErr: "unmatched {"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatPathSegments(tt.pattern, tt.current, tt.args...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			require.NoError(t, err)
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestTableURLFor(t *testing.T) {
	table := expenseTable(t)
	got, err := table.URLFor("Expense", "id", 42)
	require.NoError(t, err)
	if got != "/expenses/42" {
		t.Errorf("expected /expenses/42, got %s", got)
	}
	if _, err := table.URLFor("Missing"); err == nil || err.Error() != `urlfor: no route named "Missing"` {
		t.Errorf("unexpected error %v", err)
	}
	if _, err := table.URLFor("Expense"); err == nil || !strings.HasPrefix(err.Error(), "urlfor: pattern /expenses/{id}") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestURLForContext(t *testing.T) {
	table := expenseTable(t)
	if _, err := URLFor(context.Background(), "Home"); err == nil {
		t.Fatalf("expected error without a table in context")
	}

	m, err := table.Match("/expenses/42")
	require.NoError(t, err)
	ctx := tableCtx.WithValue(context.Background(), table)
	ctx = matchCtx.WithValue(ctx, m)

	if MatchFromContext(ctx) != m {
		t.Errorf("expected match from context")
	}
	for name, want := range map[string]string{"Home": "/", "Reports": "/reports", "Expense": "/expenses/42"} {
		got, err := URLFor(ctx, name)
		require.NoError(t, err)
		if got != want {
			t.Errorf("URLFor(%s) expected %s, got %s", name, want, got)
		}
	}
	got, err := URLFor(ctx, "Files", "receipts/a.pdf")
	require.NoError(t, err)
	if got != "/files/receipts/a.pdf" {
		t.Errorf("expected /files/receipts/a.pdf, got %s", got)
	}
}
