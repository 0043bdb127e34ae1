package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jackielii/spanav"
	"github.com/jackielii/spanav/internal/config"
)

func TestRoutesCommand(t *testing.T) {
	t.Setenv(config.EnvEnv, "")
	t.Setenv(config.EnvViewsBucket, "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"routes", "--config", filepath.Join("..", "..", "config.toml")})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header and 4 routes, got:\n%s", out.String())
	}
	for i, want := range []string{"PATH", "/ ", "/expenses ", "/categories ", "/reports "} {
		if !strings.HasPrefix(lines[i], want) {
			t.Errorf("line %d: expected prefix %q, got %q", i, want, lines[i])
		}
	}
	if !strings.Contains(lines[2], "lazy") || !strings.Contains(lines[1], "eager") {
		t.Errorf("unexpected resolutions:\n%s", out.String())
	}
}

func TestRoutesCommandMissingConfig(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"routes", "-c", filepath.Join(t.TempDir(), "missing.toml")})
	if err := cmd.Execute(); err == nil {
		t.Errorf("expected error for a missing config file")
	}
}

func TestBuildTableFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "expenses.html"), []byte("<p>from disk</p>"), 0o644))

	cfg := &config.Config{
		Views: config.ViewsConfig{Dir: dir},
		Routes: []spanav.Record{
			{Path: "/", Name: "Home", Component: "home"},
			{Path: "/expenses", Name: "Expenses", Component: "expenses", Lazy: true},
			{Path: "/reports", Name: "Reports", Component: "reports", Lazy: true},
		},
	}
	table, err := buildTable(cfg)
	require.NoError(t, err)

	res := spanav.NewResolver()
	expenses, _ := table.Route("Expenses")
	view, err := res.Resolve(context.Background(), expenses).Wait(context.Background())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, view.Render(context.Background(), &buf))
	if buf.String() != "<p>from disk</p>" {
		t.Errorf("expected fragment from disk, got %q", buf.String())
	}

	// reports.html is missing from the directory
	reports, _ := table.Route("Reports")
	if _, err := res.Resolve(context.Background(), reports).Wait(context.Background()); err == nil {
		t.Errorf("expected load error for a missing fragment")
	}
}

func TestBuildTableEmbedded(t *testing.T) {
	cfg := &config.Config{
		Routes: []spanav.Record{{Path: "/reports", Name: "Reports", Component: "reports", Lazy: true}},
	}
	table, err := buildTable(cfg)
	require.NoError(t, err)
	reports, _ := table.Route("Reports")
	view, err := spanav.NewResolver().Resolve(context.Background(), reports).Wait(context.Background())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, view.Render(context.Background(), &buf))
	if !strings.Contains(buf.String(), "<h1>Reports</h1>") {
		t.Errorf("expected embedded reports fragment, got %q", buf.String())
	}
}

func TestBuildTableUnknownComponent(t *testing.T) {
	cfg := &config.Config{
		Routes: []spanav.Record{{Path: "/", Name: "Home", Component: "landing"}},
	}
	if _, err := buildTable(cfg); err == nil {
		t.Errorf("expected error for an unregistered component")
	}
}
