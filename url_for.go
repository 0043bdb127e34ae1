package spanav

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackielii/ctxkey"
)

var (
	tableCtx = ctxkey.New[*Table]("spanav.table", nil)
	matchCtx = ctxkey.New[*Match]("spanav.match", nil)
)

// MatchFromContext returns the match of the request being served by a
// [Handler], or nil.
func MatchFromContext(ctx context.Context) *Match {
	return matchCtx.Value(ctx)
}

// URLFor returns the path of the route named name in the table serving the
// current request. See [Table.URLFor] for args. Parameters not given in args
// are taken from the current match when the names agree.
func URLFor(ctx context.Context, name string, args ...any) (string, error) {
	t := tableCtx.Value(ctx)
	if t == nil {
		return "", errors.New("urlfor: route table not found in context")
	}
	var current map[string]string
	if m := matchCtx.Value(ctx); m != nil {
		current = m.Params
	}
	return t.urlFor(name, current, args...)
}

// URLFor returns the path of the route named name with its parameters filled
// from args. args may be a single map[string]any, name/value pairs, or values
// in parameter order.
//
//	t.URLFor("Expense", "id", 42)   // "/expenses/42"
//	t.URLFor("Expense", 42)         // "/expenses/42"
func (t *Table) URLFor(name string, args ...any) (string, error) {
	return t.urlFor(name, nil, args...)
}

func (t *Table) urlFor(name string, current map[string]string, args ...any) (string, error) {
	r, ok := t.Route(name)
	if !ok {
		return "", fmt.Errorf("urlfor: no route named %q", name)
	}
	path, err := formatPathSegments(r.Path, current, args...)
	if err != nil {
		return "", fmt.Errorf("urlfor: %w", err)
	}
	return path, nil
}

// formatPathSegments fills the {name} segments of pattern.
func formatPathSegments(pattern string, current map[string]string, args ...any) (string, error) {
	segments, err := parseSegments(pattern)
	if err != nil {
		return pattern, err
	}
	var indices []int
	for i, segment := range segments {
		if segment.param {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		if len(args) > 0 {
			return pattern, fmt.Errorf("pattern %s: takes no arguments, got %v", pattern, args)
		}
		return pattern, nil
	}
	for _, idx := range indices {
		segments[idx].value = current[segments[idx].name]
	}

	named := namedArgs(segments, indices, args)
	switch {
	case named != nil:
		for _, idx := range indices {
			if v, ok := named[segments[idx].name]; ok {
				segments[idx].value = fmt.Sprint(v)
			}
		}
	case len(args) == len(indices):
		for i, idx := range indices {
			segments[idx].value = fmt.Sprint(args[i])
		}
	default:
		// fill the parameters the current match did not provide
		unfilled := 0
		for _, idx := range indices {
			if segments[idx].value == "" {
				unfilled++
			}
		}
		if len(args) > 0 && len(args) != unfilled {
			return pattern, fmt.Errorf("pattern %s: expected %d arguments, got %d", pattern, unfilled, len(args))
		}
		i := 0
		for _, idx := range indices {
			if segments[idx].value == "" && i < len(args) {
				segments[idx].value = fmt.Sprint(args[i])
				i++
			}
		}
	}

	var sb strings.Builder
	for _, segment := range segments {
		if !segment.param {
			sb.WriteString(segment.name)
			continue
		}
		if segment.value == "" {
			return pattern, fmt.Errorf("pattern %s: argument %s not provided", pattern, segment.name)
		}
		sb.WriteString(escapeParam(segment))
	}
	return sb.String(), nil
}

// namedArgs returns args as a name/value map when given as a map or as pairs
// whose keys name at least one parameter.
func namedArgs(segments []segment, indices []int, args []any) map[string]any {
	if len(args) == 1 {
		if m, ok := args[0].(map[string]any); ok {
			return m
		}
	}
	if len(args) < 2 || len(args)%2 != 0 {
		return nil
	}
	params := make(map[string]bool, len(indices))
	for _, idx := range indices {
		params[segments[idx].name] = true
	}
	m := make(map[string]any, len(args)/2)
	matchKey := false
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			return nil
		}
		matchKey = matchKey || params[key]
		m[key] = args[i+1]
	}
	if !matchKey {
		return nil
	}
	return m
}

func escapeParam(s segment) string {
	if !s.wildcard {
		return url.PathEscape(s.value)
	}
	parts := strings.Split(s.value, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

type segment struct {
	name     string
	param    bool
	wildcard bool
	value    string
}

func parseSegments(pattern string) (segments []segment, err error) {
	rest := pattern
	for rest != "" {
		start := strings.Index(rest, "{")
		if start == -1 {
			segments = append(segments, segment{name: rest})
			break
		}
		if start > 0 {
			segments = append(segments, segment{name: rest[:start]})
		}
		rest = rest[start+1:] // move over the '{'
		end := strings.Index(rest, "}")
		if end == -1 {
			return nil, fmt.Errorf("pattern %s: unmatched {", pattern)
		}
		name, wildcard := strings.CutSuffix(rest[:end], "...")
		rest = rest[end+1:]
		segments = append(segments, segment{name: cmp.Or(name, "_"), param: true, wildcard: wildcard})
	}
	return segments, nil
}
