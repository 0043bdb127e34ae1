package spanav

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// PrintRoutes renders the table as aligned columns, one route per line, in
// matching order.
func PrintRoutes(t *Table) string {
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tNAME\tRESOLUTION\tTITLE")
	for r := range t.All() {
		resolution := "eager"
		if r.IsLazy() {
			resolution = "lazy"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Path, r.Name, resolution, r.Title)
	}
	_ = tw.Flush()
	return sb.String()
}
