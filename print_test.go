package spanav

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPrintRoutes(t *testing.T) {
	table := MustTable(
		Eager("/", "Home", testComponent{}).WithTitle("Home"),
		Lazy("/expenses", "Expenses", staticLoader("")).WithTitle("All expenses"),
		Lazy("/expenses/{id}", "Expense", staticLoader("")),
	)
	got := strings.Split(strings.TrimRight(PrintRoutes(table), "\n"), "\n")
	want := []string{
		"PATH            NAME      RESOLUTION  TITLE",
		"/               Home      eager       Home",
		"/expenses       Expenses  lazy        All expenses",
		"/expenses/{id}  Expense   lazy",
	}
	for i := range got {
		got[i] = strings.TrimRight(got[i], " ")
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("PrintRoutes mismatch (-got +want):\n%s", diff)
	}
}
