package spanav

import (
	"net/http"

	"github.com/angelofallars/htmx-go"
)

// isFragmentRequest reports whether r is an htmx navigation that swaps only
// the view into the page. Boosted links and history restores get the full
// page since htmx swaps the whole body for them.
func isFragmentRequest(r *http.Request) bool {
	return htmx.IsHTMX(r) && !htmx.IsBoosted(r) && !htmx.IsHistoryRestoreRequest(r)
}

// pushLocation makes htmx record the request location in the browser
// history. Fragments are always sent with 200 because htmx does not swap
// error responses.
func pushLocation(w http.ResponseWriter, r *http.Request) error {
	return htmx.NewResponse().
		PushURL(r.URL.RequestURI()).
		StatusCode(http.StatusOK).
		Write(w)
}
