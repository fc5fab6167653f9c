package annotate

import (
	"net/http"
	"strings"
)

// IsHTMLNavigation reports whether the request is a top-level HTML page load.
// Only those responses receive the footer annotation; AJAX fetches, JSON
// clients and API endpoints are left untouched.
func IsHTMLNavigation(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	if isAJAX(r) {
		return false
	}
	if wantsJSON(r) {
		return false
	}
	if isAPIPath(r.URL.Path) {
		return false
	}
	return true
}

func isAJAX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// wantsJSON reports whether the client asked for JSON without also accepting
// HTML. Browsers send text/html in navigation Accept headers, so a bare
// application/json marks a programmatic client.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return false
	}
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/") || strings.HasSuffix(path, ".json")
}
