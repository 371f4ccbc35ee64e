package router

import (
	"strings"

	"github.com/vcrobe/nojs-pwa/runtime"
)

// Route maps a path pattern to the component rendered for it.
// Patterns are made of literal segments and {param} segments, e.g. "/blog/{year}".
// An Exact route matches only paths with the same number of segments; other
// routes also match deeper paths on a segment boundary.
type Route struct {
	Path      string
	Exact     bool
	Component runtime.ComponentFactory
}

// Match is the result of resolving a path against the route table.
type Match struct {
	Route  *Route
	Path   string
	Params map[string]string
}

// Key identifies the mounted instance for this match. Different concrete
// paths get different instances.
func (m Match) Key() string {
	return "route:" + m.Path
}

// CleanPath strips the query string and fragment, removes a trailing slash
// and maps the empty path to "/".
func CleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

func segments(p string) []string {
	p = strings.Trim(CleanPath(p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func isParam(seg string) bool {
	return len(seg) > 2 && strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}")
}

// match reports whether path satisfies the route pattern and extracts params.
//
//	match("/blog/{year}", "/blog/2026") returns {"year": "2026"}
func (rt *Route) match(path string) (map[string]string, bool) {
	patternParts := segments(rt.Path)
	pathParts := segments(path)

	if rt.Exact && len(pathParts) != len(patternParts) {
		return nil, false
	}
	if len(pathParts) < len(patternParts) {
		return nil, false
	}

	params := make(map[string]string)
	for i, seg := range patternParts {
		if isParam(seg) {
			params[strings.Trim(seg, "{}")] = pathParts[i]
			continue
		}
		if seg != pathParts[i] {
			return nil, false
		}
	}
	return params, true
}
