package router

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/vcrobe/nojs-pwa/console"
	"github.com/vcrobe/nojs-pwa/runtime"
	"github.com/vcrobe/nojs-pwa/signals"
)

// ErrNoRoute is returned by Resolve when no route matches a path.
var ErrNoRoute = errors.New("no route for path")

var _ runtime.NavigationManager = (*Engine)(nil)

// Engine owns the route table and the current location.
// Routes are matched in declaration order and the first match wins.
// The table is fixed at construction.
type Engine struct {
	mu       sync.Mutex
	routes   []Route
	history  History
	location *signals.Signal[string]
	stop     func()
}

// NewEngine creates a router over history with the given routes.
func NewEngine(history History, routes ...Route) *Engine {
	return &Engine{
		routes:   routes,
		history:  history,
		location: signals.NewSignal(CleanPath(history.Path())),
	}
}

// Routes returns a copy of the route table in declaration order.
func (e *Engine) Routes() []Route {
	out := make([]Route, len(e.routes))
	copy(out, e.routes)
	return out
}

// Match returns the first route whose pattern matches path.
func (e *Engine) Match(path string) (Match, bool) {
	path = CleanPath(path)
	for i := range e.routes {
		if params, ok := e.routes[i].match(path); ok {
			return Match{Route: &e.routes[i], Path: path, Params: params}, true
		}
	}
	return Match{}, false
}

// Resolve is Match with an error for unmatched paths.
func (e *Engine) Resolve(path string) (Match, error) {
	m, ok := e.Match(path)
	if !ok {
		return Match{}, fmt.Errorf("%w: %s", ErrNoRoute, path)
	}
	return m, nil
}

// Location is the current path as a signal. Components subscribe to it to
// re-render on navigation.
func (e *Engine) Location() *signals.Signal[string] {
	return e.location
}

// CurrentPath returns the current route path.
func (e *Engine) CurrentPath() string {
	return e.location.Get()
}

// Navigate pushes path onto the history and publishes it. The document is
// not reloaded. Navigating to the current path is a no-op. Paths with no
// matching route are allowed and render no body content.
func (e *Engine) Navigate(path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("navigate: path %q must be absolute", path)
	}

	e.mu.Lock()
	clean := CleanPath(path)
	if clean == e.location.Get() {
		e.mu.Unlock()
		return nil
	}
	if _, ok := e.Match(clean); !ok {
		console.Warn("[Engine.Navigate] No route found for path:", clean)
	}
	e.history.Push(path)
	e.mu.Unlock()

	console.Log("[Engine.Navigate] Location:", clean)
	e.location.Set(clean)
	return nil
}

// Start syncs with the history's current entry and follows back/forward
// changes until Stop is called.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.stop == nil {
		e.stop = e.history.Listen(func(path string) {
			e.location.Set(CleanPath(path))
		})
	}
	initial := CleanPath(e.history.Path())
	e.mu.Unlock()

	console.Log("[Engine.Start] Initial path:", initial)
	e.location.Set(initial)
}

// Stop releases the history listener.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stop != nil {
		e.stop()
		e.stop = nil
	}
}
