// Package lazy defers fetching a route's component until the route is first
// visited, rendering a placeholder in its slot until the fetch resolves.
package lazy

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/vcrobe/nojs-pwa/runtime"
)

// Loader fetches a deferred unit and returns the factory it exports.
type Loader interface {
	Load(ctx context.Context) (runtime.ComponentFactory, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (runtime.ComponentFactory, error)

func (f LoaderFunc) Load(ctx context.Context) (runtime.ComponentFactory, error) {
	return f(ctx)
}

// Registry remembers resolved modules for the life of the page and collapses
// concurrent loads of the same module into one fetch. Failed loads are not
// remembered, so a later attempt fetches again.
type Registry struct {
	resolved *cache.Cache
	inflight singleflight.Group
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{resolved: cache.New(cache.NoExpiration, 0)}
}

// DefaultRegistry backs Import.
var DefaultRegistry = NewRegistry()

// Module is a named deferred unit, the equivalent of a code chunk.
type Module struct {
	name     string
	loader   Loader
	registry *Registry
}

// Import declares a module in the default registry. Nothing is fetched until
// the module is first loaded.
func Import(name string, loader Loader) *Module {
	return DefaultRegistry.Import(name, loader)
}

// Import declares a module in this registry.
func (reg *Registry) Import(name string, loader Loader) *Module {
	return &Module{name: name, loader: loader, registry: reg}
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Resolved returns the module's factory if it has already been loaded.
func (m *Module) Resolved() (runtime.ComponentFactory, bool) {
	v, ok := m.registry.resolved.Get(m.name)
	if !ok {
		return nil, false
	}
	return v.(runtime.ComponentFactory), true
}

// Load returns the module's factory, fetching it if needed. The shared fetch
// is not tied to ctx; cancelling ctx only stops this caller from waiting.
func (m *Module) Load(ctx context.Context) (runtime.ComponentFactory, error) {
	if f, ok := m.Resolved(); ok {
		return f, nil
	}

	ch := m.registry.inflight.DoChan(m.name, func() (any, error) {
		if f, ok := m.Resolved(); ok {
			return f, nil
		}
		f, err := m.loader.Load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if f == nil {
			return nil, fmt.Errorf("module %s resolved to a nil factory", m.name)
		}
		m.registry.resolved.Set(m.name, f, cache.NoExpiration)
		return f, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("load module %s: %w", m.name, res.Err)
		}
		return res.Val.(runtime.ComponentFactory), nil
	}
}

// Forget drops a resolved module so the next load fetches again.
func (m *Module) Forget() {
	m.registry.resolved.Delete(m.name)
}
