package app

import (
	"context"
	"fmt"

	"github.com/vcrobe/nojs-pwa/lazy"
	"github.com/vcrobe/nojs-pwa/router"
	"github.com/vcrobe/nojs-pwa/runtime"
)

// AboutChunk names the deferred unit holding the About page.
const AboutChunk = "about"

// Routes is the route table in match order. Non-exact routes match by path
// prefix, so Home is exact: otherwise "/" would claim every path, and an
// unknown path like /missing would show Home instead of the nav alone.
func Routes(about *lazy.Module) []router.Route {
	return []router.Route{
		{Path: "/", Exact: true, Component: func(map[string]string) runtime.Component { return &HomePage{} }},
		{Path: "/about", Component: lazy.New(about)},
	}
}

// Chunks lists the deferred routes the build pre-renders, by chunk name.
func Chunks() map[string]runtime.ComponentFactory {
	return map[string]runtime.ComponentFactory{
		AboutChunk: func(map[string]string) runtime.Component { return &AboutPage{} },
	}
}

// Bundled resolves a chunk from the binary itself instead of the network.
// The native tools and tests use it; the browser build loads chunks over HTTP.
func Bundled(name string) lazy.Loader {
	return lazy.LoaderFunc(func(ctx context.Context) (runtime.ComponentFactory, error) {
		f, ok := Chunks()[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", lazy.ErrChunkNotFound, name)
		}
		return f, nil
	})
}
