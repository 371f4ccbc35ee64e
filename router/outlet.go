package router

import (
	"github.com/vcrobe/nojs-pwa/runtime"
	"github.com/vcrobe/nojs-pwa/vdom"
)

// Outlet renders the component of the first route matching the engine's
// current path, or nil when nothing matches. The instance is preserved
// across renders for as long as the location stays on the same path.
func Outlet(r runtime.Renderer, e *Engine) *vdom.VNode {
	m, ok := e.Match(e.CurrentPath())
	if !ok {
		return nil
	}
	return r.RenderChild(m.Key(), m.Route.Component(m.Params))
}
