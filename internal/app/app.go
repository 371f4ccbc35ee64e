// Package app is the PWA itself: a navigation bar over a routed body slot,
// a static Home page and a deferred About page.
package app

import (
	"github.com/vcrobe/nojs-pwa/router"
	"github.com/vcrobe/nojs-pwa/runtime"
	"github.com/vcrobe/nojs-pwa/vdom"
)

// App is the root component.
type App struct {
	runtime.ComponentBase

	Engine *router.Engine

	unsubscribe func()
}

// New returns the root component for engine.
func New(engine *router.Engine) *App {
	return &App{Engine: engine}
}

func (a *App) OnInit() {
	a.unsubscribe = a.Engine.Location().Subscribe(a.StateHasChanged)
}

func (a *App) OnDestroy() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

func (a *App) Render(r runtime.Renderer) *vdom.VNode {
	nav := vdom.Element("nav", map[string]any{"class": "app-nav"},
		r.RenderChild("nav:home", &router.Link{Href: "/", Label: "Home"}),
		r.RenderChild("nav:about", &router.Link{Href: "/about", Label: "About"}),
	)

	body := vdom.Element("main", map[string]any{"class": "app-body"})
	if page := router.Outlet(r, a.Engine); page != nil {
		body.Children = append(body.Children, page)
	}

	return vdom.Div(map[string]any{"class": "app"}, nav, body)
}
