package app

import (
	"github.com/vcrobe/nojs-pwa/runtime"
	"github.com/vcrobe/nojs-pwa/vdom"
)

// HomePage is the component rendered for the "/" route.
type HomePage struct {
	runtime.ComponentBase
}

func (h *HomePage) Render(r runtime.Renderer) *vdom.VNode {
	return vdom.Div(map[string]any{"class": "page page-home"},
		vdom.Heading(1, "Home", nil),
		vdom.Paragraph("Welcome. This app is written in Go, compiled to WebAssembly, and keeps working offline once installed.", nil),
		vdom.Paragraph("Use the navigation above to switch pages without reloading the document.", nil),
	)
}

// AboutPage is the component behind the deferred "/about" route.
type AboutPage struct {
	runtime.ComponentBase
}

func (a *AboutPage) Render(r runtime.Renderer) *vdom.VNode {
	return vdom.Div(map[string]any{"class": "page page-about"},
		vdom.Heading(1, "About", nil),
		vdom.Paragraph("This page is loaded on first visit, not with the initial bundle.", nil),
		vdom.List(nil,
			vdom.Text("Client-side routing with history entries"),
			vdom.Text("Deferred route loading with a placeholder"),
			vdom.Text("Web app manifest and a precaching service worker"),
		),
	)
}
