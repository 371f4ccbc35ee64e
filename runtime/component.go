package runtime

import "github.com/vcrobe/nojs-pwa/vdom"

// Component is anything that renders a VNode tree. It carries no build tags
// so pages compile natively for tests and pre-rendering.
type Component interface {
	Render(r Renderer) *vdom.VNode

	// SetRenderer attaches the renderer that StateHasChanged and Navigate use.
	// Embedding ComponentBase provides it.
	SetRenderer(r Renderer)
}

// ComponentFactory creates a component for a matched route. params holds the
// values of {param} segments in the route pattern.
type ComponentFactory func(params map[string]string) Component
