//go:build js || wasm

package runtime

import (
	"fmt"

	"github.com/vcrobe/nojs-pwa/vdom"
)

// Compile-time assertion to ensure the concrete RendererImpl implements the Renderer interface.
var _ Renderer = (*RendererImpl)(nil)

// RendererImpl is the browser implementation of the Renderer interface.
// It manages the component instance tree and patches the DOM under mountID.
type RendererImpl struct {
	tree             *InstanceTree
	currentComponent Component         // The root component (usually the App shell)
	navManager       NavigationManager // Optional: router for client-side navigation
	mountID          string
	prevVDOM         *vdom.VNode // Previous VDOM tree for patching
	rendering        bool
	pending          bool
}

// NewRenderer creates a new runtime renderer.
// If navManager is nil, the renderer works without routing (useful for non-SPA apps).
func NewRenderer(navManager NavigationManager, mountID string) *RendererImpl {
	return &RendererImpl{
		tree:       NewInstanceTree(),
		navManager: navManager,
		mountID:    mountID,
	}
}

// SetCurrentComponent sets the root component to be rendered.
func (r *RendererImpl) SetCurrentComponent(comp Component) {
	r.currentComponent = comp
}

// RenderRoot runs one render cycle for the entire application and patches the DOM.
func (r *RendererImpl) RenderRoot() {
	if r.currentComponent == nil {
		return
	}

	r.tree.BeginCycle()
	newVDOM := r.tree.RenderChild(r, RootKey, r.currentComponent)

	if r.prevVDOM == nil {
		vdom.Clear(r.mountID, nil)
		vdom.RenderToSelector(r.mountID, newVDOM)
	} else {
		vdom.Patch(r.mountID, r.prevVDOM, newVDOM)
	}
	r.prevVDOM = newVDOM

	r.tree.EndCycle()
}

// RenderChild is called by components to render a child component.
func (r *RendererImpl) RenderChild(key string, childWithProps Component) *vdom.VNode {
	return r.tree.RenderChild(r, key, childWithProps)
}

// ReRender patches the DOM with minimal changes. A request made while a
// render is in progress runs once that render finishes.
func (r *RendererImpl) ReRender() {
	if r.rendering {
		r.pending = true
		return
	}
	r.rendering = true
	defer func() { r.rendering = false }()

	for {
		r.pending = false
		r.RenderRoot()
		if !r.pending {
			return
		}
	}
}

// Navigate delegates to the NavigationManager (router) to perform client-side navigation.
func (r *RendererImpl) Navigate(path string) error {
	if r.navManager == nil {
		return fmt.Errorf("navigate to %s: no router configured", path)
	}
	return r.navManager.Navigate(path)
}
