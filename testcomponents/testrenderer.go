package testcomponents

import (
	"sync"
	"sync/atomic"

	"github.com/vcrobe/nojs-pwa/runtime"
	"github.com/vcrobe/nojs-pwa/vdom"
)

// TestRenderer is a minimal test harness that implements runtime.Renderer
// for in-memory testing without browser or WASM dependencies.
//
// It captures VDOM output from component renders and allows tests to:
// - Attach components to the renderer
// - Trigger re-renders via StateHasChanged(), from any goroutine
// - Navigate through an attached NavigationManager
// - Inspect the resulting VDOM tree
type TestRenderer struct {
	mu          sync.Mutex // held only by flush
	pending     atomic.Bool
	renders     atomic.Int64
	tree        *runtime.InstanceTree
	currentVDOM atomic.Pointer[vdom.VNode]
	component   runtime.Component

	navMu      sync.Mutex
	navManager runtime.NavigationManager
}

// Compile-time assertion to ensure TestRenderer implements runtime.Renderer interface.
var _ runtime.Renderer = (*TestRenderer)(nil)

// NewTestRenderer creates a test renderer attached to the given component.
func NewTestRenderer(comp runtime.Component) *TestRenderer {
	r := &TestRenderer{
		component: comp,
		tree:      runtime.NewInstanceTree(),
	}
	comp.SetRenderer(r)
	return r
}

// SetNavigationManager attaches a router so Navigate works in tests.
func (r *TestRenderer) SetNavigationManager(nav runtime.NavigationManager) {
	r.navMu.Lock()
	defer r.navMu.Unlock()
	r.navManager = nav
}

// RenderRoot performs a render of the component and returns the resulting VDOM.
// This should be called at the start of a test to get the initial VDOM.
func (r *TestRenderer) RenderRoot() *vdom.VNode {
	r.flush()
	return r.GetCurrentVDOM()
}

// ReRender performs a re-render of the component.
// This is called by StateHasChanged() when the component requests a re-render.
func (r *TestRenderer) ReRender() {
	r.flush()
}

// flush renders until no request is pending. When another goroutine (or an
// outer frame of this one) is flushing, the request is left for it; the
// holder re-checks pending after every unlock.
func (r *TestRenderer) flush() {
	r.pending.Store(true)
	for r.pending.Load() {
		if !r.mu.TryLock() {
			return
		}
		if r.pending.Swap(false) {
			r.tree.BeginCycle()
			r.currentVDOM.Store(r.tree.RenderChild(r, runtime.RootKey, r.component))
			r.tree.EndCycle()
			r.renders.Add(1)
		}
		r.mu.Unlock()
	}
}

// Settle blocks until no render is running or pending, so a request left
// for a flush on another goroutine has landed. Do not call it from Render.
func (r *TestRenderer) Settle() {
	for {
		r.mu.Lock()
		r.mu.Unlock()
		if !r.pending.Load() {
			return
		}
		r.flush()
	}
}

// GetCurrentVDOM returns the most recently rendered VDOM tree.
// Tests use this to inspect the component's output after renders.
func (r *TestRenderer) GetCurrentVDOM() *vdom.VNode {
	return r.currentVDOM.Load()
}

// HTML serializes the most recently rendered VDOM tree.
func (r *TestRenderer) HTML() string {
	out, err := vdom.HTML(r.GetCurrentVDOM())
	if err != nil {
		return "<!-- " + err.Error() + " -->"
	}
	return out
}

// Renders returns how many render cycles have completed.
func (r *TestRenderer) Renders() int64 {
	return r.renders.Load()
}

// RenderChild mounts child components through the same instance tree the
// browser renderer uses, so lifecycle hooks fire as they would in the page.
func (r *TestRenderer) RenderChild(key string, child runtime.Component) *vdom.VNode {
	return r.tree.RenderChild(r, key, child)
}

// Navigate forwards to the attached NavigationManager; without one it is a no-op.
func (r *TestRenderer) Navigate(path string) error {
	r.navMu.Lock()
	nav := r.navManager
	r.navMu.Unlock()
	if nav == nil {
		return nil
	}
	return nav.Navigate(path)
}
