package runtime

import "github.com/vcrobe/nojs-pwa/vdom"

// Renderer is what Render code sees of the runtime. The browser renderer,
// the test renderer and the static pre-renderer all implement it.
type Renderer interface {
	// RenderChild mounts childWithProps under key and renders it. An instance
	// already mounted under key is kept and receives the new props.
	RenderChild(key string, childWithProps Component) *vdom.VNode

	// ReRender schedules a render cycle. It is safe to call from other
	// goroutines and from inside a render; calls are coalesced.
	ReRender()

	// Navigate performs client-side navigation to path.
	Navigate(path string) error
}
