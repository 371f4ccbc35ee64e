package runtime

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vcrobe/nojs-pwa/console"
)

// ErrNotMounted is returned when a component without a renderer tries to navigate.
var ErrNotMounted = errors.New("renderer is nil (component not mounted?)")

// ComponentBase is a struct that components can embed to gain access to the
// StateHasChanged method, which triggers a UI re-render.
// This type has no build tags and works in both WASM and test environments.
type ComponentBase struct {
	mu       sync.RWMutex
	renderer Renderer // Use interface type, not concrete implementation
}

// SetRenderer is called by the framework's runtime to inject a reference
// to the renderer, enabling StateHasChanged. This method should not be
// called by user code.
func (b *ComponentBase) SetRenderer(r Renderer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renderer = r
}

// GetRenderer returns the renderer instance associated with this component.
func (b *ComponentBase) GetRenderer() Renderer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.renderer
}

// StateHasChanged signals to the framework that the component's state has
// been updated and the UI should be re-rendered to reflect the changes.
func (b *ComponentBase) StateHasChanged() {
	r := b.GetRenderer()
	if r == nil {
		console.Error("StateHasChanged called, but renderer is nil (component not mounted?)")
		return
	}
	r.ReRender()
}

// Navigate requests client-side navigation to a new path.
// This is used by components (such as Link) to trigger routing without full page reloads.
//
// Example usage in a component:
//
//	func (c *MyComponent) HandleClick() {
//	    if err := c.Navigate("/about"); err != nil {
//	        console.Error("Navigation failed:", err.Error())
//	    }
//	}
func (b *ComponentBase) Navigate(path string) error {
	r := b.GetRenderer()
	if r == nil {
		return fmt.Errorf("navigate to %s: %w", path, ErrNotMounted)
	}
	return r.Navigate(path)
}
