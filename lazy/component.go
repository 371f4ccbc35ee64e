package lazy

import (
	"context"
	"fmt"
	"sync"

	"github.com/vcrobe/nojs-pwa/console"
	"github.com/vcrobe/nojs-pwa/runtime"
	"github.com/vcrobe/nojs-pwa/vdom"
)

// PlaceholderText is shown in a deferred route's slot while it loads.
const PlaceholderText = "Loading..."

type loadState int

const (
	statePending loadState = iota
	stateResolved
	stateFailed
)

// Component renders a Module: the fallback while the module loads, then the
// module's component in the same slot. A load that finishes after the
// component was unmounted is discarded.
type Component struct {
	runtime.ComponentBase

	Module   *Module
	Params   map[string]string
	Fallback func() *vdom.VNode

	mu       sync.Mutex
	state    loadState
	factory  runtime.ComponentFactory
	resolved runtime.Component
	err      error
	gen      uint64
	cancel   context.CancelFunc
}

// New returns a route factory that renders m lazily.
func New(m *Module) runtime.ComponentFactory {
	return func(params map[string]string) runtime.Component {
		return &Component{Module: m, Params: params}
	}
}

// Placeholder is the default fallback.
func Placeholder() *vdom.VNode {
	return vdom.NewVNode("div", map[string]any{"class": "lazy-placeholder"}, nil, PlaceholderText)
}

func (c *Component) ApplyProps(source runtime.Component) {
	if src, ok := source.(*Component); ok && src.Fallback != nil {
		c.Fallback = src.Fallback
	}
}

func (c *Component) OnInit() {
	c.start()
}

func (c *Component) OnDestroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Retry starts a new load after a failure.
func (c *Component) Retry() {
	c.mu.Lock()
	failed := c.state == stateFailed
	c.mu.Unlock()
	if !failed {
		return
	}
	c.start()
	c.StateHasChanged()
}

// start resolves synchronously when the module is already loaded, otherwise
// fetches it in the background and re-renders when it arrives.
func (c *Component) start() {
	if f, ok := c.Module.Resolved(); ok {
		c.mu.Lock()
		c.state, c.factory, c.err = stateResolved, f, nil
		c.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.state, c.err = statePending, nil
	c.mu.Unlock()

	r := c.GetRenderer()
	go func() {
		defer cancel()
		f, err := c.Module.Load(ctx)

		c.mu.Lock()
		if gen != c.gen {
			c.mu.Unlock()
			console.Log("[lazy] discarding stale load of", c.Module.Name())
			return
		}
		c.cancel = nil
		if err != nil {
			c.state, c.err = stateFailed, err
			console.Error("[lazy] load failed:", err.Error())
		} else {
			c.state, c.factory = stateResolved, f
		}
		c.mu.Unlock()

		if r != nil {
			r.ReRender()
		}
	}()
}

func (c *Component) Render(r runtime.Renderer) *vdom.VNode {
	c.mu.Lock()
	state, factory, err := c.state, c.factory, c.err
	if state == stateResolved && c.resolved == nil {
		c.resolved = factory(c.Params)
	}
	resolved := c.resolved
	c.mu.Unlock()

	switch state {
	case stateResolved:
		return r.RenderChild(fmt.Sprintf("lazy:%s:%p", c.Module.Name(), c), resolved)
	case stateFailed:
		return vdom.Div(map[string]any{"class": "lazy-error", "role": "alert"},
			vdom.Paragraph("This page could not be loaded.", nil),
			vdom.Paragraph(err.Error(), map[string]any{"class": "lazy-error-detail"}),
			vdom.Button("Retry", map[string]any{"onClick": c.Retry}),
		)
	default:
		if c.Fallback != nil {
			return c.Fallback()
		}
		return Placeholder()
	}
}
