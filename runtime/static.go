package runtime

import (
	"errors"
	"fmt"

	"github.com/vcrobe/nojs-pwa/vdom"
)

// ErrStaticRender is returned when a component navigates during a static render.
var ErrStaticRender = errors.New("navigation is not available in a static render")

// staticRenderer renders a component tree once, outside the browser, for
// pre-rendering. Re-render requests are ignored.
type staticRenderer struct {
	tree *InstanceTree
}

func (s *staticRenderer) RenderChild(key string, childWithProps Component) *vdom.VNode {
	return s.tree.RenderChild(s, key, childWithProps)
}

func (s *staticRenderer) ReRender() {}

func (s *staticRenderer) Navigate(path string) error {
	return fmt.Errorf("navigate to %s: %w", path, ErrStaticRender)
}

// RenderStatic runs one full lifecycle for c: every component in the tree is
// initialized, rendered once and destroyed.
func RenderStatic(c Component) *vdom.VNode {
	s := &staticRenderer{tree: NewInstanceTree()}
	s.tree.BeginCycle()
	node := s.tree.RenderChild(s, RootKey, c)
	s.tree.EndCycle()

	s.tree.BeginCycle()
	s.tree.EndCycle()
	return node
}
