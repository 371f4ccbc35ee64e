package router

import (
	"github.com/vcrobe/nojs-pwa/console"
	"github.com/vcrobe/nojs-pwa/events"
	"github.com/vcrobe/nojs-pwa/runtime"
	"github.com/vcrobe/nojs-pwa/vdom"
)

// Link renders an anchor that navigates client-side. Clicks with a modifier
// key or a non-primary button are left to the browser (e.g. open in new tab).
type Link struct {
	runtime.ComponentBase

	Href  string
	Label string
	Class string
}

// ApplyProps copies props from a freshly constructed Link.
func (l *Link) ApplyProps(source runtime.Component) {
	if src, ok := source.(*Link); ok {
		l.Href, l.Label, l.Class = src.Href, src.Label, src.Class
	}
}

func (l *Link) Render(r runtime.Renderer) *vdom.VNode {
	attrs := map[string]any{"onClick": l.HandleClick}
	if l.Class != "" {
		attrs["class"] = l.Class
	}
	return vdom.Anchor(l.Href, l.Label, attrs)
}

// HandleClick navigates to Href without reloading the document.
func (l *Link) HandleClick(e events.ClickEventArgs) {
	if e.Button != 0 || e.HasModifier() {
		return
	}
	e.PreventDefault()
	if err := l.Navigate(l.Href); err != nil {
		console.Error("Navigation error:", err.Error())
	}
}
