package vdom

import (
	"strings"

	"github.com/vcrobe/nojs-pwa/events"
)

// TextTag marks a bare text node with no element wrapper.
const TextTag = "#text"

// VNode represents a virtual DOM node.
type VNode struct {
	Tag        string                      // The HTML tag name, or TextTag
	Attributes map[string]any              // The attributes of the node
	Children   []*VNode                    // The child nodes
	Content    string                      // Text content of the node
	RawHTML    string                      // Trusted markup set as innerHTML; must already be sanitized
	OnClick    func(events.ClickEventArgs) // Optional click handler

	// ComponentKey identifies the component that produced this subtree.
	// Patch replaces the whole subtree when keys differ.
	ComponentKey string

	eventCallbacks []any // js.Func values held for release in the browser
}

// NewVNode creates a new VNode. A func(events.ClickEventArgs) or func() stored
// under "onClick" is lifted out of the attributes into OnClick.
func NewVNode(tag string, attributes map[string]any, children []*VNode, content string) *VNode {
	var onClick func(events.ClickEventArgs)
	if attributes != nil {
		if v, ok := attributes["onClick"]; ok {
			switch f := v.(type) {
			case func(events.ClickEventArgs):
				onClick = f
			case func():
				onClick = func(events.ClickEventArgs) { f() }
			}
			if onClick != nil {
				delete(attributes, "onClick")
			}
		}
	}
	return &VNode{
		Tag:        tag,
		Attributes: attributes,
		Children:   children,
		Content:    content,
		OnClick:    onClick,
	}
}

// AddEventCallback records a browser callback so it can be released later.
func (v *VNode) AddEventCallback(cb any) {
	v.eventCallbacks = append(v.eventCallbacks, cb)
}

// GetEventCallbacks returns the recorded browser callbacks.
func (v *VNode) GetEventCallbacks() []any {
	return v.eventCallbacks
}

// ClearEventCallbacks forgets all recorded callbacks.
func (v *VNode) ClearEventCallbacks() {
	v.eventCallbacks = nil
}

// TextContent concatenates the text of the node and all its descendants,
// like the DOM property of the same name. RawHTML is not parsed.
func (v *VNode) TextContent() string {
	if v == nil {
		return ""
	}
	var b strings.Builder
	v.walk(func(n *VNode) bool {
		b.WriteString(n.Content)
		return true
	})
	return b.String()
}

// FindAll returns every node in the tree, in document order, for which match
// returns true.
func (v *VNode) FindAll(match func(*VNode) bool) []*VNode {
	var out []*VNode
	v.walk(func(n *VNode) bool {
		if match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Find returns the first node in document order for which match returns true.
func (v *VNode) Find(match func(*VNode) bool) *VNode {
	var found *VNode
	v.walk(func(n *VNode) bool {
		if match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// walk visits nodes depth-first until fn returns false.
func (v *VNode) walk(fn func(*VNode) bool) bool {
	if v == nil {
		return true
	}
	if !fn(v) {
		return false
	}
	for _, c := range v.Children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

// ByTag matches nodes with the given tag.
func ByTag(tag string) func(*VNode) bool {
	return func(n *VNode) bool { return n.Tag == tag }
}

// ByClass matches nodes whose class attribute contains name.
func ByClass(name string) func(*VNode) bool {
	return func(n *VNode) bool {
		cls, _ := n.Attributes["class"].(string)
		for _, c := range strings.Fields(cls) {
			if c == name {
				return true
			}
		}
		return false
	}
}
