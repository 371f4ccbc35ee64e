package vdom

import "strconv"

// Text creates a bare text node.
func Text(content string) *VNode {
	return &VNode{Tag: TextTag, Content: content}
}

// Element creates a VNode for any tag with the given children.
func Element(tag string, attrs map[string]any, children ...*VNode) *VNode {
	return NewVNode(tag, attrs, children, "")
}

// Paragraph creates a <p> VNode with the given text and allows passing attributes.
func Paragraph(text string, attrs map[string]any) *VNode {
	return NewVNode("p", attrs, nil, text)
}

// Heading creates an <h1>..<h6> VNode. Levels outside 1..6 are clamped.
func Heading(level int, text string, attrs map[string]any) *VNode {
	level = max(1, min(level, 6))
	return NewVNode("h"+strconv.Itoa(level), attrs, nil, text)
}

// Div creates a <div> VNode with the given children and allows passing attributes.
func Div(attrs map[string]any, children ...*VNode) *VNode {
	return NewVNode("div", attrs, children, "")
}

// Button creates a <button> VNode with the given children and allows passing attributes.
func Button(content string, attrs map[string]any, children ...*VNode) *VNode {
	return NewVNode("button", attrs, children, content)
}

// Anchor creates an <a href> VNode.
func Anchor(href, label string, attrs map[string]any) *VNode {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	attrs["href"] = href
	return NewVNode("a", attrs, nil, label)
}

// List creates a <ul> whose children are wrapped in <li> elements.
func List(attrs map[string]any, items ...*VNode) *VNode {
	lis := make([]*VNode, 0, len(items))
	for _, item := range items {
		lis = append(lis, NewVNode("li", nil, []*VNode{item}, ""))
	}
	return NewVNode("ul", attrs, lis, "")
}

// Raw wraps already-sanitized markup in a <div>.
func Raw(markup string, attrs map[string]any) *VNode {
	n := NewVNode("div", attrs, nil, "")
	n.RawHTML = markup
	return n
}
