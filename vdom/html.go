package vdom

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML serializes the VNode tree as HTML. It is used for pre-rendering
// route chunks at build time and for inspecting output in native tests.
// Event handlers are dropped; RawHTML is parsed and re-serialized.
func RenderHTML(w io.Writer, n *VNode) error {
	nodes, err := toHTMLNodes(n)
	if err != nil {
		return err
	}
	for _, hn := range nodes {
		if err := html.Render(w, hn); err != nil {
			return fmt.Errorf("render <%s>: %w", n.Tag, err)
		}
	}
	return nil
}

// HTML is RenderHTML into a string.
func HTML(n *VNode) (string, error) {
	var b strings.Builder
	if err := RenderHTML(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

func toHTMLNodes(n *VNode) ([]*html.Node, error) {
	if n == nil {
		return nil, nil
	}
	if n.Tag == TextTag {
		if n.Content == "" {
			return nil, nil
		}
		return []*html.Node{{Type: html.TextNode, Data: n.Content}}, nil
	}

	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
		Attr:     htmlAttributes(n.Attributes),
	}

	if n.Content != "" {
		el.AppendChild(&html.Node{Type: html.TextNode, Data: n.Content})
	}

	if n.RawHTML != "" {
		frag, err := html.ParseFragment(strings.NewReader(n.RawHTML), el)
		if err != nil {
			return nil, fmt.Errorf("parse raw html in <%s>: %w", n.Tag, err)
		}
		for _, c := range frag {
			el.AppendChild(c)
		}
	}

	for _, child := range n.Children {
		nodes, err := toHTMLNodes(child)
		if err != nil {
			return nil, err
		}
		for _, c := range nodes {
			el.AppendChild(c)
		}
	}
	return []*html.Node{el}, nil
}

// htmlAttributes converts VNode attributes in sorted key order so output is
// stable. Booleans follow HTML semantics; functions are event handlers and skipped.
func htmlAttributes(attrs map[string]any) []html.Attribute {
	if len(attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]html.Attribute, 0, len(keys))
	for _, k := range keys {
		switch v := attrs[k].(type) {
		case bool:
			if v {
				out = append(out, html.Attribute{Key: k})
			}
		case string:
			out = append(out, html.Attribute{Key: k, Val: v})
		case nil:
		default:
			if isFunc(v) {
				continue
			}
			out = append(out, html.Attribute{Key: k, Val: fmt.Sprint(v)})
		}
	}
	return out
}

func isFunc(v any) bool {
	return strings.HasPrefix(fmt.Sprintf("%T", v), "func(")
}
