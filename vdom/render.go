//go:build js || wasm

package vdom

import (
	"syscall/js"

	"github.com/vcrobe/nojs-pwa/console"
	"github.com/vcrobe/nojs-pwa/events"
)

// releaseCallbacks releases all js.Func objects stored in a VNode.
func releaseCallbacks(v *VNode) {
	if v == nil {
		return
	}
	for _, cb := range v.GetEventCallbacks() {
		if jsFunc, ok := cb.(js.Func); ok {
			jsFunc.Release()
		}
	}
	v.ClearEventCallbacks()
}

// deepReleaseCallbacks recursively releases all callbacks in the entire VNode tree.
func deepReleaseCallbacks(v *VNode) {
	if v == nil {
		return
	}
	releaseCallbacks(v)
	for _, child := range v.Children {
		deepReleaseCallbacks(child)
	}
}

func mountElement(selector string) js.Value {
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return js.Undefined()
	}
	mount := doc.Call("querySelector", selector)
	if !mount.Truthy() {
		console.Error("Mount element not found for selector:", selector)
	}
	return mount
}

// Clear empties the mount element and releases callbacks of the previous tree.
func Clear(selector string, prevVDOM *VNode) {
	if selector == "" {
		return
	}
	if prevVDOM != nil {
		deepReleaseCallbacks(prevVDOM)
	}
	if mount := mountElement(selector); mount.Truthy() {
		mount.Set("innerHTML", "")
	}
}

// RenderToSelector mounts the VNode under the first element matching the CSS selector.
func RenderToSelector(selector string, n *VNode) {
	if n == nil || selector == "" {
		return
	}
	if mount := mountElement(selector); mount.Truthy() {
		RenderTo(mount, n)
	}
}

// RenderTo appends the rendered node to a specific mount element.
func RenderTo(mount js.Value, n *VNode) {
	if n == nil {
		return
	}
	if el := createElement(n); el.Truthy() {
		mount.Call("appendChild", el)
	}
}

// setAttributeValue sets an attribute on an element, handling boolean attributes.
func setAttributeValue(el js.Value, key string, value any) {
	switch v := value.(type) {
	case bool:
		if v {
			el.Call("setAttribute", key, "")
		} else {
			el.Call("removeAttribute", key)
		}
	case nil:
	default:
		if isFunc(v) {
			return
		}
		el.Call("setAttribute", key, v)
	}
}

// attachClick wires the VNode's Go click handler and stores the js.Func for release.
func attachClick(el js.Value, n *VNode) {
	if n.OnClick == nil {
		return
	}
	handler := n.OnClick
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		var ev js.Value
		if len(args) > 0 {
			ev = args[0]
		}
		handler(clickArgs(ev))
		return nil
	})
	el.Call("addEventListener", "click", cb)
	n.AddEventCallback(cb)
}

func clickArgs(ev js.Value) events.ClickEventArgs {
	if !ev.Truthy() {
		return events.NewClickEventArgs(0, false, false, false, false, nil)
	}
	return events.NewClickEventArgs(
		ev.Get("button").Int(),
		ev.Get("ctrlKey").Bool(),
		ev.Get("metaKey").Bool(),
		ev.Get("shiftKey").Bool(),
		ev.Get("altKey").Bool(),
		func() { ev.Call("preventDefault") },
	)
}

func createElement(n *VNode) js.Value {
	doc := js.Global().Get("document")
	if !doc.Truthy() || n == nil {
		return js.Undefined()
	}

	if n.Tag == TextTag {
		if n.Content == "" {
			return js.Undefined()
		}
		return doc.Call("createTextNode", n.Content)
	}

	el := doc.Call("createElement", n.Tag)
	for k, v := range n.Attributes {
		setAttributeValue(el, k, v)
	}
	attachClick(el, n)

	switch {
	case n.RawHTML != "":
		el.Set("innerHTML", n.RawHTML)
	case n.Tag == "input" || n.Tag == "textarea":
		if n.Content != "" {
			el.Set("value", n.Content)
		}
	case n.Content != "" && len(n.Children) == 0:
		el.Set("textContent", n.Content)
	default:
		if n.Content != "" {
			el.Call("appendChild", doc.Call("createTextNode", n.Content))
		}
		for _, child := range n.Children {
			if childEl := createElement(child); childEl.Truthy() {
				el.Call("appendChild", childEl)
			}
		}
	}
	return el
}

// Patch updates the DOM by comparing old and new VDOM trees and applying minimal changes.
func Patch(mountSelector string, oldVNode, newVNode *VNode) {
	if oldVNode == nil || newVNode == nil {
		return
	}
	mount := mountElement(mountSelector)
	if !mount.Truthy() {
		return
	}
	rootElement := mount.Get("firstChild")
	if !rootElement.Truthy() {
		RenderToSelector(mountSelector, newVNode)
		return
	}
	patchElement(rootElement, oldVNode, newVNode)
}

func replaceElement(domElement js.Value, oldVNode, newVNode *VNode) {
	deepReleaseCallbacks(oldVNode)
	newElement := createElement(newVNode)
	if !newElement.Truthy() {
		return
	}
	if parent := domElement.Get("parentNode"); parent.Truthy() {
		parent.Call("replaceChild", newElement, domElement)
	}
}

// patchElement updates a single DOM element based on VDOM differences.
func patchElement(domElement js.Value, oldVNode, newVNode *VNode) {
	if !domElement.Truthy() || oldVNode == nil || newVNode == nil {
		return
	}

	if oldVNode.ComponentKey != newVNode.ComponentKey && (oldVNode.ComponentKey != "" || newVNode.ComponentKey != "") {
		replaceElement(domElement, oldVNode, newVNode)
		return
	}
	if oldVNode.Tag != newVNode.Tag || oldVNode.RawHTML != newVNode.RawHTML {
		replaceElement(domElement, oldVNode, newVNode)
		return
	}
	if newVNode.Tag == TextTag {
		if oldVNode.Content != newVNode.Content {
			domElement.Set("nodeValue", newVNode.Content)
		}
		return
	}

	patchAttributes(domElement, oldVNode.Attributes, newVNode.Attributes)

	releaseCallbacks(oldVNode)
	attachClick(domElement, newVNode)

	if newVNode.Tag == "input" || newVNode.Tag == "textarea" {
		// Leave focused inputs alone so typing is not interrupted.
		if !domElement.Call("matches", ":focus").Bool() && newVNode.Content != "" &&
			domElement.Get("value").String() != newVNode.Content {
			domElement.Set("value", newVNode.Content)
		}
	} else if len(newVNode.Children) == 0 && len(oldVNode.Children) == 0 && oldVNode.Content != newVNode.Content {
		domElement.Set("textContent", newVNode.Content)
		return
	}

	patchChildren(domElement, oldVNode, newVNode)
}

// patchAttributes updates the attributes of a DOM element.
func patchAttributes(domElement js.Value, oldAttrs, newAttrs map[string]any) {
	for key := range oldAttrs {
		if _, exists := newAttrs[key]; !exists {
			domElement.Call("removeAttribute", key)
		}
	}
	for key, value := range newAttrs {
		if oldAttrs == nil || oldAttrs[key] != value {
			setAttributeValue(domElement, key, value)
		}
	}
}

// patchChildren updates the children of a DOM element. Content mixed with
// children occupies the first DOM child, so it is rebuilt wholesale.
func patchChildren(domElement js.Value, oldVNode, newVNode *VNode) {
	if oldVNode.Content != newVNode.Content {
		for _, c := range oldVNode.Children {
			deepReleaseCallbacks(c)
		}
		domElement.Set("innerHTML", "")
		fresh := createElement(newVNode)
		for fresh.Get("firstChild").Truthy() {
			domElement.Call("appendChild", fresh.Get("firstChild"))
		}
		return
	}

	offset := 0
	if newVNode.Content != "" {
		offset = 1
	}

	oldChildren, newChildren := oldVNode.Children, newVNode.Children
	oldLen, newLen := len(oldChildren), len(newChildren)
	domChildren := domElement.Get("childNodes")

	for i := 0; i < min(oldLen, newLen); i++ {
		oldChild, newChild := oldChildren[i], newChildren[i]
		childElement := domChildren.Call("item", i+offset)

		switch {
		case oldChild == nil && newChild != nil:
			if newChildEl := createElement(newChild); newChildEl.Truthy() {
				if childElement.Truthy() {
					domElement.Call("insertBefore", newChildEl, childElement)
				} else {
					domElement.Call("appendChild", newChildEl)
				}
			}
		case oldChild != nil && newChild == nil:
			deepReleaseCallbacks(oldChild)
			if childElement.Truthy() {
				domElement.Call("removeChild", childElement)
			}
		case oldChild != nil && newChild != nil:
			if childElement.Truthy() {
				patchElement(childElement, oldChild, newChild)
			}
		}
	}

	for i := oldLen; i < newLen; i++ {
		if newChild := createElement(newChildren[i]); newChild.Truthy() {
			domElement.Call("appendChild", newChild)
		}
	}

	for i := oldLen - 1; i >= newLen; i-- {
		deepReleaseCallbacks(oldChildren[i])
		if childElement := domChildren.Call("item", i+offset); childElement.Truthy() {
			domElement.Call("removeChild", childElement)
		}
	}
}
