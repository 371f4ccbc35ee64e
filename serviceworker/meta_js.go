//go:build js || wasm

package serviceworker

import "syscall/js"

// FromDocument reads the mode and script URL the build wrote into the page.
// ok is false when the page carries no MetaName tag.
func FromDocument() (mode Mode, script string, ok bool, err error) {
	meta := js.Global().Get("document").Call("querySelector", `meta[name="`+MetaName+`"]`)
	if !meta.Truthy() {
		return "", "", false, nil
	}
	mode, script, err = ParseMeta(attr(meta, "content"), attr(meta, "data-script"))
	return mode, script, true, err
}

func attr(el js.Value, name string) string {
	v := el.Call("getAttribute", name)
	if !v.Truthy() {
		return ""
	}
	return v.String()
}
