//go:build js || wasm

package router

import (
	"syscall/js"

	"github.com/vcrobe/nojs-pwa/console"
)

// BrowserHistory drives window.history and listens for popstate.
type BrowserHistory struct{}

var _ History = BrowserHistory{}

// NewBrowserHistory returns the History backed by the page.
func NewBrowserHistory() BrowserHistory {
	return BrowserHistory{}
}

// Path returns location.pathname.
func (BrowserHistory) Path() string {
	return js.Global().Get("location").Get("pathname").String()
}

// Push updates the URL with pushState; the document is not reloaded.
func (BrowserHistory) Push(path string) {
	js.Global().Get("history").Call("pushState", nil, "", path)
}

// Listen registers a popstate listener for back/forward navigation.
func (BrowserHistory) Listen(fn func(path string)) func() {
	listener := js.FuncOf(func(this js.Value, args []js.Value) any {
		path := js.Global().Get("location").Get("pathname").String()
		console.Log("[BrowserHistory] popstate path:", path)
		fn(path)
		return nil
	})
	js.Global().Call("addEventListener", "popstate", listener)

	return func() {
		js.Global().Call("removeEventListener", "popstate", listener)
		listener.Release()
	}
}
