//go:build js || wasm

// Command web is the app compiled to WebAssembly:
//
//	GOOS=js GOARCH=wasm go build -o main.wasm ./cmd/web
//
// The service worker mode and script URL come from the page's
// <meta name="service-worker"> tag, which the build writes from pwa.yaml.
package main

import (
	"context"
	"syscall/js"

	"github.com/vcrobe/nojs-pwa/console"
	"github.com/vcrobe/nojs-pwa/dialogs"
	"github.com/vcrobe/nojs-pwa/internal/app"
	"github.com/vcrobe/nojs-pwa/lazy"
	"github.com/vcrobe/nojs-pwa/router"
	"github.com/vcrobe/nojs-pwa/runtime"
	"github.com/vcrobe/nojs-pwa/serviceworker"
)

// serviceWorkerMode applies when the page has no service-worker meta tag:
// "register" opts into offline caching and installability, "unregister"
// opts out. It can be set at link time.
var serviceWorkerMode = "register"

func main() {
	origin := js.Global().Get("location").Get("origin").String()
	chunks := lazy.NewChunkSource(nil, origin)
	about := lazy.Import(app.AboutChunk, chunks.Loader(app.AboutChunk))

	engine := router.NewEngine(router.NewBrowserHistory(), app.Routes(about)...)

	renderer := runtime.NewRenderer(engine, "#root")
	root := app.New(engine)
	root.SetRenderer(renderer)
	renderer.SetCurrentComponent(root)
	renderer.RenderRoot()

	engine.Start()

	go func() {
		mode, script, ok, err := serviceworker.FromDocument()
		if !ok {
			mode, script, err = serviceworker.ParseMeta(serviceWorkerMode, "")
		}
		if err != nil {
			console.Error("service worker:", err.Error())
			return
		}
		hooks := serviceworker.Hooks{
			OnSuccess: func() { console.Log("This app now works offline.") },
			OnUpdate:  dialogs.ConfirmUpdate,
		}
		if err := serviceworker.ApplyWithHooks(context.Background(), mode, script, hooks); err != nil {
			console.Warn("service worker:", err.Error())
		}
	}()

	// Keep the Go program alive to handle events.
	select {}
}
