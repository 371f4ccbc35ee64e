//go:build js || wasm

package serviceworker

import (
	"context"
	"fmt"
	"syscall/js"

	"github.com/vcrobe/nojs-pwa/console"
)

// Apply registers or unregisters the worker through navigator.serviceWorker.
// Call it once at startup. Registration waits for the window load event so it
// does not compete with the first render for bandwidth.
func Apply(ctx context.Context, mode Mode, scriptURL string) error {
	return ApplyWithHooks(ctx, mode, scriptURL, Hooks{})
}

// ApplyWithHooks is Apply with lifecycle callbacks for a registered worker.
func ApplyWithHooks(ctx context.Context, mode Mode, scriptURL string, hooks Hooks) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	container := js.Global().Get("navigator").Get("serviceWorker")
	if !container.Truthy() {
		return fmt.Errorf("%s %s: %w", mode, scriptURL, ErrUnsupported)
	}

	switch mode {
	case Register:
		if err := waitForLoad(ctx); err != nil {
			return err
		}
		reg, err := await(ctx, container.Call("register", scriptURL))
		if err != nil {
			return fmt.Errorf("register %s: %w", scriptURL, err)
		}
		console.Log("[serviceworker] registered with scope", reg.Get("scope").String())
		watchUpdates(container, reg, hooks)
	case Unregister:
		ready, err := await(ctx, container.Get("ready"))
		if err != nil {
			return fmt.Errorf("unregister %s: %w", scriptURL, err)
		}
		if _, err := await(ctx, ready.Call("unregister")); err != nil {
			return fmt.Errorf("unregister %s: %w", scriptURL, err)
		}
		console.Log("[serviceworker] unregistered")
	}
	return nil
}

// watchUpdates follows each newly installing worker. The callbacks live as
// long as the page.
func watchUpdates(container, reg js.Value, hooks Hooks) {
	onUpdateFound := js.FuncOf(func(this js.Value, args []js.Value) any {
		installing := reg.Get("installing")
		if !installing.Truthy() {
			return nil
		}
		var onStateChange js.Func
		onStateChange = js.FuncOf(func(this js.Value, args []js.Value) any {
			if installing.Get("state").String() != "installed" {
				return nil
			}
			installing.Call("removeEventListener", "statechange", onStateChange)
			defer onStateChange.Release()

			if !container.Get("controller").Truthy() {
				console.Log("[serviceworker] content is cached for offline use")
				if hooks.OnSuccess != nil {
					hooks.OnSuccess()
				}
				return nil
			}
			console.Log("[serviceworker] new content is available and will be used when all tabs for this page are closed")
			if hooks.OnUpdate == nil {
				return nil
			}
			// Handlers must not block the event loop; prompts may.
			go func() {
				if !hooks.OnUpdate() {
					return
				}
				reloadOnControllerChange(container)
				installing.Call("postMessage", map[string]any{"type": "SKIP_WAITING"})
			}()
			return nil
		})
		installing.Call("addEventListener", "statechange", onStateChange)
		return nil
	})
	reg.Call("addEventListener", "updatefound", onUpdateFound)
}

func reloadOnControllerChange(container js.Value) {
	var onChange js.Func
	onChange = js.FuncOf(func(this js.Value, args []js.Value) any {
		onChange.Release()
		js.Global().Get("location").Call("reload")
		return nil
	})
	container.Call("addEventListener", "controllerchange", onChange, map[string]any{"once": true})
}

func waitForLoad(ctx context.Context) error {
	if js.Global().Get("document").Get("readyState").String() == "complete" {
		return nil
	}
	done := make(chan struct{})
	onLoad := js.FuncOf(func(this js.Value, args []js.Value) any {
		close(done)
		return nil
	})
	defer onLoad.Release()

	opts := map[string]any{"once": true}
	js.Global().Call("addEventListener", "load", onLoad, opts)
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		js.Global().Call("removeEventListener", "load", onLoad)
		return ctx.Err()
	}
}

// await blocks the calling goroutine until the promise settles.
func await(ctx context.Context, promise js.Value) (js.Value, error) {
	type result struct {
		val js.Value
		err error
	}
	ch := make(chan result, 1)

	onResolve := js.FuncOf(func(this js.Value, args []js.Value) any {
		var v js.Value
		if len(args) > 0 {
			v = args[0]
		}
		ch <- result{val: v}
		return nil
	})
	onReject := js.FuncOf(func(this js.Value, args []js.Value) any {
		msg := "promise rejected"
		if len(args) > 0 && args[0].Truthy() {
			msg = args[0].Call("toString").String()
		}
		ch <- result{err: fmt.Errorf("%s", msg)}
		return nil
	})

	promise.Call("then", onResolve, onReject)
	select {
	case res := <-ch:
		onResolve.Release()
		onReject.Release()
		return res.val, res.err
	case <-ctx.Done():
		// The promise may still settle; its callbacks stay alive for it.
		return js.Undefined(), ctx.Err()
	}
}
