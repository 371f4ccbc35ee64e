//go:build !dev

package runtime

import "github.com/vcrobe/nojs-pwa/console"

// callHook invokes a lifecycle method in production mode.
// In production mode, panics are recovered and logged to prevent application crashes.
func callHook(hook, key string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			console.Error(hookError(hook, key, rec))
		}
	}()
	fn()
}
