//go:build dev

package runtime

// callHook invokes a lifecycle method in development mode.
// In dev mode, panics propagate to aid debugging and fast failure.
func callHook(hook, key string, fn func()) {
	fn()
}
