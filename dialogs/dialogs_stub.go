//go:build !wasm

package dialogs

import "github.com/vcrobe/nojs-pwa/console"

// Alert logs msg; there is no user to show it to.
func Alert(msg string) {
	console.Warn("[dialogs] alert:", msg)
}

// Confirm logs msg and declines.
func Confirm(msg string) bool {
	console.Warn("[dialogs] confirm declined:", msg)
	return false
}
