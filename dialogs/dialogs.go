//go:build js || wasm

// Package dialogs wraps the browser's blocking alert and confirm prompts.
package dialogs

import "syscall/js"

// Alert shows msg and waits for the user to dismiss it.
func Alert(msg string) {
	js.Global().Call("alert", msg)
}

// Confirm asks a yes/no question and reports whether the user accepted.
func Confirm(msg string) bool {
	return js.Global().Call("confirm", msg).Bool()
}
