//go:build js || wasm

// Package console writes to the browser console. Outside the browser the
// same calls go to log/slog.
package console

import (
	"fmt"
	"syscall/js"
)

func Log(args ...any)   { call("log", args) }
func Warn(args ...any)  { call("warn", args) }
func Error(args ...any) { call("error", args) }

func call(method string, args []any) {
	js.Global().Get("console").Call(method, jsArgs(args)...)
}

// jsArgs passes through what js.ValueOf accepts and stringifies the rest
// (errors, structs), which would otherwise panic.
func jsArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case nil, bool, string, int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64, uintptr, float32, float64,
			js.Value, js.Func:
			out[i] = v
		case error:
			out[i] = v.Error()
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
