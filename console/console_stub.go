//go:build !wasm

package console

import (
	"fmt"
	"log/slog"
	"strings"
)

// Outside the browser there is no devtools console, so messages go to the
// default slog logger. Log is debug level to keep test output quiet.

// Log writes at debug level.
func Log(args ...any) {
	slog.Debug(join(args))
}

// Warn writes at warn level.
func Warn(args ...any) {
	slog.Warn(join(args))
}

// Error writes at error level.
func Error(args ...any) {
	slog.Error(join(args))
}

func join(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, " ")
}
