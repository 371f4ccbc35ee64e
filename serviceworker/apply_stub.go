//go:build !wasm

package serviceworker

import (
	"context"
	"fmt"
)

// Apply registers or unregisters the worker. Outside the browser it only
// validates its arguments and reports ErrUnsupported.
func Apply(ctx context.Context, mode Mode, scriptURL string) error {
	return ApplyWithHooks(ctx, mode, scriptURL, Hooks{})
}

// ApplyWithHooks is Apply with lifecycle callbacks. They never fire here.
func ApplyWithHooks(ctx context.Context, mode Mode, scriptURL string, hooks Hooks) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	return fmt.Errorf("%s %s: %w", mode, scriptURL, ErrUnsupported)
}
