// Package serviceworker holds the single startup switch for offline support
// and generates the worker script that hands the precache list to Workbox.
package serviceworker

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupported is returned where no service worker API exists.
	ErrUnsupported = errors.New("service workers are not supported here")
	// ErrInvalidMode is returned for modes other than register/unregister.
	ErrInvalidMode = errors.New("invalid service worker mode")
)

// DefaultScriptURL is where the build writes the worker.
const DefaultScriptURL = "/service-worker.js"

// Mode opts the app in or out of offline caching and installability.
type Mode string

const (
	// Register installs the worker: assets are cached and the app is installable.
	Register Mode = "register"
	// Unregister removes any installed worker.
	Unregister Mode = "unregister"
)

// ParseMode accepts "register" or "unregister", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Register, Unregister:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (m Mode) String() string {
	return string(m)
}

// Hooks observe the worker lifecycle after registration. Both are optional.
type Hooks struct {
	// OnSuccess runs once the app is cached for offline use for the first time.
	OnSuccess func()
	// OnUpdate runs when a new worker has installed while an older one still
	// controls the page. Returning true activates the new worker and reloads.
	OnUpdate func() bool
}

// MetaName names the <meta> tag through which the build hands the configured
// mode and script URL to the page:
//
//	<meta name="service-worker" content="register" data-script="/service-worker.js">
const MetaName = "service-worker"

// ParseMeta reads the values of the MetaName tag. An empty script means
// DefaultScriptURL.
func ParseMeta(content, script string) (Mode, string, error) {
	mode, err := ParseMode(content)
	if err != nil {
		return "", "", err
	}
	script = strings.TrimSpace(script)
	if script == "" {
		return mode, DefaultScriptURL, nil
	}
	if !strings.HasPrefix(script, "/") {
		return "", "", fmt.Errorf("%w: script %q must be an absolute path", ErrInvalidMode, script)
	}
	return mode, script, nil
}
