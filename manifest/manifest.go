// Package manifest models the web app manifest the browser reads to make the
// app installable: names, icons, start URL, display mode and colors.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// ContentType is the media type manifests are served with.
const ContentType = "application/manifest+json"

// ErrInvalid wraps every validation problem.
var ErrInvalid = errors.New("invalid manifest")

// Display is the preferred display mode.
type Display string

const (
	Fullscreen Display = "fullscreen"
	Standalone Display = "standalone"
	MinimalUI  Display = "minimal-ui"
	Browser    Display = "browser"
)

// Valid reports whether d is one of the defined display modes.
func (d Display) Valid() bool {
	switch d {
	case Fullscreen, Standalone, MinimalUI, Browser:
		return true
	}
	return false
}

// Icon references one image the platform may use for the app.
type Icon struct {
	Src   string `json:"src" mapstructure:"src" yaml:"src"`
	Sizes string `json:"sizes" mapstructure:"sizes" yaml:"sizes"`
	Type  string `json:"type" mapstructure:"type" yaml:"type"`
}

// Manifest is the manifest.json record.
type Manifest struct {
	ShortName       string  `json:"short_name"`
	Name            string  `json:"name"`
	Icons           []Icon  `json:"icons"`
	StartURL        string  `json:"start_url"`
	Display         Display `json:"display"`
	ThemeColor      string  `json:"theme_color"`
	BackgroundColor string  `json:"background_color"`
}

// DefaultIcons is the favicon set a fresh project ships with.
func DefaultIcons() []Icon {
	return []Icon{{Src: "favicon.ico", Sizes: "64x64 32x32 24x24 16x16", Type: "image/x-icon"}}
}

// Default returns the manifest of a freshly scaffolded app named name.
func Default(name string) Manifest {
	return Manifest{
		ShortName:       name,
		Name:            name,
		Icons:           DefaultIcons(),
		StartURL:        ".",
		Display:         Standalone,
		ThemeColor:      "#000000",
		BackgroundColor: "#ffffff",
	}
}

// Rename sets both the short and the full name.
func (m *Manifest) Rename(name string) {
	m.ShortName = name
	m.Name = name
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate reports every problem found, joined, each wrapping ErrInvalid.
func (m Manifest) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if strings.TrimSpace(m.Name) == "" {
		fail("name is empty")
	}
	if strings.TrimSpace(m.ShortName) == "" {
		fail("short_name is empty")
	}
	if m.StartURL == "" {
		fail("start_url is empty")
	}
	if !m.Display.Valid() {
		fail("display %q is not one of fullscreen, standalone, minimal-ui, browser", m.Display)
	}
	if !hexColor.MatchString(m.ThemeColor) {
		fail("theme_color %q is not a hex color", m.ThemeColor)
	}
	if !hexColor.MatchString(m.BackgroundColor) {
		fail("background_color %q is not a hex color", m.BackgroundColor)
	}
	for i, icon := range m.Icons {
		if icon.Src == "" {
			fail("icons[%d].src is empty", i)
		}
		if icon.Type == "" {
			fail("icons[%d].type is empty", i)
		}
	}
	return errors.Join(errs...)
}

// Decode reads a manifest from JSON.
func Decode(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

// Encode writes the manifest as indented JSON.
func (m Manifest) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return nil
}

// ReadFile loads a manifest from disk.
func ReadFile(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// WriteFile saves the manifest to disk.
func (m Manifest) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if err := m.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
