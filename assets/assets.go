// Package assets describes asset-manifest.json, the index the build writes
// and the browser reads to locate hashed bundles and route chunks.
package assets

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// FileName is the asset manifest's name at the site root.
const FileName = "asset-manifest.json"

// Well-known logical names.
const (
	MainWasm = "main.wasm"
	MainCSS  = "main.css"
	WasmExec = "wasm_exec.js"
)

// ChunkKey returns the logical name of a deferred route chunk.
func ChunkKey(name string) string {
	return name + ".chunk"
}

// Manifest maps logical bundle names to the URLs they were emitted at.
type Manifest struct {
	Files       map[string]string `json:"files"`
	Entrypoints []string          `json:"entrypoints"`
}

// Lookup returns the URL for a logical name.
func (m *Manifest) Lookup(name string) (string, bool) {
	url, ok := m.Files[name]
	return url, ok
}

// URLs returns every emitted URL, sorted.
func (m *Manifest) URLs() []string {
	out := make([]string, 0, len(m.Files))
	for _, u := range m.Files {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Decode reads a manifest.
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", FileName, err)
	}
	if m.Files == nil {
		m.Files = make(map[string]string)
	}
	return &m, nil
}

// Encode writes the manifest as indented JSON.
func (m *Manifest) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
