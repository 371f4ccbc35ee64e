package serviceworker

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"
)

// DefaultWorkboxVersion is the Workbox release the worker imports.
const DefaultWorkboxVersion = "7.3.0"

// PrecacheEntry is one URL Workbox caches at install time.
type PrecacheEntry struct {
	URL      string `json:"url"`
	Revision string `json:"revision,omitempty"`
}

// ScriptOptions configures the generated worker. The caching policy is
// Workbox's precache-then-serve; only the inputs are chosen here.
type ScriptOptions struct {
	WorkboxVersion   string
	Precache         []PrecacheEntry
	NavigateFallback string // app shell served for navigations, e.g. "/index.html"
}

var scriptTemplate = template.Must(template.New("sw").Parse(`/* Generated by nojs-pwa. Do not edit. */
importScripts('https://storage.googleapis.com/workbox-cdn/releases/{{.Version}}/workbox-sw.js');

self.addEventListener('message', (event) => {
  if (event.data && event.data.type === 'SKIP_WAITING') {
    self.skipWaiting();
  }
});

workbox.core.clientsClaim();
workbox.precaching.precacheAndRoute({{.Precache}});
{{- if .Fallback}}

workbox.routing.registerRoute(
  new workbox.routing.NavigationRoute(workbox.precaching.createHandlerBoundToURL({{.Fallback}}), {
    denylist: [/^\/_/, /\/[^/?]+\.[^/]+$/],
  })
);
{{- end}}
`))

// WriteScript renders the service-worker.js source.
func WriteScript(w io.Writer, opts ScriptOptions) error {
	version := opts.WorkboxVersion
	if version == "" {
		version = DefaultWorkboxVersion
	}
	precache := opts.Precache
	if precache == nil {
		precache = []PrecacheEntry{}
	}
	list, err := json.Marshal(precache)
	if err != nil {
		return fmt.Errorf("encode precache list: %w", err)
	}
	var fallback string
	if opts.NavigateFallback != "" {
		quoted, err := json.Marshal(opts.NavigateFallback)
		if err != nil {
			return fmt.Errorf("encode navigate fallback: %w", err)
		}
		fallback = string(quoted)
	}

	data := struct {
		Version  string
		Precache string
		Fallback string
	}{version, string(list), fallback}

	if err := scriptTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render service worker: %w", err)
	}
	return nil
}
