package lazy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/vcrobe/nojs-pwa/assets"
	"github.com/vcrobe/nojs-pwa/runtime"
	"github.com/vcrobe/nojs-pwa/vdom"
)

// ErrChunkNotFound is returned when the asset manifest has no entry for a chunk.
var ErrChunkNotFound = errors.New("chunk not found in asset manifest")

// maxChunkSize bounds a single chunk download.
const maxChunkSize = 4 << 20

// DefaultChunkTimeout bounds each request of the default client. The shared
// fetch is detached from callers, so without it a stalled request would keep
// the placeholder up and never offer Retry.
const DefaultChunkTimeout = 30 * time.Second

// ChunkSource loads pre-rendered route chunks over HTTP. Under WASM,
// net/http goes through the browser's Fetch API.
type ChunkSource struct {
	client  *http.Client
	baseURL string
	policy  *bluemonday.Policy

	mu       sync.Mutex
	manifest *assets.Manifest
}

// NewChunkSource fetches from baseURL (scheme and host, no trailing slash).
// A nil client means one with DefaultChunkTimeout.
func NewChunkSource(client *http.Client, baseURL string) *ChunkSource {
	if client == nil {
		client = &http.Client{Timeout: DefaultChunkTimeout}
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	return &ChunkSource{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		policy:  policy,
	}
}

// Loader returns a Loader for the named chunk. The chunk's markup is
// sanitized before it is rendered.
func (s *ChunkSource) Loader(name string) Loader {
	return LoaderFunc(func(ctx context.Context) (runtime.ComponentFactory, error) {
		url, err := s.resolve(ctx, assets.ChunkKey(name))
		if err != nil {
			return nil, err
		}
		body, err := s.get(ctx, url)
		if err != nil {
			return nil, err
		}
		markup := s.policy.SanitizeBytes(body)
		return func(map[string]string) runtime.Component {
			return &Fragment{Name: name, HTML: string(markup)}
		}, nil
	})
}

func (s *ChunkSource) resolve(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	m := s.manifest
	s.mu.Unlock()

	if m == nil {
		body, err := s.get(ctx, "/"+assets.FileName)
		if err != nil {
			return "", err
		}
		m, err = assets.Decode(bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		s.mu.Lock()
		s.manifest = m
		s.mu.Unlock()
	}

	url, ok := m.Lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrChunkNotFound, key)
	}
	return url, nil
}

func (s *ChunkSource) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", path, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", path, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxChunkSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return body, nil
}

// Fragment renders sanitized markup from a route chunk.
type Fragment struct {
	runtime.ComponentBase
	Name string
	HTML string
}

func (f *Fragment) Render(r runtime.Renderer) *vdom.VNode {
	return vdom.Raw(f.HTML, map[string]any{"class": "chunk", "data-chunk": f.Name})
}
