package lazy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcrobe/nojs-pwa/vdom"
)

func chunkServer(t *testing.T, manifestHits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/asset-manifest.json", func(w http.ResponseWriter, r *http.Request) {
		manifestHits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"files":{"about.chunk":"/static/chunks/about.abcd1234.chunk.html","broken.chunk":"/static/chunks/missing.html"}}`))
	})
	mux.HandleFunc("/static/chunks/about.abcd1234.chunk.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<div class="about"><h1>About</h1><script>alert(1)</script><p onclick="x()">Static text</p></div>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestChunkSource_LoadsAndSanitizes(t *testing.T) {
	var hits atomic.Int32
	srv := chunkServer(t, &hits)
	client := srv.Client()
	defer client.CloseIdleConnections()

	src := NewChunkSource(client, srv.URL+"/")
	factory, err := src.Loader("about").Load(context.Background())
	require.NoError(t, err)

	frag, ok := factory(nil).(*Fragment)
	require.True(t, ok)
	assert.Equal(t, "about", frag.Name)
	assert.Contains(t, frag.HTML, `<h1>About</h1>`)
	assert.Contains(t, frag.HTML, `class="about"`)
	assert.NotContains(t, frag.HTML, "script")
	assert.NotContains(t, frag.HTML, "onclick")

	out, err := vdom.HTML(frag.Render(nil))
	require.NoError(t, err)
	assert.Contains(t, out, `data-chunk="about"`)

	// The asset manifest is fetched once per source.
	_, err = src.Loader("about").Load(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestChunkSource_UnknownChunk(t *testing.T) {
	var hits atomic.Int32
	srv := chunkServer(t, &hits)
	client := srv.Client()
	defer client.CloseIdleConnections()

	_, err := NewChunkSource(client, srv.URL).Loader("contact").Load(context.Background())
	assert.ErrorIs(t, err, ErrChunkNotFound)
}

func TestChunkSource_HTTPError(t *testing.T) {
	var hits atomic.Int32
	srv := chunkServer(t, &hits)
	client := srv.Client()
	defer client.CloseIdleConnections()

	_, err := NewChunkSource(client, srv.URL).Loader("broken").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestChunkSource_DefaultClientIsBounded(t *testing.T) {
	src := NewChunkSource(nil, "http://example.invalid")
	assert.Equal(t, DefaultChunkTimeout, src.client.Timeout)
}

func TestChunkSource_StalledFetchFailsModule(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/asset-manifest.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"files":{"about.chunk":"/static/chunks/about.abcd1234.chunk.html"}}`))
	})
	mux.HandleFunc("/static/chunks/about.abcd1234.chunk.html", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := srv.Client()
	client.Timeout = 50 * time.Millisecond
	defer client.CloseIdleConnections()

	m := NewRegistry().Import("about", NewChunkSource(client, srv.URL).Loader("about"))

	// The caller's context never expires; only the client timeout ends the wait.
	_, err := m.Load(context.Background())
	require.Error(t, err)
	_, cached := m.Resolved()
	assert.False(t, cached, "a timed-out fetch can be retried")
}
