package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcrobe/nojs-pwa/assets"
	"github.com/vcrobe/nojs-pwa/manifest"
	"github.com/vcrobe/nojs-pwa/runtime"
	"github.com/vcrobe/nojs-pwa/serviceworker"
	"github.com/vcrobe/nojs-pwa/vdom"
)

type aboutStub struct{ runtime.ComponentBase }

func (a *aboutStub) Render(r runtime.Renderer) *vdom.VNode {
	return vdom.Div(map[string]any{"class": "page"}, vdom.Heading(1, "About", nil))
}

func fixture(t *testing.T) Options {
	t.Helper()
	src := t.TempDir()
	wasm := filepath.Join(src, "main.wasm")
	exec := filepath.Join(src, "wasm_exec.js")
	require.NoError(t, os.WriteFile(wasm, []byte("\x00asm fake module"), 0o644))
	require.NoError(t, os.WriteFile(exec, []byte("class Go {}"), 0o644))

	public := filepath.Join(src, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(public, "icons"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(public, "favicon.ico"), []byte("ico"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(public, "icons", "192.png"), []byte("png"), 0o644))

	return Options{
		OutDir:      filepath.Join(t.TempDir(), "dist"),
		Wasm:        wasm,
		WasmExec:    exec,
		PublicDir:   public,
		Title:       "Trail Log",
		Description: "Notes <offline>",
		Manifest:    manifest.Default("Trail Log"),
		Chunks: map[string]runtime.ComponentFactory{
			"about": func(map[string]string) runtime.Component { return &aboutStub{} },
		},
	}
}

func TestContentHash(t *testing.T) {
	t.Parallel()
	// sha256("hello") = 2cf24dba5fb0a30e...
	assert.Equal(t, "2cf24dba", ContentHash([]byte("hello")))
}

func TestHashedName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"main.wasm":        "main.abcd1234.wasm",
		"wasm_exec.js":     "wasm_exec.abcd1234.js",
		"about.chunk.html": "about.abcd1234.chunk.html",
		"LICENSE":          "LICENSE.abcd1234",
	}
	for in, want := range tests {
		assert.Equal(t, want, HashedName(in, "abcd1234"), in)
	}
}

func TestBuild_WritesSite(t *testing.T) {
	opts := fixture(t)

	res, err := New(opts, nil).Build(context.Background())
	require.NoError(t, err)

	read := func(rel string) string {
		t.Helper()
		data, err := os.ReadFile(filepath.Join(opts.OutDir, filepath.FromSlash(rel)))
		require.NoError(t, err, rel)
		return string(data)
	}

	// Every asset manifest URL exists and carries its own content hash.
	for key, url := range res.Assets.Files {
		body := read(strings.TrimPrefix(url, "/"))
		assert.Contains(t, url, "."+ContentHash([]byte(body))+".", key)
	}
	wasmURL, ok := res.Assets.Lookup(assets.MainWasm)
	require.True(t, ok)
	assert.Regexp(t, `^/static/js/main\.[0-9a-f]{8}\.wasm$`, wasmURL)

	chunkURL, ok := res.Assets.Lookup(assets.ChunkKey("about"))
	require.True(t, ok)
	assert.Regexp(t, `^/static/chunks/about\.[0-9a-f]{8}\.chunk\.html$`, chunkURL)
	assert.Equal(t, `<div class="page"><h1>About</h1></div>`, read(strings.TrimPrefix(chunkURL, "/")))

	cssURL, _ := res.Assets.Lookup(assets.MainCSS)
	assert.Contains(t, read(strings.TrimPrefix(cssURL, "/")), ".lazy-placeholder")

	onDisk, err := os.Open(filepath.Join(opts.OutDir, assets.FileName))
	require.NoError(t, err)
	defer onDisk.Close()
	decoded, err := assets.Decode(onDisk)
	require.NoError(t, err)
	assert.Equal(t, res.Assets.Files, decoded.Files)
	assert.Len(t, decoded.Entrypoints, 3)

	m, err := manifest.ReadFile(filepath.Join(opts.OutDir, ManifestFile))
	require.NoError(t, err)
	assert.Equal(t, "Trail Log", m.Name)
	assert.Equal(t, "Trail Log", m.ShortName)

	index := read(IndexFile)
	assert.Contains(t, index, `<link rel="manifest" href="/manifest.json">`)
	assert.Contains(t, index, `<link rel="stylesheet" href="`+cssURL+`">`)
	assert.Contains(t, index, `<div id="root"></div>`)
	assert.Contains(t, index, "Notes &lt;offline&gt;")
	assert.Contains(t, index, "<title>Trail Log</title>")
	assert.Contains(t, index, `<meta name="service-worker" content="register" data-script="/service-worker.js">`)

	sw := read("service-worker.js")
	assert.Contains(t, sw, `"url":"/index.html"`)
	assert.Contains(t, sw, `"url":"`+wasmURL+`"`)
	assert.Contains(t, sw, `"url":"`+chunkURL+`"`)

	assert.Equal(t, "ico", read("favicon.ico"))
	assert.Equal(t, "png", read("icons/192.png"))
	assert.Contains(t, res.Files, "icons/192.png")
	assert.Contains(t, res.Files, "service-worker.js")
}

func TestBuild_WorkerFollowsOptions(t *testing.T) {
	opts := fixture(t)
	opts.WorkerMode = serviceworker.Unregister
	opts.WorkerScript = "/sw/app.js"

	res, err := New(opts, nil).Build(context.Background())
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(opts.OutDir, IndexFile))
	require.NoError(t, err)
	assert.Contains(t, string(index), `<meta name="service-worker" content="unregister" data-script="/sw/app.js">`)

	sw, err := os.ReadFile(filepath.Join(opts.OutDir, "sw", "app.js"))
	require.NoError(t, err)
	assert.Contains(t, string(sw), `"url":"/index.html"`)
	assert.Contains(t, res.Files, "sw/app.js")
	assert.NotContains(t, res.Files, "service-worker.js")
	assert.NoFileExists(t, filepath.Join(opts.OutDir, "service-worker.js"))
}

func TestBuild_RejectsBadWorkerOptions(t *testing.T) {
	opts := fixture(t)
	opts.WorkerMode = "sometimes"
	_, err := New(opts, nil).Build(context.Background())
	assert.ErrorIs(t, err, serviceworker.ErrInvalidMode)

	opts = fixture(t)
	opts.WorkerScript = "sw.js"
	_, err = New(opts, nil).Build(context.Background())
	assert.Error(t, err)
}

func TestBuild_IsDeterministic(t *testing.T) {
	opts := fixture(t)

	first, err := New(opts, nil).Build(context.Background())
	require.NoError(t, err)
	second, err := New(opts, nil).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Assets, second.Assets)
}

func TestBuild_HashFollowsContent(t *testing.T) {
	opts := fixture(t)
	first, err := New(opts, nil).Build(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(opts.Wasm, []byte("\x00asm changed module"), 0o644))
	second, err := New(opts, nil).Build(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.Assets.Files[assets.MainWasm], second.Assets.Files[assets.MainWasm])
	assert.Equal(t, first.Assets.Files[assets.MainCSS], second.Assets.Files[assets.MainCSS])
}

func TestBuild_MissingPublicDirIsFine(t *testing.T) {
	opts := fixture(t)
	opts.PublicDir = filepath.Join(t.TempDir(), "absent")

	_, err := New(opts, nil).Build(context.Background())
	require.NoError(t, err)
}

func TestBuild_RejectsBadOptions(t *testing.T) {
	opts := fixture(t)
	opts.OutDir = "."
	opts.Wasm = ""
	opts.Manifest.ThemeColor = "black"

	_, err := New(opts, nil).Build(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, manifest.ErrInvalid)
	assert.Contains(t, err.Error(), "wasm path is required")
}

func TestBuild_CancelledContext(t *testing.T) {
	opts := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(opts, nil).Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
