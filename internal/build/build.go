// Package build turns a compiled main.wasm into a deployable PWA directory:
// hashed bundles, pre-rendered route chunks, the asset and web app
// manifests, index.html and a Workbox service worker.
package build

import (
	"bytes"
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vcrobe/nojs-pwa/assets"
	"github.com/vcrobe/nojs-pwa/manifest"
	"github.com/vcrobe/nojs-pwa/runtime"
	"github.com/vcrobe/nojs-pwa/serviceworker"
	"github.com/vcrobe/nojs-pwa/vdom"
)

// Output names at the site root.
const (
	IndexFile    = "index.html"
	ManifestFile = "manifest.json"
)

// HashLen is how many hex digits of the SHA-256 content hash go into names.
const HashLen = 8

//go:embed static/default.css
var defaultCSS []byte

// Options describes one build.
type Options struct {
	OutDir      string
	Wasm        string   // compiled app, GOOS=js GOARCH=wasm
	WasmExec    string   // wasm_exec.js shipped with the Go toolchain
	Styles      []string // appended after the default stylesheet
	PublicDir   string   // copied verbatim to OutDir when present
	Title       string
	Description string
	Manifest    manifest.Manifest
	Workbox     string
	Chunks      map[string]runtime.ComponentFactory

	// WorkerMode and WorkerScript are written into index.html for the app
	// to act on at startup. The worker itself is emitted at WorkerScript.
	// Empty values mean serviceworker.Register and DefaultScriptURL.
	WorkerMode   serviceworker.Mode
	WorkerScript string
}

// Result summarizes what a build wrote.
type Result struct {
	Assets *assets.Manifest
	Files  []string // relative to OutDir, sorted
}

// Builder runs builds.
type Builder struct {
	opts   Options
	logger *slog.Logger

	mu    sync.Mutex
	files []string
}

// New returns a builder. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.WorkerMode == "" {
		opts.WorkerMode = serviceworker.Register
	}
	if opts.WorkerScript == "" {
		opts.WorkerScript = serviceworker.DefaultScriptURL
	}
	return &Builder{opts: opts, logger: logger}
}

// ContentHash returns the first HashLen hex digits of data's SHA-256.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:HashLen]
}

// HashedName inserts hash before the extension: main.wasm -> main.1a2b3c4d.wasm.
// Compound chunk extensions stay intact: about.chunk.html -> about.1a2b3c4d.chunk.html.
func HashedName(name, hash string) string {
	base, ext := name, ""
	if i := strings.Index(name, "."); i > 0 {
		base, ext = name[:i], name[i:]
	}
	return base + "." + hash + ext
}

// Build writes the site. It does not clear OutDir first; stale hashed files
// from earlier builds are harmless because nothing references them.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	for _, dir := range []string{"static/js", "static/css", "static/chunks"} {
		if err := os.MkdirAll(filepath.Join(b.opts.OutDir, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	if err := b.copyPublic(); err != nil {
		return nil, err
	}

	am := &assets.Manifest{Files: make(map[string]string)}

	wasm, err := os.ReadFile(b.opts.Wasm)
	if err != nil {
		return nil, fmt.Errorf("read wasm: %w", err)
	}
	if am.Files[assets.MainWasm], err = b.emitHashed("static/js", assets.MainWasm, wasm); err != nil {
		return nil, err
	}

	wasmExec, err := os.ReadFile(b.opts.WasmExec)
	if err != nil {
		return nil, fmt.Errorf("read wasm_exec.js: %w", err)
	}
	if am.Files[assets.WasmExec], err = b.emitHashed("static/js", "wasm_exec.js", wasmExec); err != nil {
		return nil, err
	}

	css, err := b.stylesheet()
	if err != nil {
		return nil, err
	}
	if am.Files[assets.MainCSS], err = b.emitHashed("static/css", assets.MainCSS, css); err != nil {
		return nil, err
	}

	chunks, err := b.prerender(ctx)
	if err != nil {
		return nil, err
	}
	for key, url := range chunks {
		am.Files[key] = url
	}
	am.Entrypoints = []string{am.Files[assets.WasmExec], am.Files[assets.MainCSS], am.Files[assets.MainWasm]}

	var buf bytes.Buffer
	if err := am.Encode(&buf); err != nil {
		return nil, fmt.Errorf("encode %s: %w", assets.FileName, err)
	}
	if err := b.write(assets.FileName, buf.Bytes()); err != nil {
		return nil, err
	}

	buf.Reset()
	if err := b.opts.Manifest.Encode(&buf); err != nil {
		return nil, err
	}
	manifestJSON := bytes.Clone(buf.Bytes())
	if err := b.write(ManifestFile, manifestJSON); err != nil {
		return nil, err
	}

	buf.Reset()
	err = writeIndex(&buf, indexData{
		Title:       b.opts.Title,
		Description: b.opts.Description,
		ThemeColor:  b.opts.Manifest.ThemeColor,
		Manifest:    "/" + ManifestFile,
		CSS:         am.Files[assets.MainCSS],
		WasmExec:    am.Files[assets.WasmExec],
		Wasm:        am.Files[assets.MainWasm],
		WorkerMeta:  serviceworker.MetaName,
		WorkerMode:  b.opts.WorkerMode.String(),
		WorkerURL:   b.opts.WorkerScript,
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", IndexFile, err)
	}
	index := bytes.Clone(buf.Bytes())
	if err := b.write(IndexFile, index); err != nil {
		return nil, err
	}

	// Unhashed files carry a revision so Workbox notices when they change.
	precache := []serviceworker.PrecacheEntry{
		{URL: "/" + IndexFile, Revision: ContentHash(index)},
		{URL: "/" + ManifestFile, Revision: ContentHash(manifestJSON)},
	}
	for _, url := range am.URLs() {
		precache = append(precache, serviceworker.PrecacheEntry{URL: url})
	}
	buf.Reset()
	err = serviceworker.WriteScript(&buf, serviceworker.ScriptOptions{
		WorkboxVersion:   b.opts.Workbox,
		Precache:         precache,
		NavigateFallback: "/" + IndexFile,
	})
	if err != nil {
		return nil, err
	}
	if err := b.write(strings.TrimPrefix(b.opts.WorkerScript, "/"), buf.Bytes()); err != nil {
		return nil, err
	}

	b.mu.Lock()
	files := append([]string(nil), b.files...)
	b.files = nil
	b.mu.Unlock()
	sort.Strings(files)

	b.logger.Info("build complete", "out", b.opts.OutDir, "files", len(files), "chunks", len(chunks))
	return &Result{Assets: am, Files: files}, nil
}

func (b *Builder) check() error {
	var errs []error
	switch filepath.Clean(b.opts.OutDir) {
	case ".", "/", "":
		errs = append(errs, fmt.Errorf("out dir %q must be a dedicated directory", b.opts.OutDir))
	}
	if b.opts.Wasm == "" {
		errs = append(errs, errors.New("wasm path is required"))
	}
	if b.opts.WasmExec == "" {
		errs = append(errs, errors.New("wasm_exec.js path is required"))
	}
	if err := b.opts.Manifest.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := serviceworker.ParseMeta(string(b.opts.WorkerMode), b.opts.WorkerScript); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	return nil
}

func (b *Builder) stylesheet() ([]byte, error) {
	css := bytes.Clone(defaultCSS)
	for _, p := range b.opts.Styles {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read stylesheet: %w", err)
		}
		css = append(css, '\n')
		css = append(css, data...)
	}
	return css, nil
}

// prerender renders every chunk to HTML concurrently and returns chunk keys
// mapped to their URLs.
func (b *Builder) prerender(ctx context.Context) (map[string]string, error) {
	var (
		mu   sync.Mutex
		urls = make(map[string]string, len(b.opts.Chunks))
	)
	g, ctx := errgroup.WithContext(ctx)
	for name, factory := range b.opts.Chunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			markup, err := vdom.HTML(runtime.RenderStatic(factory(nil)))
			if err != nil {
				return fmt.Errorf("prerender chunk %s: %w", name, err)
			}
			url, err := b.emitHashed("static/chunks", name+".chunk.html", []byte(markup))
			if err != nil {
				return err
			}
			b.logger.Debug("prerendered chunk", "chunk", name, "url", url)

			mu.Lock()
			urls[assets.ChunkKey(name)] = url
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}

// emitHashed writes data under dir with its content hash in the name and
// returns the root-relative URL.
func (b *Builder) emitHashed(dir, name string, data []byte) (string, error) {
	rel := path.Join(dir, HashedName(name, ContentHash(data)))
	if err := b.write(rel, data); err != nil {
		return "", err
	}
	return "/" + rel, nil
}

func (b *Builder) write(rel string, data []byte) error {
	dst := filepath.Join(b.opts.OutDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	b.mu.Lock()
	b.files = append(b.files, rel)
	b.mu.Unlock()
	b.logger.Debug("wrote file", "file", rel, "bytes", len(data))
	return nil
}

// copyPublic copies PublicDir (icons, favicon, robots.txt) into OutDir,
// overwriting what is there.
func (b *Builder) copyPublic() error {
	if b.opts.PublicDir == "" {
		return nil
	}
	src := os.DirFS(b.opts.PublicDir)
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(filepath.Join(b.opts.OutDir, filepath.FromSlash(p)), 0o755)
		}
		data, err := fs.ReadFile(src, p)
		if err != nil {
			return err
		}
		return b.write(p, data)
	})
	if errors.Is(err, fs.ErrNotExist) {
		b.logger.Debug("no public dir", "dir", b.opts.PublicDir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("copy public dir: %w", err)
	}
	return nil
}
