package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcrobe/nojs-pwa/events"
	"github.com/vcrobe/nojs-pwa/lazy"
	"github.com/vcrobe/nojs-pwa/router"
	"github.com/vcrobe/nojs-pwa/runtime"
	"github.com/vcrobe/nojs-pwa/testcomponents"
	"github.com/vcrobe/nojs-pwa/vdom"
)

const (
	homeText  = "Welcome."
	aboutText = "loaded on first visit"
)

type fixture struct {
	history *router.MemoryHistory
	engine  *router.Engine
	app     *App
	tr      *testcomponents.TestRenderer
}

// mount renders App at path. A nil loader resolves About from the binary.
func mount(t *testing.T, path string, about lazy.Loader) *fixture {
	t.Helper()
	if about == nil {
		about = Bundled(AboutChunk)
	}
	module := lazy.NewRegistry().Import(AboutChunk, about)

	h := router.NewMemoryHistory(path)
	e := router.NewEngine(h, Routes(module)...)
	e.Start()
	t.Cleanup(e.Stop)

	a := New(e)
	tr := testcomponents.NewTestRenderer(a)
	tr.SetNavigationManager(e)
	tr.RenderRoot()

	return &fixture{history: h, engine: e, app: a, tr: tr}
}

func (f *fixture) html() string {
	f.tr.Settle()
	return f.tr.HTML()
}

func (f *fixture) root() *vdom.VNode {
	f.tr.Settle()
	return f.tr.GetCurrentVDOM()
}

func (f *fixture) eventually(t *testing.T, substr string) {
	t.Helper()
	assert.Eventually(t, func() bool { return strings.Contains(f.html(), substr) },
		2*time.Second, 5*time.Millisecond, "want %q in %s", substr, f.html())
}

func navLinks(root *vdom.VNode) []*vdom.VNode {
	nav := root.Find(vdom.ByTag("nav"))
	if nav == nil {
		return nil
	}
	return nav.FindAll(vdom.ByTag("a"))
}

func TestApp_RootRendersHome(t *testing.T) {
	f := mount(t, "/", nil)

	out := f.html()
	assert.Contains(t, out, homeText)
	assert.NotContains(t, out, aboutText)
	assert.NotContains(t, out, lazy.PlaceholderText)
}

func TestApp_AboutRendersAbout(t *testing.T) {
	f := mount(t, "/about", nil)

	f.eventually(t, aboutText)
	assert.NotContains(t, f.html(), homeText)
}

func TestApp_NavHasExactlyHomeAndAbout(t *testing.T) {
	for _, path := range []string{"/", "/about", "/nowhere"} {
		t.Run(path, func(t *testing.T) {
			f := mount(t, path, nil)

			links := navLinks(f.root())
			require.Len(t, links, 2)
			assert.Equal(t, "Home", links[0].TextContent())
			assert.Equal(t, "/", links[0].Attributes["href"])
			assert.Equal(t, "About", links[1].TextContent())
			assert.Equal(t, "/about", links[1].Attributes["href"])
		})
	}
}

func TestApp_AboutLinkSwitchesWithoutReload(t *testing.T) {
	// Arrange
	f := mount(t, "/", nil)
	require.Contains(t, f.html(), homeText)

	// Act
	var prevented bool
	navLinks(f.root())[1].OnClick(events.Synthetic(&prevented))

	// Assert
	assert.True(t, prevented, "default navigation must be suppressed")
	f.eventually(t, aboutText)
	assert.NotContains(t, f.html(), homeText)
	assert.Equal(t, "/about", f.history.Path())
	assert.Equal(t, 2, f.history.Len())
	assert.Equal(t, 1, f.history.Loads(), "document must not reload")

	navLinks(f.root())[0].OnClick(events.Synthetic(&prevented))
	assert.Contains(t, f.html(), homeText)
	assert.Equal(t, 1, f.history.Loads())
}

func TestApp_PlaceholderWhileAboutLoads(t *testing.T) {
	release := make(chan struct{})
	gated := lazy.LoaderFunc(func(ctx context.Context) (runtime.ComponentFactory, error) {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return Chunks()[AboutChunk], nil
	})

	f := mount(t, "/about", gated)

	out := f.html()
	assert.Contains(t, out, lazy.PlaceholderText)
	assert.NotContains(t, out, aboutText)
	assert.Len(t, navLinks(f.root()), 2, "nav renders while the body loads")

	close(release)
	f.eventually(t, aboutText)
	assert.NotContains(t, f.html(), lazy.PlaceholderText)
}

func TestApp_SecondVisitSkipsPlaceholder(t *testing.T) {
	f := mount(t, "/about", nil)
	f.eventually(t, aboutText)

	require.NoError(t, f.engine.Navigate("/"))
	require.Contains(t, f.html(), homeText, "about instance is destroyed")
	require.NoError(t, f.engine.Navigate("/about"))

	out := f.html()
	assert.Contains(t, out, aboutText)
	assert.NotContains(t, out, lazy.PlaceholderText)
}

func TestApp_UnmatchedPathRendersNavOnly(t *testing.T) {
	f := mount(t, "/nowhere", nil)

	body := f.root().Find(vdom.ByTag("main"))
	require.NotNil(t, body)
	assert.Empty(t, body.Children)
}

func TestApp_DestroyUnsubscribes(t *testing.T) {
	f := mount(t, "/", nil)
	assert.Equal(t, 1, f.engine.Location().Subscribers())

	f.app.OnDestroy()
	assert.Equal(t, 0, f.engine.Location().Subscribers())
}

func TestBundled_UnknownChunk(t *testing.T) {
	_, err := Bundled("missing").Load(context.Background())
	assert.ErrorIs(t, err, lazy.ErrChunkNotFound)
}
