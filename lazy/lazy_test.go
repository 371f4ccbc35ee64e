package lazy

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vcrobe/nojs-pwa/events"
	"github.com/vcrobe/nojs-pwa/runtime"
	"github.com/vcrobe/nojs-pwa/testcomponents"
	"github.com/vcrobe/nojs-pwa/vdom"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type view struct {
	runtime.ComponentBase
	Text string
}

func (v *view) Render(r runtime.Renderer) *vdom.VNode {
	return vdom.Paragraph(v.Text, nil)
}

func viewFactory(text string) runtime.ComponentFactory {
	return func(map[string]string) runtime.Component { return &view{Text: text} }
}

// gatedLoader blocks until release is closed.
func gatedLoader(release <-chan struct{}, calls *atomic.Int32) Loader {
	return LoaderFunc(func(ctx context.Context) (runtime.ComponentFactory, error) {
		calls.Add(1)
		select {
		case <-release:
			return viewFactory("About content"), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

type host struct {
	runtime.ComponentBase
	module *Module
	show   atomic.Bool
}

func (h *host) Render(r runtime.Renderer) *vdom.VNode {
	if !h.show.Load() {
		return vdom.Div(nil)
	}
	return vdom.Div(nil, r.RenderChild("slot", &Component{Module: h.module}))
}

func newHost(m *Module) *host {
	h := &host{module: m}
	h.show.Store(true)
	return h
}

func textOf(tr *testcomponents.TestRenderer) string {
	tr.Settle()
	return tr.GetCurrentVDOM().TextContent()
}

func TestComponent_PlaceholderUntilResolved(t *testing.T) {
	// Arrange
	release := make(chan struct{})
	var calls atomic.Int32
	m := NewRegistry().Import("about", gatedLoader(release, &calls))
	tr := testcomponents.NewTestRenderer(newHost(m))

	// Act
	root := tr.RenderRoot()

	// Assert: the slot holds the placeholder while the fetch is outstanding
	placeholder := root.Find(vdom.ByClass("lazy-placeholder"))
	require.NotNil(t, placeholder)
	assert.Equal(t, PlaceholderText, placeholder.Content)

	close(release)
	require.Eventually(t, func() bool { return textOf(tr) == "About content" }, time.Second, 5*time.Millisecond)
	assert.Nil(t, tr.GetCurrentVDOM().Find(vdom.ByClass("lazy-placeholder")))
	assert.EqualValues(t, 1, calls.Load())
}

func TestComponent_StaleLoadDiscarded(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	m := NewRegistry().Import("about", gatedLoader(release, &calls))
	h := newHost(m)
	tr := testcomponents.NewTestRenderer(h)

	tr.RenderRoot()
	require.Equal(t, PlaceholderText, textOf(tr))

	// Navigate away before the fetch resolves.
	h.show.Store(false)
	tr.ReRender()
	rendersAfterUnmount := tr.Renders()

	close(release)
	require.Eventually(t, func() bool { _, ok := m.Resolved(); return ok }, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return tr.Renders() != rendersAfterUnmount }, 50*time.Millisecond, 5*time.Millisecond,
		"a discarded load must not trigger a render")
	assert.Empty(t, textOf(tr))

	// Coming back renders the cached module without the placeholder.
	h.show.Store(true)
	tr.ReRender()
	assert.Equal(t, "About content", textOf(tr))
	assert.EqualValues(t, 1, calls.Load())
}

func TestComponent_FailureOffersRetry(t *testing.T) {
	var attempts atomic.Int32
	m := NewRegistry().Import("flaky", LoaderFunc(func(ctx context.Context) (runtime.ComponentFactory, error) {
		if attempts.Add(1) == 1 {
			return nil, errors.New("network down")
		}
		return viewFactory("recovered"), nil
	}))
	tr := testcomponents.NewTestRenderer(newHost(m))
	tr.RenderRoot()

	var retry *vdom.VNode
	require.Eventually(t, func() bool {
		retry = tr.GetCurrentVDOM().Find(vdom.ByTag("button"))
		return retry != nil
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, textOf(tr), "network down")
	_, cached := m.Resolved()
	assert.False(t, cached, "failures are not remembered")

	retry.OnClick(events.Synthetic(nil))

	require.Eventually(t, func() bool { return textOf(tr) == "recovered" }, time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 2, attempts.Load())
}

func TestComponent_CustomFallback(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	var calls atomic.Int32
	c := &Component{
		Module:   NewRegistry().Import("x", gatedLoader(release, &calls)),
		Fallback: func() *vdom.VNode { return vdom.Paragraph("spinner", nil) },
	}
	tr := testcomponents.NewTestRenderer(c)

	assert.Equal(t, "spinner", tr.RenderRoot().Content)
}

func TestModule_ConcurrentLoadsShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	m := NewRegistry().Import("about", gatedLoader(release, &calls))

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Load(context.Background())
			errs <- err
		}()
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestModule_LoadHonoursCallerContext(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	m := NewRegistry().Import("slow", gatedLoader(release, &calls))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	// The shared fetch keeps going and still resolves the module.
	close(release)
	require.Eventually(t, func() bool { _, ok := m.Resolved(); return ok }, time.Second, 5*time.Millisecond)

	m.Forget()
	_, ok := m.Resolved()
	assert.False(t, ok)
}

func TestModule_NilFactoryIsAnError(t *testing.T) {
	m := NewRegistry().Import("nil", LoaderFunc(func(context.Context) (runtime.ComponentFactory, error) {
		return nil, nil
	}))
	_, err := m.Load(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "nil factory"))
}
