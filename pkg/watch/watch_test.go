package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/promokit/pkg/components"
	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/htmlgen"
	"github.com/gnana997/promokit/pkg/pagestore"
	"github.com/gnana997/promokit/pkg/render"
	"github.com/gnana997/promokit/pkg/validator"
)

type event struct {
	op   string
	slug string
}

type recordingHandler struct {
	mu     sync.Mutex
	events []event
	ch     chan event
}

func newRecorder() *recordingHandler {
	return &recordingHandler{ch: make(chan event, 64)}
}

func (h *recordingHandler) record(e event) {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
	h.ch <- e
}

func (h *recordingHandler) PageChanged(slug string) { h.record(event{"changed", slug}) }
func (h *recordingHandler) PageRemoved(slug string) { h.record(event{"removed", slug}) }

func (h *recordingHandler) wait(t *testing.T) event {
	t.Helper()
	select {
	case e := <-h.ch:
		return e
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for page event")
		return event{}
	}
}

func openStore(t *testing.T) *pagestore.Store {
	t.Helper()
	s, err := pagestore.Open(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

// --- Watcher ---

func TestWatcher_ChangeAndRemove(t *testing.T) {
	store := openStore(t)
	h := newRecorder()
	w, err := New(store, h, Options{Debounce: 20 * time.Millisecond}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	p, err := pagestore.NewPage("promo", "", document.New())
	require.NoError(t, err)
	require.NoError(t, store.Save(p))
	assert.Equal(t, event{"changed", "promo"}, h.wait(t))

	require.NoError(t, store.Delete("promo"))
	assert.Equal(t, event{"removed", "promo"}, h.wait(t))
}

func TestWatcher_NewSubdirectory(t *testing.T) {
	store := openStore(t)
	h := newRecorder()
	w, err := New(store, h, Options{Debounce: 20 * time.Millisecond}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.MkdirAll(filepath.Join(store.Dir(), "events"), 0o755))
	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	p, err := pagestore.NewPage("events/summer", "", document.New())
	require.NoError(t, err)
	require.NoError(t, store.Save(p))
	assert.Equal(t, event{"changed", "events/summer"}, h.wait(t))
}

func TestWatcher_Debounce(t *testing.T) {
	store := openStore(t)
	h := newRecorder()
	w, err := New(store, h, Options{Debounce: 50 * time.Millisecond}, nil)
	require.NoError(t, err)
	defer w.Stop()

	for i := 0; i < 5; i++ {
		w.debounce("a", func() { h.PageChanged("a") })
	}
	assert.Equal(t, 1, w.Pending())
	h.wait(t)

	time.Sleep(100 * time.Millisecond)
	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Len(t, h.events, 1)
	assert.Equal(t, 0, w.Pending())
}

func TestWatcher_Ignored(t *testing.T) {
	store := openStore(t)
	w, err := New(store, newRecorder(), Options{}, nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.True(t, w.ignored(filepath.Join(store.Dir(), ".page-123.tmp")))
	assert.True(t, w.ignored(filepath.Join(store.Dir(), "draft.json~")))
	assert.False(t, w.ignored(filepath.Join(store.Dir(), "promo.json")))
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(openStore(t), newRecorder(), Options{Ignore: []string{"[unclosed"}}, nil)
	assert.Error(t, err)
}

func TestWatcher_StopIdempotent(t *testing.T) {
	w, err := New(openStore(t), newRecorder(), Options{}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	assert.Error(t, w.Start())
}

// --- Rebuilder ---

func newRebuilder(t *testing.T) (*Rebuilder, *pagestore.Store, string) {
	t.Helper()
	reg := components.NewRegistry()
	gen, err := htmlgen.New(render.New(reg, nil), htmlgen.Options{}, nil)
	require.NoError(t, err)
	store := openStore(t)
	out := t.TempDir()
	return NewRebuilder(store, gen, validator.NewValidator(reg), out, nil), store, out
}

func TestRebuilder_BuildsAndRemoves(t *testing.T) {
	r, store, out := newRebuilder(t)
	var results []htmlgen.BuildResult
	r.OnBuild = func(res htmlgen.BuildResult) { results = append(results, res) }

	doc := document.New()
	doc.Components = append(doc.Components, document.Instance{ID: "t", Type: "text", Props: document.Props{"content": "Hi there"}})
	p, err := pagestore.NewPage("promo", "Promo", doc)
	require.NoError(t, err)
	require.NoError(t, store.Save(p))

	r.PageChanged("promo")
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	data, err := os.ReadFile(htmlgen.OutputPath(out, "promo"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hi there")

	r.PageRemoved("promo")
	_, err = os.Stat(htmlgen.OutputPath(out, "promo"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(out, "promo"))
	assert.True(t, os.IsNotExist(err))
}

func TestRebuilder_SkipsInvalidAndMissing(t *testing.T) {
	r, store, out := newRebuilder(t)
	var results []htmlgen.BuildResult
	r.OnBuild = func(res htmlgen.BuildResult) { results = append(results, res) }

	r.PageChanged("ghost")
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, pagestore.ErrNotFound)

	// Write a page with duplicate ids directly; Save would refuse it.
	raw := `{"id":"1","slug":"dup","title":"Dup","document":{"version":1,"components":[
		{"id":"a","type":"spacer","props":{}},{"id":"a","type":"spacer","props":{}}]}}`
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "dup.json"), []byte(raw), 0o644))

	r.PageChanged("dup")
	require.Len(t, results, 2)
	assert.Error(t, results[1].Err)
	_, err := os.Stat(htmlgen.OutputPath(out, "dup"))
	assert.True(t, os.IsNotExist(err))
}
