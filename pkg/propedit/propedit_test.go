package propedit

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/components"
	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/editor"
	"github.com/gnana997/promokit/pkg/markup"
	"github.com/gnana997/promokit/pkg/schema"
)

// --- Helpers ---

// recordingStore captures every patch written by a session.
type recordingStore struct {
	inst    document.Instance
	patches []map[string]any
}

func (r *recordingStore) Instance(id string) (document.Instance, bool) {
	if id != r.inst.ID {
		return document.Instance{}, false
	}
	return r.inst.Clone(), true
}

func (r *recordingStore) UpdateProps(id string, patch map[string]any) bool {
	if id != r.inst.ID {
		return false
	}
	r.patches = append(r.patches, patch)
	r.inst.Props = r.inst.Props.Merge(patch)
	return true
}

var testSchema = schema.Object(
	schema.F("objectFit", "Fit", schema.Enum("cover", "contain", "fill").Default("cover")),
	schema.F("height", "Height", schema.Number().Min(0).Max(800)),
	schema.F("opacity", "Opacity", schema.Number()),
	schema.F("visible", "Visible", schema.Bool().Optional()),
	schema.F("backgroundColor", "Background", schema.Color().Optional()),
	schema.F("title", "Title", schema.String()),
	schema.F("body", "Body", schema.Multiline()),
	schema.F("cover", "Cover", schema.ImageURL()),
	schema.F("startsAt", "Starts", schema.Datetime()),
	schema.F("images", "Images", schema.Array(schema.Object(
		schema.F("src", "Image", schema.ImageURL()),
		schema.F("alt", "Alt", schema.String().Default("")),
		schema.F("link", "Link", schema.String().Optional()),
	)).Template(map[string]any{"src": "https://placehold.co/800x400", "alt": "", "link": ""})),
	schema.F("tags", "Tags", schema.Array(schema.String())),
	schema.F("extra", "Extra", &schema.Type{Kind: "tuple"}),
)

func testDef() *component.Definition {
	return &component.Definition{
		Type:     "widget",
		Category: component.CategoryContent,
		Schema:   testSchema,
		Render:   func(document.Props) []*html.Node { return nil },
	}
}

func newSession(t *testing.T, props document.Props) (*Session, *recordingStore) {
	t.Helper()
	reg := component.NewRegistry()
	reg.MustRegister(testDef())
	store := &recordingStore{inst: document.Instance{ID: "w1", Type: "widget", Props: props}}
	s, err := NewSession(store, reg, "w1", nil)
	require.NoError(t, err)
	return s, store
}

func field(t *testing.T, fields []Field, name string) Field {
	t.Helper()
	f, ok := Find(fields, name)
	require.True(t, ok, "field %s", name)
	return f
}

// --- Dispatch ---

func TestFields_OnePerSchemaEntry(t *testing.T) {
	fields := Fields(testDef(), document.Instance{Props: document.Props{}})
	require.Len(t, fields, len(testSchema.Fields))
	for i, f := range testSchema.Fields {
		assert.Equal(t, f.Name, fields[i].Name)
	}
}

func TestFields_ControlPerKind(t *testing.T) {
	fields := Fields(testDef(), document.Instance{Props: document.Props{}})
	want := map[string]Control{
		"objectFit":       ControlSelect,
		"height":          ControlRange,
		"visible":         ControlToggle,
		"backgroundColor": ControlColor,
		"title":           ControlText,
		"body":            ControlTextarea,
		"cover":           ControlImage,
		"startsAt":        ControlDatetime,
		"images":          ControlList,
		"extra":           ControlText,
	}
	for name, c := range want {
		assert.Equal(t, c, field(t, fields, name).Control, name)
	}
}

func TestFields_UnsetValues(t *testing.T) {
	fields := Fields(testDef(), document.Instance{Props: document.Props{}})

	fit := field(t, fields, "objectFit")
	assert.Equal(t, "", fit.Value)
	assert.Equal(t, []string{"cover", "contain", "fill"}, schema.Values(&schema.Type{Kind: schema.KindEnum, Options: fit.Options}))

	h := field(t, fields, "height")
	assert.Equal(t, 0.0, h.Value)
	assert.Equal(t, 0.0, h.Min)
	assert.Equal(t, 800.0, h.Max)

	op := field(t, fields, "opacity")
	assert.Equal(t, float64(FallbackMin), op.Min)
	assert.Equal(t, float64(FallbackMax), op.Max)

	assert.Equal(t, false, field(t, fields, "visible").Value)
	assert.Equal(t, DefaultColor, field(t, fields, "backgroundColor").Value)
	assert.Equal(t, "", field(t, fields, "title").Value)
	assert.Equal(t, []any{}, field(t, fields, "images").Value)
	assert.True(t, field(t, fields, "backgroundColor").Optional)
}

func TestFields_ListItems(t *testing.T) {
	fields := Fields(testDef(), document.Instance{Props: document.Props{
		"images": []any{
			map[string]any{"src": "https://a", "alt": "A"},
			map[string]any{"src": "https://b"},
		},
		"tags": []any{"x", "y"},
	}})

	images := field(t, fields, "images")
	require.Len(t, images.Items, 2)
	sub := images.Items[1].Fields
	require.Len(t, sub, 3)
	assert.Equal(t, ControlImage, sub[0].Control)
	assert.Equal(t, "https://b", sub[0].Value)

	tags := field(t, fields, "tags")
	require.Len(t, tags.Items, 2)
	require.Len(t, tags.Items[0].Fields, 1)
	assert.Equal(t, "x", tags.Items[0].Fields[0].Value)
	assert.Equal(t, "", tags.Template)
}

func TestFields_ListItemsOfTypedProps(t *testing.T) {
	fields := Fields(testDef(), document.Instance{Props: document.Props{
		"images": []document.Props{{"src": "a.png", "alt": "A", "link": "x"}},
	}})

	images := field(t, fields, "images")
	require.Len(t, images.Items, 1)
	sub := images.Items[0].Fields
	assert.Equal(t, "a.png", field(t, sub, "src").Value)
	assert.Equal(t, "A", field(t, sub, "alt").Value)
}

func TestFields_NilDefinition(t *testing.T) {
	assert.Nil(t, Fields(nil, document.Instance{}))
}

// --- Session edits ---

func TestSession_SelectEnum(t *testing.T) {
	s, store := newSession(t, document.Props{})
	require.NoError(t, s.Set("objectFit", "contain"))
	assert.Equal(t, []map[string]any{{"objectFit": "contain"}}, store.patches)
}

func TestSession_MoveRange(t *testing.T) {
	s, store := newSession(t, document.Props{})
	require.NoError(t, s.Set("height", 450))
	assert.Equal(t, []map[string]any{{"height": 450}}, store.patches)
}

func TestSession_ColorField(t *testing.T) {
	s, store := newSession(t, document.Props{})
	fields, err := s.Fields()
	require.NoError(t, err)
	assert.Equal(t, ControlColor, field(t, fields, "backgroundColor").Control)

	require.NoError(t, s.Set("backgroundColor", "#112233"))
	assert.Equal(t, []map[string]any{{"backgroundColor": "#112233"}}, store.patches)
}

func TestSession_AddImageItem(t *testing.T) {
	s, store := newSession(t, document.Props{"images": []any{
		map[string]any{"src": "https://a", "alt": ""},
		map[string]any{"src": "https://b", "alt": ""},
	}})

	idx, err := s.AddItem("images")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	items := store.inst.Props["images"].([]any)
	require.Len(t, items, 3)
	assert.Equal(t, map[string]any{"src": "https://placehold.co/800x400", "alt": "", "link": ""}, items[2])
}

func TestSession_AddItemWithoutTemplate(t *testing.T) {
	s, store := newSession(t, document.Props{})
	_, err := s.AddItem("tags")
	require.NoError(t, err)
	assert.Equal(t, []any{""}, store.inst.Props["tags"])
}

func TestSession_TemplateNotShared(t *testing.T) {
	s, store := newSession(t, document.Props{})
	_, _ = s.AddItem("images")
	require.NoError(t, s.SetItemField("images", 0, "alt", "changed"))
	_, _ = s.AddItem("images")

	items := store.inst.Props["images"].([]any)
	assert.Equal(t, "", items[1].(map[string]any)["alt"])
	assert.Equal(t, "", testSchema.Fields[9].Type.ItemTemplate.(map[string]any)["alt"])
}

func TestSession_RemoveAndSetItem(t *testing.T) {
	s, store := newSession(t, document.Props{"tags": []any{"a", "b", "c"}})

	require.NoError(t, s.RemoveItem("tags", 1))
	assert.Equal(t, []any{"a", "c"}, store.inst.Props["tags"])

	require.NoError(t, s.SetItemField("tags", 1, "", "z"))
	assert.Equal(t, []any{"a", "z"}, store.inst.Props["tags"])

	assert.ErrorIs(t, s.RemoveItem("tags", 5), ErrItemRange)
	assert.ErrorIs(t, s.SetItemField("tags", -1, "", "x"), ErrItemRange)
}

func TestSession_SetItemFieldKeepsTypedPropsKeys(t *testing.T) {
	original := []document.Props{{"src": "a.png", "alt": "A", "link": "x"}}
	s, store := newSession(t, document.Props{"images": original})

	require.NoError(t, s.SetItemField("images", 0, "alt", "B"))

	items := store.inst.Props["images"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, map[string]any{"src": "a.png", "alt": "B", "link": "x"}, items[0])
	assert.Equal(t, "A", original[0]["alt"])
}

func TestSession_SetPath(t *testing.T) {
	s, store := newSession(t, document.Props{
		"images": []any{map[string]any{"src": "a.png", "alt": "A"}},
		"tags":   []any{"x", "y"},
	})

	require.NoError(t, s.SetPath("height", "120"))
	require.NoError(t, s.SetPath("images.0.alt", "Sale banner"))
	require.NoError(t, s.SetPath("tags.1", "z"))

	assert.Equal(t, 120.0, store.inst.Props["height"])
	assert.Equal(t, []any{map[string]any{"src": "a.png", "alt": "Sale banner"}}, store.inst.Props["images"])
	assert.Equal(t, []any{"x", "z"}, store.inst.Props["tags"])

	assert.ErrorIs(t, s.SetPath("images.x.alt", "B"), ErrBadPath)
	assert.ErrorIs(t, s.SetPath("images.0.alt.more", "B"), ErrBadPath)
	assert.ErrorIs(t, s.SetPath("images.0.caption", "B"), ErrUnknownField)
	assert.ErrorIs(t, s.SetPath("images.3.alt", "B"), ErrItemRange)
	assert.ErrorIs(t, s.SetPath("title.0", "B"), ErrNotList)
}

func TestSession_Errors(t *testing.T) {
	s, _ := newSession(t, document.Props{})
	assert.ErrorIs(t, s.Set("nope", 1), ErrUnknownField)
	_, err := s.AddItem("title")
	assert.ErrorIs(t, err, ErrNotList)
	_, err = s.Upload(context.Background(), "cover", "a.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNoUploader)
}

func TestNewSession_Errors(t *testing.T) {
	reg := component.NewRegistry()
	store := &recordingStore{inst: document.Instance{ID: "x", Type: "ghost"}}

	_, err := NewSession(store, reg, "missing", nil)
	assert.ErrorIs(t, err, ErrNoInstance)

	_, err = NewSession(store, reg, "x", nil)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestSession_SetText(t *testing.T) {
	s, store := newSession(t, document.Props{})

	require.NoError(t, s.SetText("height", " 1200 "))
	require.NoError(t, s.SetText("visible", "on"))
	require.NoError(t, s.SetText("title", "Hello"))
	assert.Error(t, s.SetText("height", "tall"))

	assert.Equal(t, []map[string]any{
		{"height": 800.0},
		{"visible": true},
		{"title": "Hello"},
	}, store.patches)
}

func TestParseInput_MinAboveFallbackRange(t *testing.T) {
	v, err := parseInput(schema.Number().Min(1000), "1500")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, v)

	v, err = parseInput(schema.Number().Min(1000), "10")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, v)

	fields := Fields(&component.Definition{
		Type:   "gap",
		Schema: schema.Object(schema.F("size", "Size", schema.Number().Min(1000))),
	}, document.Instance{Props: document.Props{}})
	size := field(t, fields, "size")
	assert.GreaterOrEqual(t, size.Max, size.Min)
	assert.Equal(t, 1000.0, size.Value)
}

// --- Upload ---

type fakeUploader struct {
	got   string
	calls int
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	data, _ := io.ReadAll(r)
	f.got = string(data)
	return "https://cdn.example/" + filename, nil
}

func TestSession_Upload(t *testing.T) {
	reg := component.NewRegistry()
	reg.MustRegister(testDef())
	store := &recordingStore{inst: document.Instance{ID: "w1", Type: "widget", Props: document.Props{}}}
	up := &fakeUploader{}
	s, err := NewSession(store, reg, "w1", up)
	require.NoError(t, err)

	url, err := s.Upload(context.Background(), "cover", "hero.png", strings.NewReader("PNG"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/hero.png", url)
	assert.Equal(t, "PNG", up.got)
	assert.Equal(t, url, store.inst.Props["cover"])

	store.inst.Props["images"] = []any{map[string]any{"src": "old.png", "alt": "A"}}
	url, err = s.Upload(context.Background(), "images.0.src", "slide.png", strings.NewReader("PNG"))
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"src": "https://cdn.example/slide.png", "alt": "A"}}, store.inst.Props["images"])

	_, err = s.Upload(context.Background(), "images.4.src", "slide.png", strings.NewReader("PNG"))
	assert.ErrorIs(t, err, ErrItemRange)
	assert.Equal(t, 2, up.calls, "nothing uploaded for a bad path")

	up.err = errors.New("quota")
	_, err = s.Upload(context.Background(), "cover", "b.png", strings.NewReader(""))
	assert.ErrorContains(t, err, "quota")
}

// --- Integration with the editor store ---

func TestSession_WritesThroughEditorStore(t *testing.T) {
	reg := components.NewRegistry()
	in, ok := reg.NewInstance("carousel")
	require.True(t, ok)
	store := editor.New(document.New())
	store.AddComponent(in, editor.End)

	s, err := NewSession(store, reg, in.ID, nil)
	require.NoError(t, err)
	_, err = s.AddItem("images")
	require.NoError(t, err)

	got, _ := store.Instance(in.ID)
	assert.Len(t, got.Props["images"], 4)
	assert.Equal(t, 2, store.UndoDepth())

	store.Undo()
	got, _ = store.Instance(in.ID)
	assert.Len(t, got.Props["images"], 3)
}

// --- Panel ---

func TestPanel_RendersControls(t *testing.T) {
	fields := Fields(testDef(), document.Instance{Props: document.Props{
		"objectFit": "fill",
		"visible":   true,
		"images":    []any{map[string]any{"src": "https://a"}},
	}})
	out := markup.String(Panel(fields))

	assert.Contains(t, out, `type="color"`)
	assert.Contains(t, out, `type="range"`)
	assert.Contains(t, out, `type="datetime-local"`)
	assert.Contains(t, out, `<textarea`)
	assert.Contains(t, out, `value="fill" selected=""`)
	assert.Contains(t, out, `checked=""`)
	assert.Contains(t, out, `name="images.0.src"`)
	assert.Contains(t, out, `data-add="images"`)
	assert.Contains(t, out, `data-upload="cover"`)
}
