package editor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/promokit/pkg/document"
)

// --- Helpers ---

func inst(id, typ string, props document.Props) document.Instance {
	if props == nil {
		props = document.Props{}
	}
	return document.Instance{ID: id, Type: typ, Props: props}
}

func threeDoc() document.Document {
	return document.Document{
		Version: document.CurrentVersion,
		Components: []document.Instance{
			inst("a", "text", document.Props{"content": "A"}),
			inst("b", "spacer", document.Props{"height": 32.0}),
			inst("c", "button", document.Props{"text": "C"}),
		},
	}
}

func ids(d document.Document) []string {
	out := make([]string, len(d.Components))
	for i, c := range d.Components {
		out[i] = c.ID
	}
	return out
}

// --- AddComponent ---

func TestAddComponent_AppendsAndSelects(t *testing.T) {
	s := New(document.New())
	id := s.AddComponent(inst("x", "text", nil), End)

	assert.Equal(t, "x", id)
	assert.Equal(t, []string{"x"}, ids(s.Document()))
	assert.Equal(t, "x", s.SelectedID())
	assert.True(t, s.Dirty())
	assert.Equal(t, 1, s.UndoDepth())
}

func TestAddComponent_InsertsAtIndex(t *testing.T) {
	s := New(threeDoc())
	s.AddComponent(inst("x", "text", nil), 1)
	assert.Equal(t, []string{"a", "x", "b", "c"}, ids(s.Document()))
}

func TestAddComponent_ClampsIndex(t *testing.T) {
	s := New(threeDoc())
	s.AddComponent(inst("x", "text", nil), 99)
	s.AddComponent(inst("y", "text", nil), -5)
	assert.Equal(t, []string{"y", "a", "b", "c", "x"}, ids(s.Document()))
}

func TestAddComponent_AssignsMissingID(t *testing.T) {
	s := New(document.New())
	id := s.AddComponent(document.Instance{Type: "text"}, End)
	assert.Regexp(t, `^comp_[0-9a-f]{12}$`, id)
}

func TestAddComponent_ReissuesDuplicateID(t *testing.T) {
	s := New(document.New())
	first := s.AddComponent(inst("a", "text", nil), End)
	second := s.AddComponent(inst("a", "button", nil), End)

	assert.Equal(t, "a", first)
	assert.NotEqual(t, "a", second)
	assert.Regexp(t, `^comp_[0-9a-f]{12}$`, second)
	assert.Equal(t, second, s.SelectedID())
	require.NoError(t, s.Document().Validate())

	require.True(t, s.RemoveComponent("a"))
	got := s.Document()
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "button", got.Components[0].Type)
	assert.Equal(t, second, got.Components[0].ID)
}

func TestAddComponent_UnknownTypeTolerated(t *testing.T) {
	s := New(document.New())
	s.AddComponent(inst("x", "no-such-type", nil), End)
	assert.Equal(t, 1, s.Document().Len())
}

func TestAddComponent_CopiesProps(t *testing.T) {
	props := document.Props{"content": "hi"}
	s := New(document.New())
	s.AddComponent(inst("x", "text", props), End)
	props["content"] = "changed"

	got, ok := s.Instance("x")
	require.True(t, ok)
	assert.Equal(t, "hi", got.Props["content"])
}

// --- RemoveComponent ---

func TestRemoveComponent_SelectedClearsSelection(t *testing.T) {
	s := New(threeDoc())
	require.True(t, s.SelectComponent("b"))
	require.True(t, s.RemoveComponent("b"))

	assert.Equal(t, []string{"a", "c"}, ids(s.Document()))
	assert.Equal(t, "", s.SelectedID())
}

func TestRemoveComponent_OtherKeepsSelection(t *testing.T) {
	s := New(threeDoc())
	require.True(t, s.SelectComponent("a"))
	require.True(t, s.RemoveComponent("b"))
	assert.Equal(t, "a", s.SelectedID())
}

func TestRemoveComponent_AbsentIsNoop(t *testing.T) {
	s := New(threeDoc())
	assert.False(t, s.RemoveComponent("zzz"))
	assert.Equal(t, 0, s.UndoDepth())
	assert.False(t, s.Dirty())
	assert.Equal(t, 3, s.Document().Len())
}

// --- MoveComponent ---

func TestMoveComponent_Forward(t *testing.T) {
	s := New(threeDoc())
	require.NoError(t, s.MoveComponent(0, 2))
	assert.Equal(t, []string{"b", "c", "a"}, ids(s.Document()))
}

func TestMoveComponent_Backward(t *testing.T) {
	s := New(threeDoc())
	require.NoError(t, s.MoveComponent(2, 0))
	assert.Equal(t, []string{"c", "a", "b"}, ids(s.Document()))
}

func TestMoveComponent_SameIndexStillSnapshots(t *testing.T) {
	s := New(threeDoc())
	before := s.Document()

	require.NoError(t, s.MoveComponent(0, 0))

	assert.True(t, document.Equal(before, s.Document()))
	assert.Equal(t, 1, s.UndoDepth())
	assert.True(t, s.Dirty())
}

func TestMoveComponent_OutOfRange(t *testing.T) {
	s := New(threeDoc())
	tests := [][2]int{{-1, 0}, {0, 3}, {3, 0}, {0, -1}}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d->%d", tc[0], tc[1]), func(t *testing.T) {
			err := s.MoveComponent(tc[0], tc[1])
			require.ErrorIs(t, err, ErrIndexOutOfRange)
		})
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Document()))
	assert.Equal(t, 0, s.UndoDepth())
}

// --- UpdateProps ---

func TestUpdateProps_ShallowMerge(t *testing.T) {
	s := New(threeDoc())
	require.True(t, s.UpdateProps("a", map[string]any{"color": "#112233"}))

	got, _ := s.Instance("a")
	assert.Equal(t, "A", got.Props["content"])
	assert.Equal(t, "#112233", got.Props["color"])
}

func TestUpdateProps_DoesNotValidate(t *testing.T) {
	s := New(threeDoc())
	require.True(t, s.UpdateProps("b", map[string]any{"height": "tall"}))
	got, _ := s.Instance("b")
	assert.Equal(t, "tall", got.Props["height"])
}

func TestUpdateProps_AbsentIsNoop(t *testing.T) {
	s := New(threeDoc())
	assert.False(t, s.UpdateProps("zzz", map[string]any{"x": 1}))
	assert.Equal(t, 0, s.UndoDepth())
	assert.False(t, s.Dirty())
}

func TestUpdateProps_EqualPatchStillSnapshots(t *testing.T) {
	s := New(threeDoc())
	require.True(t, s.UpdateProps("a", map[string]any{"content": "A"}))
	assert.Equal(t, 1, s.UndoDepth())
}

func TestUpdateProps_HistoryUnaffected(t *testing.T) {
	s := New(threeDoc())
	s.UpdateProps("a", map[string]any{"content": "B"})
	s.Undo()
	got, _ := s.Instance("a")
	assert.Equal(t, "A", got.Props["content"])
}

// --- Selection ---

func TestSelectComponent_BypassesHistory(t *testing.T) {
	s := New(threeDoc())
	require.True(t, s.SelectComponent("c"))
	assert.Equal(t, 0, s.UndoDepth())
	assert.False(t, s.Dirty())

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "button", sel.Type)

	require.True(t, s.SelectComponent(""))
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestSelectComponent_UnknownIgnored(t *testing.T) {
	s := New(threeDoc())
	s.SelectComponent("a")
	assert.False(t, s.SelectComponent("zzz"))
	assert.Equal(t, "a", s.SelectedID())
}

func TestUndo_DropsDanglingSelection(t *testing.T) {
	s := New(threeDoc())
	s.AddComponent(inst("x", "text", nil), End)
	require.Equal(t, "x", s.SelectedID())
	s.Undo()
	assert.Equal(t, "", s.SelectedID())
}

// --- Undo / Redo ---

func TestUndoRedo_EmptyStacksAreNoops(t *testing.T) {
	s := New(threeDoc())
	assert.False(t, s.Undo())
	assert.False(t, s.Redo())
	assert.False(t, s.Dirty())
}

func TestUndoRedo_InverseLaw(t *testing.T) {
	d0 := threeDoc()
	s := New(d0)

	s.AddComponent(inst("x", "text", document.Props{"content": "X"}), 1)
	s.UpdateProps("a", map[string]any{"content": "AA"})
	require.NoError(t, s.MoveComponent(3, 0))
	s.RemoveComponent("b")
	s.UpdateProps("x", map[string]any{"tag": "h1"})
	dN := s.Document()

	for i := 0; i < 5; i++ {
		require.True(t, s.Undo())
	}
	assert.True(t, document.Equal(d0, s.Document()))
	assert.False(t, s.CanUndo())

	for i := 0; i < 5; i++ {
		require.True(t, s.Redo())
	}
	assert.True(t, document.Equal(dN, s.Document()))
	assert.False(t, s.CanRedo())
}

func TestUndo_SetsDirty(t *testing.T) {
	s := New(threeDoc())
	s.UpdateProps("a", map[string]any{"content": "B"})
	s.MarkSaved()
	require.False(t, s.Dirty())

	s.Undo()
	assert.True(t, s.Dirty())
}

func TestNewMutation_ClearsRedo(t *testing.T) {
	s := New(threeDoc())
	s.UpdateProps("a", map[string]any{"content": "B"})
	s.Undo()
	require.True(t, s.CanRedo())

	s.UpdateProps("a", map[string]any{"content": "C"})
	assert.False(t, s.Redo())
	got, _ := s.Instance("a")
	assert.Equal(t, "C", got.Props["content"])
}

func TestUndo_CapKeepsMostRecent(t *testing.T) {
	s := New(threeDoc())
	for i := 0; i < 60; i++ {
		s.UpdateProps("a", map[string]any{"n": float64(i)})
	}
	assert.Equal(t, DefaultHistoryLimit, s.UndoDepth())

	// The oldest surviving snapshot is the state before edit 10.
	for s.Undo() {
	}
	got, _ := s.Instance("a")
	assert.Equal(t, float64(9), got.Props["n"])
}

func TestWithHistoryLimit(t *testing.T) {
	s := New(threeDoc(), WithHistoryLimit(3))
	for i := 0; i < 10; i++ {
		s.UpdateProps("a", map[string]any{"n": i})
	}
	assert.Equal(t, 3, s.UndoDepth())
	assert.Len(t, s.History(), 3)
}

func TestRedo_RespectsCap(t *testing.T) {
	s := New(threeDoc(), WithHistoryLimit(2))
	s.UpdateProps("a", map[string]any{"n": 1})
	s.UpdateProps("a", map[string]any{"n": 2})
	s.Undo()
	s.Undo()
	s.Redo()
	s.Redo()
	assert.Equal(t, 2, s.UndoDepth())
}

// --- Session lifecycle ---

func TestReplaceDocument_ResetsSession(t *testing.T) {
	s := New(threeDoc())
	s.SelectComponent("a")
	s.UpdateProps("a", map[string]any{"content": "B"})
	s.Undo()

	s.ReplaceDocument(document.New())

	assert.Equal(t, 0, s.Document().Len())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
	assert.Equal(t, "", s.SelectedID())
	assert.False(t, s.Dirty())
}

func TestMarkSaved_KeepsHistory(t *testing.T) {
	s := New(threeDoc())
	s.UpdateProps("a", map[string]any{"content": "B"})
	s.MarkSaved()
	assert.False(t, s.Dirty())
	assert.Equal(t, 1, s.UndoDepth())
}

func TestDocument_ReturnsCopy(t *testing.T) {
	s := New(threeDoc())
	d := s.Document()
	d.Components[0].Props["content"] = "mutated"

	got, _ := s.Instance("a")
	assert.Equal(t, "A", got.Props["content"])
}

func TestOnChange_ReceivesTransitions(t *testing.T) {
	var ops []string
	s := New(threeDoc(), OnChange(func(c Change) { ops = append(ops, c.Op) }))

	s.SelectComponent("a")
	s.UpdateProps("a", map[string]any{"content": "B"})
	s.RemoveComponent("zzz")
	s.Undo()
	s.MarkSaved()

	assert.Equal(t, []string{"select", "update", "undo", "saved"}, ops)
}

func TestHistory_Labels(t *testing.T) {
	s := New(document.New())
	s.AddComponent(inst("x", "text", nil), End)
	s.UpdateProps("x", map[string]any{"content": "hi"})
	assert.Equal(t, []string{"add text", "edit text"}, s.History())
}
