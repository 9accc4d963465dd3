// Package editor implements the mutation engine behind one editing session:
// the current document, the selection, and a bounded linear undo/redo history
// of whole-document snapshots.
//
// Every mutating operation that finds its target snapshots the current
// document onto the undo stack, clears the redo stack, installs the new
// document and marks the session dirty. This holds even when the result equals
// the previous document (moving an item onto itself, patching a prop with its
// current value). Operations whose target is absent are no-ops that leave the
// history and the dirty flag alone.
package editor

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gnana997/promokit/pkg/document"
)

// DefaultHistoryLimit is the number of undo snapshots kept unless
// WithHistoryLimit says otherwise.
const DefaultHistoryLimit = 50

// End inserts at the end of the document when passed as an AddComponent index.
const End = -1

// ErrIndexOutOfRange is returned by MoveComponent for indices outside the
// document. It signals a caller bug rather than a data problem.
var ErrIndexOutOfRange = errors.New("editor: index out of range")

// Change describes one state transition, delivered to the OnChange listener.
type Change struct {
	Op       string
	Document document.Document
	Selected string
	Dirty    bool
}

// Option configures a Store.
type Option func(*Store)

// WithHistoryLimit caps the undo stack. Values below 1 are ignored.
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// OnChange registers a listener called after every state transition,
// selection changes included. It runs outside the store's lock.
func OnChange(fn func(Change)) Option {
	return func(s *Store) { s.onChange = fn }
}

type snapshot struct {
	doc   document.Document
	label string
}

// Store owns one editing session. Operations are atomic with respect to each
// other.
type Store struct {
	mu       sync.Mutex
	doc      document.Document
	selected string
	undo     []snapshot
	redo     []snapshot
	dirty    bool

	limit    int
	logger   *slog.Logger
	onChange func(Change)
}

// New creates a store editing doc. The store keeps its own copy.
func New(doc document.Document, opts ...Option) *Store {
	s := &Store{
		doc:    normalize(doc),
		limit:  DefaultHistoryLimit,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalize(doc document.Document) document.Document {
	out := doc.Clone()
	if out.Version == 0 {
		out.Version = document.CurrentVersion
	}
	return out
}

// --- Mutations ---

// AddComponent inserts inst at index and selects it. An index of End, or any
// index past the end, appends; a negative index other than End inserts at the
// front. The type is not checked against any registry. An empty id, or one
// already used in the document, is replaced with a fresh one. It returns the
// id of the inserted instance.
func (s *Store) AddComponent(inst document.Instance, index int) string {
	inst = inst.Clone()
	if inst.Props == nil {
		inst.Props = document.Props{}
	}

	s.mu.Lock()
	for inst.ID == "" || s.doc.Index(inst.ID) >= 0 {
		inst.ID = document.NewID()
	}
	n := len(s.doc.Components)
	switch {
	case index == End || index > n:
		index = n
	case index < 0:
		index = 0
	}
	next := s.derive()
	next.Components = append(next.Components, document.Instance{})
	copy(next.Components[index+1:], next.Components[index:n])
	next.Components[index] = inst
	s.commit(next, "add "+inst.Type)
	s.selected = inst.ID
	ch := s.change("add")
	s.mu.Unlock()

	s.notify(ch)
	return inst.ID
}

// RemoveComponent deletes the instance with id. Removing the selected
// instance clears the selection. It reports whether anything was removed.
func (s *Store) RemoveComponent(id string) bool {
	s.mu.Lock()
	i := s.doc.Index(id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("remove: no such component", "id", id)
		return false
	}
	next := s.derive()
	removed := next.Components[i]
	next.Components = append(next.Components[:i], next.Components[i+1:]...)
	s.commit(next, "remove "+removed.Type)
	if s.selected == id {
		s.selected = ""
	}
	ch := s.change("remove")
	s.mu.Unlock()

	s.notify(ch)
	return true
}

// MoveComponent moves the instance at from so that it ends up at to. A move
// onto itself still records a history entry.
func (s *Store) MoveComponent(from, to int) error {
	s.mu.Lock()
	n := len(s.doc.Components)
	if from < 0 || from >= n || to < 0 || to >= n {
		s.mu.Unlock()
		return fmt.Errorf("%w: move %d -> %d with %d components", ErrIndexOutOfRange, from, to, n)
	}
	next := s.derive()
	moved := next.Components[from]
	next.Components = append(next.Components[:from], next.Components[from+1:]...)
	next.Components = append(next.Components, document.Instance{})
	copy(next.Components[to+1:], next.Components[to:])
	next.Components[to] = moved
	s.commit(next, "move "+moved.Type)
	ch := s.change("move")
	s.mu.Unlock()

	s.notify(ch)
	return nil
}

// UpdateProps shallow-merges patch into the props of the instance with id.
// The patch is trusted: nothing checks it against the component schema.
// It reports whether the instance was found.
func (s *Store) UpdateProps(id string, patch map[string]any) bool {
	s.mu.Lock()
	i := s.doc.Index(id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("update: no such component", "id", id)
		return false
	}
	next := s.derive()
	target := next.Components[i]
	target.Props = target.Props.Merge(patch)
	next.Components[i] = target
	s.commit(next, "edit "+target.Type)
	ch := s.change("update")
	s.mu.Unlock()

	s.notify(ch)
	return true
}

// SelectComponent changes the selection without touching history. An empty
// id clears it. Selecting an id that is not in the document is ignored and
// reported as false.
func (s *Store) SelectComponent(id string) bool {
	s.mu.Lock()
	if id != "" && s.doc.Index(id) < 0 {
		s.mu.Unlock()
		return false
	}
	s.selected = id
	ch := s.change("select")
	s.mu.Unlock()

	s.notify(ch)
	return true
}

// Undo restores the most recent snapshot. It reports false when there is
// nothing to undo.
func (s *Store) Undo() bool {
	s.mu.Lock()
	if len(s.undo) == 0 {
		s.mu.Unlock()
		return false
	}
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, snapshot{doc: s.doc, label: last.label})
	s.restore(last.doc)
	ch := s.change("undo")
	s.mu.Unlock()

	s.logger.Debug("undo", "label", last.label, "undo_depth", len(s.undo))
	s.notify(ch)
	return true
}

// Redo reapplies the most recently undone snapshot. It reports false when
// there is nothing to redo.
func (s *Store) Redo() bool {
	s.mu.Lock()
	if len(s.redo) == 0 {
		s.mu.Unlock()
		return false
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.pushUndo(snapshot{doc: s.doc, label: next.label})
	s.restore(next.doc)
	ch := s.change("redo")
	s.mu.Unlock()

	s.logger.Debug("redo", "label", next.label, "redo_depth", len(s.redo))
	s.notify(ch)
	return true
}

// ReplaceDocument starts a new session on doc. History and selection are
// cleared and the store is clean.
func (s *Store) ReplaceDocument(doc document.Document) {
	s.mu.Lock()
	s.doc = normalize(doc)
	s.undo, s.redo = nil, nil
	s.selected = ""
	s.dirty = false
	ch := s.change("replace")
	s.mu.Unlock()

	s.notify(ch)
}

// MarkSaved clears the dirty flag after an external save.
func (s *Store) MarkSaved() {
	s.mu.Lock()
	s.dirty = false
	ch := s.change("saved")
	s.mu.Unlock()

	s.notify(ch)
}

// --- Accessors ---

// Document returns a copy of the current document.
func (s *Store) Document() document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// SelectedID returns the selected instance id, or "".
func (s *Store) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Selected returns a copy of the selected instance.
func (s *Store) Selected() (document.Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return document.Instance{}, false
	}
	inst, ok := s.doc.Find(s.selected)
	if !ok {
		return document.Instance{}, false
	}
	return inst.Clone(), true
}

// Instance returns a copy of the instance with id.
func (s *Store) Instance(id string) (document.Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.doc.Find(id)
	if !ok {
		return document.Instance{}, false
	}
	return inst.Clone(), true
}

// Dirty reports whether the document changed since the last save or load.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Store) CanUndo() bool { return s.UndoDepth() > 0 }
func (s *Store) CanRedo() bool { return s.RedoDepth() > 0 }

// UndoDepth returns the number of snapshots on the undo stack.
func (s *Store) UndoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo)
}

// RedoDepth returns the number of snapshots on the redo stack.
func (s *Store) RedoDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo)
}

// History returns the labels of the undo stack, oldest first.
func (s *Store) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.undo))
	for i, snap := range s.undo {
		out[i] = snap.label
	}
	return out
}

// --- internals (caller holds mu) ---

// derive returns a shallow copy of the current document with its own
// component slice. Instances are shared with history until replaced.
func (s *Store) derive() document.Document {
	return document.Document{
		Version:    s.doc.Version,
		Components: append(make([]document.Instance, 0, len(s.doc.Components)+1), s.doc.Components...),
	}
}

func (s *Store) commit(next document.Document, label string) {
	s.pushUndo(snapshot{doc: s.doc, label: label})
	s.redo = nil
	s.doc = next
	s.dirty = true
	s.logger.Debug("commit", "op", label, "components", len(next.Components), "undo_depth", len(s.undo))
}

func (s *Store) pushUndo(snap snapshot) {
	s.undo = append(s.undo, snap)
	if over := len(s.undo) - s.limit; over > 0 {
		s.undo = append([]snapshot(nil), s.undo[over:]...)
	}
}

// restore installs doc from history and drops a selection that no longer
// points at an instance.
func (s *Store) restore(doc document.Document) {
	s.doc = doc
	s.dirty = true
	if s.selected != "" && doc.Index(s.selected) < 0 {
		s.selected = ""
	}
}

func (s *Store) change(op string) *Change {
	if s.onChange == nil {
		return nil
	}
	return &Change{Op: op, Document: s.doc.Clone(), Selected: s.selected, Dirty: s.dirty}
}

func (s *Store) notify(ch *Change) {
	if ch != nil {
		s.onChange(*ch)
	}
}
