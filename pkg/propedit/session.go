package propedit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/schema"
	"github.com/gnana997/promokit/pkg/util"
)

var (
	ErrNoInstance   = errors.New("propedit: instance not found")
	ErrUnknownType  = errors.New("propedit: component type not registered")
	ErrUnknownField = errors.New("propedit: unknown field")
	ErrNotList      = errors.New("propedit: field is not a list")
	ErrItemRange    = errors.New("propedit: item index out of range")
	ErrNoUploader   = errors.New("propedit: no uploader configured")
	ErrBadPath      = errors.New("propedit: malformed field path")
)

// Store is the part of the editor store a session writes through.
type Store interface {
	Instance(id string) (document.Instance, bool)
	UpdateProps(id string, patch map[string]any) bool
}

// Uploader turns an uploaded image into a URL the page can reference.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Session edits the props of one instance. Every edit becomes a single
// UpdateProps call of the form {field: value}.
type Session struct {
	store    Store
	def      *component.Definition
	id       string
	uploader Uploader
}

// NewSession binds an instance to its definition. The uploader may be nil,
// in which case Upload fails with ErrNoUploader.
func NewSession(store Store, reg *component.Registry, id string, uploader Uploader) (*Session, error) {
	inst, ok := store.Instance(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoInstance, id)
	}
	def, ok := reg.Get(inst.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, inst.Type)
	}
	return &Session{store: store, def: def, id: id, uploader: uploader}, nil
}

// ID returns the edited instance id.
func (s *Session) ID() string { return s.id }

// Definition returns the definition of the edited instance.
func (s *Session) Definition() *component.Definition { return s.def }

// Fields returns the controls for the instance's current props.
func (s *Session) Fields() ([]Field, error) {
	inst, err := s.instance()
	if err != nil {
		return nil, err
	}
	return Fields(s.def, inst), nil
}

// Set writes value to field name as-is.
func (s *Session) Set(name string, value any) error {
	if _, ok := s.def.Schema.Lookup(name); !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, s.def.Type, name)
	}
	return s.patch(name, util.CopyValue(value))
}

// SetText writes raw form input to field name, converting it to the kind the
// field's control produces: numbers are parsed and clamped to the control's
// range, toggles accept "true"/"on"/"1", everything else stays a string.
func (s *Session) SetText(name, raw string) error {
	f, ok := s.def.Schema.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, s.def.Type, name)
	}
	v, err := parseInput(f.Type, raw)
	if err != nil {
		return fmt.Errorf("field %s: %w", name, err)
	}
	return s.patch(name, v)
}

// SetPath writes raw form input addressed by a Panel input name: "title" for
// a field, "tags.1" for a primitive list element and "images.0.alt" for a key
// of an object element. The input is converted like SetText does, using the
// element's schema.
func (s *Session) SetPath(path, raw string) error {
	ref, err := s.resolve(path)
	if err != nil {
		return err
	}
	v, err := parseInput(ref.typ, raw)
	if err != nil {
		return fmt.Errorf("field %s: %w", path, err)
	}
	return s.write(ref, v)
}

// AddItem appends the list field's item template and returns the new index.
func (s *Session) AddItem(name string) (int, error) {
	arr, items, err := s.list(name)
	if err != nil {
		return 0, err
	}
	items = append(items, itemTemplate(arr))
	return len(items) - 1, s.patch(name, items)
}

// RemoveItem deletes element index of a list field.
func (s *Session) RemoveItem(name string, index int) error {
	_, items, err := s.list(name)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %s[%d]", ErrItemRange, name, index)
	}
	items = append(items[:index], items[index+1:]...)
	return s.patch(name, items)
}

// SetItemField writes one key of an object element. An empty key replaces
// the element itself, which is how primitive lists are edited.
func (s *Session) SetItemField(name string, index int, key string, value any) error {
	_, items, err := s.list(name)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %s[%d]", ErrItemRange, name, index)
	}
	if key == "" {
		items[index] = util.CopyValue(value)
		return s.patch(name, items)
	}
	elem, _ := util.AsMap(items[index])
	next := util.CopyMap(elem)
	next[key] = util.CopyValue(value)
	items[index] = next
	return s.patch(name, items)
}

// Upload sends an image to the uploader and stores the returned URL at path,
// which may name a list element key such as "images.0.src".
func (s *Session) Upload(ctx context.Context, path, filename string, r io.Reader) (string, error) {
	if s.uploader == nil {
		return "", ErrNoUploader
	}
	ref, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	url, err := s.uploader.Upload(ctx, filename, r)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	return url, s.write(ref, url)
}

// fieldRef is a resolved field path. index is -1 for top-level fields.
type fieldRef struct {
	field string
	index int
	key   string
	typ   *schema.Type
}

func (s *Session) resolve(path string) (fieldRef, error) {
	parts := strings.Split(path, ".")
	if len(parts) == 1 {
		f, ok := s.def.Schema.Lookup(path)
		if !ok {
			return fieldRef{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, s.def.Type, path)
		}
		return fieldRef{field: path, index: -1, typ: f.Type}, nil
	}
	if len(parts) > 3 || parts[0] == "" {
		return fieldRef{}, fmt.Errorf("%w: %q", ErrBadPath, path)
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return fieldRef{}, fmt.Errorf("%w: %q", ErrBadPath, path)
	}
	arr, items, err := s.list(parts[0])
	if err != nil {
		return fieldRef{}, err
	}
	if index < 0 || index >= len(items) {
		return fieldRef{}, fmt.Errorf("%w: %s[%d]", ErrItemRange, parts[0], index)
	}
	ref := fieldRef{field: parts[0], index: index, typ: arr.Elem}
	if len(parts) == 3 {
		f, ok := arr.Elem.Lookup(parts[2])
		if !ok {
			return fieldRef{}, fmt.Errorf("%w: %s", ErrUnknownField, path)
		}
		ref.key, ref.typ = parts[2], f.Type
	}
	return ref, nil
}

func (s *Session) write(ref fieldRef, v any) error {
	if ref.index < 0 {
		return s.patch(ref.field, v)
	}
	return s.SetItemField(ref.field, ref.index, ref.key, v)
}

func (s *Session) instance() (document.Instance, error) {
	inst, ok := s.store.Instance(s.id)
	if !ok {
		return document.Instance{}, fmt.Errorf("%w: %s", ErrNoInstance, s.id)
	}
	return inst, nil
}

// list returns the array schema of field name and a private copy of its
// current elements.
func (s *Session) list(name string) (*schema.Type, []any, error) {
	f, ok := s.def.Schema.Lookup(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, s.def.Type, name)
	}
	arr := schema.Unwrap(f.Type)
	if arr.Kind != schema.KindArray {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotList, name)
	}
	inst, err := s.instance()
	if err != nil {
		return nil, nil, err
	}
	cur, _ := util.AsSlice(inst.Props[name])
	items, _ := util.CopyValue(cur).([]any)
	return arr, items, nil
}

func (s *Session) patch(name string, value any) error {
	if !s.store.UpdateProps(s.id, map[string]any{name: value}) {
		return fmt.Errorf("%w: %s", ErrNoInstance, s.id)
	}
	return nil
}

func parseInput(t *schema.Type, raw string) (any, error) {
	base := schema.Unwrap(t)
	switch base.Kind {
	case schema.KindNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", raw)
		}
		lo, hi := schema.Bounds(base, FallbackMin, FallbackMax)
		return min(max(n, lo), hi), nil
	case schema.KindBoolean:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "on", "1", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
	return raw, nil
}
