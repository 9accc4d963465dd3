// Package pagetemplate loads starter documents and instantiates them with
// fresh instance ids.
package pagetemplate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/templates"
)

// Blank is the id of the empty template.
const Blank = "blank"

// ErrNotFound is returned for an unknown template id.
var ErrNotFound = errors.New("template not found")

// Item is one component of a template. Ids are assigned on instantiation.
type Item struct {
	Type  string         `json:"type"`
	Props map[string]any `json:"props"`
}

// Template is a named starter page.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
	Components  []Item `json:"components"`
}

// Set is a loaded collection of templates, ordered for display.
type Set struct {
	list []*Template
	byID map[string]*Template
}

// Load reads every *.json file at the root of fsys.
func Load(fsys fs.FS) (*Set, error) {
	files, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}
	set := &Set{byID: make(map[string]*Template, len(files))}
	var errs []error
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		var t Template
		if err := json.Unmarshal(data, &t); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if t.ID == "" {
			t.ID = strings.TrimSuffix(name, ".json")
		}
		if _, dup := set.byID[t.ID]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate template id %q", name, t.ID))
			continue
		}
		set.byID[t.ID] = &t
		set.list = append(set.list, &t)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	sort.SliceStable(set.list, func(i, j int) bool {
		if set.list[i].Order != set.list[j].Order {
			return set.list[i].Order < set.list[j].Order
		}
		return set.list[i].ID < set.list[j].ID
	})
	return set, nil
}

// Builtin loads the embedded templates.
func Builtin() (*Set, error) {
	return Load(templates.FS)
}

// List returns the templates in display order.
func (s *Set) List() []*Template {
	out := make([]*Template, len(s.list))
	copy(out, s.list)
	return out
}

// Get returns the template with id.
func (s *Set) Get(id string) (*Template, bool) {
	t, ok := s.byID[id]
	return t, ok
}

// Instantiate builds a new document from template id. Every instance gets
// a fresh id and its own copy of the props, so two pages created from the
// same template never share state.
func (s *Set) Instantiate(id string) (document.Document, error) {
	t, ok := s.byID[id]
	if !ok {
		return document.Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	doc := document.New()
	for _, it := range t.Components {
		doc.Components = append(doc.Components, document.NewInstance(it.Type, it.Props))
	}
	return doc, nil
}

// Check reports template components whose type is not registered.
func (s *Set) Check(reg *component.Registry) error {
	var errs []error
	for _, t := range s.list {
		for i, it := range t.Components {
			if _, ok := reg.Get(it.Type); !ok {
				errs = append(errs, fmt.Errorf("template %s: components[%d]: unknown type %q", t.ID, i, it.Type))
			}
		}
	}
	return errors.Join(errs...)
}
