// Package component defines page building blocks and the registry that maps
// a persisted type name to its definition.
package component

import (
	"fmt"
	"slices"
	"sync"

	"golang.org/x/net/html"

	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/schema"
	"github.com/gnana997/promokit/pkg/util"
)

// Category groups definitions in the palette.
type Category string

const (
	CategoryMedia       Category = "media"
	CategoryContent     Category = "content"
	CategoryInteractive Category = "interactive"
	CategoryNavigation  Category = "navigation"
	CategoryLayout      Category = "layout"
)

// Categories lists every category in palette order.
var Categories = []Category{
	CategoryMedia,
	CategoryContent,
	CategoryInteractive,
	CategoryNavigation,
	CategoryLayout,
}

// RenderFunc turns a property bag into markup. It must be pure: no I/O, no
// clock, no randomness. Missing props are defaulted by the function itself.
// Interactive behaviour is declared through data-* attributes and attached
// later by client scripts.
type RenderFunc func(props document.Props) []*html.Node

// Definition describes one component type. Definitions are built once at
// startup and never mutated afterwards.
type Definition struct {
	// Type is the persisted key. Renaming it orphans saved instances.
	Type        string
	DisplayName string
	Icon        string
	Category    Category
	Schema      *schema.Type
	// DefaultProps seeds new instances.
	DefaultProps document.Props
	Render       RenderFunc
}

// Registry maps type names to definitions and remembers insertion order.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]*Definition
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register inserts def, or replaces the definition already stored under the
// same type while keeping its original position. Registering the same set
// twice is harmless.
func (r *Registry) Register(def *Definition) error {
	if def == nil || def.Type == "" {
		return fmt.Errorf("component: definition type is required")
	}
	if def.Render == nil {
		return fmt.Errorf("component: render func for %q is nil", def.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Type]; !exists {
		r.order = append(r.order, def.Type)
	}
	r.defs[def.Type] = def
	return nil
}

// MustRegister is Register for static definition sets.
func (r *Registry) MustRegister(defs ...*Definition) {
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
}

// Get returns the definition for typ. A missing type is an ordinary outcome
// (a deprecated component or a corrupted document), not an error.
func (r *Registry) Get(typ string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[typ]
	return d, ok
}

// List returns all definitions in insertion order.
func (r *Registry) List() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Definition, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.defs[t])
	}
	return out
}

// ListByCategory returns the definitions in cat, in insertion order.
func (r *Registry) ListByCategory(cat Category) []*Definition {
	var out []*Definition
	for _, d := range r.List() {
		if d.Category == cat {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// PaletteGroup is one section of the "add component" palette.
type PaletteGroup struct {
	Category    Category
	Definitions []*Definition
}

// Palette groups definitions by category in the fixed palette order.
// Empty categories are omitted.
func (r *Registry) Palette() []PaletteGroup {
	var groups []PaletteGroup
	for _, cat := range Categories {
		if defs := r.ListByCategory(cat); len(defs) > 0 {
			groups = append(groups, PaletteGroup{Category: cat, Definitions: defs})
		}
	}
	return groups
}

// NewInstance creates an instance of typ seeded with a copy of the
// definition's default props.
func (r *Registry) NewInstance(typ string) (document.Instance, bool) {
	d, ok := r.Get(typ)
	if !ok {
		return document.Instance{}, false
	}
	return document.NewInstance(d.Type, d.DefaultProps), true
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	return slices.Contains(Categories, c)
}

// Resolve returns props overlaid on the schema defaults of the definition.
func (d *Definition) Resolve(props document.Props) document.Props {
	return Resolve(d.Schema, props)
}

// Resolve returns props overlaid on the defaults declared by s. The input is
// not modified. Render functions call this to default missing fields.
func Resolve(s *schema.Type, props document.Props) document.Props {
	out := document.Props(s.Defaults())
	for k, v := range props {
		out[k] = util.CopyValue(v)
	}
	return out
}
