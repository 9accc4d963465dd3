// Package catalog exposes the component registry as plain, serializable
// descriptions for agents, the preview API and the CLI.
package catalog

import (
	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/schema"
	"github.com/gnana997/promokit/pkg/util"
)

// Catalog is a snapshot of every registered component.
type Catalog struct {
	Components []Component `json:"components"`
	Categories []Category  `json:"categories"`
}

// CatalogIndex provides O(1) lookups into the catalog.
type CatalogIndex struct {
	// ComponentByType maps type name -> *Component.
	ComponentByType map[string]*Component

	// ComponentsByCategory maps category name -> []*Component.
	ComponentsByCategory map[string][]*Component
}

// Build snapshots reg. Categories follow palette order and only non-empty
// ones are listed.
func Build(reg *component.Registry) *Catalog {
	cat := &Catalog{}
	for _, def := range reg.List() {
		cat.Components = append(cat.Components, Describe(def))
	}
	for _, g := range reg.Palette() {
		c := Category{Name: string(g.Category)}
		for _, d := range g.Definitions {
			c.Components = append(c.Components, d.Type)
		}
		cat.Categories = append(cat.Categories, c)
	}
	return cat
}

// Describe converts a definition into its catalog form.
func Describe(def *component.Definition) Component {
	return Component{
		Type:         def.Type,
		Name:         def.DisplayName,
		Icon:         def.Icon,
		Category:     string(def.Category),
		Props:        describeFields(schema.Unwrap(def.Schema).Fields),
		DefaultProps: util.CopyMap(def.DefaultProps),
	}
}

func describeFields(fields []schema.Field) []Prop {
	out := make([]Prop, 0, len(fields))
	for _, f := range fields {
		out = append(out, describeField(f))
	}
	return out
}

func describeField(f schema.Field) Prop {
	base := schema.Unwrap(f.Type)
	p := Prop{
		Name:        f.Name,
		Label:       f.Label,
		Type:        string(base.Kind),
		Required:    !schema.IsOptional(f.Type),
		Description: f.Description,
		Min:         base.MinValue,
		Max:         base.MaxValue,
	}
	if base.Kind == schema.KindString && base.DisplayHint != schema.HintPlain {
		p.Hint = string(base.DisplayHint)
	}
	if v, ok := schema.DefaultValue(f.Type); ok {
		p.Default = v
	}
	switch base.Kind {
	case schema.KindEnum:
		p.AllowedValues = schema.Values(base)
	case schema.KindObject:
		p.Fields = describeFields(base.Fields)
	case schema.KindArray:
		elem := schema.Unwrap(base.Elem)
		p.ItemType = string(elem.Kind)
		if elem.Kind == schema.KindObject {
			p.Fields = describeFields(elem.Fields)
		}
	}
	return p
}

// BuildIndex creates lookup maps for fast access.
func (c *Catalog) BuildIndex() *CatalogIndex {
	idx := &CatalogIndex{
		ComponentByType:      make(map[string]*Component, len(c.Components)),
		ComponentsByCategory: make(map[string][]*Component),
	}
	for i := range c.Components {
		comp := &c.Components[i]
		idx.ComponentByType[comp.Type] = comp
		idx.ComponentsByCategory[comp.Category] = append(idx.ComponentsByCategory[comp.Category], comp)
	}
	return idx
}
