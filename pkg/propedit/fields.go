// Package propedit derives an editable form from a component schema.
//
// Fields walks the definition's object schema and picks one control per
// field from the unwrapped kind. String fields are further specialised by the
// display hint declared in the schema, so a new component needs only a schema
// to get a working property panel. A malformed or novel schema entry falls
// back to a plain text control; the panel never refuses to show a field.
package propedit

import (
	"encoding/json"
	"fmt"

	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/schema"
	"github.com/gnana997/promokit/pkg/util"
)

// Control names the widget used for a field.
type Control string

const (
	ControlText     Control = "text"
	ControlTextarea Control = "textarea"
	ControlColor    Control = "color"
	ControlImage    Control = "image"
	ControlDatetime Control = "datetime"
	ControlRange    Control = "range"
	ControlToggle   Control = "toggle"
	ControlSelect   Control = "select"
	ControlList     Control = "list"
)

// Range used for numbers whose schema declares no bounds.
const (
	FallbackMin = 0
	FallbackMax = 999
)

// DefaultColor is shown by a color control whose value is unset.
const DefaultColor = "#000000"

// Field is one synthesized control with its current value.
type Field struct {
	Name        string  `json:"name"`
	Label       string  `json:"label"`
	Description string  `json:"description,omitempty"`
	Control     Control `json:"control"`
	Value       any     `json:"value"`
	Optional    bool    `json:"optional,omitempty"`

	// range
	Min float64 `json:"min,omitempty"`
	Max float64 `json:"max,omitempty"`

	// select
	Options []schema.Option `json:"options,omitempty"`

	// list
	Items    []Item `json:"items,omitempty"`
	Template any    `json:"template,omitempty"`
}

// Item is one element of a list field. Object elements expose one sub-field
// per key; primitive elements expose a single sub-field with an empty name.
type Item struct {
	Index  int     `json:"index"`
	Fields []Field `json:"fields"`
}

// Fields builds the controls for inst from def's schema, in schema order.
func Fields(def *component.Definition, inst document.Instance) []Field {
	if def == nil {
		return nil
	}
	return objectFields(def.Schema, inst.Props)
}

func objectFields(s *schema.Type, props map[string]any) []Field {
	obj := schema.Unwrap(s)
	out := make([]Field, 0, len(obj.Fields))
	for _, f := range obj.Fields {
		v, present := props[f.Name]
		out = append(out, build(f, v, present))
	}
	return out
}

func build(f schema.Field, v any, present bool) Field {
	base := schema.Unwrap(f.Type)
	label := f.Label
	if label == "" {
		label = f.Name
	}
	field := Field{
		Name:        f.Name,
		Label:       label,
		Description: f.Description,
		Optional:    schema.IsOptional(f.Type),
	}

	switch base.Kind {
	case schema.KindArray:
		field.Control = ControlList
		field.Template = itemTemplate(base)
		items, _ := util.AsSlice(v)
		field.Value = util.CopyValue(items)
		field.Items = make([]Item, len(items))
		for i, item := range items {
			field.Items[i] = Item{Index: i, Fields: elemFields(base.Elem, item)}
		}

	case schema.KindEnum:
		field.Control = ControlSelect
		field.Options = base.Options
		field.Value = stringOr(v, "")

	case schema.KindBoolean:
		field.Control = ControlToggle
		b, _ := v.(bool)
		field.Value = b

	case schema.KindNumber:
		field.Control = ControlRange
		field.Min, field.Max = schema.Bounds(base, FallbackMin, FallbackMax)
		n, ok := util.ToFloat(v)
		if !present || !ok {
			n = field.Min
		}
		field.Value = n

	case schema.KindString:
		switch base.DisplayHint {
		case schema.HintColor:
			field.Control = ControlColor
			field.Value = stringOr(v, DefaultColor)
		case schema.HintImageURL:
			field.Control = ControlImage
			field.Value = stringOr(v, "")
		case schema.HintDatetime:
			field.Control = ControlDatetime
			field.Value = stringOr(v, "")
		case schema.HintMultiline:
			field.Control = ControlTextarea
			field.Value = stringOr(v, "")
		default:
			field.Control = ControlText
			field.Value = stringOr(v, "")
		}

	default:
		// Objects outside arrays and unknown kinds are edited as raw text.
		field.Control = ControlText
		field.Value = rawText(v)
	}
	return field
}

// elemFields returns the sub-fields of one list element.
func elemFields(elem *schema.Type, item any) []Field {
	if schema.Base(elem) == schema.KindObject {
		m, _ := util.AsMap(item)
		return objectFields(elem, m)
	}
	return []Field{build(schema.Field{Type: elem}, item, item != nil)}
}

// itemTemplate returns a fresh copy of the value appended by "add". Arrays
// that declare no template get the element's schema defaults for objects and
// an empty string for anything else.
func itemTemplate(arr *schema.Type) any {
	if arr.ItemTemplate != nil {
		return util.CopyValue(arr.ItemTemplate)
	}
	if schema.Base(arr.Elem) == schema.KindObject {
		return arr.Elem.Defaults()
	}
	return ""
}

// rawText renders a value of an unrecognized shape for a text input.
func rawText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	if n, ok := util.ToFloat(v); ok {
		return util.FormatNumber(n)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func stringOr(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

// Find returns the field with name.
func Find(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
