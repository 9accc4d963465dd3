// Package schema describes the shape of a component's property bag.
//
// A schema is a tree of Type nodes. Wrapper nodes (optional, nullable,
// default) carry no meaning for the editor and are peeled away by Unwrap to
// find the base kind that decides which control to show. Display hints and
// array item templates are declared on the node itself, so the editor never
// has to guess from field names.
//
// Schemas describe; they do not guard writes. Property patches are trusted and
// Check only reports how far a property bag strays from its schema.
package schema

import (
	"github.com/gnana997/promokit/pkg/util"
)

// Kind identifies a schema node.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindEnum    Kind = "enum"
	KindArray   Kind = "array"
	KindObject  Kind = "object"

	// Wrapper kinds. They always have an Inner node.
	KindOptional Kind = "optional"
	KindNullable Kind = "nullable"
	KindDefault  Kind = "default"

	KindUnknown Kind = "unknown"
)

// IsWrapper reports whether k only annotates an inner node.
func (k Kind) IsWrapper() bool {
	return k == KindOptional || k == KindNullable || k == KindDefault
}

// Hint tells the property editor how to present a string field.
type Hint string

const (
	HintPlain     Hint = "plain"
	HintColor     Hint = "color"
	HintImageURL  Hint = "imageUrl"
	HintDatetime  Hint = "datetime"
	HintMultiline Hint = "multiline"
)

// Option is one member of an enumerated value set.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// Type is a single schema node.
type Type struct {
	Kind  Kind  `json:"kind"`
	Inner *Type `json:"inner,omitempty"`

	// Value is the default carried by a KindDefault wrapper.
	Value any `json:"default,omitempty"`

	MinValue *float64 `json:"min,omitempty"`
	MaxValue *float64 `json:"max,omitempty"`
	Options  []Option `json:"options,omitempty"`
	Elem     *Type    `json:"elem,omitempty"`
	Fields   []Field  `json:"fields,omitempty"`

	DisplayHint  Hint `json:"hint,omitempty"`
	ItemTemplate any  `json:"template,omitempty"`
}

// Field is a named member of an object schema.
type Field struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	Type        *Type  `json:"type"`
}

// --- Builders ---

// String declares a plain string.
func String() *Type { return &Type{Kind: KindString, DisplayHint: HintPlain} }

// Color declares a string edited with a color picker.
func Color() *Type { return &Type{Kind: KindString, DisplayHint: HintColor} }

// ImageURL declares a string holding an image URL.
func ImageURL() *Type { return &Type{Kind: KindString, DisplayHint: HintImageURL} }

// Datetime declares a string holding a local ISO-8601 date-time.
func Datetime() *Type { return &Type{Kind: KindString, DisplayHint: HintDatetime} }

// Multiline declares a string edited as a text area.
func Multiline() *Type { return &Type{Kind: KindString, DisplayHint: HintMultiline} }

// Number declares a number. Bounds are added with Min and Max.
func Number() *Type { return &Type{Kind: KindNumber} }

// Bool declares a boolean.
func Bool() *Type { return &Type{Kind: KindBoolean} }

// Enum declares a closed set of string values.
func Enum(values ...string) *Type {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Value: v}
	}
	return &Type{Kind: KindEnum, Options: opts}
}

// EnumOf declares a closed set with display labels.
func EnumOf(opts ...Option) *Type {
	return &Type{Kind: KindEnum, Options: append([]Option(nil), opts...)}
}

// Array declares a list of elem.
func Array(elem *Type) *Type { return &Type{Kind: KindArray, Elem: elem} }

// Object declares an ordered set of fields.
func Object(fields ...Field) *Type {
	return &Type{Kind: KindObject, Fields: append([]Field(nil), fields...)}
}

// F is shorthand for declaring a field.
func F(name, label string, t *Type) Field {
	return Field{Name: name, Label: label, Type: t}
}

// Describe returns a copy of f with a description.
func (f Field) Describe(desc string) Field {
	f.Description = desc
	return f
}

// Optional wraps t so that absence is acceptable.
func (t *Type) Optional() *Type { return &Type{Kind: KindOptional, Inner: t} }

// Nullable wraps t so that null is acceptable.
func (t *Type) Nullable() *Type { return &Type{Kind: KindNullable, Inner: t} }

// Default wraps t with a default value.
func (t *Type) Default(v any) *Type { return &Type{Kind: KindDefault, Inner: t, Value: v} }

// Min sets the lower bound of the underlying number.
func (t *Type) Min(v float64) *Type {
	Unwrap(t).MinValue = &v
	return t
}

// Max sets the upper bound of the underlying number.
func (t *Type) Max(v float64) *Type {
	Unwrap(t).MaxValue = &v
	return t
}

// Hint overrides the display hint of the underlying node.
func (t *Type) Hint(h Hint) *Type {
	Unwrap(t).DisplayHint = h
	return t
}

// Template sets the value appended when the editor adds an array element.
func (t *Type) Template(v any) *Type {
	Unwrap(t).ItemTemplate = v
	return t
}

// --- Introspection ---

// Unwrap peels wrapper nodes and returns the base node. A nil or malformed
// node unwraps to a KindUnknown node, never nil.
func Unwrap(t *Type) *Type {
	for t != nil && t.Kind.IsWrapper() {
		t = t.Inner
	}
	if t == nil || t.Kind == "" {
		return &Type{Kind: KindUnknown}
	}
	return t
}

// Base returns the unwrapped kind of t.
func Base(t *Type) Kind {
	return Unwrap(t).Kind
}

// IsOptional reports whether a missing value satisfies t, either because it is
// explicitly optional/nullable or because a default fills it.
func IsOptional(t *Type) bool {
	return t != nil && t.Kind.IsWrapper()
}

// DefaultValue returns a copy of the outermost default declared on t.
func DefaultValue(t *Type) (any, bool) {
	for t != nil && t.Kind.IsWrapper() {
		if t.Kind == KindDefault {
			return util.CopyValue(t.Value), true
		}
		t = t.Inner
	}
	return nil, false
}

// Bounds returns the numeric bounds of t, falling back to the given range for
// each side the schema leaves open. An open side that would cross the declared
// one is moved past it by the width of the fallback range, so hi >= lo always.
func Bounds(t *Type, fallbackMin, fallbackMax float64) (float64, float64) {
	base := Unwrap(t)
	lo, hi := fallbackMin, fallbackMax
	width := max(fallbackMax-fallbackMin, 0)
	if base.MinValue != nil {
		lo = *base.MinValue
	}
	if base.MaxValue != nil {
		hi = *base.MaxValue
	}
	if hi < lo {
		switch {
		case base.MaxValue == nil:
			hi = lo + width
		case base.MinValue == nil:
			lo = hi - width
		default:
			hi = lo
		}
	}
	return lo, hi
}

// Values returns the enumerated values of t in declaration order.
func Values(t *Type) []string {
	opts := Unwrap(t).Options
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}

// Lookup finds a field of an object schema by name.
func (t *Type) Lookup(name string) (Field, bool) {
	for _, f := range Unwrap(t).Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults builds a property bag holding every declared default of an object
// schema. Fields without a default are left out.
func (t *Type) Defaults() map[string]any {
	out := make(map[string]any)
	for _, f := range Unwrap(t).Fields {
		if v, ok := DefaultValue(f.Type); ok {
			out[f.Name] = v
		}
	}
	return out
}
