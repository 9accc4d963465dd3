package schema

import (
	"fmt"
	"slices"

	"github.com/gnana997/promokit/pkg/util"
)

// Issue is a single way a value departs from its schema.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// Check compares props against an object schema and returns every mismatch.
// Keys that the schema does not declare are ignored.
func Check(t *Type, props map[string]any) []Issue {
	var issues []Issue
	checkObject("", Unwrap(t), props, &issues)
	return issues
}

func checkObject(prefix string, obj *Type, props map[string]any, issues *[]Issue) {
	for _, f := range obj.Fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}
		v, present := props[f.Name]
		checkValue(path, f.Type, v, present, issues)
	}
}

func checkValue(path string, t *Type, v any, present bool, issues *[]Issue) {
	if !present {
		if !IsOptional(t) {
			*issues = append(*issues, Issue{Path: path, Message: "required value is missing"})
		}
		return
	}
	if v == nil {
		if !acceptsNull(t) {
			*issues = append(*issues, Issue{Path: path, Message: "value is null"})
		}
		return
	}

	base := Unwrap(t)
	switch base.Kind {
	case KindString:
		if _, ok := v.(string); !ok {
			*issues = append(*issues, mismatch(path, "string", v))
		}
	case KindNumber:
		n, ok := util.ToFloat(v)
		if !ok {
			*issues = append(*issues, mismatch(path, "number", v))
			return
		}
		if base.MinValue != nil && n < *base.MinValue {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("%v is below minimum %v", n, *base.MinValue)})
		}
		if base.MaxValue != nil && n > *base.MaxValue {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("%v is above maximum %v", n, *base.MaxValue)})
		}
	case KindBoolean:
		if _, ok := v.(bool); !ok {
			*issues = append(*issues, mismatch(path, "boolean", v))
		}
	case KindEnum:
		s, ok := v.(string)
		if !ok {
			*issues = append(*issues, mismatch(path, "enum string", v))
			return
		}
		if allowed := Values(base); !slices.Contains(allowed, s) {
			*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf("%q is not one of %v", s, allowed)})
		}
	case KindArray:
		items, ok := util.AsSlice(v)
		if !ok {
			*issues = append(*issues, mismatch(path, "array", v))
			return
		}
		for i, item := range items {
			checkValue(fmt.Sprintf("%s[%d]", path, i), base.Elem, item, true, issues)
		}
	case KindObject:
		m, ok := util.AsMap(v)
		if !ok {
			*issues = append(*issues, mismatch(path, "object", v))
			return
		}
		checkObject(path, base, m, issues)
	}
	// KindUnknown accepts anything.
}

func acceptsNull(t *Type) bool {
	for t != nil && t.Kind.IsWrapper() {
		if t.Kind == KindNullable {
			return true
		}
		t = t.Inner
	}
	return false
}

func mismatch(path, want string, got any) Issue {
	return Issue{Path: path, Message: fmt.Sprintf("expected %s, got %T", want, got)}
}

// Check is the method form of the package-level Check.
func (t *Type) Check(props map[string]any) []Issue {
	return Check(t, props)
}
