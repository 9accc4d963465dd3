package document

import (
	"fmt"

	"github.com/gnana997/promokit/pkg/util"
)

// String returns the string at key, or "" when absent or not a string.
func (p Props) String(key string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return ""
}

// Float returns the number at key, or def when absent or not numeric.
func (p Props) Float(key string, def float64) float64 {
	if n, ok := util.ToFloat(p[key]); ok {
		return n
	}
	return def
}

// Bool returns the boolean at key, or def when absent or not a boolean.
func (p Props) Bool(key string, def bool) bool {
	if b, ok := p[key].(bool); ok {
		return b
	}
	return def
}

// Records returns the object elements of the array at key. Non-object
// elements are skipped.
func (p Props) Records(key string) []Props {
	items, _ := util.AsSlice(p[key])
	out := make([]Props, 0, len(items))
	for _, item := range items {
		switch m := item.(type) {
		case map[string]any:
			out = append(out, Props(m))
		case Props:
			out = append(out, m)
		}
	}
	return out
}

// Merge returns a new bag with patch shallow-merged over p.
func (p Props) Merge(patch map[string]any) Props {
	out := make(Props, len(p)+len(patch))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = util.CopyValue(v)
	}
	return out
}

// Text formats the value at key for display, or "" when absent.
func (p Props) Text(key string) string {
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return util.FormatNumber(v)
	default:
		return fmt.Sprint(v)
	}
}
