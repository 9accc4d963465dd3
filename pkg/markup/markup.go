// Package markup builds HTML node trees on top of golang.org/x/net/html.
//
// Component render functions return []*html.Node rather than strings so that
// escaping is handled in exactly one place (html.Render) and so that the same
// output can be serialized for the live preview and for static generation.
package markup

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gnana997/promokit/pkg/util"
)

// Attr builds a single attribute.
func Attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// Attrs builds an attribute list from key/value pairs. Pairs whose value is
// empty are dropped, except for keys listed with a trailing "!" which are
// always kept (used for valueless markers such as "data-promo-form!").
func Attrs(kv ...string) []html.Attribute {
	out := make([]html.Attribute, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, val := kv[i], kv[i+1]
		if strings.HasSuffix(key, "!") {
			out = append(out, Attr(strings.TrimSuffix(key, "!"), val))
			continue
		}
		if val == "" {
			continue
		}
		out = append(out, Attr(key, val))
	}
	return out
}

// El creates an element node and appends the non-nil children.
func El(tag string, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
	for _, c := range children {
		if c == nil {
			continue
		}
		n.AppendChild(c)
	}
	return n
}

// Text creates a text node. Escaping happens at render time.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// CSS joins property/value pairs into an inline style declaration, keeping
// the given order. Pairs with an empty value are skipped.
func CSS(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(';')
		}
		b.WriteString(pairs[i])
		b.WriteByte(':')
		b.WriteString(pairs[i+1])
	}
	return b.String()
}

// Px formats a number as a CSS pixel length.
func Px(n float64) string {
	return Num(n) + "px"
}

// Num formats a number without a trailing ".0".
func Num(n float64) string {
	return util.FormatNumber(n)
}

// Bool formats a boolean the way data attributes are read by client scripts.
func Bool(b bool) string {
	return strconv.FormatBool(b)
}

// Write serializes nodes in order.
func Write(w io.Writer, nodes []*html.Node) error {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := html.Render(w, n); err != nil {
			return err
		}
	}
	return nil
}

// String serializes nodes into a string.
func String(nodes []*html.Node) string {
	var buf bytes.Buffer
	// bytes.Buffer never returns a write error.
	_ = Write(&buf, nodes)
	return buf.String()
}

// Attribute returns the value of key on n and whether it was present.
func Attribute(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
