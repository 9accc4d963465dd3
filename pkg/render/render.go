// Package render turns a document into markup by delegating each instance to
// its registered definition.
package render

import (
	"bytes"
	"io"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/markup"
)

// Renderer renders documents against a registry. It holds no per-document
// state, so one Renderer serves the live preview and static generation alike.
type Renderer struct {
	reg    *component.Registry
	logger *slog.Logger
}

// New creates a renderer. A nil logger falls back to slog.Default().
func New(reg *component.Registry, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{reg: reg, logger: logger}
}

// RenderNodes renders every instance in document order. Instances whose type
// is not registered produce nothing; they stay in the document untouched.
// Props are handed to the render function as stored.
func (r *Renderer) RenderNodes(doc document.Document) []*html.Node {
	var out []*html.Node
	for _, inst := range doc.Components {
		def, ok := r.reg.Get(inst.Type)
		if !ok {
			r.logger.Debug("skipping unregistered component", "id", inst.ID, "type", inst.Type)
			continue
		}
		props := inst.Props
		if props == nil {
			props = document.Props{}
		}
		out = append(out, def.Render(props)...)
	}
	return out
}

// WriteTo serializes the rendered document to w.
func (r *Renderer) WriteTo(w io.Writer, doc document.Document) error {
	return markup.Write(w, r.RenderNodes(doc))
}

// Render returns the rendered document as a string.
func (r *Renderer) Render(doc document.Document) string {
	var buf bytes.Buffer
	// bytes.Buffer never fails.
	_ = r.WriteTo(&buf, doc)
	return buf.String()
}

// RenderInstance renders a single instance, reporting false for an
// unregistered type.
func (r *Renderer) RenderInstance(inst document.Instance) (string, bool) {
	def, ok := r.reg.Get(inst.Type)
	if !ok {
		return "", false
	}
	props := inst.Props
	if props == nil {
		props = document.Props{}
	}
	return markup.String(def.Render(props)), true
}
