package preview

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/net/html"

	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/markup"
	"github.com/gnana997/promokit/pkg/pagestore"
	"github.com/gnana997/promokit/pkg/propedit"
)

// maxFormBytes caps a form submission body.
const maxFormBytes = 64 << 10

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"components": s.reg.Len(),
		"cache":      s.gen.Stats(),
	})
}

func (s *Server) componentsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.query.Catalog.Components)
}

func (s *Server) listPagesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.pages.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	if list == nil {
		list = []pagestore.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getPageHandler(w http.ResponseWriter, r *http.Request) {
	if p := s.loadPage(w, r); p != nil {
		writeJSON(w, http.StatusOK, p)
	}
}

// instance resolves the {id} route variable within p.
func (s *Server) instance(w http.ResponseWriter, r *http.Request, p *pagestore.Page) (document.Instance, []propedit.Field, bool) {
	id := mux.Vars(r)["id"]
	inst, ok := p.Document.Find(id)
	if !ok {
		writeError(w, http.StatusNotFound, "component_not_found", "no component "+id+" on page "+p.Slug)
		return inst, nil, false
	}
	def, ok := s.reg.Get(inst.Type)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "unknown_component", "component type "+inst.Type+" is not registered")
		return inst, nil, false
	}
	return inst, propedit.Fields(def, inst), true
}

func (s *Server) fieldsHandler(w http.ResponseWriter, r *http.Request) {
	p := s.loadPage(w, r)
	if p == nil {
		return
	}
	inst, fields, ok := s.instance(w, r, p)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     inst.ID,
		"type":   inst.Type,
		"fields": fields,
	})
}

func (s *Server) panelHandler(w http.ResponseWriter, r *http.Request) {
	p := s.loadPage(w, r)
	if p == nil {
		return
	}
	if _, fields, ok := s.instance(w, r, p); ok {
		writeHTML(w, markup.String(propedit.Panel(fields)))
	}
}

func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	p := s.loadPage(w, r)
	if p == nil {
		return
	}
	out, err := s.gen.GeneratePage(p)
	if err != nil {
		s.logger.Error("generate page", "slug", p.Slug, "error", err)
		writeError(w, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	writeHTML(w, out)
}

// formHandler accepts submissions from previewed pages. Nothing is stored;
// the field names are logged so the form wiring can be checked locally.
func (s *Server) formHandler(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes)).Decode(&data); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "message": "invalid form body"})
		return
	}
	s.logger.Info("form submission", "page_id", mux.Vars(r)["page_id"], "fields", sortedKeys(data))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// indexHandler lists saved pages with links to their previews.
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.pages.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	items := markup.El("ul", nil)
	for _, p := range list {
		items.AppendChild(markup.El("li", nil,
			markup.El("a", markup.Attrs("href", "/p/"+p.Slug), markup.Text(p.Title)),
			markup.Text(" ("+p.Slug+")"),
		))
	}
	var body *html.Node
	if len(list) == 0 {
		body = markup.El("p", nil, markup.Text("No pages yet."))
	} else {
		body = items
	}
	writeHTML(w, markup.String([]*html.Node{
		markup.El("h1", nil, markup.Text("Pages")),
		body,
	}))
}
