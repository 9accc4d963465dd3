package preview

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"

	"github.com/gnana997/promokit/pkg/editor"
	"github.com/gnana997/promokit/pkg/propedit"
	"github.com/gnana997/promokit/pkg/upload"
)

// maxEditBytes caps a JSON or form edit body.
const maxEditBytes = 256 << 10

// fieldEdit is the JSON body of POST /api/pages/{slug}/fields/{id}.
//
//	{"op": "set", "path": "images.0.alt", "value": "Summer"}
//	{"op": "add", "path": "images"}
//	{"op": "remove", "path": "images", "index": 2}
type fieldEdit struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value string `json:"value"`
	Index *int   `json:"index"`
}

// editResponse reports the instance's controls after an edit.
type editResponse struct {
	ID     string           `json:"id"`
	Type   string           `json:"type"`
	Fields []propedit.Field `json:"fields"`
	Index  *int             `json:"index,omitempty"`
	URL    string           `json:"url,omitempty"`
}

// editFields runs fn against a property editor session over the stored page
// and saves the page when fn changed it.
func (s *Server) editFields(w http.ResponseWriter, r *http.Request, fn func(ps *propedit.Session, resp *editResponse) error) {
	p := s.loadPage(w, r)
	if p == nil {
		return
	}
	ed := editor.New(p.Document, editor.WithLogger(s.logger))
	ps, err := propedit.NewSession(ed, s.reg, mux.Vars(r)["id"], s.uploader())
	if err != nil {
		writeEditError(w, err)
		return
	}

	resp := editResponse{ID: ps.ID(), Type: ps.Definition().Type}
	if err := fn(ps, &resp); err != nil {
		writeEditError(w, err)
		return
	}
	if ed.Dirty() {
		p.Document = ed.Document()
		if err := s.pages.Save(p); err != nil {
			s.logger.Error("save page", "slug", p.Slug, "error", err)
			writeError(w, http.StatusInternalServerError, "save_failed", err.Error())
			return
		}
		s.logger.Info("page edited", "slug", p.Slug, "id", resp.ID, "history", ed.History())
	}

	if resp.Fields, err = ps.Fields(); err != nil {
		writeEditError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// editFieldHandler applies a JSON edit, or every input of a form post from
// the property panel.
func (s *Server) editFieldHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxEditBytes)
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
			return
		}
		s.editFields(w, r, func(ps *propedit.Session, _ *editResponse) error {
			paths := make([]string, 0, len(r.PostForm))
			for path := range r.PostForm {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			for _, path := range paths {
				if err := ps.SetPath(path, r.PostForm.Get(path)); err != nil {
					return err
				}
			}
			return nil
		})
		return
	}

	var edit fieldEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if edit.Path == "" {
		writeError(w, http.StatusBadRequest, "invalid_edit", "path is required")
		return
	}
	s.editFields(w, r, func(ps *propedit.Session, resp *editResponse) error {
		switch edit.Op {
		case "", "set":
			return ps.SetPath(edit.Path, edit.Value)
		case "add":
			i, err := ps.AddItem(edit.Path)
			resp.Index = &i
			return err
		case "remove":
			if edit.Index == nil {
				return errors.New("index is required")
			}
			return ps.RemoveItem(edit.Path, *edit.Index)
		default:
			return errors.New("unknown op " + edit.Op + " (use set, add or remove)")
		}
	})
}

// uploadHandler stores the multipart "file" part and sets its URL at the
// "path" form value.
func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if s.Uploads == nil {
		writeError(w, http.StatusNotImplemented, "uploads_disabled", "uploads are not configured")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxSize+maxEditBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "no file provided")
		return
	}
	defer file.Close()

	path := r.FormValue("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "invalid_edit", "path is required")
		return
	}
	s.editFields(w, r, func(ps *propedit.Session, resp *editResponse) error {
		url, err := ps.Upload(r.Context(), path, header.Filename, file)
		resp.URL = url
		return err
	})
}

// uploadsHandler serves stored uploads.
func (s *Server) uploadsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Uploads == nil {
			http.NotFound(w, r)
			return
		}
		http.StripPrefix(UploadsPath+"/", http.FileServer(http.Dir(s.Uploads.Dir()))).ServeHTTP(w, r)
	})
}

func (s *Server) uploader() propedit.Uploader {
	if s.Uploads == nil {
		return nil
	}
	return s.Uploads
}

func writeEditError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, propedit.ErrNoInstance):
		writeError(w, http.StatusNotFound, "component_not_found", err.Error())
	case errors.Is(err, propedit.ErrUnknownType):
		writeError(w, http.StatusUnprocessableEntity, "unknown_component", err.Error())
	case errors.Is(err, upload.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", err.Error())
	case errors.Is(err, upload.ErrUnsupported), errors.Is(err, upload.ErrEmpty):
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_file", err.Error())
	default:
		writeError(w, http.StatusBadRequest, "invalid_edit", err.Error())
	}
}
