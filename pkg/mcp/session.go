package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/editor"
	"github.com/gnana997/promokit/pkg/pagestore"
	"github.com/gnana997/promokit/pkg/pagetemplate"
	"github.com/gnana997/promokit/pkg/propedit"
	"github.com/gnana997/promokit/pkg/validator"
)

// pageState is the agent's view of the session.
type pageState struct {
	ID        string            `json:"id"`
	Slug      string            `json:"slug"`
	Title     string            `json:"title"`
	Dirty     bool              `json:"dirty"`
	Selected  string            `json:"selected,omitempty"`
	UndoDepth int               `json:"undo_depth"`
	RedoDepth int               `json:"redo_depth"`
	History   []string          `json:"history,omitempty"`
	Document  document.Document `json:"document"`
}

type historyState struct {
	Applied   bool   `json:"applied"`
	UndoDepth int    `json:"undo_depth"`
	RedoDepth int    `json:"redo_depth"`
	Selected  string `json:"selected,omitempty"`
}

type savedPage struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
	Summary   string    `json:"summary"`

	Built      string `json:"built,omitempty"`
	BuildError string `json:"build_error,omitempty"`
}

func stateOf(p pagestore.Page, ed *editor.Store) pageState {
	return pageState{
		ID:        p.ID,
		Slug:      p.Slug,
		Title:     p.Title,
		Dirty:     ed.Dirty(),
		Selected:  ed.SelectedID(),
		UndoDepth: ed.UndoDepth(),
		RedoDepth: ed.RedoDepth(),
		History:   ed.History(),
		Document:  ed.Document(),
	}
}

// --- pages ---

func (s *Server) handleListPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.pages == nil {
		return errorResult("no page directory configured")
	}
	list, err := s.pages.List()
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []pagestore.Summary{}
	}
	return jsonResult(list)
}

func (s *Server) handleNewPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	if err := s.replaceable(boolArg(args, "discard")); err != nil {
		return errorResult("%v", err)
	}

	slug := stringArg(args, "slug")
	if slug != "" && s.pages != nil && s.pages.Exists(slug) {
		return errorResult("page %s already exists (use open_page)", slug)
	}

	doc := document.New()
	if id := stringArg(args, "template"); id != "" && id != pagetemplate.Blank {
		if s.templates == nil {
			return errorResult("unknown template %q (see list_templates)", id)
		}
		var err error
		if doc, err = s.templates.Instantiate(id); err != nil {
			return errorResult("unknown template %q (see list_templates)", id)
		}
	}

	p, err := pagestore.NewPage(slug, stringArg(args, "title"), doc)
	if err != nil {
		return errorResult("%v", err)
	}
	ed := s.open(p)
	return jsonResult(stateOf(*p, ed))
}

func (s *Server) handleOpenPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.pages == nil {
		return errorResult("no page directory configured")
	}
	args := req.GetArguments()
	slug := stringArg(args, "slug")
	if slug == "" {
		return errorResult("slug is required")
	}
	if err := s.replaceable(boolArg(args, "discard")); err != nil {
		return errorResult("%v", err)
	}

	p, err := s.pages.Load(slug)
	switch {
	case errors.Is(err, pagestore.ErrNotFound), errors.Is(err, pagestore.ErrInvalidSlug):
		return errorResult("%v", err)
	case err != nil:
		return nil, err
	}
	ed := s.open(p)
	return jsonResult(stateOf(*p, ed))
}

func (s *Server) handleSavePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.pages == nil {
		return errorResult("no page directory configured")
	}
	p, ed, err := s.session()
	if err != nil {
		return errorResult("%v", err)
	}

	args := req.GetArguments()
	if v := stringArg(args, "title"); v != "" {
		p.Title = v
	}
	if v := stringArg(args, "seo_title"); v != "" {
		p.SEOTitle = v
	}
	if v := stringArg(args, "seo_description"); v != "" {
		p.SEODescription = v
	}
	if v := stringArg(args, "seo_og_image"); v != "" {
		p.SEOOGImage = v
	}
	p.Document = ed.Document()

	if err := s.pages.Save(&p); err != nil {
		return errorResult("save %s: %v", p.Slug, err)
	}
	// Only clear the dirty flag if no edit slipped in while writing.
	if document.Equal(ed.Document(), p.Document) {
		ed.MarkSaved()
	}
	s.mu.Lock()
	if s.editor == ed {
		meta := p
		s.page = &meta
	}
	s.mu.Unlock()

	res := s.validator.ValidateDocument(p.Document, false)
	out := savedPage{ID: p.ID, Slug: p.Slug, Title: p.Title, UpdatedAt: p.UpdatedAt, Summary: res.Summary}
	if boolArg(args, "build") {
		switch {
		case s.gen == nil || s.outDir == "":
			out.BuildError = "publishing is not configured"
		default:
			br := s.gen.Build(&p, s.outDir)
			if br.Err != nil {
				out.BuildError = br.Err.Error()
			}
			out.Built = br.Path
		}
	}
	s.logger.Info("page saved", "slug", p.Slug, "built", out.Built != "")
	return jsonResult(out)
}

// --- editing ---

func (s *Server) handleGetDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, ed, err := s.session()
	if err != nil {
		return errorResult("%v", err)
	}
	return jsonResult(stateOf(p, ed))
}

func (s *Server) handleAddComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, ed, err := s.session()
	if err != nil {
		return errorResult("%v", err)
	}
	args := req.GetArguments()
	typ := stringArg(args, "type")
	inst, ok := s.reg.NewInstance(typ)
	if !ok {
		return errorResult("unknown component type %q (see list_components)", typ)
	}
	index, set, err := intArg(args, "index")
	if err != nil {
		return errorResult("%v", err)
	}
	if !set {
		index = editor.End
	}
	props, err := objectArg(args, "props")
	if err != nil {
		return errorResult("%v", err)
	}
	if len(props) > 0 {
		inst.Props = inst.Props.Merge(props)
	}

	id := ed.AddComponent(inst, index)
	doc := ed.Document()
	return jsonResult(map[string]any{
		"id":         id,
		"index":      doc.Index(id),
		"components": doc.Len(),
	})
}

func (s *Server) handleRemoveComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, ed, err := s.session()
	if err != nil {
		return errorResult("%v", err)
	}
	id := stringArg(req.GetArguments(), "id")
	if !ed.RemoveComponent(id) {
		return errorResult("no component with id %q", id)
	}
	return jsonResult(map[string]any{"removed": id, "components": ed.Document().Len()})
}

func (s *Server) handleMoveComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, ed, err := s.session()
	if err != nil {
		return errorResult("%v", err)
	}
	args := req.GetArguments()
	from, okFrom, errFrom := intArg(args, "from")
	to, okTo, errTo := intArg(args, "to")
	if err := errors.Join(errFrom, errTo); err != nil {
		return errorResult("%v", err)
	}
	if !okFrom || !okTo {
		return errorResult("from and to are required")
	}
	if err := ed.MoveComponent(from, to); err != nil {
		return errorResult("%v", err)
	}
	doc := ed.Document()
	order := make([]string, len(doc.Components))
	for i, in := range doc.Components {
		order[i] = in.ID
	}
	return jsonResult(map[string]any{"order": order})
}

func (s *Server) handleUpdateProps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, ed, err := s.session()
	if err != nil {
		return errorResult("%v", err)
	}
	args := req.GetArguments()
	id := stringArg(args, "id")
	patch, err := objectArg(args, "props")
	if err != nil {
		return errorResult("%v", err)
	}
	if len(patch) == 0 {
		return errorResult("props is required")
	}
	if !ed.UpdateProps(id, patch) {
		return errorResult("no component with id %q", id)
	}

	doc := ed.Document()
	i := doc.Index(id)
	if i < 0 {
		return errorResult("component %q was removed concurrently", id)
	}
	inst := doc.Components[i]
	res := s.validator.ValidateDocument(document.Document{
		Version:    document.CurrentVersion,
		Components: []document.Instance{inst},
	}, false)
	violations := make([]validator.Violation, len(res.Violations))
	for j, v := range res.Violations {
		v.Index = i
		violations[j] = v
	}
	return jsonResult(map[string]any{
		"id":         id,
		"props":      inst.Props,
		"violations": violations,
	})
}

func (s *Server) handleSelectComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, ed, err := s.session()
	if err != nil {
		return errorResult("%v", err)
	}
	id := stringArg(req.GetArguments(), "id")
	if !ed.SelectComponent(id) {
		return errorResult("no component with id %q", id)
	}
	return jsonResult(map[string]any{"selected": ed.SelectedID()})
}

func (s *Server) handleGetPropertyFields(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, ed, err := s.session()
	if err != nil {
		return errorResult("%v", err)
	}
	id := stringArg(req.GetArguments(), "id")
	if id == "" {
		id = ed.SelectedID()
	}
	if id == "" {
		return errorResult("id is required when nothing is selected")
	}
	inst, ok := ed.Instance(id)
	if !ok {
		return errorResult("no component with id %q", id)
	}
	def, ok := s.reg.Get(inst.Type)
	if !ok {
		return errorResult("component %s has unregistered type %q", id, inst.Type)
	}
	return jsonResult(map[string]any{
		"id":     id,
		"type":   inst.Type,
		"fields": propedit.Fields(def, inst),
	})
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, ed, err := s.session()
	if err != nil {
		return errorResult("%v", err)
	}
	applied := ed.Undo()
	return jsonResult(historyState{Applied: applied, UndoDepth: ed.UndoDepth(), RedoDepth: ed.RedoDepth(), Selected: ed.SelectedID()})
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, ed, err := s.session()
	if err != nil {
		return errorResult("%v", err)
	}
	applied := ed.Redo()
	return jsonResult(historyState{Applied: applied, UndoDepth: ed.UndoDepth(), RedoDepth: ed.RedoDepth(), Selected: ed.SelectedID()})
}

// --- property editor ---

// fieldSession binds a property editor session to the component named by
// the id argument, or to the selection when id is omitted.
func (s *Server) fieldSession(args map[string]any) (*propedit.Session, error) {
	_, ed, err := s.session()
	if err != nil {
		return nil, err
	}
	id := stringArg(args, "id")
	if id == "" {
		id = ed.SelectedID()
	}
	if id == "" {
		return nil, errors.New("id is required when nothing is selected")
	}
	return propedit.NewSession(ed, s.reg, id, s.uploader)
}

// fieldsResult reports the session's controls after an edit.
func fieldsResult(ps *propedit.Session, extra map[string]any) (*mcp.CallToolResult, error) {
	fields, err := ps.Fields()
	if err != nil {
		return errorResult("%v", err)
	}
	out := map[string]any{
		"id":     ps.ID(),
		"type":   ps.Definition().Type,
		"fields": fields,
	}
	for k, v := range extra {
		out[k] = v
	}
	return jsonResult(out)
}

func (s *Server) handleSetField(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	ps, err := s.fieldSession(args)
	if err != nil {
		return errorResult("%v", err)
	}
	path := stringArg(args, "path")
	if path == "" {
		return errorResult("path is required")
	}
	value, _ := args["value"].(string)
	if err := ps.SetPath(path, value); err != nil {
		return errorResult("%v", err)
	}
	return fieldsResult(ps, nil)
}

func (s *Server) handleAddListItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	ps, err := s.fieldSession(args)
	if err != nil {
		return errorResult("%v", err)
	}
	index, err := ps.AddItem(stringArg(args, "field"))
	if err != nil {
		return errorResult("%v", err)
	}
	return fieldsResult(ps, map[string]any{"index": index})
}

func (s *Server) handleRemoveListItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	ps, err := s.fieldSession(args)
	if err != nil {
		return errorResult("%v", err)
	}
	index, set, err := intArg(args, "index")
	if err != nil {
		return errorResult("%v", err)
	}
	if !set {
		return errorResult("index is required")
	}
	if err := ps.RemoveItem(stringArg(args, "field"), index); err != nil {
		return errorResult("%v", err)
	}
	return fieldsResult(ps, nil)
}

func (s *Server) handleUploadImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.uploader == nil {
		return errorResult("uploads are not configured")
	}
	args := req.GetArguments()
	ps, err := s.fieldSession(args)
	if err != nil {
		return errorResult("%v", err)
	}
	data, err := base64.StdEncoding.DecodeString(stringArg(args, "data"))
	if err != nil {
		return errorResult("data must be base64: %v", err)
	}
	filename := stringArg(args, "filename")
	if filename == "" {
		filename = "image"
	}
	url, err := ps.Upload(ctx, stringArg(args, "path"), filename, bytes.NewReader(data))
	if err != nil {
		return errorResult("%v", err)
	}
	return fieldsResult(ps, map[string]any{"url": url})
}
