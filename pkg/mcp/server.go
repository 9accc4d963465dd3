// Package mcp exposes a page editing session to agents over the Model
// Context Protocol. One server edits at most one page at a time.
package mcp

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/promokit/pkg/catalog"
	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/components"
	"github.com/gnana997/promokit/pkg/editor"
	"github.com/gnana997/promokit/pkg/htmlgen"
	"github.com/gnana997/promokit/pkg/mcplog"
	"github.com/gnana997/promokit/pkg/pagestore"
	"github.com/gnana997/promokit/pkg/pagetemplate"
	"github.com/gnana997/promokit/pkg/propedit"
	"github.com/gnana997/promokit/pkg/util"
	"github.com/gnana997/promokit/pkg/validator"
)

// Version is reported to clients during initialization.
var Version = "0.1.0-dev"

var errNoPage = errors.New("no page is open (use new_page or open_page first)")

// Deps wires the server to the rest of the application. Only Registry is
// needed for the catalog tools; the others enable their tools when set.
type Deps struct {
	Registry  *component.Registry
	Query     *catalog.QueryService
	Validator *validator.Validator
	Pages     *pagestore.Store
	Templates *pagetemplate.Set
	Generator *htmlgen.Generator
	// Uploader stores images sent to upload_image.
	Uploader propedit.Uploader

	// OutDir receives published HTML when save_page is asked to build.
	OutDir       string
	HistoryLimit int

	CallLog *mcplog.Logger
	Logger  *slog.Logger
}

// Server holds the MCP server and the current editing session.
type Server struct {
	mcpServer *server.MCPServer

	reg       *component.Registry
	query     *catalog.QueryService
	validator *validator.Validator
	pages     *pagestore.Store
	templates *pagetemplate.Set
	gen       *htmlgen.Generator
	uploader  propedit.Uploader
	outDir    string
	history   int
	callLog   *mcplog.Logger
	logger    *slog.Logger

	mu     sync.Mutex
	page   *pagestore.Page // metadata only; the document lives in editor
	editor *editor.Store
}

// NewServer creates a server from deps. A nil Registry falls back to the
// built-in components.
func NewServer(deps Deps) *Server {
	s := &Server{
		reg:       deps.Registry,
		query:     deps.Query,
		validator: deps.Validator,
		pages:     deps.Pages,
		templates: deps.Templates,
		gen:       deps.Generator,
		uploader:  deps.Uploader,
		outDir:    deps.OutDir,
		history:   deps.HistoryLimit,
		callLog:   deps.CallLog,
		logger:    util.OrDefault(deps.Logger),
	}
	if s.reg == nil {
		s.reg = components.NewRegistry()
	}
	if s.query == nil {
		s.query = catalog.FromRegistry(s.reg)
	}
	if s.validator == nil {
		s.validator = validator.NewValidator(s.reg)
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if s.callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("promokit", Version, opts...)
	s.mcpServer.AddTools(s.tools()...)

	return s
}

// ServeStdio serves MCP on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// --- session ---

// open replaces the session with p. The editor starts clean on p.Document.
func (s *Server) open(p *pagestore.Page) *editor.Store {
	ed := editor.New(p.Document,
		editor.WithHistoryLimit(s.history),
		editor.WithLogger(s.logger),
	)
	meta := *p
	meta.Document = ed.Document()

	s.mu.Lock()
	s.page, s.editor = &meta, ed
	s.mu.Unlock()

	s.logger.Info("page opened", "slug", p.Slug, "components", len(p.Document.Components))
	return ed
}

// session returns a copy of the open page's metadata and its editor.
func (s *Server) session() (pagestore.Page, *editor.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editor == nil {
		return pagestore.Page{}, nil, errNoPage
	}
	return *s.page, s.editor, nil
}

// currentSlug is the slug of the open page, or "".
func (s *Server) currentSlug() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page == nil {
		return ""
	}
	return s.page.Slug
}

// replaceable reports an error when the open session has unsaved changes
// and the caller did not ask to discard them.
func (s *Server) replaceable(discard bool) error {
	p, ed, err := s.session()
	if err != nil || discard || !ed.Dirty() {
		return nil
	}
	return errors.New("page " + p.Slug + " has unsaved changes (save_page first or pass discard=true)")
}
