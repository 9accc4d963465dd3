package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gnana997/promokit/pkg/catalog"
	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/components"
	"github.com/gnana997/promokit/pkg/htmlgen"
	"github.com/gnana997/promokit/pkg/pagestore"
	"github.com/gnana997/promokit/pkg/pagetemplate"
	"github.com/gnana997/promokit/pkg/preview"
	"github.com/gnana997/promokit/pkg/render"
	"github.com/gnana997/promokit/pkg/upload"
	"github.com/gnana997/promokit/pkg/util"
	"github.com/gnana997/promokit/pkg/validator"
)

// app is the wiring shared by every command. The page store and the
// generator are created on first use so catalog-only commands never touch
// the filesystem.
type app struct {
	cfg       Config
	logger    *slog.Logger
	reg       *component.Registry
	query     *catalog.QueryService
	validator *validator.Validator
	templates *pagetemplate.Set

	pages *pagestore.Store
	gen   *htmlgen.Generator
}

// uploads stores images in the configured upload directory, served under
// preview.UploadsPath.
func (a *app) uploads() *upload.Local {
	return upload.NewLocal(a.cfg.uploadDir(), preview.UploadsPath, a.logger)
}

// newApp builds the registry and templates for cfg. Logs go to logOut.
func newApp(cfg Config, logOut io.Writer) (*app, error) {
	logger := util.NewLogger(util.LoggerConfig{
		Level:  util.ParseLogLevel(cfg.LogLevel),
		Format: util.ParseLogFormat(cfg.LogFormat),
		Output: logOut,
	})

	reg := components.NewRegistry()
	tmpls, err := pagetemplate.Builtin()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if err := tmpls.Check(reg); err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		reg:       reg,
		query:     catalog.FromRegistry(reg),
		validator: validator.NewValidator(reg),
		templates: tmpls,
	}, nil
}

// store opens the configured pages directory.
func (a *app) store() (*pagestore.Store, error) {
	if a.pages != nil {
		return a.pages, nil
	}
	s, err := pagestore.Open(a.cfg.PagesDir, a.logger)
	if err != nil {
		return nil, err
	}
	a.pages = s
	return s, nil
}

// generator creates the HTML generator for the configured public URL.
func (a *app) generator() (*htmlgen.Generator, error) {
	if a.gen != nil {
		return a.gen, nil
	}
	g, err := htmlgen.New(render.New(a.reg, a.logger), htmlgen.Options{
		PublicURL: a.cfg.PublicURL,
		Lang:      a.cfg.Lang,
		CacheSize: a.cfg.CacheSize,
	}, a.logger)
	if err != nil {
		return nil, err
	}
	a.gen = g
	return g, nil
}

// loadAll reads every page in the store. Unreadable files are skipped by
// List; pages that vanish between List and Load are reported.
func (a *app) loadAll() ([]*pagestore.Page, error) {
	s, err := a.store()
	if err != nil {
		return nil, err
	}
	summaries, err := s.List()
	if err != nil {
		return nil, err
	}
	pages := make([]*pagestore.Page, 0, len(summaries))
	for _, sum := range summaries {
		p, err := s.Load(sum.Slug)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}
