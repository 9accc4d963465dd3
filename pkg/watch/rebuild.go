package watch

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnana997/promokit/pkg/htmlgen"
	"github.com/gnana997/promokit/pkg/pagestore"
	"github.com/gnana997/promokit/pkg/util"
	"github.com/gnana997/promokit/pkg/validator"
)

// Rebuilder is the Handler used by "promokit watch": it regenerates the
// static HTML of changed pages and deletes the output of removed ones.
type Rebuilder struct {
	store     *pagestore.Store
	gen       *htmlgen.Generator
	validator *validator.Validator
	outDir    string
	logger    *slog.Logger

	// OnBuild, when set, is called after every rebuild attempt.
	OnBuild func(htmlgen.BuildResult)
}

// NewRebuilder creates a Rebuilder writing below outDir.
func NewRebuilder(store *pagestore.Store, gen *htmlgen.Generator, v *validator.Validator, outDir string, logger *slog.Logger) *Rebuilder {
	return &Rebuilder{store: store, gen: gen, validator: v, outDir: outDir, logger: util.OrDefault(logger)}
}

// PageChanged rebuilds slug. Invalid pages are reported and left unbuilt so
// the last good output keeps being served.
func (r *Rebuilder) PageChanged(slug string) {
	res := htmlgen.BuildResult{Slug: slug}
	defer func() {
		if r.OnBuild != nil {
			r.OnBuild(res)
		}
	}()

	p, err := r.store.Load(slug)
	if err != nil {
		r.logger.Warn("page not rebuilt", "slug", slug, "error", err)
		res.Err = err
		return
	}
	if r.validator != nil {
		vr := r.validator.ValidateDocument(p.Document, false)
		for _, w := range vr.Warnings() {
			r.logger.Warn("page warning", "slug", slug, "rule", w.Rule, "message", w.Message)
		}
		if !vr.Valid {
			res.Err = errors.New(vr.Summary)
			r.logger.Error("page invalid", "slug", slug, "summary", vr.Summary)
			return
		}
	}
	res = r.gen.Build(p, r.outDir)
	if res.Err != nil {
		r.logger.Error("page build failed", "slug", slug, "error", res.Err)
		return
	}
	r.logger.Info("page rebuilt", "slug", slug, "bytes", res.Bytes)
}

// PageRemoved deletes the generated output of slug.
func (r *Rebuilder) PageRemoved(slug string) {
	path := htmlgen.OutputPath(r.outDir, slug)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		r.logger.Warn("failed to remove output", "slug", slug, "error", err)
		return
	}
	// Drop the now empty slug directory; a non-empty one holds nested pages.
	_ = os.Remove(filepath.Dir(path))
	r.logger.Info("page output removed", "slug", slug)
}
