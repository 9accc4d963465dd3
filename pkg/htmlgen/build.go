package htmlgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gnana997/promokit/pkg/pagestore"
	"github.com/gnana997/promokit/pkg/util"
)

// BuildResult is the outcome of writing one page.
type BuildResult struct {
	Slug  string `json:"slug"`
	Path  string `json:"path,omitempty"`
	Bytes int    `json:"bytes"`
	Err   error  `json:"-"`
}

// OutputPath returns where slug is written under outDir: <outDir>/<slug>/index.html.
func OutputPath(outDir, slug string) string {
	return filepath.Join(outDir, filepath.FromSlash(slug), "index.html")
}

// Build generates p and writes it below outDir.
func (g *Generator) Build(p *pagestore.Page, outDir string) BuildResult {
	res := BuildResult{Slug: p.Slug}
	out, err := g.GeneratePage(p)
	if err != nil {
		res.Err = err
		return res
	}
	path := OutputPath(outDir, p.Slug)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		res.Err = err
		return res
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		res.Err = fmt.Errorf("write %s: %w", path, err)
		return res
	}
	res.Path, res.Bytes = path, len(out)
	return res
}

// BuildAll writes every page concurrently with the given number of workers
// (0 picks util.BuildWorkers). Results keep the order of pages. The returned
// error joins every per-page failure; a cancelled context stops the
// remaining pages and is reported as their error.
func (g *Generator) BuildAll(ctx context.Context, pages []*pagestore.Page, outDir string, workers int) ([]BuildResult, error) {
	workers = util.BuildWorkersWithOverride(workers)
	if workers > len(pages) {
		workers = len(pages)
	}

	results := make([]BuildResult, len(pages))
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	var built atomic.Int64

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					results[i] = BuildResult{Slug: pages[i].Slug, Err: err}
					continue
				}
				results[i] = g.Build(pages[i], outDir)
				if results[i].Err == nil {
					built.Add(1)
				}
			}
		}()
	}
	for i := range pages {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Slug, r.Err))
		}
	}
	g.logger.Info("build finished", "pages", len(pages), "built", built.Load(), "failed", len(errs), "workers", workers)
	return results, errors.Join(errs...)
}
