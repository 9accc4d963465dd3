package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/promokit/pkg/htmlgen"
	mcpserver "github.com/gnana997/promokit/pkg/mcp"
	"github.com/gnana997/promokit/pkg/mcplog"
	"github.com/gnana997/promokit/pkg/pagestore"
	"github.com/gnana997/promokit/pkg/preview"
	"github.com/gnana997/promokit/pkg/watch"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(c.app)
		},
	}
}

// runServe blocks until the MCP client disconnects. Nothing but the
// protocol may be written to stdout.
func runServe(a *app) error {
	pages, err := a.store()
	if err != nil {
		return err
	}
	gen, err := a.generator()
	if err != nil {
		return err
	}
	callLog, err := mcplog.NewLogger(a.cfg.LogFile)
	if err != nil {
		return err
	}
	if callLog != nil {
		defer callLog.Close()
	}

	mcpserver.Version = version
	srv := mcpserver.NewServer(mcpserver.Deps{
		Registry:     a.reg,
		Query:        a.query,
		Validator:    a.validator,
		Pages:        pages,
		Templates:    a.templates,
		Generator:    gen,
		OutDir:       a.cfg.OutDir,
		HistoryLimit: a.cfg.HistoryLimit,
		CallLog:      callLog,
		Uploader:     a.uploads(),
		Logger:       a.logger,
	})
	a.logger.Info("mcp server starting", "pages_dir", pages.Dir(), "version", version)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func newPreviewCmd(c *cli) *cobra.Command {
	var addr string
	var origins []string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve page previews and the property panel API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			if addr == "" {
				addr = a.cfg.PreviewAddr
			}
			pages, err := a.store()
			if err != nil {
				return err
			}
			gen, err := a.generator()
			if err != nil {
				return err
			}

			srv := preview.NewServer(a.reg, pages, gen, a.logger)
			srv.AllowedOrigins = origins
			srv.Uploads = a.uploads()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			printSuccess(cmd.OutOrStdout(), "preview listening on http://%s", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from preview_addr)")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "CORS origins allowed to call the API (default any)")
	return cmd
}

func newBuildCmd(c *cli) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "build [slug...]",
		Short: "Publish pages as static HTML",
		Long:  "Publish the named pages, or every page when none are named, to <out>/<slug>/index.html.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers == 0 {
				workers = c.app.cfg.Workers
			}
			return runBuild(cmd.Context(), c.app, cmd.OutOrStdout(), args, workers)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "pages generated concurrently (default one per CPU)")
	return cmd
}

// runBuild publishes slugs (all pages when empty). Pages with validation
// errors are reported and skipped; any failure makes the command fail.
func runBuild(ctx context.Context, a *app, w io.Writer, slugs []string, workers int) error {
	var pages []*pagestore.Page
	var err error
	if len(slugs) == 0 {
		pages, err = a.loadAll()
	} else {
		pages, err = a.loadSlugs(slugs)
	}
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		printWarning(w, "no pages found in %s", a.cfg.PagesDir)
		return nil
	}

	gen, err := a.generator()
	if err != nil {
		return err
	}

	failed := 0
	buildable := pages[:0:0]
	for _, p := range pages {
		res := a.validator.ValidateDocument(p.Document, false)
		if !res.Valid {
			printError(w, "%s: %s", p.Slug, res.Summary)
			failed++
			continue
		}
		buildable = append(buildable, p)
	}

	results, _ := gen.BuildAll(ctx, buildable, a.cfg.OutDir, workers)
	for _, r := range results {
		if r.Err != nil {
			printError(w, "%s: %v", r.Slug, r.Err)
			failed++
			continue
		}
		printSuccess(w, "%s → %s %s", r.Slug, r.Path, muted(fmt.Sprintf("(%d bytes)", r.Bytes)))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(pages))
	}
	return nil
}

func newWatchCmd(c *cli) *cobra.Command {
	var skipInitial bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild pages whenever their files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			w := cmd.OutOrStdout()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !skipInitial {
				if err := runBuild(ctx, a, w, nil, a.cfg.Workers); err != nil {
					printWarning(w, "initial build: %v", err)
				}
			}

			pages, err := a.store()
			if err != nil {
				return err
			}
			gen, err := a.generator()
			if err != nil {
				return err
			}
			rb := watch.NewRebuilder(pages, gen, a.validator, a.cfg.OutDir, a.logger)
			rb.OnBuild = func(r htmlgen.BuildResult) {
				if r.Err != nil {
					printError(w, "%s: %v", r.Slug, r.Err)
					return
				}
				printSuccess(w, "%s rebuilt", r.Slug)
			}

			watcher, err := watch.New(pages, rb, watch.Options{}, a.logger)
			if err != nil {
				return err
			}
			if err := watcher.Start(); err != nil {
				return err
			}
			printKeyValue(w, "watching", pages.Dir())

			<-ctx.Done()
			return watcher.Stop()
		},
	}
	cmd.Flags().BoolVar(&skipInitial, "no-initial-build", false, "skip building every page on start")
	return cmd
}
