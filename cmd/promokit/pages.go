package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gnana997/promokit/pkg/pagestore"
	"github.com/gnana997/promokit/pkg/pagetemplate"
	"github.com/gnana997/promokit/pkg/validator"
)

// loadSlugs loads the named pages from the store.
func (a *app) loadSlugs(slugs []string) ([]*pagestore.Page, error) {
	s, err := a.store()
	if err != nil {
		return nil, err
	}
	pages := make([]*pagestore.Page, 0, len(slugs))
	for _, slug := range slugs {
		p, err := s.Load(slug)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}

type newOptions struct {
	template string
	title    string
	force    bool
}

func newNewCmd(c *cli) *cobra.Command {
	var opts newOptions
	cmd := &cobra.Command{
		Use:   "new <slug>",
		Short: "Create a page from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := createPage(c.app, args[0], opts)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "created %s", p.Slug)
			printKeyValue(w, "id", p.ID)
			printKeyValue(w, "components", fmt.Sprint(p.Document.Len()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.template, "template", "t", pagetemplate.Blank, "template id (see: promokit templates)")
	cmd.Flags().StringVar(&opts.title, "title", "", "page title (default: the slug)")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite an existing page")
	return cmd
}

// createPage instantiates a template and saves it under slug.
func createPage(a *app, slug string, opts newOptions) (*pagestore.Page, error) {
	store, err := a.store()
	if err != nil {
		return nil, err
	}
	if err := pagestore.ValidateSlug(slug); err != nil {
		return nil, err
	}
	if store.Exists(slug) && !opts.force {
		return nil, fmt.Errorf("page %q already exists (use --force to overwrite)", slug)
	}

	doc, err := a.templates.Instantiate(opts.template)
	if errors.Is(err, pagetemplate.ErrNotFound) {
		ids := make([]string, 0)
		for _, t := range a.templates.List() {
			ids = append(ids, t.ID)
		}
		return nil, fmt.Errorf("unknown template %q (available: %s)", opts.template, strings.Join(ids, ", "))
	}
	if err != nil {
		return nil, err
	}

	p, err := pagestore.NewPage(slug, opts.title, doc)
	if err != nil {
		return nil, err
	}
	if err := store.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

func newPagesCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List saved pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.app.store()
			if err != nil {
				return err
			}
			list, err := store.List()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(w, muted("No pages yet. Create one with: promokit new <slug>"))
				return nil
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tTITLE\tCOMPONENTS\tUPDATED")
			for _, s := range list {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.Slug, s.Title, s.Components, s.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

type validateOptions struct {
	fix    bool
	asJSON bool
}

func newValidateCmd(c *cli) *cobra.Command {
	var opts validateOptions
	cmd := &cobra.Command{
		Use:   "validate <file|slug>...",
		Short: "Check pages against the component registry",
		Long: "Check page files or stored pages. Arguments ending in .json or naming an existing file are read\n" +
			"directly; anything else is looked up as a slug in the pages directory.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(c.app, cmd.OutOrStdout(), args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.fix, "fix", false, "write repaired documents back")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON results")
	return cmd
}

// validateTarget pairs a command-line argument with where it was read from.
type validateTarget struct {
	Arg      string            `json:"target"`
	Path     string            `json:"path"`
	Result   *validator.Result `json:"result,omitempty"`
	Repaired bool              `json:"repaired,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// ok reports whether the target passes, counting a successful repair.
func (t validateTarget) ok(v *validator.Validator) bool {
	if t.Error != "" || t.Result == nil {
		return false
	}
	if t.Result.Valid {
		return true
	}
	return t.Repaired && v.ValidateDocument(*t.Result.Fixed, false).Valid
}

func runValidate(a *app, w io.Writer, args []string, opts validateOptions) error {
	targets := make([]validateTarget, 0, len(args))
	failed := 0
	for _, arg := range args {
		t := validateTarget{Arg: arg}
		p, path, err := a.readTarget(arg)
		t.Path = path
		if err == nil {
			t.Result = a.validator.ValidateDocument(p.Document, opts.fix)
			if opts.fix && t.Result.Fixed != nil {
				p.Document = *t.Result.Fixed
				err = writePageFile(path, p)
				t.Repaired = err == nil
			}
		}
		if err != nil {
			t.Error = err.Error()
		}
		if !t.ok(a.validator) {
			failed++
		}
		targets = append(targets, t)
	}

	if opts.asJSON {
		if err := writeJSON(w, targets); err != nil {
			return err
		}
	} else {
		for _, t := range targets {
			printValidateTarget(w, t)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed validation", failed, len(targets))
	}
	return nil
}

// readTarget resolves arg to a page and the file it lives in.
func (a *app) readTarget(arg string) (*pagestore.Page, string, error) {
	if strings.HasSuffix(arg, ".json") || fileExists(arg) {
		p, err := pagestore.ReadFile(arg)
		return p, arg, err
	}
	store, err := a.store()
	if err != nil {
		return nil, "", err
	}
	path, err := store.Path(arg)
	if err != nil {
		return nil, "", err
	}
	p, err := store.Load(arg)
	return p, path, err
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// writePageFile rewrites a page file in place, keeping its metadata.
func writePageFile(path string, p *pagestore.Page) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func printValidateTarget(w io.Writer, t validateTarget) {
	if t.Result == nil {
		printError(w, "%s: %s", t.Arg, t.Error)
		return
	}
	res := t.Result
	switch {
	case t.Error != "":
		printError(w, "%s: %s", t.Arg, t.Error)
	case res.Valid:
		printSuccess(w, "%s: %s", t.Arg, res.Summary)
	case t.Repaired:
		printWarning(w, "%s: %s (repaired)", t.Arg, res.Summary)
	default:
		printError(w, "%s: %s", t.Arg, res.Summary)
	}
	for _, v := range res.Violations {
		line := fmt.Sprintf("  %-7s %s  %s %s", v.Severity, location(v.Index, v.Path), v.Message, muted("("+v.Rule+")"))
		fmt.Fprintln(w, line)
		if v.Suggestion != "" {
			fmt.Fprintln(w, "          "+muted(v.Suggestion))
		}
	}
	if t.Repaired {
		for _, f := range res.Fixes {
			fmt.Fprintf(w, "  fixed   %s: %v → %v\n", location(f.Index, f.Path), f.Old, f.New)
		}
	}
}

// location formats a violation position; index -1 is the document itself.
func location(index int, path string) string {
	where := fmt.Sprintf("components[%d]", index)
	if index < 0 {
		where = "document"
	}
	if path != "" {
		where += "." + path
	}
	return where
}
