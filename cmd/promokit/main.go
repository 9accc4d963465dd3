// Command promokit builds promotional landing pages: it serves the page
// editing session to agents over MCP, previews pages over HTTP and
// publishes them as static HTML.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// version is overridden at link time with -ldflags "-X main.version=...".
var version = "0.1.0-dev"

// cli carries global flag values and the app built from them.
type cli struct {
	configPath string
	envFile    string

	pagesDir  string
	outDir    string
	publicURL string
	logLevel  string
	logFormat string

	app *app
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "promokit",
		Short:         "Build promotional landing pages from a component palette",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default "+defaultConfigPath+")")
	pf.StringVar(&c.envFile, "env-file", ".env", "dotenv file with PROMOKIT_* variables")
	pf.StringVar(&c.pagesDir, "pages", "", "pages directory")
	pf.StringVar(&c.outDir, "out", "", "output directory for published HTML")
	pf.StringVar(&c.publicURL, "public-url", "", "origin the pages are published under")
	pf.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&c.logFormat, "log-format", "", "log format (text, json)")

	root.AddCommand(
		newInitCmd(c),
		newServeCmd(c),
		newPreviewCmd(c),
		newBuildCmd(c),
		newWatchCmd(c),
		newNewCmd(c),
		newPagesCmd(c),
		newValidateCmd(c),
		newInspectCmd(c),
		newComponentsCmd(c),
		newTemplatesCmd(c),
		newSetupCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			// Overrides the root hook: no config is needed.
			PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), versionLine())
			},
		},
	)
	return root
}

// load resolves the configuration for cmd and builds the app.
func (c *cli) load(cmd *cobra.Command) error {
	if err := loadDotEnv(c.envFile); err != nil {
		return err
	}
	path, required := c.configPath, true
	if path == "" {
		path, required = defaultConfigPath, false
	}
	cfg, err := loadProjectConfig(path, required)
	if err != nil {
		return err
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return err
	}
	c.applyFlags(cmd.Flags(), &cfg)
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a, err := newApp(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

// applyFlags copies explicitly set global flags onto cfg.
func (c *cli) applyFlags(flags *pflag.FlagSet, cfg *Config) {
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("pages", &cfg.PagesDir, c.pagesDir)
	set("out", &cfg.OutDir, c.outDir)
	set("public-url", &cfg.PublicURL, c.publicURL)
	set("log-level", &cfg.LogLevel, c.logLevel)
	set("log-format", &cfg.LogFormat, c.logFormat)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
