package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newInitCmd(c *cli) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write " + defaultConfigPath + " and create the pages directory",
		Args:  cobra.NoArgs,
		// The config file may not exist yet.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultConfig()
			c.applyFlags(cmd.Flags(), &cfg)
			path := c.configPath
			if path == "" {
				path = defaultConfigPath
			}
			return initProject(cmd.OutOrStdout(), path, cfg, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}

// initProject writes cfg to path and creates cfg.PagesDir.
func initProject(w io.Writer, path string, cfg Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	var buf bytes.Buffer
	buf.WriteString("# promokit project settings. PROMOKIT_* environment variables and flags override these.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.PagesDir, 0o755); err != nil {
		return fmt.Errorf("create pages dir: %w", err)
	}

	printSuccess(w, "wrote %s", path)
	printKeyValue(w, "pages", cfg.PagesDir)
	printKeyValue(w, "output", cfg.OutDir)
	return nil
}
