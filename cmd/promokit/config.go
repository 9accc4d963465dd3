package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/promokit/pkg/editor"
)

const (
	defaultConfigPath = ".promokit/config.yaml"
	envPrefix         = "PROMOKIT_"
)

// Config holds the merged project settings. Later sources win:
//  1. built-in defaults
//  2. .promokit/config.yaml (or --config)
//  3. PROMOKIT_* environment variables, optionally loaded from .env
//  4. command-line flags
type Config struct {
	PagesDir     string `yaml:"pages_dir"`
	OutDir       string `yaml:"out_dir"`
	UploadDir    string `yaml:"upload_dir"` // default <out_dir>/uploads
	PublicURL    string `yaml:"public_url"`
	Lang         string `yaml:"lang"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	LogFile      string `yaml:"log_file"` // JSONL log of MCP tool calls
	PreviewAddr  string `yaml:"preview_addr"`
	HistoryLimit int    `yaml:"history_limit"`
	CacheSize    int    `yaml:"cache_size"`
	Workers      int    `yaml:"workers"`
}

func defaultConfig() Config {
	return Config{
		PagesDir:     "pages",
		OutDir:       "public",
		PublicURL:    "http://localhost:8787",
		Lang:         "en",
		LogLevel:     "info",
		LogFormat:    "text",
		PreviewAddr:  "localhost:8787",
		HistoryLimit: editor.DefaultHistoryLimit,
	}
}

// loadProjectConfig overlays the YAML file at path onto the defaults. A
// missing file is only an error when required is set (--config was given).
func loadProjectConfig(path string, required bool) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// loadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is ignored.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays PROMOKIT_* variables read through getenv.
func (c *Config) applyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"PAGES_DIR":    &c.PagesDir,
		"OUT_DIR":      &c.OutDir,
		"UPLOAD_DIR":   &c.UploadDir,
		"PUBLIC_URL":   &c.PublicURL,
		"LANG":         &c.Lang,
		"LOG_LEVEL":    &c.LogLevel,
		"LOG_FORMAT":   &c.LogFormat,
		"LOG_FILE":     &c.LogFile,
		"PREVIEW_ADDR": &c.PreviewAddr,
	}
	for key, dst := range strs {
		if v := strings.TrimSpace(getenv(envPrefix + key)); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"HISTORY_LIMIT": &c.HistoryLimit,
		"CACHE_SIZE":    &c.CacheSize,
		"WORKERS":       &c.Workers,
	}
	var errs []error
	for key, dst := range ints {
		v := strings.TrimSpace(getenv(envPrefix + key))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %q is not a number", envPrefix, key, v))
			continue
		}
		*dst = n
	}
	return errors.Join(errs...)
}

// uploadDir is where uploaded images are stored. Published pages refer to
// them as /uploads/<name>, so the default sits inside the output directory.
func (c *Config) uploadDir() string {
	if strings.TrimSpace(c.UploadDir) != "" {
		return c.UploadDir
	}
	return filepath.Join(c.OutDir, "uploads")
}

// validate rejects settings no command can run with.
func (c *Config) validate() error {
	if strings.TrimSpace(c.PagesDir) == "" {
		return errors.New("pages_dir must not be empty")
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be at least 1, got %d", c.HistoryLimit)
	}
	if c.CacheSize < 0 || c.Workers < 0 {
		return errors.New("cache_size and workers must not be negative")
	}
	return nil
}
