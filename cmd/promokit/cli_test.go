package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/pagestore"
)

// runCLI executes the root command in a fresh temp project directory
// (created on the first call of each test) and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func inProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writePage(t *testing.T, path string, comps []document.Instance) {
	t.Helper()
	p := pagestore.Page{ID: "p1", Slug: "draft", Title: "Draft", Document: document.Document{Version: document.CurrentVersion, Components: comps}}
	data, err := json.MarshalIndent(p, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// --- version / init ---

func TestCLI_Version(t *testing.T) {
	inProject(t)
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "promokit")
	assert.Contains(t, out, version)
}

func TestCLI_Init(t *testing.T) {
	inProject(t)
	out, err := runCLI(t, "init", "--pages", "site")
	require.NoError(t, err)
	assert.Contains(t, out, defaultConfigPath)
	assert.DirExists(t, "site")

	cfg, err := loadProjectConfig(defaultConfigPath, true)
	require.NoError(t, err)
	assert.Equal(t, "site", cfg.PagesDir)
	assert.Equal(t, defaultConfig().PublicURL, cfg.PublicURL)

	_, err = runCLI(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCLI(t, "init", "--force")
	assert.NoError(t, err)
}

// --- pages ---

func TestCLI_NewListBuild(t *testing.T) {
	dir := inProject(t)

	out, err := runCLI(t, "new", "summer-sale", "--template", "product-launch", "--title", "Summer Sale")
	require.NoError(t, err)
	assert.Contains(t, out, "created summer-sale")
	assert.FileExists(t, filepath.Join(dir, "pages", "summer-sale.json"))

	out, err = runCLI(t, "pages")
	require.NoError(t, err)
	assert.Contains(t, out, "summer-sale")
	assert.Contains(t, out, "Summer Sale")

	out, err = runCLI(t, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "summer-sale")

	html, err := os.ReadFile(filepath.Join(dir, "public", "summer-sale", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<title>Summer Sale</title>")
	assert.Contains(t, string(html), "http://localhost:8787/summer-sale")
}

func TestCLI_NewErrors(t *testing.T) {
	inProject(t)

	_, err := runCLI(t, "new", "sale")
	require.NoError(t, err)

	_, err = runCLI(t, "new", "sale")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCLI(t, "new", "sale", "--force", "-t", "restaurant")
	assert.NoError(t, err)

	_, err = runCLI(t, "new", "other", "--template", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: blank")

	_, err = runCLI(t, "new", "Bad Slug")
	assert.Error(t, err)
}

func TestCLI_PagesEmpty(t *testing.T) {
	inProject(t)
	out, err := runCLI(t, "pages")
	require.NoError(t, err)
	assert.Contains(t, out, "No pages yet")

	out, err = runCLI(t, "pages", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestCLI_BuildNamedMissing(t *testing.T) {
	inProject(t)
	_, err := runCLI(t, "build", "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, pagestore.ErrNotFound)
}

func TestCLI_BuildNoPages(t *testing.T) {
	inProject(t)
	out, err := runCLI(t, "build")
	require.NoError(t, err)
	assert.Contains(t, out, "no pages found")
}

func TestCLI_BuildSkipsInvalidPage(t *testing.T) {
	dir := inProject(t)
	_, err := runCLI(t, "new", "good")
	require.NoError(t, err)
	writePage(t, filepath.Join(dir, "pages", "broken.json"), []document.Instance{
		{ID: "a", Type: "spacer", Props: document.Props{}},
		{ID: "a", Type: "divider", Props: document.Props{}},
	})

	out, err := runCLI(t, "build")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 pages failed")
	assert.Contains(t, out, "broken")
	assert.FileExists(t, filepath.Join(dir, "public", "good", "index.html"))
	assert.NoFileExists(t, filepath.Join(dir, "public", "broken", "index.html"))
}

// --- validate ---

func TestCLI_ValidateFile(t *testing.T) {
	dir := inProject(t)
	path := filepath.Join(dir, "draft.json")
	writePage(t, path, []document.Instance{
		{ID: "t1", Type: "text", Props: document.Props{"content": "Hi", "fontSize": 500}},
	})

	// Warnings alone pass.
	out, err := runCLI(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "out-of-range")

	out, err = runCLI(t, "validate", "--fix", path)
	require.NoError(t, err)
	assert.Contains(t, out, "fixed")

	p, err := pagestore.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, float64(72), p.Document.Components[0].Props["fontSize"])
	assert.Equal(t, "Draft", p.Title)
}

func TestCLI_ValidateDuplicateIDs(t *testing.T) {
	dir := inProject(t)
	path := filepath.Join(dir, "pages", "dup.json")
	writePage(t, path, []document.Instance{
		{ID: "a", Type: "spacer", Props: document.Props{}},
		{ID: "a", Type: "spacer", Props: document.Props{}},
	})

	// Looked up by slug in the pages directory.
	out, err := runCLI(t, "validate", "dup")
	require.Error(t, err)
	assert.Contains(t, out, "duplicate-id")

	_, err = runCLI(t, "validate", "--fix", "dup")
	require.NoError(t, err)
	_, err = runCLI(t, "validate", "dup")
	assert.NoError(t, err)
}

func TestCLI_ValidateJSON(t *testing.T) {
	inProject(t)
	out, err := runCLI(t, "validate", "--json", "missing.json")
	require.Error(t, err)

	var targets []validateTarget
	require.NoError(t, json.Unmarshal([]byte(out), &targets))
	require.Len(t, targets, 1)
	assert.Equal(t, "missing.json", targets[0].Arg)
	assert.NotEmpty(t, targets[0].Error)
}

// --- catalog ---

func TestCLI_Components(t *testing.T) {
	inProject(t)
	out, err := runCLI(t, "components", "--category", "layout")
	require.NoError(t, err)
	assert.Contains(t, out, "spacer")
	assert.Contains(t, out, "divider")
	assert.NotContains(t, out, "carousel")

	out, err = runCLI(t, "components", "--json")
	require.NoError(t, err)
	var comps []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &comps))
	assert.Len(t, comps, 12)
}

func TestCLI_Templates(t *testing.T) {
	inProject(t)
	out, err := runCLI(t, "templates")
	require.NoError(t, err)
	for _, id := range []string{"blank", "product-launch", "event-promo", "lead-collect", "restaurant"} {
		assert.Contains(t, out, id)
	}
}

func TestCLI_Inspect(t *testing.T) {
	inProject(t)
	out, err := runCLI(t, "inspect", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Props")
	assert.Contains(t, out, "fontSize")
	assert.Contains(t, out, "allowed:")

	_, err = runCLI(t, "inspect", "imag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean")

	out, err = runCLI(t, "inspect", "spacer", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "spacer"`)
}

// --- configuration sources ---

func TestCLI_EnvAndFlagPrecedence(t *testing.T) {
	dir := inProject(t)
	require.NoError(t, os.MkdirAll(".promokit", 0o755))
	require.NoError(t, os.WriteFile(defaultConfigPath, []byte("pages_dir: from-yaml\n"), 0o644))

	_, err := runCLI(t, "new", "a")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "from-yaml", "a.json"))

	t.Setenv("PROMOKIT_PAGES_DIR", "from-env")
	_, err = runCLI(t, "new", "b")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "from-env", "b.json"))

	_, err = runCLI(t, "new", "c", "--pages", "from-flag")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "from-flag", "c.json"))
}

func TestCLI_ExplicitConfigMissing(t *testing.T) {
	inProject(t)
	_, err := runCLI(t, "pages", "--config", "nope.yaml")
	assert.Error(t, err)
}

func TestCLI_InvalidEnvConfig(t *testing.T) {
	inProject(t)
	t.Setenv("PROMOKIT_HISTORY_LIMIT", "0")
	_, err := runCLI(t, "pages")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history_limit")
}
