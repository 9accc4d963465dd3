// Package pagestore persists pages as JSON files under a directory.
//
// Each page lives at <dir>/<slug>.json. Slugs may contain "/" separated
// segments, which map onto subdirectories.
package pagestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/util"
)

// PagePattern matches page files relative to the store directory.
const PagePattern = "**/*.json"

var (
	// ErrNotFound is returned when no page file exists for a slug.
	ErrNotFound = errors.New("page not found")
	// ErrInvalidSlug is returned for slugs that cannot be used as a file path or URL.
	ErrInvalidSlug = errors.New("invalid slug")
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*(?:/[a-z0-9]+(?:-[a-z0-9]+)*)*$`)

// Now is the clock used to stamp UpdatedAt. Replaced in tests.
var Now = func() time.Time { return time.Now().UTC() }

// Page is one persisted landing page: the document plus its publishing metadata.
type Page struct {
	ID             string            `json:"id"`
	Slug           string            `json:"slug"`
	Title          string            `json:"title"`
	SEOTitle       string            `json:"seo_title,omitempty"`
	SEODescription string            `json:"seo_description,omitempty"`
	SEOOGImage     string            `json:"seo_og_image,omitempty"`
	Document       document.Document `json:"document"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Summary is the listing view of a page.
type Summary struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Components int       `json:"components"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewPage creates an unsaved page with a fresh id. An empty slug becomes
// "page-" plus the first eight characters of the id.
func NewPage(slug, title string, doc document.Document) (*Page, error) {
	id := uuid.NewString()
	if slug == "" {
		slug = "page-" + id[:8]
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	if title == "" {
		title = slug
	}
	return &Page{ID: id, Slug: slug, Title: title, Document: doc}, nil
}

// ValidateSlug reports whether slug is lowercase kebab-case segments.
func ValidateSlug(slug string) error {
	if !slugRe.MatchString(slug) {
		return fmt.Errorf("%w: %q (use lowercase letters, digits and hyphens)", ErrInvalidSlug, slug)
	}
	return nil
}

// Decode parses a page file.
func Decode(data []byte) (*Page, error) {
	var raw struct {
		Page
		Document json.RawMessage `json:"document"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	p := raw.Page
	if len(raw.Document) == 0 {
		p.Document = document.New()
		return &p, nil
	}
	doc, err := document.Parse(raw.Document)
	if err != nil {
		return nil, err
	}
	p.Document = doc
	return &p, nil
}

// ReadFile reads and decodes a page file from any path.
func ReadFile(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Store is a directory of page files. Writes are serialized; reads may
// run concurrently with each other.
type Store struct {
	dir    string
	logger *slog.Logger
	mu     sync.RWMutex
}

// Open returns a store rooted at dir, creating the directory if needed.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create pages dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Store{dir: abs, logger: util.OrDefault(logger)}, nil
}

// Dir returns the absolute store directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path for slug.
func (s *Store) Path(slug string) (string, error) {
	if err := ValidateSlug(slug); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, filepath.FromSlash(slug)+".json"), nil
}

// SlugFor maps a file path inside the store back to its slug.
func (s *Store) SlugFor(path string) (string, bool) {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if ok, _ := doublestar.Match(PagePattern, rel); !ok {
		return "", false
	}
	slug := strings.TrimSuffix(rel, ".json")
	return slug, ValidateSlug(slug) == nil
}

// Exists reports whether a page file exists for slug.
func (s *Store) Exists(slug string) bool {
	path, err := s.Path(slug)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the page stored under slug.
func (s *Store) Load(slug string) (*Page, error) {
	path, err := s.Path(slug)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	// The file location is authoritative.
	p.Slug = slug
	return p, nil
}

// Save writes p to disk, stamping UpdatedAt and assigning an id when missing.
// The file is written to a temp file and renamed into place.
func (s *Store) Save(p *Page) error {
	path, err := s.Path(p.Slug)
	if err != nil {
		return err
	}
	if err := p.Document.Validate(); err != nil {
		return fmt.Errorf("page %s: %w", p.Slug, err)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.UpdatedAt = Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode page: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".page-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save page %s: %w", p.Slug, err)
	}
	s.logger.Debug("page saved", "slug", p.Slug, "components", p.Document.Len())
	return nil
}

// Delete removes the page file for slug.
func (s *Store) Delete(slug string) error {
	path, err := s.Path(slug)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, slug)
		}
		return err
	}
	return nil
}

// List returns every readable page sorted by slug. Files that fail to
// decode are logged and skipped.
func (s *Store) List() ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, err := doublestar.Glob(os.DirFS(s.dir), PagePattern)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}

	out := make([]Summary, 0, len(matches))
	for _, rel := range matches {
		slug := strings.TrimSuffix(rel, ".json")
		if ValidateSlug(slug) != nil {
			continue
		}
		p, err := ReadFile(filepath.Join(s.dir, filepath.FromSlash(rel)))
		if err != nil {
			s.logger.Warn("skipping unreadable page", "file", rel, "error", err)
			continue
		}
		out = append(out, Summary{
			ID:         p.ID,
			Slug:       slug,
			Title:      p.Title,
			Components: p.Document.Len(),
			UpdatedAt:  p.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}
