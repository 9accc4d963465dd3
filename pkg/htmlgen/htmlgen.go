// Package htmlgen produces complete, self-contained HTML pages from
// documents: SEO and social meta, base CSS, the rendered components and the
// client scripts their data-* attributes call for.
package htmlgen

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/net/html"

	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/markup"
	"github.com/gnana997/promokit/pkg/pagestore"
	"github.com/gnana997/promokit/pkg/render"
	"github.com/gnana997/promokit/pkg/util"
)

// DefaultCacheSize is the number of generated pages kept in memory.
const DefaultCacheSize = 128

const faviconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32"><rect width="32" height="32" rx="8" fill="#2563eb"/><text x="16" y="23" font-family="system-ui,-apple-system,sans-serif" font-size="22" font-weight="700" fill="white" text-anchor="middle">P</text></svg>`

// Meta carries the page-level data that is not part of the document.
type Meta struct {
	PageID         string `json:"page_id"`
	Slug           string `json:"slug"`
	Title          string `json:"title"`
	SEOTitle       string `json:"seo_title,omitempty"`
	SEODescription string `json:"seo_description,omitempty"`
	SEOOGImage     string `json:"seo_og_image,omitempty"`
}

// MetaFor extracts the meta of a stored page.
func MetaFor(p *pagestore.Page) Meta {
	return Meta{
		PageID:         p.ID,
		Slug:           p.Slug,
		Title:          p.Title,
		SEOTitle:       p.SEOTitle,
		SEODescription: p.SEODescription,
		SEOOGImage:     p.SEOOGImage,
	}
}

// Options configures a Generator.
type Options struct {
	// PublicURL is the origin pages are served from. It prefixes canonical
	// URLs and the form submission endpoint.
	PublicURL string
	// Lang is the html lang attribute. Defaults to "en".
	Lang string
	// CacheSize bounds the page cache. Zero uses DefaultCacheSize.
	CacheSize int
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// Generator wraps a Renderer with page chrome and an LRU cache keyed by a
// hash of the document and meta. It is safe for concurrent use.
type Generator struct {
	renderer *render.Renderer
	opts     Options
	cache    *lru.Cache[string, string]
	logger   *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a generator.
func New(renderer *render.Renderer, opts Options, logger *slog.Logger) (*Generator, error) {
	if opts.Lang == "" {
		opts.Lang = "en"
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	opts.PublicURL = strings.TrimRight(opts.PublicURL, "/")

	logger = util.OrDefault(logger)
	cache, err := lru.NewWithEvict(opts.CacheSize, func(key string, _ string) {
		logger.Debug("evicted generated page", "key", key[:12])
	})
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}
	return &Generator{renderer: renderer, opts: opts, cache: cache, logger: logger}, nil
}

// Generate returns the full HTML page for doc.
func (g *Generator) Generate(doc document.Document, meta Meta) (string, error) {
	key, err := g.cacheKey(doc, meta)
	if err != nil {
		return "", err
	}
	if out, ok := g.cache.Get(key); ok {
		g.hits.Add(1)
		return out, nil
	}
	g.misses.Add(1)

	var buf bytes.Buffer
	if err := html.Render(&buf, g.page(doc, meta)); err != nil {
		return "", fmt.Errorf("render page %s: %w", meta.Slug, err)
	}
	out := buf.String()
	g.cache.Add(key, out)
	return out, nil
}

// GeneratePage generates a stored page.
func (g *Generator) GeneratePage(p *pagestore.Page) (string, error) {
	return g.Generate(p.Document, MetaFor(p))
}

// Stats returns cache hit and miss counts.
func (g *Generator) Stats() CacheStats {
	return CacheStats{Hits: g.hits.Load(), Misses: g.misses.Load(), Entries: g.cache.Len()}
}

// Purge empties the cache.
func (g *Generator) Purge() {
	g.cache.Purge()
}

// CanonicalURL returns the public URL of slug.
func (g *Generator) CanonicalURL(slug string) string {
	return g.opts.PublicURL + "/" + slug
}

// FormEndpoint returns the URL form submissions for pageID are posted to.
func (g *Generator) FormEndpoint(pageID string) string {
	return g.opts.PublicURL + "/api/form/" + url.PathEscape(pageID)
}

func (g *Generator) cacheKey(doc document.Document, meta Meta) (string, error) {
	data, err := doc.Marshal()
	if err != nil {
		return "", fmt.Errorf("hash document: %w", err)
	}
	m, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("hash meta: %w", err)
	}
	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	h.Write(m)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// page assembles the complete document tree.
func (g *Generator) page(doc document.Document, meta Meta) *html.Node {
	title := meta.SEOTitle
	if title == "" {
		title = meta.Title
	}
	desc, og := meta.SEODescription, meta.SEOOGImage
	canonical := g.CanonicalURL(meta.Slug)

	head := markup.El("head", nil,
		markup.El("meta", markup.Attrs("charset", "utf-8")),
		markup.El("meta", markup.Attrs("name", "viewport", "content", "width=device-width, initial-scale=1")),
		markup.El("title", nil, markup.Text(title)),
		metaName("description", desc),
		markup.El("link", markup.Attrs("rel", "icon", "type", "image/svg+xml", "href", "data:image/svg+xml,"+url.PathEscape(faviconSVG))),
		markup.El("link", markup.Attrs("rel", "canonical", "href", canonical)),
		metaProperty("og:title", title),
		metaProperty("og:description", desc),
		metaProperty("og:image", og),
		metaProperty("og:url", canonical),
		metaProperty("og:type", "website"),
		metaName("twitter:card", "summary_large_image"),
		metaName("twitter:title", title),
		metaName("twitter:description", desc),
		metaName("twitter:image", og),
		markup.El("style", nil, markup.Text(baseCSS)),
	)

	body := g.renderer.RenderNodes(doc)
	content := markup.El("main", markup.Attrs("data-page!", ""), body...)

	bodyEl := markup.El("body", markup.Attrs(
		"data-page-id", meta.PageID,
		"data-form-endpoint", g.formEndpointFor(meta.PageID, body),
	), content)
	for _, s := range scripts {
		if s.marker == "" || hasAttr(body, s.marker) {
			bodyEl.AppendChild(markup.El("script", nil, markup.Text(s.body)))
		}
	}

	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root.AppendChild(markup.El("html", markup.Attrs("lang", g.opts.Lang), head, bodyEl))
	return root
}

func (g *Generator) formEndpointFor(pageID string, body []*html.Node) string {
	if pageID == "" || !hasAttr(body, "data-promo-form") {
		return ""
	}
	return g.FormEndpoint(pageID)
}

// metaName and metaProperty return nil for an empty value, which El skips.
func metaName(name, content string) *html.Node {
	if content == "" {
		return nil
	}
	return markup.El("meta", markup.Attrs("name", name, "content", content))
}

func metaProperty(prop, content string) *html.Node {
	if content == "" {
		return nil
	}
	return markup.El("meta", markup.Attrs("property", prop, "content", content))
}

// hasAttr reports whether any element in the forest carries key.
func hasAttr(nodes []*html.Node, key string) bool {
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			if _, ok := markup.Attribute(n, key); ok {
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if hasAttr([]*html.Node{c}, key) {
				return true
			}
		}
	}
	return false
}
