package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/markup"
	"github.com/gnana997/promokit/pkg/schema"
)

func render(t *testing.T, def *component.Definition, props document.Props) *html.Node {
	t.Helper()
	nodes := def.Render(props)
	require.Len(t, nodes, 1)
	return nodes[0]
}

func attr(t *testing.T, n *html.Node, key string) string {
	t.Helper()
	v, ok := markup.Attribute(n, key)
	require.True(t, ok, "missing attribute %s on <%s>", key, n.Data)
	return v
}

// find returns the first element in n's subtree (n included) with tag.
func find(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := find(c, tag); f != nil {
			return f
		}
	}
	return nil
}

func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	if n.Type == html.ElementNode && pred(n) {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findAll(c, pred)...)
	}
	return out
}

func hasAttr(key string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		_, ok := markup.Attribute(n, key)
		return ok
	}
}

// --- Registration ---

func TestRegister_Twice(t *testing.T) {
	reg := component.NewRegistry()
	Register(reg)
	Register(reg)

	seen := map[string]int{}
	for _, d := range reg.List() {
		seen[d.Type]++
	}
	assert.Len(t, seen, 12)
	for typ, n := range seen {
		assert.Equal(t, 1, n, typ)
	}
}

func TestDefinitions_WellFormed(t *testing.T) {
	for _, d := range All() {
		t.Run(d.Type, func(t *testing.T) {
			assert.NotEmpty(t, d.DisplayName)
			assert.NotEmpty(t, d.Icon)
			assert.True(t, component.ValidCategory(d.Category))
			assert.Equal(t, schema.KindObject, schema.Base(d.Schema))

			// Default props satisfy the schema apart from required fields the
			// user is expected to fill in.
			for _, issue := range schema.Check(d.Schema, d.DefaultProps) {
				assert.Contains(t, issue.Message, "required", issue.String())
			}
		})
	}
}

func TestRender_EmptyPropsUseDefaults(t *testing.T) {
	for _, d := range All() {
		t.Run(d.Type, func(t *testing.T) {
			out := markup.String(d.Render(document.Props{}))
			assert.NotEmpty(t, out)
		})
	}
}

func TestRender_Deterministic(t *testing.T) {
	for _, d := range All() {
		t.Run(d.Type, func(t *testing.T) {
			a := markup.String(d.Render(d.DefaultProps))
			b := markup.String(d.Render(d.DefaultProps))
			assert.Equal(t, a, b)
		})
	}
}

func TestRender_DoesNotMutateProps(t *testing.T) {
	props := document.Props{"images": []any{map[string]any{"src": "https://x"}}}
	Carousel.Render(props)
	assert.Equal(t, document.Props{"images": []any{map[string]any{"src": "https://x"}}}, props)
}

// --- Attribute contracts ---

func TestCarousel_Contract(t *testing.T) {
	root := render(t, Carousel, Carousel.DefaultProps)

	assert.True(t, strings.HasPrefix(attr(t, root, "data-carousel"), "carousel-"))
	assert.Equal(t, "true", attr(t, root, "data-autoplay"))
	assert.Equal(t, "3000", attr(t, root, "data-interval"))

	track := findAll(root, func(n *html.Node) bool {
		v, _ := markup.Attribute(n, "class")
		return v == "carousel-track"
	})
	require.Len(t, track, 1)
	imgs := findAll(track[0], func(n *html.Node) bool { return n.Data == "img" })
	assert.Len(t, imgs, 3)
	assert.Equal(t, "eager", attr(t, imgs[0], "loading"))
	assert.Equal(t, "lazy", attr(t, imgs[1], "loading"))
}

func TestCarousel_LinksAndDots(t *testing.T) {
	root := render(t, Carousel, document.Props{
		"images": []any{
			map[string]any{"src": "https://a", "link": "https://shop"},
		},
		"autoPlay": false,
	})
	assert.Equal(t, "false", attr(t, root, "data-autoplay"))
	a := find(root, "a")
	require.NotNil(t, a)
	assert.Equal(t, "https://shop", attr(t, a, "href"))
	assert.Equal(t, "_blank", attr(t, a, "target"))
	// A single slide shows no dots.
	assert.Nil(t, find(root, "span"))
}

func TestCarousel_IDStableAndDistinct(t *testing.T) {
	a := render(t, Carousel, Carousel.DefaultProps)
	b := render(t, Carousel, document.Props{"images": []any{map[string]any{"src": "https://other"}}})
	assert.NotEqual(t, attr(t, a, "data-carousel"), attr(t, b, "data-carousel"))
}

func TestCountdown_Contract(t *testing.T) {
	for _, style := range []string{"minimal", "card", "flip"} {
		t.Run(style, func(t *testing.T) {
			root := render(t, Countdown, document.Props{
				"targetDate":  "2030-01-01T00:00:00",
				"expiredText": "Over",
				"style":       style,
				"showDays":    false,
			})
			assert.Equal(t, "2030-01-01T00:00:00", attr(t, root, "data-countdown"))
			assert.Equal(t, "Over", attr(t, root, "data-expired-text"))
			assert.Equal(t, "false", attr(t, root, "data-show-days"))
			assert.Equal(t, style, attr(t, root, "data-style"))

			units := findAll(root, hasAttr("data-unit"))
			if style == "minimal" {
				assert.Empty(t, units)
				assert.Contains(t, markup.String([]*html.Node{root}), "00h 00m 00s")
				return
			}
			require.Len(t, units, 3)
			assert.Equal(t, "hours", attr(t, units[0], "data-unit"))
		})
	}
}

func TestCountdown_ContractKeepsEmptyValues(t *testing.T) {
	root := render(t, Countdown, document.Props{"targetDate": "", "style": ""})
	for _, key := range []string{"data-countdown", "data-style", "data-expired-text", "data-show-days"} {
		_, ok := markup.Attribute(root, key)
		assert.True(t, ok, "missing %s", key)
	}
	assert.Equal(t, "", attr(t, root, "data-countdown"))
}

func TestForm_Contract(t *testing.T) {
	root := render(t, Form, Form.DefaultProps)
	_, ok := markup.Attribute(root, "data-promo-form")
	assert.True(t, ok)
	assert.Equal(t, "Thanks! Your response has been recorded.", attr(t, root, "data-success-message"))

	inputs := findAll(root, func(n *html.Node) bool { return n.Data == "input" })
	require.Len(t, inputs, 2)
	assert.Equal(t, "text", attr(t, inputs[0], "type"))
	assert.Equal(t, "tel", attr(t, inputs[1], "type"))
	_, required := markup.Attribute(inputs[0], "required")
	assert.True(t, required)
}

func TestForm_SelectAndTextarea(t *testing.T) {
	root := render(t, Form, document.Props{"fields": []any{
		map[string]any{"name": "size", "type": "select", "label": "Size", "options": "S, M ,,L"},
		map[string]any{"name": "note", "type": "textarea", "label": "Note"},
	}})
	sel := find(root, "select")
	require.NotNil(t, sel)
	opts := findAll(sel, func(n *html.Node) bool { return n.Data == "option" })
	require.Len(t, opts, 4)
	assert.Equal(t, "M", attr(t, opts[2], "value"))
	assert.NotNil(t, find(root, "textarea"))
}

func TestFloatingCTA_Contract(t *testing.T) {
	root := render(t, FloatingCTA, document.Props{
		"href":     "tel:123",
		"linkType": "tel",
		"position": "bottom-right",
		"icon":     "phone",
	})
	_, ok := markup.Attribute(root, "data-floating-cta")
	assert.True(t, ok)
	assert.Equal(t, "bottom-right", attr(t, root, "data-position"))

	a := find(root, "a")
	require.NotNil(t, a)
	_, newTab := markup.Attribute(a, "target")
	assert.False(t, newTab, "tel links stay in the current tab")
	assert.Contains(t, markup.String([]*html.Node{root}), "📞")

	root = render(t, FloatingCTA, document.Props{"text": "Call", "position": ""})
	_, ok = markup.Attribute(root, "data-position")
	assert.True(t, ok)
}

// --- Individual renderers ---

func TestHeroImage_Link(t *testing.T) {
	plain := render(t, HeroImage, HeroImage.DefaultProps)
	assert.Equal(t, "img", plain.Data)
	assert.Contains(t, attr(t, plain, "style"), "height:400px")
	assert.Contains(t, attr(t, plain, "style"), "object-fit:cover")

	linked := render(t, HeroImage, document.Props{"src": "https://x", "link": "https://y"})
	assert.Equal(t, "a", linked.Data)
	assert.Equal(t, "noopener noreferrer", attr(t, linked, "rel"))
}

func TestImage_WidthMap(t *testing.T) {
	n := render(t, Image, document.Props{"src": "https://x", "width": "md", "borderRadius": 12})
	style := attr(t, n, "style")
	assert.Contains(t, style, "width:60%")
	assert.Contains(t, style, "border-radius:12px")

	n = render(t, Image, document.Props{"src": "https://x", "width": "giant"})
	assert.Contains(t, attr(t, n, "style"), "width:100%")
}

func TestText_TagAndEscaping(t *testing.T) {
	n := render(t, Text, document.Props{"content": "<b>hi</b>", "tag": "h2", "fontWeight": "bold"})
	assert.Equal(t, "h2", n.Data)
	assert.Contains(t, attr(t, n, "style"), "font-weight:700")
	assert.Contains(t, markup.String([]*html.Node{n}), "&lt;b&gt;hi&lt;/b&gt;")

	n = render(t, Text, document.Props{"tag": "script"})
	assert.Equal(t, "p", n.Data)
}

func TestButton_Variants(t *testing.T) {
	n := render(t, Button, document.Props{"variant": "outline", "backgroundColor": "#ff0000"})
	btn := find(n, "button")
	require.NotNil(t, btn)
	style := attr(t, btn, "style")
	assert.Contains(t, style, "border:2px solid #ff0000")
	assert.Contains(t, style, "background-color:transparent")

	n = render(t, Button, document.Props{"href": "https://x", "fullWidth": true, "size": "lg"})
	a := find(n, "a")
	require.NotNil(t, a)
	assert.Equal(t, "_blank", attr(t, a, "target"))
	assert.Contains(t, attr(t, a, "style"), "width:100%")
	assert.Contains(t, attr(t, a, "style"), "font-size:18px")
}

func TestSpacerAndDivider(t *testing.T) {
	n := render(t, Spacer, document.Props{"height": 48})
	assert.Equal(t, "height:48px", attr(t, n, "style"))
	assert.Equal(t, "true", attr(t, n, "aria-hidden"))

	n = render(t, Divider, document.Props{})
	assert.Equal(t, "hr", n.Data)
	assert.Contains(t, attr(t, n, "style"), "border-top:1px solid #e5e7eb")
}

func TestMenuAndFooter_Links(t *testing.T) {
	items := []any{
		map[string]any{"label": "Shop", "href": "/shop"},
		map[string]any{"label": "About", "href": "/about"},
	}
	menu := render(t, Menu, document.Props{"items": items, "logoSrc": "https://logo"})
	assert.Equal(t, "nav", menu.Data)
	links := findAll(menu, func(n *html.Node) bool { return n.Data == "a" })
	require.Len(t, links, 2)
	assert.Equal(t, "/about", attr(t, links[1], "href"))
	assert.NotNil(t, find(menu, "img"))

	footer := render(t, Footer, document.Props{"links": items[:1]})
	assert.Equal(t, "footer", footer.Data)
	assert.Len(t, findAll(footer, func(n *html.Node) bool { return n.Data == "a" }), 1)
	assert.Contains(t, markup.String([]*html.Node{footer}), "All rights reserved.")
}
