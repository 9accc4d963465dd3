package components

import (
	"golang.org/x/net/html"

	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/markup"
	"github.com/gnana997/promokit/pkg/schema"
)

// navLink is the element shape shared by menu items and footer links.
func navLink() *schema.Type {
	return schema.Array(schema.Object(
		schema.F("label", "Label", schema.String()),
		schema.F("href", "Link", schema.String()),
	)).Template(map[string]any{"label": "New item", "href": "#"}).Default([]any{})
}

var menuSchema = schema.Object(
	schema.F("logoSrc", "Logo", schema.ImageURL().Optional()),
	schema.F("logoText", "Brand name", schema.String().Default("Brand")),
	schema.F("items", "Menu items", navLink()),
	schema.F("backgroundColor", "Background", schema.Color().Default("#ffffff")),
	schema.F("textColor", "Text color", schema.Color().Default("#111827")),
)

// Menu is the page header bar with a logo and links.
var Menu = &component.Definition{
	Type:         "menu",
	DisplayName:  "Menu / header",
	Icon:         "menu",
	Category:     component.CategoryNavigation,
	Schema:       menuSchema,
	DefaultProps: document.Props(menuSchema.Defaults()),
	Render:       renderMenu,
}

func renderMenu(in document.Props) []*html.Node {
	p := component.Resolve(menuSchema, in)
	textColor := p.String("textColor")

	brand := markup.El("div", markup.Attrs("style", markup.CSS(
		"display", "flex", "align-items", "center", "gap", "8px",
	)))
	if logo := p.String("logoSrc"); logo != "" {
		brand.AppendChild(markup.El("img", markup.Attrs(
			"src", logo,
			"alt!", p.String("logoText"),
			"style", markup.CSS("height", "32px", "width", "auto"),
		)))
	}
	brand.AppendChild(markup.El("span", markup.Attrs("style", markup.CSS(
		"font-weight", "700", "font-size", "18px", "color", textColor,
	)), markup.Text(p.Text("logoText"))))

	nav := markup.El("nav", markup.Attrs("style", markup.CSS(
		"display", "flex",
		"align-items", "center",
		"justify-content", "space-between",
		"padding", "12px 16px",
		"background-color", p.String("backgroundColor"),
		"border-bottom", "1px solid #e5e7eb",
	)), brand)

	if items := p.Records("items"); len(items) > 0 {
		list := markup.El("div", markup.Attrs("style", markup.CSS("display", "flex", "gap", "16px")))
		for _, it := range items {
			list.AppendChild(anchor(it.String("href"), false, markup.CSS(
				"color", textColor,
				"text-decoration", "none",
				"font-size", "14px",
				"font-weight", "500",
			), markup.Text(it.Text("label"))))
		}
		nav.AppendChild(list)
	}
	return nodes(nav)
}

var footerSchema = schema.Object(
	schema.F("text", "Text", schema.String().Default("© 2026 Company. All rights reserved.")),
	schema.F("links", "Links", navLink()),
	schema.F("backgroundColor", "Background", schema.Color().Default("#111827")),
	schema.F("textColor", "Text color", schema.Color().Default("#9ca3af")),
)

// Footer closes the page with a line of text and optional links.
var Footer = &component.Definition{
	Type:         "footer",
	DisplayName:  "Footer",
	Icon:         "align-bottom",
	Category:     component.CategoryNavigation,
	Schema:       footerSchema,
	DefaultProps: document.Props(footerSchema.Defaults()),
	Render:       renderFooter,
}

func renderFooter(in document.Props) []*html.Node {
	p := component.Resolve(footerSchema, in)
	textColor := p.String("textColor")

	root := markup.El("footer", markup.Attrs("style", markup.CSS(
		"background-color", p.String("backgroundColor"),
		"padding", "24px 16px",
		"text-align", "center",
	)))
	if links := p.Records("links"); len(links) > 0 {
		row := markup.El("div", markup.Attrs("style", markup.CSS(
			"display", "flex",
			"justify-content", "center",
			"gap", "16px",
			"margin-bottom", "12px",
		)))
		for _, l := range links {
			row.AppendChild(anchor(l.String("href"), false, markup.CSS(
				"color", textColor,
				"text-decoration", "none",
				"font-size", "14px",
			), markup.Text(l.Text("label"))))
		}
		root.AppendChild(row)
	}
	root.AppendChild(markup.El("p", markup.Attrs("style", markup.CSS(
		"color", textColor, "font-size", "12px", "margin", "0",
	)), markup.Text(p.Text("text"))))
	return nodes(root)
}
