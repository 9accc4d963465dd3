package components

import (
	"slices"

	"golang.org/x/net/html"

	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/markup"
	"github.com/gnana997/promokit/pkg/schema"
)

var textTags = []string{"p", "h1", "h2", "h3", "span"}

var textSchema = schema.Object(
	schema.F("content", "Text", schema.Multiline().Default("Enter your text")),
	schema.F("tag", "Tag", schema.EnumOf(
		schema.Option{Value: "p", Label: "Paragraph"},
		schema.Option{Value: "h1", Label: "Heading 1"},
		schema.Option{Value: "h2", Label: "Heading 2"},
		schema.Option{Value: "h3", Label: "Heading 3"},
		schema.Option{Value: "span", Label: "Inline"},
	).Default("p")),
	schema.F("fontSize", "Font size", schema.Number().Min(10).Max(72).Default(16)),
	schema.F("fontWeight", "Font weight", schema.Enum("normal", "medium", "semibold", "bold").Default("normal")),
	schema.F("textAlign", "Alignment", schema.Enum("left", "center", "right").Default("left")),
	schema.F("color", "Text color", schema.Color().Default("#000000")),
	schema.F("backgroundColor", "Background", schema.Color().Optional()),
	schema.F("paddingX", "Horizontal padding", schema.Number().Min(0).Max(64).Default(16)),
	schema.F("paddingY", "Vertical padding", schema.Number().Min(0).Max(64).Default(8)),
)

var fontWeights = map[string]string{
	"normal":   "400",
	"medium":   "500",
	"semibold": "600",
	"bold":     "700",
}

// Text is a paragraph or heading.
var Text = &component.Definition{
	Type:         "text",
	DisplayName:  "Text",
	Icon:         "type",
	Category:     component.CategoryContent,
	Schema:       textSchema,
	DefaultProps: document.Props(textSchema.Defaults()),
	Render:       renderText,
}

func renderText(in document.Props) []*html.Node {
	p := component.Resolve(textSchema, in)
	tag := p.String("tag")
	if !slices.Contains(textTags, tag) {
		tag = "p"
	}
	style := markup.CSS(
		"font-size", markup.Px(p.Float("fontSize", 16)),
		"font-weight", pick(fontWeights, p.String("fontWeight"), "normal"),
		"text-align", p.String("textAlign"),
		"color", p.String("color"),
		"background-color", p.String("backgroundColor"),
		"padding", markup.Px(p.Float("paddingY", 8))+" "+markup.Px(p.Float("paddingX", 16)),
		"margin", "0",
		"line-height", "1.5",
		"white-space", "pre-line",
	)
	return nodes(markup.El(tag, markup.Attrs("style", style), markup.Text(p.Text("content"))))
}
