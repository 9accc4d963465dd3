package components

import (
	"golang.org/x/net/html"

	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/markup"
	"github.com/gnana997/promokit/pkg/schema"
)

var spacerSchema = schema.Object(
	schema.F("height", "Height", schema.Number().Min(4).Max(200).Default(32)),
)

// Spacer is empty vertical space.
var Spacer = &component.Definition{
	Type:         "spacer",
	DisplayName:  "Spacer",
	Icon:         "minus",
	Category:     component.CategoryLayout,
	Schema:       spacerSchema,
	DefaultProps: document.Props(spacerSchema.Defaults()),
	Render: func(in document.Props) []*html.Node {
		p := component.Resolve(spacerSchema, in)
		return nodes(markup.El("div", markup.Attrs(
			"style", markup.CSS("height", markup.Px(p.Float("height", 32))),
			"aria-hidden", "true",
		)))
	},
}

var dividerSchema = schema.Object(
	schema.F("color", "Color", schema.Color().Default("#e5e7eb")),
	schema.F("thickness", "Thickness", schema.Number().Min(1).Max(8).Default(1)),
	schema.F("marginY", "Vertical margin", schema.Number().Min(0).Max(64).Default(16)),
)

// Divider is a horizontal rule.
var Divider = &component.Definition{
	Type:         "divider",
	DisplayName:  "Divider",
	Icon:         "minus",
	Category:     component.CategoryLayout,
	Schema:       dividerSchema,
	DefaultProps: document.Props(dividerSchema.Defaults()),
	Render: func(in document.Props) []*html.Node {
		p := component.Resolve(dividerSchema, in)
		return nodes(markup.El("hr", markup.Attrs("style", markup.CSS(
			"border", "none",
			"border-top", markup.Px(p.Float("thickness", 1))+" solid "+p.String("color"),
			"margin", markup.Px(p.Float("marginY", 16))+" 16px",
		))))
	},
}
