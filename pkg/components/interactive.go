package components

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/markup"
	"github.com/gnana997/promokit/pkg/schema"
)

// --- button ---

var buttonSchema = schema.Object(
	schema.F("text", "Label", schema.String().Default("Button")),
	schema.F("linkType", "Link type", schema.Enum(linkTypes...).Default("url")),
	schema.F("href", "Link", schema.String().Optional()),
	schema.F("variant", "Variant", schema.Enum("primary", "secondary", "outline").Default("primary")),
	schema.F("size", "Size", schema.Enum("sm", "md", "lg").Default("md")),
	schema.F("fullWidth", "Full width", schema.Bool().Default(false)),
	schema.F("backgroundColor", "Background", schema.Color().Default("#2563eb")),
	schema.F("textColor", "Text color", schema.Color().Default("#ffffff")),
	schema.F("borderRadius", "Corner radius", schema.Number().Min(0).Max(32).Default(8)),
)

var buttonSizes = map[string][2]string{
	"sm": {"8px 16px", "14px"},
	"md": {"12px 24px", "16px"},
	"lg": {"16px 32px", "18px"},
}

// Button is a call-to-action link or a plain button when no link is set.
var Button = &component.Definition{
	Type:         "button",
	DisplayName:  "Button",
	Icon:         "mouse-pointer",
	Category:     component.CategoryInteractive,
	Schema:       buttonSchema,
	DefaultProps: document.Props(buttonSchema.Defaults()),
	Render:       renderButton,
}

func renderButton(in document.Props) []*html.Node {
	p := component.Resolve(buttonSchema, in)
	bg := p.String("backgroundColor")
	outline := p.String("variant") == "outline"
	full := p.Bool("fullWidth", false)

	size, ok := buttonSizes[p.String("size")]
	if !ok {
		size = buttonSizes["md"]
	}
	display, width := "inline-block", "auto"
	if full {
		display, width = "block", "100%"
	}
	border, fill, color := "none", bg, p.String("textColor")
	if outline {
		border, fill, color = "2px solid "+bg, "transparent", bg
	}
	style := markup.CSS(
		"display", display,
		"width", width,
		"text-align", "center",
		"text-decoration", "none",
		"font-weight", "600",
		"cursor", "pointer",
		"border", border,
		"border-radius", markup.Px(p.Float("borderRadius", 8)),
		"padding", size[0],
		"font-size", size[1],
		"background-color", fill,
		"color", color,
		"margin", "8px auto",
		"box-sizing", "border-box",
	)

	label := markup.Text(p.Text("text"))
	var control *html.Node
	if href := p.String("href"); href != "" {
		control = anchor(href, p.String("linkType") == "url", style, label)
	} else {
		control = markup.El("button", markup.Attrs("type", "button", "style", style), label)
	}
	return nodes(markup.El("div", markup.Attrs("style", markup.CSS(
		"text-align", "center", "padding", "8px 16px",
	)), control))
}

// --- countdown ---

var countdownSchema = schema.Object(
	schema.F("targetDate", "Ends at", schema.Datetime().Default("2026-12-31T23:59:59")),
	schema.F("expiredText", "Text after end", schema.String().Default("This event has ended")),
	schema.F("style", "Style", schema.Enum("minimal", "card", "flip").Default("card")),
	schema.F("textColor", "Text color", schema.Color().Default("#111827")),
	schema.F("backgroundColor", "Background", schema.Color().Default("#f9fafb")),
	schema.F("showDays", "Show days", schema.Bool().Default(true)),
)

// countdownUnit pairs the data-unit key read by the page script with the
// visible label.
type countdownUnit struct {
	key, label, suffix string
}

var countdownUnits = []countdownUnit{
	{"days", "Days", "d"},
	{"hours", "Hours", "h"},
	{"minutes", "Min", "m"},
	{"seconds", "Sec", "s"},
}

// Countdown ticks towards a target date. The markup carries zeroed cells and
// the page script fills in the remaining time, or swaps in the expired text.
var Countdown = &component.Definition{
	Type:         "countdown",
	DisplayName:  "Countdown",
	Icon:         "clock",
	Category:     component.CategoryInteractive,
	Schema:       countdownSchema,
	DefaultProps: document.Props(countdownSchema.Defaults()),
	Render:       renderCountdown,
}

func renderCountdown(in document.Props) []*html.Node {
	p := component.Resolve(countdownSchema, in)
	style := p.String("style")
	textColor, bg := p.String("textColor"), p.String("backgroundColor")
	showDays := p.Bool("showDays", true)

	units := countdownUnits
	if !showDays {
		units = units[1:]
	}

	root := markup.El("div", markup.Attrs(
		"data-countdown!", p.String("targetDate"),
		"data-expired-text!", p.String("expiredText"),
		"data-show-days", markup.Bool(showDays),
		"data-style!", style,
		"style", markup.CSS(
			"padding", "24px 16px",
			"text-align", "center",
			"color", textColor,
			"background-color", bg,
		),
	))

	if style == "minimal" {
		var text []string
		for _, u := range units {
			text = append(text, "00"+u.suffix)
		}
		root.AppendChild(markup.El("p", markup.Attrs("style", markup.CSS(
			"font-size", "32px",
			"font-weight", "700",
			"letter-spacing", "2px",
			"font-variant-numeric", "tabular-nums",
		)), markup.Text(strings.Join(text, " "))))
		return nodes(root)
	}

	gap := "16px"
	cell := markup.CSS(
		"font-size", "36px",
		"font-weight", "700",
		"line-height", "1",
		"font-variant-numeric", "tabular-nums",
	)
	if style == "flip" {
		gap = "8px"
		tile, ink := textColor, bg
		if tile == "#111827" {
			tile = "#1f2937"
		}
		if ink == "#f9fafb" {
			ink = "#ffffff"
		}
		cell = markup.CSS(
			"width", "64px",
			"height", "72px",
			"background", tile,
			"color", ink,
			"border-radius", "8px",
			"display", "flex",
			"align-items", "center",
			"justify-content", "center",
			"font-size", "32px",
			"font-weight", "700",
			"font-variant-numeric", "tabular-nums",
		)
	}

	row := markup.El("div", markup.Attrs("style", markup.CSS(
		"display", "flex", "justify-content", "center", "gap", gap,
	)))
	for _, u := range units {
		tag := "span"
		if style == "flip" {
			tag = "div"
		}
		row.AppendChild(markup.El("div", markup.Attrs("style", markup.CSS(
			"display", "flex", "flex-direction", "column", "align-items", "center",
		)),
			markup.El(tag, markup.Attrs("data-unit", u.key, "style", cell), markup.Text("00")),
			markup.El("span", markup.Attrs("style", markup.CSS(
				"font-size", "12px", "margin-top", "4px", "opacity", "0.6",
			)), markup.Text(u.label)),
		))
	}
	root.AppendChild(row)
	return nodes(root)
}

// --- floating-cta ---

var floatingCTASchema = schema.Object(
	schema.F("text", "Label", schema.String().Default("Get started now")),
	schema.F("linkType", "Link type", schema.Enum(linkTypes...).Default("url")),
	schema.F("href", "Link", schema.String().Optional()),
	schema.F("position", "Position", schema.Enum("bottom-center", "bottom-right").Default("bottom-center")),
	schema.F("backgroundColor", "Background", schema.Color().Default("#2563eb")),
	schema.F("textColor", "Text color", schema.Color().Default("#ffffff")),
	schema.F("borderRadius", "Corner radius", schema.Number().Min(0).Max(32).Default(24)),
	schema.F("icon", "Icon", schema.Enum("none", "cart", "phone", "arrow", "chat").Default("none")),
)

var ctaIcons = map[string]string{
	"cart":  "🛒",
	"phone": "📞",
	"arrow": "→",
	"chat":  "💬",
}

// FloatingCTA is a call-to-action the page script pins to the viewport.
var FloatingCTA = &component.Definition{
	Type:         "floating-cta",
	DisplayName:  "Floating button",
	Icon:         "target",
	Category:     component.CategoryInteractive,
	Schema:       floatingCTASchema,
	DefaultProps: document.Props(floatingCTASchema.Defaults()),
	Render:       renderFloatingCTA,
}

func renderFloatingCTA(in document.Props) []*html.Node {
	p := component.Resolve(floatingCTASchema, in)
	position := p.String("position")
	align := "right"
	if position == "bottom-center" {
		align = "center"
	}
	style := markup.CSS(
		"display", "inline-flex",
		"align-items", "center",
		"justify-content", "center",
		"gap", "8px",
		"padding", "14px 28px",
		"background-color", p.String("backgroundColor"),
		"color", p.String("textColor"),
		"border-radius", markup.Px(p.Float("borderRadius", 24)),
		"font-size", "16px",
		"font-weight", "600",
		"text-decoration", "none",
		"cursor", "pointer",
		"border", "none",
		"box-shadow", "0 4px 14px rgba(0,0,0,0.2)",
		"white-space", "nowrap",
	)

	var content []*html.Node
	if icon, ok := ctaIcons[p.String("icon")]; ok {
		content = append(content, markup.El("span", nil, markup.Text(icon)))
	}
	content = append(content, markup.Text(p.Text("text")))

	var control *html.Node
	if href := p.String("href"); href != "" {
		control = anchor(href, p.String("linkType") == "url", style, content...)
	} else {
		control = markup.El("button", markup.Attrs("type", "button", "style", style), content...)
	}
	return nodes(markup.El("div", markup.Attrs(
		"data-floating-cta!", "",
		"data-position!", position,
		"style", markup.CSS("text-align", align, "padding", "16px"),
	), control))
}

// --- form ---

var formField = schema.Object(
	schema.F("name", "Field key", schema.String()),
	schema.F("type", "Input type", schema.EnumOf(
		schema.Option{Value: "text", Label: "Text"},
		schema.Option{Value: "email", Label: "Email"},
		schema.Option{Value: "phone", Label: "Phone"},
		schema.Option{Value: "select", Label: "Dropdown"},
		schema.Option{Value: "textarea", Label: "Long text"},
	)),
	schema.F("label", "Label", schema.String()),
	schema.F("placeholder", "Placeholder", schema.String().Default("")),
	schema.F("required", "Required", schema.Bool().Default(false)),
	schema.F("options", "Options", schema.String().Default("")).Describe("Comma separated, dropdown only"),
)

var formSchema = schema.Object(
	schema.F("fields", "Fields", schema.Array(formField).
		Template(map[string]any{
			"name": "field", "type": "text", "label": "New field",
			"placeholder": "", "required": false, "options": "",
		}).
		Default([]any{
			map[string]any{"name": "name", "type": "text", "label": "Name", "placeholder": "Jane Doe", "required": true, "options": ""},
			map[string]any{"name": "phone", "type": "phone", "label": "Phone", "placeholder": "555-0100", "required": true, "options": ""},
		})),
	schema.F("submitText", "Submit label", schema.String().Default("Submit")),
	schema.F("successMessage", "Success message", schema.String().Default("Thanks! Your response has been recorded.")),
	schema.F("backgroundColor", "Background", schema.Color().Default("#ffffff")),
	schema.F("textColor", "Text color", schema.Color().Default("#111827")),
)

// Form collects visitor input. Submission is wired by the page script, which
// finds the wrapper through data-promo-form.
var Form = &component.Definition{
	Type:         "form",
	DisplayName:  "Form",
	Icon:         "clipboard",
	Category:     component.CategoryInteractive,
	Schema:       formSchema,
	DefaultProps: document.Props(formSchema.Defaults()),
	Render:       renderForm,
}

func renderForm(in document.Props) []*html.Node {
	p := component.Resolve(formSchema, in)

	form := markup.El("form", markup.Attrs("style", markup.CSS("max-width", "480px", "margin", "0 auto")))
	for _, f := range p.Records("fields") {
		label := markup.El("label", markup.Attrs("style", markup.CSS(
			"display", "block",
			"font-size", "14px",
			"font-weight", "500",
			"margin-bottom", "6px",
		)), markup.Text(f.Text("label")))
		if f.Bool("required", false) {
			label.AppendChild(markup.El("span", markup.Attrs("style", markup.CSS(
				"color", "#dc2626", "margin-left", "2px",
			)), markup.Text("*")))
		}
		form.AppendChild(markup.El("div", markup.Attrs("style", markup.CSS("margin-bottom", "16px")),
			label, formInput(f)))
	}
	form.AppendChild(markup.El("button", markup.Attrs(
		"type", "submit",
		"style", markup.CSS(
			"width", "100%",
			"padding", "12px",
			"background-color", "#2563eb",
			"color", "#ffffff",
			"border", "none",
			"border-radius", "8px",
			"font-size", "16px",
			"font-weight", "600",
			"cursor", "pointer",
		),
	), markup.Text(p.Text("submitText"))))

	return nodes(markup.El("div", markup.Attrs(
		"data-promo-form!", "",
		"data-success-message!", p.String("successMessage"),
		"style", markup.CSS(
			"padding", "24px 16px",
			"background-color", p.String("backgroundColor"),
			"color", p.String("textColor"),
		),
	), form))
}

var formInputBase = markup.CSS(
	"width", "100%",
	"padding", "10px 12px",
	"font-size", "14px",
	"border", "1px solid #d1d5db",
	"border-radius", "8px",
	"outline", "none",
	"box-sizing", "border-box",
)

func formInput(f document.Props) *html.Node {
	name := f.String("name")
	placeholder := f.String("placeholder")
	attrs := func(kv ...string) []html.Attribute {
		a := markup.Attrs(kv...)
		if f.Bool("required", false) {
			a = append(a, markup.Attr("required", ""))
		}
		return a
	}

	switch f.String("type") {
	case "textarea":
		return markup.El("textarea", attrs(
			"name", name,
			"placeholder", placeholder,
			"rows", "3",
			"style", formInputBase+";resize:vertical",
		))
	case "select":
		if placeholder == "" {
			placeholder = "Select…"
		}
		sel := markup.El("select", attrs("name", name, "style", formInputBase),
			markup.El("option", markup.Attrs("value!", ""), markup.Text(placeholder)))
		for _, opt := range strings.Split(f.String("options"), ",") {
			if opt = strings.TrimSpace(opt); opt != "" {
				sel.AppendChild(markup.El("option", markup.Attrs("value", opt), markup.Text(opt)))
			}
		}
		return sel
	}

	inputType := "text"
	switch f.String("type") {
	case "email":
		inputType = "email"
	case "phone":
		inputType = "tel"
	}
	return markup.El("input", attrs(
		"type", inputType,
		"name", name,
		"placeholder", placeholder,
		"style", formInputBase,
	))
}
