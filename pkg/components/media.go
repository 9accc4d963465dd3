package components

import (
	"fmt"
	"hash/fnv"

	"golang.org/x/net/html"

	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/markup"
	"github.com/gnana997/promokit/pkg/schema"
)

// --- hero-image ---

var heroImageSchema = schema.Object(
	schema.F("src", "Image", schema.ImageURL()),
	schema.F("alt", "Alt text", schema.String().Default("")),
	schema.F("height", "Height", schema.Number().Min(100).Max(800).Default(400)),
	schema.F("objectFit", "Fit", schema.EnumOf(
		schema.Option{Value: "cover", Label: "Cover"},
		schema.Option{Value: "contain", Label: "Contain"},
		schema.Option{Value: "fill", Label: "Fill"},
	).Default("cover")),
	schema.F("link", "Link", schema.String().Optional()),
)

// HeroImage is a full-width banner image.
var HeroImage = &component.Definition{
	Type:        "hero-image",
	DisplayName: "Hero image",
	Icon:        "image",
	Category:    component.CategoryMedia,
	Schema:      heroImageSchema,
	DefaultProps: document.Props{
		"src":       "https://placehold.co/800x400/e2e8f0/94a3b8?text=Hero+Image",
		"alt":       "",
		"height":    400,
		"objectFit": "cover",
	},
	Render: renderHeroImage,
}

func renderHeroImage(in document.Props) []*html.Node {
	p := component.Resolve(heroImageSchema, in)
	img := markup.El("img", markup.Attrs(
		"src", p.String("src"),
		"alt!", p.String("alt"),
		"style", markup.CSS(
			"width", "100%",
			"height", markup.Px(p.Float("height", 400)),
			"object-fit", p.String("objectFit"),
			"display", "block",
		),
		"loading", "eager",
	))
	if link := p.String("link"); link != "" {
		return nodes(anchor(link, true, "", img))
	}
	return nodes(img)
}

// --- image ---

var imageSchema = schema.Object(
	schema.F("src", "Image", schema.ImageURL()),
	schema.F("alt", "Alt text", schema.String().Default("")),
	schema.F("width", "Width", schema.EnumOf(
		schema.Option{Value: "full", Label: "Full"},
		schema.Option{Value: "lg", Label: "Large"},
		schema.Option{Value: "md", Label: "Medium"},
		schema.Option{Value: "sm", Label: "Small"},
	).Default("full")),
	schema.F("borderRadius", "Corner radius", schema.Number().Min(0).Max(32).Default(0)),
	schema.F("link", "Link", schema.String().Optional()),
)

var imageWidths = map[string]string{
	"full": "100%",
	"lg":   "80%",
	"md":   "60%",
	"sm":   "40%",
}

// Image is an inline image with a width preset.
var Image = &component.Definition{
	Type:        "image",
	DisplayName: "Image",
	Icon:        "photo",
	Category:    component.CategoryMedia,
	Schema:      imageSchema,
	DefaultProps: document.Props{
		"src":          "https://placehold.co/600x400/e2e8f0/94a3b8?text=Image",
		"alt":          "",
		"width":        "full",
		"borderRadius": 0,
	},
	Render: renderImage,
}

func renderImage(in document.Props) []*html.Node {
	p := component.Resolve(imageSchema, in)
	img := markup.El("img", markup.Attrs(
		"src", p.String("src"),
		"alt!", p.String("alt"),
		"style", markup.CSS(
			"width", pick(imageWidths, p.String("width"), "full"),
			"border-radius", markup.Px(p.Float("borderRadius", 0)),
			"display", "block",
			"margin", "0 auto",
		),
		"loading", "lazy",
	))
	if link := p.String("link"); link != "" {
		return nodes(anchor(link, true, "", img))
	}
	return nodes(img)
}

// --- carousel ---

var carouselSlide = schema.Object(
	schema.F("src", "Image", schema.ImageURL()),
	schema.F("alt", "Alt text", schema.String().Default("")),
	schema.F("link", "Link", schema.String().Optional()),
)

var carouselSchema = schema.Object(
	schema.F("images", "Slides", schema.Array(carouselSlide).
		Template(map[string]any{"src": "https://placehold.co/800x400", "alt": "", "link": ""}).
		Default([]any{
			map[string]any{"src": "https://placehold.co/800x400/e2e8f0/94a3b8?text=Slide+1", "alt": ""},
			map[string]any{"src": "https://placehold.co/800x400/dbeafe/3b82f6?text=Slide+2", "alt": ""},
			map[string]any{"src": "https://placehold.co/800x400/fef3c7/f59e0b?text=Slide+3", "alt": ""},
		})),
	schema.F("height", "Height", schema.Number().Min(100).Max(800).Default(400)),
	schema.F("autoPlay", "Auto play", schema.Bool().Default(true)),
	schema.F("autoPlayInterval", "Interval (ms)", schema.Number().Min(1000).Max(10000).Default(3000)),
	schema.F("showDots", "Show dots", schema.Bool().Default(true)),
)

// Carousel is a swipeable slide show. Autoplay is driven by the page script
// through data-autoplay and data-interval.
var Carousel = &component.Definition{
	Type:         "carousel",
	DisplayName:  "Carousel",
	Icon:         "layers",
	Category:     component.CategoryMedia,
	Schema:       carouselSchema,
	DefaultProps: document.Props(carouselSchema.Defaults()),
	Render:       renderCarousel,
}

func renderCarousel(in document.Props) []*html.Node {
	p := component.Resolve(carouselSchema, in)
	slides := p.Records("images")
	height := markup.Px(p.Float("height", 400))

	track := markup.El("div", markup.Attrs(
		"class", "carousel-track",
		"style", markup.CSS(
			"display", "flex",
			"overflow-x", "auto",
			"scroll-snap-type", "x mandatory",
			"scroll-behavior", "smooth",
			"-webkit-overflow-scrolling", "touch",
			"-ms-overflow-style", "none",
			"scrollbar-width", "none",
		),
	))
	for i, s := range slides {
		loading := "lazy"
		if i == 0 {
			loading = "eager"
		}
		img := markup.El("img", markup.Attrs(
			"src", s.String("src"),
			"alt!", s.String("alt"),
			"style", markup.CSS(
				"flex", "0 0 100%",
				"width", "100%",
				"height", height,
				"object-fit", "cover",
				"scroll-snap-align", "start",
			),
			"loading", loading,
		))
		if link := s.String("link"); link != "" {
			track.AppendChild(anchor(link, true, markup.CSS("flex", "0 0 100%"), img))
			continue
		}
		track.AppendChild(img)
	}

	root := markup.El("div", markup.Attrs(
		"data-carousel", carouselID(slides),
		"data-autoplay", markup.Bool(p.Bool("autoPlay", true)),
		"data-interval", markup.Num(p.Float("autoPlayInterval", 3000)),
		"style", markup.CSS("position", "relative", "overflow", "hidden"),
	), track)

	if p.Bool("showDots", true) && len(slides) > 1 {
		dots := markup.El("div", markup.Attrs("style", markup.CSS(
			"position", "absolute",
			"bottom", "12px",
			"left", "50%",
			"transform", "translateX(-50%)",
			"display", "flex",
			"gap", "8px",
		)))
		for i := range slides {
			color := "rgba(255,255,255,0.5)"
			if i == 0 {
				color = "#fff"
			}
			dots.AppendChild(markup.El("span", markup.Attrs("style", markup.CSS(
				"width", "8px",
				"height", "8px",
				"border-radius", "50%",
				"background-color", color,
				"transition", "background-color 0.3s",
			))))
		}
		root.AppendChild(dots)
	}
	return nodes(root)
}

// carouselID derives a stable element id from the slide sources, so equal
// props always render to equal markup.
func carouselID(slides []document.Props) string {
	h := fnv.New32a()
	for _, s := range slides {
		h.Write([]byte(s.String("src")))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("carousel-%06x", h.Sum32()&0xffffff)
}
