// Package components holds the built-in promotion page components.
//
// Every definition is declared once as a package-level value and is never
// mutated. Render functions default missing props from their schema and stay
// free of I/O, clock reads and randomness; interactive behaviour is declared
// through data-* attributes that the published page's scripts pick up.
package components

import (
	"golang.org/x/net/html"

	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/markup"
)

// All returns the built-in definitions in registration order.
func All() []*component.Definition {
	return []*component.Definition{
		HeroImage,
		Image,
		Text,
		Button,
		Spacer,
		Divider,
		Carousel,
		Menu,
		Footer,
		Countdown,
		FloatingCTA,
		Form,
	}
}

// Register adds every built-in definition to reg. Calling it again replaces
// the definitions in place, so it is safe to run more than once.
func Register(reg *component.Registry) {
	reg.MustRegister(All()...)
}

// NewRegistry returns a registry holding the built-in definitions.
func NewRegistry() *component.Registry {
	reg := component.NewRegistry()
	Register(reg)
	return reg
}

// Link types shared by button and floating CTA.
var linkTypes = []string{"url", "appScheme", "tel", "sms", "mailto"}

// anchor wraps children in a link. External URLs open in a new tab; app
// schemes, tel:, sms: and mailto: links stay in the current one.
func anchor(href string, newTab bool, style string, children ...*html.Node) *html.Node {
	attrs := markup.Attrs("href", href, "style", style)
	if newTab {
		attrs = append(attrs,
			markup.Attr("target", "_blank"),
			markup.Attr("rel", "noopener noreferrer"),
		)
	}
	return markup.El("a", attrs, children...)
}

// pick looks key up in m and falls back to the entry for def.
func pick(m map[string]string, key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return m[def]
}

func nodes(n ...*html.Node) []*html.Node {
	return n
}
