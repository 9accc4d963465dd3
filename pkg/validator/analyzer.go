package validator

import (
	"sort"

	"github.com/gnana997/promokit/pkg/document"
)

// PageAnalysis is a compact structural summary of a document, enough for
// an agent to make targeted edits without reading every prop value.
type PageAnalysis struct {
	Components []ComponentSummary `json:"components"`
	Categories map[string]int     `json:"categories"`
	Unknown    int                `json:"unknown"`
}

// ComponentSummary describes one instance.
type ComponentSummary struct {
	Index    int      `json:"index"`
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Name     string   `json:"name,omitempty"`
	Category string   `json:"category,omitempty"`
	Props    []string `json:"props"`
}

// AnalyzePage summarizes doc. Instances of unregistered types are listed
// without a name or category and counted in Unknown.
func (v *Validator) AnalyzePage(doc document.Document) *PageAnalysis {
	out := &PageAnalysis{
		Components: make([]ComponentSummary, 0, len(doc.Components)),
		Categories: make(map[string]int),
	}
	for i, inst := range doc.Components {
		props := make([]string, 0, len(inst.Props))
		for k := range inst.Props {
			props = append(props, k)
		}
		sort.Strings(props)

		s := ComponentSummary{Index: i, ID: inst.ID, Type: inst.Type, Props: props}
		if def, ok := v.reg.Get(inst.Type); ok {
			s.Name = def.DisplayName
			s.Category = string(def.Category)
			out.Categories[s.Category]++
		} else {
			out.Unknown++
		}
		out.Components = append(out.Components, s)
	}
	return out
}
