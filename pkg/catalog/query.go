package catalog

import (
	"strings"

	"github.com/gnana997/promokit/pkg/component"
)

// ComponentSearchResult holds a component match with the reason it matched.
type ComponentSearchResult struct {
	Component   *Component
	MatchReason string
}

// QueryService provides read-only query methods over a catalog.
type QueryService struct {
	Catalog *Catalog
	Index   *CatalogIndex
}

// NewQueryService creates a QueryService from a catalog and its index.
func NewQueryService(cat *Catalog, idx *CatalogIndex) *QueryService {
	return &QueryService{Catalog: cat, Index: idx}
}

// FromRegistry snapshots reg and returns a ready-to-use QueryService.
func FromRegistry(reg *component.Registry) *QueryService {
	cat := Build(reg)
	return NewQueryService(cat, cat.BuildIndex())
}

// ListCategories returns the non-empty categories in palette order.
func (q *QueryService) ListCategories() []Category {
	return q.Catalog.Categories
}

// ListComponents returns components filtered by category and/or keyword.
// Both filters are optional (pass "" to skip) and combine with AND logic.
// The keyword matches case-insensitively against type and display name.
func (q *QueryService) ListComponents(category, keyword string) []Component {
	var candidates []*Component

	if category != "" {
		candidates = q.Index.ComponentsByCategory[category]
	} else {
		candidates = make([]*Component, 0, len(q.Catalog.Components))
		for i := range q.Catalog.Components {
			candidates = append(candidates, &q.Catalog.Components[i])
		}
	}

	keyword = strings.ToLower(keyword)
	result := make([]Component, 0, len(candidates))
	for _, comp := range candidates {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(comp.Type), keyword) &&
			!strings.Contains(strings.ToLower(comp.Name), keyword) {
			continue
		}
		result = append(result, *comp)
	}
	return result
}

// GetComponent looks up a component by type name.
func (q *QueryService) GetComponent(typ string) (*Component, bool) {
	comp, ok := q.Index.ComponentByType[typ]
	return comp, ok
}

// SearchComponents performs a case-insensitive search across type names,
// display names and prop names. Each component is reported once with the
// first reason it matched.
func (q *QueryService) SearchComponents(query string) []ComponentSearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var results []ComponentSearchResult
	for i := range q.Catalog.Components {
		comp := &q.Catalog.Components[i]
		if reason := matchReason(comp, query); reason != "" {
			results = append(results, ComponentSearchResult{Component: comp, MatchReason: reason})
		}
	}
	return results
}

func matchReason(comp *Component, query string) string {
	if strings.Contains(strings.ToLower(comp.Type), query) {
		return "type"
	}
	if strings.Contains(strings.ToLower(comp.Name), query) {
		return "name"
	}
	for _, p := range comp.Props {
		if strings.Contains(strings.ToLower(p.Name), query) || strings.Contains(strings.ToLower(p.Label), query) {
			return "prop:" + p.Name
		}
	}
	return ""
}
