package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/promokit/pkg/document"
)

func TestAnalyzePage_BasicStructure(t *testing.T) {
	d := doc(
		document.Instance{ID: "1", Type: "menu", Props: document.Props{"logoText": "X", "items": []any{}}},
		document.Instance{ID: "2", Type: "hero-image", Props: document.Props{"src": "https://x"}},
		document.Instance{ID: "3", Type: "carousel", Props: document.Props{}},
		document.Instance{ID: "4", Type: "old-widget", Props: document.Props{"a": 1}},
	)

	analysis := testValidator().AnalyzePage(d)
	require.Len(t, analysis.Components, 4)

	assert.Equal(t, "Menu / header", analysis.Components[0].Name)
	assert.Equal(t, []string{"items", "logoText"}, analysis.Components[0].Props)
	assert.Equal(t, "media", analysis.Components[1].Category)

	assert.Equal(t, map[string]int{"navigation": 1, "media": 2}, analysis.Categories)
	assert.Equal(t, 1, analysis.Unknown)
	assert.Empty(t, analysis.Components[3].Name)
}

func TestAnalyzePage_Empty(t *testing.T) {
	analysis := testValidator().AnalyzePage(document.New())
	assert.Empty(t, analysis.Components)
	assert.NotNil(t, analysis.Components)
	assert.Equal(t, 0, analysis.Unknown)
}
