package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(comps []Component) []string {
	out := make([]string, len(comps))
	for i, c := range comps {
		out[i] = c.Type
	}
	return out
}

// --- ListComponents ---

func TestListComponents_NoFilter(t *testing.T) {
	assert.Len(t, testQueryService().ListComponents("", ""), 12)
}

func TestListComponents_ByCategory(t *testing.T) {
	got := testQueryService().ListComponents("layout", "")
	assert.Equal(t, []string{"spacer", "divider"}, types(got))
}

func TestListComponents_ByKeyword(t *testing.T) {
	got := testQueryService().ListComponents("", "IMAGE")
	assert.Equal(t, []string{"hero-image", "image"}, types(got))
}

func TestListComponents_ByCategoryAndKeyword(t *testing.T) {
	got := testQueryService().ListComponents("interactive", "floating")
	assert.Equal(t, []string{"floating-cta"}, types(got))
}

func TestListComponents_NoMatch(t *testing.T) {
	got := testQueryService().ListComponents("media", "countdown")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, testQueryService().ListComponents("widgets", ""))
}

// --- GetComponent ---

func TestGetComponent(t *testing.T) {
	qs := testQueryService()
	c, ok := qs.GetComponent("form")
	require.True(t, ok)
	assert.Equal(t, "Form", c.Name)

	_, ok = qs.GetComponent("Form")
	assert.False(t, ok)
}

// --- SearchComponents ---

func TestSearchComponents_Reasons(t *testing.T) {
	qs := testQueryService()

	reasons := map[string]string{}
	for _, r := range qs.SearchComponents("menu") {
		reasons[r.Component.Type] = r.MatchReason
	}
	assert.Equal(t, "type", reasons["menu"])

	results := qs.SearchComponents("header")
	require.Len(t, results, 1)
	assert.Equal(t, "name", results[0].MatchReason)

	results = qs.SearchComponents("autoplay")
	require.Len(t, results, 1)
	assert.Equal(t, "carousel", results[0].Component.Type)
	assert.Equal(t, "prop:autoPlay", results[0].MatchReason)
}

func TestSearchComponents_EmptyQuery(t *testing.T) {
	assert.Nil(t, testQueryService().SearchComponents("  "))
}
