package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/promokit/pkg/components"
	"github.com/gnana997/promokit/pkg/document"
)

func testValidator() *Validator {
	return NewValidator(components.NewRegistry())
}

func filterByRule(vs []Violation, rule string) []Violation {
	var out []Violation
	for _, v := range vs {
		if v.Rule == rule {
			out = append(out, v)
		}
	}
	return out
}

func doc(instances ...document.Instance) document.Document {
	d := document.New()
	d.Components = append(d.Components, instances...)
	return d
}

// --- ValidateDocument ---

func TestValidateDocument_Clean(t *testing.T) {
	reg := components.NewRegistry()
	d := document.New()
	for _, def := range reg.List() {
		in, _ := reg.NewInstance(def.Type)
		in.Props["src"] = "https://x"
		d.Components = append(d.Components, in)
	}
	// Only the image types declare src; the extra key elsewhere is ignored.
	result := NewValidator(reg).ValidateDocument(d, false)
	assert.True(t, result.Valid)
	assert.Equal(t, "no issues found", result.Summary)
	assert.Empty(t, result.Violations)
}

func TestValidateDocument_StructuralErrors(t *testing.T) {
	d := doc(
		document.Instance{ID: "a", Type: "spacer", Props: document.Props{}},
		document.Instance{ID: "a", Type: "divider", Props: document.Props{}},
		document.Instance{ID: "", Type: "spacer"},
		document.Instance{ID: "c"},
	)
	d.Version = 2

	result := testValidator().ValidateDocument(d, false)
	assert.False(t, result.Valid)
	require.Len(t, filterByRule(result.Violations, RuleUnsupportedVersion), 1)

	dup := filterByRule(result.Violations, RuleDuplicateID)
	require.Len(t, dup, 1)
	assert.Equal(t, 1, dup[0].Index)
	assert.Contains(t, dup[0].Message, "components[0]")

	assert.Len(t, filterByRule(result.Violations, RuleMissingID), 1)
	assert.Len(t, filterByRule(result.Violations, RuleMissingType), 1)
	assert.Equal(t, "4 errors, 0 warnings", result.Summary)
	assert.Len(t, result.Errors(), 4)
	assert.Nil(t, result.Fixed)
}

func TestValidateDocument_UnknownTypeIsWarning(t *testing.T) {
	result := testValidator().ValidateDocument(doc(
		document.Instance{ID: "x", Type: "legacy-banner", Props: document.Props{}},
	), false)

	assert.True(t, result.Valid)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, RuleUnknownComponent, result.Violations[0].Rule)
	assert.Equal(t, SeverityWarning, result.Violations[0].Severity)
	assert.Equal(t, "0 errors, 1 warning", result.Summary)
}

func TestValidateDocument_PropWarnings(t *testing.T) {
	result := testValidator().ValidateDocument(doc(
		document.Instance{ID: "h", Type: "hero-image", Props: document.Props{
			"height":    float64(2000),
			"objectFit": "stretch",
		}},
		document.Instance{ID: "t", Type: "text", Props: document.Props{
			"fontSize": "big",
		}},
		document.Instance{ID: "c", Type: "carousel", Props: document.Props{
			"images": []any{map[string]any{"alt": "no src"}},
		}},
	), false)

	assert.True(t, result.Valid)

	missing := filterByRule(result.Violations, RuleMissingRequired)
	require.Len(t, missing, 1)
	assert.Equal(t, "src", missing[0].Path)

	rng := filterByRule(result.Violations, RuleOutOfRange)
	require.Len(t, rng, 1)
	assert.Equal(t, "use 800", rng[0].Suggestion)

	inv := filterByRule(result.Violations, RuleInvalidValue)
	require.Len(t, inv, 2)
	assert.Equal(t, "objectFit", inv[0].Path)
	assert.Equal(t, "images[0].src", inv[1].Path)

	mismatch := filterByRule(result.Violations, RuleTypeMismatch)
	require.Len(t, mismatch, 1)
	assert.Equal(t, "fontSize", mismatch[0].Path)
}

func TestValidateDocument_AutoFix(t *testing.T) {
	original := doc(
		document.Instance{ID: "a", Type: "hero-image", Props: document.Props{
			"src":       "https://x",
			"height":    float64(20),
			"objectFit": "stretch",
		}},
		document.Instance{ID: "a", Type: "text", Props: document.Props{"fontSize": "big"}},
	)
	before := original.Clone()

	result := testValidator().ValidateDocument(original, true)
	require.NotNil(t, result.Fixed)
	assert.Len(t, result.Fixes, 4)
	assert.True(t, document.Equal(before, original), "input must not be mutated")

	fixed := *result.Fixed
	assert.NoError(t, fixed.Validate())
	assert.Equal(t, float64(100), fixed.Components[0].Props["height"])
	assert.Equal(t, "cover", fixed.Components[0].Props["objectFit"])
	assert.EqualValues(t, 16, fixed.Components[1].Props["fontSize"])

	again := testValidator().ValidateDocument(fixed, false)
	assert.Empty(t, again.Violations)
}

func TestValidateDocument_AutoFixNothingToDo(t *testing.T) {
	result := testValidator().ValidateDocument(document.New(), true)
	assert.Nil(t, result.Fixed)
	assert.Empty(t, result.Fixes)
}
