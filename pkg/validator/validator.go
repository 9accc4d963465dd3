// Package validator lints documents against the component registry.
//
// Structural problems (bad version, missing or duplicate ids) are errors:
// the editor cannot address such instances reliably. Everything else is a
// warning, because the renderer tolerates unknown types and incomplete
// props. The validator never mutates its input; with autofix it returns a
// corrected copy.
package validator

import (
	"fmt"
	"slices"

	"github.com/gnana997/promokit/pkg/component"
	"github.com/gnana997/promokit/pkg/document"
	"github.com/gnana997/promokit/pkg/schema"
	"github.com/gnana997/promokit/pkg/util"
)

// Severity ranks a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rules reported by the validator.
const (
	RuleUnsupportedVersion = "unsupported-version"
	RuleMissingID          = "missing-id"
	RuleDuplicateID        = "duplicate-id"
	RuleMissingType        = "missing-type"
	RuleUnknownComponent   = "unknown-component"
	RuleMissingRequired    = "missing-required"
	RuleTypeMismatch       = "type-mismatch"
	RuleInvalidValue       = "invalid-prop-value"
	RuleOutOfRange         = "out-of-range"
)

// Validator checks documents against a registry.
type Validator struct {
	reg *component.Registry
}

// Result is the outcome of validating one document.
type Result struct {
	Valid      bool               `json:"valid"`
	Summary    string             `json:"summary"`
	Violations []Violation        `json:"violations"`
	Fixes      []AutoFix          `json:"fixes,omitempty"`
	Fixed      *document.Document `json:"fixed,omitempty"`
}

// Violation is a single rule violation.
type Violation struct {
	Rule        string   `json:"rule"`
	Severity    Severity `json:"severity"`
	Index       int      `json:"index"`
	ComponentID string   `json:"component_id,omitempty"`
	Component   string   `json:"component,omitempty"`
	Path        string   `json:"path,omitempty"`
	Message     string   `json:"message"`
	Suggestion  string   `json:"suggestion,omitempty"`
}

// NewValidator creates a validator for reg.
func NewValidator(reg *component.Registry) *Validator {
	return &Validator{reg: reg}
}

// ValidateDocument checks doc. With autofix, fixable violations are
// repaired on a copy returned in Result.Fixed.
func (v *Validator) ValidateDocument(doc document.Document, autofix bool) *Result {
	res := &Result{Violations: []Violation{}}
	var fixed document.Document
	if autofix {
		fixed = doc.Clone()
	}

	if doc.Version != document.CurrentVersion {
		res.add(Violation{
			Rule:     RuleUnsupportedVersion,
			Severity: SeverityError,
			Index:    -1,
			Message:  fmt.Sprintf("document version %d is not supported (want %d)", doc.Version, document.CurrentVersion),
		})
		if autofix {
			res.fix(AutoFix{Index: -1, Path: "version", Old: doc.Version, New: document.CurrentVersion, Reason: RuleUnsupportedVersion})
			fixed.Version = document.CurrentVersion
		}
	}

	seen := make(map[string]int, len(doc.Components))
	for i, inst := range doc.Components {
		base := Violation{Index: i, ComponentID: inst.ID, Component: inst.Type}

		switch prev, dup := seen[inst.ID]; {
		case inst.ID == "":
			res.add(base.with(RuleMissingID, SeverityError, "", "instance has no id"))
			if autofix {
				id := document.NewID()
				res.fix(AutoFix{Index: i, Path: "id", Old: "", New: id, Reason: RuleMissingID})
				fixed.Components[i].ID = id
			}
		case dup:
			res.add(base.with(RuleDuplicateID, SeverityError, "", fmt.Sprintf("id %q is already used by components[%d]", inst.ID, prev)))
			if autofix {
				id := document.NewID()
				res.fix(AutoFix{Index: i, Path: "id", Old: inst.ID, New: id, Reason: RuleDuplicateID})
				fixed.Components[i].ID = id
			}
		default:
			seen[inst.ID] = i
		}

		if inst.Type == "" {
			res.add(base.with(RuleMissingType, SeverityError, "", "instance has no type"))
			continue
		}
		def, ok := v.reg.Get(inst.Type)
		if !ok {
			w := base.with(RuleUnknownComponent, SeverityWarning, "", fmt.Sprintf("component type %q is not registered; it will not render", inst.Type))
			w.Suggestion = "remove the instance or register the type"
			res.add(w)
			continue
		}

		var target document.Props
		if autofix {
			target = fixed.Components[i].Props
			if target == nil {
				target = document.Props{}
				fixed.Components[i].Props = target
			}
		}
		v.checkProps(res, base, def, inst.Props, target)
	}

	res.finish()
	if autofix && len(res.Fixes) > 0 {
		res.Fixed = &fixed
	}
	return res
}

// checkProps reports schema problems for each declared field. When target
// is non-nil, fixable values are repaired in it.
func (v *Validator) checkProps(res *Result, base Violation, def *component.Definition, props, target document.Props) {
	for _, f := range schema.Unwrap(def.Schema).Fields {
		val, present := props[f.Name]
		t := schema.Unwrap(f.Type)
		dflt, hasDefault := schema.DefaultValue(f.Type)

		fix := func(rule string, replacement any) {
			if target == nil {
				return
			}
			res.fix(AutoFix{Index: base.Index, ComponentID: base.ComponentID, Path: f.Name, Old: val, New: replacement, Reason: rule})
			target[f.Name] = replacement
		}

		if !present || val == nil {
			if !schema.IsOptional(f.Type) {
				res.add(base.with(RuleMissingRequired, SeverityWarning, f.Name, fmt.Sprintf("%s is required", f.Name)))
			}
			continue
		}

		switch t.Kind {
		case schema.KindNumber:
			n, ok := util.ToFloat(val)
			if !ok {
				res.add(base.with(RuleTypeMismatch, SeverityWarning, f.Name, fmt.Sprintf("%s: expected number, got %T", f.Name, val)))
				if hasDefault {
					fix(RuleTypeMismatch, dflt)
				}
				continue
			}
			lo, hi := schema.Bounds(t, n, n)
			if n < lo || n > hi {
				clamped := min(max(n, lo), hi)
				w := base.with(RuleOutOfRange, SeverityWarning, f.Name, fmt.Sprintf("%s: %v is outside %v..%v", f.Name, n, lo, hi))
				w.Suggestion = fmt.Sprintf("use %v", clamped)
				res.add(w)
				fix(RuleOutOfRange, clamped)
			}
		case schema.KindEnum:
			allowed := schema.Values(t)
			s, ok := val.(string)
			if ok && slices.Contains(allowed, s) {
				continue
			}
			w := base.with(RuleInvalidValue, SeverityWarning, f.Name, fmt.Sprintf("%s: %v is not one of %v", f.Name, val, allowed))
			if hasDefault {
				w.Suggestion = fmt.Sprintf("use %v", dflt)
				res.add(w)
				fix(RuleInvalidValue, dflt)
				continue
			}
			res.add(w)
		default:
			for _, issue := range schema.Check(schema.Object(f), map[string]any{f.Name: val}) {
				res.add(base.with(RuleInvalidValue, SeverityWarning, issue.Path, issue.String()))
			}
		}
	}
}

func (v Violation) with(rule string, sev Severity, path, msg string) Violation {
	v.Rule, v.Severity, v.Path, v.Message = rule, sev, path, msg
	return v
}

func (r *Result) add(v Violation) {
	r.Violations = append(r.Violations, v)
}

func (r *Result) fix(f AutoFix) {
	r.Fixes = append(r.Fixes, f)
}

func (r *Result) finish() {
	errs, warns := 0, 0
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			errs++
		} else {
			warns++
		}
	}
	r.Valid = errs == 0
	if errs == 0 && warns == 0 {
		r.Summary = "no issues found"
		return
	}
	r.Summary = fmt.Sprintf("%d %s, %d %s", errs, plural(errs, "error"), warns, plural(warns, "warning"))
}

// Errors returns the error-severity violations.
func (r *Result) Errors() []Violation {
	return r.bySeverity(SeverityError)
}

// Warnings returns the warning-severity violations.
func (r *Result) Warnings() []Violation {
	return r.bySeverity(SeverityWarning)
}

func (r *Result) bySeverity(s Severity) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == s {
			out = append(out, v)
		}
	}
	return out
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
