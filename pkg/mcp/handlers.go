package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/promokit/pkg/catalog"
	"github.com/gnana997/promokit/pkg/htmlgen"
)

// --- catalog ---

type categoryCount struct {
	Name           string `json:"name"`
	ComponentCount int    `json:"component_count"`
}

type componentSummary struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Category string `json:"category"`
	Props    int    `json:"props"`
}

type searchHit struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	MatchReason string `json:"match_reason"`
}

type templateSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Components  int    `json:"components"`
}

func summarize(c *catalog.Component) componentSummary {
	return componentSummary{Type: c.Type, Name: c.Name, Icon: c.Icon, Category: c.Category, Props: len(c.Props)}
}

func (s *Server) handleListCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats := s.query.ListCategories()
	out := make([]categoryCount, len(cats))
	for i, c := range cats {
		out[i] = categoryCount{Name: c.Name, ComponentCount: len(c.Components)}
	}
	return jsonResult(out)
}

func (s *Server) handleListComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	comps := s.query.ListComponents(stringArg(args, "category"), stringArg(args, "keyword"))
	out := make([]componentSummary, len(comps))
	for i := range comps {
		out[i] = summarize(&comps[i])
	}
	return jsonResult(out)
}

func (s *Server) handleGetComponentDetails(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	types := stringsArg(req.GetArguments(), "types")
	if len(types) == 0 {
		return errorResult("types is required")
	}
	var (
		out     []catalog.Component
		missing []string
	)
	for _, typ := range types {
		c, ok := s.query.GetComponent(typ)
		if !ok {
			missing = append(missing, typ)
			continue
		}
		out = append(out, *c)
	}
	if len(missing) > 0 {
		return errorResult("unknown component type(s): %s (see list_components)", strings.Join(missing, ", "))
	}
	return jsonResult(out)
}

func (s *Server) handleSearchComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := stringArg(req.GetArguments(), "query")
	if query == "" {
		return errorResult("query is required")
	}
	results := s.query.SearchComponents(query)
	out := make([]searchHit, len(results))
	for i, r := range results {
		out[i] = searchHit{Type: r.Component.Type, Name: r.Component.Name, Category: r.Component.Category, MatchReason: r.MatchReason}
	}
	return jsonResult(out)
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := []templateSummary{}
	if s.templates != nil {
		for _, t := range s.templates.List() {
			out = append(out, templateSummary{
				ID:          t.ID,
				Name:        t.Name,
				Description: t.Description,
				Icon:        t.Icon,
				Components:  len(t.Components),
			})
		}
	}
	return jsonResult(out)
}

// --- output ---

func (s *Server) handleValidatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, ed, err := s.session()
	if err != nil {
		return errorResult("%v", err)
	}
	res := s.validator.ValidateDocument(ed.Document(), boolArg(req.GetArguments(), "auto_fix"))
	return jsonResult(res)
}

func (s *Server) handleAnalyzePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, ed, err := s.session()
	if err != nil {
		return errorResult("%v", err)
	}
	return jsonResult(s.validator.AnalyzePage(ed.Document()))
}

func (s *Server) handleRenderPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.gen == nil {
		return errorResult("rendering is not configured")
	}
	p, ed, err := s.session()
	if err != nil {
		return errorResult("%v", err)
	}
	out, err := s.gen.Generate(ed.Document(), htmlgen.MetaFor(&p))
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", p.Slug, err)
	}
	return textResult(out), nil
}

// --- results ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}},
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// errorResult reports a failure the agent can act on. Protocol-level
// errors are reserved for faults in the server itself.
func errorResult(format string, args ...any) (*mcp.CallToolResult, error) {
	res := textResult(fmt.Sprintf(format, args...))
	res.IsError = true
	return res, nil
}

// --- arguments ---

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

// intArg reads a whole number. JSON numbers arrive as float64.
func intArg(args map[string]any, key string) (int, bool, error) {
	switch v := args[key].(type) {
	case nil:
		return 0, false, nil
	case float64:
		if v != float64(int(v)) {
			return 0, true, fmt.Errorf("%s must be a whole number", key)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	default:
		return 0, true, fmt.Errorf("%s must be a number", key)
	}
}

// objectArg reads an object. Some clients send objects as JSON strings, so
// those are decoded too.
func objectArg(args map[string]any, key string) (map[string]any, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, fmt.Errorf("%s must be a JSON object: %w", key, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%s must be an object", key)
	}
}

// stringsArg reads a list of strings, accepting a comma-separated string.
func stringsArg(args map[string]any, key string) []string {
	var raw []string
	switch v := args[key].(type) {
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = v
	case string:
		raw = strings.Split(v, ",")
	}
	var out []string
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
