package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gnana997/promokit/pkg/catalog"
)

const maxWidth = 80

func newInspectCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect <type>",
		Short: "Show a component's props, defaults and allowed values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, ok := c.app.query.GetComponent(args[0])
			if !ok {
				return unknownComponentError(c.app.query, args[0])
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), comp)
			}
			printComponentHuman(cmd.OutOrStdout(), comp)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// unknownComponentError suggests close matches for a mistyped type.
func unknownComponentError(qs *catalog.QueryService, typ string) error {
	var hints []string
	for _, r := range qs.SearchComponents(typ) {
		hints = append(hints, r.Component.Type)
	}
	if len(hints) == 0 {
		return fmt.Errorf("unknown component %q (see: promokit components)", typ)
	}
	return fmt.Errorf("unknown component %q, did you mean: %s", typ, strings.Join(hints, ", "))
}

func newComponentsCmd(c *cli) *cobra.Command {
	var category, keyword string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "components",
		Short: "List the component palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comps := c.app.query.ListComponents(category, keyword)
			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, comps)
			}
			printComponentTable(w, comps)
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "only list this category")
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "filter by keyword")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printComponentTable(w io.Writer, comps []catalog.Component) {
	if len(comps) == 0 {
		fmt.Fprintln(w, muted("No matching components."))
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tNAME\tCATEGORY\tPROPS")
	for _, comp := range comps {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%d\n", comp.Type, comp.Icon, comp.Name, comp.Category, len(comp.Props))
	}
	tw.Flush()
}

func newTemplatesCmd(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the starter page templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := c.app.templates.List()
			w := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(w, list)
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCOMPONENTS\tDESCRIPTION")
			for _, t := range list {
				fmt.Fprintf(tw, "%s\t%s %s\t%d\t%s\n", t.ID, t.Icon, t.Name, len(t.Components), t.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// printComponentHuman prints a human-readable component summary.
func printComponentHuman(w io.Writer, comp *catalog.Component) {
	fmt.Fprintf(w, "%s %s  [%s]\n", comp.Icon, titleStyle.Render(comp.Name), comp.Category)
	fmt.Fprintf(w, "%s\n", muted("type: "+comp.Type))

	fmt.Fprintln(w)
	printPropsSection(w, header("Props"), comp.Props)

	// Nested field tables for object and array-of-object props.
	for _, p := range comp.Props {
		if len(p.Fields) == 0 {
			continue
		}
		title := p.Name + " fields"
		if p.Type == "array" {
			title = p.Name + "[] fields"
		}
		fmt.Fprintln(w)
		printPropsSection(w, header(title), p.Fields)
	}

	if len(comp.DefaultProps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, header("Defaults"))
		keys := make([]string, 0, len(comp.DefaultProps))
		for k := range comp.DefaultProps {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s = %s\n", k, truncate(formatValue(comp.DefaultProps[k]), maxWidth-len(k)-5))
		}
	}
}

// printPropsSection renders the props table with dynamic column widths.
func printPropsSection(w io.Writer, title string, props []catalog.Prop) {
	if len(props) == 0 {
		fmt.Fprintf(w, "%s  (none)\n", title)
		return
	}

	fmt.Fprintln(w, title)

	nameW := len("NAME")
	typeW := len("TYPE")
	defW := len("DEFAULT")
	for _, p := range props {
		nameW = max(nameW, len(p.Name))
		typeW = max(typeW, len(propType(p)))
		defW = max(defW, len(propDefault(p)))
	}

	sepLen := nameW + typeW + 5 + defW + 4
	fmt.Fprintf(w, "  %-*s  %-*s  %-3s  %-*s\n", nameW, "NAME", typeW, "TYPE", "REQ", defW, "DEFAULT")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", sepLen))

	for _, p := range props {
		req := "no"
		if p.Required {
			req = "yes"
		}
		fmt.Fprintf(w, "  %-*s  %-*s  %-3s  %s\n", nameW, p.Name, typeW, propType(p), req, propDefault(p))

		label := "  " + strings.Repeat(" ", nameW)
		if p.Label != "" && p.Label != p.Name {
			fmt.Fprintf(w, "%s  %s\n", label, muted(p.Label))
		}
		if p.Description != "" {
			printWrapped(w, p.Description, len(label)+2, maxWidth)
		}
		if r := propRange(p); r != "" {
			fmt.Fprintf(w, "%s  range: %s\n", label, r)
		}
		if len(p.AllowedValues) > 0 {
			allowed := strings.Join(p.AllowedValues, " | ")
			fmt.Fprintf(w, "%s  allowed: %s\n", label, wrapAllowed(allowed, len(label)+11))
		}
	}
}

// propType is the kind plus its display hint or element kind.
func propType(p catalog.Prop) string {
	switch {
	case p.Type == "array" && p.ItemType != "":
		return p.ItemType + "[]"
	case p.Hint != "":
		return p.Type + "(" + p.Hint + ")"
	default:
		return p.Type
	}
}

func propDefault(p catalog.Prop) string {
	if p.Default == nil {
		return "—"
	}
	return truncate(formatValue(p.Default), 24)
}

func propRange(p catalog.Prop) string {
	switch {
	case p.Min != nil && p.Max != nil:
		return fmt.Sprintf("%g..%g", *p.Min, *p.Max)
	case p.Min != nil:
		return fmt.Sprintf(">= %g", *p.Min)
	case p.Max != nil:
		return fmt.Sprintf("<= %g", *p.Max)
	}
	return ""
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case []any:
		return fmt.Sprintf("[%d items]", len(t))
	case map[string]any:
		return fmt.Sprintf("{%d keys}", len(t))
	default:
		return fmt.Sprint(t)
	}
}

func truncate(s string, n int) string {
	if n < 4 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// wrapAllowed wraps the allowed values string if it exceeds maxWidth.
func wrapAllowed(allowed string, indent int) string {
	if indent+len(allowed) <= maxWidth {
		return allowed
	}
	parts := strings.Split(allowed, " | ")
	var sb strings.Builder
	lineLen := indent
	for i, part := range parts {
		addition := len(part)
		if i > 0 {
			addition += 3 // " | "
		}
		if lineLen+addition > maxWidth && i > 0 {
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", indent))
			lineLen = indent
		}
		if i > 0 {
			sb.WriteString(" | ")
			lineLen += 3
		}
		sb.WriteString(part)
		lineLen += len(part)
	}
	return sb.String()
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range strings.Fields(text) {
		if len(line)+len(word)+1 > width && line != prefix {
			fmt.Fprintln(w, line)
			line = prefix + word
			continue
		}
		if line == prefix {
			line += word
		} else {
			line += " " + word
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
