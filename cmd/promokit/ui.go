package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#2563EB") // matches the generated favicon
	successColor = lipgloss.Color("#27C93F")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#888888")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	boldStyle = lipgloss.NewStyle().
			Bold(true)

	keyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

func printSuccess(w io.Writer, format string, a ...any) {
	fmt.Fprintln(w, successStyle.Render("✓ "+fmt.Sprintf(format, a...)))
}

func printError(w io.Writer, format string, a ...any) {
	fmt.Fprintln(w, errorStyle.Render("✗ "+fmt.Sprintf(format, a...)))
}

func printWarning(w io.Writer, format string, a ...any) {
	fmt.Fprintln(w, warningStyle.Render("⚠ "+fmt.Sprintf(format, a...)))
}

// printKeyValue prints "key: value" with a muted key.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render(key), value)
}

// header returns a styled section header.
func header(text string) string {
	return boldStyle.Render("▸ " + text)
}

func muted(s string) string {
	return mutedStyle.Render(s)
}

func versionLine() string {
	return titleStyle.Render("promokit") + " " + muted("v"+version)
}
