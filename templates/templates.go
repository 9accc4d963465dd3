// Package templates provides the embedded starter page templates.
package templates

import "embed"

// FS holds one <id>.json file per template, embedded at build time.
//
//go:embed *.json
var FS embed.FS
