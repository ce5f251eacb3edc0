// Package templates embeds the HTML email templates.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
