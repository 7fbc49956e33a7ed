// Package static embeds the stylesheet and script of the web front-end.
package static

import "embed"

//go:embed style.css app.js
var FS embed.FS
