// Package web embeds the static assets served by the layout server.
package web

import "embed"

//go:embed static
var EmbeddedFS embed.FS
