// Package web embeds the HTML templates and static assets served by
// internal/web.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var assets embed.FS

var (
	staticFS    = mustSub("static")
	templatesFS = mustSub("templates")
)

// StaticFS returns the stylesheet and other files served under /static/.
func StaticFS() fs.FS { return staticFS }

// TemplatesFS returns the page templates; layout.html wraps every page.
func TemplatesFS() fs.FS { return templatesFS }

// mustSub panics on a missing directory. Both are embedded at build time.
func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(assets, dir)
	if err != nil {
		panic("web: " + err.Error())
	}
	return sub
}
