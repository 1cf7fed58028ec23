// Package web embeds the upload page templates and its static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"log"
)

//go:embed static
var staticFiles embed.FS

//go:embed templates
var templateFiles embed.FS

// StaticFS is the embedded static file system with the "static/" prefix stripped.
var StaticFS fs.FS

// Templates holds the "page" and "widget" templates.
var Templates *template.Template

func init() {
	var err error

	StaticFS, err = fs.Sub(staticFiles, "static")
	if err != nil {
		log.Panicf("web: failed to create static FS: %v", err)
	}

	Templates, err = template.New("").ParseFS(templateFiles,
		"templates/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		log.Panicf("web: failed to parse templates: %v", err)
	}
}
