package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const layoutTemplate = "layout.html"

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

var templateFuncs = template.FuncMap{
	"money": func(v float64) string {
		return "৳" + humanize.CommafWithDigits(v, 2)
	},
	"bytes": func(n int64) string {
		return humanize.IBytes(uint64(max(n, 0)))
	},
	"ago": func(raw string) string {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return raw
		}
		return humanize.Time(t)
	},
	"grams": func(g int) string {
		return humanize.Comma(int64(g)) + " g"
	},
	"add":  func(a, b int) int { return a + b },
	"join": strings.Join,
}

// ParseTemplate parses a page together with the shared layout
func ParseTemplate(name string) (*template.Template, error) {
	return template.New(name).Funcs(templateFuncs).ParseFS(TemplateFilesFS(), layoutTemplate, name)
}

func mustParseTemplate(name string) *template.Template {
	tmpl, err := ParseTemplate(name)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse %s template: %s", name, err))
	}
	return tmpl
}

// render writes a full page. Rendering failures are logged; the status has
// usually been sent by then.
func render(w http.ResponseWriter, tmpl *template.Template, status int, data PageData) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, layoutTemplate, data); err != nil {
		log.Err(err).Str("template", tmpl.Name()).Msg("Failed to render template")
	}
}
