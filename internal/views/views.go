// Package views renders the admin HTML pages from templates embedded in the binary.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page names accepted by Render.
const (
	Login        = "login"
	Invalid      = "invalid"
	Dashboard    = "dashboard"
	AddPost      = "add_post"
	EditPost     = "edit_post"
	SongRequests = "song_requests"
	Audit        = "audit"
	Error        = "error"
)

// standalone pages are public and do not use the admin layout.
var standalone = map[string]bool{
	Login:   true,
	Invalid: true,
}

var funcs = template.FuncMap{
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page once so template errors surface at startup.
func New() (*Renderer, error) {
	layout, err := templatesFS.ReadFile("templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}

	names := []string{Login, Invalid, Dashboard, AddPost, EditPost, SongRequests, Audit, Error}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		content, err := templatesFS.ReadFile("templates/" + name + ".html")
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}

		t := template.New(name).Funcs(funcs)
		if !standalone[name] {
			if t, err = t.Parse(string(layout)); err != nil {
				return nil, fmt.Errorf("parse layout for %s: %w", name, err)
			}
		}
		if t, err = t.Parse(string(content)); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages}, nil
}

// Render writes page name with the given status. The page is executed into a
// buffer first so a template failure never leaves a half-written response.
func (v *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := v.pages[name]
	if !ok {
		slog.Error("unknown template", "name", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	entry := "layout"
	if standalone[name] {
		entry = "page"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, entry, data); err != nil {
		slog.Error("template execute", "name", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
