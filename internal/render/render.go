// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public page and
// the admin dashboard. Admin pages support full-page and HTMX partial
// rendering, detected via the HX-Request header.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"biolink/internal/middleware"
	"biolink/internal/models"
	"biolink/internal/session"
	"biolink/internal/theme"
)

//go:embed templates/admin/*.html templates/public/*.html
var templateFS embed.FS

// PageData holds all data passed to admin templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Session   *session.Data  // Current session (nil if none)
	CSRFToken string         // CSRF token for forms and HTMX headers
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// PublicData is what the public page template renders.
type PublicData struct {
	Theme     theme.Descriptor
	Profile   *models.Profile
	Offline   bool
	LoadToken string
	CSRFToken string
	Reactions map[string]int64
	Comments  []models.Comment
	ShareURL  string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	pages     map[string]*template.Template
	public    *template.Template
	fragments *template.Template
	funcMap   template.FuncMap
}

// standaloneTemplates lists admin templates that render as full HTML pages
// without the base layout.
var standaloneTemplates = map[string]bool{
	"prompt": true,
}

const (
	adminDir    = "templates/admin/"
	publicDir   = "templates/public/"
	adminShared = adminDir + "partials.html"
	publicPage  = publicDir + "page.html"
	publicParts = publicDir + "partials.html"
)

// New parses every embedded template. Each admin page is paired with the
// base layout and the shared partials.
func New() (*Renderer, error) {
	r := &Renderer{
		pages:   make(map[string]*template.Template),
		funcMap: funcMap(),
	}

	entries, err := templateFS.ReadDir("templates/admin")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" || name == "partials.html" {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		if standaloneTemplates[tmplName] {
			tmpl, err = template.New(name).Funcs(r.funcMap).ParseFS(templateFS, adminDir+name, adminShared)
		} else {
			tmpl, err = template.New("base.html").Funcs(r.funcMap).ParseFS(templateFS, adminDir+"base.html", adminDir+name, adminShared)
		}
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[tmplName] = tmpl
	}

	r.public, err = template.New("page.html").Funcs(r.funcMap).ParseFS(templateFS, publicPage, publicParts)
	if err != nil {
		return nil, fmt.Errorf("parse public page: %w", err)
	}

	r.fragments, err = template.New("fragments").Funcs(r.funcMap).ParseFS(templateFS, adminShared, publicParts)
	if err != nil {
		return nil, fmt.Errorf("parse fragments: %w", err)
	}

	return r, nil
}

// Page renders a full admin page or an HTMX partial, depending on the
// request headers. For HTMX requests, only the "content" block is sent.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.pages[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	rn.fill(r, data)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	execName := "base.html"
	if isHTMX(r) {
		execName = "content"
	} else if standaloneTemplates[name] {
		execName = name + ".html"
	}

	if err := executeTemplate(w, tmpl, execName, data); err != nil {
		slog.Error("render page failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// Fragment renders one named partial with the given status code.
func (rn *Renderer) Fragment(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	if data == nil {
		data = &PageData{}
	}
	rn.fill(r, data)

	var buf strings.Builder
	if err := executeTemplate(&buf, rn.fragments, name, data); err != nil {
		slog.Error("render fragment failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, buf.String())
}

// Alert renders a blocking alert with the given status. Used when a save
// or destructive admin operation fails.
func (rn *Renderer) Alert(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("HX-Retarget", "#alerts")
	w.Header().Set("HX-Reswap", "innerHTML")
	rn.Fragment(w, r, status, "alert", &PageData{
		Flashes: []Flash{{Type: "error", Message: message}},
	})
}

// Public renders the visitor page.
func (rn *Renderer) Public(w http.ResponseWriter, r *http.Request, data *PublicData) {
	data.CSRFToken = middleware.GetCSRFToken(r)

	var buf strings.Builder
	if err := executeTemplate(&buf, rn.public, "page.html", data); err != nil {
		slog.Error("render public page failed", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, buf.String())
}

func (rn *Renderer) fill(r *http.Request, data *PageData) {
	data.CSRFToken = middleware.GetCSRFToken(r)
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
}

func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		// accent values come from the fixed descriptor table.
		"accent": func(d theme.Descriptor) template.CSS {
			return template.CSS("--accent: " + d.Accent)
		},
		// bio HTML is produced by the markdown renderer with raw HTML disabled.
		"bio": func(p *models.Profile) template.HTML {
			return template.HTML(p.BioHTML)
		},
		"activeTab": func(current, target any) string {
			if fmt.Sprint(current) == fmt.Sprint(target) {
				return "tab tab-active"
			}
			return "tab"
		},
		"width": func(v float64) template.CSS {
			return template.CSS(fmt.Sprintf("width: %.1f%%", v))
		},
		"height": func(v int) template.CSS {
			return template.CSS(fmt.Sprintf("height: %d%%", v))
		},
		"ago": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04")
		},
		"count": func(m map[string]int64, key string) int64 {
			return m[key]
		},
		"themes": theme.All,
		"statuses": func() []models.LinkStatus {
			return []models.LinkStatus{models.LinkStatusActive, models.LinkStatusEncrypted, models.LinkStatusOffline}
		},
		"remaining": func(s *session.Data) int {
			if s == nil {
				return 0
			}
			return s.Prompt.Remaining()
		},
	}
}
