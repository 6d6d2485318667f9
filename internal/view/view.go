// internal/view/view.go
//
// Central view engine: embedded templates, func-map injection, and one
// parsed *template.Template set per page.
//
// Public helpers
// --------------
//   - Render         – buffer, then write HTML with the given status.
//   - RenderToString – return template.HTML (tests, fragments).
//
// Layout
// ------
// Every page set is layout.html + partials (_*.html) + the page file.
// Pages fill {{ define "content" }} and may set {{ define "title" }}.
// Sets are parsed once at New; templates are embedded, so nothing is read
// from disk at request time.
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/yanizio/reing/internal/timefmt"
)

//go:embed templates/*.html
var files embed.FS

// Engine holds the parsed page sets.
type Engine struct {
	pages map[string]*template.Template
}

// New parses every page.  now drives the relative timestamps.
func New(now func() time.Time) (*Engine, error) {
	if now == nil {
		now = time.Now
	}

	base, err := template.New("layout.html").Funcs(funcMap(now)).
		ParseFS(files, "templates/layout.html", "templates/_*.html")
	if err != nil {
		return nil, fmt.Errorf("view: base: %w", err)
	}

	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}

	e := &Engine{pages: make(map[string]*template.Template)}
	for _, p := range names {
		file := path.Base(p)
		if file == "layout.html" || strings.HasPrefix(file, "_") {
			continue
		}
		set, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := set.ParseFS(files, p); err != nil {
			return nil, fmt.Errorf("view: %s: %w", file, err)
		}
		e.pages[strings.TrimSuffix(file, ".html")] = set
	}
	return e, nil
}

// Render executes page name with data and writes it with status.  Output is
// buffered so a template error never leaves a half-written response.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data any) error {
	html, err := e.RenderToString(name, data)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write([]byte(html))
	return err
}

// RenderToString executes page name and returns the HTML.
func (e *Engine) RenderToString(name string, data any) (template.HTML, error) {
	t, ok := e.pages[name]
	if !ok {
		return "", fmt.Errorf("view: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("view: %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

//
// func-map
//

func funcMap(now func() time.Time) template.FuncMap {
	return template.FuncMap{
		"dict": dict,
		"ago": func(t time.Time) string {
			return timefmt.Recognizable(t, now())
		},
		"iso": func(t time.Time) string { return t.Format(time.RFC3339) },
	}
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
