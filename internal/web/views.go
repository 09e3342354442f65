package web

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

	"github.com/gorilla/csrf"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

const layoutFile = "templates/layout.gohtml"

// requiredPages back Renderer.Error
var requiredPages = []string{"not_found", "error"}

// Page is the value every template executes against
type Page struct {
	Title     string
	CSRFField template.HTML
	Data      any
}

// Renderer executes the embedded page templates inside the shared layout
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(time.DateOnly)
	},
	"price": func(d decimal.Decimal) string {
		return "$" + d.StringFixed(2)
	},
	"times": func(n int) []int {
		if n < 0 {
			n = 0
		}
		return make([]int, n)
	},
}

// NewRenderer parses every page template once
func NewRenderer() (*Renderer, error) {
	layout, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		page, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := page.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".gohtml")] = page
	}

	rd := &Renderer{pages: pages}
	for _, name := range requiredPages {
		if !rd.Has(name) {
			return nil, fmt.Errorf("missing required view %q", name)
		}
	}
	return rd, nil
}

// Has reports whether a page with that name exists
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render executes page name into w with the given status. Output is buffered so a
// template failure never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name, title string, data any) error {
	page, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}

	var buf bytes.Buffer
	err := page.ExecuteTemplate(&buf, "layout", Page{
		Title:     title,
		CSRFField: csrf.TemplateField(req),
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
