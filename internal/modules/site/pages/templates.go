package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/rwtnews/site/internal/pkg/format"
)

//go:embed templates/*.html
var templateFS embed.FS

// AssetsPath is where the embedded stylesheet and script are served.
const AssetsPath = "/assets"

//go:embed assets
var assetFS embed.FS

func assets() (fs.FS, error) {
	return fs.Sub(assetFS, "assets")
}

const (
	pageHome     = "home"
	pageDetail   = "detail"
	pageCategory = "category"
	pageNotFound = "not-found"
	pageError    = "error"
)

var pageNames = []string{pageHome, pageDetail, pageCategory, pageNotFound, pageError}

var funcs = template.FuncMap{
	"truncate": format.Truncate,
}

// templates holds one tree per page. Every tree shares the layout and
// partials and defines its own "content".
type templates struct {
	pages map[string]*template.Template
}

func parseTemplates() (*templates, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(templateFS,
		"templates/layout.html",
		"templates/partials.html",
	)
	if err != nil {
		return nil, fmt.Errorf("pages: parse layout: %w", err)
	}

	out := &templates{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("pages: parse %s: %w", name, err)
		}
		out.pages[name] = t
	}
	return out, nil
}

// render executes the page fully before anything is written, so a template
// failure never leaves a half-sent document.
func (t *templates) render(name string, data any) ([]byte, error) {
	tpl, ok := t.pages[name]
	if !ok {
		return nil, fmt.Errorf("pages: unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("pages: render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
