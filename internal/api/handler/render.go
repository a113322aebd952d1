package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/smartcampus/campus-portal/pkg/view"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageLogin     = "login.html"
	pageSignup    = "signup.html"
	pageDashboard = "dashboard.html"
)

// Renderer renders the portal pages. Each page is its own template set
// cloned from the shared layout so that every page can define "content".
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout").Funcs(funcMap()).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{pageLogin, pageSignup, pageDashboard} {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+page); err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": view.FormatDate,
		"formatTime": view.FormatTime,
		"truncate":   view.TruncateText,
		"currency":   view.FormatCurrency,
		"badge": func(status, context string) template.HTML {
			return view.StatusBadge(status, context).HTML()
		},
		"stamp": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(time.RFC3339)
		},
	}
}

// alert is the page-level notice shown above a form.
type alert struct {
	Type    string
	Message string
}

func alertError(err error) *alert {
	return &alert{Type: "danger", Message: err.Error()}
}
