package server

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

var (
	//go:embed views/*.html
	views embed.FS

	//go:embed public
	public embed.FS
)

// Views rendered by the handlers.
const (
	ViewIndex = "index"
	ViewEdit  = "edit"
	ViewShow  = "show"
)

// A renderer renders the embedded views inside the layout.
type renderer struct {
	templates map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	funcs := template.FuncMap{
		"pathescape": url.PathEscape,
	}

	r := &renderer{
		templates: map[string]*template.Template{},
	}
	for _, name := range []string{ViewIndex, ViewEdit, ViewShow} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(views, "views/layout.html", "views/"+name+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "could not parse view %s", name)
		}
		r.templates[name] = tmpl
	}

	return r, nil
}

// Render implements the echo.Renderer interface.
func (r *renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return errors.Errorf("unknown view: %s", name)
	}
	return errors.Wrapf(tmpl.ExecuteTemplate(w, "layout", data), "could not render %s", name)
}

func assets() fs.FS {
	return echo.MustSubFS(public, "public")
}
