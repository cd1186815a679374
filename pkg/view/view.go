package view

import (
	"embed"
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var files embed.FS

// Renderer executes the embedded page templates. Pages are addressed by
// their define name ("welcome", "index", "create", "edit").
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the named page. Template failures become a plain 500;
// there is nothing useful to tell the user beyond that.
func (rd *Renderer) Render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := rd.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("Failed to render template %s: %v", name, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
