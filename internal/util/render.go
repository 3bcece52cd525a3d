package util

import (
	"html/template"
	"net/http"
	"path/filepath"
)

// Renderer renders a page template inside the shared layout. Templates are
// parsed per request; pages define "content" and the layout defines "base".
type Renderer struct {
	dir string
}

func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
}

func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	files := []string{
		filepath.Join(r.dir, "layout.html"),
		filepath.Join(r.dir, name),
	}
	t, err := template.New("layout.html").Funcs(funcs).ParseFiles(files...)
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.ExecuteTemplate(w, "base", data)
}
