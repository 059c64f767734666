package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, one template file each.
const (
	PageIndex          = "index.html"
	PageAccessHospital = "access_hospital.html"
	PageAuthAdmin      = "auth_admin.html"
	PageAddUser        = "add_user.html"
)

// PageHandler renders the HTML forms that drive the JSON endpoints.
type PageHandler struct {
	pages map[string]*template.Template
}

func NewPageHandler() *PageHandler {
	h := &PageHandler{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageIndex, PageAccessHospital, PageAuthAdmin, PageAddUser} {
		h.pages[name] = template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return h
}

// Render returns a handler for one page.
func (h *PageHandler) Render(name string) http.HandlerFunc {
	tmpl, ok := h.pages[name]
	if !ok {
		panic("unknown page " + name)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.ExecuteTemplate(w, "layout", nil); err != nil {
			slog.Error("render page", "page", name, "err", err)
		}
	}
}
