package page

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/obsidianstack/launchdash/server/internal/api"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates(files ...string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"kg": func(v float64) string {
			return strconv.FormatFloat(v, 'f', -1, 64)
		},
	}
	return template.New("").Funcs(funcMap).ParseFS(templateFS, files...)
}

// Handler serves the dashboard page at "/".
type Handler struct {
	viewer *api.Viewer
	tmpl   *template.Template
}

// New parses the embedded templates and returns the page handler.
func New(v *api.Viewer) (*Handler, error) {
	tmpl, err := parseTemplates("templates/dashboard.html")
	if err != nil {
		return nil, err
	}
	return &Handler{viewer: v, tmpl: tmpl}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "dashboard.html", h.viewer.Layout()); err != nil {
		slog.Error("page: execute template", "err", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck
}
