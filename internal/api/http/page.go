package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Sizer reports how many tokens have been used.
type Sizer interface {
	Len() int
}

// GET /  renders the landing page with the configured placeholder token.
func IndexHandler(token string, tokens Sizer, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("index.render", "used_tokens", tokens.Len())

		var buf bytes.Buffer
		if err := indexTmpl.Execute(&buf, struct{ Token string }{Token: token}); err != nil {
			log.Error("index.render.fail", "err", err)
			http.Error(w, "render error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}
