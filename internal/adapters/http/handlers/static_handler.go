package handlers

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

// StaticHandler serve a página inicial e seus arquivos.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// Readiness informa se os modelos foram carregados.
type Readiness interface {
	Ready() bool
}

// HealthHandler responde com o estado da aplicação.
func HealthHandler(r Readiness) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		loaded := r != nil && r.Ready()
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "models_loaded": loaded})
	}
}
