// Package observability reúne logger e métricas compartilhados pela aplicação.
package observability

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// NewLogger cria um logger JSON no nível pedido. Níveis inválidos caem em info.
func NewLogger(level string, out io.Writer) *log.Logger {
	if out == nil {
		out = os.Stdout
	}

	l := log.New()
	l.SetOutput(out)
	l.SetFormatter(&log.JSONFormatter{})

	lvl, err := log.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}
