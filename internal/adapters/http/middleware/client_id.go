package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIDFunc extrai o identificador usado pelo rate limiter.
type ClientIDFunc func(r *http.Request) string

// RemoteAddr usa somente o endereço do peer da conexão.
func RemoteAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return "unknown"
}

// Forwarded confia nos cabeçalhos do proxy, nesta ordem: primeiro IP de
// X-Forwarded-For, X-Real-IP e, por fim, o endereço do peer.
func Forwarded(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); xRealIP != "" {
		return xRealIP
	}

	return RemoteAddr(r)
}

// ClientIDFor devolve a função correspondente ao valor de CLIENT_IP_SOURCE.
func ClientIDFor(source string) ClientIDFunc {
	if source == "forwarded" {
		return Forwarded
	}
	return RemoteAddr
}
