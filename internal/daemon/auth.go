package daemon

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// requireToken wraps a handler with bearer token authentication. An empty
// token leaves the API open, which is the default for loopback binds.
func requireToken(token string, next http.Handler) http.Handler {
	token = strings.TrimSpace(token)
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		provided, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(provided)), []byte(token)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="slidecast"`)
			writeError(w, http.StatusUnauthorized, "missing or invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
