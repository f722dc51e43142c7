package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BearerToken returns middleware that admits requests whose
// "Authorization: Bearer <token>" matches the bcrypt hash. An empty hash
// disables the protected routes entirely.
// PRE: hash is empty or a bcrypt hash
// POST: Unauthenticated requests get 401, disabled routes get 404
func BearerToken(hash, realm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hash == "" {
				http.NotFound(w, r)
				return
			}
			token, ok := bearer(r)
			if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) != nil {
				slog.Warn("auth_rejected", "realm", realm, "path", r.URL.Path)
				w.Header().Set("WWW-Authenticate", `Bearer realm="`+realm+`"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
