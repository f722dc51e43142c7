package middleware

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
)

// Fallback renders the page shown after a handler panics. It must not
// depend on anything that could have caused the panic.
type Fallback func(w http.ResponseWriter, r *http.Request)

// Recover returns middleware that turns a panic into a logged error and the
// fallback response. http.ErrAbortHandler is re-raised so the server can
// drop the connection as usual.
func Recover(fallback Fallback) func(http.Handler) http.Handler {
	if fallback == nil {
		fallback = DefaultFallback
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slog.Error("panic_recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()),
				)
				fallback(w, r)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

const fallbackPage = `<!DOCTYPE html>
<html lang="nl">
<head><meta charset="utf-8"><title>Er ging iets mis</title></head>
<body>
<main>
<h1>Er ging iets mis</h1>
<p>Er is een onverwachte fout opgetreden. Probeer de pagina opnieuw te laden.</p>
<p><a href="%s">Pagina herladen</a></p>
</main>
</body>
</html>
`

// DefaultFallback answers JSON clients with a generic error object and
// browsers with a static page offering a reload of the same URL.
func DefaultFallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Er is een onverwachte fout opgetreden"}`))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	reload := "/"
	if r.Method == http.MethodGet {
		reload = r.URL.RequestURI()
	}
	_, _ = fmt.Fprintf(w, fallbackPage, html.EscapeString(reload))
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
