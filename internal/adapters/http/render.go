package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

//go:embed docs/*.md
var docsFS embed.FS

// Page templates. Each is parsed together with the layout and the dialogs.
const (
	pageHome  = "home.html"
	pageMedia = "media.html"
	pageDoc   = "doc.html"
)

// Markdown documents served as pages and dialogs.
const (
	docPrivacy = "privacy"
	docTerms   = "voorwaarden"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var funcs = template.FuncMap{
	"steps": formatSteps,
	"add":   func(a, b int) int { return a + b },
	// embed marks embed code as safe; it is sanitized when rows are mapped.
	"embed": func(s string) template.HTML { return template.HTML(s) },
}

// formatSteps groups thousands the Dutch way: 12500 becomes "12.500".
func formatSteps(n int64) string {
	return message.NewPrinter(language.Dutch).Sprintf("%d", n)
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{pageHome, pageMedia, pageDoc} {
		tpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html",
			"templates/dialogs.html",
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return pages, nil
}

func renderDocs() (map[string]template.HTML, error) {
	docs := make(map[string]template.HTML)
	for _, name := range []string{docPrivacy, docTerms} {
		src, err := fs.ReadFile(docsFS, "docs/"+name+".md")
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var buf bytes.Buffer
		if err := mdRenderer.Convert(src, &buf); err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		docs[name] = template.HTML(buf.String())
	}
	return docs, nil
}

func staticHandler() http.Handler {
	return http.FileServerFS(staticFS)
}

// render executes a page into a buffer first so a template error never
// leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, status int, name string, data page) {
	tpl, ok := s.pages[name]
	if !ok {
		internalError(w, fmt.Errorf("unknown page %s", name))
		return
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		internalError(w, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json_write_failed", "error", err)
	}
}

// apiError is the JSON error body of the API.
type apiError struct {
	Error       string            `json:"error"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// jsonInternalError logs err and answers with a generic Dutch message.
func jsonInternalError(w http.ResponseWriter, err error, msg string) {
	slog.Error("internal_error", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, apiError{Error: msg})
}

// strictDecode decodes a JSON body of at most 64 KiB, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
