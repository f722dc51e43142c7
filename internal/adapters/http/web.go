package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"dkl/internal/adapters/email"
	"dkl/internal/adapters/http/middleware"
	"dkl/internal/adapters/http/perf"
	"dkl/internal/adapters/realtime"
	outboxStore "dkl/internal/adapters/storage/outbox"
	"dkl/internal/application/orchestrators"
	"dkl/internal/application/projections"
	"dkl/internal/domain/event"
	"dkl/internal/domain/submission"
)

// Config holds the settings the HTTP layer needs.
type Config struct {
	SiteOrigin      string // allowed CORS origin, e.g. https://www.dekoninklijkeloop.nl
	AdminEmail      string // receives form notifications
	Dates           event.Dates
	CSRFKey         []byte // 32 bytes
	SecureCookies   bool
	StepsTokenHash  string // bcrypt hash guarding POST /api/steps
	AdminTokenHash  string // bcrypt hash guarding /api/admin and /api/perf
	RateLimit       int    // requests per second per IP
	SlowRequestMs   int
	EmailConfigured bool
}

// Deps holds the stores and services handlers use.
type Deps struct {
	Content       projections.ContentDeps
	Contacts      orchestrators.ContactStore
	Registrations orchestrators.RegistrationStore
	Steps         orchestrators.StepsStore
	OutboxStore   outboxStore.Store
	Outbox        *orchestrators.OutboxProcessor
	Email         email.Sender
	Hub           *realtime.Hub
	Perf          *perf.Collector
	Now           func() time.Time // defaults to time.Now
	GenerateID    func() string    // defaults to uuid
}

// Server serves the site pages and the JSON API. All state that outlives a
// request is held here; per-request state such as open dialogs lives in the
// request.
type Server struct {
	cfg     Config
	deps    Deps
	pages   map[string]*template.Template
	docs    map[string]template.HTML
	guard   submission.Guard
	limiter *middleware.RateLimiter
	handler http.Handler
	stepsMu sync.Mutex
}

// NewServer parses the templates and documents and wires the routes.
// PRE: cfg.CSRFKey is 32 bytes; deps stores are set
// POST: Returns a server ready to serve, or the first setup error
func NewServer(cfg Config, deps Deps) (*Server, error) {
	if len(cfg.CSRFKey) != 32 {
		return nil, errors.New("csrf key must be 32 bytes")
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.GenerateID == nil {
		deps.GenerateID = generateID
	}
	if deps.Hub == nil {
		return nil, errors.New("steps hub is required")
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	docs, err := renderDocs()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		deps:    deps,
		pages:   pages,
		docs:    docs,
		limiter: middleware.NewRateLimiter(cfg.RateLimit, time.Second),
	}

	trusted, err := trustedOrigins(cfg.SiteOrigin)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.handler = middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(cfg.CSRFKey, middleware.CSRFOptions{
			Secure:         cfg.SecureCookies,
			TrustedOrigins: trusted,
		}),
		middleware.RateLimit(s.limiter),
		middleware.Timing(deps.Perf, cfg.SlowRequestMs),
		middleware.Recover(nil),
	)
	return s, nil
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run performs background upkeep until ctx ends.
func (s *Server) Run(ctx context.Context) {
	s.limiter.Run(ctx)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.Handle("GET /static/", staticHandler())

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /media", s.handleMedia)
	mux.HandleFunc("GET /privacy", s.handleDoc(docPrivacy))
	mux.HandleFunc("GET /voorwaarden", s.handleDoc(docTerms))
	mux.HandleFunc("POST /contact", s.handleContactForm)
	mux.HandleFunc("POST /aanmelden", s.handleRegistrationForm)

	mux.HandleFunc("GET /api/{$}", s.handleHealth)
	mux.HandleFunc("GET /api/partners", s.handlePartners)
	mux.HandleFunc("GET /api/sponsors", s.handleSponsors)
	mux.HandleFunc("GET /api/videos", s.handleVideos)
	mux.HandleFunc("GET /api/program", s.handleProgram)
	mux.HandleFunc("GET /api/cta-cards", s.handleCTACards)
	mux.HandleFunc("GET /api/social-embeds", s.handleSocialEmbeds)
	mux.HandleFunc("GET /api/photos", s.handlePhotos)
	mux.HandleFunc("GET /api/title-section", s.handleTitleSection)
	mux.HandleFunc("GET /api/radio-recordings", s.handleRadioRecordings)
	mux.HandleFunc("GET /api/faq", s.handleFAQ)

	mux.HandleFunc("GET /api/total-steps", s.handleTotalSteps)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.Handle("POST /api/steps", middleware.BearerToken(s.cfg.StepsTokenHash, "steps")(http.HandlerFunc(s.handleRecordSteps)))
	mux.Handle("/api/ws/steps", s.deps.Hub.Handler())

	mux.HandleFunc("POST /api/contact", s.handleContactAPI)
	mux.HandleFunc("POST /api/registration", s.handleRegistrationAPI)
	mux.HandleFunc("/api/email/send-contact", s.handleSendContactEmail)

	admin := middleware.BearerToken(s.cfg.AdminTokenHash, "admin")
	mux.Handle("GET /api/admin/outbox", admin(http.HandlerFunc(s.handleAdminOutboxList)))
	mux.Handle("POST /api/admin/outbox/{id}/{action}", admin(http.HandlerFunc(s.handleAdminOutboxAction)))
	mux.Handle("GET /api/perf", admin(http.HandlerFunc(s.handlePerf)))
}

// trustedOrigins returns the host of the configured site origin so form
// posts proxied from it pass the CSRF origin check.
func trustedOrigins(origin string) ([]string, error) {
	if origin == "" {
		return nil, nil
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("site origin %q is not an absolute URL", origin)
	}
	return []string{u.Host}, nil
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}
