package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"dkl/internal/adapters/email"
	web "dkl/internal/adapters/http"
	"dkl/internal/adapters/http/perf"
	"dkl/internal/adapters/realtime"
	"dkl/internal/adapters/storage"
	contactStore "dkl/internal/adapters/storage/contact"
	ctaStore "dkl/internal/adapters/storage/ctacard"
	faqStore "dkl/internal/adapters/storage/faq"
	outboxStore "dkl/internal/adapters/storage/outbox"
	partnerStore "dkl/internal/adapters/storage/partner"
	photoStore "dkl/internal/adapters/storage/photo"
	programStore "dkl/internal/adapters/storage/program"
	radioStore "dkl/internal/adapters/storage/radio"
	registrationStore "dkl/internal/adapters/storage/registration"
	"dkl/internal/adapters/storage/seed"
	socialStore "dkl/internal/adapters/storage/socialembed"
	sponsorStore "dkl/internal/adapters/storage/sponsor"
	stepsStore "dkl/internal/adapters/storage/steps"
	titleStore "dkl/internal/adapters/storage/titlesection"
	videoStore "dkl/internal/adapters/storage/video"
	"dkl/internal/application/orchestrators"
	"dkl/internal/application/projections"
	"dkl/internal/config"
	"dkl/internal/domain/event"
	domainOutbox "dkl/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg))

	if err := run(cfg); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// WAL mode, foreign keys and a busy timeout for concurrent readers
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)

	partners := partnerStore.NewSQLiteStore(timedDB)
	sponsors := sponsorStore.NewSQLiteStore(timedDB)
	videos := videoStore.NewSQLiteStore(timedDB)
	program := programStore.NewSQLiteStore(timedDB)
	cards := ctaStore.NewSQLiteStore(timedDB)
	embeds := socialStore.NewSQLiteStore(timedDB)
	photos := photoStore.NewSQLiteStore(timedDB)
	radio := radioStore.NewSQLiteStore(timedDB)
	faqs := faqStore.NewSQLiteStore(timedDB)
	title := titleStore.NewSQLiteStore(timedDB)
	steps := stepsStore.NewSQLiteStore(timedDB)
	outbox := outboxStore.NewSQLiteStore(timedDB)

	if cfg.Seed {
		content, err := seed.Default()
		if err != nil {
			return fmt.Errorf("load seed content: %w", err)
		}
		n, err := orchestrators.ExecuteSeedContent(ctx, content, orchestrators.SeedContentDeps{
			Partners:     partners,
			Sponsors:     sponsors,
			Videos:       videos,
			Program:      program,
			CTACards:     cards,
			SocialEmbeds: embeds,
			Photos:       photos,
			Radio:        radio,
			FAQ:          faqs,
			TitleSection: title,
			GenerateID:   func() string { return uuid.New().String() },
			Now:          time.Now,
		})
		if err != nil {
			return fmt.Errorf("seed content: %w", err)
		}
		slog.Info("seed_content", "rows", n)
	}

	var sender email.Sender
	if cfg.EmailConfigured() {
		sender = email.NewResendSender(cfg.ResendKey, cfg.EmailFrom, email.WithReplyTo(cfg.ReplyTo))
		slog.Info("email_sender", "provider", "resend")
	} else {
		sender = email.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_sender", "provider", "noop", "hint", "DKL_RESEND_KEY is not set, email delivery is disabled")
		} else {
			slog.Info("email_sender", "provider", "noop")
		}
	}

	processor := orchestrators.NewOutboxProcessor(outbox, map[string]orchestrators.ActionExecutor{
		domainOutbox.ActionEmail: &orchestrators.EmailExecutor{Sender: sender},
	}, time.Now)

	hub := realtime.NewHub(steps.Total, realtime.WithCollector(collector))

	csrfKey, err := cfg.CSRFSecret()
	if err != nil {
		return err
	}

	srv, err := web.NewServer(web.Config{
		SiteOrigin: cfg.SiteOrigin,
		AdminEmail: cfg.AdminEmail,
		Dates: event.Dates{
			Start:                cfg.EventDate,
			RegistrationDeadline: cfg.RegistrationDeadline,
			EarlyBirdEnd:         cfg.EarlyBirdEnd,
		},
		CSRFKey:         csrfKey,
		SecureCookies:   cfg.IsProduction(),
		StepsTokenHash:  cfg.StepsTokenHash,
		AdminTokenHash:  cfg.AdminTokenHash,
		RateLimit:       cfg.RateLimit,
		SlowRequestMs:   cfg.SlowRequestMs,
		EmailConfigured: cfg.EmailConfigured(),
	}, web.Deps{
		Content: projections.ContentDeps{
			Partners:     partners,
			Sponsors:     sponsors,
			Videos:       videos,
			Program:      program,
			CTACards:     cards,
			SocialEmbeds: embeds,
			Photos:       photos,
			TitleSection: title,
			Steps:        steps,
			Radio:        radio,
			FAQ:          faqs,
		},
		Contacts:      contactStore.NewSQLiteStore(timedDB),
		Registrations: registrationStore.NewSQLiteStore(timedDB),
		Steps:         steps,
		OutboxStore:   outbox,
		Outbox:        processor,
		Email:         sender,
		Hub:           hub,
		Perf:          collector,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	go processor.Run(ctx, cfg.OutboxInterval)
	go srv.Run(ctx)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting",
			"version", version,
			"addr", cfg.Addr,
			"env", cfg.Env,
			"schema", storage.LatestSchemaVersion(),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
