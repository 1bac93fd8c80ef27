// Package api exposes the HTTP interface for the directory service.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/launchdir/directory-service/internal/analyze"
	"github.com/launchdir/directory-service/internal/clock"
	"github.com/launchdir/directory-service/internal/metrics"
	"github.com/launchdir/directory-service/internal/notify"
	"github.com/launchdir/directory-service/internal/scrape"
	"github.com/launchdir/directory-service/internal/store"
)

// Scraper runs the fetch-and-normalize pipeline for one URL.
type Scraper interface {
	Scrape(ctx context.Context, rawURL string) (scrape.PageContent, string, string, error)
}

// Analyzer produces directory metadata for normalized page content. It never
// fails; degraded replies fall back to defaults.
type Analyzer interface {
	Analyze(ctx context.Context, content scrape.PageContent, displayName string) analyze.AnalysisResult
}

// Store is the slice of the relational store the handlers need.
type Store interface {
	SaveWebsiteContent(ctx context.Context, rec store.WebsiteContentRecord) (string, error)
	GetSubmission(ctx context.Context, id string) (store.Submission, error)
	GetUser(ctx context.Context, id string) (store.User, error)
	GetPayment(ctx context.Context, id string) (store.Payment, error)
}

// Notifier updates submission statuses and sends templated email.
type Notifier interface {
	UpdateStatus(ctx context.Context, submissionID, newStatus string) (store.Submission, error)
	Send(ctx context.Context, templateName, to string, data notify.TemplateData) error
}

// SyncRunner executes one reconciliation pass over every table mapping.
type SyncRunner interface {
	RunAll(ctx context.Context) error
}

// Archiver persists raw page snapshots.
type Archiver interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

// Server wires HTTP handlers to the scrape pipeline, store, sync scheduler
// and notification dispatcher.
type Server struct {
	router   chi.Router
	scraper  Scraper
	analyzer Analyzer
	store    Store
	notifier Notifier
	syncer   SyncRunner
	archiver Archiver
	clock    clock.Clock
	logger   *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	scraper Scraper,
	analyzer Analyzer,
	st Store,
	notifier Notifier,
	syncer SyncRunner,
	archiver Archiver,
	clk clock.Clock,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		scraper:  scraper,
		analyzer: analyzer,
		store:    st,
		notifier: notifier,
		syncer:   syncer,
		archiver: archiver,
		clock:    clk,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/scrape-website", s.scrapeWebsite)
		r.Post("/sync-airtable", s.syncAirtable)
		r.Post("/product-submissions/status", s.updateSubmissionStatus)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/welcome", s.sendWelcome)
		})
		r.Route("/submissions", func(r chi.Router) {
			r.Post("/payment-request", s.submissionEmail(notify.TemplatePaymentRequested))
			r.Post("/verification-started", s.submissionEmail(notify.TemplateVerificationStarted))
			r.Post("/completed", s.submissionEmail(notify.TemplateCompleted))
			r.Post("/request-feedback", s.submissionEmail(notify.TemplateFeedbackRequested))
		})
		r.Route("/payments", func(r chi.Router) {
			r.Post("/confirmed", s.paymentConfirmed)
		})
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
