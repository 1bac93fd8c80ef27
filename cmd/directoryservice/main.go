// Package main wires together the directory service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/launchdir/directory-service/internal/airtable"
	"github.com/launchdir/directory-service/internal/analyze"
	"github.com/launchdir/directory-service/internal/api"
	"github.com/launchdir/directory-service/internal/archive"
	"github.com/launchdir/directory-service/internal/clock/system"
	"github.com/launchdir/directory-service/internal/config"
	"github.com/launchdir/directory-service/internal/events"
	"github.com/launchdir/directory-service/internal/fetcher"
	"github.com/launchdir/directory-service/internal/logging"
	"github.com/launchdir/directory-service/internal/notify"
	"github.com/launchdir/directory-service/internal/scrape"
	"github.com/launchdir/directory-service/internal/store"
	syncer "github.com/launchdir/directory-service/internal/sync"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := system.New()

	db, err := store.NewPostgres(ctx, store.Config{
		DSN:      cfg.DB.DSN,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	defer db.Close()

	static := fetcher.NewStatic(fetcher.StaticConfig{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})
	headless := fetcher.NewHeadless(fetcher.HeadlessConfig{
		UserAgent:  cfg.HTTP.UserAgent,
		NavTimeout: cfg.NavTimeout(),
		WaitDelay:  time.Duration(cfg.Headless.WaitMs) * time.Millisecond,
	})
	detector := fetcher.NewHeuristic(cfg.Headless.ThresholdB)
	normalizer := scrape.NewNormalizer(scrape.Limits{
		MaxContentChars: cfg.Scrape.MaxContentChars,
		MaxHeadings:     cfg.Scrape.MaxHeadings,
		MaxParagraphs:   cfg.Scrape.MaxParagraphs,
		MaxLinks:        cfg.Scrape.MaxLinks,
	})
	scraper := scrape.NewService(static, headless, detector, normalizer, cfg.FetchTimeout(), logger.Named("scrape"))

	llmClient, err := analyze.NewAnthropicClient(analyze.AnthropicConfig{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		logger.Fatal("llm client init failed", zap.Error(err))
	}
	analyzer := analyze.New(llmClient, clk, logger.Named("analyze"))

	at, err := airtable.New(cfg.Airtable.APIKey, cfg.Airtable.BaseID)
	if err != nil {
		logger.Fatal("airtable client init failed", zap.Error(err))
	}
	reconciler := syncer.NewReconciler(db, at, clk, cfg.Airtable.BatchSize, logger.Named("sync"))
	scheduler := syncer.NewScheduler(reconciler, syncer.DefaultMappings(), cfg.SyncInterval(), logger.Named("sync"))

	var sender notify.Sender = notify.NoOpSender{}
	if cfg.Email.APIKey != "" {
		resendSender, err := notify.NewResendSender(cfg.Email.APIKey, cfg.Email.FromAddress)
		if err != nil {
			logger.Fatal("email sender init failed", zap.Error(err))
		}
		sender = resendSender
	} else {
		logger.Warn("no email api key configured, email delivery disabled")
	}

	var publisher events.Publisher = events.NoOpPublisher{}
	if cfg.Events.Provider == "pubsub" {
		pub, err := events.NewPubSubPublisher(ctx, cfg.Events.ProjectID, cfg.Events.TopicID)
		if err != nil {
			logger.Fatal("pubsub publisher init failed", zap.Error(err))
		}
		defer func() {
			if closeErr := pub.Close(); closeErr != nil {
				logger.Error("pubsub publisher close failed", zap.Error(closeErr))
			}
		}()
		publisher = pub
	}

	var archiver api.Archiver
	if cfg.Archive.Provider == "gcs" {
		gcs, err := archive.NewGCSProvider(ctx, cfg.Archive.Bucket, cfg.Archive.Prefix)
		if err != nil {
			logger.Fatal("archive provider init failed", zap.Error(err))
		}
		defer func() {
			if closeErr := gcs.Close(); closeErr != nil {
				logger.Error("archive provider close failed", zap.Error(closeErr))
			}
		}()
		archiver = gcs
	}

	dispatcher := notify.NewDispatcher(db, sender, notify.NewRegistry(), publisher, clk, logger.Named("notify"))

	apiServer := api.NewServer(scraper, analyzer, db, dispatcher, scheduler, archiver, clk, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("sync scheduler started", zap.Duration("interval", cfg.SyncInterval()))
		scheduler.Run(ctx)
	}()

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
