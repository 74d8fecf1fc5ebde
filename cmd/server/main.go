package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"LeadPulse/internal/api"
	"LeadPulse/internal/archive"
	"LeadPulse/internal/catalog"
	"LeadPulse/internal/config"
	"LeadPulse/internal/engine"
	"LeadPulse/internal/ingest"
	"LeadPulse/internal/leads"
	"LeadPulse/internal/mailer"
	"LeadPulse/internal/metrics"
)

func main() {

	// ------------------------------------------------
	// Logger
	// ------------------------------------------------
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// ------------------------------------------------
	// Config
	// ------------------------------------------------
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ------------------------------------------------
	// Root Context + Shutdown
	// ------------------------------------------------
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	// ------------------------------------------------
	// Metrics
	// ------------------------------------------------
	metrics.Init()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("metrics server started", zap.String("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("metrics server error", zap.Error(err))
		}
	}()

	// ------------------------------------------------
	// Message Catalog + Lead Registry
	// ------------------------------------------------
	cat := catalog.Load(cfg.CatalogPath, logger)
	registry := leads.NewRegistry()

	// ------------------------------------------------
	// Reply Archive
	// ------------------------------------------------
	var replyArchive archive.Archive
	if cfg.ArchiveDSN != "" {
		pg, err := archive.NewPostgres(ctx, cfg.ArchiveDSN)
		if err != nil {
			logger.Fatal("archive database connection failed", zap.Error(err))
		}
		defer pg.Close()
		replyArchive = pg
	} else {
		replyArchive = archive.NewFile(cfg.ArchivePath)
	}

	// ------------------------------------------------
	// Mail Transport
	// ------------------------------------------------
	transport := &mailer.Mail{
		SMTP: &mailer.SMTPTransport{
			Host:    cfg.SMTPHost,
			Port:    cfg.SMTPPort,
			Timeout: cfg.SMTPTimeout,
		},
		IMAP: &mailer.IMAPTransport{
			Addr:    cfg.IMAPAddr,
			Mailbox: cfg.IMAPMailbox,
			Timeout: cfg.IMAPTimeout,
		},
	}

	// ------------------------------------------------
	// Reply Ingestor
	// ------------------------------------------------
	ingestor := &ingest.Ingestor{
		Transport: transport,
		Registry:  registry,
		Archive:   replyArchive,
		Log:       logger,
	}

	// ------------------------------------------------
	// Rate Limiter
	// ------------------------------------------------
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)

	// ------------------------------------------------
	// Campaign Engine
	// ------------------------------------------------
	eng := engine.New(
		engine.Config{
			PollInterval:     cfg.PollInterval,
			FollowupInterval: cfg.FollowupInterval,
			AutoReplyLimit:   cfg.AutoReplyLimit,
			FollowupLimit:    cfg.FollowupLimit,
		},
		cat,
		registry,
		transport,
		ingestor,
		limiter,
		logger,
	)

	// ------------------------------------------------
	// HTTP API Server
	// ------------------------------------------------
	events := engine.NewBuffer(200)
	sink := engine.MultiSink(events, &engine.ZapSink{Log: logger})

	apiHandler := &api.Handler{
		Engine: eng,
		Sink:   sink,
		Events: events,
		Log:    logger,
	}

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("POST /leads", apiHandler.LoadLeads)
	apiMux.HandleFunc("POST /campaign/start", apiHandler.StartCampaign)
	apiMux.HandleFunc("POST /campaign/stop", apiHandler.StopCampaign)
	apiMux.HandleFunc("GET /campaign/status", apiHandler.CampaignStatus)
	apiMux.HandleFunc("GET /logs", apiHandler.EventLog)

	apiServer := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: apiMux,
	}

	go func() {
		logger.Info("api server started", zap.String("port", cfg.APIPort))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("api server error", zap.Error(err))
		}
	}()

	// ------------------------------------------------
	// Wait for shutdown
	// ------------------------------------------------
	<-ctx.Done()

	logger.Info("shutting down services...")

	// Stop the campaign worker and wait for it to exit
	eng.Stop()
	eng.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", zap.Error(err))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown failed", zap.Error(err))
	}

	logger.Info("application shutdown complete")
}
