package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/aivahomes/realty-ai-platform/cmd/mainconfig"
	"github.com/aivahomes/realty-ai-platform/internal/admin"
	"github.com/aivahomes/realty-ai-platform/internal/api/router"
	"github.com/aivahomes/realty-ai-platform/internal/assistant"
	"github.com/aivahomes/realty-ai-platform/internal/callbacks"
	appconfig "github.com/aivahomes/realty-ai-platform/internal/config"
	"github.com/aivahomes/realty-ai-platform/internal/conversation"
	"github.com/aivahomes/realty-ai-platform/internal/leads"
	"github.com/aivahomes/realty-ai-platform/internal/notify"
	"github.com/aivahomes/realty-ai-platform/internal/observability/metrics"
	"github.com/aivahomes/realty-ai-platform/internal/voice"
	"github.com/aivahomes/realty-ai-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting realty-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assistantMetrics := metrics.NewAssistantMetrics(nil)
	dispatchMetrics := metrics.NewDispatchMetrics(nil)

	// Conversation history lives in Redis.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	convStore := conversation.NewStore(rdb)

	// Relational storage. Without DATABASE_URL everything runs in memory,
	// which is enough for local development.
	var (
		leadsRepo leads.Repository
		cbStore   callbacks.Store
		sqlDB     *sql.DB
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create postgres pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadsRepo = leads.NewPostgresRepository(pool)
		cbStore = callbacks.NewPostgresStore(pool)

		sqlDB, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open reporting database", "error", err)
			os.Exit(1)
		}
		defer sqlDB.Close()
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		leadsRepo = leads.NewInMemoryRepository()
		cbStore = callbacks.NewInMemoryStore()
	}

	// Completion provider. A missing key degrades chat to canned replies.
	var gateway assistant.CompletionClient
	if client, err := assistant.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger); err != nil {
		logger.Warn("completion provider not configured", "error", err)
	} else {
		gateway = client
	}

	// Voice provider. Without it callbacks are recorded but dispatch fails.
	var caller callbacks.CallPlacer
	var voiceHandler *voice.Handler
	if client, err := voice.New(voice.Config{
		APIKey:  cfg.VoiceAPIKey,
		BaseURL: cfg.VoiceBaseURL,
		Logger:  logger,
	}); err != nil {
		logger.Warn("voice provider not configured", "error", err)
	} else {
		caller = client
		voiceHandler = voice.NewHandler(client, cfg.VoiceAgentID, logger)
	}

	notifier := buildNotifier(ctx, cfg, logger)

	assistantService := assistant.NewService(gateway, convStore, assistant.Params{
		ChatTemperature: float32(cfg.ChatTemperature),
		ChatMaxTokens:   cfg.ChatMaxTokens,
		DocTemperature:  float32(cfg.DocTemperature),
		DocMaxTokens:    cfg.DocMaxTokens,
	}, assistantMetrics, logger)

	scheduler := callbacks.NewScheduler(cbStore, leadsRepo, logger)
	dispatcher := callbacks.NewDispatcher(cbStore, convStore, caller, callbacks.DispatcherConfig{
		AgentID:        cfg.VoiceAgentID,
		FromNumber:     cfg.VoiceFromNumber,
		TransferNumber: cfg.VoiceTransferNumber,
		BatchSize:      cfg.DispatchBatchSize,
	}, logger, dispatchMetrics)

	// Interval sweep runs alongside the authenticated trigger endpoint.
	go dispatcher.Run(ctx, cfg.DispatchInterval)

	r := router.New(&router.Config{
		Logger:             logger,
		AssistantHandler:   assistant.NewHandler(assistantService, logger),
		LeadsHandler:       leads.NewHandler(leadsRepo, notifier, logger),
		CallbacksHandler:   callbacks.NewHandler(scheduler, dispatcher, cbStore, logger),
		VoiceHandler:       voiceHandler,
		AdminDashboard:     admin.NewDashboardHandler(sqlDB, logger),
		MetricsHandler:     promhttp.Handler(),
		DispatchSecret:     cfg.DispatchSecret,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: splitList(cfg.CORSAllowedOrigins),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildNotifier picks the configured email provider. Everything degrades to
// a logging stub so the lead flow never depends on email.
func buildNotifier(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *notify.Service {
	var sender notify.EmailSender = notify.NewStubEmailSender(logger)

	switch cfg.EmailProvider {
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Warn("failed to load AWS config, email disabled", "error", err)
			break
		}
		if ses := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger); ses != nil {
			sender = ses
		}
	default:
		if sg := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.NotifyFromEmail,
			FromName:  cfg.NotifyFromName,
		}, logger); sg != nil {
			sender = sg
		}
	}

	return notify.NewService(sender, splitList(cfg.NotifyInboxEmail), cfg.NotifyFromName, logger)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
