// cmd/bot-host/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bot-middleware/internal/alerts"
	"bot-middleware/internal/bot"
	"bot-middleware/internal/clients/luis"
	"bot-middleware/internal/clients/moderation"
	"bot-middleware/internal/common/auth"
	"bot-middleware/internal/common/config"
	"bot-middleware/internal/common/database"
	"bot-middleware/internal/common/logger"
	"bot-middleware/internal/common/observability"
	"bot-middleware/internal/dialogs/skill"
	"bot-middleware/internal/host"
	"bot-middleware/internal/middleware/contentmoderation"
	"bot-middleware/internal/middleware/telemetrylogger"
	"bot-middleware/internal/middleware/transcript"
	"bot-middleware/internal/telemetry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting bot host...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("bot-host")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init PostgreSQL with retry (transcript store) ---
	var pg *database.PostgresClient
	if config.IsMiddlewareEnabled(cfg, "transcript") {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Init Elasticsearch with retry (telemetry sink) ---
	var esClient *database.ElasticsearchClient
	if cfg.Telemetry.Elasticsearch.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Telemetry sinks ---
	var sinks []telemetry.Client
	var trackClient *telemetry.TrackClient
	if cfg.Telemetry.IngestionURL != "" {
		trackClient = telemetry.NewTrackClient(&telemetry.TrackClientConfig{
			IngestionURL:       cfg.Telemetry.IngestionURL,
			InstrumentationKey: cfg.Telemetry.InstrumentationKey,
			BatchSize:          cfg.Telemetry.BatchSize,
		}, log)
		sinks = append(sinks, trackClient)
	}
	if esClient != nil {
		sinks = append(sinks, telemetry.NewElasticSink(esClient, cfg.Telemetry.Elasticsearch.Index, log))
	}

	var telemetryClient telemetry.Client = telemetry.NopClient{}
	switch len(sinks) {
	case 0:
		zapLog.Warn("no telemetry sink configured, events will be dropped")
	case 1:
		telemetryClient = sinks[0]
	default:
		telemetryClient = telemetry.NewFanout(log, sinks...)
	}

	// Periodic flush for the batching sink.
	flushDone := make(chan struct{})
	if trackClient != nil {
		interval := config.GetDuration(cfg.Telemetry.FlushInterval)
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := trackClient.Flush(ctx); err != nil {
						log.Warn("periodic telemetry flush failed", map[string]interface{}{
							"error": err.Error(),
						})
					}
				case <-flushDone:
					return
				}
			}
		}()
	}

	// --- External service clients ---
	moderationClient := moderation.NewClient(&moderation.Config{
		BaseURL:     cfg.Moderation.BaseURL,
		APIKey:      cfg.Moderation.APIKey,
		Timeout:     config.GetDuration(cfg.Moderation.Timeout),
		AutoCorrect: cfg.Moderation.AutoCorrect,
		PII:         cfg.Moderation.PII,
		Classify:    cfg.Moderation.Classify,
		Language:    cfg.Moderation.Language,
	}, log)

	var recognizer host.Recognizer
	if cfg.Recognizer.Endpoint != "" {
		recognizer = luis.NewClient(&luis.Config{
			Endpoint: cfg.Recognizer.Endpoint,
			AppID:    cfg.Recognizer.AppID,
			APIKey:   cfg.Recognizer.APIKey,
			Timeout:  config.GetDuration(cfg.Recognizer.Timeout),
		}, log)
	}

	var skillDialog *skill.Dialog
	if cfg.Skill.Endpoint != "" {
		var tokens skill.TokenSource
		if cfg.Skill.TokenURL != "" {
			tokens = auth.NewTokenProvider(cfg.Skill.TokenURL, cfg.Skill.ClientID, cfg.Skill.ClientSecret, cfg.Skill.Scope)
		}
		skillClient := skill.NewClient(&skill.Config{
			Endpoint: cfg.Skill.Endpoint,
			Timeout:  config.GetDuration(cfg.Skill.RequestTimeout),
		}, tokens, log)
		skillDialog, err = skill.NewDialog(skillClient, log)
		if err != nil {
			zapLog.Fatal("failed to create skill dialog", zap.Error(err))
		}
		zapLog.Info("Skill dialog configured", zap.String("endpoint", cfg.Skill.Endpoint))
	}

	var alerter contentmoderation.Alerter
	if cfg.Notifications.SNS.Enabled || cfg.Notifications.SES.Enabled {
		notifier, err := alerts.NewNotifier(ctx, &cfg.Notifications, log)
		if err != nil {
			zapLog.Fatal("failed to create alert notifier", zap.Error(err))
		}
		alerter = notifier
		zapLog.Info("Flagged-content alerting configured")
	}

	// --- Middleware pipeline ---
	adapter := bot.NewAdapter(log)

	if config.IsMiddlewareEnabled(cfg, "transcript") {
		transcriptMW, err := transcript.New(transcript.NewStore(pg.GetDB()), log)
		if err != nil {
			zapLog.Fatal("failed to create transcript middleware", zap.Error(err))
		}
		adapter.Use(transcriptMW)
	}

	if config.IsMiddlewareEnabled(cfg, "content_moderation") {
		mwCfg := config.GetMiddlewareConfig(cfg, "content_moderation")
		moderationMW, err := contentmoderation.New(moderationClient, redisClient, alerter, &contentmoderation.Config{
			Language:      cfg.Moderation.Language,
			CacheTTL:      time.Duration(cfg.Moderation.CacheTTL) * time.Second,
			AlertOnReview: mwCfg.AlertOnReview,
		}, log)
		if err != nil {
			zapLog.Fatal("failed to create content moderation middleware", zap.Error(err))
		}
		adapter.Use(moderationMW)
	}

	if config.IsMiddlewareEnabled(cfg, "telemetry_logger") {
		mwCfg := config.GetMiddlewareConfig(cfg, "telemetry_logger")
		telemetryMW, err := telemetrylogger.New(telemetryClient, &telemetrylogger.Config{
			LogPersonalInformation: mwCfg.LogPersonalInformation,
		}, log)
		if err != nil {
			zapLog.Fatal("failed to create telemetry middleware", zap.Error(err))
		}
		adapter.Use(telemetryMW)
	}

	// --- Bot logic and HTTP server ---
	logic := host.NewLogic(recognizer, skillDialog, cfg.Bot.EchoTemplate, log)

	server, err := host.NewServer(adapter, logic.OnTurn, config.GetDuration(cfg.Bot.TurnTimeout), log)
	if err != nil {
		zapLog.Fatal("failed to create host server", zap.Error(err))
	}

	mux := http.NewServeMux()
	server.Routes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    cfg.Bot.ListenAddress,
		Handler: mux,
	}

	go func() {
		zapLog.Info("Bot host listening", zap.String("address", cfg.Bot.ListenAddress))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutting down bot host...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("http server shutdown failed", zap.Error(err))
	}

	close(flushDone)
	if err := telemetryClient.Flush(shutdownCtx); err != nil {
		zapLog.Warn("final telemetry flush failed", zap.Error(err))
	}

	zapLog.Info("Bot host stopped")
}
