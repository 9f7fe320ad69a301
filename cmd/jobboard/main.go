// cmd/jobboard/main.go
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

	"jobboard/internal/api"
	"jobboard/internal/auth"
	awsclients "jobboard/internal/common/aws"
	"jobboard/internal/common/config"
	"jobboard/internal/common/database"
	"jobboard/internal/common/logger"
	"jobboard/internal/common/observability"
	"jobboard/internal/common/storage"
	"jobboard/internal/notifier"
	"jobboard/internal/realtime"
	"jobboard/internal/search"
	"jobboard/internal/store"
	"jobboard/internal/workflows/notification"
	"jobboard/internal/workflows/submission"
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
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting job board server...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
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

	if dir := cfg.Database.Postgres.MigrationsDir; dir != "" {
		if err := pg.Migrate(dir); err != nil {
			zapLog.Fatal("migrations failed", zap.Error(err))
		}
		zapLog.Info("Migrations applied")
	}

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
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

	// --- Init object storage ---
	blobs, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		zapLog.Fatal("object storage init failed", zap.Error(err))
	}
	zapLog.Info("Object storage ready", zap.String("bucket", cfg.Storage.Bucket))

	// --- Outbound channels (optional) ---
	var sesClient notifier.SESService
	var snsClient notifier.SNSService
	if cfg.Notifications.EmailEnabled {
		c, err := awsclients.NewSESClient(ctx, cfg.Notifications.AWSRegion)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		sesClient = c
	}
	if cfg.Notifications.SMSEnabled {
		c, err := awsclients.NewSNSClient(ctx, cfg.Notifications.AWSRegion)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		snsClient = c
	}

	// --- Stores ---
	db := pg.GetDB()
	jobs := store.NewJobStore(db)
	apps := store.NewApplicationStore(db)
	notifs := store.NewNotificationStore(db, cfg.Notifications.ReadRetentionDays, cfg.Notifications.ReadListLimit)
	profiles := store.NewProfileStore(db)

	// --- Realtime hub ---
	hub := realtime.NewHub(rdb.GetClient(), cfg.Notifications.ChannelPrefix, log)
	go func() {
		if err := hub.Run(ctx); err != nil && ctx.Err() == nil {
			zapLog.Error("realtime hub stopped", zap.Error(err))
		}
	}()

	// --- Workflows ---
	outbound := notifier.NewOutbound(cfg.Notifications, sesClient, snsClient, profiles, log)
	fanout := notification.NewFanout(jobs, profiles, notifs, hub, outbound, log)
	submit := submission.NewWorkflow(blobs, apps, fanout, obs, log)

	jobIndex := search.NewJobIndex(esClient.Client, cfg.Database.Elasticsearch.JobIndex, log)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMins)*time.Minute)

	server := api.NewServer(api.Deps{
		Config:   cfg.Server,
		Tokens:   tokens,
		Jobs:     jobs,
		Apps:     apps,
		Notifs:   notifs,
		Profiles: profiles,
		Searcher: jobIndex,
		Indexer:  jobIndex,
		Submit:   submit,
		Fanout:   fanout,
		Hub:      hub,
		Logger:   log,
	})

	// --- Metrics/pprof endpoint ---
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Metrics server listening", zap.String("address", cfg.Server.MetricsAddress))
		if err := http.ListenAndServe(cfg.Server.MetricsAddress, nil); err != nil {
			zapLog.Error("metrics server stopped", zap.Error(err))
		}
	}()

	httpSrv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLog.Info("API server listening", zap.String("address", cfg.Server.Address))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("api server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("api server shutdown failed", zap.Error(err))
	}
	zapLog.Info("Server stopped")
}
