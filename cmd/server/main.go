package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	supabase "github.com/supabase-community/supabase-go"
	"golang.org/x/time/rate"

	"podcast-repurposer/internal/auth"
	"podcast-repurposer/internal/config"
	"podcast-repurposer/internal/db"
	"podcast-repurposer/internal/generate"
	"podcast-repurposer/internal/handlers"
	"podcast-repurposer/internal/middleware"
	"podcast-repurposer/internal/notify"
	"podcast-repurposer/internal/pipeline"
	"podcast-repurposer/internal/storage"
	"podcast-repurposer/internal/transcribe"
	"podcast-repurposer/pkg/logger"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "json")
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err := cfg.ValidateServer(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log.Info().Str("commit", CommitSHA).Msg("Starting server")

	conn, err := db.Connect(context.Background(), cfg.Database.URL, db.Options{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxLifetime:  cfg.Database.MaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer conn.Close()

	if cfg.Database.MigrateOnStart {
		if err := db.Migrate(conn.DB, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}
	store := db.NewStore(conn, log)

	sb, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Supabase client")
	}

	openaiCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		openaiCfg.BaseURL = cfg.OpenAI.BaseURL
	}
	ai := openai.NewClientWithConfig(openaiCfg)

	notifier, closeNotifier := newNotifier(cfg, store, log)
	defer closeNotifier()

	resolver := storage.NewResolver(storage.NewSupabaseSigner(sb, cfg.Supabase.Bucket), cfg.Supabase.Bucket, log,
		storage.WithTTL(cfg.Supabase.SignedURLTTL),
		storage.WithMaxBytes(cfg.Supabase.MaxAudioBytes),
	)
	orchestrator := pipeline.NewOrchestrator(
		store,
		resolver,
		transcribe.NewOpenAITranscriber(ai, transcribe.WithModel(cfg.OpenAI.TranscribeModel)),
		generate.NewOpenAIGenerator(ai, cfg.OpenAI.ChatModel),
		notifier,
		log,
		pipeline.WithTimeout(cfg.OpenAI.GenerationTimeout),
	)

	h := handlers.New(store, orchestrator, handlers.Options{
		StorageURL: cfg.Supabase.URL,
		Bucket:     cfg.Supabase.Bucket,
		BaseURL:    cfg.Server.BaseURL,
	}, log)
	limiter := middleware.NewRateLimiterMiddleware(perMinute(cfg.Server.RateLimitPerMinute), cfg.Server.RateLimitBurst, log)
	authMW := middleware.AuthMiddleware(newVerifiers(cfg, sb, store), log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      h.Router(authMW, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

// newVerifiers enables bearer tokens always and Telegram init data when a
// bot token is configured.
func newVerifiers(cfg *config.Config, sb *supabase.Client, store auth.UserStore) middleware.Verifiers {
	v := middleware.Verifiers{}
	if sb != nil {
		v["bearer"] = auth.NewSupabaseVerifier(sb.Auth, store)
	}
	if cfg.Telegram.BotToken != "" {
		v["tma"] = auth.NewTelegramVerifier(cfg.Telegram.BotToken, 24*time.Hour, store)
	}
	return v
}

// newNotifier queues notifications through asynq when Redis is configured
// and writes them inline otherwise.
func newNotifier(cfg *config.Config, store *db.Store, log zerolog.Logger) (pipeline.Notifier, func()) {
	if cfg.Queue.RedisAddr == "" {
		return notify.NewDirectNotifier(store), func() {}
	}
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Queue.RedisAddr})
	return notify.NewQueueNotifier(client, log), func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing asynq client")
		}
	}
}

func perMinute(n int) rate.Limit {
	return rate.Limit(float64(n) / 60)
}
