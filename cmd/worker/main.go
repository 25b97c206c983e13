package main

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hibiken/asynq"

	"podcast-repurposer/internal/config"
	"podcast-repurposer/internal/db"
	"podcast-repurposer/internal/worker"
	"podcast-repurposer/pkg/logger"
	"podcast-repurposer/pkg/tasks"
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

	conn, err := db.Connect(context.Background(), cfg.Database.URL, db.Options{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxLifetime:  cfg.Database.MaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer conn.Close()
	store := db.NewStore(conn, log)

	redisAddr := cfg.Queue.RedisAddr
	if redisAddr == "" {
		redisAddr = "127.0.0.1:6379"
	}

	var sender worker.MessageSender
	if cfg.Telegram.BotToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Telegram bot")
		}
		log.Info().Str("bot", bot.Self.UserName).Msg("Telegram push enabled")
		sender = bot
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			// Exponential backoff: 10s, 20s, 40s, ... capped at 10 minutes.
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				delay := 10 * time.Second
				maxDelay := 10 * time.Minute
				for i := 0; i < n; i++ {
					delay *= 2
					if delay > maxDelay {
						delay = maxDelay
						break
					}
				}

				log.Warn().Err(err).Str("task", task.Type()).Int("attempt", n+1).Dur("retry_in", delay).Msg("Task failed")
				return delay
			},
		},
	)

	mux := asynq.NewServeMux()
	taskHandler := worker.NewTaskHandler(store, sender, log)
	mux.HandleFunc(tasks.TypeCreateNotification, taskHandler.HandleCreateNotificationTask)

	log.Info().Str("commit", CommitSHA).Str("redis", redisAddr).Msg("Worker starting")
	if err := srv.Run(mux); err != nil {
		log.Fatal().Err(err).Msg("could not run server")
	}
}
