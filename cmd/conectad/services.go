package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/connectpalestine/conecta"
	"github.com/connectpalestine/conecta/internal/email"
	"github.com/connectpalestine/conecta/internal/queue"
	"github.com/connectpalestine/conecta/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Services holds all application services.
type Services struct {
	SubscriberService conecta.SubscriberService
	Mailer            conecta.Mailer
	Queue             queue.Queue
}

// initServices initializes all application services.
func initServices(pool *pgxpool.Pool, cfg *Config, logger *slog.Logger) *Services {
	db := postgres.NewDB(pool)
	logger.Info("database services initialized")

	mailer := email.NewMailer(logger, conecta.EmailConfig{
		Provider:            cfg.EmailProvider,
		PostmarkServerToken: cfg.EmailPostmarkToken,
		AssetBaseURL:        cfg.EmailAssetBaseURL,
	})
	logger.Info("mailer initialized", slog.String("provider", cfg.EmailProvider))

	q := queue.NewPostgresQueue(pool, logger, queueConfig(cfg))
	logger.Info("queue service initialized")

	return &Services{
		SubscriberService: db.SubscriberService,
		Mailer:            mailer,
		Queue:             q,
	}
}

func queueConfig(cfg *Config) queue.Config {
	return queue.Config{
		WorkerCount:     cfg.QueueWorkerCount,
		PollInterval:    cfg.QueuePollInterval,
		JobTimeout:      cfg.QueueJobTimeout,
		ShutdownTimeout: cfg.QueueShutdownTimeout,
	}
}

// startWorkers starts the worker pool and registers the job handlers.
func startWorkers(ctx context.Context, services *Services, cfg *Config, logger *slog.Logger) (*queue.WorkerPool, error) {
	pool := queue.NewWorkerPool(services.Queue, logger, queueConfig(cfg))
	pool.RegisterHandler(queue.JobTypeWelcomeEmail, welcomeEmailHandler(services.Mailer))

	if err := pool.Start(ctx, []string{queue.QueueDefault}); err != nil {
		return nil, err
	}
	return pool, nil
}

// welcomeEmailHandler delivers the welcome email for a freshly registered
// subscriber. A failed send marks the job failed and stops there; the
// registration that queued it already succeeded and stays successful.
func welcomeEmailHandler(mailer conecta.Mailer) queue.JobHandler {
	return func(ctx context.Context, job *queue.Job) (map[string]interface{}, error) {
		to, _ := job.Payload["email"].(string)
		name, _ := job.Payload["name"].(string)
		if to == "" {
			return nil, fmt.Errorf("welcome email job %s has no recipient", job.ID)
		}

		if err := mailer.SendWelcome(ctx, to, name); err != nil {
			return nil, err
		}

		return map[string]interface{}{"to": to}, nil
	}
}
