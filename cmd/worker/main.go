// Email delivery worker: consumes queued email messages and delivers them
// through the Mailtrap API. Runs as a separate process from the API server.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"identity-service/internal/events"
	"identity-service/pkg/mailer"
	"identity-service/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting email worker", zap.String("queue", config.Queue.QueueName))

	client := mailer.NewMailtrapClient(config.Mailtrap)

	consumer, err := events.NewEmailConsumer(config.Queue, client, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message broker", zap.Error(err))
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("Consumer stopped", zap.Error(err))
	}

	logger.Info("Email worker shut down")
}
