package main

import (
	"commentadmin/app/comment"
	"commentadmin/infra/rabbitmq"
	"commentadmin/infra/storage"
	"commentadmin/internal/consumers"
	"commentadmin/pkg/config"
	"commentadmin/pkg/events"
	"commentadmin/pkg/logger"
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

func main() {
	log := logger.Init()
	defer log.Sync()

	zap.L().Info("Comment intake worker starting...")

	appConfig := config.Read()
	zap.L().Info("Worker config loaded",
		zap.String("serviceName", appConfig.ServiceName),
		zap.String("storageDriver", appConfig.StorageDriver),
	)

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repository, err := storage.Open(ctx, appConfig)
	if err != nil {
		zap.L().Fatal("Failed to open storage", zap.Error(err))
	}
	defer repository.Close()

	commentService := comment.NewService(repository, comment.Options{
		EnrichConcurrency:  appConfig.EnrichConcurrency,
		LegacyItemRuleJoin: appConfig.LegacyItemRuleJoin,
	})

	commentHandler := consumers.NewCommentEventHandler(commentService)

	// Queue name: {service}.{domain}.{events}.{version}
	intakeConsumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, rabbitmq.ConsumerConfig{
		Exchange:       events.IntakeExchange,
		QueueName:      appConfig.ServiceName + ".comment.submitted.v1",
		RoutingKeys:    []string{events.CommentSubmittedEvent + "." + events.EventVersionV1},
		ServiceName:    appConfig.ServiceName,
		PrefetchCount:  10,
		WorkerPoolSize: 4,
	})
	if err != nil {
		zap.L().Fatal("Failed to create intake consumer", zap.Error(err))
	}
	defer intakeConsumer.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		zap.L().Info("Starting comment intake consumer...")
		if err := intakeConsumer.Consume(ctx, commentHandler.HandleEvent); err != nil && !errors.Is(err, context.Canceled) {
			zap.L().Error("Intake consumer error", zap.Error(err))
			sigChan <- syscall.SIGTERM
		}
	}()

	zap.L().Info("Worker service started successfully. Waiting for events...",
		zap.String("exchange", events.IntakeExchange),
	)

	<-sigChan
	zap.L().Info("Shutdown signal received, stopping worker service...")
	cancel()

	zap.L().Info("Worker service stopped gracefully")
}
