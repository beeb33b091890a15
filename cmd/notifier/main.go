// Сервис уведомлений: периодически находит подписки, истекающие в ближайшие
// дни, и публикует их в очередь уведомлений RabbitMQ.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/magabrotheeeer/review-dashboard/internal/config"
	"github.com/magabrotheeeer/review-dashboard/internal/rabbitmq"
	"github.com/magabrotheeeer/review-dashboard/internal/services"
	"github.com/magabrotheeeer/review-dashboard/internal/storage/repository"
)

const scanInterval = 12 * time.Hour

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting notifier", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.DB.Close()

	conn, err := rabbitmq.Connect(cfg.AddressRabbitMQ, cfg.ConnectRetries, cfg.ConnectDelay)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", slog.Any("err", err))
		os.Exit(1)
	}
	defer conn.Close()

	channel, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		logger.Error("failed to setup rabbitmq channel", slog.Any("err", err))
		os.Exit(1)
	}
	defer channel.Close()

	notifier := services.NewNotifierService(db, logger)
	notifier.Run(ctx, channel, scanInterval)

	logger.Info("notifier stopped gracefully")
}
