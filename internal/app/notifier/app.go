// Package notifier собирает воркер уведомлений: потребителей очередей
// брокера, SMTP-транспорт и хранилище.
package notifier

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/audiostory-backend/internal/config"
	librabbitmq "github.com/magabrotheeeer/audiostory-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/smtp"
	"github.com/magabrotheeeer/audiostory-backend/internal/rabbitmq"
	notifierservice "github.com/magabrotheeeer/audiostory-backend/internal/services/notifier"
	"github.com/magabrotheeeer/audiostory-backend/internal/storage/repository"
)

type App struct {
	conn            *amqp.Connection
	ch              *amqp.Channel
	notifierService *notifierservice.Service
	logger          *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, librabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	notifierService := notifierservice.New(db, transport, logger)

	return &App{
		conn:            conn,
		ch:              ch,
		notifierService: notifierService,
		logger:          logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	consumers := []struct {
		queue   string
		handler func([]byte) error
	}{
		{librabbitmq.QueueOTP, a.notifierService.HandleOTPEmail},
		{librabbitmq.QueueSubscription, a.notifierService.HandleSubscriptionStatus},
		{librabbitmq.QueueCatalog, a.notifierService.HandleCatalogEvent},
	}

	for _, c := range consumers {
		if err := rabbitmq.ConsumerMessage(ctx, a.ch, c.queue, c.handler); err != nil {
			a.logger.Error("failed to start consumer",
				slog.String("queue", c.queue), slog.Any("err", err))
			return err
		}
	}

	<-ctx.Done()
	a.logger.Info("notifier service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
