// Package notifier собирает воркер почтовых уведомлений: подключение
// к брокеру, потребителей очередей и SMTP-транспорт.
package notifier

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/config"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/smtp"
	notifierservice "github.com/magabrotheeeer/hotjob-eligibility/internal/services/notifier"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/storage/repository"
)

// App инкапсулирует потребителей очередей и их зависимости.
type App struct {
	conn            *amqp.Connection
	ch              *amqp.Channel
	notifierService *notifierservice.NotifierService
	db              *repository.Storage
	logger          *slog.Logger
}

// New собирает воркер: хранилище, брокер и сервис уведомлений.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetApplicationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	notifierService := notifierservice.NewNotifierService(transport, db, logger)

	return &App{
		conn:            conn,
		ch:              ch,
		notifierService: notifierService,
		db:              db,
		logger:          logger,
	}, nil
}

// Run запускает потребителей и ждёт отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "application.submitted", a.notifierService.SendApplicationSubmitted)
	if err != nil {
		a.logger.Error("failed to start application.submitted consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, "wallet.debited", a.notifierService.SendWalletDebited)
	if err != nil {
		a.logger.Error("failed to start wallet.debited consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	_ = a.db.DB.Close()

	return nil
}
