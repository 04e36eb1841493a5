// Package mailer читает очередь уведомлений и отправляет письма с кодами подтверждения.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/yamdb/internal/config"
	"github.com/magabrotheeeer/yamdb/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
	"github.com/magabrotheeeer/yamdb/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/yamdb/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.mailer.New"

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	transport := smtp.NewTransport(cfg.SMTP, cfg.MailFrom, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.NewSenderService(logger, transport),
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, rabbitmq.ConfirmationQueue.QueueName, a.senderService.HandleConfirmationMessage)
	if err != nil {
		a.logger.Error("failed to start confirmation consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("mailer shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
