// Package notifier способы доставки кода подтверждения: через очередь или в лог.
// Синхронная отправка по SMTP реализована в пакете sender.
package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/yamdb/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/yamdb/internal/models"
)

// QueueNotifier публикует письмо в очередь уведомлений, отправкой занимается mailer.
type QueueNotifier struct {
	ch rabbitmq.Channel
}

// NewQueueNotifier создаёт QueueNotifier поверх открытого канала.
func NewQueueNotifier(ch rabbitmq.Channel) *QueueNotifier {
	return &QueueNotifier{ch: ch}
}

// SendConfirmationCode публикует сообщение с кодом.
func (n *QueueNotifier) SendConfirmationCode(_ context.Context, msg models.ConfirmationMessage) error {
	const op = "notifier.QueueNotifier.SendConfirmationCode"
	err := rabbitmq.PublishMessage(n.ch, rabbitmq.NotificationsExchange, rabbitmq.ConfirmationQueue.RoutingKey, msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// LogNotifier пишет код в лог. Используется при локальной разработке.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier создаёт LogNotifier.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// SendConfirmationCode логирует код подтверждения.
func (n *LogNotifier) SendConfirmationCode(_ context.Context, msg models.ConfirmationMessage) error {
	n.log.Info("confirmation code issued",
		slog.String("username", msg.Username),
		slog.String("email", msg.Email),
		slog.String("confirmation_code", msg.Code),
	)
	return nil
}
