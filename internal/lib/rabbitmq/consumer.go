package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
)

// maxInFlight ограничивает число одновременно обрабатываемых сообщений.
const maxInFlight = 10

// ErrReject помечает сообщение, которое не получится обработать и при повторе.
// Такое сообщение отбрасывается без возврата в очередь.
var ErrReject = errors.New("message rejected")

// ConsumerMessage запускает потребителя очереди. Сообщение подтверждается,
// если handler вернул nil, отбрасывается при ErrReject, иначе возвращается в очередь. Потребление
// прекращается при отмене ctx или закрытии канала доставки.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queueName))

	sem := make(chan struct{}, maxInFlight)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				if !acquire(ctx, sem) {
					if nackErr := d.Nack(false, true); nackErr != nil {
						log.Error("failed to nack message", sl.Err(nackErr))
					}
					return
				}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					err := handler(d.Body)
					if errors.Is(err, ErrReject) {
						log.Error("message rejected", sl.Err(err))
						if nackErr := d.Nack(false, false); nackErr != nil {
							log.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}
					if err != nil {
						log.Error("handler failed, requeue", sl.Err(err))
						if nackErr := d.Nack(false, true); nackErr != nil {
							log.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}
					if ackErr := d.Ack(false); ackErr != nil {
						log.Error("failed to ack message", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// acquire занимает слот в sem. Возвращает false, если ctx отменён раньше,
// чем освободился слот.
func acquire(ctx context.Context, sem chan struct{}) bool {
	select {
	case sem <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}
