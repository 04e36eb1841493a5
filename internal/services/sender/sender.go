// Package sender отправляет письма с кодами подтверждения через SMTP.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/yamdb/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/yamdb/internal/lib/sl"
	"github.com/magabrotheeeer/yamdb/internal/lib/smtp"
	"github.com/magabrotheeeer/yamdb/internal/models"
)

const confirmationSubject = "Код подтверждения YaMDb"

// SenderService отправляет письма через SMTP транспорт.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendConfirmationCode отправляет код подтверждения синхронно.
func (s *SenderService) SendConfirmationCode(_ context.Context, msg models.ConfirmationMessage) error {
	const op = "sender.SendConfirmationCode"

	bodyText := fmt.Sprintf("Здравствуйте, %s!\r\n\r\nВаш код подтверждения: %s\r\n\r\n"+
		"Отправьте его вместе с именем пользователя на /api/v1/auth/token/, чтобы получить токен.",
		msg.Username, msg.Code)

	if err := s.sendEmail([]string{msg.Email}, confirmationSubject, bodyText); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// HandleConfirmationMessage обработчик сообщения из очереди уведомлений.
func (s *SenderService) HandleConfirmationMessage(body []byte) error {
	const op = "sender.HandleConfirmationMessage"

	var msg models.ConfirmationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		s.log.Error("failed to unmarshal message body", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: error unmarshalling message: %v: %w", op, err, rabbitmq.ErrReject)
	}
	if msg.Email == "" || msg.Code == "" {
		return fmt.Errorf("%s: message without email or code: %w", op, rabbitmq.ErrReject)
	}
	return s.SendConfirmationCode(context.Background(), msg)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	log := s.log.With(slog.Any("to", to))
	from := s.transport.From()

	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err = client.Mail(from); err != nil {
		log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err = client.Rcpt(addr); err != nil {
			log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		log.Error("failed to close Data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	log.Info("email sent successfully")
	return nil
}
