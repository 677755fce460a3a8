// Package notifier обрабатывает сообщения из брокера: отправляет письма
// с кодами подтверждения и раскладывает уведомления по пользователям.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/audiostory-backend/internal/lib/sl"
	libsmtp "github.com/magabrotheeeer/audiostory-backend/internal/lib/smtp"
	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

// Repository описывает методы хранилища, нужные обработчику уведомлений.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error)
	CreateNotification(ctx context.Context, n models.Notification) (int, error)
	BroadcastAudioNotification(ctx context.Context, audioID int, message string) (int, error)
	BroadcastCategoryNotification(ctx context.Context, categoryID int, message string) (int, error)
}

// Transport устанавливает соединение с SMTP-сервером.
type Transport interface {
	Connect() (libsmtp.Client, error)
	GetSMTPUser() string
}

// Service содержит обработчики для каждой очереди уведомлений.
type Service struct {
	repo      Repository
	transport Transport
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, transport Transport, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		transport: transport,
		log:       log,
	}
}

// HandleOTPEmail отправляет письмо с кодом подтверждения.
func (s *Service) HandleOTPEmail(body []byte) error {
	var message models.OTPMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal otp message", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := "Код подтверждения"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаш код подтверждения: %s.\n\nКод действует 10 минут.",
		message.FullName, message.Code)

	return s.sendEmail([]string{message.Email}, subject, bodyText)
}

// HandleSubscriptionStatus создает уведомление о состоянии подписки
// и дублирует его письмом.
func (s *Service) HandleSubscriptionStatus(body []byte) error {
	var message models.SubscriptionStatusMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal subscription message", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	ctx := context.Background()
	sub, err := s.repo.GetSubscriptionByUser(ctx, message.UserUID)
	if err != nil {
		s.log.Warn("subscription not found for notification",
			slog.String("user_uid", message.UserUID))
		return nil
	}

	now := time.Now().UTC()
	if !sub.IsActive(now) {
		return nil
	}

	text := fmt.Sprintf("Ваша премиум-подписка активна. Осталось месяцев: %d.", sub.MonthsLeft(now))
	if _, err := s.repo.CreateNotification(ctx, models.Notification{
		UserUID: message.UserUID,
		Message: text,
	}); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	user, err := s.repo.GetUser(ctx, message.UserUID)
	if err != nil {
		s.log.Warn("user not found for subscription email",
			slog.String("user_uid", message.UserUID))
		return nil
	}

	subject := "Подписка оформлена"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\n%s", user.FullName, text)
	if err := s.sendEmail([]string{user.Email}, subject, bodyText); err != nil {
		// уведомление уже в базе, письмо не критично
		s.log.Error("failed to send subscription email",
			slog.String("email", user.Email), sl.Err(err))
	}
	return nil
}

// HandleCatalogEvent раскладывает уведомление о новинке каталога
// всем пользователям одной командой.
func (s *Service) HandleCatalogEvent(body []byte) error {
	var message models.CatalogEventMessage
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal catalog event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	ctx := context.Background()
	var (
		count int
		err   error
	)
	switch message.Kind {
	case models.CatalogEventAudio:
		text := fmt.Sprintf("В каталоге новая аудиосказка: %s", message.Title)
		count, err = s.repo.BroadcastAudioNotification(ctx, message.ID, text)
	case models.CatalogEventCategory:
		text := fmt.Sprintf("В каталоге новая категория: %s", message.Title)
		count, err = s.repo.BroadcastCategoryNotification(ctx, message.ID, text)
	default:
		s.log.Warn("unknown catalog event kind", slog.String("kind", message.Kind))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to broadcast notification: %w", err)
	}

	s.log.Info("catalog notifications created",
		slog.String("kind", message.Kind), slog.Int("count", count))
	return nil
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to smtp server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit smtp client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", slog.Any("to", to))
	return nil
}
