// Package subscription содержит бизнес-логику оформления и отмены
// премиум-подписки.
package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/audiostory-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/sl"
	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

// ErrNotFound возвращается при операции над отсутствующей подпиской.
var ErrNotFound = errors.New("subscription not found")

// Repository определяет методы для работы с подписками в хранилище.
type Repository interface {
	// UpsertSubscription создает или заменяет подписку пользователя,
	// возвращает true для первой покупки.
	UpsertSubscription(ctx context.Context, userUID string, startDate, endDate time.Time) (bool, error)
	// DeleteSubscription удаляет подписку и снимает признак подписчика.
	DeleteSubscription(ctx context.Context, userUID string) error
	// GetSubscriptionByUser возвращает подписку пользователя.
	GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error)
}

// Publisher отправляет события об изменении подписки в брокер.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service реализует покупку, отмену и просмотр подписки.
type Service struct {
	repo      Repository
	publisher Publisher
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Purchase оформляет подписку на заданное число месяцев начиная с текущего
// момента. Повторная покупка заменяет действующий период, а не продлевает его.
// Второе значение сообщает, была ли подписка создана впервые.
func (s *Service) Purchase(ctx context.Context, userUID string, months int) (*models.Subscription, bool, error) {
	const op = "services.subscription.Purchase"

	startDate := time.Now().UTC()
	endDate := startDate.Add(time.Duration(months) * 30 * 24 * time.Hour)

	created, err := s.repo.UpsertSubscription(ctx, userUID, startDate, endDate)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription purchased",
		slog.String("user_uid", userUID),
		slog.Int("months", months),
		slog.Bool("created", created))

	// доставка уведомления не должна задерживать ответ клиенту
	go func() {
		msg := models.SubscriptionStatusMessage{UserUID: userUID}
		if err := s.publisher.Publish(rabbitmq.RoutingKeySubscription, msg); err != nil {
			s.log.Error("failed to enqueue subscription notification",
				slog.String("user_uid", userUID), sl.Err(err))
		}
	}()

	return &models.Subscription{
		UserUID:   userUID,
		StartDate: startDate,
		EndDate:   endDate,
	}, created, nil
}

// Cancel отменяет подписку пользователя.
func (s *Service) Cancel(ctx context.Context, userUID string) error {
	const op = "services.subscription.Cancel"

	if err := s.repo.DeleteSubscription(ctx, userUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription cancelled", slog.String("user_uid", userUID))
	return nil
}

// Get возвращает подписку пользователя.
func (s *Service) Get(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "services.subscription.Get"

	sub, err := s.repo.GetSubscriptionByUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}
