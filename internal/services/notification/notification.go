// Package notification содержит бизнес-логику ленты уведомлений пользователя.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

// ErrNotFound возвращается, если уведомление не существует или
// принадлежит другому пользователю.
var ErrNotFound = errors.New("notification not found")

// Repository определяет методы для работы с уведомлениями в хранилище.
type Repository interface {
	ListNotifications(ctx context.Context, userUID string) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int, userUID string) (int, error)
}

// Service реализует просмотр ленты и отметку о прочтении.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List возвращает уведомления пользователя, новые первыми.
func (s *Service) List(ctx context.Context, userUID string) ([]*models.Notification, error) {
	const op = "services.notification.List"

	list, err := s.repo.ListNotifications(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// MarkRead отмечает уведомление прочитанным. Чужие уведомления
// неотличимы от несуществующих.
func (s *Service) MarkRead(ctx context.Context, id int, userUID string) error {
	const op = "services.notification.MarkRead"

	rows, err := s.repo.MarkNotificationRead(ctx, id, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
