package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

// CreateNotification вставляет уведомление для одного пользователя.
func (s *Storage) CreateNotification(ctx context.Context, n models.Notification) (int, error) {
	const op = "storage.CreateNotification"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO notifications (user_uid, audio_id, category_id, message)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		n.UserUID, n.AudioID, n.CategoryID, n.Message).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// BroadcastAudioNotification создает уведомление о новом аудио для каждого
// пользователя системы одной вставкой. Рассылка растёт линейно с числом
// пользователей и приемлема только на малых объёмах.
func (s *Storage) BroadcastAudioNotification(ctx context.Context, audioID int, message string) (int, error) {
	const op = "storage.BroadcastAudioNotification"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO notifications (user_uid, audio_id, message)
			  SELECT uid, $1, $2 FROM users`
	res, err := s.DB.ExecContext(ctx, query, audioID, message)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rows), nil
}

// BroadcastCategoryNotification создает уведомление о новой категории
// для каждого пользователя системы одной вставкой.
func (s *Storage) BroadcastCategoryNotification(ctx context.Context, categoryID int, message string) (int, error) {
	const op = "storage.BroadcastCategoryNotification"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO notifications (user_uid, category_id, message)
			  SELECT uid, $1, $2 FROM users`
	res, err := s.DB.ExecContext(ctx, query, categoryID, message)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rows), nil
}

// ListNotifications возвращает уведомления пользователя, новые первыми.
func (s *Storage) ListNotifications(ctx context.Context, userUID string) ([]*models.Notification, error) {
	const op = "storage.ListNotifications"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, audio_id, category_id, message, is_read, created_at
			  FROM notifications
			  WHERE user_uid = $1
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Notification
	for rows.Next() {
		var n models.Notification
		var audioID, categoryID sql.NullInt64
		if err := rows.Scan(&n.ID, &n.UserUID, &audioID, &categoryID,
			&n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if audioID.Valid {
			v := int(audioID.Int64)
			n.AudioID = &v
		}
		if categoryID.Valid {
			v := int(categoryID.Int64)
			n.CategoryID = &v
		}
		result = append(result, &n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkNotificationRead отмечает уведомление прочитанным. Возвращает количество
// изменённых строк: 0 означает, что уведомления нет или оно чужое.
func (s *Storage) MarkNotificationRead(ctx context.Context, id int, userUID string) (int, error) {
	const op = "storage.MarkNotificationRead"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE notifications
			  SET is_read = TRUE
			  WHERE id = $1 AND user_uid = $2`
	res, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rows), nil
}
