package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

// UpsertSubscription создает или целиком заменяет подписку пользователя и
// выставляет денормализованный флаг is_subscribed в одной транзакции.
// Уникальный индекс по user_uid разрешает гонку одновременных покупок.
// Возвращает true, если запись была создана, false — если заменена.
func (s *Storage) UpsertSubscription(ctx context.Context, userUID string, startDate, endDate time.Time) (bool, error) {
	const op = "storage.UpsertSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO subscriptions (user_uid, start_date, end_date)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (user_uid) DO UPDATE
			  SET start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date
			  RETURNING (xmax = 0)`
	var created bool
	if err = tx.QueryRowContext(ctx, query, userUID, startDate, endDate).Scan(&created); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET is_subscribed = TRUE WHERE uid = $1`, userUID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// DeleteSubscription удаляет подписку пользователя и сбрасывает флаг
// is_subscribed в одной транзакции. Если подписки нет, возвращает
// sql.ErrNoRows и не трогает флаг.
func (s *Storage) DeleteSubscription(ctx context.Context, userUID string) error {
	const op = "storage.DeleteSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM subscriptions WHERE user_uid = $1`, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET is_subscribed = FALSE WHERE uid = $1`, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSubscriptionByUser возвращает подписку пользователя.
func (s *Storage) GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, start_date, end_date
			  FROM subscriptions
			  WHERE user_uid = $1`
	var sub models.Subscription
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.StartDate, &sub.EndDate); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}
