package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

// CreateAudio вставляет новую запись каталога и возвращает её ID.
func (s *Storage) CreateAudio(ctx context.Context, audio models.Audio) (int, error) {
	const op = "storage.CreateAudio"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO audios (title, artist, description, category_id, is_featured)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		audio.Title, audio.Artist, audio.Description, audio.CategoryID, audio.IsFeatured).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CreateCategory вставляет новую категорию и возвращает её ID.
func (s *Storage) CreateCategory(ctx context.Context, name string) (int, error) {
	const op = "storage.CreateCategory"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO categories (name)
			  VALUES ($1)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, name).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetAudio возвращает запись каталога по ID.
func (s *Storage) GetAudio(ctx context.Context, id int) (*models.Audio, error) {
	const op = "storage.GetAudio"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, artist, description, category_id, play_count, is_featured, created_at
			  FROM audios
			  WHERE id = $1`
	var a models.Audio
	var description sql.NullString
	var categoryID sql.NullInt64
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&a.ID, &a.Title, &a.Artist, &description, &categoryID,
		&a.PlayCount, &a.IsFeatured, &a.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if description.Valid {
		a.Description = description.String
	}
	if categoryID.Valid {
		v := int(categoryID.Int64)
		a.CategoryID = &v
	}
	return &a, nil
}

// ListAudios возвращает каталог, новые записи первыми.
func (s *Storage) ListAudios(ctx context.Context) ([]*models.Audio, error) {
	const op = "storage.ListAudios"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, artist, description, category_id, play_count, is_featured, created_at
			  FROM audios
			  ORDER BY created_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Audio
	for rows.Next() {
		var a models.Audio
		var description sql.NullString
		var categoryID sql.NullInt64
		if err := rows.Scan(&a.ID, &a.Title, &a.Artist, &description, &categoryID,
			&a.PlayCount, &a.IsFeatured, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if description.Valid {
			a.Description = description.String
		}
		if categoryID.Valid {
			v := int(categoryID.Int64)
			a.CategoryID = &v
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// IncrementPlayCount увеличивает счётчик прослушиваний.
// Возвращает количество изменённых строк.
func (s *Storage) IncrementPlayCount(ctx context.Context, id int) (int, error) {
	const op = "storage.IncrementPlayCount"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE audios
			  SET play_count = play_count + 1
			  WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rows), nil
}
