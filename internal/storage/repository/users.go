package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

const userColumns = `uid, email, full_name, photo_url, password_hash, is_active,
			      is_staff, is_superuser, is_subscribed, otp, otp_exp, otp_verified, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var photoURL sql.NullString
	var otp sql.NullString
	var otpExp sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.FullName, &photoURL, &u.PasswordHash,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.IsSubscribed,
		&otp, &otpExp, &u.OTPVerified, &u.CreatedAt); err != nil {
		return nil, err
	}
	if photoURL.Valid {
		u.PhotoURL = &photoURL.String
	}
	if otp.Valid {
		u.OTP = &otp.String
	}
	if otpExp.Valid {
		u.OTPExp = &otpExp.Time
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его UID.
// Почта приводится к нижнему регистру.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, full_name, photo_url, password_hash, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		strings.ToLower(user.Email), user.FullName, user.PhotoURL,
		user.PasswordHash, user.IsActive).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по почте (без учета регистра).
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, strings.ToLower(email)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// DeleteUnverifiedByEmail удаляет непроверенные учётные записи с данной почтой.
// Вызывается перед повторной регистрацией, чтобы адрес можно было занять заново.
func (s *Storage) DeleteUnverifiedByEmail(ctx context.Context, email string) error {
	const op = "storage.DeleteUnverifiedByEmail"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM users
			  WHERE email = $1
			    AND otp_verified = FALSE
			    AND is_active = FALSE`
	_, err := s.DB.ExecContext(ctx, query, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveOTP записывает новый одноразовый код и срок его действия,
// сбрасывая флаг прошедшей проверки. Последняя запись выигрывает.
func (s *Storage) SaveOTP(ctx context.Context, userUID, code string, expiresAt time.Time) error {
	const op = "storage.SaveOTP"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET otp = $1, otp_exp = $2, otp_verified = FALSE
			  WHERE uid = $3`
	res, err := s.DB.ExecContext(ctx, query, code, expiresAt, userUID)
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
	return nil
}

// ActivateUser отмечает почту подтверждённой и активирует аккаунт,
// очищая поля одноразового кода. Единственный путь активации.
func (s *Storage) ActivateUser(ctx context.Context, userUID string) error {
	const op = "storage.ActivateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_active = TRUE, otp_verified = TRUE, otp = NULL, otp_exp = NULL
			  WHERE uid = $1`
	_, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkOTPVerified отмечает код прошедшим проверку, не очищая его:
// код будет употреблён при смене пароля.
func (s *Storage) MarkOTPVerified(ctx context.Context, userUID string) error {
	const op = "storage.MarkOTPVerified"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET otp_verified = TRUE
			  WHERE uid = $1`
	_, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdatePassword записывает новый хэш пароля и очищает поля одноразового кода.
func (s *Storage) UpdatePassword(ctx context.Context, userUID, passwordHash string) error {
	const op = "storage.UpdatePassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1, otp = NULL, otp_exp = NULL, otp_verified = FALSE
			  WHERE uid = $2`
	_, err := s.DB.ExecContext(ctx, query, passwordHash, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
