// Package auth содержит бизнес-логику регистрации, подтверждения почты
// и выдачи JWT-токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/audiostory-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/otp"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/password"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/sl"
	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

var (
	// ErrUserNotFound возвращается, если пользователь с таким email не зарегистрирован.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyVerified возвращается при повторной попытке подтвердить почту.
	ErrAlreadyVerified = errors.New("email already verified")
	// ErrInvalidCode возвращается при несовпадении кода подтверждения.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrCodeExpired возвращается, если срок действия кода истек.
	ErrCodeExpired = errors.New("verification code expired")
	// ErrInvalidCredentials возвращается при неверной паре email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive возвращается при входе в неподтвержденный аккаунт.
	ErrAccountInactive = errors.New("account is not active")
	// ErrInvalidToken возвращается для просроченного или отозванного refresh-токена.
	ErrInvalidToken = errors.New("invalid token")
	// ErrCodeNotVerified возвращается при смене пароля без подтвержденного кода.
	ErrCodeNotVerified = errors.New("verification code not confirmed")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, uid string) (*models.User, error)
	DeleteUnverifiedByEmail(ctx context.Context, email string) error
	SaveOTP(ctx context.Context, uid, code string, expiresAt time.Time) error
	ActivateUser(ctx context.Context, uid string) error
	MarkOTPVerified(ctx context.Context, uid string) error
	UpdatePassword(ctx context.Context, uid, passwordHash string) error
}

// TokenCache хранит отозванные refresh-токены до истечения их срока.
type TokenCache interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Publisher отправляет сообщения в брокер для асинхронной доставки писем.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// TokenPair содержит пару JWT-токенов, выдаваемую клиенту.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service реализует сценарии аутентификации: регистрацию с одноразовым
// кодом, вход, обновление токенов и восстановление пароля.
type Service struct {
	users     UserRepository
	tokens    TokenCache
	publisher Publisher
	jwtMaker  jwt.Maker
	otpTTL    time.Duration
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, tokens TokenCache, publisher Publisher,
	jwtMaker jwt.Maker, otpTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		users:     users,
		tokens:    tokens,
		publisher: publisher,
		jwtMaker:  jwtMaker,
		otpTTL:    otpTTL,
		log:       log,
	}
}

// Register создает неактивного пользователя и отправляет код подтверждения
// на почту. Незавершенная регистрация с тем же email вытесняется новой.
func (s *Service) Register(ctx context.Context, email, fullName, rawPassword string) (string, error) {
	const op = "services.auth.Register"

	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.users.DeleteUnverifiedByEmail(ctx, email); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	uid, err := s.users.CreateUser(ctx, models.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hashed,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.issueOTP(ctx, uid, email, fullName); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered, verification code sent",
		slog.String("email", email))
	return uid, nil
}

// VerifyEmail сверяет код подтверждения, активирует аккаунт и выдает
// пару токенов.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) (*TokenPair, error) {
	const op = "services.auth.VerifyEmail"

	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrUserNotFound
	}
	if user.OTPVerified && user.IsActive {
		return nil, ErrAlreadyVerified
	}
	if user.OTP == nil || *user.OTP != code {
		return nil, ErrInvalidCode
	}
	if user.OTPExp == nil || !time.Now().Before(*user.OTPExp) {
		return nil, ErrCodeExpired
	}

	if err := s.users.ActivateUser(ctx, user.UID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	access, refresh, err := s.jwtMaker.GenerateTokenPair(user.Email, user.UID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("email verified, account activated", slog.String("email", user.Email))
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Login проверяет пароль пользователя и генерирует пару токенов.
// Неактивный аккаунт отклоняется после проверки пароля, чтобы не
// раскрывать состояние аккаунта по неверным учетным данным.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*TokenPair, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	access, refresh, err := s.jwtMaker.GenerateTokenPair(user.Email, user.UID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in", slog.String("email", user.Email))
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh проверяет refresh-токен и выдает новую пару. Старый токен
// отзывается, чтобы каждая пара использовалась один раз.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	const op = "services.auth.Refresh"

	claims, err := s.jwtMaker.ParseToken(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	revoked, err := s.tokens.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	if err := s.tokens.RevokeToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	access, refresh, err := s.jwtMaker.GenerateTokenPair(claims.Email, claims.UserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout отзывает refresh-токен. Повторный выход с тем же токеном
// считается ошибкой клиента.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	const op = "services.auth.Logout"

	claims, err := s.jwtMaker.ParseToken(refreshToken, jwt.TokenTypeRefresh)
	if err != nil {
		return ErrInvalidToken
	}

	revoked, err := s.tokens.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if revoked {
		return ErrInvalidToken
	}

	if err := s.tokens.RevokeToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged out", slog.String("email", claims.Email))
	return nil
}

// RequestPasswordReset выдает новый код подтверждения для смены пароля.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "services.auth.RequestPasswordReset"

	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return ErrUserNotFound
	}

	if err := s.issueOTP(ctx, user.UID, user.Email, user.FullName); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("password reset code sent", slog.String("email", user.Email))
	return nil
}

// VerifyResetOTP сверяет код восстановления и помечает его подтвержденным,
// не сбрасывая сам код: он нужен для финального шага смены пароля.
func (s *Service) VerifyResetOTP(ctx context.Context, email, code string) error {
	const op = "services.auth.VerifyResetOTP"

	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return ErrUserNotFound
	}
	if user.OTP == nil || *user.OTP != code {
		return ErrInvalidCode
	}
	if user.OTPExp == nil || !time.Now().Before(*user.OTPExp) {
		return ErrCodeExpired
	}

	if err := s.users.MarkOTPVerified(ctx, user.UID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResetPassword устанавливает новый пароль после подтвержденного кода.
// Код одноразовый и сбрасывается вместе со сменой пароля.
func (s *Service) ResetPassword(ctx context.Context, email, rawPassword string) error {
	const op = "services.auth.ResetPassword"

	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return ErrUserNotFound
	}
	if !user.OTPVerified {
		return ErrCodeNotVerified
	}
	if user.OTPExp == nil || !time.Now().Before(*user.OTPExp) {
		return ErrCodeExpired
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePassword(ctx, user.UID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("password changed", slog.String("email", user.Email))
	return nil
}

// issueOTP сохраняет новый код в базе и ставит письмо в очередь.
// Повторный запрос перезаписывает предыдущий код.
func (s *Service) issueOTP(ctx context.Context, uid, email, fullName string) error {
	code := otp.NewCode()
	expiresAt := time.Now().Add(s.otpTTL).UTC()

	if err := s.users.SaveOTP(ctx, uid, code, expiresAt); err != nil {
		return err
	}

	msg := models.OTPMessage{Email: email, FullName: fullName, Code: code}
	if err := s.publisher.Publish(rabbitmq.RoutingKeyOTP, msg); err != nil {
		// код уже в базе, доставку письма можно повторить отдельным запросом
		s.log.Error("failed to enqueue otp email", slog.String("email", email), sl.Err(err))
	}
	return nil
}
