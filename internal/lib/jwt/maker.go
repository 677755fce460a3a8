// Package jwt реализует выпуск и разбор пары access/refresh токенов
// с пользовательскими claim-полями.
//
// Access-токен короткоживущий и не отзывается индивидуально — только истекает.
// Refresh-токен долгоживущий, несёт уникальный jti и может быть отозван
// через список отозванных токенов.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Типы токенов, записываемые в claim token_type.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrWrongTokenType возвращается, когда токен валиден, но его тип
// не совпадает с ожидаемым (например, access вместо refresh).
var ErrWrongTokenType = errors.New("wrong token type")

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	Email                string `json:"email"`      // Почта пользователя
	UserUID              string `json:"user_uid"`   // Идентификатор пользователя
	TokenType            string `json:"token_type"` // access или refresh
	jwt.RegisteredClaims        // Встроенные стандартные claims (ExpiresAt, ID и пр.)
}

// Maker описывает контракт выпуска и разбора токенов.
type Maker interface {
	GenerateTokenPair(email, userUID string) (access, refresh string, err error)
	ParseToken(tokenStr string, wantType string) (*CustomClaims, error)
}

// MakerImpl выпускает HS256-токены, подписанные общим секретом.
type MakerImpl struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewMaker создает MakerImpl с заданным секретом и временем жизни токенов.
func NewMaker(secretKey string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateTokenPair создает пару access/refresh токенов, привязанных
// к пользователю. Оба токена получают собственный jti.
func (j *MakerImpl) GenerateTokenPair(email, userUID string) (string, string, error) {
	const op = "jwt.GenerateTokenPair"
	access, err := j.generate(email, userUID, TokenTypeAccess, j.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	refresh, err := j.generate(email, userUID, TokenTypeRefresh, j.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return access, refresh, nil
}

func (j *MakerImpl) generate(email, userUID, tokenType string, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		Email:     email,
		UserUID:   userUID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит токен, проверяет подпись, срок действия и тип,
// возвращает CustomClaims, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string, wantType string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("%s: %w", op, ErrWrongTokenType)
	}
	return claims, nil
}
