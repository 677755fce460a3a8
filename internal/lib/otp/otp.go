// Package otp генерирует одноразовые коды подтверждения почты.
package otp

import (
	"math/rand/v2"
	"strconv"
)

// CodeLength длина одноразового кода в символах.
const CodeLength = 6

// NewCode возвращает 6-значный числовой код в диапазоне 100000-999999.
// Криптостойкость здесь не требуется: действителен только последний
// выданный код пользователя, и он ограничен по времени жизни.
func NewCode() string {
	return strconv.Itoa(100000 + rand.IntN(900000))
}
