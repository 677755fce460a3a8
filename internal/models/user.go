// Package models содержит доменные модели платформы аудио-историй:
// пользователей, подписки, уведомления и каталог. Структуры используются
// в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет учётную запись пользователя платформы.
//
// Аккаунт создаётся неактивным (IsActive=false) и активируется ровно один раз
// после успешной проверки OTP-кода. Поля OTP и OTPExp либо обе заполнены,
// либо обе пусты — они записываются и очищаются только вместе.
type User struct {
	UID          string     // Уникальный идентификатор пользователя
	Email        string     // Электронная почта, уникальная, в нижнем регистре
	FullName     string     // Отображаемое имя
	PhotoURL     *string    // Ссылка на аватар, опционально
	PasswordHash string     // bcrypt-хэш пароля
	IsActive     bool       // Разрешён ли вход (выставляется при верификации почты)
	IsStaff      bool       // Служебный флаг уровня доступа
	IsSuperuser  bool       // Служебный флаг уровня доступа
	IsSubscribed bool       // Денормализованный кэш состояния подписки
	OTP          *string    // Одноразовый 6-значный код или nil
	OTPExp       *time.Time // Абсолютное время истечения кода или nil
	OTPVerified  bool       // Прошёл ли последний код проверку
	CreatedAt    time.Time  // Время регистрации
}
