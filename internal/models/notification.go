package models

import "time"

// Notification информационное сообщение для пользователя.
// Может ссылаться либо на аудио, либо на категорию, но не на обе сразу.
type Notification struct {
	ID         int       // Идентификатор записи
	UserUID    string    // Получатель
	AudioID    *int      // Ссылка на аудио, опционально
	CategoryID *int      // Ссылка на категорию, опционально
	Message    string    // Текст уведомления
	IsRead     bool      // Прочитано ли уведомление
	CreatedAt  time.Time // Время создания
}
