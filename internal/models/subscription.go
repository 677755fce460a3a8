package models

import "time"

// Subscription описывает оплаченный период доступа пользователя.
// Одна запись на пользователя: повторная покупка заменяет период целиком,
// а не продлевает его.
type Subscription struct {
	ID        int       // Идентификатор записи
	UserUID   string    // Владелец, уникальный на таблицу
	StartDate time.Time // Начало оплаченного периода
	EndDate   time.Time // Конец оплаченного периода
}

// IsActive сообщает, попадает ли момент now в оплаченный период.
func (s *Subscription) IsActive(now time.Time) bool {
	return !now.Before(s.StartDate) && !now.After(s.EndDate)
}

// MonthsLeft возвращает количество оставшихся месяцев доступа,
// считая месяц равным 30 дням и округляя вверх. Не бывает отрицательным.
func (s *Subscription) MonthsLeft(now time.Time) int {
	remaining := s.EndDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	const month = 30 * 24 * time.Hour
	months := int(remaining / month)
	if remaining%month > 0 {
		months++
	}
	return months
}
