package models

// OTPMessage задача на отправку одноразового кода по почте.
// Публикуется сервисом аутентификации, потребляется воркером уведомлений.
type OTPMessage struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Code     string `json:"code"`
}

// SubscriptionStatusMessage задача на уведомление пользователя о состоянии подписки.
type SubscriptionStatusMessage struct {
	UserUID string `json:"user_uid"`
}

// Виды событий каталога для широковещательных уведомлений.
const (
	CatalogEventAudio    = "audio"
	CatalogEventCategory = "category"
)

// CatalogEventMessage задача на рассылку уведомления о новом элементе каталога
// всем пользователям системы.
type CatalogEventMessage struct {
	Kind  string `json:"kind"` // CatalogEventAudio или CatalogEventCategory
	ID    int    `json:"id"`
	Title string `json:"title"`
}
