package rabbitmq

// NotificationsExchange имя direct-обменника уведомлений.
const NotificationsExchange = "notifications"

// Ключи маршрутизации задач воркера уведомлений.
const (
	RoutingKeyOTP          = "otp"
	RoutingKeySubscription = "subscription"
	RoutingKeyCatalog      = "catalog"
)

// Имена очередей воркера уведомлений.
const (
	QueueOTP          = "notifications.otp"
	QueueSubscription = "notifications.subscription"
	QueueCatalog      = "notifications.catalog"
)

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает полный список очередей воркера уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueOTP, RoutingKey: RoutingKeyOTP},
		{QueueName: QueueSubscription, RoutingKey: RoutingKeySubscription},
		{QueueName: QueueCatalog, RoutingKey: RoutingKeyCatalog},
	}
}
