package middlewarectx

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/audiostory-backend/internal/http/response"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/sl"
	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

// SubscriptionProvider возвращает подписку пользователя.
type SubscriptionProvider interface {
	GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error)
}

// SubscriptionRequired создает middleware, пропускающий к премиум-контенту
// только подписчиков. Активность проверяется по датам подписки на каждый
// запрос: истекшая, но не отмененная подписка доступ не дает.
func SubscriptionRequired(log *slog.Logger, subs SubscriptionProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error(http.StatusUnauthorized, "user identification missing"))
				return
			}

			sub, err := subs.GetSubscriptionByUser(r.Context(), userUID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					w.WriteHeader(http.StatusForbidden)
					render.JSON(w, r, response.Error(http.StatusForbidden, "premium subscription required"))
					return
				}
				log.Error("failed to load subscription", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(http.StatusInternalServerError, "internal service error"))
				return
			}

			if !sub.IsActive(time.Now().UTC()) {
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error(http.StatusForbidden, "premium subscription required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
