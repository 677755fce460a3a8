// Package list реализует HTTP-обработчик ленты уведомлений пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/audiostory-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/response"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/sl"
	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики ленты уведомлений.
type Service interface {
	List(ctx context.Context, userUID string) ([]*models.Notification, error)
}

// Handler обрабатывает HTTP-запросы списка уведомлений.
type Handler struct {
	log           *slog.Logger
	notifications Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, notifications Service) *Handler {
	return &Handler{log: log, notifications: notifications}
}

// ServeHTTP godoc
// @Summary Уведомления пользователя
// @Description Возвращает уведомления текущего пользователя, новые первыми.
// @Tags Notification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Список уведомлений"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /notifications [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notification.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error(http.StatusUnauthorized, "user identification missing"))
		return
	}

	list, err := h.notifications.List(r.Context(), userUID)
	if err != nil {
		log.Error("failed to list notifications", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(http.StatusInternalServerError, "internal service error"))
		return
	}

	render.JSON(w, r, response.OK("notifications found", map[string]any{
		"notifications": list,
		"count":         len(list),
	}))
}
