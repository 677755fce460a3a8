// Package purchase реализует HTTP-обработчик оформления премиум-подписки.
// Повторная покупка заменяет действующий период.
package purchase

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/audiostory-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/response"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/sl"
	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

// Request — структура входных данных для покупки подписки.
type Request struct {
	Months int `json:"months" validate:"required,min=1,max=36"`
}

// Service описывает интерфейс бизнес-логики покупки подписки.
type Service interface {
	Purchase(ctx context.Context, userUID string, months int) (*models.Subscription, bool, error)
}

// Handler обрабатывает HTTP-запросы покупки подписки.
type Handler struct {
	log      *slog.Logger
	subs     Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, subs Service) *Handler {
	return &Handler{
		log:      log,
		subs:     subs,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Покупка подписки
// @Description Оформляет подписку на указанное число месяцев начиная с текущего момента.
// @Tags Subscription
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Срок подписки в месяцах"
// @Success 201 {object} response.Response "Подписка оформлена"
// @Success 200 {object} response.Response "Действующая подписка заменена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.purchase"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(http.StatusBadRequest, "invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sub, created, err := h.subs.Purchase(r.Context(), userUID, req.Months)
	if err != nil {
		log.Error("subscription purchase failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(http.StatusInternalServerError, "internal service error"))
		return
	}

	log.Info("subscription purchased", slog.String("user_uid", userUID),
		slog.Int("months", req.Months), slog.Bool("created", created))

	data := map[string]any{
		"start_date": sub.StartDate,
		"end_date":   sub.EndDate,
	}
	// первая покупка — 201, замена действующего периода — 200
	if created {
		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, response.Created("subscription purchased", data))
		return
	}
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OK("subscription replaced", data))
}
