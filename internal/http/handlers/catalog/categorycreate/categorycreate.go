// Package categorycreate реализует HTTP-обработчик добавления категории каталога.
package categorycreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/audiostory-backend/internal/http/response"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/sl"
)

// Request — структура входных данных для добавления категории.
type Request struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// Service описывает интерфейс бизнес-логики добавления категории.
type Service interface {
	CreateCategory(ctx context.Context, name string) (int, error)
}

// Handler обрабатывает HTTP-запросы добавления категорий.
type Handler struct {
	log      *slog.Logger
	catalog  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, catalog Service) *Handler {
	return &Handler{
		log:      log,
		catalog:  catalog,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавление категории
// @Description Создает категорию каталога и рассылает уведомления пользователям.
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Название категории"
// @Success 201 {object} response.Response "Категория создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /categories [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.categorycreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	id, err := h.catalog.CreateCategory(r.Context(), req.Name)
	if err != nil {
		log.Error("failed to create category", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(http.StatusInternalServerError, "internal service error"))
		return
	}

	log.Info("category created", slog.Int("id", id), slog.String("name", req.Name))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.Created("category created", map[string]any{"id": id}))
}
