// Package audiocreate реализует HTTP-обработчик добавления аудиосказки
// в каталог. Добавление запускает рассылку уведомлений всем пользователям.
package audiocreate

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
	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

// Request — структура входных данных для добавления аудиозаписи.
type Request struct {
	Title      string `json:"title" validate:"required,min=1,max=200"`
	Artist     string `json:"artist" validate:"required,min=1,max=200"`
	CategoryID *int   `json:"category_id,omitempty"`
}

// Service описывает интерфейс бизнес-логики пополнения каталога.
type Service interface {
	CreateAudio(ctx context.Context, audio models.Audio) (int, error)
}

// Handler обрабатывает HTTP-запросы добавления аудиозаписей.
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
// @Summary Добавление аудиосказки
// @Description Добавляет аудиозапись в каталог и рассылает уведомления пользователям.
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Данные аудиозаписи"
// @Success 201 {object} response.Response "Аудиозапись создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /audios [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.audiocreate"

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

	id, err := h.catalog.CreateAudio(r.Context(), models.Audio{
		Title:      req.Title,
		Artist:     req.Artist,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		log.Error("failed to create audio", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(http.StatusInternalServerError, "internal service error"))
		return
	}

	log.Info("audio created", slog.Int("id", id), slog.String("title", req.Title))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.Created("audio created", map[string]any{"id": id}))
}
