// Package audiolist реализует HTTP-обработчик списка аудиосказок каталога.
package audiolist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/audiostory-backend/internal/http/response"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/sl"
	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	ListAudios(ctx context.Context) ([]*models.Audio, error)
}

// Handler обрабатывает HTTP-запросы списка аудиозаписей.
type Handler struct {
	log     *slog.Logger
	catalog Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, catalog Service) *Handler {
	return &Handler{log: log, catalog: catalog}
}

// ServeHTTP godoc
// @Summary Каталог аудиосказок
// @Description Возвращает список аудиосказок, новые первыми.
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Список аудиозаписей"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /audios [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.audiolist"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	list, err := h.catalog.ListAudios(r.Context())
	if err != nil {
		log.Error("failed to list audios", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(http.StatusInternalServerError, "internal service error"))
		return
	}

	render.JSON(w, r, response.OK("audios found", map[string]any{
		"audios": list,
		"count":  len(list),
	}))
}
