// Package audioplay реализует HTTP-обработчик прослушивания аудиосказки.
// Доступ только для подписчиков; каждое обращение увеличивает счетчик
// прослушиваний.
package audioplay

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/audiostory-backend/internal/http/response"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/sl"
	"github.com/magabrotheeeer/audiostory-backend/internal/models"
	"github.com/magabrotheeeer/audiostory-backend/internal/services/catalog"
)

// Service описывает интерфейс бизнес-логики прослушивания.
type Service interface {
	Play(ctx context.Context, id int) (*models.Audio, error)
}

// Handler обрабатывает HTTP-запросы прослушивания.
type Handler struct {
	log     *slog.Logger
	catalog Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, catalogService Service) *Handler {
	return &Handler{log: log, catalog: catalogService}
}

// ServeHTTP godoc
// @Summary Прослушивание аудиосказки
// @Description Регистрирует прослушивание и возвращает запись. Только для подписчиков.
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID аудиозаписи"
// @Success 200 {object} response.Response "Аудиозапись"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Нет токена"
// @Failure 403 {object} response.ErrorResponse "Нужна премиум-подписка"
// @Failure 404 {object} response.ErrorResponse "Аудиозапись не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /audios/{id}/play [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.audioplay"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(http.StatusBadRequest, "invalid audio id"))
		return
	}

	audio, err := h.catalog.Play(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrAudioNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(http.StatusNotFound, "audio not found"))
			return
		}
		log.Error("failed to play audio", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(http.StatusInternalServerError, "internal service error"))
		return
	}

	render.JSON(w, r, response.OK("audio found", audio))
}
