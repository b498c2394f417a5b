// Package approve реализует HTTP-обработчик одобрения заявки на ускоренное
// рассмотрение. Доступен только роли admin.
package approve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/http/response"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/sl"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/storage/repository"
)

// Handler управляет HTTP-запросами на одобрение заявки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики одобрения заявки.
type Service interface {
	Approve(ctx context.Context, id int) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Одобрить заявку на ускоренное рассмотрение
// @Description Переводит заявку из pending в approved. Требует роль admin.
// @Tags HotJobRequests
// @Produce  json
// @Param id path int true "Идентификатор заявки"
// @Success 200 {object} map[string]any "Заявка одобрена"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /requests/{id}/approve [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.hotjobrequest.approve"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("invalid request id in URL")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request id"))
		return
	}

	if err := h.service.Approve(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("request not found or already processed", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("request not found or already processed"))
			return
		}
		log.Error("failed to approve request", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not approve request"))
		return
	}

	log.Info("hot job request approved", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"approved_id": id,
	}))
}
