// Package create реализует HTTP-обработчик создания заявки на ускоренное
// рассмотрение вакансии.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/http/response"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/sl"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/services/hotjobrequest"
)

// Handler управляет HTTP-запросами на создание заявки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики создания заявки.
type Service interface {
	Create(ctx context.Context, userUID, jobID string, now time.Time) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создать заявку на ускоренное рассмотрение
// @Description Создает заявку на ускоренное рассмотрение вакансии от имени текущего пользователя.
// @Tags HotJobRequests
// @Produce  json
// @Param jobID path string true "Идентификатор вакансии"
// @Success 200 {object} map[string]any "Заявка создана"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Заявка уже существует"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /jobs/{jobID}/request [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.hotjobrequest.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		log.Error("jobID is missing in URL")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("jobID is required"))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Create(r.Context(), userUID, jobID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, hotjobrequest.ErrPendingExists) {
			log.Info("pending request already exists", slog.String("job_id", jobID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("pending request already exists"))
			return
		}
		log.Error("failed to create request", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create request"))
		return
	}

	log.Info("hot job request created", slog.Int("request_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"request_id": id,
	}))
}
