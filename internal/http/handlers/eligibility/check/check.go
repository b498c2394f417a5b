// Package check реализует HTTP-обработчик проверки допуска к отклику на вакансию.
//
// Handler извлекает UID пользователя из контекста, вызывает бизнес-логику
// проверки допуска и возвращает решение с причиной в JSON-формате.
// Отказ в допуске — нормальный ответ, а не ошибка сервера.
package check

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/http/response"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
)

// Handler управляет HTTP-запросами на проверку допуска.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики проверки допуска
}

// Service описывает интерфейс бизнес-логики проверки допуска.
type Service interface {
	Check(ctx context.Context, userUID, jobID string, now time.Time) models.Decision
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить допуск к отклику
// @Description Возвращает решение о допуске текущего пользователя к отклику на вакансию с причиной.
// @Tags Eligibility
// @Produce  json
// @Param jobID path string true "Идентификатор вакансии"
// @Success 200 {object} response.Response "Решение о допуске"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /jobs/{jobID}/eligibility [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.eligibility.check"
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

	decision := h.service.Check(r.Context(), userUID, jobID, time.Now().UTC())
	log.Info("eligibility checked",
		slog.String("job_id", jobID), slog.String("reason", string(decision.Reason)))
	render.JSON(w, r, response.OKWithData(decision))
}
