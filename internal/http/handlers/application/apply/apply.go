// Package apply реализует HTTP-обработчик подачи отклика на вакансию.
//
// Handler извлекает UID пользователя из контекста, вызывает полный сценарий
// отклика и возвращает решение с идентификатором созданной записи. Отказ в
// допуске возвращается с HTTP-статусом, соответствующим причине.
package apply

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
	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/sl"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/services/application"
)

// Handler управляет HTTP-запросами на подачу отклика.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики подачи отклика
}

// Service описывает интерфейс бизнес-логики подачи отклика.
type Service interface {
	Apply(ctx context.Context, userUID, jobID string, now time.Time) (*application.ApplyResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Откликнуться на вакансию
// @Description Подает отклик текущего пользователя на вакансию. Для Pay-As-You-Go в Индии списывает плату с кошелька.
// @Tags Applications
// @Produce  json
// @Param jobID path string true "Идентификатор вакансии"
// @Success 200 {object} response.Response "Отклик создан"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 402 {object} response.ErrorResponse "Недостаточно средств на кошельке"
// @Failure 403 {object} response.ErrorResponse "Отказ в допуске"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /jobs/{jobID}/apply [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.apply"
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

	result, err := h.service.Apply(r.Context(), userUID, jobID, time.Now().UTC())
	if err != nil {
		log.Error("failed to apply", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not submit application"))
		return
	}

	if !result.Decision.Allowed {
		log.Info("application denied",
			slog.String("job_id", jobID), slog.String("reason", string(result.Decision.Reason)))
		w.WriteHeader(statusForReason(result.Decision.Reason))
		render.JSON(w, r, response.OKWithData(result))
		return
	}

	log.Info("application submitted",
		slog.String("job_id", jobID), slog.Int("application_id", result.ApplicationID))
	render.JSON(w, r, response.OKWithData(result))
}

// statusForReason переводит причину отказа в HTTP-статус.
func statusForReason(reason models.EligibilityReason) int {
	switch reason {
	case models.ReasonNotAuthenticated:
		return http.StatusUnauthorized
	case models.ReasonInsufficientWallet:
		return http.StatusPaymentRequired
	default:
		return http.StatusForbidden
	}
}
