// Package quota реализует HTTP-обработчик чтения остатка месячной квоты.
package quota

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/http/response"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
)

// Handler управляет HTTP-запросами на чтение остатка квоты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики расчёта остатка квоты.
type Service interface {
	Quota(ctx context.Context, userUID string, now time.Time) (models.Remaining, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Остаток месячной квоты
// @Description Возвращает остаток откликов в текущем календарном месяце по плану пользователя.
// @Tags Eligibility
// @Produce  json
// @Success 200 {object} response.Response "Остаток квоты"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /quota [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.eligibility.quota"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	remaining, err := h.service.Quota(r.Context(), userUID, time.Now().UTC())
	if err != nil {
		log.Error("failed to compute quota", slog.Any("err", err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not compute quota"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"remaining": remaining,
		"label":     remaining.Label(),
	}))
}
