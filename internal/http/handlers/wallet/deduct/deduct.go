// Package deduct реализует HTTP-обработчик списания с кошелька.
//
// Запрос приходит от доверенной границы и несёт HMAC-подпись полезной
// нагрузки. Клиентскому состоянию сервер не доверяет: подпись проверяется
// до любых изменений, повтор с тем же ключом идемпотентности возвращает
// исход первого списания.
package deduct

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/http/response"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/sl"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/services/wallet"
)

// Handler управляет HTTP-запросами на списание с кошелька.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики кошелька
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики списания.
type Service interface {
	Deduct(ctx context.Context, req models.DummyDeduct) (*models.DeductResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Списать плату за отклик с кошелька
// @Description Списывает сумму с кошелька по подписанному запросу. Повтор с тем же ключом идемпотентности не списывает деньги второй раз.
// @Tags Wallet
// @Accept  json
// @Produce  json
// @Param request body models.DummyDeduct true "Подписанный запрос на списание"
// @Success 200 {object} models.DeductResult "Результат списания"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 402 {object} response.ErrorResponse "Недостаточно средств"
// @Failure 403 {object} response.ErrorResponse "Неверная подпись"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /wallet/deduct [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wallet.deduct"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyDeduct
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.Deduct(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrInvalidSignature):
			log.Error("deduction signature mismatch", slog.String("user_uid", req.UserUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("invalid signature"))
		case errors.Is(err, wallet.ErrInsufficientBalance):
			log.Info("insufficient wallet balance", slog.String("user_uid", req.UserUID))
			w.WriteHeader(http.StatusPaymentRequired)
			render.JSON(w, r, response.Error("insufficient balance, top up to apply"))
		default:
			log.Error("failed to deduct from wallet", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not deduct from wallet"))
		}
		return
	}

	log.Info("wallet deducted",
		slog.String("user_uid", req.UserUID), slog.Bool("replayed", result.Replayed))
	render.JSON(w, r, response.OKWithData(result))
}
