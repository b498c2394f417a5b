// Package application содержит бизнес-логику подачи отклика на вакансию:
// проверку допуска, списание платы для Pay-As-You-Go и атомарную запись
// отклика в пределах месячной квоты.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/sl"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/services/eligibility"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/services/wallet"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/storage/repository"
)

// Gate оценивает допуск пользователя к отклику и возвращает загруженные
// по пути пользователя и разрешённый план.
type Gate interface {
	Evaluate(ctx context.Context, userUID, jobID string, now time.Time) (models.Decision, *models.User, models.ResolvedPlan)
}

// ApplicationRepository определяет операции с откликами в хранилище.
type ApplicationRepository interface {
	// CreateApplicationWithinQuota записывает отклик, атомарно проверяя квоту.
	CreateApplicationWithinQuota(ctx context.Context, userUID, jobID string, limit *int, now time.Time) (int, error)
	// ListApplications возвращает страницу откликов пользователя.
	ListApplications(ctx context.Context, userUID string, limit, offset int) ([]*models.Application, error)
	// IncrementHotJobApplications увеличивает информационный счётчик откликов.
	IncrementHotJobApplications(ctx context.Context, userUID string) error
}

// Charger списывает фиксированную плату за отклик с кошелька.
type Charger interface {
	Fee() int
	Sign(userUID, jobID string, amount int, timestamp int64) string
	Deduct(ctx context.Context, req models.DummyDeduct) (*models.DeductResult, error)
}

// EventPublisher публикует событие отклика в очередь.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// ApplicationService реализует сценарий подачи отклика.
type ApplicationService struct {
	gate      Gate
	repo      ApplicationRepository
	charger   Charger
	publisher EventPublisher
	log       *slog.Logger
}

// NewApplicationService создает новый экземпляр ApplicationService.
func NewApplicationService(gate Gate, repo ApplicationRepository, charger Charger,
	publisher EventPublisher, log *slog.Logger) *ApplicationService {
	return &ApplicationService{
		gate:      gate,
		repo:      repo,
		charger:   charger,
		publisher: publisher,
		log:       log,
	}
}

// ApplyResult итог попытки отклика: решение о допуске и идентификатор
// созданной записи, если отклик состоялся.
type ApplyResult struct {
	Decision      models.Decision `json:"decision"`
	ApplicationID int             `json:"application_id,omitempty"`
}

// Apply выполняет полный сценарий отклика на вакансию.
//
// Сначала вычисляется решение о допуске; отказ возвращается клиенту как
// результат, а не ошибка. Для Pay-As-You-Go в Индии плата списывается с
// кошелька до записи отклика, идемпотентно по паре (пользователь, вакансия):
// повтор запроса не снимает деньги второй раз. Сама запись отклика проходит
// в одной транзакции с проверкой квоты, поэтому два конкурентных отклика
// не могут обойти лимит.
func (s *ApplicationService) Apply(ctx context.Context, userUID, jobID string, now time.Time) (*ApplyResult, error) {
	const op = "services.application.Apply"

	decision, user, resolved := s.gate.Evaluate(ctx, userUID, jobID, now)
	if !decision.Allowed {
		return &ApplyResult{Decision: decision}, nil
	}

	payg := resolved.IsPayAsYouGo && user.Citizenship == eligibility.CitizenshipIndia
	if payg {
		fee := s.charger.Fee()
		ts := now.Unix()
		req := models.DummyDeduct{
			UserUID:        userUID,
			JobID:          jobID,
			Amount:         fee,
			Timestamp:      ts,
			IdempotencyKey: "apply:" + jobID,
			Signature:      s.charger.Sign(userUID, jobID, fee, ts),
		}
		if _, err := s.charger.Deduct(ctx, req); err != nil {
			if errors.Is(err, wallet.ErrInsufficientBalance) {
				return &ApplyResult{Decision: denied(models.ReasonInsufficientWallet)}, nil
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	// Для Pay-As-You-Go квота не ограничена, проверка лимита не нужна.
	var limit *int
	if !resolved.IsPayAsYouGo {
		limit = resolved.HotJobLimit
	}
	id, err := s.repo.CreateApplicationWithinQuota(ctx, userUID, jobID, limit, now)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLimitReached):
			return &ApplyResult{Decision: denied(models.ReasonLimitReached)}, nil
		case errors.Is(err, repository.ErrAlreadyApplied):
			return &ApplyResult{Decision: denied(models.ReasonAlreadyApplied)}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !payg {
		// Для PAYG счётчик уже увеличен при списании.
		if err := s.repo.IncrementHotJobApplications(ctx, userUID); err != nil {
			s.log.Warn("failed to increment hot job applications count", sl.Err(err))
		}
	}

	event := models.ApplicationEvent{
		UserUID:   userUID,
		Email:     user.Email,
		Username:  user.Username,
		JobID:     jobID,
		AppliedAt: now.UTC(),
	}
	if err := s.publisher.Publish("submitted", event); err != nil {
		s.log.Warn("failed to publish application.submitted event", sl.Err(err))
	}

	s.log.Info("application submitted",
		slog.String("user_uid", userUID), slog.String("job_id", jobID), slog.Int("application_id", id))
	return &ApplyResult{Decision: decision, ApplicationID: id}, nil
}

// List возвращает страницу откликов пользователя.
func (s *ApplicationService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Application, error) {
	const op = "services.application.List"

	apps, err := s.repo.ListApplications(ctx, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return apps, nil
}

func denied(reason models.EligibilityReason) models.Decision {
	return models.Decision{Allowed: false, Reason: reason, Message: reason.Message()}
}
