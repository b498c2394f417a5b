// Package hotjobrequest содержит бизнес-логику заявок на ускоренное
// рассмотрение: создание заявки от имени пользователя и одобрение
// её сотрудником.
package hotjobrequest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/storage/repository"
)

// ErrPendingExists по этой вакансии у пользователя уже есть заявка
// в статусе pending, вторую создавать нельзя.
var ErrPendingExists = errors.New("pending request already exists")

// RequestRepository определяет операции с заявками в хранилище.
type RequestRepository interface {
	ExistsPendingRequest(ctx context.Context, userUID, jobID string) (bool, error)
	CreateRequest(ctx context.Context, userUID, jobID string, now time.Time) (int, error)
	ApproveRequest(ctx context.Context, id int) (int, error)
	ListPendingRequests(ctx context.Context, limit, offset int) ([]*models.HotJobRequest, error)
}

// RequestService реализует операции с заявками поверх хранилища.
type RequestService struct {
	repo RequestRepository
	log  *slog.Logger
}

// NewRequestService создает новый экземпляр RequestService.
func NewRequestService(repo RequestRepository, log *slog.Logger) *RequestService {
	return &RequestService{repo: repo, log: log}
}

// Create создает заявку на ускоренное рассмотрение вакансии.
// Пока заявка в статусе pending, она блокирует прямой отклик на ту же
// вакансию, поэтому вторая pending-заявка на пару (пользователь, вакансия)
// не допускается.
func (s *RequestService) Create(ctx context.Context, userUID, jobID string, now time.Time) (int, error) {
	const op = "services.hotjobrequest.Create"

	exists, err := s.repo.ExistsPendingRequest(ctx, userUID, jobID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return 0, ErrPendingExists
	}

	id, err := s.repo.CreateRequest(ctx, userUID, jobID, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("hot job request created",
		slog.String("user_uid", userUID), slog.String("job_id", jobID), slog.Int("request_id", id))
	return id, nil
}

// Approve переводит заявку из pending в approved. Если заявки нет
// или она уже обработана, возвращается repository.ErrNotFound.
func (s *RequestService) Approve(ctx context.Context, id int) error {
	const op = "services.hotjobrequest.Approve"

	updated, err := s.repo.ApproveRequest(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if updated == 0 {
		return repository.ErrNotFound
	}
	s.log.Info("hot job request approved", slog.Int("request_id", id))
	return nil
}

// ListPending возвращает страницу заявок в статусе pending для обработки
// сотрудниками.
func (s *RequestService) ListPending(ctx context.Context, limit, offset int) ([]*models.HotJobRequest, error) {
	const op = "services.hotjobrequest.ListPending"

	requests, err := s.repo.ListPendingRequests(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return requests, nil
}
