package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
)

// ExistsPendingRequest сообщает, есть ли у пользователя заявка в статусе pending
// на эту вакансию.
func (s *Storage) ExistsPendingRequest(ctx context.Context, userUID, jobID string) (bool, error) {
	const op = "storage.ExistsPendingRequest"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM hot_job_requests
			      WHERE user_uid = $1 AND job_id = $2 AND status = 'pending'
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, jobID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateRequest создаёт заявку на ускоренное рассмотрение и возвращает её ID.
func (s *Storage) CreateRequest(ctx context.Context, userUID, jobID string, now time.Time) (int, error) {
	const op = "storage.CreateRequest"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO hot_job_requests (user_uid, job_id, status, created_at)
			  VALUES ($1, $2, 'pending', $3)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, userUID, jobID, now.UTC()).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ApproveRequest переводит заявку из pending в approved и возвращает
// количество изменённых строк.
func (s *Storage) ApproveRequest(ctx context.Context, id int) (int, error) {
	const op = "storage.ApproveRequest"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE hot_job_requests
			  SET status = 'approved'
			  WHERE id = $1 AND status = 'pending'`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListPendingRequests возвращает заявки в статусе pending для триажа сотрудниками.
func (s *Storage) ListPendingRequests(ctx context.Context, limit, offset int) ([]*models.HotJobRequest, error) {
	const op = "storage.ListPendingRequests"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, job_id, status, created_at
			  FROM hot_job_requests
			  WHERE status = 'pending'
			  ORDER BY created_at
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.HotJobRequest
	for rows.Next() {
		var r models.HotJobRequest
		if err := rows.Scan(&r.ID, &r.UserUID, &r.JobID, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
