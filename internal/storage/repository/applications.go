package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
)

const pgUniqueViolation = "23505"

// ExistsApplication сообщает, есть ли отклик пользователя на вакансию.
func (s *Storage) ExistsApplication(ctx context.Context, userUID, jobID string) (bool, error) {
	const op = "storage.ExistsApplication"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM applications WHERE user_uid = $1 AND job_id = $2
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, jobID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListApplications возвращает отклики пользователя, новые первыми.
func (s *Storage) ListApplications(ctx context.Context, userUID string, limit, offset int) ([]*models.Application, error) {
	const op = "storage.ListApplications"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, job_id, applied_at, status
			  FROM applications
			  WHERE user_uid = $1
			  ORDER BY applied_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Application
	for rows.Next() {
		var a models.Application
		if err := rows.Scan(&a.ID, &a.UserUID, &a.JobID, &a.AppliedAt, &a.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountApplicationsInMonth подсчитывает отклики пользователя за календарный
// месяц, в который попадает ref. Сравнение идёт по UTC.
func (s *Storage) CountApplicationsInMonth(ctx context.Context, userUID string, ref time.Time) (int, error) {
	const op = "storage.CountApplicationsInMonth"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*)
			  FROM applications
			  WHERE user_uid = $1
			    AND date_trunc('month', applied_at AT TIME ZONE 'UTC') =
			        date_trunc('month', $2::timestamptz AT TIME ZONE 'UTC')`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userUID, ref.UTC()).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CreateApplicationWithinQuota вставляет отклик, проверяя месячный лимит
// в той же сериализуемой транзакции. Две конкурентные вставки одного
// пользователя не могут обе пройти проверку лимита.
//
// limit равный nil означает безлимит (PAYG): проверка лимита пропускается.
// Возвращает ErrLimitReached либо ErrAlreadyApplied при нарушении правил.
func (s *Storage) CreateApplicationWithinQuota(ctx context.Context, userUID, jobID string, limit *int, now time.Time) (int, error) {
	const op = "storage.CreateApplicationWithinQuota"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if limit != nil {
		query := `SELECT COUNT(*)
				  FROM applications
				  WHERE user_uid = $1
				    AND date_trunc('month', applied_at AT TIME ZONE 'UTC') =
				        date_trunc('month', $2::timestamptz AT TIME ZONE 'UTC')`
		var count int
		if err := tx.QueryRowContext(ctx, query, userUID, now.UTC()).Scan(&count); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		if count >= *limit {
			return 0, fmt.Errorf("%s: %w", op, ErrLimitReached)
		}
	}

	var newID int
	insert := `INSERT INTO applications (user_uid, job_id, applied_at, status)
			   VALUES ($1, $2, $3, 'submitted')
			   RETURNING id`
	if err := tx.QueryRowContext(ctx, insert, userUID, jobID, now.UTC()).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, ErrAlreadyApplied)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}
