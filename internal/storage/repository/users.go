package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
)

// GetUser возвращает пользователя по его UID вместе со списком членств в планах.
// Членства упорядочены по позиции добавления: последний элемент — самый свежий.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, role, citizenship, wallet_amount,
			      active_plan, max_hot_jobs, plan_expires_at,
			      hot_job_applications_count, profile_completed
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var maxHotJobs sql.NullInt64
	var planExpiresAt sql.NullTime
	var activePlan sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.Role, &u.Citizenship,
		&u.WalletAmount, &activePlan, &maxHotJobs, &planExpiresAt,
		&u.HotJobApplicationsCount, &u.ProfileCompleted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if activePlan.Valid {
		u.ActivePlan = activePlan.String
	}
	if maxHotJobs.Valid {
		v := int(maxHotJobs.Int64)
		u.MaxHotJobs = &v
	}
	if planExpiresAt.Valid {
		t := planExpiresAt.Time
		u.PlanExpiresAt = &t
	}

	plans, err := s.listUserPlans(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u.Plans = plans
	return u, nil
}

func (s *Storage) listUserPlans(ctx context.Context, userUID string) ([]models.PlanMembership, error) {
	query := `SELECT plan_id, category, expiry_date
			  FROM user_plans
			  WHERE user_uid = $1
			  ORDER BY position`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.PlanMembership
	for rows.Next() {
		var m models.PlanMembership
		var expiry sql.NullTime
		if err := rows.Scan(&m.PlanID, &m.Category, &expiry); err != nil {
			return nil, err
		}
		if expiry.Valid {
			t := expiry.Time
			m.ExpiryDate = &t
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AddUserPlan добавляет пользователю членство в плане. Позиция назначается
// базой данных, чем сохраняется порядок добавления.
func (s *Storage) AddUserPlan(ctx context.Context, userUID string, m models.PlanMembership) error {
	const op = "storage.AddUserPlan"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_plans (user_uid, plan_id, category, expiry_date)
			  VALUES ($1, $2, $3, $4)`
	_, err := s.DB.ExecContext(ctx, query, userUID, m.PlanID, m.Category, m.ExpiryDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IncrementHotJobApplications увеличивает счётчик откликов пользователя.
// Счётчик информационный, его рассинхронизация допустима.
func (s *Storage) IncrementHotJobApplications(ctx context.Context, userUID string) error {
	const op = "storage.IncrementHotJobApplications"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET hot_job_applications_count = hot_job_applications_count + 1
			  WHERE uid = $1`
	_, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
