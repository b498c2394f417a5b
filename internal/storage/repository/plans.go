package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
)

// GetPlan возвращает план из каталога по его ID.
func (s *Storage) GetPlan(ctx context.Context, planID string) (*models.Plan, error) {
	const op = "storage.GetPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, category, currency, price, features, maxjobslimit
			  FROM plans
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, planID)

	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plan, nil
}

// ListPlans возвращает планы каталога по категории и валюте.
func (s *Storage) ListPlans(ctx context.Context, category, currency string) ([]*models.Plan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, category, currency, price, features, maxjobslimit
			  FROM plans
			  WHERE category = $1 AND currency = $2
			  ORDER BY price`
	rows, err := s.DB.QueryContext(ctx, query, category, currency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*models.Plan, error) {
	var p models.Plan
	var features pgtype.FlatArray[string]
	var maxJobsLimit sql.NullInt64

	m := pgtype.NewMap()
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Currency, &p.Price,
		m.SQLScanner(&features), &maxJobsLimit); err != nil {
		return nil, err
	}
	p.Features = features
	if maxJobsLimit.Valid {
		v := int(maxJobsLimit.Int64)
		p.MaxJobsLimit = &v
	}
	return &p, nil
}
