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

// GetWalletBalance возвращает текущий баланс кошелька пользователя.
func (s *Storage) GetWalletBalance(ctx context.Context, userUID string) (int, error) {
	const op = "storage.GetWalletBalance"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT wallet_amount FROM users WHERE uid = $1`
	var balance int
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

// TopUpWallet пополняет кошелёк и возвращает новый баланс.
func (s *Storage) TopUpWallet(ctx context.Context, userUID string, amount int) (int, error) {
	const op = "storage.TopUpWallet"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET wallet_amount = wallet_amount + $1
			  WHERE uid = $2
			  RETURNING wallet_amount`
	var balance int
	if err := s.DB.QueryRowContext(ctx, query, amount, userUID).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

// DeductWallet списывает amount с кошелька пользователя в одной транзакции.
//
// Списание условное: строка users обновляется только если баланс не меньше
// суммы, отдельной проверки "прочитал-записал" нет. Повтор с тем же ключом
// идемпотентности не списывает деньги второй раз: возвращается результат,
// записанный в wallet_ledger при первом списании.
func (s *Storage) DeductWallet(ctx context.Context, userUID, jobID, idempotencyKey string, amount int, now time.Time) (*models.DeductResult, error) {
	const op = "storage.DeductWallet"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Повтор: отдать записанный исход, не трогая баланс.
	var recorded int
	query := `SELECT balance_after FROM wallet_ledger
			  WHERE user_uid = $1 AND idempotency_key = $2`
	err = tx.QueryRowContext(ctx, query, userUID, idempotencyKey).Scan(&recorded)
	if err == nil {
		return &models.DeductResult{Success: true, NewBalance: recorded, Replayed: true}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	update := `UPDATE users
			   SET wallet_amount = wallet_amount - $1
			   WHERE uid = $2 AND wallet_amount >= $1
			   RETURNING wallet_amount`
	var balance int
	if err := tx.QueryRowContext(ctx, update, amount, userUID).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrInsufficientFunds)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	insert := `INSERT INTO wallet_ledger (user_uid, job_id, idempotency_key, amount, balance_after, created_at)
			   VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, insert, userUID, jobID, idempotencyKey, amount, balance, now.UTC()); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// Конкурентный повтор успел первым, его исход уже в журнале.
			return nil, fmt.Errorf("%s: concurrent duplicate deduction: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.DeductResult{Success: true, NewBalance: balance}, nil
}
