// Package repository реализует хранилище данных на основе PostgreSQL
// для сервиса подбора вакансий. Предоставляет методы работы с пользователями,
// каталогом тарифных планов, откликами, заявками на ускоренное рассмотрение
// и кошельком Pay-As-You-Go.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки хранилища, которые бизнес-логика различает по смыслу.
var (
	// ErrInsufficientFunds баланс кошелька меньше суммы списания.
	ErrInsufficientFunds = errors.New("insufficient wallet funds")
	// ErrLimitReached месячный лимит откликов исчерпан.
	ErrLimitReached = errors.New("monthly application limit reached")
	// ErrAlreadyApplied отклик на эту вакансию уже существует.
	ErrAlreadyApplied = errors.New("application already exists")
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("not found")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с данными сервиса.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'applications'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table applications missing or query error: %w", err)
	}
	return nil
}
