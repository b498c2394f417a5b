// Package wallet содержит бизнес-логику кошелька Pay-As-You-Go для Индии:
// проверку HMAC-подписи, идемпотентное списание фиксированной платы
// за отклик, пополнение и чтение баланса.
package wallet

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/sl"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/storage/repository"
)

// Ошибки списания, которые обработчики различают по смыслу.
var (
	// ErrInvalidSignature подпись запроса не сошлась с ожидаемой.
	ErrInvalidSignature = errors.New("invalid deduction signature")
	// ErrInsufficientBalance на кошельке меньше суммы списания,
	// пользователю нужно предложить пополнение, а не общую ошибку.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)

// WalletRepository определяет операции с кошельком в хранилище.
type WalletRepository interface {
	// GetWalletBalance возвращает текущий баланс пользователя.
	GetWalletBalance(ctx context.Context, userUID string) (int, error)
	// TopUpWallet пополняет кошелёк и возвращает новый баланс.
	TopUpWallet(ctx context.Context, userUID string, amount int) (int, error)
	// DeductWallet выполняет условное идемпотентное списание.
	DeductWallet(ctx context.Context, userUID, jobID, idempotencyKey string, amount int, now time.Time) (*models.DeductResult, error)
	// IncrementHotJobApplications увеличивает информационный счётчик откликов.
	IncrementHotJobApplications(ctx context.Context, userUID string) error
}

// EventPublisher публикует события кошелька в очередь.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// WalletService реализует операции кошелька поверх хранилища.
type WalletService struct {
	repo      WalletRepository
	publisher EventPublisher
	log       *slog.Logger
	fee       int
	secret    []byte
}

// NewWalletService создает новый экземпляр WalletService.
func NewWalletService(repo WalletRepository, publisher EventPublisher, log *slog.Logger, fee int, secret string) *WalletService {
	return &WalletService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		fee:       fee,
		secret:    []byte(secret),
	}
}

// Fee возвращает фиксированную плату за отклик.
func (s *WalletService) Fee() int {
	return s.fee
}

// Sign возвращает hex-представление HMAC-SHA256 подписи полезной нагрузки
// списания. Подпись — единственный механизм целостности запроса.
func (s *WalletService) Sign(userUID, jobID string, amount int, timestamp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%d|%d", userUID, jobID, amount, timestamp)
	return hex.EncodeToString(mac.Sum(nil))
}

// Deduct проверяет подпись запроса и списывает сумму с кошелька.
//
// Списание идемпотентно по ключу запроса: повтор с тем же ключом возвращает
// исход первого списания без второго снятия денег. Ошибки списания отдаются
// наружу: движение денег не может падать молча. Инкремент счётчика откликов
// и публикация события — побочные эффекты, их сбой списание не откатывает.
func (s *WalletService) Deduct(ctx context.Context, req models.DummyDeduct) (*models.DeductResult, error) {
	expected := s.Sign(req.UserUID, req.JobID, req.Amount, req.Timestamp)
	if !hmac.Equal([]byte(expected), []byte(req.Signature)) {
		return nil, ErrInvalidSignature
	}

	result, err := s.repo.DeductWallet(ctx, req.UserUID, req.JobID, req.IdempotencyKey, req.Amount, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}
	if result.Replayed {
		s.log.Info("deduction replayed, no second charge",
			slog.String("user_uid", req.UserUID), slog.String("idempotency_key", req.IdempotencyKey))
		return result, nil
	}

	if err := s.repo.IncrementHotJobApplications(ctx, req.UserUID); err != nil {
		s.log.Warn("failed to increment hot job applications count", sl.Err(err))
	}
	if err := s.publisher.Publish("debited", models.WalletDebitedEvent{
		UserUID:    req.UserUID,
		JobID:      req.JobID,
		Amount:     req.Amount,
		NewBalance: result.NewBalance,
	}); err != nil {
		s.log.Warn("failed to publish wallet.debited event", sl.Err(err))
	}

	return result, nil
}

// Balance возвращает текущий баланс кошелька пользователя.
func (s *WalletService) Balance(ctx context.Context, userUID string) (int, error) {
	return s.repo.GetWalletBalance(ctx, userUID)
}

// TopUp пополняет кошелёк и возвращает новый баланс.
func (s *WalletService) TopUp(ctx context.Context, userUID string, amount int) (int, error) {
	balance, err := s.repo.TopUpWallet(ctx, userUID, amount)
	if err != nil {
		return 0, err
	}
	s.log.Info("wallet topped up",
		slog.String("user_uid", userUID), slog.Int("new_balance", balance))
	return balance, nil
}

// CanAfford сообщает, хватает ли баланса на одну фиксированную плату.
func (s *WalletService) CanAfford(balance int) bool {
	return balance >= s.fee
}
