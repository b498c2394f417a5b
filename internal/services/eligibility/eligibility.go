// Package eligibility реализует проверку допуска пользователя к отклику
// на вакансию: композицию разрешения плана, месячной квоты и баланса
// кошелька в одно решение с конкретной причиной.
package eligibility

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/sl"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
)

// CitizenshipIndia код страны, для которой действует кошелёк Pay-As-You-Go.
const CitizenshipIndia = "IN"

// UserRepository определяет доступ к пользователям в хранилище.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// ApplicationRepository определяет проверку существующего отклика.
type ApplicationRepository interface {
	ExistsApplication(ctx context.Context, userUID, jobID string) (bool, error)
}

// RequestRepository определяет проверку заявок на ускоренное рассмотрение.
type RequestRepository interface {
	ExistsPendingRequest(ctx context.Context, userUID, jobID string) (bool, error)
}

// PlanResolver разрешает активный план пользователя.
type PlanResolver interface {
	Resolve(ctx context.Context, user *models.User, now time.Time) models.ResolvedPlan
}

// QuotaCounter возвращает остаток квоты и признак её исчерпания.
type QuotaCounter interface {
	Usage(ctx context.Context, userUID string, rp models.ResolvedPlan, now time.Time) (models.Remaining, bool)
}

// WalletThreshold проверяет достаточность баланса для одной платы.
type WalletThreshold interface {
	CanAfford(balance int) bool
}

// EligibilityService композирует проверки допуска к отклику.
type EligibilityService struct {
	users    UserRepository
	apps     ApplicationRepository
	requests RequestRepository
	plans    PlanResolver
	quota    QuotaCounter
	wallet   WalletThreshold
	log      *slog.Logger
}

// NewEligibilityService создает новый экземпляр EligibilityService.
func NewEligibilityService(users UserRepository, apps ApplicationRepository, requests RequestRepository,
	plans PlanResolver, quota QuotaCounter, wallet WalletThreshold, log *slog.Logger) *EligibilityService {
	return &EligibilityService{
		users:    users,
		apps:     apps,
		requests: requests,
		plans:    plans,
		quota:    quota,
		wallet:   wallet,
		log:      log,
	}
}

// Check возвращает решение о допуске пользователя к отклику на вакансию.
func (s *EligibilityService) Check(ctx context.Context, userUID, jobID string, now time.Time) models.Decision {
	decision, _, _ := s.Evaluate(ctx, userUID, jobID, now)
	return decision
}

// Evaluate выполняет проверки строго по порядку, побеждает первая отказавшая:
// аутентификация, наличие плана, истечение, существующий отклик, заявка
// в статусе pending, месячный лимит, баланс кошелька. Пользователь с
// существующим откликом и исчерпанным лимитом видит "уже откликнулся",
// а не сообщение о лимите.
//
// Ошибки чтения хранилища деградируют до отказа по проверяемой причине:
// решение закрывается, а не открывается. Вместе с решением возвращаются
// загруженный пользователь и разрешённый план для дальнейшего использования.
func (s *EligibilityService) Evaluate(ctx context.Context, userUID, jobID string, now time.Time) (models.Decision, *models.User, models.ResolvedPlan) {
	if userUID == "" {
		return deny(models.ReasonNotAuthenticated), nil, models.ResolvedPlan{}
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		s.log.Warn("failed to load user, denying", slog.String("user_uid", userUID), sl.Err(err))
		return deny(models.ReasonNotAuthenticated), nil, models.ResolvedPlan{}
	}

	resolved := s.plans.Resolve(ctx, user, now)
	if !resolved.HasPlan() {
		return deny(models.ReasonNoServicePlan), user, resolved
	}
	if resolved.IsExpired {
		return deny(models.ReasonPlanExpired), user, resolved
	}

	applied, err := s.apps.ExistsApplication(ctx, userUID, jobID)
	if err != nil {
		s.log.Warn("failed to check existing application, denying", sl.Err(err))
		return deny(models.ReasonAlreadyApplied), user, resolved
	}
	if applied {
		return deny(models.ReasonAlreadyApplied), user, resolved
	}

	pending, err := s.requests.ExistsPendingRequest(ctx, userUID, jobID)
	if err != nil {
		s.log.Warn("failed to check pending request, denying", sl.Err(err))
		return deny(models.ReasonRequestPending), user, resolved
	}
	if pending {
		return deny(models.ReasonRequestPending), user, resolved
	}

	if !resolved.IsPayAsYouGo {
		// План без лимита блокирует, а не разрешает безлимит.
		if resolved.HotJobLimit == nil {
			return deny(models.ReasonLimitReached), user, resolved
		}
		if _, reached := s.quota.Usage(ctx, userUID, resolved, now); reached {
			return deny(models.ReasonLimitReached), user, resolved
		}
	}

	if resolved.IsPayAsYouGo && user.Citizenship == CitizenshipIndia {
		if !s.wallet.CanAfford(user.WalletAmount) {
			return deny(models.ReasonInsufficientWallet), user, resolved
		}
	}

	return models.Decision{
		Allowed: true,
		Reason:  models.ReasonAllowed,
		Message: models.ReasonAllowed.Message(),
	}, user, resolved
}

// Quota возвращает остаток месячной квоты пользователя по его текущему плану.
func (s *EligibilityService) Quota(ctx context.Context, userUID string, now time.Time) (models.Remaining, error) {
	const op = "services.eligibility.Quota"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return models.Remaining{}, fmt.Errorf("%s: %w", op, err)
	}
	resolved := s.plans.Resolve(ctx, user, now)
	remaining, _ := s.quota.Usage(ctx, userUID, resolved, now)
	return remaining, nil
}

// ActivePlan возвращает разрешённый план пользователя для отображения.
func (s *EligibilityService) ActivePlan(ctx context.Context, userUID string, now time.Time) (models.ResolvedPlan, error) {
	const op = "services.eligibility.ActivePlan"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return models.ResolvedPlan{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.plans.Resolve(ctx, user, now), nil
}

func deny(reason models.EligibilityReason) models.Decision {
	return models.Decision{
		Allowed: false,
		Reason:  reason,
		Message: reason.Message(),
	}
}
