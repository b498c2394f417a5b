package models

import "strconv"

// EligibilityReason причина решения о допуске к отклику.
// Причины проверяются строго по порядку, первая сработавшая побеждает.
type EligibilityReason string

const (
	// ReasonNotAuthenticated пользователь не авторизован.
	ReasonNotAuthenticated EligibilityReason = "NOT_AUTHENTICATED"
	// ReasonNoServicePlan у пользователя нет плана категории service.
	ReasonNoServicePlan EligibilityReason = "NO_SERVICE_PLAN"
	// ReasonPlanExpired активный план истёк.
	ReasonPlanExpired EligibilityReason = "PLAN_EXPIRED"
	// ReasonAlreadyApplied отклик на эту вакансию уже существует.
	ReasonAlreadyApplied EligibilityReason = "ALREADY_APPLIED"
	// ReasonRequestPending по этой вакансии есть заявка в статусе pending.
	ReasonRequestPending EligibilityReason = "REQUEST_PENDING"
	// ReasonLimitReached месячный лимит откликов исчерпан.
	ReasonLimitReached EligibilityReason = "LIMIT_REACHED"
	// ReasonInsufficientWallet недостаточно средств на кошельке (PAYG, Индия).
	ReasonInsufficientWallet EligibilityReason = "INSUFFICIENT_WALLET"
	// ReasonAllowed отклик разрешён.
	ReasonAllowed EligibilityReason = "ALLOWED"
)

// Decision итог проверки допуска к отклику на вакансию.
type Decision struct {
	Allowed bool              `json:"allowed"`
	Reason  EligibilityReason `json:"reason"`
	Message string            `json:"message"`
}

// Message возвращает текст для пользователя. Каждый отказ имеет собственное
// сообщение, чтобы интерфейс мог показать правильное действие
// (продлить план, пополнить кошелёк, дождаться рассмотрения заявки).
func (r EligibilityReason) Message() string {
	switch r {
	case ReasonNotAuthenticated:
		return "sign in to apply"
	case ReasonNoServicePlan:
		return "a service plan is required to apply"
	case ReasonPlanExpired:
		return "your plan has expired, renew to continue"
	case ReasonAlreadyApplied:
		return "you have already applied to this job"
	case ReasonRequestPending:
		return "your request for this job is pending review"
	case ReasonLimitReached:
		return "monthly application limit reached"
	case ReasonInsufficientWallet:
		return "wallet balance too low, top up to apply"
	case ReasonAllowed:
		return "you can apply to this job"
	}
	return string(r)
}

// RemainingKind вид остатка месячной квоты.
type RemainingKind string

const (
	// RemainingExpired план истёк, квота недоступна.
	RemainingExpired RemainingKind = "expired"
	// RemainingUnlimited план Pay-As-You-Go, квота не ограничена.
	RemainingUnlimited RemainingKind = "unlimited"
	// RemainingCount конечный остаток откликов в этом месяце.
	RemainingCount RemainingKind = "count"
)

// Remaining остаток месячной квоты откликов. Три исхода взаимоисключающие:
// истёкший план, безлимитный PAYG и конечный счётчик.
type Remaining struct {
	Kind  RemainingKind `json:"kind"`
	Count int           `json:"count,omitempty"` // Заполняется только при Kind == RemainingCount
}

// Label возвращает текстовое представление остатка для интерфейса.
func (r Remaining) Label() string {
	switch r.Kind {
	case RemainingExpired:
		return "Inactive (Plan Expired)"
	case RemainingUnlimited:
		return "Unlimited (Pay As You Go)"
	default:
		return strconv.Itoa(r.Count)
	}
}
