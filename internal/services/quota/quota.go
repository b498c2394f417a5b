// Package quota считает месячную квоту откликов: количество откликов
// в текущем календарном месяце и остаток по лимиту активного плана.
package quota

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/sl"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
)

// ApplicationRepository определяет доступ к откликам в хранилище.
type ApplicationRepository interface {
	// CountApplicationsInMonth подсчитывает отклики пользователя за месяц ref.
	CountApplicationsInMonth(ctx context.Context, userUID string, ref time.Time) (int, error)
	// ListApplications возвращает отклики пользователя с пагинацией.
	ListApplications(ctx context.Context, userUID string, limit, offset int) ([]*models.Application, error)
}

// QuotaService реализует подсчёт квоты поверх хранилища откликов.
type QuotaService struct {
	repo ApplicationRepository
	log  *slog.Logger
}

// NewQuotaService создает новый экземпляр QuotaService.
func NewQuotaService(repo ApplicationRepository, log *slog.Logger) *QuotaService {
	return &QuotaService{
		repo: repo,
		log:  log,
	}
}

// CountThisMonth подсчитывает отклики, попавшие в тот же календарный месяц,
// что и ref. Сравнение по году и месяцу в UTC; порядок списка значения не имеет.
func CountThisMonth(apps []*models.Application, ref time.Time) int {
	refYear, refMonth, _ := ref.UTC().Date()
	count := 0
	for _, a := range apps {
		y, m, _ := a.AppliedAt.UTC().Date()
		if y == refYear && m == refMonth {
			count++
		}
	}
	return count
}

// Remaining возвращает остаток месячной квоты для разрешённого плана.
// Три исхода взаимоисключающие: истёкший план, безлимитный Pay-As-You-Go
// и конечный остаток max(0, limit - count). Лимит nil даёт остаток 0:
// план, не задающий лимит, откликов не разрешает.
func Remaining(rp models.ResolvedPlan, count int) models.Remaining {
	switch {
	case rp.IsExpired:
		return models.Remaining{Kind: models.RemainingExpired}
	case rp.IsPayAsYouGo:
		return models.Remaining{Kind: models.RemainingUnlimited}
	case rp.HotJobLimit == nil:
		return models.Remaining{Kind: models.RemainingCount, Count: 0}
	default:
		remaining := *rp.HotJobLimit - count
		if remaining < 0 {
			remaining = 0
		}
		return models.Remaining{Kind: models.RemainingCount, Count: remaining}
	}
}

// LimitReached сообщает, исчерпана ли месячная квота.
// Истечение плана доминирует над остальными проверками.
func LimitReached(rp models.ResolvedPlan, count int) bool {
	if rp.IsExpired {
		return true
	}
	if rp.IsPayAsYouGo {
		return false
	}
	return rp.HotJobLimit != nil && count >= *rp.HotJobLimit
}

// Usage возвращает остаток квоты и признак исчерпания для пользователя.
// Ошибка чтения хранилища деградирует до самого консервативного исхода:
// квота считается исчерпанной, ошибка наружу не отдается.
func (s *QuotaService) Usage(ctx context.Context, userUID string, rp models.ResolvedPlan, now time.Time) (models.Remaining, bool) {
	count, err := s.repo.CountApplicationsInMonth(ctx, userUID, now)
	if err != nil {
		s.log.Warn("failed to count applications, treating quota as exhausted",
			slog.String("user_uid", userUID), sl.Err(err))
		return models.Remaining{Kind: models.RemainingCount, Count: 0}, true
	}
	return Remaining(rp, count), LimitReached(rp, count)
}
