// Package plan содержит бизнес-логику разрешения активного тарифного плана
// пользователя: выбор членства категории service, проверку истечения
// и вычисление месячного лимита откликов.
package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/planspec"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/lib/sl"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
)

// PaygLimitSentinel значение лимита для планов Pay-As-You-Go.
// Интерфейс показывает его вместо бесконечности; семантически лимита нет.
const PaygLimitSentinel = 9999

// PlanRepository определяет методы для работы с каталогом планов в хранилище.
type PlanRepository interface {
	// GetPlan возвращает план по ID.
	GetPlan(ctx context.Context, planID string) (*models.Plan, error)
	// ListPlans возвращает планы по категории и валюте.
	ListPlans(ctx context.Context, category, currency string) ([]*models.Plan, error)
}

// Cache описывает методы для кэширования данных каталога.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// PlanService реализует разрешение активного плана с кешированием каталога.
type PlanService struct {
	repo  PlanRepository
	cache Cache
	log   *slog.Logger
}

// NewPlanService создает новый экземпляр PlanService.
func NewPlanService(repo PlanRepository, cache Cache, log *slog.Logger) *PlanService {
	return &PlanService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Resolve возвращает активный план пользователя и производный лимит откликов.
//
// Правило выбора: из членств категории service предпочитается указанное в
// user.ActivePlan, иначе берётся последнее добавленное. Любая ошибка чтения
// каталога деградирует до отсутствия плана: решение о допуске закрывается,
// а не открывается.
//
// Порядок вычисления лимита (побеждает первое совпадение):
//  1. переопределение MaxHotJobs на пользователе;
//  2. план Pay-As-You-Go — лимит не ограничен;
//  3. числовое поле плана MaxJobsLimit;
//  4. максимум N по строкам "Up to N hot jobs" в возможностях плана;
//  5. для планов Pro — MaxJobsLimit, даже если он не задан. Оставшийся nil
//     означает "лимит планом не задан" и трактуется как запрет, не безлимит.
func (s *PlanService) Resolve(ctx context.Context, user *models.User, now time.Time) models.ResolvedPlan {
	if user == nil {
		return models.ResolvedPlan{}
	}

	membership, ok := selectServiceMembership(user)
	if !ok {
		return models.ResolvedPlan{}
	}

	catalogPlan, err := s.getPlan(ctx, membership.PlanID)
	if err != nil {
		s.log.Warn("failed to load plan from catalog, denying",
			slog.String("plan_id", membership.PlanID), sl.Err(err))
		return models.ResolvedPlan{}
	}

	if isExpired(user, membership, now) {
		return models.ResolvedPlan{Plan: catalogPlan, IsExpired: true}
	}

	resolved := models.ResolvedPlan{Plan: catalogPlan}
	switch {
	case user.MaxHotJobs != nil:
		resolved.HotJobLimit = user.MaxHotJobs
	case planspec.IsPayAsYouGo(catalogPlan.Name) || planspec.IsPayAsYouGo(catalogPlan.ID):
		resolved.IsPayAsYouGo = true
		limit := PaygLimitSentinel
		resolved.HotJobLimit = &limit
	case catalogPlan.MaxJobsLimit != nil:
		resolved.HotJobLimit = catalogPlan.MaxJobsLimit
	default:
		if n, found := planspec.FeatureLimit(catalogPlan.Features); found {
			resolved.HotJobLimit = &n
		} else if planspec.IsPro(catalogPlan.Name) {
			resolved.HotJobLimit = catalogPlan.MaxJobsLimit
		}
	}
	return resolved
}

// ListCatalog возвращает планы каталога по категории и валюте, используя кеш.
func (s *PlanService) ListCatalog(ctx context.Context, category, currency string) ([]*models.Plan, error) {
	var result []*models.Plan
	cacheKey := fmt.Sprintf("plans:%s:%s", category, currency)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read plan catalog from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListPlans(ctx, category, currency)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache plan catalog", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

func (s *PlanService) getPlan(ctx context.Context, planID string) (*models.Plan, error) {
	var result *models.Plan
	cacheKey := fmt.Sprintf("plan:%s", planID)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read plan from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache plan", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// selectServiceMembership выбирает действующее членство категории service.
// Сравнение по свежести — это порядок добавления, не сравнение дат.
func selectServiceMembership(user *models.User) (models.PlanMembership, bool) {
	var service []models.PlanMembership
	for _, m := range user.Plans {
		if m.Category == models.PlanCategoryService {
			service = append(service, m)
		}
	}
	if len(service) == 0 {
		return models.PlanMembership{}, false
	}
	if user.ActivePlan != "" {
		for _, m := range service {
			if m.PlanID == user.ActivePlan {
				return m, true
			}
		}
	}
	return service[len(service)-1], true
}

func isExpired(user *models.User, m models.PlanMembership, now time.Time) bool {
	if m.ExpiryDate != nil && m.ExpiryDate.Before(now) {
		return true
	}
	if user.PlanExpiresAt != nil && user.PlanExpiresAt.Before(now) {
		return true
	}
	return false
}
