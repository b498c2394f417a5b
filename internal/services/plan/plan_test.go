package plan_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/services/plan"
)

type mockPlanRepo struct {
	GetPlanFunc   func(ctx context.Context, planID string) (*models.Plan, error)
	ListPlansFunc func(ctx context.Context, category, currency string) ([]*models.Plan, error)
}

func (m *mockPlanRepo) GetPlan(ctx context.Context, planID string) (*models.Plan, error) {
	return m.GetPlanFunc(ctx, planID)
}

func (m *mockPlanRepo) ListPlans(ctx context.Context, category, currency string) ([]*models.Plan, error) {
	return m.ListPlansFunc(ctx, category, currency)
}

type mockCache struct {
	GetFunc func(key string, result any) (bool, error)
	SetFunc func(key string, value any, expiration time.Duration) error
}

func (m *mockCache) Get(key string, result any) (bool, error) {
	if m.GetFunc == nil {
		return false, nil
	}
	return m.GetFunc(key, result)
}

func (m *mockCache) Set(key string, value any, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(key, value, expiration)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func catalogWith(plans ...*models.Plan) *mockPlanRepo {
	index := make(map[string]*models.Plan, len(plans))
	for _, p := range plans {
		index[p.ID] = p
	}
	return &mockPlanRepo{
		GetPlanFunc: func(_ context.Context, planID string) (*models.Plan, error) {
			if p, ok := index[planID]; ok {
				return p, nil
			}
			return nil, errors.New("plan not found")
		},
	}
}

func intPtr(v int) *int { return &v }

func TestResolve_TableTests(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	proPlan := &models.Plan{ID: "pro1", Name: "Pro", Category: "service", MaxJobsLimit: intPtr(300)}
	paygPlan := &models.Plan{ID: "payg1", Name: "Pay As You Go", Category: "service"}
	featurePlan := &models.Plan{ID: "feat1", Name: "Standard", Category: "service",
		Features: []string{"Up to 50 hot jobs", "Up to 300 hot jobs"}}
	bareProPlan := &models.Plan{ID: "pro2", Name: "Pro Lite", Category: "service"}

	tests := []struct {
		name             string
		user             *models.User
		wantNoPlan       bool
		wantExpired      bool
		wantPayg         bool
		wantLimit        *int
	}{
		{
			name:       "no plans at all",
			user:       &models.User{UID: "u1"},
			wantNoPlan: true,
		},
		{
			name: "only membership category",
			user: &models.User{UID: "u1", Plans: []models.PlanMembership{
				{PlanID: "pro1", Category: "membership"},
			}},
			wantNoPlan: true,
		},
		{
			name: "numeric maxjobslimit",
			user: &models.User{UID: "u1", Plans: []models.PlanMembership{
				{PlanID: "pro1", Category: "service"},
			}},
			wantLimit: intPtr(300),
		},
		{
			name: "payg plan is unlimited",
			user: &models.User{UID: "u1", Plans: []models.PlanMembership{
				{PlanID: "payg1", Category: "service"},
			}},
			wantPayg:  true,
			wantLimit: intPtr(plan.PaygLimitSentinel),
		},
		{
			name: "feature text limit takes maximum",
			user: &models.User{UID: "u1", Plans: []models.PlanMembership{
				{PlanID: "feat1", Category: "service"},
			}},
			wantLimit: intPtr(300),
		},
		{
			name: "user override wins over payg",
			user: &models.User{UID: "u1", MaxHotJobs: intPtr(5), Plans: []models.PlanMembership{
				{PlanID: "payg1", Category: "service"},
			}},
			wantLimit: intPtr(5),
		},
		{
			name: "pro fallback leaves limit nil",
			user: &models.User{UID: "u1", Plans: []models.PlanMembership{
				{PlanID: "pro2", Category: "service"},
			}},
			wantLimit: nil,
		},
		{
			name: "expired membership voids limit and payg",
			user: &models.User{UID: "u1", Plans: []models.PlanMembership{
				{PlanID: "payg1", Category: "service", ExpiryDate: &past},
			}},
			wantExpired: true,
			wantLimit:   nil,
		},
		{
			name: "user level expiry override",
			user: &models.User{UID: "u1", PlanExpiresAt: &past, Plans: []models.PlanMembership{
				{PlanID: "pro1", Category: "service", ExpiryDate: &future},
			}},
			wantExpired: true,
		},
		{
			name: "active plan preferred over last",
			user: &models.User{UID: "u1", ActivePlan: "pro1", Plans: []models.PlanMembership{
				{PlanID: "pro1", Category: "service"},
				{PlanID: "payg1", Category: "service"},
			}},
			wantLimit: intPtr(300),
		},
		{
			name: "last membership wins without active plan",
			user: &models.User{UID: "u1", Plans: []models.PlanMembership{
				{PlanID: "pro1", Category: "service"},
				{PlanID: "payg1", Category: "service"},
			}},
			wantPayg:  true,
			wantLimit: intPtr(plan.PaygLimitSentinel),
		},
	}

	repo := catalogWith(proPlan, paygPlan, featurePlan, bareProPlan)
	service := plan.NewPlanService(repo, &mockCache{}, makeLogger())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.Resolve(context.Background(), tt.user, now)

			if tt.wantNoPlan {
				assert.False(t, got.HasPlan())
				return
			}
			require.True(t, got.HasPlan())
			assert.Equal(t, tt.wantExpired, got.IsExpired)
			assert.Equal(t, tt.wantPayg, got.IsPayAsYouGo)
			if tt.wantLimit == nil {
				assert.Nil(t, got.HotJobLimit)
			} else {
				require.NotNil(t, got.HotJobLimit)
				assert.Equal(t, *tt.wantLimit, *got.HotJobLimit)
			}
		})
	}
}

func TestResolve_CatalogErrorFailsClosed(t *testing.T) {
	repo := &mockPlanRepo{
		GetPlanFunc: func(_ context.Context, _ string) (*models.Plan, error) {
			return nil, errors.New("store unavailable")
		},
	}
	service := plan.NewPlanService(repo, &mockCache{}, makeLogger())

	user := &models.User{UID: "u1", Plans: []models.PlanMembership{
		{PlanID: "pro1", Category: "service"},
	}}
	got := service.Resolve(context.Background(), user, time.Now())

	assert.False(t, got.HasPlan())
	assert.False(t, got.IsPayAsYouGo)
	assert.Nil(t, got.HotJobLimit)
}

func TestListCatalog_CacheHitSkipsRepo(t *testing.T) {
	repoCalled := false
	repo := &mockPlanRepo{
		ListPlansFunc: func(_ context.Context, _, _ string) ([]*models.Plan, error) {
			repoCalled = true
			return nil, nil
		},
	}
	cache := &mockCache{
		GetFunc: func(key string, result any) (bool, error) {
			require.Equal(t, "plans:service:INR", key)
			plans := result.(*[]*models.Plan)
			*plans = []*models.Plan{{ID: "pro1", Name: "Pro"}}
			return true, nil
		},
	}
	service := plan.NewPlanService(repo, cache, makeLogger())

	got, err := service.ListCatalog(context.Background(), "service", "INR")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, repoCalled)
}
