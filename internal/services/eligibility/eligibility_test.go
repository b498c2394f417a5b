package eligibility_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/services/eligibility"
)

type mockUsers struct {
	GetUserFunc func(ctx context.Context, userUID string) (*models.User, error)
}

func (m *mockUsers) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	return m.GetUserFunc(ctx, userUID)
}

type mockApps struct {
	ExistsFunc func(ctx context.Context, userUID, jobID string) (bool, error)
}

func (m *mockApps) ExistsApplication(ctx context.Context, userUID, jobID string) (bool, error) {
	if m.ExistsFunc == nil {
		return false, nil
	}
	return m.ExistsFunc(ctx, userUID, jobID)
}

type mockRequests struct {
	ExistsFunc func(ctx context.Context, userUID, jobID string) (bool, error)
}

func (m *mockRequests) ExistsPendingRequest(ctx context.Context, userUID, jobID string) (bool, error) {
	if m.ExistsFunc == nil {
		return false, nil
	}
	return m.ExistsFunc(ctx, userUID, jobID)
}

type mockResolver struct {
	ResolveFunc func(ctx context.Context, user *models.User, now time.Time) models.ResolvedPlan
}

func (m *mockResolver) Resolve(ctx context.Context, user *models.User, now time.Time) models.ResolvedPlan {
	return m.ResolveFunc(ctx, user, now)
}

type mockQuota struct {
	UsageFunc func(ctx context.Context, userUID string, rp models.ResolvedPlan, now time.Time) (models.Remaining, bool)
}

func (m *mockQuota) Usage(ctx context.Context, userUID string, rp models.ResolvedPlan, now time.Time) (models.Remaining, bool) {
	if m.UsageFunc == nil {
		return models.Remaining{Kind: models.RemainingCount, Count: 1}, false
	}
	return m.UsageFunc(ctx, userUID, rp, now)
}

type mockWallet struct {
	fee int
}

func (m *mockWallet) CanAfford(balance int) bool {
	return balance >= m.fee
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func intPtr(v int) *int { return &v }

type gateFixture struct {
	user     *models.User
	resolved models.ResolvedPlan
	applied  bool
	pending  bool
	reached  bool
}

func newGate(f gateFixture) *eligibility.EligibilityService {
	users := &mockUsers{
		GetUserFunc: func(_ context.Context, _ string) (*models.User, error) {
			if f.user == nil {
				return nil, errors.New("user not found")
			}
			return f.user, nil
		},
	}
	apps := &mockApps{
		ExistsFunc: func(_ context.Context, _, _ string) (bool, error) {
			return f.applied, nil
		},
	}
	requests := &mockRequests{
		ExistsFunc: func(_ context.Context, _, _ string) (bool, error) {
			return f.pending, nil
		},
	}
	resolver := &mockResolver{
		ResolveFunc: func(_ context.Context, _ *models.User, _ time.Time) models.ResolvedPlan {
			return f.resolved
		},
	}
	quota := &mockQuota{
		UsageFunc: func(_ context.Context, _ string, _ models.ResolvedPlan, _ time.Time) (models.Remaining, bool) {
			return models.Remaining{Kind: models.RemainingCount}, f.reached
		},
	}
	return eligibility.NewEligibilityService(users, apps, requests, resolver, quota, &mockWallet{fee: 20}, makeLogger())
}

func TestCheck_PriorityOrder(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	proPlan := models.ResolvedPlan{Plan: &models.Plan{ID: "pro1", Name: "Pro"}, HotJobLimit: intPtr(300)}
	paygPlan := models.ResolvedPlan{Plan: &models.Plan{ID: "payg1", Name: "Pay As You Go"},
		IsPayAsYouGo: true, HotJobLimit: intPtr(9999)}

	tests := []struct {
		name    string
		userUID string
		fixture gateFixture
		want    models.EligibilityReason
	}{
		{
			name:    "not authenticated",
			userUID: "",
			fixture: gateFixture{},
			want:    models.ReasonNotAuthenticated,
		},
		{
			name:    "missing user record denies as unauthenticated",
			userUID: "ghost",
			fixture: gateFixture{user: nil},
			want:    models.ReasonNotAuthenticated,
		},
		{
			name:    "no service plan",
			userUID: "u1",
			fixture: gateFixture{user: &models.User{UID: "u1"}, resolved: models.ResolvedPlan{}},
			want:    models.ReasonNoServicePlan,
		},
		{
			name:    "plan expired dominates quota",
			userUID: "u1",
			fixture: gateFixture{
				user:     &models.User{UID: "u1"},
				resolved: models.ResolvedPlan{Plan: &models.Plan{ID: "pro1"}, IsExpired: true},
				reached:  false,
			},
			want: models.ReasonPlanExpired,
		},
		{
			name:    "already applied wins over limit reached",
			userUID: "u1",
			fixture: gateFixture{
				user:     &models.User{UID: "u1"},
				resolved: proPlan,
				applied:  true,
				reached:  true,
			},
			want: models.ReasonAlreadyApplied,
		},
		{
			name:    "pending request wins over limit reached",
			userUID: "u1",
			fixture: gateFixture{
				user:     &models.User{UID: "u1"},
				resolved: proPlan,
				pending:  true,
				reached:  true,
			},
			want: models.ReasonRequestPending,
		},
		{
			name:    "limit reached",
			userUID: "u1",
			fixture: gateFixture{
				user:     &models.User{UID: "u1"},
				resolved: proPlan,
				reached:  true,
			},
			want: models.ReasonLimitReached,
		},
		{
			name:    "nil limit on non payg plan blocks",
			userUID: "u1",
			fixture: gateFixture{
				user:     &models.User{UID: "u1"},
				resolved: models.ResolvedPlan{Plan: &models.Plan{ID: "pro2", Name: "Pro Lite"}},
				reached:  false,
			},
			want: models.ReasonLimitReached,
		},
		{
			name:    "payg india below threshold",
			userUID: "u1",
			fixture: gateFixture{
				user:     &models.User{UID: "u1", Citizenship: "IN", WalletAmount: 15},
				resolved: paygPlan,
			},
			want: models.ReasonInsufficientWallet,
		},
		{
			name:    "payg india with funds allowed",
			userUID: "u1",
			fixture: gateFixture{
				user:     &models.User{UID: "u1", Citizenship: "IN", WalletAmount: 25},
				resolved: paygPlan,
			},
			want: models.ReasonAllowed,
		},
		{
			name:    "payg outside india skips wallet check",
			userUID: "u1",
			fixture: gateFixture{
				user:     &models.User{UID: "u1", Citizenship: "US", WalletAmount: 0},
				resolved: paygPlan,
			},
			want: models.ReasonAllowed,
		},
		{
			name:    "metered plan under quota allowed",
			userUID: "u1",
			fixture: gateFixture{
				user:     &models.User{UID: "u1"},
				resolved: proPlan,
			},
			want: models.ReasonAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := newGate(tt.fixture)
			got := gate.Check(context.Background(), tt.userUID, "J1", now)

			assert.Equal(t, tt.want, got.Reason)
			assert.Equal(t, tt.want == models.ReasonAllowed, got.Allowed)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestCheck_StoreErrorsFailClosed(t *testing.T) {
	now := time.Now()
	users := &mockUsers{
		GetUserFunc: func(_ context.Context, _ string) (*models.User, error) {
			return &models.User{UID: "u1"}, nil
		},
	}
	apps := &mockApps{
		ExistsFunc: func(_ context.Context, _, _ string) (bool, error) {
			return false, errors.New("store unavailable")
		},
	}
	resolver := &mockResolver{
		ResolveFunc: func(_ context.Context, _ *models.User, _ time.Time) models.ResolvedPlan {
			return models.ResolvedPlan{Plan: &models.Plan{ID: "pro1"}, HotJobLimit: intPtr(300)}
		},
	}
	gate := eligibility.NewEligibilityService(users, apps, &mockRequests{}, resolver,
		&mockQuota{}, &mockWallet{fee: 20}, makeLogger())

	got := gate.Check(context.Background(), "u1", "J1", now)

	assert.False(t, got.Allowed)
	assert.Equal(t, models.ReasonAlreadyApplied, got.Reason)
}

func TestCheck_DistinctMessages(t *testing.T) {
	reasons := []models.EligibilityReason{
		models.ReasonNotAuthenticated,
		models.ReasonNoServicePlan,
		models.ReasonPlanExpired,
		models.ReasonAlreadyApplied,
		models.ReasonRequestPending,
		models.ReasonLimitReached,
		models.ReasonInsufficientWallet,
		models.ReasonAllowed,
	}
	seen := make(map[string]models.EligibilityReason, len(reasons))
	for _, r := range reasons {
		msg := r.Message()
		assert.NotEmpty(t, msg)
		if prev, ok := seen[msg]; ok {
			t.Errorf("reasons %s and %s share message %q", prev, r, msg)
		}
		seen[msg] = r
	}
}
