package hotjobrequest_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/services/hotjobrequest"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/storage/repository"
)

type mockRepo struct {
	ExistsFunc      func(ctx context.Context, userUID, jobID string) (bool, error)
	CreateFunc      func(ctx context.Context, userUID, jobID string, now time.Time) (int, error)
	ApproveFunc     func(ctx context.Context, id int) (int, error)
	ListPendingFunc func(ctx context.Context, limit, offset int) ([]*models.HotJobRequest, error)
}

func (m *mockRepo) ExistsPendingRequest(ctx context.Context, userUID, jobID string) (bool, error) {
	return m.ExistsFunc(ctx, userUID, jobID)
}

func (m *mockRepo) CreateRequest(ctx context.Context, userUID, jobID string, now time.Time) (int, error) {
	return m.CreateFunc(ctx, userUID, jobID, now)
}

func (m *mockRepo) ApproveRequest(ctx context.Context, id int) (int, error) {
	return m.ApproveFunc(ctx, id)
}

func (m *mockRepo) ListPendingRequests(ctx context.Context, limit, offset int) ([]*models.HotJobRequest, error) {
	return m.ListPendingFunc(ctx, limit, offset)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger { return slog.New(discardHandler{}) }

func TestCreate_Success(t *testing.T) {
	repo := &mockRepo{
		ExistsFunc: func(_ context.Context, _, _ string) (bool, error) { return false, nil },
		CreateFunc: func(_ context.Context, userUID, jobID string, now time.Time) (int, error) {
			assert.Equal(t, "u1", userUID)
			assert.Equal(t, "J1", jobID)
			assert.Equal(t, time.UTC, now.Location())
			return 3, nil
		},
	}
	svc := hotjobrequest.NewRequestService(repo, makeLogger())

	id, err := svc.Create(context.Background(), "u1", "J1", time.Now())

	require.NoError(t, err)
	assert.Equal(t, 3, id)
}

func TestCreate_PendingExists(t *testing.T) {
	repo := &mockRepo{
		ExistsFunc: func(_ context.Context, _, _ string) (bool, error) { return true, nil },
		CreateFunc: func(_ context.Context, _, _ string, _ time.Time) (int, error) {
			t.Fatal("create must not be called when a pending request exists")
			return 0, nil
		},
	}
	svc := hotjobrequest.NewRequestService(repo, makeLogger())

	_, err := svc.Create(context.Background(), "u1", "J1", time.Now())

	require.ErrorIs(t, err, hotjobrequest.ErrPendingExists)
}

func TestCreate_StoreError(t *testing.T) {
	repo := &mockRepo{
		ExistsFunc: func(_ context.Context, _, _ string) (bool, error) {
			return false, errors.New("connection refused")
		},
	}
	svc := hotjobrequest.NewRequestService(repo, makeLogger())

	_, err := svc.Create(context.Background(), "u1", "J1", time.Now())

	require.Error(t, err)
}

func TestApprove(t *testing.T) {
	tests := []struct {
		name    string
		updated int
		wantErr error
	}{
		{"pending request approved", 1, nil},
		{"missing or already processed", 0, repository.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{
				ApproveFunc: func(_ context.Context, id int) (int, error) {
					assert.Equal(t, 5, id)
					return tt.updated, nil
				},
			}
			svc := hotjobrequest.NewRequestService(repo, makeLogger())

			err := svc.Approve(context.Background(), 5)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestListPending(t *testing.T) {
	repo := &mockRepo{
		ListPendingFunc: func(_ context.Context, limit, offset int) ([]*models.HotJobRequest, error) {
			assert.Equal(t, 50, limit)
			assert.Equal(t, 0, offset)
			return []*models.HotJobRequest{
				{ID: 1, UserUID: "u1", JobID: "J1", Status: models.RequestStatusPending},
			}, nil
		},
	}
	svc := hotjobrequest.NewRequestService(repo, makeLogger())

	requests, err := svc.ListPending(context.Background(), 50, 0)

	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, models.RequestStatusPending, requests[0].Status)
}
