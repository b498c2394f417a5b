package apply

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/hotjob-eligibility/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/models"
	"github.com/magabrotheeeer/hotjob-eligibility/internal/services/application"
)

// MockService реализует интерфейс apply.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Apply(ctx context.Context, userUID, jobID string, now time.Time) (*application.ApplyResult, error) {
	args := m.Called(ctx, userUID, jobID, now)
	if res := args.Get(0); res != nil {
		return res.(*application.ApplyResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestApplyHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		jobID          string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешный отклик",
			jobID:   "J1",
			userUID: "u1",
			setupMock: func(m *MockService) {
				m.On("Apply", mock.Anything, "u1", "J1", mock.Anything).Return(&application.ApplyResult{
					Decision: models.Decision{Allowed: true, Reason: models.ReasonAllowed,
						Message: models.ReasonAllowed.Message()},
					ApplicationID: 42,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"application_id":42`,
		},
		{
			name:    "отказ по лимиту",
			jobID:   "J1",
			userUID: "u1",
			setupMock: func(m *MockService) {
				m.On("Apply", mock.Anything, "u1", "J1", mock.Anything).Return(&application.ApplyResult{
					Decision: models.Decision{Allowed: false, Reason: models.ReasonLimitReached,
						Message: models.ReasonLimitReached.Message()},
				}, nil)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"reason":"LIMIT_REACHED"`,
		},
		{
			name:    "отказ по балансу кошелька",
			jobID:   "J1",
			userUID: "u1",
			setupMock: func(m *MockService) {
				m.On("Apply", mock.Anything, "u1", "J1", mock.Anything).Return(&application.ApplyResult{
					Decision: models.Decision{Allowed: false, Reason: models.ReasonInsufficientWallet,
						Message: models.ReasonInsufficientWallet.Message()},
				}, nil)
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `"reason":"INSUFFICIENT_WALLET"`,
		},
		{
			name:           "нет UID пользователя в контексте",
			jobID:          "J1",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:    "ошибка сервиса",
			jobID:   "J1",
			userUID: "u1",
			setupMock: func(m *MockService) {
				m.On("Apply", mock.Anything, "u1", "J1", mock.Anything).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not submit application"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/jobs/"+tt.jobID+"/apply", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("jobID", tt.jobID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
