package check

import (
	"context"
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
)

// MockService реализует интерфейс check.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Check(ctx context.Context, userUID, jobID string, now time.Time) models.Decision {
	args := m.Called(ctx, userUID, jobID, now)
	return args.Get(0).(models.Decision)
}

func TestCheckHandler(t *testing.T) {
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
			name:    "допуск разрешён",
			jobID:   "J1",
			userUID: "u1",
			setupMock: func(m *MockService) {
				m.On("Check", mock.Anything, "u1", "J1", mock.Anything).Return(models.Decision{
					Allowed: true, Reason: models.ReasonAllowed, Message: models.ReasonAllowed.Message(),
				})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"reason":"ALLOWED"`,
		},
		{
			name:    "отказ возвращается как обычный ответ",
			jobID:   "J1",
			userUID: "u1",
			setupMock: func(m *MockService) {
				m.On("Check", mock.Anything, "u1", "J1", mock.Anything).Return(models.Decision{
					Allowed: false, Reason: models.ReasonPlanExpired, Message: models.ReasonPlanExpired.Message(),
				})
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"reason":"PLAN_EXPIRED"`,
		},
		{
			name:           "нет UID пользователя в контексте",
			jobID:          "J1",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/jobs/"+tt.jobID+"/eligibility", nil)
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
