package purchase

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/audiostory-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/response"
	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

type SubscriptionServiceMock struct {
	mock.Mock
}

func (m *SubscriptionServiceMock) Purchase(ctx context.Context, userUID string, months int) (*models.Subscription, bool, error) {
	args := m.Called(ctx, userUID, months)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Bool(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestPurchaseHandler_ServeHTTP(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name           string
		userUID        string
		requestBody    any
		mockResp       *models.Subscription
		mockCreated    bool
		mockErr        error
		wantStatusCode int
	}{
		{
			name:        "first purchase",
			userUID:     "uid-1",
			requestBody: Request{Months: 3},
			mockResp: &models.Subscription{
				UserUID:   "uid-1",
				StartDate: now,
				EndDate:   now.Add(90 * 24 * time.Hour),
			},
			mockCreated:    true,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:        "repeat purchase replaces period",
			userUID:     "uid-1",
			requestBody: Request{Months: 3},
			mockResp: &models.Subscription{
				UserUID:   "uid-1",
				StartDate: now,
				EndDate:   now.Add(90 * 24 * time.Hour),
			},
			mockCreated:    false,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing identity",
			userUID:        "",
			requestBody:    Request{Months: 3},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "zero months fails validation",
			userUID:        "uid-1",
			requestBody:    Request{Months: 0},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "invalid json body",
			userUID:        "uid-1",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subsMock := new(SubscriptionServiceMock)
			if tt.mockResp != nil || tt.mockErr != nil {
				subsMock.On("Purchase", mock.Anything, tt.userUID, 3).
					Return(tt.mockResp, tt.mockCreated, tt.mockErr)
			}
			handler := New(newNoopLogger(), subsMock)

			var body bytes.Buffer
			require.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/subscription", &body)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp response.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			if tt.wantStatusCode == http.StatusCreated || tt.wantStatusCode == http.StatusOK {
				assert.True(t, resp.Success)
			} else {
				assert.False(t, resp.Success)
			}
		})
	}
}
