package change

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/audiostory-backend/internal/http/response"
	"github.com/magabrotheeeer/audiostory-backend/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ResetPassword(ctx context.Context, email, rawPassword string) error {
	args := m.Called(ctx, email, rawPassword)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestChangeHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    Request
		mockErr        error
		wantCall       bool
		wantStatusCode int
	}{
		{
			name: "password changed",
			requestBody: Request{
				Email:           "user@example.com",
				Password:        "newsecret",
				ConfirmPassword: "newsecret",
			},
			wantCall:       true,
			wantStatusCode: http.StatusOK,
		},
		{
			name: "passwords do not match",
			requestBody: Request{
				Email:           "user@example.com",
				Password:        "newsecret",
				ConfirmPassword: "different",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "missing confirmation",
			requestBody: Request{
				Email:    "user@example.com",
				Password: "newsecret",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "code not confirmed",
			requestBody: Request{
				Email:           "user@example.com",
				Password:        "newsecret",
				ConfirmPassword: "newsecret",
			},
			mockErr:        auth.ErrCodeNotVerified,
			wantCall:       true,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			if tt.wantCall {
				authMock.On("ResetPassword", mock.Anything, tt.requestBody.Email, tt.requestBody.Password).
					Return(tt.mockErr)
			}
			handler := New(newNoopLogger(), authMock)

			var body bytes.Buffer
			require.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/pass-reset/change-pass", &body)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp response.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantStatusCode == http.StatusOK, resp.Success)
			if !tt.wantCall {
				authMock.AssertNotCalled(t, "ResetPassword", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
