package login

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

func (m *AuthServiceMock) Login(ctx context.Context, email, rawPassword string) (*auth.TokenPair, error) {
	args := m.Called(ctx, email, rawPassword)
	pair, _ := args.Get(0).(*auth.TokenPair)
	return pair, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockResp       *auth.TokenPair
		mockErr        error
		wantStatusCode int
		wantMessage    string
		wantSuccess    bool
	}{
		{
			name:           "valid login",
			requestBody:    Request{Email: "user@example.com", Password: "password123"},
			mockResp:       &auth.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
			wantStatusCode: http.StatusOK,
			wantMessage:    "login success",
			wantSuccess:    true,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "invalid request body",
		},
		{
			name:           "validation failure",
			requestBody:    Request{Email: "not-an-email", Password: "short"},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "invalid credentials",
			requestBody:    Request{Email: "user@example.com", Password: "password123"},
			mockErr:        auth.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "invalid credentials",
		},
		{
			name:           "inactive account",
			requestBody:    Request{Email: "user@example.com", Password: "password123"},
			mockErr:        auth.ErrAccountInactive,
			wantStatusCode: http.StatusForbidden,
			wantMessage:    "account is not active",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			if tt.mockResp != nil || tt.mockErr != nil {
				authMock.On("Login", mock.Anything, "user@example.com", "password123").
					Return(tt.mockResp, tt.mockErr)
			}
			handler := New(newNoopLogger(), authMock)

			var body bytes.Buffer
			require.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", &body)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp response.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantSuccess, resp.Success)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, resp.Message)
			}
			if tt.wantSuccess {
				data, ok := resp.Data.(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "acc", data["access_token"])
				assert.Equal(t, "ref", data["refresh_token"])
			}
		})
	}
}
