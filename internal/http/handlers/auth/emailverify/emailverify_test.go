package emailverify

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

func (m *AuthServiceMock) VerifyEmail(ctx context.Context, email, code string) (*auth.TokenPair, error) {
	args := m.Called(ctx, email, code)
	pair, _ := args.Get(0).(*auth.TokenPair)
	return pair, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestEmailVerifyHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    any
		mockResp       *auth.TokenPair
		mockErr        error
		wantStatusCode int
	}{
		{
			name:           "valid code",
			requestBody:    Request{Email: "user@example.com", Code: "123456"},
			mockResp:       &auth.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "user not found",
			requestBody:    Request{Email: "user@example.com", Code: "123456"},
			mockErr:        auth.ErrUserNotFound,
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "already verified",
			requestBody:    Request{Email: "user@example.com", Code: "123456"},
			mockErr:        auth.ErrAlreadyVerified,
			wantStatusCode: http.StatusConflict,
		},
		{
			name:           "wrong code",
			requestBody:    Request{Email: "user@example.com", Code: "123456"},
			mockErr:        auth.ErrInvalidCode,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "expired code",
			requestBody:    Request{Email: "user@example.com", Code: "123456"},
			mockErr:        auth.ErrCodeExpired,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "code with letters fails validation",
			requestBody:    Request{Email: "user@example.com", Code: "12a456"},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "short code fails validation",
			requestBody:    Request{Email: "user@example.com", Code: "123"},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			if tt.mockResp != nil || tt.mockErr != nil {
				authMock.On("VerifyEmail", mock.Anything, "user@example.com", "123456").
					Return(tt.mockResp, tt.mockErr)
			}
			handler := New(newNoopLogger(), authMock)

			var body bytes.Buffer
			require.NoError(t, json.NewEncoder(&body).Encode(tt.requestBody))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/email-verify", &body)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp response.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			if tt.wantStatusCode == http.StatusOK {
				assert.True(t, resp.Success)
				data, ok := resp.Data.(map[string]any)
				require.True(t, ok)
				assert.NotEmpty(t, data["access_token"])
			} else {
				assert.False(t, resp.Success)
			}
		})
	}
}
