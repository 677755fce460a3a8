package markread

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/audiostory-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/response"
	"github.com/magabrotheeeer/audiostory-backend/internal/services/notification"
)

type NotificationServiceMock struct {
	mock.Mock
}

func (m *NotificationServiceMock) MarkRead(ctx context.Context, id int, userUID string) error {
	args := m.Called(ctx, id, userUID)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestMarkReadHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		userUID        string
		pathID         string
		mockErr        error
		mockCalled     bool
		wantStatusCode int
	}{
		{
			name:           "success",
			userUID:        "uid-1",
			pathID:         "7",
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing identity",
			userUID:        "",
			pathID:         "7",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid id",
			userUID:        "uid-1",
			pathID:         "abc",
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "foreign notification",
			userUID:        "uid-1",
			pathID:         "7",
			mockErr:        notification.ErrNotFound,
			mockCalled:     true,
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(NotificationServiceMock)
			if tt.mockCalled {
				serviceMock.On("MarkRead", mock.Anything, 7, tt.userUID).Return(tt.mockErr)
			}
			handler := New(newNoopLogger(), serviceMock)

			router := chi.NewRouter()
			router.Post("/notifications/{id}/read", handler.ServeHTTP)

			req := httptest.NewRequest(http.MethodPost, "/notifications/"+tt.pathID+"/read", nil)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var resp response.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantStatusCode == http.StatusOK, resp.Success)
		})
	}
}
