package audiostory

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/audiostory-backend/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/audiostory-backend/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/audiostory-backend/internal/services/catalog"
	notificationservice "github.com/magabrotheeeer/audiostory-backend/internal/services/notification"
	subscriptionservice "github.com/magabrotheeeer/audiostory-backend/internal/services/subscription"
)

func newTestRouter() chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtMaker := jwt.NewMaker("test-secret-key", 15*time.Minute, 720*time.Hour)

	r := chi.NewRouter()
	RegisterRoutes(r, logger, nil, jwtMaker,
		authservice.New(nil, nil, nil, jwtMaker, 10*time.Minute, logger),
		subscriptionservice.New(nil, nil, logger),
		catalogservice.New(nil, nil, nil, logger),
		notificationservice.New(nil, logger),
	)
	return r
}

// Запросы без токена: защищенные маршруты отклоняются до обработчика,
// открытые доходят до валидации тела.
func TestRoutes_Authentication(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name           string
		method         string
		path           string
		wantStatusCode int
	}{
		{name: "logout requires session", method: http.MethodPost, path: "/api/v1/auth/logout", wantStatusCode: http.StatusUnauthorized},
		{name: "subscription read requires session", method: http.MethodGet, path: "/api/v1/auth/subscription", wantStatusCode: http.StatusUnauthorized},
		{name: "notifications require session", method: http.MethodGet, path: "/api/v1/notifications", wantStatusCode: http.StatusUnauthorized},
		{name: "refresh stays open", method: http.MethodPost, path: "/api/v1/auth/refresh", wantStatusCode: http.StatusBadRequest},
		{name: "login stays open", method: http.MethodPost, path: "/api/v1/auth/login", wantStatusCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(""))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
		})
	}
}
