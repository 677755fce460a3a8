// Package audiostory предоставляет маршруты HTTP-приложения.
package audiostory

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/auth/emailverify"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/auth/refresh"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/catalog/audiocreate"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/catalog/audiolist"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/catalog/audioplay"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/catalog/categorycreate"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/health"
	notificationlist "github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/notification/list"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/notification/markread"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/passreset/change"
	passresetrequest "github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/passreset/request"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/passreset/verify"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/subscription/cancel"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/subscription/purchase"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/audiostory-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/audiostory-backend/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/audiostory-backend/internal/services/catalog"
	notificationservice "github.com/magabrotheeeer/audiostory-backend/internal/services/notification"
	subscriptionservice "github.com/magabrotheeeer/audiostory-backend/internal/services/subscription"
	"github.com/magabrotheeeer/audiostory-backend/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage, jwtMaker jwt.Maker,
	authService *authservice.Service,
	subscriptionService *subscriptionservice.Service,
	catalogService *catalogservice.Service,
	notificationService *notificationservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/signup", signup.New(logger, authService).ServeHTTP)
		r.Post("/auth/email-verify", emailverify.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Post("/auth/refresh", refresh.New(logger, authService).ServeHTTP)
		r.Post("/auth/pass-reset/request", passresetrequest.New(logger, authService).ServeHTTP)
		r.Post("/auth/pass-reset/otp-verify", verify.New(logger, authService).ServeHTTP)
		r.Post("/auth/pass-reset/change-pass", change.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(logger, jwtMaker))

			// refresh-токен в теле, но сам запрос требует действующей сессии
			r.Post("/auth/logout", logout.New(logger, authService).ServeHTTP)

			r.Get("/auth/subscription", read.New(logger, subscriptionService).ServeHTTP)
			r.Post("/auth/subscription", purchase.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/auth/subscription", cancel.New(logger, subscriptionService).ServeHTTP)

			r.Get("/notifications", notificationlist.New(logger, notificationService).ServeHTTP)
			r.Post("/notifications/{id}/read", markread.New(logger, notificationService).ServeHTTP)

			r.Get("/audios", audiolist.New(logger, catalogService).ServeHTTP)
			r.Post("/audios", audiocreate.New(logger, catalogService).ServeHTTP)
			r.Post("/categories", categorycreate.New(logger, catalogService).ServeHTTP)

			// Премиум-контент только для подписчиков
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.SubscriptionRequired(logger, db))
				r.Post("/audios/{id}/play", audioplay.New(logger, catalogService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
