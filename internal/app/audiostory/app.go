// Package audiostory собирает HTTP-приложение: хранилище, кеш, брокер,
// сервисы и маршруты.
package audiostory

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/audiostory-backend/internal/cache"
	"github.com/magabrotheeeer/audiostory-backend/internal/config"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/jwt"
	librabbitmq "github.com/magabrotheeeer/audiostory-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/audiostory-backend/internal/migrations"
	"github.com/magabrotheeeer/audiostory-backend/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/audiostory-backend/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/audiostory-backend/internal/services/catalog"
	notificationservice "github.com/magabrotheeeer/audiostory-backend/internal/services/notification"
	subscriptionservice "github.com/magabrotheeeer/audiostory-backend/internal/services/subscription"
	"github.com/magabrotheeeer/audiostory-backend/internal/storage/repository"
)

type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	amqpConn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(amqpConn, librabbitmq.GetNotificationQueues())
	if err != nil {
		return nil, err
	}
	publisher := librabbitmq.NewPublisher(ch)

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.AccessTTL, cfg.RefreshTTL)

	authService := authservice.New(db, cacheRedis, publisher, jwtMaker, cfg.OTP.TTL, logger)
	subscriptionService := subscriptionservice.New(db, publisher, logger)
	catalogService := catalogservice.New(db, cacheRedis, publisher, logger)
	notificationService := notificationservice.New(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, jwtMaker,
		authService, subscriptionService, catalogService, notificationService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		a.amqpConn.Close()
		return err
	}
}
