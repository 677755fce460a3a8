// Package catalog содержит бизнес-логику каталога аудиосказок
// с кешированием списка в Redis.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/audiostory-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/audiostory-backend/internal/lib/sl"
	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

// ErrAudioNotFound возвращается при запросе несуществующей аудиозаписи.
var ErrAudioNotFound = errors.New("audio not found")

const (
	audioListCacheKey = "audios:list"
	audioListCacheTTL = time.Hour
)

// Repository определяет методы для работы с каталогом в хранилище.
type Repository interface {
	CreateAudio(ctx context.Context, audio models.Audio) (int, error)
	CreateCategory(ctx context.Context, name string) (int, error)
	GetAudio(ctx context.Context, id int) (*models.Audio, error)
	ListAudios(ctx context.Context) ([]*models.Audio, error)
	IncrementPlayCount(ctx context.Context, id int) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Publisher отправляет события каталога в брокер для рассылки уведомлений.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service реализует просмотр и пополнение каталога.
type Service struct {
	repo      Repository
	cache     Cache
	publisher Publisher
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// ListAudios возвращает список аудиозаписей, обращаясь к базе только
// при промахе кеша.
func (s *Service) ListAudios(ctx context.Context) ([]*models.Audio, error) {
	const op = "services.catalog.ListAudios"

	var cached []*models.Audio
	found, err := s.cache.Get(ctx, audioListCacheKey, &cached)
	if err != nil {
		s.log.Warn("audio list cache lookup failed", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	list, err := s.repo.ListAudios(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(ctx, audioListCacheKey, list, audioListCacheTTL); err != nil {
		s.log.Warn("failed to cache audio list", sl.Err(err))
	}
	return list, nil
}

// Play регистрирует прослушивание и возвращает запись со счетчиком.
func (s *Service) Play(ctx context.Context, id int) (*models.Audio, error) {
	const op = "services.catalog.Play"

	rows, err := s.repo.IncrementPlayCount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return nil, ErrAudioNotFound
	}

	audio, err := s.repo.GetAudio(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAudioNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return audio, nil
}

// CreateAudio добавляет аудиозапись в каталог, сбрасывает кеш списка
// и ставит событие для рассылки уведомлений.
func (s *Service) CreateAudio(ctx context.Context, audio models.Audio) (int, error) {
	const op = "services.catalog.CreateAudio"

	id, err := s.repo.CreateAudio(ctx, audio)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Invalidate(ctx, audioListCacheKey); err != nil {
		s.log.Warn("failed to invalidate audio list cache", sl.Err(err))
	}

	s.log.Info("audio added to catalog", slog.Int("id", id), slog.String("title", audio.Title))

	go func() {
		msg := models.CatalogEventMessage{Kind: models.CatalogEventAudio, ID: id, Title: audio.Title}
		if err := s.publisher.Publish(rabbitmq.RoutingKeyCatalog, msg); err != nil {
			s.log.Error("failed to enqueue catalog event", slog.Int("id", id), sl.Err(err))
		}
	}()

	return id, nil
}

// CreateCategory добавляет категорию и ставит событие для рассылки.
func (s *Service) CreateCategory(ctx context.Context, name string) (int, error) {
	const op = "services.catalog.CreateCategory"

	id, err := s.repo.CreateCategory(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("category created", slog.Int("id", id), slog.String("name", name))

	go func() {
		msg := models.CatalogEventMessage{Kind: models.CatalogEventCategory, ID: id, Title: name}
		if err := s.publisher.Publish(rabbitmq.RoutingKeyCatalog, msg); err != nil {
			s.log.Error("failed to enqueue catalog event", slog.Int("id", id), sl.Err(err))
		}
	}()

	return id, nil
}
