package subscription

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) UpsertSubscription(ctx context.Context, userUID string, startDate, endDate time.Time) (bool, error) {
	args := m.Called(ctx, userUID, startDate, endDate)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) DeleteSubscription(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

func (m *mockRepository) GetSubscriptionByUser(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

// capturingPublisher собирает сообщения, отправленные из фоновой горутины.
type capturingPublisher struct {
	mu       sync.Mutex
	messages []any
	done     chan struct{}
}

func newCapturingPublisher() *capturingPublisher {
	return &capturingPublisher{done: make(chan struct{}, 1)}
}

func (p *capturingPublisher) Publish(_ string, message any) error {
	p.mu.Lock()
	p.messages = append(p.messages, message)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func newTestService(repo *mockRepository, publisher Publisher) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(repo, publisher, log)
}

func TestService_Purchase(t *testing.T) {
	repo := new(mockRepository)
	publisher := newCapturingPublisher()
	service := newTestService(repo, publisher)

	repo.On("UpsertSubscription", mock.Anything, "uid-1",
		mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(true, nil)

	sub, created, err := service.Purchase(context.Background(), "uid-1", 3)
	require.NoError(t, err)
	assert.True(t, created)

	wantDuration := 3 * 30 * 24 * time.Hour
	assert.Equal(t, wantDuration, sub.EndDate.Sub(sub.StartDate))
	assert.WithinDuration(t, time.Now().UTC(), sub.StartDate, time.Second)

	select {
	case <-publisher.done:
	case <-time.After(time.Second):
		t.Fatal("subscription notification was not published")
	}
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	require.Len(t, publisher.messages, 1)
	msg, ok := publisher.messages[0].(models.SubscriptionStatusMessage)
	require.True(t, ok)
	assert.Equal(t, "uid-1", msg.UserUID)
	repo.AssertExpectations(t)
}

func TestService_Purchase_RepeatReportsReplace(t *testing.T) {
	repo := new(mockRepository)
	service := newTestService(repo, newCapturingPublisher())

	repo.On("UpsertSubscription", mock.Anything, "uid-1",
		mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(false, nil)

	_, created, err := service.Purchase(context.Background(), "uid-1", 1)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestService_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{name: "success"},
		{name: "not found", repoErr: sql.ErrNoRows, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			service := newTestService(repo, newCapturingPublisher())

			repo.On("DeleteSubscription", mock.Anything, "uid-1").Return(tt.repoErr)

			err := service.Cancel(context.Background(), "uid-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestService_Get_NotFound(t *testing.T) {
	repo := new(mockRepository)
	service := newTestService(repo, newCapturingPublisher())

	repo.On("GetSubscriptionByUser", mock.Anything, "uid-1").Return(nil, sql.ErrNoRows)

	_, err := service.Get(context.Background(), "uid-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
