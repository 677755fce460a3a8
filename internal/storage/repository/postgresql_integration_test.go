package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/audiostory-backend/internal/models"
)

func TestStorage_CreateUser_NormalizesEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	uid, err := storage.CreateUser(context.Background(), models.User{
		Email:        "Mixed.Case@Example.COM",
		FullName:     "Test User",
		PasswordHash: "hashedpassword",
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	got, err := storage.GetUserByEmail(context.Background(), "mixed.case@example.com")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "mixed.case@example.com", got.Email)
	assert.False(t, got.IsActive)
	assert.Nil(t, got.OTP)
	assert.Nil(t, got.OTPExp)

	// поиск тоже не зависит от регистра
	got, err = storage.GetUserByEmail(context.Background(), "MIXED.CASE@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
}

func TestStorage_SaveOTP_LastWriteWins(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	uid := factory.CreateUser(t, UniqueEmail(), "Test User", "hashedpassword", false)
	exp := time.Now().Add(10 * time.Minute).UTC()

	require.NoError(t, storage.SaveOTP(context.Background(), uid, "111111", exp))
	require.NoError(t, storage.SaveOTP(context.Background(), uid, "222222", exp))

	got, err := storage.GetUser(context.Background(), uid)
	require.NoError(t, err)
	require.NotNil(t, got.OTP)
	assert.Equal(t, "222222", *got.OTP)
	require.NotNil(t, got.OTPExp)
	assert.WithinDuration(t, exp, *got.OTPExp, time.Second)
	assert.False(t, got.OTPVerified)
}

func TestStorage_SaveOTP_UnknownUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	err := storage.SaveOTP(context.Background(), "550e8400-e29b-41d4-a716-446655440000",
		"123456", time.Now().Add(10*time.Minute))
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestStorage_ActivateUser_ClearsOTPFields(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	uid := factory.CreateUserWithOTP(t, UniqueEmail(), "123456", time.Now().Add(10*time.Minute))

	require.NoError(t, storage.ActivateUser(context.Background(), uid))

	got, err := storage.GetUser(context.Background(), uid)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.True(t, got.OTPVerified)
	assert.Nil(t, got.OTP)
	assert.Nil(t, got.OTPExp)
}

func TestStorage_UpdatePassword_ConsumesOTP(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	uid := factory.CreateUserWithOTP(t, UniqueEmail(), "123456", time.Now().Add(10*time.Minute))
	require.NoError(t, storage.MarkOTPVerified(context.Background(), uid))

	require.NoError(t, storage.UpdatePassword(context.Background(), uid, "newhash"))

	got, err := storage.GetUser(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PasswordHash)
	assert.Nil(t, got.OTP)
	assert.Nil(t, got.OTPExp)
	assert.False(t, got.OTPVerified)
}

func TestStorage_DeleteUnverifiedByEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	email := UniqueEmail()
	factory.CreateUser(t, email, "Unverified", "hashedpassword", false)

	require.NoError(t, storage.DeleteUnverifiedByEmail(context.Background(), email))

	_, err := storage.GetUserByEmail(context.Background(), email)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestStorage_DeleteUnverifiedByEmail_KeepsActiveUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	email := UniqueEmail()
	uid := factory.CreateUser(t, email, "Active", "hashedpassword", true)

	require.NoError(t, storage.DeleteUnverifiedByEmail(context.Background(), email))

	got, err := storage.GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
}

func TestStorage_UpsertSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)

	uid := factory.CreateUser(t, UniqueEmail(), "Test User", "hashedpassword", true)

	start := time.Now().UTC()
	firstEnd := start.Add(30 * 24 * time.Hour)

	created, err := storage.UpsertSubscription(context.Background(), uid, start, firstEnd)
	require.NoError(t, err)
	assert.True(t, created)
	verification.VerifySubscriptionCount(t, uid, 1)
	verification.VerifySubscribedFlag(t, uid, true)

	// повторная покупка заменяет период, а не суммирует
	secondEnd := start.Add(90 * 24 * time.Hour)
	created, err = storage.UpsertSubscription(context.Background(), uid, start, secondEnd)
	require.NoError(t, err)
	assert.False(t, created)
	verification.VerifySubscriptionCount(t, uid, 1)

	sub, err := storage.GetSubscriptionByUser(context.Background(), uid)
	require.NoError(t, err)
	assert.WithinDuration(t, secondEnd, sub.EndDate, time.Second)
}

func TestStorage_DeleteSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)

	uid := factory.CreateUser(t, UniqueEmail(), "Test User", "hashedpassword", true)
	start := time.Now().UTC()
	_, err := storage.UpsertSubscription(context.Background(), uid, start, start.Add(30*24*time.Hour))
	require.NoError(t, err)

	require.NoError(t, storage.DeleteSubscription(context.Background(), uid))
	verification.VerifySubscriptionCount(t, uid, 0)
	verification.VerifySubscribedFlag(t, uid, false)
}

func TestStorage_DeleteSubscription_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)

	uid := factory.CreateUser(t, UniqueEmail(), "Test User", "hashedpassword", true)

	err := storage.DeleteSubscription(context.Background(), uid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))

	// флаг не затронут
	verification.VerifySubscribedFlag(t, uid, false)
}

func TestStorage_BroadcastAudioNotification(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	uid1 := factory.CreateUser(t, UniqueEmail(), "First", "hashedpassword", true)
	uid2 := factory.CreateUser(t, UniqueEmail(), "Second", "hashedpassword", true)
	audioID := factory.CreateAudioRow(t, "Night Tales", "Narrator")

	count, err := storage.BroadcastAudioNotification(context.Background(), audioID, "New story uploaded: Night Tales")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, uid := range []string{uid1, uid2} {
		list, err := storage.ListNotifications(context.Background(), uid)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.NotNil(t, list[0].AudioID)
		assert.Equal(t, audioID, *list[0].AudioID)
		assert.Nil(t, list[0].CategoryID)
		assert.False(t, list[0].IsRead)
	}
}

func TestStorage_MarkNotificationRead(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	uid := factory.CreateUser(t, UniqueEmail(), "Test User", "hashedpassword", true)
	other := factory.CreateUser(t, UniqueEmail(), "Other", "hashedpassword", true)

	id, err := storage.CreateNotification(context.Background(), models.Notification{
		UserUID: uid,
		Message: "Subscription active: 1 month left",
	})
	require.NoError(t, err)

	// чужое уведомление прочитать нельзя
	rows, err := storage.MarkNotificationRead(context.Background(), id, other)
	require.NoError(t, err)
	assert.Equal(t, 0, rows)

	rows, err = storage.MarkNotificationRead(context.Background(), id, uid)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	list, err := storage.ListNotifications(context.Background(), uid)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)
}

func TestStorage_Catalog(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	categoryID, err := storage.CreateCategory(context.Background(), "Fairy Tales")
	require.NoError(t, err)

	audioID, err := storage.CreateAudio(context.Background(), models.Audio{
		Title:      "Night Tales",
		Artist:     "Narrator",
		CategoryID: &categoryID,
	})
	require.NoError(t, err)

	rows, err := storage.IncrementPlayCount(context.Background(), audioID)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	audio, err := storage.GetAudio(context.Background(), audioID)
	require.NoError(t, err)
	assert.Equal(t, 1, audio.PlayCount)
	require.NotNil(t, audio.CategoryID)
	assert.Equal(t, categoryID, *audio.CategoryID)

	list, err := storage.ListAudios(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Night Tales", list[0].Title)
}
