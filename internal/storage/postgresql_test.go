package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-auth-service/internal/models"
)

func TestStorage_CreateUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	verify := NewTestVerification(storage)
	ctx := context.Background()

	uid, err := storage.CreateUser(ctx, models.User{
		Email:        "test@example.com",
		Name:         "Test name",
		PasswordHash: "hashedpassword",
		IsActive:     true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)
	verify.VerifyUserExists(t, uid)

	// Повторная вставка того же email
	_, err = storage.CreateUser(ctx, models.User{
		Email:        "test@example.com",
		PasswordHash: "otherhash",
		IsActive:     true,
	})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestStorage_CreateUser_ConcurrentDuplicates(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	const attempts = 5

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = storage.CreateUser(ctx, models.User{
				Email:        "race@example.com",
				PasswordHash: "hashedpassword",
				IsActive:     true,
			})
		}(i)
	}
	wg.Wait()

	// Ровно одна вставка успешна, остальные получают ErrUserExists.
	var okCount, dupCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		default:
			assert.ErrorIs(t, err, ErrUserExists)
			dupCount++
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, attempts-1, dupCount)
}

func TestStorage_GetUserByEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	data := GetTestUserData()
	factory.CreateUser(t, data.UID, data.Email, data.Name, data.PasswordHash, data.IsActive)

	ctx := context.Background()

	user, err := storage.GetUserByEmail(ctx, data.Email)
	require.NoError(t, err)
	assert.Equal(t, data.UID, user.UID)
	assert.Equal(t, data.Email, user.Email)
	assert.Equal(t, data.Name, user.Name)
	assert.Equal(t, data.PasswordHash, user.PasswordHash)
	assert.True(t, user.IsActive)

	_, err = storage.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_GetUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	data := GetTestUserData()
	factory.CreateUser(t, data.UID, data.Email, data.Name, data.PasswordHash, data.IsActive)

	ctx := context.Background()

	user, err := storage.GetUser(ctx, data.UID)
	require.NoError(t, err)
	assert.Equal(t, data.Email, user.Email)

	_, err = storage.GetUser(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_UserExists(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	data := GetTestUserData()
	factory.CreateUser(t, data.UID, data.Email, data.Name, data.PasswordHash, data.IsActive)

	ctx := context.Background()

	exists, err := storage.UserExists(ctx, data.Email)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = storage.UserExists(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStorage_UpdateUserProfile(t *testing.T) {
	tests := []struct {
		name         string
		updName      *string
		updPassword  *string
		wantName     string
		wantPassword string
	}{
		{
			name:         "update name only",
			updName:      ptr("New name"),
			wantName:     "New name",
			wantPassword: "hashedpassword",
		},
		{
			name:         "update password only",
			updPassword:  ptr("newhash"),
			wantName:     "Test name",
			wantPassword: "newhash",
		},
		{
			name:         "update both",
			updName:      ptr("New name"),
			updPassword:  ptr("newhash"),
			wantName:     "New name",
			wantPassword: "newhash",
		},
		{
			name:         "no fields keeps everything",
			wantName:     "Test name",
			wantPassword: "hashedpassword",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			data := GetTestUserData()
			factory.CreateUser(t, data.UID, data.Email, data.Name, data.PasswordHash, data.IsActive)

			ctx := context.Background()

			user, err := storage.UpdateUserProfile(ctx, data.UID, tt.updName, tt.updPassword)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, user.Name)
			assert.Equal(t, tt.wantPassword, user.PasswordHash)
			// Email обновлением профиля не меняется.
			assert.Equal(t, data.Email, user.Email)

			stored, err := storage.GetUser(ctx, data.UID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, stored.Name)
			assert.Equal(t, tt.wantPassword, stored.PasswordHash)
		})
	}
}

func TestStorage_UpdateUserProfile_UnknownUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.UpdateUserProfile(context.Background(),
		"00000000-0000-0000-0000-000000000000", ptr("New name"), nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_GetOrCreateToken(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	data := GetTestUserData()
	factory.CreateUser(t, data.UID, data.Email, data.Name, data.PasswordHash, data.IsActive)

	ctx := context.Background()

	first, err := storage.GetOrCreateToken(ctx, data.UID, "first-key")
	require.NoError(t, err)
	assert.Equal(t, "first-key", first)

	// Повторный вход: новый ключ игнорируется, возвращается существующий.
	second, err := storage.GetOrCreateToken(ctx, data.UID, "second-key")
	require.NoError(t, err)
	assert.Equal(t, "first-key", second)

	verify.VerifyTokenCount(t, data.UID, 1)
}

func TestStorage_GetOrCreateToken_Concurrent(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)
	data := GetTestUserData()
	factory.CreateUser(t, data.UID, data.Email, data.Name, data.PasswordHash, data.IsActive)

	ctx := context.Background()
	const logins = 5

	var wg sync.WaitGroup
	keys := make([]string, logins)
	errs := make([]error, logins)
	for i := range logins {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keys[i], errs[i] = storage.GetOrCreateToken(ctx, data.UID, fmt.Sprintf("candidate-key-%d", i))
		}(i)
	}
	wg.Wait()

	// Все одновременные входы получают один и тот же ключ.
	for i := range logins {
		require.NoError(t, errs[i])
		assert.Equal(t, keys[0], keys[i])
	}
	verify.VerifyTokenCount(t, data.UID, 1)
}

func TestStorage_GetUserByTokenKey(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	data := GetTestUserData()
	factory.CreateUser(t, data.UID, data.Email, data.Name, data.PasswordHash, data.IsActive)
	factory.CreateToken(t, "token-key", data.UID)

	ctx := context.Background()

	user, err := storage.GetUserByTokenKey(ctx, "token-key")
	require.NoError(t, err)
	assert.Equal(t, data.UID, user.UID)
	assert.Equal(t, data.Email, user.Email)

	_, err = storage.GetUserByTokenKey(ctx, "unknown-key")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func ptr(s string) *string { return &s }
