package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/loginapi/internal/model"
)

func seeded(t *testing.T, values map[string]string) *MemoryStorage {
	t.Helper()
	s := NewMemoryStorage()
	require.NoError(t, s.Set(context.Background(), values))
	return s
}

func TestInitRestoresSession(t *testing.T) {
	storage := seeded(t, map[string]string{
		"token": "tok",
		"user":  `{"id":"u-1","email":"ada@example.com","name":"Ada"}`,
	})
	store := NewStore(storage)
	assert.True(t, store.Snapshot().Loading)

	require.NoError(t, store.Init(context.Background()))

	snap := store.Snapshot()
	assert.False(t, snap.Loading)
	assert.True(t, snap.Authenticated)
	assert.Equal(t, ViewDashboard, snap.View)
	assert.Equal(t, "tok", store.Token())
	require.NotNil(t, snap.User)
	assert.Equal(t, "ada@example.com", snap.User.Email)
}

func TestInitClearsUnusableSession(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"corrupted user", map[string]string{"token": "tok", "user": `{not json`}},
		{"token only", map[string]string{"token": "tok"}},
		{"user only", map[string]string{"user": `{"id":"u-1","email":"a@example.com"}`}},
		{"null user", map[string]string{"token": "tok", "user": `null`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			storage := seeded(t, tt.values)
			store := NewStore(storage)

			require.NoError(t, store.Init(ctx))

			assert.False(t, store.IsAuthenticated())
			assert.False(t, store.Snapshot().Loading)
			assert.Equal(t, ViewLogin, store.Snapshot().View)
			for _, key := range []string{"token", "user"} {
				_, ok, err := storage.Get(ctx, key)
				require.NoError(t, err)
				assert.False(t, ok, key)
			}
		})
	}
}

func TestSetAuthAndLogout(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := NewStore(storage)
	require.NoError(t, store.Init(ctx))

	var seen []Snapshot
	unsubscribe := store.Subscribe(func(s Snapshot) { seen = append(seen, s) })

	require.NoError(t, store.SetAuth(ctx, "tok", model.PublicUser{ID: "u-1", Email: "ada@example.com"}))
	assert.True(t, store.IsAuthenticated())
	require.Len(t, seen, 1)
	assert.True(t, seen[0].Authenticated)

	raw, ok, err := storage.Get(ctx, "user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, raw, `"u-1"`)

	require.NoError(t, store.Logout(ctx))
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, "", store.Token())
	require.Len(t, seen, 2)

	unsubscribe()
	store.Navigate(ViewRegister)
	assert.Len(t, seen, 2)
	assert.Equal(t, ViewRegister, store.Snapshot().View)
}

func TestAuthWritesFailWithoutTouchingMemory(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := NewStore(storage)
	require.NoError(t, store.Init(ctx))

	storage.FailWith(assert.AnError)
	err := store.SetAuth(ctx, "tok", model.PublicUser{ID: "u-1"})
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, store.IsAuthenticated())

	storage.FailWith(nil)
	require.NoError(t, store.SetAuth(ctx, "tok", model.PublicUser{ID: "u-1"}))

	storage.FailWith(assert.AnError)
	assert.Error(t, store.Logout(ctx))
	assert.True(t, store.IsAuthenticated())
}
