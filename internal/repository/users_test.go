package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/model"
)

func newTestStore(t *testing.T) *UserStore {
	t.Helper()
	return NewUserStore(filepath.Join(t.TempDir(), "users.json"))
}

func TestUserStore_MissingFileIsEmpty(t *testing.T) {
	store := newTestStore(t)

	users, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = store.FindByEmail("nobody@x.test")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserStore_CreateAndFind(t *testing.T) {
	store := newTestStore(t)
	u := model.User{ID: "1", Name: "User", Email: "user@gmail.com", Password: "hash", Role: model.RoleUser, CreatedAt: time.Now().UTC()}

	require.NoError(t, store.Create(u))
	assert.ErrorIs(t, store.Create(model.User{ID: "2", Email: "USER@gmail.com"}), ErrUserExists)

	got, err := store.FindByEmail("User@Gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	got, err = store.FindByID("1")
	require.NoError(t, err)
	assert.Equal(t, "user@gmail.com", got.Email)

	_, err = store.FindByID("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserStore_UpdatePassword(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Create(model.User{ID: "1", Email: "a@x.test", Password: "old"}))

	require.NoError(t, store.UpdatePassword("a@x.test", "new"))
	got, err := store.FindByEmail("a@x.test")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Password)

	assert.ErrorIs(t, store.UpdatePassword("b@x.test", "x"), ErrUserNotFound)
}

func TestUserStore_SeedIfEmpty(t *testing.T) {
	store := newTestStore(t)
	defaults := []model.User{{ID: "1", Email: "admin@gmail.com", Role: model.RoleAdmin}}

	seeded, err := store.SeedIfEmpty(defaults)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = store.SeedIfEmpty([]model.User{{ID: "2", Email: "other@x.test"}})
	require.NoError(t, err)
	assert.False(t, seeded)

	users, err := store.List()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@gmail.com", users[0].Email)
}

func TestUserStore_CorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o600))

	_, err := store.List()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse users file")
}

func TestUserStore_ConcurrentCreates(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Create(model.User{ID: fmt.Sprint(i), Email: fmt.Sprintf("u%d@x.test", i)}))
		}(i)
	}
	wg.Wait()

	users, err := store.List()
	require.NoError(t, err)
	assert.Len(t, users, 20)
}
