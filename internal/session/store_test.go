package session

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yakirz/sales-gateway/pkg/redis"
)

func setupStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	adapter, err := redis.NewRedisAdapter(t.Name()+"-"+mr.Addr(), "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, NewStore(adapter, time.Minute)
}

func TestStore_CreateAndGet(t *testing.T) {
	_, store := setupStore(t)

	id, err := store.Create(Session{AdminID: 7, Email: "boss@example.com", Permissions: 3})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.AdminID)
	assert.Equal(t, "boss@example.com", got.Email)
	assert.Equal(t, 3, got.Permissions)
}

func TestStore_DeleteRevokes(t *testing.T) {
	_, store := setupStore(t)

	id, err := store.Create(Session{AdminID: 1, Email: "a@b.com", Permissions: 1})
	require.NoError(t, err)

	require.NoError(t, store.Delete(id))

	_, err = store.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ExpiredSession(t *testing.T) {
	mr, store := setupStore(t)

	id, err := store.Create(Session{AdminID: 2, Email: "a@b.com", Permissions: 2})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UnknownID(t *testing.T) {
	_, store := setupStore(t)

	_, err := store.Get("not-a-session")
	assert.ErrorIs(t, err, ErrNotFound)
}
