package store

import (
	"context"
	"logicode/internal/platform/database"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// kvFactory returns a fresh, empty KV for one test, or skips.
type kvFactory func(t *testing.T) KV

func backends() map[string]kvFactory {
	return map[string]kvFactory{
		"memory": func(t *testing.T) KV { return NewMemoryKV() },
		"sqlite": func(t *testing.T) KV {
			db, err := database.OpenSQLite(context.Background(), ":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })
			kv := NewSQLKV(db, DialectSQLite, "test-"+uuid.NewString())
			require.NoError(t, kv.Migrate(context.Background()))
			return kv
		},
		"postgres": func(t *testing.T) KV {
			dsn := os.Getenv("LOGICODE_TEST_POSTGRES_DSN")
			if dsn == "" {
				t.Skip("LOGICODE_TEST_POSTGRES_DSN not set")
			}
			db, err := database.OpenPostgres(context.Background(), dsn)
			require.NoError(t, err)
			t.Cleanup(func() { db.Close() })
			kv := NewSQLKV(db, DialectPostgres, "test-"+uuid.NewString())
			require.NoError(t, kv.Migrate(context.Background()))
			t.Cleanup(func() { kv.Clear(context.Background()) })
			return kv
		},
		"redis": func(t *testing.T) KV {
			addr := os.Getenv("LOGICODE_TEST_REDIS_ADDR")
			if addr == "" {
				t.Skip("LOGICODE_TEST_REDIS_ADDR not set")
			}
			rdb, err := database.ConnectRedis(context.Background(), database.RedisOptions{Addr: addr})
			require.NoError(t, err)
			kv := NewRedisKV(rdb, "test-"+uuid.NewString())
			t.Cleanup(func() {
				kv.Clear(context.Background())
				rdb.Close()
			})
			return kv
		},
	}
}

func TestKVConformance(t *testing.T) {
	for name, newKV := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := newKV(t)

			_, found, err := kv.Get(ctx, KeyUsers)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, kv.Set(ctx, KeyUsers, []byte(`[{"id":"1"}]`)))
			require.NoError(t, kv.Set(ctx, KeyUsers, []byte(`[{"id":"2"}]`)))
			got, found, err := kv.Get(ctx, KeyUsers)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `[{"id":"2"}]`, string(got))

			require.NoError(t, kv.Set(ctx, KeyAnswers, []byte(`[]`)))
			require.NoError(t, kv.Delete(ctx, KeyUsers))
			_, found, err = kv.Get(ctx, KeyUsers)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, kv.Set(ctx, KeyQuestions, []byte(`[]`)))
			require.NoError(t, kv.Clear(ctx))
			for _, key := range AllKeys {
				_, found, err := kv.Get(ctx, key)
				require.NoError(t, err)
				assert.False(t, found, key)
			}
		})
	}
}

func TestSQLKVNamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	a := NewSQLKV(db, DialectSQLite, "a")
	b := NewSQLKV(db, DialectSQLite, "b")
	require.NoError(t, a.Migrate(ctx))

	require.NoError(t, a.Set(ctx, KeyUsers, []byte(`[]`)))
	require.NoError(t, b.Clear(ctx))

	_, found, err := a.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.True(t, found)
	_, found, err = b.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisMatchPatternEscapesNamespace(t *testing.T) {
	cases := map[string]string{
		"logicode": `logicode:*`,
		"team*":    `team\*:*`,
		"a?[b]":    `a\?\[b\]:*`,
		`back\`:    `back\\:*`,
	}
	for ns, want := range cases {
		assert.Equal(t, want, NewRedisKV(nil, ns).matchPattern(), ns)
	}
}

func TestRedisClearKeepsLookalikeNamespaces(t *testing.T) {
	addr := os.Getenv("LOGICODE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LOGICODE_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := database.ConnectRedis(ctx, database.RedisOptions{Addr: addr})
	require.NoError(t, err)
	defer rdb.Close()

	id := uuid.NewString()
	wild := NewRedisKV(rdb, "test-"+id+"*")
	other := NewRedisKV(rdb, "test-"+id+"-other")
	defer other.Clear(ctx)

	require.NoError(t, other.Set(ctx, KeyUsers, []byte(`[]`)))
	require.NoError(t, wild.Set(ctx, KeyUsers, []byte(`[]`)))
	require.NoError(t, wild.Clear(ctx))

	_, found, err := wild.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = other.Get(ctx, KeyUsers)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestRebindPostgres(t *testing.T) {
	kv := NewSQLKV(nil, DialectPostgres, "ns")
	assert.Equal(t, "a = $1 AND b = $2", kv.rebind("a = ? AND b = ?"))

	kv = NewSQLKV(nil, DialectSQLite, "ns")
	assert.Equal(t, "a = ? AND b = ?", kv.rebind("a = ? AND b = ?"))
}

func TestMemoryKVCopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	in := []byte(`"x"`)
	require.NoError(t, kv.Set(ctx, KeyCurrentUser, in))
	in[1] = 'y'

	out, _, _ := kv.Get(ctx, KeyCurrentUser)
	assert.Equal(t, `"x"`, string(out))
}
