package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPostgresStorage(t *testing.T) *PostgresStorage {
	t.Helper()
	dsn := os.Getenv("GUITARS_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("GUITARS_TEST_POSTGRES_URL not set")
	}
	storage, err := NewPostgresStorage(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		for _, key := range []string{"pgtest-a", "pgtest-b", "pgtest-c"} {
			_ = storage.Delete(context.Background(), key)
		}
		assert.NoError(t, storage.Close())
	})
	return storage
}

func TestPostgresStorage(t *testing.T) {
	ctx := context.Background()
	storage := newTestPostgresStorage(t)

	_, err := storage.Read(ctx, "pgtest-a")
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, storage.Write(ctx, "pgtest-a", []byte("Les Paul")))
	require.NoError(t, storage.Write(ctx, "pgtest-a", []byte("Les Paul,SG")))
	require.NoError(t, storage.Write(ctx, "pgtest-c", []byte("c")))
	require.NoError(t, storage.Write(ctx, "pgtest-b", []byte("b")))

	data, err := storage.Read(ctx, "pgtest-a")
	require.NoError(t, err)
	assert.Equal(t, []byte("Les Paul,SG"), data)

	keys, err := storage.List(ctx, "pgtest-")
	require.NoError(t, err)
	assert.Equal(t, []string{"pgtest-c", "pgtest-b", "pgtest-a"}, keys)

	require.NoError(t, storage.Delete(ctx, "pgtest-b"))
	require.NoError(t, storage.Delete(ctx, "pgtest-b"))
	_, err = storage.Read(ctx, "pgtest-b")
	assert.True(t, os.IsNotExist(err))
}
