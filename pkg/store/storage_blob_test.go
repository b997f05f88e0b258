package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/memblob"
)

func newTestBlobStorage(t *testing.T, prefix string) *BlobStorage {
	t.Helper()
	bucket, err := blob.OpenBucket(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = bucket.Close() })
	return NewBlobStorageFromBucket(bucket, prefix)
}

func TestBlobStorage_WriteRead(t *testing.T) {
	for _, prefix := range []string{"", "guitars", "nested/prefix/"} {
		t.Run("prefix "+prefix, func(t *testing.T) {
			ctx := context.Background()
			storage := newTestBlobStorage(t, prefix)

			require.NoError(t, storage.Write(ctx, "key", []byte("original")))
			require.NoError(t, storage.Write(ctx, "key", []byte("updated")))

			data, err := storage.Read(ctx, "key")
			require.NoError(t, err)
			assert.Equal(t, []byte("updated"), data)
		})
	}
}

func TestBlobStorage_Read_NotFound(t *testing.T) {
	storage := newTestBlobStorage(t, "")

	_, err := storage.Read(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestBlobStorage_ListWithPrefix(t *testing.T) {
	ctx := context.Background()
	storage := newTestBlobStorage(t, "bucket-prefix/")

	for _, key := range []string{"guitars-a.txt", "guitars-b.txt", "other.txt"} {
		require.NoError(t, storage.Write(ctx, key, []byte(key)))
	}

	keys, err := storage.List(ctx, "guitars-")
	require.NoError(t, err)
	assert.Equal(t, []string{"guitars-b.txt", "guitars-a.txt"}, keys)
}

func TestBlobStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := newTestBlobStorage(t, "my-prefix")

	require.NoError(t, storage.Write(ctx, "key", []byte("data")))
	require.NoError(t, storage.Delete(ctx, "key"))
	// idempotent
	require.NoError(t, storage.Delete(ctx, "key"))

	_, err := storage.Read(ctx, "key")
	assert.True(t, os.IsNotExist(err))
}
