package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sds/internal/structures"
	"sds/internal/testutil"
)

func newTestBlobStore(t *testing.T) *FSBlobStore {
	t.Helper()
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(c.Close)

	conf := &structures.Config{
		Store: structures.StoreConfig{BlobDir: t.TempDir()},
	}
	return NewFSBlobStore(conf, c, &testutil.MockLogger{}).(*FSBlobStore)
}

func TestFSBlobStore_PutGetDelete(t *testing.T) {
	bs := newTestBlobStore(t)

	uri, err := bs.Put([]byte("payload"))
	require.NoError(t, err)
	require.Len(t, uri, 64)

	data, err := bs.Get(uri)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	require.NoError(t, bs.Delete(uri))
	_, err = bs.Get(uri)
	assert.Error(t, err)
}

func TestFSBlobStore_ContentAddressDedup(t *testing.T) {
	bs := newTestBlobStore(t)

	first, err := bs.Put([]byte("same"))
	require.NoError(t, err)
	second, err := bs.Put([]byte("same"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := bs.Put([]byte("different"))
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestFSBlobStore_CompressedAtRest(t *testing.T) {
	bs := newTestBlobStore(t)

	uri, err := bs.Put([]byte("payload"))
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(bs.dir, uri[:2], uri))
	require.NoError(t, err)
	assert.NotEqual(t, []byte("payload"), raw)
}

func TestFSBlobStore_InvalidURI(t *testing.T) {
	bs := newTestBlobStore(t)
	_, err := bs.Get("ab")
	assert.Error(t, err)
	assert.Error(t, bs.Delete(""))
}
