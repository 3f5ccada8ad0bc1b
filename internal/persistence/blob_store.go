package persistence

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sds/internal/persistence/interfaces"
	"sds/internal/providers"
	"sds/internal/structures"
)

// FSBlobStore is a content-addressed on-disk blob store. The uri is the
// hex digest of the uncompressed payload, so identical payloads share a
// file; bytes at rest are zstd-compressed.
type FSBlobStore struct {
	mu         sync.Mutex
	dir        string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFSBlobStore(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) interfaces.BlobStoreInterface {
	return &FSBlobStore{
		dir:        conf.Store.BlobDir,
		compressor: compressor,
		logger:     logger,
	}
}

func (bs *FSBlobStore) path(uri string) string {
	return filepath.Join(bs.dir, uri[:2], uri)
}

func (bs *FSBlobStore) Put(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	uri := hex.EncodeToString(sum[:])

	bs.mu.Lock()
	defer bs.mu.Unlock()

	target := bs.path(uri)
	if _, err := os.Stat(target); err == nil {
		return uri, nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	compressed, err := bs.compressor.Compress(data)
	if err != nil {
		return "", err
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", err
	}
	bs.logger.Debugf(providers.TypeStore, "Stored blob %s (%d bytes)", uri, len(data))
	return uri, nil
}

func (bs *FSBlobStore) Get(uri string) ([]byte, error) {
	if len(uri) < 3 {
		return nil, fmt.Errorf("invalid blob uri %q", uri)
	}
	bs.mu.Lock()
	defer bs.mu.Unlock()

	data, err := os.ReadFile(bs.path(uri))
	if err != nil {
		return nil, err
	}
	return bs.compressor.Decompress(data)
}

func (bs *FSBlobStore) Delete(uri string) error {
	if len(uri) < 3 {
		return fmt.Errorf("invalid blob uri %q", uri)
	}
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return os.Remove(bs.path(uri))
}
