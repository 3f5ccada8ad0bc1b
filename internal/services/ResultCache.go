package services

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"sds/internal/models"
	"sds/internal/persistence/interfaces"
)

// HotCacheInterface is the in-memory byte cache in front of blob reads.
type HotCacheInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

type ResultCacheInterface interface {
	GetOrCompute(key string, forceUpdate bool, compute func() ([]byte, error)) (*models.CacheEntry, error)
	Fetch(entry *models.CacheEntry) ([]byte, error)
	Entries() []*models.CacheEntry
	RestoreEntries(entries []*models.CacheEntry)
}

// ResultCache content-addresses computed aggregation results. Entries are
// immutable and append-only: a forced recompute records a new generation,
// older entries and their blobs stay. A per-key mutex keeps at most one
// computation in flight per key — duplicate computation would be safe,
// just wasted work.
type ResultCache struct {
	mu      sync.RWMutex
	latest  map[string]*models.CacheEntry
	entries []*models.CacheEntry

	lockMu   sync.Mutex
	keyLocks map[string]*sync.Mutex

	blobs interfaces.BlobStoreInterface
	hot   HotCacheInterface
}

func NewResultCache(blobs interfaces.BlobStoreInterface, hot HotCacheInterface) ResultCacheInterface {
	return &ResultCache{
		latest:   make(map[string]*models.CacheEntry),
		keyLocks: make(map[string]*sync.Mutex),
		blobs:    blobs,
		hot:      hot,
	}
}

func (rc *ResultCache) keyLock(key string) *sync.Mutex {
	rc.lockMu.Lock()
	defer rc.lockMu.Unlock()
	l, ok := rc.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		rc.keyLocks[key] = l
	}
	return l
}

func (rc *ResultCache) GetOrCompute(key string, forceUpdate bool, compute func() ([]byte, error)) (*models.CacheEntry, error) {
	kl := rc.keyLock(key)
	kl.Lock()
	defer kl.Unlock()

	if !forceUpdate {
		rc.mu.RLock()
		entry, ok := rc.latest[key]
		rc.mu.RUnlock()
		if ok {
			return entry, nil
		}
	}

	data, err := compute()
	if err != nil {
		return nil, err
	}
	uri, err := rc.blobs.Put(data)
	if err != nil {
		return nil, err
	}
	entry := &models.CacheEntry{
		ID:         uuid.NewString(),
		Key:        key,
		URI:        uri,
		ComputedAt: time.Now(),
	}

	rc.mu.Lock()
	rc.entries = append(rc.entries, entry)
	rc.latest[key] = entry
	rc.mu.Unlock()

	rc.hot.Set(uri, data)
	return entry, nil
}

func (rc *ResultCache) Fetch(entry *models.CacheEntry) ([]byte, error) {
	if data, ok := rc.hot.Get(entry.URI); ok {
		return data, nil
	}
	data, err := rc.blobs.Get(entry.URI)
	if err != nil {
		return nil, err
	}
	rc.hot.Set(entry.URI, data)
	return data, nil
}

func (rc *ResultCache) Entries() []*models.CacheEntry {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return append([]*models.CacheEntry(nil), rc.entries...)
}

func (rc *ResultCache) RestoreEntries(entries []*models.CacheEntry) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.entries = entries
	rc.latest = make(map[string]*models.CacheEntry, len(entries))
	for _, e := range entries {
		rc.latest[e.Key] = e
	}
}

// NewCacheEntrySource exposes the cache's entry log to the snapshot file
// manager.
func NewCacheEntrySource(rc ResultCacheInterface) interfaces.CacheEntrySourceInterface {
	return rc
}

// CacheKey derives the content address for an aggregation request. The
// field selection is sorted so equivalent selections share a key.
func CacheKey(studyID, versionID string, fieldSelection []string, pipelineDef []byte) string {
	fields := append([]string(nil), fieldSelection...)
	sort.Strings(fields)
	payload, _ := json.Marshal(struct {
		StudyID  string   `json:"studyId"`
		Version  string   `json:"version"`
		Fields   []string `json:"fields"`
		Pipeline string   `json:"pipeline"`
	}{studyID, versionID, fields, string(pipelineDef)})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
