package interfaces

import "sds/internal/models"

// CacheEntrySourceInterface lets the snapshot file manager persist and
// restore result-cache entries without depending on the cache itself.
type CacheEntrySourceInterface interface {
	Entries() []*models.CacheEntry
	RestoreEntries(entries []*models.CacheEntry)
}
