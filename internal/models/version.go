package models

import "time"

// DataVersion is an immutable snapshot boundary. Version must parse as a
// floating-point number and is unique within a study.
type DataVersion struct {
	ID          string    `json:"id"`
	Version     string    `json:"version"`
	Tag         string    `json:"tag,omitempty"`
	ContentID   string    `json:"contentId"`
	CreatedTime time.Time `json:"createdTime"`
}

// CacheEntry maps a content-addressed result key to a stored blob. Entries
// are immutable and append-only; superseded generations coexist.
type CacheEntry struct {
	ID         string    `json:"id"`
	Key        string    `json:"key"`
	URI        string    `json:"uri"`
	ComputedAt time.Time `json:"computedAt"`
}
