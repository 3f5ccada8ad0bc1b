package pipeline

import (
	"strings"

	"github.com/spf13/cast"

	"sds/internal/models"
)

// Group partitions flat records by a tuple of key paths. Buckets appear in
// first-seen order; member order within a bucket follows the input.
type Group struct {
	Keys        []string `json:"keys"`
	SkipUnmatch bool     `json:"skipUnmatch"`
}

func (g *Group) Name() string { return "group" }

func (g *Group) Apply(in []*models.Record) ([]*models.Record, error) {
	buckets := make(map[string]*models.Record)
	var order []string

	for _, r := range in {
		if r.Grouped() {
			return nil, opErrorf(g, "requires ungrouped input")
		}
		parts := make([]string, 0, len(g.Keys))
		keyValues := make(map[string]any, len(g.Keys))
		matched := true
		for _, key := range g.Keys {
			v, ok := r.Lookup(key)
			if !ok {
				if g.SkipUnmatch {
					matched = false
					break
				}
				return nil, opErrorf(g, "record is missing grouping key %s", key)
			}
			keyValues[key] = v
			parts = append(parts, cast.ToString(v))
		}
		if !matched {
			continue
		}
		id := strings.Join(parts, "\x1f")
		bucket, ok := buckets[id]
		if !ok {
			bucket = models.NewRecord(keyValues)
			bucket.Group = []*models.Record{}
			buckets[id] = bucket
			order = append(order, id)
		}
		bucket.Group = append(bucket.Group, r)
	}

	out := make([]*models.Record, 0, len(order))
	for _, id := range order {
		out = append(out, buckets[id])
	}
	return out, nil
}

// Degroup expands a joined flat record back into parallel per-group
// record lists, duplicating the shared keys into each member.
type Degroup struct {
	SharedKeys      []string   `json:"sharedKeys"`
	TargetKeyGroups [][]string `json:"targetKeyGroups"`
}

func (d *Degroup) Name() string { return "degroup" }

func (d *Degroup) Apply(in []*models.Record) ([]*models.Record, error) {
	out := make([]*models.Record, 0, len(in))
	for _, r := range in {
		if r.Grouped() {
			return nil, opErrorf(d, "requires ungrouped input")
		}
		shared := make(map[string]any, len(d.SharedKeys))
		for _, key := range d.SharedKeys {
			v, ok := r.Lookup(key)
			if !ok {
				return nil, opErrorf(d, "record is missing shared key %s", key)
			}
			shared[key] = v
		}
		bucket := models.NewRecord(shared)
		bucket.Group = make([]*models.Record, 0, len(d.TargetKeyGroups))
		for _, keys := range d.TargetKeyGroups {
			values := make(map[string]any, len(shared)+len(keys))
			for k, v := range shared {
				values[k] = v
			}
			for _, key := range keys {
				if v, ok := r.Lookup(key); ok {
					values[key] = v
				}
			}
			bucket.Group = append(bucket.Group, models.NewRecord(values))
		}
		out = append(out, bucket)
	}
	return out, nil
}
