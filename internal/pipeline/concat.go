package pipeline

import (
	"sds/internal/models"
)

// Concat collapses each group into one flat record, merging the listed
// keys into arrays across the members. Arrays stay index-aligned across
// keys: a member missing a key contributes nil at its position.
type Concat struct {
	Keys []string `json:"keys"`
}

func (c *Concat) Name() string { return "concat" }

func (c *Concat) Apply(in []*models.Record) ([]*models.Record, error) {
	out := make([]*models.Record, 0, len(in))
	for _, r := range in {
		if !r.Grouped() {
			return nil, opErrorf(c, "requires grouped input")
		}
		values := make(map[string]any, len(r.Values)+len(c.Keys))
		for k, v := range r.Values {
			values[k] = v
		}
		for _, key := range c.Keys {
			arr := make([]any, 0, len(r.Group))
			for _, m := range r.Group {
				v, ok := m.Lookup(key)
				if !ok {
					v = nil
				}
				arr = append(arr, v)
			}
			values[key] = arr
		}
		out = append(out, models.NewRecord(values))
	}
	return out, nil
}

const (
	MatchExact        = "exact"
	MatchCombinations = "combinations"
)

// Deconcat expands array-valued keys back into one record per element.
// Exact mode zips arrays by index and requires equal lengths; combinations
// mode emits the cross product, with the last listed key varying fastest
// (the ordering inside combinations mode is implementation-defined).
type Deconcat struct {
	Keys      []string `json:"keys"`
	MatchMode string   `json:"matchMode"`
}

func (d *Deconcat) Name() string { return "deconcat" }

func (d *Deconcat) Apply(in []*models.Record) ([]*models.Record, error) {
	var out []*models.Record
	for _, r := range in {
		if r.Grouped() {
			return nil, opErrorf(d, "requires ungrouped input")
		}
		arrays := make([][]any, 0, len(d.Keys))
		for _, key := range d.Keys {
			v, ok := r.Lookup(key)
			if !ok {
				return nil, opErrorf(d, "record is missing key %s", key)
			}
			arr, ok := v.([]any)
			if !ok {
				return nil, opErrorf(d, "key %s is not an array", key)
			}
			arrays = append(arrays, arr)
		}

		switch d.MatchMode {
		case MatchExact:
			n := 0
			if len(arrays) > 0 {
				n = len(arrays[0])
			}
			for _, arr := range arrays {
				if len(arr) != n {
					return nil, opErrorf(d, "exact mode requires equal-length arrays")
				}
			}
			for i := 0; i < n; i++ {
				values := baseValues(r, d.Keys)
				for k, key := range d.Keys {
					values[key] = arrays[k][i]
				}
				out = append(out, models.NewRecord(values))
			}
		case MatchCombinations:
			idx := make([]int, len(arrays))
			for {
				values := baseValues(r, d.Keys)
				for k, key := range d.Keys {
					if len(arrays[k]) == 0 {
						values = nil
						break
					}
					values[key] = arrays[k][idx[k]]
				}
				if values == nil {
					break
				}
				out = append(out, models.NewRecord(values))
				// odometer increment, rightmost key fastest
				k := len(idx) - 1
				for k >= 0 {
					idx[k]++
					if idx[k] < len(arrays[k]) {
						break
					}
					idx[k] = 0
					k--
				}
				if k < 0 {
					break
				}
			}
		default:
			return nil, opErrorf(d, "unknown match mode %q", d.MatchMode)
		}
	}
	return out, nil
}

func baseValues(r *models.Record, exclude []string) map[string]any {
	values := make(map[string]any, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	for _, key := range exclude {
		delete(values, key)
	}
	return values
}
