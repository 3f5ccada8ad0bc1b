package pipeline

import (
	"github.com/spf13/cast"

	"sds/internal/models"
)

// Join collapses each group into one flat record: the grouping keys, the
// reserved keys taken from the first member that carries them, and one
// entry per member keyed by the member's KeyField value. Collisions on
// non-reserved keys are last-write-wins in member order.
type Join struct {
	ReservedKeys []string `json:"reservedKeys"`
	KeyField     string   `json:"keyField"`
	ValueField   string   `json:"valueField"`
}

func (j *Join) Name() string { return "join" }

func (j *Join) Apply(in []*models.Record) ([]*models.Record, error) {
	out := make([]*models.Record, 0, len(in))
	for _, r := range in {
		if !r.Grouped() {
			return nil, opErrorf(j, "requires grouped input")
		}
		values := make(map[string]any, len(r.Values)+len(r.Group))
		for k, v := range r.Values {
			values[k] = v
		}
		for _, key := range j.ReservedKeys {
			for _, m := range r.Group {
				if v, ok := m.Lookup(key); ok {
					values[key] = v
					break
				}
			}
		}
		for _, m := range r.Group {
			kv, ok := m.Lookup(j.KeyField)
			if !ok {
				return nil, opErrorf(j, "group member is missing key field %s", j.KeyField)
			}
			vv, ok := m.Lookup(j.ValueField)
			if !ok {
				return nil, opErrorf(j, "group member is missing value field %s", j.ValueField)
			}
			values[cast.ToString(kv)] = vv
		}
		out = append(out, models.NewRecord(values))
	}
	return out, nil
}
