package pipeline

import (
	"sds/internal/models"
)

// Count collapses each group into a flat record carrying the grouping
// keys plus the member count.
type Count struct{}

func (c *Count) Name() string { return "count" }

func (c *Count) Apply(in []*models.Record) ([]*models.Record, error) {
	out := make([]*models.Record, 0, len(in))
	for _, r := range in {
		if !r.Grouped() {
			return nil, opErrorf(c, "requires grouped input")
		}
		values := make(map[string]any, len(r.Values)+1)
		for k, v := range r.Values {
			values[k] = v
		}
		values["count"] = len(r.Group)
		out = append(out, models.NewRecord(values))
	}
	return out, nil
}
