package pipeline

import (
	"sds/internal/models"
)

// LeaveOne scores every group member by a dotted-path numeric lookup and
// keeps only the extremum member — the maximum when IsDescend is set, the
// minimum otherwise. Ties keep the earliest member. The survivor is
// emitted flat, merged over the grouping keys.
type LeaveOne struct {
	ScoreKey  string `json:"scoreKey"`
	IsDescend bool   `json:"isDescend"`
}

func (l *LeaveOne) Name() string { return "leaveOne" }

func (l *LeaveOne) Apply(in []*models.Record) ([]*models.Record, error) {
	out := make([]*models.Record, 0, len(in))
	for _, r := range in {
		if !r.Grouped() {
			return nil, opErrorf(l, "requires grouped input")
		}
		if len(r.Group) == 0 {
			continue
		}
		var best *models.Record
		var bestScore float64
		for _, m := range r.Group {
			score, ok := m.LookupFloat(l.ScoreKey)
			if !ok {
				return nil, opErrorf(l, "member score at %s is not numeric", l.ScoreKey)
			}
			if best == nil ||
				(l.IsDescend && score > bestScore) ||
				(!l.IsDescend && score < bestScore) {
				best = m
				bestScore = score
			}
		}
		values := make(map[string]any, len(r.Values)+len(best.Values))
		for k, v := range r.Values {
			values[k] = v
		}
		for k, v := range best.Values {
			values[k] = v
		}
		out = append(out, models.NewRecord(values))
	}
	return out, nil
}
