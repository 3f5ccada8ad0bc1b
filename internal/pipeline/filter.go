package pipeline

import (
	"sds/internal/models"
	"sds/internal/verifier"
)

// Filter retains records for which the condition group passes. The record
// under test resolves variables by dotted path; self is the record's
// "value" entry when present.
type Filter struct {
	Condition verifier.Group `json:"condition"`
}

func (f *Filter) Name() string { return "filter" }

func (f *Filter) Apply(in []*models.Record) ([]*models.Record, error) {
	out := make([]*models.Record, 0, len(in))
	for _, r := range in {
		ctx := verifier.Context{
			Self:    r.Values["value"],
			Resolve: r.Lookup,
		}
		if verifier.EvaluateGroup(f.Condition, ctx) {
			out = append(out, r)
		}
	}
	return out, nil
}
