package models

import (
	"strings"

	"github.com/spf13/cast"
)

// Record is the intermediate shape flowing through the aggregation
// pipeline: either a single flat record (Group == nil) or a group whose
// Values hold the grouping keys and whose Group holds the members.
type Record struct {
	Values map[string]any `json:"values"`
	Group  []*Record      `json:"group,omitempty"`
}

func NewRecord(values map[string]any) *Record {
	if values == nil {
		values = make(map[string]any)
	}
	return &Record{Values: values}
}

func (r *Record) Grouped() bool {
	return r.Group != nil
}

// Clone copies the record one level deep: the Values map is fresh, nested
// values and group members are shared. Operators clone before mutating so
// earlier pipeline stages keep their view.
func (r *Record) Clone() *Record {
	values := make(map[string]any, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	out := &Record{Values: values}
	if r.Group != nil {
		out.Group = append([]*Record(nil), r.Group...)
	}
	return out
}

// Lookup resolves a dotted path (e.g. "properties.SubjectId") against the
// record's values, descending through nested maps.
func (r *Record) Lookup(path string) (any, bool) {
	var cur any = r.Values
	for _, part := range strings.Split(path, ".") {
		switch m := cur.(type) {
		case map[string]any:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		case map[string]string:
			v, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	return cur, true
}

// LookupFloat resolves a dotted path to a numeric value. The second return
// is false when the path is missing or the value is not numeric.
func (r *Record) LookupFloat(path string) (float64, bool) {
	v, ok := r.Lookup(path)
	if !ok {
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ClipRecord converts a clip into the flat record shape the pipeline
// consumes.
func ClipRecord(clip *DataClip) *Record {
	props := make(map[string]any, len(clip.Properties))
	for k, v := range clip.Properties {
		props[k] = v
	}
	return NewRecord(map[string]any{
		"id":          clip.ID,
		"fieldId":     clip.FieldID,
		"value":       clip.Value,
		"properties":  props,
		"dataVersion": clip.DataVersion,
	})
}
