package pipeline

import (
	"sds/internal/models"
)

// Flatten lifts the entries of a nested object up to the record level.
// When KeepFlattened is set the original object is retained under
// KeepFlattenedKey (the target key when unset).
type Flatten struct {
	TargetKey        string `json:"targetKey"`
	KeepFlattened    bool   `json:"keepFlattened"`
	KeepFlattenedKey string `json:"keepFlattenedKey,omitempty"`
}

func (f *Flatten) Name() string { return "flatten" }

func (f *Flatten) Apply(in []*models.Record) ([]*models.Record, error) {
	out := make([]*models.Record, 0, len(in))
	for _, r := range in {
		v, ok := r.Values[f.TargetKey]
		if !ok {
			return nil, opErrorf(f, "record is missing key %s", f.TargetKey)
		}
		entries := make(map[string]any)
		switch m := v.(type) {
		case map[string]any:
			for k, mv := range m {
				entries[k] = mv
			}
		case map[string]string:
			for k, mv := range m {
				entries[k] = mv
			}
		default:
			return nil, opErrorf(f, "key %s is not an object", f.TargetKey)
		}

		next := r.Clone()
		delete(next.Values, f.TargetKey)
		for k, mv := range entries {
			next.Values[k] = mv
		}
		if f.KeepFlattened {
			key := f.KeepFlattenedKey
			if key == "" {
				key = f.TargetKey
			}
			next.Values[key] = v
		}
		out = append(out, next)
	}
	return out, nil
}
