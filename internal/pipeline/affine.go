package pipeline

import (
	"sort"

	"github.com/spf13/cast"

	"sds/internal/models"
	"sds/internal/verifier"
)

// Affine projects each record: RemovedKeys are dropped, then each added
// key is computed from its rule AST — a value node yields the literal, a
// variable node a dotted-path lookup into the record. A variable whose
// path resolves to nothing leaves the key unset.
type Affine struct {
	RemovedKeys   []string                  `json:"removedKeys"`
	AddedKeyRules map[string]*verifier.Node `json:"addedKeyRules"`
}

func (a *Affine) Name() string { return "affine" }

func (a *Affine) Apply(in []*models.Record) ([]*models.Record, error) {
	added := make([]string, 0, len(a.AddedKeyRules))
	for key := range a.AddedKeyRules {
		added = append(added, key)
	}
	sort.Strings(added)

	out := make([]*models.Record, 0, len(in))
	for _, r := range in {
		next := r.Clone()
		for _, key := range a.RemovedKeys {
			delete(next.Values, key)
		}
		for _, key := range added {
			rule := a.AddedKeyRules[key]
			if rule == nil {
				continue
			}
			switch rule.Kind {
			case verifier.KindValue:
				next.Values[key] = rule.Value
			case verifier.KindVariable:
				if v, ok := r.Lookup(cast.ToString(rule.Value)); ok {
					next.Values[key] = v
				}
			default:
				return nil, opErrorf(a, "unsupported rule kind %q for key %s", rule.Kind, key)
			}
		}
		out = append(out, next)
	}
	return out, nil
}
