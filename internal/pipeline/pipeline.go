// Package pipeline implements the chained aggregation operators that
// transform permission-filtered clip records into study-specific shapes.
// Operators run as a left fold over the previous stage's output; the
// first operator failure aborts the whole chain.
package pipeline

import (
	"fmt"

	json "github.com/goccy/go-json"

	"sds/internal/models"
)

// Operator is one named transform stage.
type Operator interface {
	Name() string
	Apply(in []*models.Record) ([]*models.Record, error)
}

// Error identifies the failing operator and the reason; no partial results
// survive a failure.
type Error struct {
	Op     string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline operator %s: %s", e.Op, e.Reason)
}

func opErrorf(op Operator, format string, args ...any) *Error {
	return &Error{Op: op.Name(), Reason: fmt.Sprintf(format, args...)}
}

// Run executes the operator chain in order.
func Run(records []*models.Record, ops []Operator) ([]*models.Record, error) {
	out := records
	for _, op := range ops {
		var err error
		out, err = op.Apply(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Describe serializes the chain definition canonically; the result cache
// hashes it as part of the content address.
func Describe(ops []Operator) ([]byte, error) {
	type envelope struct {
		Op   string   `json:"op"`
		Spec Operator `json:"spec"`
	}
	envs := make([]envelope, 0, len(ops))
	for _, op := range ops {
		envs = append(envs, envelope{Op: op.Name(), Spec: op})
	}
	return json.Marshal(envs)
}
