package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sds/internal/models"
)

func rec(values map[string]any) *models.Record {
	return models.NewRecord(values)
}

func subjectClips() []*models.Record {
	return []*models.Record{
		rec(map[string]any{"fieldId": "1", "value": "10", "properties": map[string]any{"SubjectId": "P01"}}),
		rec(map[string]any{"fieldId": "2", "value": "11", "properties": map[string]any{"SubjectId": "P01"}}),
		rec(map[string]any{"fieldId": "1", "value": "20", "properties": map[string]any{"SubjectId": "P02"}}),
		rec(map[string]any{"fieldId": "2", "value": "21", "properties": map[string]any{"SubjectId": "P02"}}),
	}
}

func TestRun_LeftFoldOrder(t *testing.T) {
	out, err := Run(subjectClips(), []Operator{
		&Group{Keys: []string{"properties.SubjectId"}},
		&Count{},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 2, out[0].Values["count"])
	assert.Equal(t, 2, out[1].Values["count"])
}

func TestRun_AbortsOnFirstFailure(t *testing.T) {
	_, err := Run(subjectClips(), []Operator{
		&Count{}, // count on ungrouped input fails
		&Group{Keys: []string{"fieldId"}},
	})
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "count", perr.Op)
}

func TestRun_EmptyChainIsIdentity(t *testing.T) {
	in := subjectClips()
	out, err := Run(in, nil)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDescribe_IsDeterministic(t *testing.T) {
	ops := []Operator{
		&Group{Keys: []string{"fieldId"}, SkipUnmatch: true},
		&Count{},
	}
	a, err := Describe(ops)
	require.NoError(t, err)
	b, err := Describe(ops)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := Describe([]Operator{&Count{}})
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}
