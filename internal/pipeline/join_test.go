package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sds/internal/models"
)

func TestJoin_PivotsMembersByKeyField(t *testing.T) {
	out, err := Run(subjectClips(), []Operator{
		&Group{Keys: []string{"properties.SubjectId"}},
		&Join{KeyField: "fieldId", ValueField: "value"},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "P01", out[0].Values["properties.SubjectId"])
	assert.Equal(t, "10", out[0].Values["1"])
	assert.Equal(t, "11", out[0].Values["2"])
	assert.Equal(t, "20", out[1].Values["1"])
	assert.Equal(t, "21", out[1].Values["2"])
	assert.False(t, out[0].Grouped())
}

func TestJoin_ReservedKeysFromFirstCarrier(t *testing.T) {
	g := rec(map[string]any{"subject": "P01"})
	g.Group = []*models.Record{
		rec(map[string]any{"fieldId": "1", "value": "10"}),
		rec(map[string]any{"fieldId": "2", "value": "11", "unit": "kg"}),
	}
	j := &Join{ReservedKeys: []string{"unit"}, KeyField: "fieldId", ValueField: "value"}
	out, err := j.Apply([]*models.Record{g})
	require.NoError(t, err)
	assert.Equal(t, "kg", out[0].Values["unit"])
}

func TestJoin_CollisionLastWriteWins(t *testing.T) {
	g := rec(map[string]any{"subject": "P01"})
	g.Group = []*models.Record{
		rec(map[string]any{"fieldId": "1", "value": "old"}),
		rec(map[string]any{"fieldId": "1", "value": "new"}),
	}
	j := &Join{KeyField: "fieldId", ValueField: "value"}
	out, err := j.Apply([]*models.Record{g})
	require.NoError(t, err)
	assert.Equal(t, "new", out[0].Values["1"])
}

func TestJoin_MissingFieldsError(t *testing.T) {
	g := rec(map[string]any{"subject": "P01"})
	g.Group = []*models.Record{rec(map[string]any{"value": "10"})}
	j := &Join{KeyField: "fieldId", ValueField: "value"}
	_, err := j.Apply([]*models.Record{g})
	assert.Error(t, err)

	g2 := rec(map[string]any{"subject": "P01"})
	g2.Group = []*models.Record{rec(map[string]any{"fieldId": "1"})}
	_, err = j.Apply([]*models.Record{g2})
	assert.Error(t, err)
}

func TestJoin_RequiresGroupedInput(t *testing.T) {
	j := &Join{KeyField: "fieldId", ValueField: "value"}
	_, err := j.Apply(subjectClips())
	assert.Error(t, err)
}

// Group, Join, then Degroup restores the original per-record pairs.
func TestJoinDegroup_RoundTrip(t *testing.T) {
	out, err := Run(subjectClips(), []Operator{
		&Group{Keys: []string{"properties.SubjectId"}},
		&Join{KeyField: "fieldId", ValueField: "value"},
		&Degroup{
			SharedKeys:      []string{"properties.SubjectId"},
			TargetKeyGroups: [][]string{{"1"}, {"2"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	p01 := out[0]
	require.Len(t, p01.Group, 2)
	assert.Equal(t, "P01", p01.Group[0].Values["properties.SubjectId"])
	assert.Equal(t, "10", p01.Group[0].Values["1"])
	assert.Equal(t, "11", p01.Group[1].Values["2"])

	p02 := out[1]
	assert.Equal(t, "20", p02.Group[0].Values["1"])
	assert.Equal(t, "21", p02.Group[1].Values["2"])
}
