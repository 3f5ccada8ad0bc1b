package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Lookup(t *testing.T) {
	r := NewRecord(map[string]any{
		"fieldId": "1",
		"properties": map[string]any{
			"SubjectId": "P01",
			"VisitId":   "V2",
		},
	})

	v, ok := r.Lookup("fieldId")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	v, ok = r.Lookup("properties.SubjectId")
	require.True(t, ok)
	assert.Equal(t, "P01", v)

	_, ok = r.Lookup("properties.Missing")
	assert.False(t, ok)

	_, ok = r.Lookup("fieldId.deeper")
	assert.False(t, ok)
}

func TestRecord_LookupFloat(t *testing.T) {
	r := NewRecord(map[string]any{
		"score": "2.5",
		"count": 3,
		"name":  "abc",
	})

	f, ok := r.LookupFloat("score")
	require.True(t, ok)
	assert.Equal(t, 2.5, f)

	f, ok = r.LookupFloat("count")
	require.True(t, ok)
	assert.Equal(t, 3.0, f)

	_, ok = r.LookupFloat("name")
	assert.False(t, ok)
}

func TestRecord_CloneIsolatesValues(t *testing.T) {
	r := NewRecord(map[string]any{"a": 1})
	c := r.Clone()
	c.Values["a"] = 2

	assert.Equal(t, 1, r.Values["a"])
}

func TestClipRecord(t *testing.T) {
	clip := &DataClip{
		ID:         "c1",
		FieldID:    "1",
		Value:      "10",
		Properties: map[string]string{"SubjectId": "P01"},
	}
	r := ClipRecord(clip)

	v, ok := r.Lookup("value")
	require.True(t, ok)
	assert.Equal(t, "10", v)

	v, ok = r.Lookup("properties.SubjectId")
	require.True(t, ok)
	assert.Equal(t, "P01", v)
}
