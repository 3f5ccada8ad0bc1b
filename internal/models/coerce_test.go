package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFileTypes = []string{".csv", ".json", ".png"}

func fieldOf(dt DataType) *FieldDef {
	return &FieldDef{FieldID: "1", FieldName: "f", DataType: dt}
}

func TestCoerce_Integer(t *testing.T) {
	v, err := Coerce(fieldOf(TypeInteger), "10", testFileTypes)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)

	_, err = Coerce(fieldOf(TypeInteger), "random", testFileTypes)
	assert.EqualError(t, err, "Cannot parse as integer.")

	_, err = Coerce(fieldOf(TypeInteger), "1.5", testFileTypes)
	assert.EqualError(t, err, "Cannot parse as integer.")
}

func TestCoerce_Decimal(t *testing.T) {
	v, err := Coerce(fieldOf(TypeDecimal), "3.25", testFileTypes)
	require.NoError(t, err)
	assert.Equal(t, 3.25, v)

	_, err = Coerce(fieldOf(TypeDecimal), "abc", testFileTypes)
	assert.EqualError(t, err, "Cannot parse as decimal.")

	_, err = Coerce(fieldOf(TypeDecimal), "Inf", testFileTypes)
	assert.EqualError(t, err, "Cannot parse as decimal.")
}

func TestCoerce_Boolean(t *testing.T) {
	v, err := Coerce(fieldOf(TypeBoolean), "True", testFileTypes)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = Coerce(fieldOf(TypeBoolean), "false", testFileTypes)
	require.NoError(t, err)
	assert.Equal(t, false, v)

	_, err = Coerce(fieldOf(TypeBoolean), "1", testFileTypes)
	assert.EqualError(t, err, "Cannot parse as boolean.")
}

func TestCoerce_DateTime(t *testing.T) {
	v, err := Coerce(fieldOf(TypeDateTime), "2023-04-05T10:20:30Z", testFileTypes)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 4, 5, 10, 20, 30, 0, time.UTC), v)

	// Offset-less and date-only ISO forms parse too, in UTC.
	v, err = Coerce(fieldOf(TypeDateTime), "2021-01-01T10:00:00", testFileTypes)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC), v)

	v, err = Coerce(fieldOf(TypeDateTime), "2021-01-01", testFileTypes)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), v)

	_, err = Coerce(fieldOf(TypeDateTime), "05/04/2023", testFileTypes)
	assert.EqualError(t, err, "Cannot parse as date. Value for date type must be in ISO format.")
}

func TestCoerce_Categorical(t *testing.T) {
	f := fieldOf(TypeCategorical)
	f.CategoricalOptions = []string{"1", "2", "3"}

	v, err := Coerce(f, "2", testFileTypes)
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	_, err = Coerce(f, "4", testFileTypes)
	assert.EqualError(t, err, "Cannot parse as categorical, value not in value list.")
}

func TestCoerce_File(t *testing.T) {
	v, err := Coerce(fieldOf(TypeFile), "abc123/scan.png", testFileTypes)
	require.NoError(t, err)
	assert.Equal(t, "abc123/scan.png", v)

	_, err = Coerce(fieldOf(TypeFile), "abc123/scan.exe", testFileTypes)
	assert.EqualError(t, err, "File type not supported.")
}

func TestCoerce_JSON(t *testing.T) {
	v, err := Coerce(fieldOf(TypeJSON), `{"a":[1,2]}`, testFileTypes)
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2]}`, v)

	_, err = Coerce(fieldOf(TypeJSON), `{"a":`, testFileTypes)
	assert.EqualError(t, err, "Cannot parse as json.")
}

// A value accepted at upload time re-parses identically on read.
func TestCoerce_Roundtrip(t *testing.T) {
	cases := []struct {
		dt  DataType
		raw string
	}{
		{TypeInteger, "42"},
		{TypeDecimal, "2.75"},
		{TypeBoolean, "true"},
		{TypeDateTime, "2021-12-31T23:59:59Z"},
		{TypeJSON, `[1,2,3]`},
	}
	for _, tc := range cases {
		first, err := Coerce(fieldOf(tc.dt), tc.raw, testFileTypes)
		require.NoError(t, err, tc.raw)
		second, err := Coerce(fieldOf(tc.dt), tc.raw, testFileTypes)
		require.NoError(t, err, tc.raw)
		assert.Equal(t, first, second, tc.raw)
	}
}
