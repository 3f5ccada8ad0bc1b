package models

import (
	"errors"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

var (
	ErrParseInteger     = errors.New("Cannot parse as integer.")
	ErrParseDecimal     = errors.New("Cannot parse as decimal.")
	ErrParseBoolean     = errors.New("Cannot parse as boolean.")
	ErrParseDate        = errors.New("Cannot parse as date. Value for date type must be in ISO format.")
	ErrParseCategorical = errors.New("Cannot parse as categorical, value not in value list.")
	ErrFileType         = errors.New("File type not supported.")
	ErrParseJSON        = errors.New("Cannot parse as json.")
)

// ISO-8601 forms accepted for DATETIME values, tried in order: full
// RFC 3339, offset-less date-time, bare date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Coerce parses a raw string into the typed value the field's data type
// prescribes. It is pure: the same inputs always yield the same result,
// so values stored as canonical strings re-parse identically on read.
func Coerce(f *FieldDef, raw string, supportedFileTypes []string) (any, error) {
	switch f.DataType {
	case TypeInteger:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, ErrParseInteger
		}
		return v, nil
	case TypeDecimal:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, ErrParseDecimal
		}
		return v, nil
	case TypeBoolean:
		if strings.EqualFold(raw, "true") {
			return true, nil
		}
		if strings.EqualFold(raw, "false") {
			return false, nil
		}
		return nil, ErrParseBoolean
	case TypeDateTime:
		for _, layout := range dateLayouts {
			if v, err := time.Parse(layout, raw); err == nil {
				return v, nil
			}
		}
		return nil, ErrParseDate
	case TypeCategorical:
		if !slices.Contains(f.CategoricalOptions, raw) {
			return nil, ErrParseCategorical
		}
		return raw, nil
	case TypeFile:
		ext := strings.ToLower(filepath.Ext(raw))
		if !slices.Contains(supportedFileTypes, ext) {
			return nil, ErrFileType
		}
		return raw, nil
	case TypeJSON:
		if !json.Valid([]byte(raw)) {
			return nil, ErrParseJSON
		}
		return raw, nil
	default:
		return raw, nil
	}
}
