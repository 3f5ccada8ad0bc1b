package models

import (
	"time"

	"sds/internal/verifier"
)

type DataType string

const (
	TypeInteger     DataType = "int"
	TypeDecimal     DataType = "dec"
	TypeBoolean     DataType = "bool"
	TypeDateTime    DataType = "date"
	TypeCategorical DataType = "cat"
	TypeFile        DataType = "file"
	TypeJSON        DataType = "json"
)

// Lifecycle tracks creation and soft deletion. Rows are never removed;
// a set DeletedTime hides the row from current reads.
type Lifecycle struct {
	CreatedTime time.Time  `json:"createdTime"`
	DeletedTime *time.Time `json:"deletedTime,omitempty"`
}

func (l *Lifecycle) Deleted() bool {
	return l.DeletedTime != nil
}

// PropertyDefinition is a typed dimension attached to every clip of a
// field, e.g. SubjectId or VisitId.
type PropertyDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Required    bool           `json:"required"`
	Verifier    verifier.Group `json:"verifier,omitempty"`
}

// FieldDef is one generation of a field definition. FieldID is unique per
// study among non-deleted unversioned rows; superseded generations share
// the FieldID and are told apart by DataVersion and lifecycle stamps.
// An empty DataVersion marks the row as unversioned.
type FieldDef struct {
	ID                 string               `json:"id"`
	StudyID            string               `json:"studyId"`
	FieldID            string               `json:"fieldId"`
	FieldName          string               `json:"fieldName"`
	DataType           DataType             `json:"dataType"`
	CategoricalOptions []string             `json:"categoricalOptions,omitempty"`
	Unit               string               `json:"unit,omitempty"`
	Comments           string               `json:"comments"`
	Verifier           verifier.Group       `json:"verifier,omitempty"`
	Properties         []PropertyDefinition `json:"properties,omitempty"`
	DataVersion        string               `json:"dataVersion,omitempty"`
	Life               Lifecycle            `json:"life"`
}

func (f *FieldDef) Unversioned() bool {
	return f.DataVersion == ""
}

// PropertyDef returns the definition for a named property, if any.
func (f *FieldDef) PropertyDef(name string) *PropertyDefinition {
	for i := range f.Properties {
		if f.Properties[i].Name == name {
			return &f.Properties[i]
		}
	}
	return nil
}
