package models

// DataClip is one immutable typed value for a field, tagged with property
// dimensions. Value always holds the canonical string form; readers coerce
// it per the field's data type. Uploading the same (fieldId, properties)
// key twice appends a second row; the newest non-deleted row wins when a
// single value per key is requested.
type DataClip struct {
	ID          string            `json:"id"`
	StudyID     string            `json:"studyId"`
	FieldID     string            `json:"fieldId"`
	Value       string            `json:"value"`
	Properties  map[string]string `json:"properties,omitempty"`
	DataVersion string            `json:"dataVersion,omitempty"`
	Life        Lifecycle         `json:"life"`
}

func (c *DataClip) Unversioned() bool {
	return c.DataVersion == ""
}

// ClipInput is one element of a batch upload.
type ClipInput struct {
	FieldID    string            `json:"fieldId"`
	Value      string            `json:"value"`
	Properties map[string]string `json:"properties,omitempty"`
}

// ClipUploadResult is the per-item outcome of a batch upload. A failed
// item never aborts its siblings.
type ClipUploadResult struct {
	Successful  bool   `json:"successful"`
	ID          string `json:"id,omitempty"`
	Description string `json:"description,omitempty"`
}
