package models

import "errors"

// Error texts are part of the public contract: batch upload descriptions
// and single-call failures surface them verbatim to the embedding layer.
var (
	ErrStudyNotFound   = errors.New("Study does not exist.")
	ErrFieldNotFound   = errors.New("Field not found")
	ErrClipNotFound    = errors.New("Document does not exist or has been deleted.")
	ErrVersionNotFloat = errors.New("Version must be a float number.")
	ErrVersionUsed     = errors.New("Version has been used.")
	ErrNothingToUpdate = errors.New("Nothing to update.")
	ErrVersionNotFound = errors.New("Data version does not exist.")
)

// NoPermissionError is the per-clip description returned when a write is
// rejected by the permission filter.
const NoPermissionError = "No permission to upload data."

// NoDeletePermissionError is returned when a clip delete is rejected.
const NoDeletePermissionError = "No permission to delete data."
