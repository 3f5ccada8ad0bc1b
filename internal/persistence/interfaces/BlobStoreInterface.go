package interfaces

// BlobStoreInterface is the abstract blob collaborator: file-typed clip
// payloads and cached aggregation results go through it.
type BlobStoreInterface interface {
	Put(data []byte) (string, error)
	Get(uri string) ([]byte, error)
	Delete(uri string) error
}
