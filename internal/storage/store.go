package storage

// BlobStore holds uploaded asset bytes under opaque keys. Authorization
// happens above this layer; a key is only handed out after the access
// check passes.
type BlobStore interface {
	Put(key string, data []byte, contentType string) error
	Get(key string) ([]byte, error)
	Delete(key string) error
}
