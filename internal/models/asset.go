package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProjectAsset is immutable once created; new uploads create new rows.
type ProjectAsset struct {
	ID         uuid.UUID
	ProjectID  uuid.UUID
	UploadedBy uuid.UUID
	AssetType  string
	Filename   string
	StorageKey string
	Metadata   json.RawMessage
	Version    int
	UploadedAt time.Time
}
