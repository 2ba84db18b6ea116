package models

import "time"

// File describes metadata for one uploaded blob. The bytes themselves live
// in the blob store under StorageKey; this row is the only addressable
// handle to them. UserID is set exactly once at creation and every query is
// scoped by it.
type File struct {
	ID         string
	UserID     string
	Filename   string
	UploadedAt time.Time

	// StorageKey is the opaque blob-store locator of the payload.
	StorageKey string
	// Size is the stored payload length in bytes.
	Size int64
	// MimeType is the declared content type accepted at ingestion.
	MimeType string
}
