// Package blob stores raw uploaded bytes under opaque locators, decoupled
// from file metadata. Two backends exist: a local directory and an
// S3-compatible bucket.
package blob

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Store is the byte-storage contract used by the ingestion and report
// services. Put must not leave a readable object behind when it returns an
// error; Delete on a missing key is not an error (it backs compensating
// cleanup, which must be idempotent).
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewStorageKey returns a fresh collision-resistant locator, bucketed by
// upload date.
func NewStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("uploads/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}
