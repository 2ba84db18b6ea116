package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/blob"
	"github.com/dmitrijs2005/filevault/internal/server/config"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
)

// IngestService accepts uploads: it validates the declared size and type,
// streams the bytes into the blob store, and only then records metadata.
// The blob write always precedes the metadata insert, so a File row never
// points at a missing or partial blob.
type IngestService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       blob.Store
	logger      logging.Logger
	maxSize     int64
	allowed     map[string]struct{}
}

func NewIngestService(db *sql.DB, m repomanager.RepositoryManager, blobs blob.Store, cfg *config.Config, l logging.Logger) *IngestService {
	allowed := make(map[string]struct{}, len(cfg.AllowedMimeTypes))
	for _, mt := range cfg.AllowedMimeTypes {
		allowed[mt] = struct{}{}
	}
	return &IngestService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      l.With("module", "ingest_service"),
		maxSize:     cfg.MaxUploadSize,
		allowed:     allowed,
	}
}

// Ingest validates and stores one upload for ownerID. declaredSize <= 0
// means "unknown"; the size ceiling is still enforced while streaming, so an
// understated declaration aborts mid-transfer instead of after buffering.
func (s *IngestService) Ingest(ctx context.Context, ownerID string, src io.Reader, filename, mimeType string, declaredSize int64) (*models.File, error) {

	// Validation gate: nothing is written before these pass.
	if declaredSize > s.maxSize {
		return nil, common.ErrPayloadTooLarge
	}
	if _, ok := s.allowed[mimeType]; !ok {
		return nil, common.ErrUnsupportedType
	}

	key := blob.NewStorageKey()

	limit := s.maxSize
	if declaredSize > 0 && declaredSize < limit {
		limit = declaredSize
	}
	cr := &cappedReader{r: src, remaining: limit}

	// Phase 1: blob write. Any failure here means no durable state: the
	// store removes its partial object, and we issue an idempotent delete
	// for the multipart/backend cases where it might not have.
	if err := s.blobs.Put(ctx, key, cr); err != nil {
		_ = s.blobs.Delete(context.WithoutCancel(ctx), key)

		if errors.Is(err, common.ErrPayloadTooLarge) {
			return nil, common.ErrPayloadTooLarge
		}
		s.logger.Warn(ctx, "upload aborted mid-stream", "owner", ownerID, "key", key, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrUploadIncomplete, err)
	}

	// Phase 2: metadata commit. On failure the blob is already durable;
	// it is logged for reconciliation, never silently kept as a success.
	repo := s.repomanager.Files(s.db)
	record, err := repo.Create(ctx, &models.File{
		UserID:     ownerID,
		Filename:   filename,
		StorageKey: key,
		Size:       cr.read,
		MimeType:   mimeType,
	})
	if err != nil {
		s.logger.Error(ctx, "metadata commit failed, orphaned blob", "owner", ownerID, "key", key, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrMetadataCommitFailed, err)
	}

	return record, nil
}

// List returns the owner's records, newest first. No files is an empty
// slice, not an error.
func (s *IngestService) List(ctx context.Context, ownerID string) ([]*models.File, error) {
	repo := s.repomanager.Files(s.db)
	return repo.ListByOwner(ctx, ownerID)
}

// Get returns one owner-scoped record; missing and foreign ids are both
// common.ErrorNotFound.
func (s *IngestService) Get(ctx context.Context, ownerID, fileID string) (*models.File, error) {
	repo := s.repomanager.Files(s.db)
	return repo.GetForOwner(ctx, ownerID, fileID)
}

// cappedReader counts bytes and fails with ErrPayloadTooLarge as soon as the
// stream exceeds the ceiling, bounding memory and disk use for oversized
// uploads regardless of what the client declared.
type cappedReader struct {
	r         io.Reader
	remaining int64
	read      int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.remaining < 0 {
		return 0, common.ErrPayloadTooLarge
	}
	if int64(len(p)) > c.remaining+1 {
		p = p[:c.remaining+1]
	}
	n, err := c.r.Read(p)
	c.read += int64(n)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return n, common.ErrPayloadTooLarge
	}
	return n, err
}
