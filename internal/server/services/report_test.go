package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

func newReport(t *testing.T, repo *memFilesRepo) *ReportService {
	t.Helper()
	db := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })

	rm := &fakeRepoManager{f: repo}
	return NewReportService(db, rm, newTestLogger())
}

func seedFile(t *testing.T, repo *memFilesRepo, ownerID string) *models.File {
	t.Helper()
	file, err := repo.Create(context.Background(), &models.File{
		UserID:     ownerID,
		Filename:   "invoice.pdf",
		UploadedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		StorageKey: "uploads/2026/8/30/key",
		Size:       2048,
		MimeType:   "application/pdf",
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return file
}

func TestGenerate_WritesPDF(t *testing.T) {
	repo := newMemFilesRepo()
	file := seedFile(t, repo, "alice")
	s := newReport(t, repo)

	var buf bytes.Buffer
	if err := s.Generate(context.Background(), "alice", file.ID, &buf); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF: %q", buf.Bytes()[:min(buf.Len(), 16)])
	}
}

func TestGenerate_IsDeterministic(t *testing.T) {
	repo := newMemFilesRepo()
	file := seedFile(t, repo, "alice")
	s := newReport(t, repo)

	var first, second bytes.Buffer
	if err := s.Generate(context.Background(), "alice", file.ID, &first); err != nil {
		t.Fatalf("first Generate error: %v", err)
	}
	if err := s.Generate(context.Background(), "alice", file.ID, &second); err != nil {
		t.Fatalf("second Generate error: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("same record produced different documents (%d vs %d bytes)",
			first.Len(), second.Len())
	}
}

func TestGenerate_MissingFile(t *testing.T) {
	repo := newMemFilesRepo()
	s := newReport(t, repo)

	var buf bytes.Buffer
	err := s.Generate(context.Background(), "alice", "no-such-id", &buf)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing may be written for a missing record, got %d bytes", buf.Len())
	}
}

func TestGenerate_ForeignOwnerLooksMissing(t *testing.T) {
	repo := newMemFilesRepo()
	file := seedFile(t, repo, "alice")
	s := newReport(t, repo)

	var buf bytes.Buffer
	err := s.Generate(context.Background(), "bob", file.ID, &buf)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("foreign owner must see NotFound, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing may be written for a foreign record, got %d bytes", buf.Len())
	}
}
