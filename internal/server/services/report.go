package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/logging"
	"github.com/dmitrijs2005/filevault/internal/server/models"
	"github.com/dmitrijs2005/filevault/internal/server/repositories/repomanager"
)

// ReportService renders an owner-scoped PDF summary of a file record and
// streams it to the caller. Generation is pure: the same record always
// yields the same document, and nothing stored is mutated.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *ReportService {
	return &ReportService{
		db:          db,
		repomanager: m,
		logger:      l.With("module", "report_service"),
	}
}

// Generate looks up the record for ownerID and writes the PDF to w.
// common.ErrorNotFound passes through unchanged, covering both missing and
// foreign-owned ids. Transport write errors are not retried; the client has
// to re-request.
func (s *ReportService) Generate(ctx context.Context, ownerID, fileID string, w io.Writer) error {

	repo := s.repomanager.Files(s.db)

	file, err := repo.GetForOwner(ctx, ownerID, fileID)
	if err != nil {
		return err
	}

	if err := renderReport(file, w); err != nil {
		s.logger.Error(ctx, "report render failed", "file_id", fileID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrRenderFailure, err)
	}

	return nil
}

func renderReport(file *models.File, w io.Writer) error {
	doc := fpdf.New("P", "mm", "A4", "")
	// Pin the document timestamp to the upload instant so repeated
	// generations are byte-identical.
	doc.SetCreationDate(file.UploadedAt)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, fmt.Sprintf("Report for File: %s", file.Filename))
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 12)
	doc.Cell(0, 8, fmt.Sprintf("Uploaded on: %s", file.UploadedAt.Format("2006-01-02 15:04:05 MST")))
	doc.Ln(8)
	doc.Cell(0, 8, fmt.Sprintf("Content type: %s", file.MimeType))
	doc.Ln(8)
	doc.Cell(0, 8, fmt.Sprintf("Size: %d bytes", file.Size))
	doc.Ln(8)
	doc.Cell(0, 8, fmt.Sprintf("Storage locator: %s", file.StorageKey))

	return doc.Output(w)
}
