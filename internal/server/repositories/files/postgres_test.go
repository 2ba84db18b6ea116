package files

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	q := `(?s)^INSERT\s+INTO\s+files\b.*RETURNING\s+id,\s+uploaded_at`

	mock.ExpectQuery(q).
		WithArgs("u1", "invoice.pdf", "uploads/2026/8/31/key", int64(2048), "application/pdf").
		WillReturnRows(sqlmock.NewRows([]string{"id", "uploaded_at"}).AddRow("f1", now))

	file, err := repo.Create(context.Background(), &models.File{
		UserID:     "u1",
		Filename:   "invoice.pdf",
		StorageKey: "uploads/2026/8/31/key",
		Size:       2048,
		MimeType:   "application/pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.ID != "f1" {
		t.Fatalf("want id f1, got %q", file.ID)
	}
	if !file.UploadedAt.Equal(now) {
		t.Fatalf("want uploaded_at %v, got %v", now, file.UploadedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListByOwner_OrderedAndScoped(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\b.*FROM\s+files.*WHERE\s+user_id\s*=\s*\$1.*ORDER\s+BY\s+uploaded_at\s+DESC`

	newer := time.Now()
	older := newer.Add(-time.Hour)

	mock.ExpectQuery(q).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "filename", "uploaded_at", "storage_key", "size", "mime_type"}).
			AddRow("f2", "u1", "b.csv", newer, "k2", int64(2), "text/csv").
			AddRow("f1", "u1", "a.pdf", older, "k1", int64(1), "application/pdf"))

	result, err := repo.ListByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 || result[0].ID != "f2" || result[1].ID != "f1" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestListByOwner_EmptyIsNotAnError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\b.*FROM\s+files`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "filename", "uploaded_at", "storage_key", "size", "mime_type"}))

	result, err := repo.ListByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || len(result) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", result)
	}
}

func TestGetForOwner_ScopesQueryByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\b.*FROM\s+files.*WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`

	mock.ExpectQuery(q).
		WithArgs("f1", "u1").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "filename", "uploaded_at", "storage_key", "size", "mime_type"}).
			AddRow("f1", "u1", "a.pdf", time.Now(), "k1", int64(10), "application/pdf"))

	file, err := repo.GetForOwner(context.Background(), "u1", "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.StorageKey != "k1" {
		t.Fatalf("unexpected file: %+v", file)
	}
}

func TestGetForOwner_ForeignOwnerLooksMissing(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\b.*FROM\s+files`).
		WithArgs("f1", "intruder").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetForOwner(context.Background(), "intruder", "f1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}
