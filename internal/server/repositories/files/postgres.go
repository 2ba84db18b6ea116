package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {

	query :=
		`INSERT INTO files (user_id, filename, storage_key, size, mime_type)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, uploaded_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.UserID, file.Filename, file.StorageKey, file.Size, file.MimeType).
		Scan(&file.ID, &file.UploadedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]*models.File, error) {
	query :=
		`SELECT id, user_id, filename, uploaded_at, storage_key, size, mime_type FROM files
		 WHERE user_id = $1
		 ORDER BY uploaded_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := []*models.File{}

	for rows.Next() {
		item := models.File{}
		err := rows.Scan(&item.ID, &item.UserID, &item.Filename, &item.UploadedAt,
			&item.StorageKey, &item.Size, &item.MimeType)
		if err != nil {
			return nil, err
		}
		result = append(result, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) GetForOwner(ctx context.Context, userID, fileID string) (*models.File, error) {
	// Owner scoping happens in the query itself so a foreign id and a
	// missing id are indistinguishable to the caller.
	query :=
		`SELECT id, user_id, filename, uploaded_at, storage_key, size, mime_type FROM files
		 WHERE id = $1 AND user_id = $2
		 `

	file := &models.File{}
	err := r.db.QueryRowContext(ctx, query, fileID, userID).
		Scan(&file.ID, &file.UserID, &file.Filename, &file.UploadedAt,
			&file.StorageKey, &file.Size, &file.MimeType)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}
