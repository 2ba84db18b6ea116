package files

import (
	"context"

	"github.com/dmitrijs2005/filevault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.File, error)
	// GetForOwner returns common.ErrorNotFound both for ids that do not
	// exist and for ids owned by someone else.
	GetForOwner(ctx context.Context, userID, fileID string) (*models.File, error)
}
