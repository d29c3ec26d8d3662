// Package files provides the PostgreSQL-backed repository for file
// metadata records, including the listing query construction.
package files

import (
	"context"

	"github.com/dmitrijs2005/storebox/internal/server/models"
)

// Repository is the file-metadata storage contract used by the services.
type Repository interface {
	// Create inserts a new record and returns it with server-assigned
	// id and timestamps.
	Create(ctx context.Context, f *models.FileRecord) (*models.FileRecord, error)
	// GetByID returns a record by id regardless of ownership.
	GetByID(ctx context.Context, fileID string) (*models.FileRecord, error)
	// Search returns all records matching the criteria, the visibility
	// predicate included.
	Search(ctx context.Context, c *Criteria) ([]*models.FileRecord, error)
	// SelectByOwner returns every record owned by ownerID (for usage
	// aggregation).
	SelectByOwner(ctx context.Context, ownerID string) ([]*models.FileRecord, error)
	// UpdateName renames an owned record and returns the updated row.
	UpdateName(ctx context.Context, ownerID, fileID, name string) (*models.FileRecord, error)
	// UpdateSharedWith replaces an owned record's collaborator list and
	// returns the updated row.
	UpdateSharedWith(ctx context.Context, ownerID, fileID string, emails []string) (*models.FileRecord, error)
	// Delete removes an owned record. Exactly one row must be affected.
	Delete(ctx context.Context, ownerID, fileID string) error
}
