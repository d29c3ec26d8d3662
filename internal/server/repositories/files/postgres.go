package files

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storebox/internal/common"
	"github.com/dmitrijs2005/storebox/internal/dbx"
	"github.com/dmitrijs2005/storebox/internal/server/models"
)

// One column list for all SELECTs.
const fileColumns = `id, owner_id, account_id, name, file_type, extension, size,
	blob_id, url, shared_with, created_at, updated_at`

// PostgresRepository implements file-metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanFile(row interface{ Scan(...any) error }) (*models.FileRecord, error) {
	f := &models.FileRecord{}
	var sharedWith []byte
	if err := row.Scan(&f.ID, &f.OwnerID, &f.AccountID, &f.Name, &f.Type, &f.Extension,
		&f.Size, &f.BlobID, &f.URL, &sharedWith, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sharedWith, &f.SharedWith); err != nil {
		return nil, fmt.Errorf("bad shared_with payload: %w", err)
	}
	return f, nil
}

func marshalEmails(emails []string) []byte {
	if emails == nil {
		emails = []string{}
	}
	b, _ := json.Marshal(emails)
	return b
}

// Create inserts a record and returns it with the server-assigned id and
// timestamps.
func (r *PostgresRepository) Create(ctx context.Context, f *models.FileRecord) (*models.FileRecord, error) {
	query := fmt.Sprintf(`
		INSERT INTO files (owner_id, account_id, name, file_type, extension, size, blob_id, url, shared_with)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, fileColumns)

	row := r.db.QueryRowContext(ctx, query,
		f.OwnerID, f.AccountID, f.Name, f.Type, f.Extension, f.Size, f.BlobID, f.URL,
		marshalEmails(f.SharedWith))

	created, err := scanFile(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

// GetByID returns a record by id or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, fileID string) (*models.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1`, fileColumns)

	f, err := scanFile(r.db.QueryRowContext(ctx, query, fileID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// Search executes the criteria: visibility predicate, optional filters,
// whitelisted sort, optional limit.
func (r *PostgresRepository) Search(ctx context.Context, c *Criteria) ([]*models.FileRecord, error) {
	where, args := c.whereClause(1)
	limit, limitArgs := c.limitClause(len(args) + 1)
	args = append(args, limitArgs...)

	query := fmt.Sprintf(`SELECT %s FROM files %s %s %s`,
		fileColumns, where, c.orderClause(), limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search files: %w", err)
	}
	defer rows.Close()

	var result []*models.FileRecord
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SelectByOwner returns all records owned by ownerID.
func (r *PostgresRepository) SelectByOwner(ctx context.Context, ownerID string) ([]*models.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE owner_id = $1`, fileColumns)

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	var result []*models.FileRecord
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateName renames an owned record, refreshes updated_at and returns the
// updated row. A missing or foreign record yields common.ErrorNotFound.
func (r *PostgresRepository) UpdateName(ctx context.Context, ownerID, fileID, name string) (*models.FileRecord, error) {
	query := fmt.Sprintf(`
		UPDATE files SET name = $1, updated_at = now()
		WHERE id = $2 AND owner_id = $3
		RETURNING %s`, fileColumns)

	f, err := scanFile(r.db.QueryRowContext(ctx, query, name, fileID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// UpdateSharedWith replaces an owned record's collaborator list and returns
// the updated row.
func (r *PostgresRepository) UpdateSharedWith(ctx context.Context, ownerID, fileID string, emails []string) (*models.FileRecord, error) {
	query := fmt.Sprintf(`
		UPDATE files SET shared_with = $1, updated_at = now()
		WHERE id = $2 AND owner_id = $3
		RETURNING %s`, fileColumns)

	f, err := scanFile(r.db.QueryRowContext(ctx, query, marshalEmails(emails), fileID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// Delete removes an owned record. Exactly one row must be affected;
// zero rows means the record does not exist (or belongs to someone else).
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, fileID string) error {
	query := `DELETE FROM files WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, fileID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	ra, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	if ra != 1 {
		return fmt.Errorf("wrong rows affected count: %d", ra)
	}
	return nil
}
