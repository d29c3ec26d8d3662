package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/storebox/internal/common"
	"github.com/dmitrijs2005/storebox/internal/filex"
	"github.com/dmitrijs2005/storebox/internal/logging"
	"github.com/dmitrijs2005/storebox/internal/server/blob"
	"github.com/dmitrijs2005/storebox/internal/server/config"
	"github.com/dmitrijs2005/storebox/internal/server/models"
	"github.com/dmitrijs2005/storebox/internal/server/repositories/files"
	"github.com/dmitrijs2005/storebox/internal/server/repositories/repomanager"
)

// FileService implements file listing, upload, rename, sharing, deletion
// and usage aggregation. The metadata record in PostgreSQL is the source of
// truth; the blob store only ever holds content.
type FileService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	blobs          blob.Store
	logger         logging.Logger
	maxUploadBytes int64
	capacityBytes  int64
}

// NewFileService constructs a FileService.
func NewFileService(db *sql.DB, m repomanager.RepositoryManager, blobs blob.Store, logger logging.Logger, cfg *config.Config) *FileService {
	return &FileService{
		db:             db,
		repomanager:    m,
		blobs:          blobs,
		logger:         logger,
		maxUploadBytes: cfg.MaxUploadBytes,
		capacityBytes:  cfg.StorageCapacityBytes,
	}
}

// ListFiles returns the records visible to user: owned ones plus those whose
// collaborator list contains the user's email. types, search, sort and limit
// narrow and order the result. An unresolved user fails fast with
// ErrUnauthenticated before any query is issued.
func (s *FileService) ListFiles(ctx context.Context, user *models.User, types []string, search, sort string, limit int) ([]*models.FileRecord, error) {
	criteria, err := files.NewCriteria(user, types, search, sort, limit)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Files(s.db).Search(ctx, criteria)
}

// UploadFile stores content in the blob store first and then creates the
// metadata record. If the record cannot be created, the just-written blob is
// removed so no unreachable content survives, and ErrUploadFailed is
// returned.
func (s *FileService) UploadFile(ctx context.Context, user *models.User, name string, data []byte, contentType string) (*models.FileRecord, error) {
	if user == nil || user.ID == "" {
		return nil, common.ErrUnauthenticated
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds maximum size of %d bytes", common.ErrorValidation, s.maxUploadBytes)
	}

	fileType, extension := filex.Detect(name)
	key := blob.RandomStorageKey()

	url, err := s.blobs.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, err
	}

	record := &models.FileRecord{
		OwnerID:   user.ID,
		AccountID: user.AccountID,
		Name:      name,
		Type:      fileType,
		Extension: extension,
		Size:      int64(len(data)),
		BlobID:    key,
		URL:       url,
	}

	created, err := s.repomanager.Files(s.db).Create(ctx, record)
	if err != nil {
		// compensate: the blob must not outlive a failed record
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Warn(ctx, "failed to remove blob after metadata error", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}
	return created, nil
}

// RenameFile sets a new base name, keeping the record's stored extension.
func (s *FileService) RenameFile(ctx context.Context, user *models.User, fileID, newName string) (*models.FileRecord, error) {
	if user == nil || user.ID == "" {
		return nil, common.ErrUnauthenticated
	}

	record, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	name := newName
	if record.Extension != "" {
		name = fmt.Sprintf("%s.%s", newName, record.Extension)
	}
	return s.repomanager.Files(s.db).UpdateName(ctx, user.ID, fileID, name)
}

// UpdateFileSharing replaces the collaborator email list of an owned record.
func (s *FileService) UpdateFileSharing(ctx context.Context, user *models.User, fileID string, emails []string) (*models.FileRecord, error) {
	if user == nil || user.ID == "" {
		return nil, common.ErrUnauthenticated
	}
	return s.repomanager.Files(s.db).UpdateSharedWith(ctx, user.ID, fileID, emails)
}

// DeleteFile removes the metadata record and then tries to remove the blob.
// Once the record is gone the operation has succeeded: a failing blob
// deletion is logged, not returned, because the content is already
// unreachable through the application.
func (s *FileService) DeleteFile(ctx context.Context, user *models.User, fileID string) error {
	if user == nil || user.ID == "" {
		return common.ErrUnauthenticated
	}

	repo := s.repomanager.Files(s.db)
	record, err := repo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if record.OwnerID != user.ID {
		return common.ErrorNotFound
	}

	if err := repo.Delete(ctx, user.ID, fileID); err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, record.BlobID); err != nil {
		s.logger.Warn(ctx, "blob cleanup failed after record deletion", "key", record.BlobID, "error", err)
	}
	return nil
}

// GetUsageSummary aggregates the user's owned files into per-category
// totals. Records with a type outside the known set are counted under
// "other" and logged, never dropped.
func (s *FileService) GetUsageSummary(ctx context.Context, user *models.User) (*models.UsageSummary, error) {
	if user == nil || user.ID == "" {
		return nil, common.ErrUnauthenticated
	}

	records, err := s.repomanager.Files(s.db).SelectByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	summary := &models.UsageSummary{All: s.capacityBytes}
	for _, r := range records {
		fileType := r.Type
		if !filex.IsKnownType(fileType) {
			s.logger.Warn(ctx, "unknown file type in usage aggregation", "file_id", r.ID, "type", fileType)
			fileType = filex.TypeOther
		}

		bucket := summary.Category(fileType)
		bucket.Size += r.Size
		if r.UpdatedAt.After(bucket.LatestDate) {
			bucket.LatestDate = r.UpdatedAt
		}
		summary.Used += r.Size
	}
	return summary, nil
}
