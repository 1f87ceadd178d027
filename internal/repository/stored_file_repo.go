package repository

import (
	"context"

	"github.com/timmy/captionrelay/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoredFileRepository handles stored file metadata.
type StoredFileRepository struct {
	db *gorm.DB
}

// NewStoredFileRepository creates a new StoredFileRepository.
// Parameters:
//   - db: GORM database handle used for queries.
//
// Returns:
//   - *StoredFileRepository: repository instance bound to db.
func NewStoredFileRepository(db *gorm.DB) *StoredFileRepository {
	return &StoredFileRepository{db: db}
}

// Upsert creates or replaces the record keyed by file name. created_at of an
// existing row is preserved.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - file: record to create or update.
//
// Returns:
//   - error: non-nil if the upsert fails.
func (r *StoredFileRepository) Upsert(ctx context.Context, file *domain.StoredFile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"original_name", "public_url", "size", "content_type",
			"md5_hash", "width", "height", "mirrored", "updated_at",
		}),
	}).Create(file).Error
}

// GetByName retrieves a record by its sanitized file name.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - name: sanitized file name.
//
// Returns:
//   - *domain.StoredFile: record if found.
//   - error: gorm.ErrRecordNotFound if absent.
func (r *StoredFileRepository) GetByName(ctx context.Context, name string) (*domain.StoredFile, error) {
	var file domain.StoredFile
	if err := r.db.WithContext(ctx).First(&file, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// List returns records ordered by most recent update, plus the total count.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum number of records.
//   - offset: number of records to skip.
//
// Returns:
//   - []domain.StoredFile: page of records.
//   - int64: total number of records.
//   - error: non-nil if the query fails.
func (r *StoredFileRepository) List(ctx context.Context, limit, offset int) ([]domain.StoredFile, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.StoredFile{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var files []domain.StoredFile
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Order("name").
		Limit(limit).
		Offset(offset).
		Find(&files).Error
	if err != nil {
		return nil, 0, err
	}
	return files, total, nil
}
