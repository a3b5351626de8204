package repositories

import (
	"context"
	"errors"
	"rmatrack/internal/database"
	"rmatrack/internal/logger"
	. "rmatrack/internal/models"
	"rmatrack/internal/services"

	"gorm.io/gorm"
)

type ImportBatchRepository interface {
	Create(ctx context.Context, batch *ImportBatch) error
	GetLatest(ctx context.Context) (*ImportBatch, error)
}

type importBatchRepository struct {
	db  database.DB
	log logger.Logger
}

func NewImportBatch(db database.DB) ImportBatchRepository {
	return &importBatchRepository{
		db:  db,
		log: logger.New("importBatchRepository"),
	}
}

func (r *importBatchRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *importBatchRepository) Create(ctx context.Context, batch *ImportBatch) error {
	if err := r.getDB(ctx).Create(batch).Error; err != nil {
		return r.log.Function("Create").Err("failed to record import batch", err, "filename", batch.Filename)
	}
	return nil
}

// GetLatest returns nil without error when nothing has been imported yet.
func (r *importBatchRepository) GetLatest(ctx context.Context) (*ImportBatch, error) {
	var batch ImportBatch
	err := r.getDB(ctx).Order("imported_at DESC").Order("id DESC").First(&batch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.log.Function("GetLatest").Err("failed to get latest import batch", err)
	}
	return &batch, nil
}
