package repositories

import (
	"context"
	"errors"
	"rmatrack/internal/database"
	"rmatrack/internal/logger"
	. "rmatrack/internal/models"
	"rmatrack/internal/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TestOutcomeRepository interface {
	Upsert(ctx context.Context, outcome *TestOutcome) error
	GetByID(ctx context.Context, id string) (*TestOutcome, error)
	List(ctx context.Context) ([]TestOutcome, error)
	Count(ctx context.Context) (int64, error)
}

type testOutcomeRepository struct {
	db  database.DB
	log logger.Logger
}

func NewTestOutcome(db database.DB) TestOutcomeRepository {
	return &testOutcomeRepository{
		db:  db,
		log: logger.New("testOutcomeRepository"),
	}
}

func (r *testOutcomeRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// Upsert inserts the outcome, or on an id conflict rewrites only the
// verdict, comments and product sku. The snapshot fields stay as first
// recorded.
func (r *testOutcomeRepository) Upsert(ctx context.Context, outcome *TestOutcome) error {
	log := r.log.Function("Upsert")

	err := r.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"kind", "comments", "product_sku", "updated_at"}),
	}).Create(outcome).Error
	if err != nil {
		return log.Err("failed to upsert test outcome", err, "id", outcome.ID, "caseID", outcome.CaseID)
	}

	return nil
}

// GetByID returns nil without error when no outcome has that id.
func (r *testOutcomeRepository) GetByID(ctx context.Context, id string) (*TestOutcome, error) {
	var outcome TestOutcome
	err := r.getDB(ctx).Where("id = ?", id).First(&outcome).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.log.Function("GetByID").Err("failed to get test outcome", err, "id", id)
	}
	return &outcome, nil
}

func (r *testOutcomeRepository) List(ctx context.Context) ([]TestOutcome, error) {
	log := r.log.Function("List")

	var outcomes []TestOutcome
	if err := r.getDB(ctx).Order("created_at DESC").Order("id DESC").
		Find(&outcomes).Error; err != nil {
		return nil, log.Err("failed to list test outcomes", err)
	}

	return outcomes, nil
}

func (r *testOutcomeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.getDB(ctx).Model(&TestOutcome{}).Count(&count).Error; err != nil {
		return 0, r.log.Function("Count").Err("failed to count test outcomes", err)
	}
	return count, nil
}
