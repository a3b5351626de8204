package repositories

import (
	"context"
	"rmatrack/internal/database"
	"rmatrack/internal/logger"
	. "rmatrack/internal/models"
	"rmatrack/internal/services"

	"gorm.io/gorm"
)

type ReturnCaseRepository interface {
	ReplaceAll(ctx context.Context, cases []ReturnCase) error
	List(ctx context.Context) ([]ReturnCase, error)
	Count(ctx context.Context) (int64, error)
}

type returnCaseRepository struct {
	db  database.DB
	log logger.Logger
}

func NewReturnCase(db database.DB) ReturnCaseRepository {
	return &returnCaseRepository{
		db:  db,
		log: logger.New("returnCaseRepository"),
	}
}

func (r *returnCaseRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// ReplaceAll discards every stored case and inserts cases in order. Callers
// that also record an import batch should run it through TransactionService
// so the two writes commit together.
func (r *returnCaseRepository) ReplaceAll(ctx context.Context, cases []ReturnCase) error {
	log := r.log.Function("ReplaceAll")

	db := r.getDB(ctx)
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&ReturnCase{}).Error; err != nil {
		return log.Err("failed to clear return cases", err)
	}

	unique := dedupeCases(cases)
	if len(unique) == 0 {
		return nil
	}

	if err := db.CreateInBatches(&unique, 100).Error; err != nil {
		return log.Err("failed to insert return cases", err, "count", len(unique))
	}

	log.Info("Replaced return cases", "received", len(cases), "stored", len(unique))
	return nil
}

// dedupeCases keeps one row per case id. The last row wins but keeps the
// position of the first.
func dedupeCases(cases []ReturnCase) []ReturnCase {
	position := make(map[string]int, len(cases))
	unique := make([]ReturnCase, 0, len(cases))

	for _, c := range cases {
		c.ID = 0
		if idx, ok := position[c.CaseID]; ok {
			unique[idx] = c
			continue
		}
		position[c.CaseID] = len(unique)
		unique = append(unique, c)
	}

	return unique
}

func (r *returnCaseRepository) List(ctx context.Context) ([]ReturnCase, error) {
	log := r.log.Function("List")

	var cases []ReturnCase
	if err := r.getDB(ctx).Order("id ASC").Find(&cases).Error; err != nil {
		return nil, log.Err("failed to list return cases", err)
	}

	return cases, nil
}

func (r *returnCaseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.getDB(ctx).Model(&ReturnCase{}).Count(&count).Error; err != nil {
		return 0, r.log.Function("Count").Err("failed to count return cases", err)
	}
	return count, nil
}
