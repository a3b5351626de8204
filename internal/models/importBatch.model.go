package models

import "time"

// ImportBatch is the audit row written for every sheet import.
type ImportBatch struct {
	ID            int       `gorm:"type:int;primaryKey;autoIncrement" json:"id"`
	Filename      string    `gorm:"type:text"                         json:"filename"`
	TotalRowsSeen int       `gorm:"not null"                          json:"totalRows"`
	CasesProduced int       `gorm:"not null"                          json:"validRMAs"`
	ImportedAt    time.Time `gorm:"autoCreateTime"                    json:"uploadedAt"`
}

func (ImportBatch) TableName() string {
	return "import_batches"
}

type ImportBatchStats struct {
	TotalRowsSeen int `json:"totalRows"`
	CasesProduced int `json:"validRMAs"`
}
