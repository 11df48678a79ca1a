package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ImportStatusProcessing = "processing"
	ImportStatusCompleted  = "completed"
)

// ImportBatch tracks one uploaded payments file.
type ImportBatch struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Filename       string         `json:"filename"`
	TotalRows      int            `json:"total_rows"`
	ProcessedCount int            `json:"processed_count"`
	ImportedCount  int            `json:"imported_count"`
	AllocatedCount int            `json:"allocated_count"`
	RejectedCount  int            `json:"rejected_count"`
	Errors         datatypes.JSON `json:"errors"`
	Status         string         `json:"status"`
	StartedAt      time.Time      `json:"started_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
