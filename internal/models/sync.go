package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncType represents the type of data being synchronized
type SyncType string

const (
	SyncTypeProducts SyncType = "products"
	SyncTypeStock    SyncType = "stock"
)

// SyncStatus represents the outcome of a sync attempt. A log is created as
// "running" and finalized exactly once; finished logs are never mutated.
type SyncStatus string

const (
	SyncStatusRunning SyncStatus = "running"
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusPartial SyncStatus = "partial"
	SyncStatusError   SyncStatus = "error"
)

// SyncLog is the audit record of one synchronization attempt.
type SyncLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index:idx_sync_logs_supplier" json:"supplierId"`

	SyncType SyncType   `gorm:"type:varchar(50);not null;default:'products'" json:"syncType"`
	Status   SyncStatus `gorm:"type:varchar(20);not null;default:'running';index:idx_sync_logs_status" json:"status"`

	StartedAt   time.Time  `gorm:"not null" json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	ProductsProcessed int `gorm:"default:0" json:"productsProcessed"`
	ProductsImported  int `gorm:"default:0" json:"productsImported"`
	ProductsUpdated   int `gorm:"default:0" json:"productsUpdated"`
	ProductsFailed    int `gorm:"default:0" json:"productsFailed"`

	ErrorCount int        `gorm:"default:0" json:"errorCount"`
	Errors     StringList `gorm:"type:jsonb;default:'[]'" json:"errors,omitempty"`

	DurationMS int64 `gorm:"default:0" json:"durationMs"`
	Summary    JSONB `gorm:"type:jsonb;default:'{}'" json:"summary,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`

	// Relationships
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

// TableName specifies the table name for SyncLog
func (SyncLog) TableName() string {
	return "sync_logs"
}

// Finished reports whether the log has been finalized.
func (l *SyncLog) Finished() bool {
	return l.Status != SyncStatusRunning
}
