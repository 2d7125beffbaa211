package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supplier-sync-service/internal/models"
)

// SyncRepositoryInterface defines the contract for sync log data access
type SyncRepositoryInterface interface {
	CreateLog(ctx context.Context, log *models.SyncLog) error
	UpdateLog(ctx context.Context, log *models.SyncLog) error
	GetLog(ctx context.Context, id uuid.UUID) (*models.SyncLog, error)
	ListLogs(ctx context.Context, supplierID *uuid.UUID, limit int) ([]models.SyncLog, error)
	HasRunningSync(ctx context.Context, supplierID uuid.UUID) (bool, error)
}

// SyncRepository handles sync log persistence
type SyncRepository struct {
	db *gorm.DB
}

// NewSyncRepository creates a new sync repository
func NewSyncRepository(db *gorm.DB) *SyncRepository {
	return &SyncRepository{db: db}
}

// CreateLog inserts a new sync log
func (r *SyncRepository) CreateLog(ctx context.Context, log *models.SyncLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// UpdateLog saves sync log changes
func (r *SyncRepository) UpdateLog(ctx context.Context, log *models.SyncLog) error {
	return r.db.WithContext(ctx).Save(log).Error
}

// GetLog retrieves a sync log by ID
func (r *SyncRepository) GetLog(ctx context.Context, id uuid.UUID) (*models.SyncLog, error) {
	var log models.SyncLog
	err := r.db.WithContext(ctx).First(&log, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// ListLogs retrieves recent sync logs, optionally filtered by supplier
func (r *SyncRepository) ListLogs(ctx context.Context, supplierID *uuid.UUID, limit int) ([]models.SyncLog, error) {
	var logs []models.SyncLog
	query := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit)
	if supplierID != nil {
		query = query.Where("supplier_id = ?", *supplierID)
	}
	err := query.Find(&logs).Error
	return logs, err
}

// HasRunningSync reports whether a sync is already in flight for a supplier
func (r *SyncRepository) HasRunningSync(ctx context.Context, supplierID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SyncLog{}).
		Where("supplier_id = ? AND status = ?", supplierID, models.SyncStatusRunning).
		Count(&count).Error
	return count > 0, err
}
