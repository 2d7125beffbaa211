package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supplier-sync-service/internal/models"
)

// SupplierRepositoryInterface defines the contract for supplier data access
type SupplierRepositoryInterface interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context, activeOnly bool) ([]models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateLastSync(ctx context.Context, id uuid.UUID, at time.Time) error
}

// SupplierRepository handles supplier persistence
type SupplierRepository struct {
	db *gorm.DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// Create inserts a new supplier
func (r *SupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

// GetByID retrieves a supplier by ID
func (r *SupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// List retrieves suppliers, optionally restricted to active ones
func (r *SupplierRepository) List(ctx context.Context, activeOnly bool) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	query := r.db.WithContext(ctx).Order("created_at ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&suppliers).Error
	return suppliers, err
}

// Update saves supplier changes
func (r *SupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete removes a supplier
func (r *SupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Supplier{}, "id = ?", id).Error
}

// UpdateLastSync stamps the supplier's last successful sync time
func (r *SupplierRepository) UpdateLastSync(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Supplier{}).
		Where("id = ?", id).
		Update("last_sync_at", at).Error
}
