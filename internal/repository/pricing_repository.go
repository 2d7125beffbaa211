package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supplier-sync-service/internal/models"
)

// PricingRepositoryInterface defines the contract for pricing rule data access
type PricingRepositoryInterface interface {
	ListActive(ctx context.Context) ([]models.PricingRule, error)
	List(ctx context.Context) ([]models.PricingRule, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PricingRule, error)
	Create(ctx context.Context, rule *models.PricingRule) error
	Update(ctx context.Context, rule *models.PricingRule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PricingRepository handles pricing rule persistence
type PricingRepository struct {
	db *gorm.DB
}

// NewPricingRepository creates a new pricing repository
func NewPricingRepository(db *gorm.DB) *PricingRepository {
	return &PricingRepository{db: db}
}

// ListActive retrieves active rules in evaluation order. Priority ties break
// on creation time so evaluation order stays stable.
func (r *PricingRepository) ListActive(ctx context.Context) ([]models.PricingRule, error) {
	var rules []models.PricingRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority ASC, created_at ASC").
		Find(&rules).Error
	return rules, err
}

// List retrieves all rules for administration
func (r *PricingRepository) List(ctx context.Context) ([]models.PricingRule, error) {
	var rules []models.PricingRule
	err := r.db.WithContext(ctx).
		Order("priority ASC, created_at ASC").
		Find(&rules).Error
	return rules, err
}

// GetByID retrieves a pricing rule by ID
func (r *PricingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PricingRule, error) {
	var rule models.PricingRule
	err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// Create inserts a new pricing rule
func (r *PricingRepository) Create(ctx context.Context, rule *models.PricingRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

// Update saves pricing rule changes
func (r *PricingRepository) Update(ctx context.Context, rule *models.PricingRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// Delete removes a pricing rule
func (r *PricingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.PricingRule{}, "id = ?", id).Error
}
