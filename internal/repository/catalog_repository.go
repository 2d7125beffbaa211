package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supplier-sync-service/internal/models"
)

// CatalogRepositoryInterface defines the contract for supplier product and
// catalogue data access used by reconciliation.
type CatalogRepositoryInterface interface {
	GetSupplierProduct(ctx context.Context, supplierID uuid.UUID, externalID string) (*models.SupplierProduct, error)
	CreateSupplierProduct(ctx context.Context, product *models.SupplierProduct) error
	UpdateSupplierProduct(ctx context.Context, product *models.SupplierProduct) error
	ListSupplierProducts(ctx context.Context, supplierID uuid.UUID, page, limit int) ([]models.SupplierProduct, int64, error)

	GetProductBySupplierProduct(ctx context.Context, supplierProductID uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	SlugExists(ctx context.Context, slug string) (bool, error)

	GetOrCreateCategory(ctx context.Context, name, slug string) (*models.Category, error)
}

// CatalogRepository handles supplier product and catalogue persistence
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetSupplierProduct looks up the persisted mirror row by its natural key.
// Returns (nil, nil) when the row does not exist.
func (r *CatalogRepository) GetSupplierProduct(ctx context.Context, supplierID uuid.UUID, externalID string) (*models.SupplierProduct, error) {
	var product models.SupplierProduct
	err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND external_id = ?", supplierID, externalID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateSupplierProduct inserts a new supplier product mirror row
func (r *CatalogRepository) CreateSupplierProduct(ctx context.Context, product *models.SupplierProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// UpdateSupplierProduct saves supplier product changes
func (r *CatalogRepository) UpdateSupplierProduct(ctx context.Context, product *models.SupplierProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// ListSupplierProducts retrieves one page of a supplier's mirrored products
func (r *CatalogRepository) ListSupplierProducts(ctx context.Context, supplierID uuid.UUID, page, limit int) ([]models.SupplierProduct, int64, error) {
	var products []models.SupplierProduct
	var total int64

	query := r.db.WithContext(ctx).Model(&models.SupplierProduct{}).
		Where("supplier_id = ?", supplierID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	return products, total, err
}

// GetProductBySupplierProduct looks up the catalogue row projected from a
// supplier product. Returns (nil, nil) when no projection exists yet.
func (r *CatalogRepository) GetProductBySupplierProduct(ctx context.Context, supplierProductID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("supplier_product_id = ?", supplierProductID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new catalogue product
func (r *CatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// UpdateProduct saves catalogue product changes
func (r *CatalogRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// SlugExists reports whether a catalogue product already uses the slug
func (r *CatalogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// GetOrCreateCategory finds a category by name, creating it when absent
func (r *CatalogRepository) GetOrCreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category = models.Category{Name: name, Slug: slug}
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
