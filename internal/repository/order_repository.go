package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supplier-sync-service/internal/models"
)

// OrderRepositoryInterface defines the contract for order data access used by
// fan-out.
type OrderRepositoryInterface interface {
	GetOrderWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CreateSupplierOrder(ctx context.Context, supplierOrder *models.SupplierOrder) error
	UpdateSupplierOrder(ctx context.Context, supplierOrder *models.SupplierOrder) error
	GetSupplierOrder(ctx context.Context, id uuid.UUID) (*models.SupplierOrder, error)
	ListSupplierOrders(ctx context.Context, orderID uuid.UUID) ([]models.SupplierOrder, error)
}

// OrderRepository handles order and supplier order persistence
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// GetOrderWithItems retrieves an order with its line items and their supplier
// product links preloaded.
func (r *OrderRepository) GetOrderWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.SupplierProduct").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateSupplierOrder inserts a new supplier order
func (r *OrderRepository) CreateSupplierOrder(ctx context.Context, supplierOrder *models.SupplierOrder) error {
	return r.db.WithContext(ctx).Create(supplierOrder).Error
}

// UpdateSupplierOrder saves supplier order changes
func (r *OrderRepository) UpdateSupplierOrder(ctx context.Context, supplierOrder *models.SupplierOrder) error {
	return r.db.WithContext(ctx).Save(supplierOrder).Error
}

// GetSupplierOrder retrieves a supplier order by ID
func (r *OrderRepository) GetSupplierOrder(ctx context.Context, id uuid.UUID) (*models.SupplierOrder, error) {
	var supplierOrder models.SupplierOrder
	err := r.db.WithContext(ctx).First(&supplierOrder, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &supplierOrder, nil
}

// ListSupplierOrders retrieves all supplier orders produced for one order
func (r *OrderRepository) ListSupplierOrders(ctx context.Context, orderID uuid.UUID) ([]models.SupplierOrder, error) {
	var supplierOrders []models.SupplierOrder
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&supplierOrders).Error
	return supplierOrders, err
}
