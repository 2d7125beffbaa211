package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle of a customer order. Fan-out only ever
// reads confirmed orders; everything upstream of "confirmed" is handled by
// the checkout flow.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a customer order as recorded by checkout.
type Order struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OrderNumber string      `gorm:"type:varchar(50);not null;uniqueIndex:idx_orders_number" json:"orderNumber"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_orders_status" json:"status"`

	CustomerName  string `gorm:"type:varchar(255);not null" json:"customerName"`
	CustomerEmail string `gorm:"type:varchar(255);not null" json:"customerEmail"`
	CustomerPhone string `gorm:"type:varchar(50)" json:"customerPhone,omitempty"`

	AddressLine1 string `gorm:"type:varchar(500);not null" json:"addressLine1"`
	AddressLine2 string `gorm:"type:varchar(500)" json:"addressLine2,omitempty"`
	City         string `gorm:"type:varchar(255);not null" json:"city"`
	State        string `gorm:"type:varchar(255)" json:"state,omitempty"`
	PostalCode   string `gorm:"type:varchar(50)" json:"postalCode,omitempty"`
	Country      string `gorm:"type:varchar(100);not null" json:"country"`

	Total    float64 `gorm:"type:decimal(12,2);not null" json:"total"`
	Currency string  `gorm:"type:varchar(3);not null" json:"currency"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`

	// Relationships
	Items          []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	SupplierOrders []SupplierOrder `gorm:"foreignKey:OrderID" json:"supplierOrders,omitempty"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of a customer order. SupplierProductID links back to
// the supplier product the catalogue row was projected from; nil marks a
// manually curated product fulfilled outside the dropshipping subsystem.
type OrderItem struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index:idx_order_items_order" json:"orderId"`

	ProductID         uuid.UUID  `gorm:"type:uuid;not null" json:"productId"`
	SupplierProductID *uuid.UUID `gorm:"type:uuid;index:idx_order_items_supplier_product" json:"supplierProductId,omitempty"`

	Name     string  `gorm:"type:varchar(500);not null" json:"name"`
	Quantity int     `gorm:"not null" json:"quantity"`
	Price    float64 `gorm:"type:decimal(12,2);not null" json:"price"`
	Variants JSONB   `gorm:"type:jsonb;default:'{}'" json:"variants,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`

	// Relationships
	SupplierProduct *SupplierProduct `gorm:"foreignKey:SupplierProductID" json:"supplierProduct,omitempty"`
}

// TableName specifies the table name for OrderItem
func (OrderItem) TableName() string {
	return "order_items"
}

// SupplierOrderStatus tracks a supplier order from placement to delivery.
// Fan-out creates rows as "pending"; later transitions come from the
// tracking poller.
type SupplierOrderStatus string

const (
	SupplierOrderPending   SupplierOrderStatus = "pending"
	SupplierOrderShipped   SupplierOrderStatus = "shipped"
	SupplierOrderDelivered SupplierOrderStatus = "delivered"
	SupplierOrderCancelled SupplierOrderStatus = "cancelled"
)

// SupplierOrder is the per-(order, supplier) record produced by fan-out,
// carrying the upstream order id and the profit split.
type SupplierOrder struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index:idx_supplier_orders_order" json:"orderId"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index:idx_supplier_orders_supplier" json:"supplierId"`

	ExternalOrderID string              `gorm:"type:varchar(255);not null" json:"externalOrderId"`
	Status          SupplierOrderStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_supplier_orders_status" json:"status"`

	// TotalAmount is what the customer paid for this supplier's share;
	// SupplierAmount is owed upstream; OurProfit is the difference.
	TotalAmount    float64 `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	SupplierAmount float64 `gorm:"type:decimal(12,2);not null" json:"supplierAmount"`
	OurProfit      float64 `gorm:"type:decimal(12,2);not null" json:"ourProfit"`

	TrackingNumber string `gorm:"type:varchar(255)" json:"trackingNumber,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`

	// Relationships
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

// TableName specifies the table name for SupplierOrder
func (SupplierOrder) TableName() string {
	return "supplier_orders"
}
