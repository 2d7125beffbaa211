package models

import (
	"time"

	"github.com/google/uuid"
)

// SupplierProduct is the persisted mirror of one upstream product. Uniqueness
// is enforced on (supplier_id, external_id); rows are updated in place on
// every sync and never deleted by the sync subsystem.
type SupplierProduct struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_supplier_products_external" json:"supplierId"`
	ExternalID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_supplier_products_external" json:"externalId"`

	Name          string     `gorm:"type:varchar(500);not null" json:"name"`
	Description   string     `gorm:"type:text" json:"description,omitempty"`
	OriginalPrice float64    `gorm:"type:decimal(12,2);not null" json:"originalPrice"`
	Currency      string     `gorm:"type:varchar(3);not null" json:"currency"`
	Images        StringList `gorm:"type:jsonb;default:'[]'" json:"images"`

	Category    string `gorm:"type:varchar(255)" json:"category,omitempty"`
	Subcategory string `gorm:"type:varchar(255)" json:"subcategory,omitempty"`
	Brand       string `gorm:"type:varchar(255)" json:"brand,omitempty"`

	Specifications JSONB `gorm:"type:jsonb;default:'{}'" json:"specifications,omitempty"`
	Variants       JSONB `gorm:"type:jsonb;default:'{}'" json:"variants,omitempty"`

	StockQuantity int `gorm:"default:0" json:"stockQuantity"`

	// Shipping convention as encoded by the owning adapter.
	FreeShipping     bool    `gorm:"default:false" json:"freeShipping"`
	ShippingLeadDays int     `gorm:"default:0" json:"shippingLeadDays"`
	ShippingCost     float64 `gorm:"type:decimal(10,2);default:0" json:"shippingCost"`

	Rating      float64 `gorm:"type:decimal(3,2);default:0" json:"rating"`
	ReviewCount int     `gorm:"default:0" json:"reviewCount"`

	LastUpdated time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"lastUpdated"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`

	// Relationships
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

// TableName specifies the table name for SupplierProduct
func (SupplierProduct) TableName() string {
	return "supplier_products"
}

// Product is the customer-facing catalogue row. Supplier-managed rows carry
// auto_sync=true and a link back to their SupplierProduct.
type Product struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string     `gorm:"type:varchar(500);not null" json:"name"`
	Slug        string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_products_slug" json:"slug"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Images      StringList `gorm:"type:jsonb;default:'[]'" json:"images"`

	CategoryID uuid.UUID `gorm:"type:uuid;index:idx_products_category" json:"categoryId"`

	Price            float64  `gorm:"type:decimal(12,2);not null" json:"price"`
	SalePrice        *float64 `gorm:"type:decimal(12,2)" json:"salePrice,omitempty"`
	CostPrice        float64  `gorm:"type:decimal(12,2);not null" json:"costPrice"`
	MarkupPercentage float64  `gorm:"type:decimal(6,2);not null" json:"markupPercentage"`
	ProfitMargin     float64  `gorm:"type:decimal(12,2);not null" json:"profitMargin"`

	Specifications JSONB `gorm:"type:jsonb;default:'{}'" json:"specifications,omitempty"`
	StockQuantity  int   `gorm:"default:0" json:"stockQuantity"`

	SupplierProductID *uuid.UUID `gorm:"type:uuid;index:idx_products_supplier_product" json:"supplierProductId,omitempty"`
	AutoSync          bool       `gorm:"default:false" json:"autoSync"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`

	// Relationships
	Category        *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SupplierProduct *SupplierProduct `gorm:"foreignKey:SupplierProductID" json:"supplierProduct,omitempty"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// Category groups catalogue products. Created on demand during reconciliation
// when a supplier category has no local counterpart.
type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_categories_name" json:"name"`
	Slug string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_categories_slug" json:"slug"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categories"
}
