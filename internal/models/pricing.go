package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMarkupPercentage applies when no active pricing rule matches.
const DefaultMarkupPercentage = 50.0

// PricingRule maps a product predicate to a markup percentage. Rules are
// evaluated in ascending priority order and the first match wins.
type PricingRule struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name string    `gorm:"type:varchar(255)" json:"name,omitempty"`

	// Optional filters; nil means "matches everything".
	Category *string  `gorm:"type:varchar(255)" json:"category,omitempty"`
	MinPrice *float64 `gorm:"type:decimal(12,2)" json:"minPrice,omitempty"`
	MaxPrice *float64 `gorm:"type:decimal(12,2)" json:"maxPrice,omitempty"`

	MarkupPercentage float64 `gorm:"type:decimal(6,2);not null" json:"markupPercentage"`
	Priority         int     `gorm:"not null;default:100;index:idx_pricing_rules_priority" json:"priority"`
	IsActive         bool    `gorm:"default:true;index:idx_pricing_rules_active" json:"isActive"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for PricingRule
func (PricingRule) TableName() string {
	return "pricing_rules"
}

// Matches reports whether this rule applies to a product with the given
// category and original price.
func (r *PricingRule) Matches(category string, price float64) bool {
	if r.Category != nil && *r.Category != category {
		return false
	}
	if r.MinPrice != nil && price < *r.MinPrice {
		return false
	}
	if r.MaxPrice != nil && price > *r.MaxPrice {
		return false
	}
	return true
}
