package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SupplierType identifies which adapter implementation talks to a supplier.
type SupplierType string

const (
	SupplierAliExpress SupplierType = "ALIEXPRESS"
	SupplierJumia      SupplierType = "JUMIA"
)

// JSONB custom type for PostgreSQL JSONB
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// StringList stores a list of strings as a JSONB array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(l))
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Supplier represents one configured upstream marketplace. Credentials are
// opaque to the sync subsystem; an APIKey of the form "gcp-secret://name" is
// resolved through Secret Manager when the adapter is built.
type Supplier struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Type        SupplierType `gorm:"type:varchar(50);not null;index:idx_suppliers_type" json:"type"`
	APIEndpoint string       `gorm:"type:varchar(500);not null" json:"apiEndpoint"`
	APIKey      string       `gorm:"type:varchar(500)" json:"-"`
	APISecret   string       `gorm:"type:varchar(500)" json:"-"`

	// Share of a supplier order's customer total kept as platform profit.
	// Zero means "use the configured default".
	CommissionRate float64 `gorm:"type:decimal(5,4);default:0" json:"commissionRate"`

	Settings JSONB `gorm:"type:jsonb;default:'{}'" json:"settings,omitempty"`

	IsActive   bool       `gorm:"default:true;index:idx_suppliers_active" json:"isActive"`
	LastSyncAt *time.Time `json:"lastSyncAt,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for Supplier
func (Supplier) TableName() string {
	return "suppliers"
}

// AutoSyncEnabled reports whether the scheduler should include this supplier.
func (s *Supplier) AutoSyncEnabled() bool {
	if !s.IsActive {
		return false
	}
	if v, ok := s.Settings["auto_sync_enabled"].(bool); ok {
		return v
	}
	return false
}
