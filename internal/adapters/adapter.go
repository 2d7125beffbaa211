package adapters

import (
	"context"
	"fmt"
	"math"

	"supplier-sync-service/internal/models"
)

// SupplierAdapter normalizes one external marketplace's API into the uniform
// product/order shape the rest of the system works with.
//
// Transport and protocol failures never escape an adapter. Each operation has
// a documented failure sentinel instead: FetchProducts returns an empty slice,
// FetchProductDetails returns (nil, nil), CheckStock returns 0 (fail-safe-low
// so we never oversell), CreateOrder reports through Result.Success, and
// TrackOrder reports TrackingStatusUnknown. The error return on the fetch
// operations is reserved for context cancellation.
type SupplierAdapter interface {
	// Type returns the supplier type this adapter implements
	Type() models.SupplierType

	// FetchProducts pulls one page of the upstream catalogue
	FetchProducts(ctx context.Context, page, limit int) ([]SupplierProduct, error)

	// FetchProductDetails refreshes a single item; (nil, nil) means the
	// upstream item no longer exists or could not be reached
	FetchProductDetails(ctx context.Context, externalID string) (*SupplierProduct, error)

	// CheckStock probes live stock for an item
	CheckStock(ctx context.Context, externalID string) int

	// CreateOrder places one upstream order for line items belonging to
	// this supplier only
	CreateOrder(ctx context.Context, req *OrderRequest) *OrderResult

	// TrackOrder probes the status of a previously placed upstream order
	TrackOrder(ctx context.Context, externalOrderID string) *TrackingResult
}

// SupplierProduct is the adapter's uniform output: one upstream product
// normalized to the internal shape. It is transient; reconciliation projects
// it into the persisted tables.
type SupplierProduct struct {
	ExternalID     string                 `json:"externalId"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description,omitempty"`
	OriginalPrice  float64                `json:"originalPrice"`
	Currency       string                 `json:"currency"`
	Images         []string               `json:"images"`
	Category       string                 `json:"category,omitempty"`
	Subcategory    string                 `json:"subcategory,omitempty"`
	Brand          string                 `json:"brand,omitempty"`
	Specifications map[string]interface{} `json:"specifications,omitempty"`
	Variants       map[string]interface{} `json:"variants,omitempty"`
	StockQuantity  int                    `json:"stockQuantity"`
	Shipping       ShippingInfo           `json:"shipping"`
	Rating         float64                `json:"rating,omitempty"`
	ReviewCount    int                    `json:"reviewCount,omitempty"`
}

// ShippingInfo carries the marketplace's shipping convention, normalized by
// the owning adapter.
type ShippingInfo struct {
	FreeShipping bool    `json:"freeShipping"`
	LeadTimeDays int     `json:"leadTimeDays"`
	Cost         float64 `json:"cost"`
}

// Validate checks the minimum fields reconciliation depends on. Products that
// fail validation are counted as sync errors, never silently dropped.
func (p *SupplierProduct) Validate() error {
	if p.ExternalID == "" {
		return fmt.Errorf("missing external id")
	}
	if p.Name == "" {
		return fmt.Errorf("product %s: missing name", p.ExternalID)
	}
	if p.OriginalPrice <= 0 {
		return fmt.Errorf("product %s: price must be positive, got %.2f", p.ExternalID, p.OriginalPrice)
	}
	if len(p.Images) == 0 {
		return fmt.Errorf("product %s: no images", p.ExternalID)
	}
	return nil
}

// CalculateSellingPrice applies a percentage markup to a supplier price,
// rounded to 2 decimals.
func CalculateSellingPrice(original, markupPct float64) float64 {
	return math.Round(original*(1+markupPct/100)*100) / 100
}

// OrderRequest is the upstream order payload for one supplier's share of a
// customer order.
type OrderRequest struct {
	Reference       string      `json:"reference"`
	Items           []OrderLine `json:"items"`
	ShippingAddress Address     `json:"shippingAddress"`
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail"`
	CustomerPhone   string      `json:"customerPhone,omitempty"`
}

// OrderLine is one upstream line item, keyed by the supplier's external id.
type OrderLine struct {
	ExternalID string                 `json:"externalId"`
	Quantity   int                    `json:"quantity"`
	Variants   map[string]interface{} `json:"variants,omitempty"`
}

// Address is the normalized shipping address sent upstream.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country"`
}

// OrderResult communicates order placement outcome. Failure travels through
// Success=false so the caller can continue with other suppliers.
type OrderResult struct {
	Success         bool   `json:"success"`
	ExternalOrderID string `json:"externalOrderId,omitempty"`
	ErrorMessage    string `json:"errorMessage,omitempty"`
}

// TrackingStatusUnknown is returned when the upstream tracking probe fails.
const TrackingStatusUnknown = "unknown"

// TrackingResult is a best-effort upstream order status.
type TrackingResult struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
}

// UnsupportedSupplierError is returned when a supplier's adapter type tag is
// not registered.
type UnsupportedSupplierError struct {
	SupplierType string
}

func (e *UnsupportedSupplierError) Error() string {
	return "unsupported supplier type: " + e.SupplierType
}
