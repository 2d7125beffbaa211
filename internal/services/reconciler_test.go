package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supplier-sync-service/internal/adapters"
	"supplier-sync-service/internal/models"
)

func defaultPricingEngine() *PricingEngine {
	repo := new(MockPricingRepository)
	repo.On("ListActive", mock.Anything).Return([]models.PricingRule{}, nil)
	return NewPricingEngine(repo, 50, zap.NewNop())
}

func testWidget() adapters.SupplierProduct {
	return adapters.SupplierProduct{
		ExternalID:    "ext-widget",
		Name:          "Widget",
		Description:   "A fine widget",
		OriginalPrice: 10.00,
		Currency:      "USD",
		Images:        []string{"https://img.example.com/widget.jpg"},
		Category:      "Gadgets",
		StockQuantity: 25,
		Shipping:      adapters.ShippingInfo{LeadTimeDays: 7},
	}
}

func TestReconcileImportsNewProduct(t *testing.T) {
	catalog := newFakeCatalogRepo()
	reconciler := NewCatalogueReconciler(catalog, defaultPricingEngine(), false, zap.NewNop())
	supplier := &models.Supplier{ID: uuid.New(), Name: "Ali", Type: models.SupplierAliExpress}

	action, err := reconciler.Reconcile(context.Background(), supplier, testWidget())
	require.NoError(t, err)
	assert.Equal(t, ReconcileImported, action)

	mirror, err := catalog.GetSupplierProduct(context.Background(), supplier.ID, "ext-widget")
	require.NoError(t, err)
	require.NotNil(t, mirror)
	assert.Equal(t, 10.00, mirror.OriginalPrice)
	assert.Equal(t, 25, mirror.StockQuantity)

	product, err := catalog.GetProductBySupplierProduct(context.Background(), mirror.ID)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "widget", product.Slug)
	assert.Equal(t, 15.00, product.Price)
	assert.Equal(t, 10.00, product.CostPrice)
	assert.Equal(t, 50.0, product.MarkupPercentage)
	assert.Equal(t, 5.00, product.ProfitMargin)
	assert.True(t, product.AutoSync)
	assert.Equal(t, 25, product.StockQuantity)

	category, err := catalog.GetOrCreateCategory(context.Background(), "Gadgets", "gadgets")
	require.NoError(t, err)
	assert.Equal(t, category.ID, product.CategoryID)
}

func TestReconcileUpdatesExistingProduct(t *testing.T) {
	catalog := newFakeCatalogRepo()
	reconciler := NewCatalogueReconciler(catalog, defaultPricingEngine(), false, zap.NewNop())
	supplier := &models.Supplier{ID: uuid.New(), Name: "Ali", Type: models.SupplierAliExpress}

	_, err := reconciler.Reconcile(context.Background(), supplier, testWidget())
	require.NoError(t, err)

	// Upstream price and stock moved; with repricing off the selling price
	// must hold while cost and margin track the change.
	changed := testWidget()
	changed.OriginalPrice = 12.00
	changed.StockQuantity = 3

	action, err := reconciler.Reconcile(context.Background(), supplier, changed)
	require.NoError(t, err)
	assert.Equal(t, ReconcileUpdated, action)

	mirror, _ := catalog.GetSupplierProduct(context.Background(), supplier.ID, "ext-widget")
	assert.Equal(t, 12.00, mirror.OriginalPrice)
	assert.Equal(t, 3, mirror.StockQuantity)

	product, _ := catalog.GetProductBySupplierProduct(context.Background(), mirror.ID)
	assert.Equal(t, 15.00, product.Price)
	assert.Equal(t, 12.00, product.CostPrice)
	assert.Equal(t, 3.00, product.ProfitMargin)
	assert.Equal(t, 3, product.StockQuantity)
}

func TestReconcileRepriceOnSync(t *testing.T) {
	catalog := newFakeCatalogRepo()
	reconciler := NewCatalogueReconciler(catalog, defaultPricingEngine(), true, zap.NewNop())
	supplier := &models.Supplier{ID: uuid.New(), Name: "Ali", Type: models.SupplierAliExpress}

	_, err := reconciler.Reconcile(context.Background(), supplier, testWidget())
	require.NoError(t, err)

	changed := testWidget()
	changed.OriginalPrice = 20.00
	_, err = reconciler.Reconcile(context.Background(), supplier, changed)
	require.NoError(t, err)

	mirror, _ := catalog.GetSupplierProduct(context.Background(), supplier.ID, "ext-widget")
	product, _ := catalog.GetProductBySupplierProduct(context.Background(), mirror.ID)
	assert.Equal(t, 30.00, product.Price)
	assert.Equal(t, 10.00, product.ProfitMargin)
}

func TestReconcileSkipsPinnedProjection(t *testing.T) {
	catalog := newFakeCatalogRepo()
	reconciler := NewCatalogueReconciler(catalog, defaultPricingEngine(), false, zap.NewNop())
	supplier := &models.Supplier{ID: uuid.New(), Name: "Ali", Type: models.SupplierAliExpress}

	_, err := reconciler.Reconcile(context.Background(), supplier, testWidget())
	require.NoError(t, err)

	// A curator pinned the projection; sync must leave it alone.
	mirror, _ := catalog.GetSupplierProduct(context.Background(), supplier.ID, "ext-widget")
	product, _ := catalog.GetProductBySupplierProduct(context.Background(), mirror.ID)
	product.AutoSync = false
	product.StockQuantity = 999
	require.NoError(t, catalog.UpdateProduct(context.Background(), product))

	changed := testWidget()
	changed.StockQuantity = 1
	_, err = reconciler.Reconcile(context.Background(), supplier, changed)
	require.NoError(t, err)

	product, _ = catalog.GetProductBySupplierProduct(context.Background(), mirror.ID)
	assert.Equal(t, 999, product.StockQuantity)

	// The mirror still tracks upstream.
	mirror, _ = catalog.GetSupplierProduct(context.Background(), supplier.ID, "ext-widget")
	assert.Equal(t, 1, mirror.StockQuantity)
}

func TestReconcileRejectsInvalidProduct(t *testing.T) {
	catalog := newFakeCatalogRepo()
	reconciler := NewCatalogueReconciler(catalog, defaultPricingEngine(), false, zap.NewNop())
	supplier := &models.Supplier{ID: uuid.New(), Name: "Ali", Type: models.SupplierAliExpress}

	invalid := testWidget()
	invalid.OriginalPrice = 0
	_, err := reconciler.Reconcile(context.Background(), supplier, invalid)
	assert.Error(t, err)

	mirror, _ := catalog.GetSupplierProduct(context.Background(), supplier.ID, "ext-widget")
	assert.Nil(t, mirror)
}

func TestReconcileResolvesSlugCollisions(t *testing.T) {
	catalog := newFakeCatalogRepo()
	reconciler := NewCatalogueReconciler(catalog, defaultPricingEngine(), false, zap.NewNop())
	supplier := &models.Supplier{ID: uuid.New(), Name: "Ali", Type: models.SupplierAliExpress}

	first := testWidget()
	first.ExternalID = "ext-1"
	first.Name = "Great Phone"
	second := testWidget()
	second.ExternalID = "ext-2"
	second.Name = "Great Phone"

	_, err := reconciler.Reconcile(context.Background(), supplier, first)
	require.NoError(t, err)
	_, err = reconciler.Reconcile(context.Background(), supplier, second)
	require.NoError(t, err)

	mirror1, _ := catalog.GetSupplierProduct(context.Background(), supplier.ID, "ext-1")
	mirror2, _ := catalog.GetSupplierProduct(context.Background(), supplier.ID, "ext-2")
	product1, _ := catalog.GetProductBySupplierProduct(context.Background(), mirror1.ID)
	product2, _ := catalog.GetProductBySupplierProduct(context.Background(), mirror2.ID)

	assert.Equal(t, "great-phone", product1.Slug)
	assert.Equal(t, "great-phone-1", product2.Slug)
}

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"simple", "Widget", "widget"},
		{"spaces and case", "Great Phone", "great-phone"},
		{"special characters", "USB-C Cable (2m) — 60W!", "usb-c-cable-2m-60w"},
		{"collapses separators", "a   &&&   b", "a-b"},
		{"trailing junk", "Widget!!!", "widget"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, deriveSlug(tt.in))
		})
	}

	long := deriveSlug(strings.Repeat("very long product name ", 10))
	assert.LessOrEqual(t, len(long), maxSlugLength)
	assert.False(t, strings.HasSuffix(long, "-"))
}
