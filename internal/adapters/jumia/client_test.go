package jumia

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supplier-sync-service/internal/adapters"
	"supplier-sync-service/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", 5*time.Second, zap.NewNop())
}

func TestType(t *testing.T) {
	client := NewClient("http://example.com", "k", time.Second, zap.NewNop())
	assert.Equal(t, models.SupplierJumia, client.Type())
}

func TestFetchProducts(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "25", r.URL.Query().Get("per_page"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": {
				"products": [{
					"sku": "JM-001",
					"name": "Blender 1.5L",
					"price": 18500,
					"images": ["https://img.example.com/blender.jpg"],
					"main_category": "Home & Kitchen",
					"brand": "Nexus",
					"stock_count": 44,
					"shipping": {"is_free": false, "fee": 900, "estimated_days": 3},
					"rating_average": 4.2,
					"rating_count": 96
				}, {
					"sku": "JM-002",
					"name": "Hand Mixer",
					"price": 7200,
					"images": ["https://img.example.com/mixer.jpg"],
					"stock_count": 10,
					"shipping": {}
				}],
				"pagination": {"current_page": 1, "total_pages": 1, "has_next": false}
			}
		}`))
	}))

	products, err := client.FetchProducts(context.Background(), 1, 25)
	require.NoError(t, err)
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, "JM-001", first.ExternalID)
	assert.Equal(t, "NGN", first.Currency)
	assert.Equal(t, "Home & Kitchen", first.Category)
	assert.Equal(t, "Nexus", first.Brand)
	assert.Equal(t, 44, first.StockQuantity)
	assert.Equal(t, 3, first.Shipping.LeadTimeDays)
	assert.Equal(t, 900.0, first.Shipping.Cost)

	second := products[1]
	assert.Equal(t, "Generic", second.Brand)
	assert.Equal(t, defaultLeadTimeDays, second.Shipping.LeadTimeDays)
}

func TestFetchProductsEnvelopeFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "data": {}}`))
	}))

	products, err := client.FetchProducts(context.Background(), 1, 25)
	assert.NoError(t, err)
	assert.Empty(t, products)
}

func TestFetchProductDetailsMissing(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	product, err := client.FetchProductDetails(context.Background(), "gone")
	assert.NoError(t, err)
	assert.Nil(t, product)
}

func TestCheckStockFailsSafeLow(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	assert.Equal(t, 0, client.CheckStock(context.Background(), "JM-001"))
}

func TestCreateOrder(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"success": true, "data": {"order_number": "JMO-4321"}}`))
	}))

	result := client.CreateOrder(context.Background(), &adapters.OrderRequest{
		Reference: "ORD-2001",
		Items:     []adapters.OrderLine{{ExternalID: "JM-001", Quantity: 1}},
	})
	require.True(t, result.Success)
	assert.Equal(t, "JMO-4321", result.ExternalOrderID)
}

func TestCreateOrderRejected(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success": false, "message": "item unavailable"}`))
	}))

	result := client.CreateOrder(context.Background(), &adapters.OrderRequest{Reference: "ORD-2002"})
	assert.False(t, result.Success)
	assert.Equal(t, "item unavailable", result.ErrorMessage)
}

func TestTrackOrderFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	result := client.TrackOrder(context.Background(), "JMO-4321")
	assert.Equal(t, adapters.TrackingStatusUnknown, result.Status)
}
