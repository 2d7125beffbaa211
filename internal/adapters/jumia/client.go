package jumia

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"supplier-sync-service/internal/adapters"
	"supplier-sync-service/internal/models"
)

const (
	defaultCurrency = "NGN"
	// Jumia fulfils from regional warehouses; deliveries land inside a week
	// when the listing carries no estimate.
	defaultLeadTimeDays = 5
)

// Client implements SupplierAdapter against a Jumia-style REST API.
type Client struct {
	http        *resty.Client
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a Jumia adapter for one configured supplier.
func NewClient(endpoint, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:        http,
		rateLimiter: rate.NewLimiter(rate.Limit(5), 1), // 5 requests per second
		logger:      logger,
	}
}

// Type returns the supplier type
func (c *Client) Type() models.SupplierType {
	return models.SupplierJumia
}

// FetchProducts pulls one catalogue page; failures read as an empty page.
func (c *Client) FetchProducts(ctx context.Context, page, limit int) ([]adapters.SupplierProduct, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			Products   []jumiaProduct `json:"products"`
			Pagination struct {
				CurrentPage int  `json:"current_page"`
				TotalPages  int  `json:"total_pages"`
				HasNext     bool `json:"has_next"`
			} `json:"pagination"`
		} `json:"data"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("per_page", strconv.Itoa(limit)).
		SetResult(&response).
		Get("/products")
	if err != nil {
		c.logger.Warn("jumia: product fetch failed", zap.Int("page", page), zap.Error(err))
		return []adapters.SupplierProduct{}, nil
	}
	if resp.IsError() || !response.Success {
		c.logger.Warn("jumia: product fetch rejected",
			zap.Int("page", page), zap.Int("status", resp.StatusCode()))
		return []adapters.SupplierProduct{}, nil
	}

	products := make([]adapters.SupplierProduct, 0, len(response.Data.Products))
	for _, p := range response.Data.Products {
		products = append(products, convertProduct(p))
	}
	return products, nil
}

// FetchProductDetails refreshes a single item; missing or unreachable items
// read as (nil, nil).
func (c *Client) FetchProductDetails(ctx context.Context, externalID string) (*adapters.SupplierProduct, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var response struct {
		Success bool         `json:"success"`
		Data    jumiaProduct `json:"data"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&response).
		Get("/products/" + externalID)
	if err != nil || resp.IsError() || !response.Success {
		if err != nil {
			c.logger.Warn("jumia: product details fetch failed",
				zap.String("externalId", externalID), zap.Error(err))
		}
		return nil, nil
	}

	product := convertProduct(response.Data)
	return &product, nil
}

// CheckStock probes live stock; any failure reads as zero.
func (c *Client) CheckStock(ctx context.Context, externalID string) int {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return 0
	}

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			StockCount int `json:"stock_count"`
		} `json:"data"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&response).
		Get("/products/" + externalID + "/stock")
	if err != nil || resp.IsError() || !response.Success {
		if err != nil {
			c.logger.Warn("jumia: stock check failed",
				zap.String("externalId", externalID), zap.Error(err))
		}
		return 0
	}
	if response.Data.StockCount < 0 {
		return 0
	}
	return response.Data.StockCount
}

// CreateOrder places one upstream order; failure travels through the result.
func (c *Client) CreateOrder(ctx context.Context, req *adapters.OrderRequest) *adapters.OrderResult {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return &adapters.OrderResult{Success: false, ErrorMessage: err.Error()}
	}

	items := make([]map[string]interface{}, 0, len(req.Items))
	for _, item := range req.Items {
		entry := map[string]interface{}{
			"sku":      item.ExternalID,
			"quantity": item.Quantity,
		}
		if len(item.Variants) > 0 {
			entry["options"] = item.Variants
		}
		items = append(items, entry)
	}

	payload := map[string]interface{}{
		"order": map[string]interface{}{
			"reference": req.Reference,
			"items":     items,
			"delivery": map[string]string{
				"address_1": req.ShippingAddress.Line1,
				"address_2": req.ShippingAddress.Line2,
				"city":      req.ShippingAddress.City,
				"region":    req.ShippingAddress.State,
				"postcode":  req.ShippingAddress.PostalCode,
				"country":   req.ShippingAddress.Country,
			},
			"recipient": map[string]string{
				"name":  req.CustomerName,
				"email": req.CustomerEmail,
				"phone": req.CustomerPhone,
			},
		},
	}

	var response struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			OrderNumber string `json:"order_number"`
		} `json:"data"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&response).
		SetError(&response).
		Post("/orders")
	if err != nil {
		c.logger.Error("jumia: order placement failed",
			zap.String("reference", req.Reference), zap.Error(err))
		return &adapters.OrderResult{Success: false, ErrorMessage: err.Error()}
	}
	if resp.IsError() || !response.Success || response.Data.OrderNumber == "" {
		message := response.Message
		if message == "" {
			message = fmt.Sprintf("order rejected (status %d)", resp.StatusCode())
		}
		c.logger.Error("jumia: order rejected",
			zap.String("reference", req.Reference), zap.String("message", message))
		return &adapters.OrderResult{Success: false, ErrorMessage: message}
	}

	return &adapters.OrderResult{Success: true, ExternalOrderID: response.Data.OrderNumber}
}

// TrackOrder probes upstream order status; failures read as "unknown".
func (c *Client) TrackOrder(ctx context.Context, externalOrderID string) *adapters.TrackingResult {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return &adapters.TrackingResult{Status: adapters.TrackingStatusUnknown}
	}

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			Status         string `json:"status"`
			TrackingNumber string `json:"tracking_number"`
		} `json:"data"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&response).
		Get("/orders/" + externalOrderID + "/tracking")
	if err != nil || resp.IsError() || !response.Success || response.Data.Status == "" {
		if err != nil {
			c.logger.Warn("jumia: tracking probe failed",
				zap.String("externalOrderId", externalOrderID), zap.Error(err))
		}
		return &adapters.TrackingResult{Status: adapters.TrackingStatusUnknown}
	}

	return &adapters.TrackingResult{
		Status:         response.Data.Status,
		TrackingNumber: response.Data.TrackingNumber,
	}
}

// Jumia wire structures
type jumiaProduct struct {
	SKU           string                 `json:"sku"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	Price         float64                `json:"price"`
	Images        []string               `json:"images"`
	MainCategory  string                 `json:"main_category"`
	SubCategory   string                 `json:"sub_category"`
	Brand         string                 `json:"brand"`
	Attributes    map[string]interface{} `json:"attributes"`
	Options       map[string]interface{} `json:"options"`
	StockCount    int                    `json:"stock_count"`
	Shipping      jumiaShipping          `json:"shipping"`
	RatingAverage float64                `json:"rating_average"`
	RatingCount   int                    `json:"rating_count"`
}

type jumiaShipping struct {
	IsFree        bool    `json:"is_free"`
	Fee           float64 `json:"fee"`
	EstimatedDays int     `json:"estimated_days"`
}

func convertProduct(p jumiaProduct) adapters.SupplierProduct {
	leadTime := p.Shipping.EstimatedDays
	if leadTime <= 0 {
		leadTime = defaultLeadTimeDays
	}
	brand := p.Brand
	if brand == "" {
		brand = "Generic"
	}
	stock := p.StockCount
	if stock < 0 {
		stock = 0
	}

	return adapters.SupplierProduct{
		ExternalID:     p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		OriginalPrice:  p.Price,
		Currency:       defaultCurrency,
		Images:         p.Images,
		Category:       p.MainCategory,
		Subcategory:    p.SubCategory,
		Brand:          brand,
		Specifications: p.Attributes,
		Variants:       p.Options,
		StockQuantity:  stock,
		Shipping: adapters.ShippingInfo{
			FreeShipping: p.Shipping.IsFree,
			LeadTimeDays: leadTime,
			Cost:         p.Shipping.Fee,
		},
		Rating:      p.RatingAverage,
		ReviewCount: p.RatingCount,
	}
}
