package aliexpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"supplier-sync-service/internal/adapters"
	"supplier-sync-service/internal/models"
)

const (
	defaultCurrency = "USD"
	// AliExpress quotes door-to-door delivery in a wide window; 20 days is
	// the midpoint used when the listing carries no estimate.
	defaultLeadTimeDays = 20
)

// Client implements SupplierAdapter against an AliExpress-style REST API.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	apiKey      string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates an AliExpress adapter for one configured supplier.
func NewClient(endpoint, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		endpoint:    endpoint,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(10), 1), // 10 requests per second
		logger:      logger,
	}
}

// Type returns the supplier type
func (c *Client) Type() models.SupplierType {
	return models.SupplierAliExpress
}

// FetchProducts pulls one catalogue page. Transport and parse failures are
// logged and reported as an empty page so one supplier's outage cannot block
// the others.
func (c *Client) FetchProducts(ctx context.Context, page, limit int) ([]adapters.SupplierProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.doRequest(ctx, http.MethodGet, "/products", params, nil)
	if err != nil {
		c.logger.Warn("aliexpress: product fetch failed",
			zap.Int("page", page), zap.Error(err))
		return []adapters.SupplierProduct{}, nil
	}

	var response struct {
		Products []aliProduct `json:"products"`
		Total    int          `json:"total"`
		HasMore  bool         `json:"has_more"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		c.logger.Warn("aliexpress: malformed products response",
			zap.Int("page", page), zap.Error(err))
		return []adapters.SupplierProduct{}, nil
	}

	products := make([]adapters.SupplierProduct, 0, len(response.Products))
	for _, p := range response.Products {
		products = append(products, convertProduct(p))
	}
	return products, nil
}

// FetchProductDetails refreshes a single item. A missing or unreachable item
// is reported as (nil, nil).
func (c *Client) FetchProductDetails(ctx context.Context, externalID string) (*adapters.SupplierProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/products/"+url.PathEscape(externalID), nil, nil)
	if err != nil {
		c.logger.Warn("aliexpress: product details fetch failed",
			zap.String("externalId", externalID), zap.Error(err))
		return nil, nil
	}

	var p aliProduct
	if err := json.Unmarshal(body, &p); err != nil {
		c.logger.Warn("aliexpress: malformed product details response",
			zap.String("externalId", externalID), zap.Error(err))
		return nil, nil
	}

	product := convertProduct(p)
	return &product, nil
}

// CheckStock probes live stock; any failure reads as zero.
func (c *Client) CheckStock(ctx context.Context, externalID string) int {
	body, err := c.doRequest(ctx, http.MethodGet, "/products/"+url.PathEscape(externalID)+"/stock", nil, nil)
	if err != nil {
		c.logger.Warn("aliexpress: stock check failed",
			zap.String("externalId", externalID), zap.Error(err))
		return 0
	}

	var response struct {
		Stock int `json:"stock"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return 0
	}
	if response.Stock < 0 {
		return 0
	}
	return response.Stock
}

// CreateOrder places one upstream order. Failure is reported through the
// result, never as an error.
func (c *Client) CreateOrder(ctx context.Context, req *adapters.OrderRequest) *adapters.OrderResult {
	payload := map[string]interface{}{
		"reference": req.Reference,
		"items":     orderLines(req.Items),
		"shipping_address": map[string]string{
			"line1":       req.ShippingAddress.Line1,
			"line2":       req.ShippingAddress.Line2,
			"city":        req.ShippingAddress.City,
			"state":       req.ShippingAddress.State,
			"postal_code": req.ShippingAddress.PostalCode,
			"country":     req.ShippingAddress.Country,
		},
		"customer": map[string]string{
			"name":  req.CustomerName,
			"email": req.CustomerEmail,
			"phone": req.CustomerPhone,
		},
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/orders", nil, payload)
	if err != nil {
		c.logger.Error("aliexpress: order placement failed",
			zap.String("reference", req.Reference), zap.Error(err))
		return &adapters.OrderResult{Success: false, ErrorMessage: err.Error()}
	}

	var response struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(body, &response); err != nil || response.OrderID == "" {
		c.logger.Error("aliexpress: malformed order response",
			zap.String("reference", req.Reference))
		return &adapters.OrderResult{Success: false, ErrorMessage: "malformed order response"}
	}

	return &adapters.OrderResult{Success: true, ExternalOrderID: response.OrderID}
}

// TrackOrder probes upstream order status; failures read as "unknown".
func (c *Client) TrackOrder(ctx context.Context, externalOrderID string) *adapters.TrackingResult {
	body, err := c.doRequest(ctx, http.MethodGet, "/orders/"+url.PathEscape(externalOrderID)+"/tracking", nil, nil)
	if err != nil {
		c.logger.Warn("aliexpress: tracking probe failed",
			zap.String("externalOrderId", externalOrderID), zap.Error(err))
		return &adapters.TrackingResult{Status: adapters.TrackingStatusUnknown}
	}

	var response struct {
		Status         string `json:"status"`
		TrackingNumber string `json:"tracking_number"`
	}
	if err := json.Unmarshal(body, &response); err != nil || response.Status == "" {
		return &adapters.TrackingResult{Status: adapters.TrackingStatusUnknown}
	}

	return &adapters.TrackingResult{
		Status:         response.Status,
		TrackingNumber: response.TrackingNumber,
	}
}

// doRequest performs an authenticated HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, body interface{}) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	fullURL := c.endpoint + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("aliexpress API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// AliExpress wire structures
type aliProduct struct {
	ProductID      string                 `json:"product_id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Price          float64                `json:"price"`
	ImageURLs      []string               `json:"image_urls"`
	Category       string                 `json:"category"`
	Subcategory    string                 `json:"subcategory"`
	Brand          string                 `json:"brand"`
	Specifications map[string]interface{} `json:"specifications"`
	Variants       map[string]interface{} `json:"variants"`
	Stock          int                    `json:"stock"`
	FreeShipping   bool                   `json:"free_shipping"`
	ShippingCost   float64                `json:"shipping_cost"`
	DeliveryDays   int                    `json:"delivery_days"`
	Rating         float64                `json:"rating"`
	ReviewsCount   int                    `json:"reviews_count"`
}

func convertProduct(p aliProduct) adapters.SupplierProduct {
	leadTime := p.DeliveryDays
	if leadTime <= 0 {
		leadTime = defaultLeadTimeDays
	}
	brand := p.Brand
	if brand == "" {
		brand = "Generic"
	}
	stock := p.Stock
	if stock < 0 {
		stock = 0
	}

	return adapters.SupplierProduct{
		ExternalID:     p.ProductID,
		Name:           p.Title,
		Description:    p.Description,
		OriginalPrice:  p.Price,
		Currency:       defaultCurrency,
		Images:         p.ImageURLs,
		Category:       p.Category,
		Subcategory:    p.Subcategory,
		Brand:          brand,
		Specifications: p.Specifications,
		Variants:       p.Variants,
		StockQuantity:  stock,
		Shipping: adapters.ShippingInfo{
			FreeShipping: p.FreeShipping,
			LeadTimeDays: leadTime,
			Cost:         p.ShippingCost,
		},
		Rating:      p.Rating,
		ReviewCount: p.ReviewsCount,
	}
}

func orderLines(items []adapters.OrderLine) []map[string]interface{} {
	lines := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		line := map[string]interface{}{
			"product_id": item.ExternalID,
			"quantity":   item.Quantity,
		}
		if len(item.Variants) > 0 {
			line["variants"] = item.Variants
		}
		lines = append(lines, line)
	}
	return lines
}
