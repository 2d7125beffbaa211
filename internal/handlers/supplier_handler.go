package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"supplier-sync-service/internal/models"
	"supplier-sync-service/internal/repository"
)

// SupplierHandler handles supplier administration endpoints
type SupplierHandler struct {
	supplierRepo repository.SupplierRepositoryInterface
	catalogRepo  repository.CatalogRepositoryInterface
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(supplierRepo repository.SupplierRepositoryInterface, catalogRepo repository.CatalogRepositoryInterface) *SupplierHandler {
	return &SupplierHandler{
		supplierRepo: supplierRepo,
		catalogRepo:  catalogRepo,
	}
}

// List returns all suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	suppliers, err := h.supplierRepo.List(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": suppliers})
}

// Get returns a single supplier
func (h *SupplierHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	supplier, err := h.supplierRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "supplier not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": supplier})
}

// CreateSupplierRequest represents the request to register a supplier
type CreateSupplierRequest struct {
	Name           string              `json:"name" binding:"required"`
	Type           models.SupplierType `json:"type" binding:"required"`
	APIEndpoint    string              `json:"apiEndpoint" binding:"required"`
	APIKey         string              `json:"apiKey"`
	APISecret      string              `json:"apiSecret"`
	CommissionRate float64             `json:"commissionRate"`
	Settings       models.JSONB        `json:"settings"`
}

// Create registers a new supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	var req CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Type != models.SupplierAliExpress && req.Type != models.SupplierJumia {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported supplier type: " + string(req.Type)})
		return
	}

	supplier := &models.Supplier{
		Name:           req.Name,
		Type:           req.Type,
		APIEndpoint:    req.APIEndpoint,
		APIKey:         req.APIKey,
		APISecret:      req.APISecret,
		CommissionRate: req.CommissionRate,
		Settings:       req.Settings,
		IsActive:       true,
	}
	if supplier.Settings == nil {
		supplier.Settings = models.JSONB{}
	}

	if err := h.supplierRepo.Create(c.Request.Context(), supplier); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": supplier})
}

// UpdateSupplierRequest represents a partial supplier update
type UpdateSupplierRequest struct {
	Name           *string       `json:"name"`
	APIEndpoint    *string       `json:"apiEndpoint"`
	APIKey         *string       `json:"apiKey"`
	APISecret      *string       `json:"apiSecret"`
	CommissionRate *float64      `json:"commissionRate"`
	Settings       *models.JSONB `json:"settings"`
	IsActive       *bool         `json:"isActive"`
}

// Update modifies a supplier
func (h *SupplierHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	supplier, err := h.supplierRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "supplier not found"})
		return
	}

	var req UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.APIEndpoint != nil {
		supplier.APIEndpoint = *req.APIEndpoint
	}
	if req.APIKey != nil {
		supplier.APIKey = *req.APIKey
	}
	if req.APISecret != nil {
		supplier.APISecret = *req.APISecret
	}
	if req.CommissionRate != nil {
		supplier.CommissionRate = *req.CommissionRate
	}
	if req.Settings != nil {
		supplier.Settings = *req.Settings
	}
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}

	if err := h.supplierRepo.Update(c.Request.Context(), supplier); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": supplier})
}

// Delete removes a supplier
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.supplierRepo.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "supplier deleted"})
}

// ListProducts returns one page of a supplier's mirrored products
func (h *SupplierHandler) ListProducts(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	limit := 50
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}

	products, total, err := h.catalogRepo.ListSupplierProducts(c.Request.Context(), id, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  products,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
