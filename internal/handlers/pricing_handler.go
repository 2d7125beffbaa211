package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"supplier-sync-service/internal/models"
	"supplier-sync-service/internal/repository"
)

// PricingHandler handles pricing rule administration endpoints
type PricingHandler struct {
	pricingRepo repository.PricingRepositoryInterface
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricingRepo repository.PricingRepositoryInterface) *PricingHandler {
	return &PricingHandler{pricingRepo: pricingRepo}
}

// List returns all pricing rules in evaluation order
func (h *PricingHandler) List(c *gin.Context) {
	rules, err := h.pricingRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rules})
}

// CreatePricingRuleRequest represents the request to create a pricing rule
type CreatePricingRuleRequest struct {
	Name             string   `json:"name"`
	Category         *string  `json:"category"`
	MinPrice         *float64 `json:"minPrice"`
	MaxPrice         *float64 `json:"maxPrice"`
	MarkupPercentage float64  `json:"markupPercentage" binding:"required,gt=0"`
	Priority         int      `json:"priority"`
}

// Create inserts a new pricing rule
func (h *PricingHandler) Create(c *gin.Context) {
	var req CreatePricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minPrice must not exceed maxPrice"})
		return
	}

	rule := &models.PricingRule{
		Name:             req.Name,
		Category:         req.Category,
		MinPrice:         req.MinPrice,
		MaxPrice:         req.MaxPrice,
		MarkupPercentage: req.MarkupPercentage,
		Priority:         req.Priority,
		IsActive:         true,
	}
	if rule.Priority == 0 {
		rule.Priority = 100
	}

	if err := h.pricingRepo.Create(c.Request.Context(), rule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": rule})
}

// UpdatePricingRuleRequest represents a partial pricing rule update
type UpdatePricingRuleRequest struct {
	Name             *string  `json:"name"`
	Category         *string  `json:"category"`
	MinPrice         *float64 `json:"minPrice"`
	MaxPrice         *float64 `json:"maxPrice"`
	MarkupPercentage *float64 `json:"markupPercentage"`
	Priority         *int     `json:"priority"`
	IsActive         *bool    `json:"isActive"`
}

// Update modifies a pricing rule
func (h *PricingHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	rule, err := h.pricingRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pricing rule not found"})
		return
	}

	var req UpdatePricingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Category != nil {
		rule.Category = req.Category
	}
	if req.MinPrice != nil {
		rule.MinPrice = req.MinPrice
	}
	if req.MaxPrice != nil {
		rule.MaxPrice = req.MaxPrice
	}
	if req.MarkupPercentage != nil {
		rule.MarkupPercentage = *req.MarkupPercentage
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := h.pricingRepo.Update(c.Request.Context(), rule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rule})
}

// Delete removes a pricing rule
func (h *PricingHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.pricingRepo.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "pricing rule deleted"})
}
