package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"supplier-sync-service/internal/repository"
	"supplier-sync-service/internal/services"
)

// OrderHandler handles order fan-out and tracking endpoints
type OrderHandler struct {
	router    *services.OrderFanoutRouter
	orderRepo repository.OrderRepositoryInterface
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(router *services.OrderFanoutRouter, orderRepo repository.OrderRepositoryInterface) *OrderHandler {
	return &OrderHandler{
		router:    router,
		orderRepo: orderRepo,
	}
}

// Route fans a confirmed order out to its suppliers
func (h *OrderHandler) Route(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	result, err := h.router.RouteOrder(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotRoutable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadyRouted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	status := http.StatusOK
	if !result.AllPlaced {
		// Partial placements are reported, not rolled back.
		status = http.StatusMultiStatus
	}
	c.JSON(status, gin.H{"data": result})
}

// ListSupplierOrders returns the supplier orders produced for one order
func (h *OrderHandler) ListSupplierOrders(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	supplierOrders, err := h.orderRepo.ListSupplierOrders(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": supplierOrders})
}

// RefreshTracking probes upstream tracking for a supplier order
func (h *OrderHandler) RefreshTracking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier order id"})
		return
	}

	supplierOrder, err := h.router.RefreshTracking(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "supplier order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": supplierOrder})
}
