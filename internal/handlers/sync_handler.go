package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"supplier-sync-service/internal/repository"
	"supplier-sync-service/internal/services"
)

// SyncHandler handles sync trigger and sync log endpoints
type SyncHandler struct {
	orchestrator *services.SyncOrchestrator
	syncRepo     repository.SyncRepositoryInterface
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(orchestrator *services.SyncOrchestrator, syncRepo repository.SyncRepositoryInterface) *SyncHandler {
	return &SyncHandler{
		orchestrator: orchestrator,
		syncRepo:     syncRepo,
	}
}

// TriggerSync starts a background product sync for a supplier and returns the
// running log immediately.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
		return
	}

	syncLog, err := h.orchestrator.StartSync(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSyncInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrSupplierInactive):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "supplier not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"data": syncLog})
}

// CancelSync cancels a running background sync
func (h *SyncHandler) CancelSync(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
		return
	}

	if !h.orchestrator.CancelSync(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no running sync for supplier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "sync cancelled"})
}

// RefreshStock runs a synchronous stock refresh for a supplier
func (h *SyncHandler) RefreshStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
		return
	}

	syncLog, err := h.orchestrator.RefreshStock(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSupplierInactive):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "supplier not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": syncLog})
}

// RefreshProduct re-fetches one product from the supplier and reconciles it
func (h *SyncHandler) RefreshProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
		return
	}
	externalID := c.Param("externalId")

	mirror, err := h.orchestrator.RefreshProduct(c.Request.Context(), id, externalID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSupplierInactive):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrProductUnknown):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "supplier not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": mirror})
}

// GetLog returns a single sync log
func (h *SyncHandler) GetLog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	syncLog, err := h.syncRepo.GetLog(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sync log not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": syncLog})
}

// ListLogs returns recent sync logs, optionally filtered by supplier
func (h *SyncHandler) ListLogs(c *gin.Context) {
	var supplierID *uuid.UUID
	if s := c.Query("supplierId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplierId"})
			return
		}
		supplierID = &id
	}

	limit := 50
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}

	logs, err := h.syncRepo.ListLogs(c.Request.Context(), supplierID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs})
}
