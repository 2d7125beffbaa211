package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"supplier-sync-service/internal/adapters"
	"supplier-sync-service/internal/models"
	"supplier-sync-service/internal/repository"
)

var (
	// ErrOrderNotRoutable is returned when fan-out is requested for an order
	// that is not in the confirmed state.
	ErrOrderNotRoutable = errors.New("order is not confirmed")
	// ErrAlreadyRouted is returned when an order already has supplier orders.
	ErrAlreadyRouted = errors.New("order has already been routed")
)

// FanoutResult reports what one routing pass produced. AllPlaced is false
// when at least one supplier rejected its share; the rows that did land are
// still returned so fulfilment can proceed supplier by supplier.
type FanoutResult struct {
	SupplierOrders []models.SupplierOrder `json:"supplierOrders"`
	AllPlaced      bool                   `json:"allPlaced"`
	SkippedItems   int                    `json:"skippedItems"`
}

// OrderFanoutRouter splits a confirmed customer order across its suppliers,
// places one upstream order per supplier, and records the profit split.
type OrderFanoutRouter struct {
	orderRepo         repository.OrderRepositoryInterface
	supplierRepo      repository.SupplierRepositoryInterface
	adapters          AdapterProvider
	defaultCommission float64
	logger            *zap.Logger
}

// NewOrderFanoutRouter creates a new order fan-out router
func NewOrderFanoutRouter(
	orderRepo repository.OrderRepositoryInterface,
	supplierRepo repository.SupplierRepositoryInterface,
	adapters AdapterProvider,
	defaultCommission float64,
	logger *zap.Logger,
) *OrderFanoutRouter {
	return &OrderFanoutRouter{
		orderRepo:         orderRepo,
		supplierRepo:      supplierRepo,
		adapters:          adapters,
		defaultCommission: defaultCommission,
		logger:            logger,
	}
}

// RouteOrder fans a confirmed order out to its suppliers. One supplier's
// placement failure never blocks the others; the aggregate outcome travels
// through FanoutResult.AllPlaced.
func (r *OrderFanoutRouter) RouteOrder(ctx context.Context, orderID uuid.UUID) (*FanoutResult, error) {
	order, err := r.orderRepo.GetOrderWithItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", orderID, err)
	}
	if order.Status != models.OrderStatusConfirmed {
		return nil, ErrOrderNotRoutable
	}

	existing, err := r.orderRepo.ListSupplierOrders(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("supplier orders for %s: %w", orderID, err)
	}
	if len(existing) > 0 {
		return nil, ErrAlreadyRouted
	}

	groups, skipped := groupBySupplier(order.Items)

	// Stable supplier order keeps retries and logs deterministic.
	supplierIDs := make([]uuid.UUID, 0, len(groups))
	for id := range groups {
		supplierIDs = append(supplierIDs, id)
	}
	sort.Slice(supplierIDs, func(i, j int) bool {
		return supplierIDs[i].String() < supplierIDs[j].String()
	})

	result := &FanoutResult{AllPlaced: true, SkippedItems: skipped}
	for _, supplierID := range supplierIDs {
		supplierOrder, ok := r.placeSupplierOrder(ctx, order, supplierID, groups[supplierID])
		if !ok {
			result.AllPlaced = false
			continue
		}
		result.SupplierOrders = append(result.SupplierOrders, *supplierOrder)
	}
	return result, nil
}

// placeSupplierOrder places one supplier's share upstream and persists the
// resulting supplier order with its profit split.
func (r *OrderFanoutRouter) placeSupplierOrder(ctx context.Context, order *models.Order, supplierID uuid.UUID, items []models.OrderItem) (*models.SupplierOrder, bool) {
	supplier, err := r.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		r.logger.Error("fan-out: supplier lookup failed",
			zap.String("orderId", order.ID.String()),
			zap.String("supplierId", supplierID.String()),
			zap.Error(err))
		return nil, false
	}

	adapter, err := r.adapters.ForSupplier(ctx, supplier)
	if err != nil {
		r.logger.Error("fan-out: adapter unavailable",
			zap.String("orderId", order.ID.String()),
			zap.String("supplier", supplier.Name),
			zap.Error(err))
		return nil, false
	}

	lines := make([]adapters.OrderLine, 0, len(items))
	var totalAmount float64
	for _, item := range items {
		lines = append(lines, adapters.OrderLine{
			ExternalID: item.SupplierProduct.ExternalID,
			Quantity:   item.Quantity,
			Variants:   item.Variants,
		})
		totalAmount += item.Price * float64(item.Quantity)
	}
	totalAmount = round2(totalAmount)

	placement := adapter.CreateOrder(ctx, &adapters.OrderRequest{
		Reference: order.OrderNumber,
		Items:     lines,
		ShippingAddress: adapters.Address{
			Line1:      order.AddressLine1,
			Line2:      order.AddressLine2,
			City:       order.City,
			State:      order.State,
			PostalCode: order.PostalCode,
			Country:    order.Country,
		},
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		CustomerPhone: order.CustomerPhone,
	})
	if !placement.Success {
		r.logger.Error("fan-out: upstream order rejected",
			zap.String("orderId", order.ID.String()),
			zap.String("supplier", supplier.Name),
			zap.String("error", placement.ErrorMessage))
		return nil, false
	}

	commission := supplier.CommissionRate
	if commission <= 0 {
		commission = r.defaultCommission
	}
	ourProfit := round2(totalAmount * commission)

	supplierOrder := &models.SupplierOrder{
		OrderID:         order.ID,
		SupplierID:      supplier.ID,
		ExternalOrderID: placement.ExternalOrderID,
		Status:          models.SupplierOrderPending,
		TotalAmount:     totalAmount,
		SupplierAmount:  round2(totalAmount - ourProfit),
		OurProfit:       ourProfit,
	}
	if err := r.orderRepo.CreateSupplierOrder(ctx, supplierOrder); err != nil {
		r.logger.Error("fan-out: failed to persist supplier order",
			zap.String("orderId", order.ID.String()),
			zap.String("supplier", supplier.Name),
			zap.String("externalOrderId", placement.ExternalOrderID),
			zap.Error(err))
		return nil, false
	}

	r.logger.Info("fan-out: supplier order placed",
		zap.String("orderId", order.ID.String()),
		zap.String("supplier", supplier.Name),
		zap.String("externalOrderId", placement.ExternalOrderID),
		zap.Float64("totalAmount", totalAmount),
		zap.Float64("ourProfit", ourProfit))
	return supplierOrder, true
}

// RefreshTracking probes the upstream status of a supplier order and persists
// any transition. An "unknown" probe leaves the stored state untouched.
func (r *OrderFanoutRouter) RefreshTracking(ctx context.Context, supplierOrderID uuid.UUID) (*models.SupplierOrder, error) {
	supplierOrder, err := r.orderRepo.GetSupplierOrder(ctx, supplierOrderID)
	if err != nil {
		return nil, fmt.Errorf("supplier order %s: %w", supplierOrderID, err)
	}
	supplier, err := r.supplierRepo.GetByID(ctx, supplierOrder.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier %s: %w", supplierOrder.SupplierID, err)
	}
	adapter, err := r.adapters.ForSupplier(ctx, supplier)
	if err != nil {
		return nil, err
	}

	tracking := adapter.TrackOrder(ctx, supplierOrder.ExternalOrderID)
	if tracking.Status == adapters.TrackingStatusUnknown {
		return supplierOrder, nil
	}

	changed := false
	if status, ok := mapTrackingStatus(tracking.Status); ok && status != supplierOrder.Status {
		supplierOrder.Status = status
		changed = true
	}
	if tracking.TrackingNumber != "" && tracking.TrackingNumber != supplierOrder.TrackingNumber {
		supplierOrder.TrackingNumber = tracking.TrackingNumber
		changed = true
	}
	if changed {
		if err := r.orderRepo.UpdateSupplierOrder(ctx, supplierOrder); err != nil {
			return nil, fmt.Errorf("update supplier order %s: %w", supplierOrderID, err)
		}
	}
	return supplierOrder, nil
}

// groupBySupplier buckets dropshipped line items by owning supplier. Items
// without a supplier product link are fulfilled outside this subsystem and
// only counted.
func groupBySupplier(items []models.OrderItem) (map[uuid.UUID][]models.OrderItem, int) {
	groups := make(map[uuid.UUID][]models.OrderItem)
	skipped := 0
	for _, item := range items {
		if item.SupplierProductID == nil || item.SupplierProduct == nil {
			skipped++
			continue
		}
		supplierID := item.SupplierProduct.SupplierID
		groups[supplierID] = append(groups[supplierID], item)
	}
	return groups, skipped
}

func mapTrackingStatus(status string) (models.SupplierOrderStatus, bool) {
	switch status {
	case "shipped", "in_transit":
		return models.SupplierOrderShipped, true
	case "delivered":
		return models.SupplierOrderDelivered, true
	case "cancelled":
		return models.SupplierOrderCancelled, true
	default:
		return "", false
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
