package services

import (
	"context"

	"go.uber.org/zap"

	"supplier-sync-service/internal/adapters"
	"supplier-sync-service/internal/models"
	"supplier-sync-service/internal/repository"
)

// PricingEngine resolves the markup applied when a supplier product is
// projected into the catalogue. Active rules are evaluated in ascending
// priority order and the first match wins; when nothing matches the default
// markup applies.
type PricingEngine struct {
	pricingRepo   repository.PricingRepositoryInterface
	defaultMarkup float64
	logger        *zap.Logger
}

// NewPricingEngine creates a new pricing engine
func NewPricingEngine(pricingRepo repository.PricingRepositoryInterface, defaultMarkup float64, logger *zap.Logger) *PricingEngine {
	if defaultMarkup <= 0 {
		defaultMarkup = models.DefaultMarkupPercentage
	}
	return &PricingEngine{
		pricingRepo:   pricingRepo,
		defaultMarkup: defaultMarkup,
		logger:        logger,
	}
}

// ResolveMarkup returns the markup percentage for a product. A rule lookup
// failure falls back to the default so pricing never blocks a sync.
func (e *PricingEngine) ResolveMarkup(ctx context.Context, category string, originalPrice float64) float64 {
	rules, err := e.pricingRepo.ListActive(ctx)
	if err != nil {
		e.logger.Warn("pricing rule lookup failed, using default markup",
			zap.Float64("defaultMarkup", e.defaultMarkup), zap.Error(err))
		return e.defaultMarkup
	}

	for _, rule := range rules {
		if rule.Matches(category, originalPrice) {
			return rule.MarkupPercentage
		}
	}
	return e.defaultMarkup
}

// Price computes the selling price and the markup it came from.
func (e *PricingEngine) Price(ctx context.Context, category string, originalPrice float64) (price, markupPct float64) {
	markupPct = e.ResolveMarkup(ctx, category, originalPrice)
	return adapters.CalculateSellingPrice(originalPrice, markupPct), markupPct
}
