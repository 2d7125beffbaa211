package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"supplier-sync-service/internal/adapters"
	"supplier-sync-service/internal/models"
	"supplier-sync-service/internal/repository"
)

// ReconcileAction reports what a reconcile pass did with one incoming product.
type ReconcileAction string

const (
	ReconcileImported ReconcileAction = "imported"
	ReconcileUpdated  ReconcileAction = "updated"
)

const maxSlugLength = 50

// CatalogueReconciler folds adapter output into the persisted supplier mirror
// and, for first-time products, projects a customer-facing catalogue row.
// Mirror rows are updated in place and never deleted here; delisting is a
// curation decision, not a sync one.
type CatalogueReconciler struct {
	catalogRepo   repository.CatalogRepositoryInterface
	pricing       *PricingEngine
	repriceOnSync bool
	logger        *zap.Logger
}

// NewCatalogueReconciler creates a new catalogue reconciler
func NewCatalogueReconciler(catalogRepo repository.CatalogRepositoryInterface, pricing *PricingEngine, repriceOnSync bool, logger *zap.Logger) *CatalogueReconciler {
	return &CatalogueReconciler{
		catalogRepo:   catalogRepo,
		pricing:       pricing,
		repriceOnSync: repriceOnSync,
		logger:        logger,
	}
}

// Reconcile upserts one incoming product. Validation failures and database
// errors surface as an error; the caller counts them and moves on, so one bad
// item never aborts a sync.
func (r *CatalogueReconciler) Reconcile(ctx context.Context, supplier *models.Supplier, incoming adapters.SupplierProduct) (ReconcileAction, error) {
	if err := incoming.Validate(); err != nil {
		return "", err
	}

	existing, err := r.catalogRepo.GetSupplierProduct(ctx, supplier.ID, incoming.ExternalID)
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", incoming.ExternalID, err)
	}

	if existing == nil {
		if err := r.importProduct(ctx, supplier, incoming); err != nil {
			return "", err
		}
		return ReconcileImported, nil
	}

	if err := r.updateProduct(ctx, existing, incoming); err != nil {
		return "", err
	}
	return ReconcileUpdated, nil
}

// importProduct creates the mirror row and its catalogue projection.
func (r *CatalogueReconciler) importProduct(ctx context.Context, supplier *models.Supplier, incoming adapters.SupplierProduct) error {
	mirror := &models.SupplierProduct{
		SupplierID:       supplier.ID,
		ExternalID:       incoming.ExternalID,
		Name:             incoming.Name,
		Description:      incoming.Description,
		OriginalPrice:    incoming.OriginalPrice,
		Currency:         incoming.Currency,
		Images:           models.StringList(incoming.Images),
		Category:         incoming.Category,
		Subcategory:      incoming.Subcategory,
		Brand:            incoming.Brand,
		Specifications:   models.JSONB(incoming.Specifications),
		Variants:         models.JSONB(incoming.Variants),
		StockQuantity:    incoming.StockQuantity,
		FreeShipping:     incoming.Shipping.FreeShipping,
		ShippingLeadDays: incoming.Shipping.LeadTimeDays,
		ShippingCost:     incoming.Shipping.Cost,
		Rating:           incoming.Rating,
		ReviewCount:      incoming.ReviewCount,
		LastUpdated:      time.Now(),
	}
	if err := r.catalogRepo.CreateSupplierProduct(ctx, mirror); err != nil {
		return fmt.Errorf("create mirror %s: %w", incoming.ExternalID, err)
	}

	categoryName := incoming.Category
	if categoryName == "" {
		categoryName = "Uncategorized"
	}
	category, err := r.catalogRepo.GetOrCreateCategory(ctx, categoryName, deriveSlug(categoryName))
	if err != nil {
		return fmt.Errorf("category %q: %w", categoryName, err)
	}

	price, markupPct := r.pricing.Price(ctx, incoming.Category, incoming.OriginalPrice)
	slug, err := r.uniqueSlug(ctx, incoming.Name)
	if err != nil {
		return fmt.Errorf("slug for %s: %w", incoming.ExternalID, err)
	}

	product := &models.Product{
		Name:              incoming.Name,
		Slug:              slug,
		Description:       incoming.Description,
		Images:            models.StringList(incoming.Images),
		CategoryID:        category.ID,
		Price:             price,
		CostPrice:         incoming.OriginalPrice,
		MarkupPercentage:  markupPct,
		ProfitMargin:      price - incoming.OriginalPrice,
		Specifications:    models.JSONB(incoming.Specifications),
		StockQuantity:     incoming.StockQuantity,
		SupplierProductID: &mirror.ID,
		AutoSync:          true,
	}
	if err := r.catalogRepo.CreateProduct(ctx, product); err != nil {
		return fmt.Errorf("create product %s: %w", incoming.ExternalID, err)
	}

	r.logger.Info("imported supplier product",
		zap.String("externalId", incoming.ExternalID),
		zap.String("slug", slug),
		zap.Float64("price", price))
	return nil
}

// updateProduct refreshes the mirror row and pushes stock (and, when
// configured, price) into the catalogue projection.
func (r *CatalogueReconciler) updateProduct(ctx context.Context, mirror *models.SupplierProduct, incoming adapters.SupplierProduct) error {
	mirror.Name = incoming.Name
	mirror.Description = incoming.Description
	mirror.OriginalPrice = incoming.OriginalPrice
	mirror.Currency = incoming.Currency
	mirror.Images = models.StringList(incoming.Images)
	mirror.Category = incoming.Category
	mirror.Subcategory = incoming.Subcategory
	mirror.Brand = incoming.Brand
	mirror.Specifications = models.JSONB(incoming.Specifications)
	mirror.Variants = models.JSONB(incoming.Variants)
	mirror.StockQuantity = incoming.StockQuantity
	mirror.FreeShipping = incoming.Shipping.FreeShipping
	mirror.ShippingLeadDays = incoming.Shipping.LeadTimeDays
	mirror.ShippingCost = incoming.Shipping.Cost
	mirror.Rating = incoming.Rating
	mirror.ReviewCount = incoming.ReviewCount
	mirror.LastUpdated = time.Now()

	if err := r.catalogRepo.UpdateSupplierProduct(ctx, mirror); err != nil {
		return fmt.Errorf("update mirror %s: %w", mirror.ExternalID, err)
	}

	product, err := r.catalogRepo.GetProductBySupplierProduct(ctx, mirror.ID)
	if err != nil {
		return fmt.Errorf("projection lookup %s: %w", mirror.ExternalID, err)
	}
	if product == nil || !product.AutoSync {
		// Projection was removed or pinned by a curator; the mirror alone
		// keeps tracking upstream.
		return nil
	}

	product.StockQuantity = incoming.StockQuantity
	product.CostPrice = incoming.OriginalPrice
	if r.repriceOnSync {
		price, markupPct := r.pricing.Price(ctx, incoming.Category, incoming.OriginalPrice)
		product.Price = price
		product.MarkupPercentage = markupPct
	}
	product.ProfitMargin = product.Price - product.CostPrice

	if err := r.catalogRepo.UpdateProduct(ctx, product); err != nil {
		return fmt.Errorf("update product %s: %w", mirror.ExternalID, err)
	}
	return nil
}

// uniqueSlug derives a URL slug from the product name and resolves collisions
// with a numeric suffix.
func (r *CatalogueReconciler) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := deriveSlug(name)
	if base == "" {
		base = "product"
	}

	slug := base
	for i := 1; ; i++ {
		exists, err := r.catalogRepo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// deriveSlug lowercases, strips non-alphanumerics to hyphens, and truncates.
func deriveSlug(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, c := range strings.ToLower(name) {
		switch {
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			b.WriteRune(c)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	return slug
}
