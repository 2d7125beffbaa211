package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"supplier-sync-service/internal/adapters"
	"supplier-sync-service/internal/adapters/aliexpress"
	"supplier-sync-service/internal/adapters/jumia"
	"supplier-sync-service/internal/models"
	"supplier-sync-service/internal/secrets"
)

// AdapterProvider builds the adapter for one configured supplier.
type AdapterProvider interface {
	ForSupplier(ctx context.Context, supplier *models.Supplier) (adapters.SupplierAdapter, error)
}

// AdapterFactory is the production AdapterProvider. It resolves credential
// references through Secret Manager and dispatches on the supplier type tag.
type AdapterFactory struct {
	resolver *secrets.Resolver
	timeout  time.Duration
	logger   *zap.Logger
}

// NewAdapterFactory creates an adapter factory. The resolver may be nil when
// the deployment does not use Secret Manager references.
func NewAdapterFactory(resolver *secrets.Resolver, timeout time.Duration, logger *zap.Logger) *AdapterFactory {
	return &AdapterFactory{
		resolver: resolver,
		timeout:  timeout,
		logger:   logger,
	}
}

// ForSupplier builds the adapter for a supplier's configured marketplace.
func (f *AdapterFactory) ForSupplier(ctx context.Context, supplier *models.Supplier) (adapters.SupplierAdapter, error) {
	apiKey, err := f.resolveCredential(ctx, supplier.APIKey)
	if err != nil {
		return nil, err
	}

	switch supplier.Type {
	case models.SupplierAliExpress:
		return aliexpress.NewClient(supplier.APIEndpoint, apiKey, f.timeout, f.logger), nil
	case models.SupplierJumia:
		return jumia.NewClient(supplier.APIEndpoint, apiKey, f.timeout, f.logger), nil
	default:
		return nil, &adapters.UnsupportedSupplierError{SupplierType: string(supplier.Type)}
	}
}

func (f *AdapterFactory) resolveCredential(ctx context.Context, value string) (string, error) {
	if f.resolver == nil || !secrets.IsRef(value) {
		return value, nil
	}
	return f.resolver.Resolve(ctx, value)
}
