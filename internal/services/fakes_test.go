package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"supplier-sync-service/internal/adapters"
	"supplier-sync-service/internal/models"
)

// stubAdapter is a scripted SupplierAdapter for orchestrator and router tests.
type stubAdapter struct {
	supplierType models.SupplierType
	pages        [][]adapters.SupplierProduct
	fetchErr     error
	stock        map[string]int
	orderResult  *adapters.OrderResult
	tracking     *adapters.TrackingResult

	createdOrders []*adapters.OrderRequest
}

func (a *stubAdapter) Type() models.SupplierType {
	if a.supplierType == "" {
		return models.SupplierAliExpress
	}
	return a.supplierType
}

func (a *stubAdapter) FetchProducts(ctx context.Context, page, limit int) ([]adapters.SupplierProduct, error) {
	if a.fetchErr != nil {
		return nil, a.fetchErr
	}
	if page < 1 || page > len(a.pages) {
		return []adapters.SupplierProduct{}, nil
	}
	return a.pages[page-1], nil
}

func (a *stubAdapter) FetchProductDetails(ctx context.Context, externalID string) (*adapters.SupplierProduct, error) {
	for _, page := range a.pages {
		for i := range page {
			if page[i].ExternalID == externalID {
				return &page[i], nil
			}
		}
	}
	return nil, nil
}

func (a *stubAdapter) CheckStock(ctx context.Context, externalID string) int {
	return a.stock[externalID]
}

func (a *stubAdapter) CreateOrder(ctx context.Context, req *adapters.OrderRequest) *adapters.OrderResult {
	a.createdOrders = append(a.createdOrders, req)
	if a.orderResult != nil {
		return a.orderResult
	}
	return &adapters.OrderResult{Success: true, ExternalOrderID: "EXT-" + req.Reference}
}

func (a *stubAdapter) TrackOrder(ctx context.Context, externalOrderID string) *adapters.TrackingResult {
	if a.tracking != nil {
		return a.tracking
	}
	return &adapters.TrackingResult{Status: adapters.TrackingStatusUnknown}
}

// stubProvider hands out scripted adapters keyed by supplier ID.
type stubProvider struct {
	adapters map[uuid.UUID]adapters.SupplierAdapter
	fallback adapters.SupplierAdapter
	err      error
}

func (p *stubProvider) ForSupplier(ctx context.Context, supplier *models.Supplier) (adapters.SupplierAdapter, error) {
	if p.err != nil {
		return nil, p.err
	}
	if a, ok := p.adapters[supplier.ID]; ok {
		return a, nil
	}
	return p.fallback, nil
}

// fakeSupplierRepo is an in-memory SupplierRepositoryInterface.
type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]*models.Supplier
}

func newFakeSupplierRepo(suppliers ...*models.Supplier) *fakeSupplierRepo {
	repo := &fakeSupplierRepo{suppliers: make(map[uuid.UUID]*models.Supplier)}
	for _, s := range suppliers {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		repo.suppliers[s.ID] = s
	}
	return repo
}

func (r *fakeSupplierRepo) Create(ctx context.Context, supplier *models.Supplier) error {
	supplier.ID = uuid.New()
	r.suppliers[supplier.ID] = supplier
	return nil
}

func (r *fakeSupplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, ok := r.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return supplier, nil
}

func (r *fakeSupplierRepo) List(ctx context.Context, activeOnly bool) ([]models.Supplier, error) {
	var out []models.Supplier
	for _, s := range r.suppliers {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSupplierRepo) Update(ctx context.Context, supplier *models.Supplier) error {
	r.suppliers[supplier.ID] = supplier
	return nil
}

func (r *fakeSupplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

func (r *fakeSupplierRepo) UpdateLastSync(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s, ok := r.suppliers[id]; ok {
		s.LastSyncAt = &at
	}
	return nil
}

// fakeSyncRepo is an in-memory SyncRepositoryInterface.
type fakeSyncRepo struct {
	logs map[uuid.UUID]*models.SyncLog
}

func newFakeSyncRepo() *fakeSyncRepo {
	return &fakeSyncRepo{logs: make(map[uuid.UUID]*models.SyncLog)}
}

func (r *fakeSyncRepo) CreateLog(ctx context.Context, log *models.SyncLog) error {
	log.ID = uuid.New()
	r.logs[log.ID] = log
	return nil
}

func (r *fakeSyncRepo) UpdateLog(ctx context.Context, log *models.SyncLog) error {
	r.logs[log.ID] = log
	return nil
}

func (r *fakeSyncRepo) GetLog(ctx context.Context, id uuid.UUID) (*models.SyncLog, error) {
	log, ok := r.logs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return log, nil
}

func (r *fakeSyncRepo) ListLogs(ctx context.Context, supplierID *uuid.UUID, limit int) ([]models.SyncLog, error) {
	var out []models.SyncLog
	for _, l := range r.logs {
		if supplierID != nil && l.SupplierID != *supplierID {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *fakeSyncRepo) HasRunningSync(ctx context.Context, supplierID uuid.UUID) (bool, error) {
	for _, l := range r.logs {
		if l.SupplierID == supplierID && l.Status == models.SyncStatusRunning {
			return true, nil
		}
	}
	return false, nil
}

// fakeCatalogRepo is an in-memory CatalogRepositoryInterface.
type fakeCatalogRepo struct {
	mirrors    []*models.SupplierProduct
	products   map[uuid.UUID]*models.Product
	categories map[string]*models.Category
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		products:   make(map[uuid.UUID]*models.Product),
		categories: make(map[string]*models.Category),
	}
}

func (r *fakeCatalogRepo) GetSupplierProduct(ctx context.Context, supplierID uuid.UUID, externalID string) (*models.SupplierProduct, error) {
	for _, m := range r.mirrors {
		if m.SupplierID == supplierID && m.ExternalID == externalID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeCatalogRepo) CreateSupplierProduct(ctx context.Context, product *models.SupplierProduct) error {
	product.ID = uuid.New()
	r.mirrors = append(r.mirrors, product)
	return nil
}

func (r *fakeCatalogRepo) UpdateSupplierProduct(ctx context.Context, product *models.SupplierProduct) error {
	for i, m := range r.mirrors {
		if m.ID == product.ID {
			r.mirrors[i] = product
			return nil
		}
	}
	return fmt.Errorf("supplier product %s not found", product.ID)
}

func (r *fakeCatalogRepo) ListSupplierProducts(ctx context.Context, supplierID uuid.UUID, page, limit int) ([]models.SupplierProduct, int64, error) {
	var all []models.SupplierProduct
	for _, m := range r.mirrors {
		if m.SupplierID == supplierID {
			all = append(all, *m)
		}
	}
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, int64(len(all)), nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r *fakeCatalogRepo) GetProductBySupplierProduct(ctx context.Context, supplierProductID uuid.UUID) (*models.Product, error) {
	product, ok := r.products[supplierProductID]
	if !ok {
		return nil, nil
	}
	return product, nil
}

func (r *fakeCatalogRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	product.ID = uuid.New()
	if product.SupplierProductID != nil {
		r.products[*product.SupplierProductID] = product
	}
	return nil
}

func (r *fakeCatalogRepo) UpdateProduct(ctx context.Context, product *models.Product) error {
	if product.SupplierProductID != nil {
		r.products[*product.SupplierProductID] = product
	}
	return nil
}

func (r *fakeCatalogRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCatalogRepo) GetOrCreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	if c, ok := r.categories[name]; ok {
		return c, nil
	}
	c := &models.Category{ID: uuid.New(), Name: name, Slug: slug}
	r.categories[name] = c
	return c, nil
}

// fakeOrderRepo is an in-memory OrderRepositoryInterface.
type fakeOrderRepo struct {
	orders         map[uuid.UUID]*models.Order
	supplierOrders []*models.SupplierOrder
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
	for _, o := range orders {
		if o.ID == uuid.Nil {
			o.ID = uuid.New()
		}
		repo.orders[o.ID] = o
	}
	return repo
}

func (r *fakeOrderRepo) GetOrderWithItems(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) CreateSupplierOrder(ctx context.Context, supplierOrder *models.SupplierOrder) error {
	supplierOrder.ID = uuid.New()
	r.supplierOrders = append(r.supplierOrders, supplierOrder)
	return nil
}

func (r *fakeOrderRepo) UpdateSupplierOrder(ctx context.Context, supplierOrder *models.SupplierOrder) error {
	for i, so := range r.supplierOrders {
		if so.ID == supplierOrder.ID {
			r.supplierOrders[i] = supplierOrder
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) GetSupplierOrder(ctx context.Context, id uuid.UUID) (*models.SupplierOrder, error) {
	for _, so := range r.supplierOrders {
		if so.ID == id {
			return so, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) ListSupplierOrders(ctx context.Context, orderID uuid.UUID) ([]models.SupplierOrder, error) {
	var out []models.SupplierOrder
	for _, so := range r.supplierOrders {
		if so.OrderID == orderID {
			out = append(out, *so)
		}
	}
	return out, nil
}
