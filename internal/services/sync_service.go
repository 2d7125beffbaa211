package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"supplier-sync-service/internal/models"
	"supplier-sync-service/internal/repository"
)

var (
	// ErrSyncInProgress is returned when a supplier already has a sync running.
	ErrSyncInProgress = errors.New("sync already in progress for supplier")
	// ErrSupplierInactive is returned when a sync is requested for a disabled supplier.
	ErrSupplierInactive = errors.New("supplier is not active")
	// ErrProductUnknown is returned when a refresh targets a product that was
	// never mirrored and no longer exists upstream.
	ErrProductUnknown = errors.New("product is not known to this supplier")
)

// maxLoggedErrors caps the per-item error messages persisted on a sync log.
const maxLoggedErrors = 50

// SyncOrchestrator drives full catalogue and stock synchronization runs. Every
// run is recorded as a SyncLog created "running" and finalized exactly once;
// item-level failures are counted and never abort the run.
type SyncOrchestrator struct {
	supplierRepo repository.SupplierRepositoryInterface
	syncRepo     repository.SyncRepositoryInterface
	catalogRepo  repository.CatalogRepositoryInterface
	reconciler   *CatalogueReconciler
	adapters     AdapterProvider

	batchSize   int
	syncTimeout time.Duration
	logger      *zap.Logger

	syncSem     chan struct{}
	activeMu    sync.Mutex
	activeSyncs map[uuid.UUID]context.CancelFunc
}

// NewSyncOrchestrator creates a new sync orchestrator
func NewSyncOrchestrator(
	supplierRepo repository.SupplierRepositoryInterface,
	syncRepo repository.SyncRepositoryInterface,
	catalogRepo repository.CatalogRepositoryInterface,
	reconciler *CatalogueReconciler,
	adapters AdapterProvider,
	batchSize int,
	syncTimeout time.Duration,
	maxConcurrent int,
	logger *zap.Logger,
) *SyncOrchestrator {
	if batchSize <= 0 {
		batchSize = 50
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &SyncOrchestrator{
		supplierRepo: supplierRepo,
		syncRepo:     syncRepo,
		catalogRepo:  catalogRepo,
		reconciler:   reconciler,
		adapters:     adapters,
		batchSize:    batchSize,
		syncTimeout:  syncTimeout,
		logger:       logger,
		syncSem:      make(chan struct{}, maxConcurrent),
		activeSyncs:  make(map[uuid.UUID]context.CancelFunc),
	}
}

// SyncSupplier runs a full product sync for one supplier and blocks until it
// finishes. The returned log carries the final status and counters.
func (s *SyncOrchestrator) SyncSupplier(ctx context.Context, supplierID uuid.UUID) (*models.SyncLog, error) {
	supplier, syncLog, err := s.begin(ctx, supplierID, models.SyncTypeProducts)
	if err != nil {
		return nil, err
	}

	s.syncSem <- struct{}{}
	defer func() { <-s.syncSem }()

	s.runProductSync(ctx, supplier, syncLog)
	return syncLog, nil
}

// StartSync kicks off a background product sync and returns the running log
// immediately. The sync can be cancelled with CancelSync.
func (s *SyncOrchestrator) StartSync(ctx context.Context, supplierID uuid.UUID) (*models.SyncLog, error) {
	s.activeMu.Lock()
	if _, running := s.activeSyncs[supplierID]; running {
		s.activeMu.Unlock()
		return nil, ErrSyncInProgress
	}
	s.activeMu.Unlock()

	// Also guard against a run owned by another replica.
	if running, err := s.syncRepo.HasRunningSync(ctx, supplierID); err == nil && running {
		return nil, ErrSyncInProgress
	}

	supplier, syncLog, err := s.begin(ctx, supplierID, models.SyncTypeProducts)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(context.Background(), s.syncTimeout)
	s.activeMu.Lock()
	s.activeSyncs[supplierID] = cancel
	s.activeMu.Unlock()

	go func() {
		defer func() {
			cancel()
			s.activeMu.Lock()
			delete(s.activeSyncs, supplierID)
			s.activeMu.Unlock()
		}()

		s.syncSem <- struct{}{}
		defer func() { <-s.syncSem }()

		s.runProductSync(runCtx, supplier, syncLog)
	}()

	return syncLog, nil
}

// CancelSync cancels a background sync. Returns false when none is running.
func (s *SyncOrchestrator) CancelSync(supplierID uuid.UUID) bool {
	s.activeMu.Lock()
	defer s.activeMu.Unlock()
	cancel, ok := s.activeSyncs[supplierID]
	if ok {
		cancel()
	}
	return ok
}

// SyncAll runs product syncs for active suppliers sequentially. With autoOnly
// set, only suppliers that opted into scheduled syncs are included.
func (s *SyncOrchestrator) SyncAll(ctx context.Context, autoOnly bool) error {
	suppliers, err := s.supplierRepo.List(ctx, true)
	if err != nil {
		return fmt.Errorf("list suppliers: %w", err)
	}

	for i := range suppliers {
		supplier := &suppliers[i]
		if autoOnly && !supplier.AutoSyncEnabled() {
			continue
		}
		if _, err := s.SyncSupplier(ctx, supplier.ID); err != nil {
			s.logger.Error("supplier sync failed to start",
				zap.String("supplierId", supplier.ID.String()),
				zap.String("supplier", supplier.Name),
				zap.Error(err))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

// RefreshStock re-checks live stock for every mirrored product of a supplier
// and pushes the quantities into the catalogue. Runs as a "stock" sync.
func (s *SyncOrchestrator) RefreshStock(ctx context.Context, supplierID uuid.UUID) (*models.SyncLog, error) {
	supplier, syncLog, err := s.begin(ctx, supplierID, models.SyncTypeStock)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	adapter, err := s.adapters.ForSupplier(ctx, supplier)
	if err != nil {
		s.finalize(syncLog, started, models.SyncStatusError, []string{err.Error()})
		return syncLog, nil
	}

	var processed, updated, failed int
	var itemErrors []string
	for page := 1; ; page++ {
		mirrors, _, err := s.catalogRepo.ListSupplierProducts(ctx, supplier.ID, page, s.batchSize)
		if err != nil {
			itemErrors = append(itemErrors, err.Error())
			failed++
			break
		}
		if len(mirrors) == 0 {
			break
		}

		for i := range mirrors {
			mirror := &mirrors[i]
			processed++
			mirror.StockQuantity = adapter.CheckStock(ctx, mirror.ExternalID)
			mirror.LastUpdated = time.Now()
			if err := s.pushStock(ctx, mirror); err != nil {
				failed++
				if len(itemErrors) < maxLoggedErrors {
					itemErrors = append(itemErrors, err.Error())
				}
				continue
			}
			updated++
		}

		if len(mirrors) < s.batchSize {
			break
		}
	}

	syncLog.ProductsProcessed = processed
	syncLog.ProductsUpdated = updated
	syncLog.ProductsFailed = failed
	s.finalize(syncLog, started, classify(processed, failed), itemErrors)
	return syncLog, nil
}

// RefreshProduct re-fetches a single mirrored product and reconciles it. A
// vanished upstream item zeroes the stored stock so it cannot be oversold.
func (s *SyncOrchestrator) RefreshProduct(ctx context.Context, supplierID uuid.UUID, externalID string) (*models.SupplierProduct, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier %s: %w", supplierID, err)
	}
	if !supplier.IsActive {
		return nil, ErrSupplierInactive
	}

	adapter, err := s.adapters.ForSupplier(ctx, supplier)
	if err != nil {
		return nil, err
	}

	details, err := adapter.FetchProductDetails(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if details == nil {
		mirror, err := s.catalogRepo.GetSupplierProduct(ctx, supplier.ID, externalID)
		if err != nil {
			return nil, err
		}
		if mirror == nil {
			return nil, ErrProductUnknown
		}
		mirror.StockQuantity = 0
		mirror.LastUpdated = time.Now()
		if err := s.pushStock(ctx, mirror); err != nil {
			return nil, err
		}
		s.logger.Warn("product vanished upstream, stock zeroed",
			zap.String("supplierId", supplier.ID.String()),
			zap.String("externalId", externalID))
		return mirror, nil
	}

	if _, err := s.reconciler.Reconcile(ctx, supplier, *details); err != nil {
		return nil, err
	}
	return s.catalogRepo.GetSupplierProduct(ctx, supplier.ID, externalID)
}

// begin validates the supplier and opens a running sync log.
func (s *SyncOrchestrator) begin(ctx context.Context, supplierID uuid.UUID, syncType models.SyncType) (*models.Supplier, *models.SyncLog, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, nil, fmt.Errorf("supplier %s: %w", supplierID, err)
	}
	if !supplier.IsActive {
		return nil, nil, ErrSupplierInactive
	}

	syncLog := &models.SyncLog{
		SupplierID: supplier.ID,
		SyncType:   syncType,
		Status:     models.SyncStatusRunning,
		StartedAt:  time.Now(),
	}
	if err := s.syncRepo.CreateLog(ctx, syncLog); err != nil {
		return nil, nil, fmt.Errorf("create sync log: %w", err)
	}
	return supplier, syncLog, nil
}

// runProductSync pages through the supplier's catalogue and reconciles every
// item, then finalizes the log.
func (s *SyncOrchestrator) runProductSync(ctx context.Context, supplier *models.Supplier, syncLog *models.SyncLog) {
	started := time.Now()
	s.logger.Info("starting product sync",
		zap.String("supplierId", supplier.ID.String()),
		zap.String("supplier", supplier.Name))

	adapter, err := s.adapters.ForSupplier(ctx, supplier)
	if err != nil {
		s.finalize(syncLog, started, models.SyncStatusError, []string{err.Error()})
		return
	}

	var processed, imported, updated, failed int
	var itemErrors []string

	for page := 1; ; page++ {
		products, err := adapter.FetchProducts(ctx, page, s.batchSize)
		if err != nil {
			// Only cancellation surfaces here; the adapter swallows
			// transport failures.
			syncLog.ProductsProcessed = processed
			syncLog.ProductsImported = imported
			syncLog.ProductsUpdated = updated
			syncLog.ProductsFailed = failed
			s.finalize(syncLog, started, models.SyncStatusError,
				append(itemErrors, fmt.Sprintf("sync aborted: %v", err)))
			return
		}
		if len(products) == 0 {
			break
		}

		for _, product := range products {
			processed++
			action, err := s.reconciler.Reconcile(ctx, supplier, product)
			if err != nil {
				failed++
				if len(itemErrors) < maxLoggedErrors {
					itemErrors = append(itemErrors, err.Error())
				}
				continue
			}
			switch action {
			case ReconcileImported:
				imported++
			case ReconcileUpdated:
				updated++
			}
		}

		if len(products) < s.batchSize {
			break
		}
	}

	syncLog.ProductsProcessed = processed
	syncLog.ProductsImported = imported
	syncLog.ProductsUpdated = updated
	syncLog.ProductsFailed = failed

	status := classify(processed, failed)
	s.finalize(syncLog, started, status, itemErrors)

	if status != models.SyncStatusError {
		if err := s.supplierRepo.UpdateLastSync(context.Background(), supplier.ID, time.Now()); err != nil {
			s.logger.Warn("failed to stamp last sync time",
				zap.String("supplierId", supplier.ID.String()), zap.Error(err))
		}
	}

	s.logger.Info("product sync finished",
		zap.String("supplierId", supplier.ID.String()),
		zap.String("status", string(status)),
		zap.Int("processed", processed),
		zap.Int("imported", imported),
		zap.Int("updated", updated),
		zap.Int("failed", failed),
		zap.Int64("durationMs", syncLog.DurationMS))
}

// pushStock persists a stock probe into the mirror and its projection.
func (s *SyncOrchestrator) pushStock(ctx context.Context, mirror *models.SupplierProduct) error {
	if err := s.catalogRepo.UpdateSupplierProduct(ctx, mirror); err != nil {
		return fmt.Errorf("update mirror %s: %w", mirror.ExternalID, err)
	}
	product, err := s.catalogRepo.GetProductBySupplierProduct(ctx, mirror.ID)
	if err != nil {
		return fmt.Errorf("projection lookup %s: %w", mirror.ExternalID, err)
	}
	if product == nil || !product.AutoSync {
		return nil
	}
	product.StockQuantity = mirror.StockQuantity
	if err := s.catalogRepo.UpdateProduct(ctx, product); err != nil {
		return fmt.Errorf("update product %s: %w", mirror.ExternalID, err)
	}
	return nil
}

// finalize stamps the log exactly once and persists it.
func (s *SyncOrchestrator) finalize(syncLog *models.SyncLog, started time.Time, status models.SyncStatus, itemErrors []string) {
	now := time.Now()
	if len(itemErrors) > maxLoggedErrors {
		itemErrors = itemErrors[:maxLoggedErrors]
	}

	syncLog.Status = status
	syncLog.CompletedAt = &now
	syncLog.DurationMS = now.Sub(started).Milliseconds()
	syncLog.ErrorCount = syncLog.ProductsFailed
	syncLog.Errors = models.StringList(itemErrors)
	syncLog.Summary = models.JSONB{
		"processed": syncLog.ProductsProcessed,
		"imported":  syncLog.ProductsImported,
		"updated":   syncLog.ProductsUpdated,
		"failed":    syncLog.ProductsFailed,
	}

	// The run context may already be cancelled; finalization must still land.
	if err := s.syncRepo.UpdateLog(context.Background(), syncLog); err != nil {
		s.logger.Error("failed to finalize sync log",
			zap.String("syncLogId", syncLog.ID.String()), zap.Error(err))
	}
}

// classify maps item counters to a terminal sync status. A run with no item
// failures is a success even when the catalogue came back empty; a run where
// every item failed is an error.
func classify(processed, failed int) models.SyncStatus {
	switch {
	case failed == 0:
		return models.SyncStatusSuccess
	case failed < processed:
		return models.SyncStatusPartial
	default:
		return models.SyncStatusError
	}
}
