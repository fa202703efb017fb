package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/depot/internal/domain/models"
	"github.com/mamadbah2/depot/internal/repository/mongodb"
)

// Importer reconciles externally-sourced candidate items against the live
// catalog and commits the new ones.
type Importer interface {
	RunImport(ctx context.Context, session models.Session, candidates []models.ScannedItem, importCtx ImportContext) (ImportSummary, error)
}

// Catalog is the slice of the catalog store the importer needs.
type Catalog interface {
	ListProducts(ctx context.Context, filters ...models.ProductFilter) ([]models.Product, error)
	BatchCreateProducts(ctx context.Context, products []models.Product) error
}

// OptionRegistry is the slice of the option store the importer needs.
type OptionRegistry interface {
	GetOptions(ctx context.Context, kind models.OptionKind) ([]string, error)
	AddOptionIfAbsent(ctx context.Context, kind models.OptionKind, value string) ([]string, error)
}

// ImportContext carries the form defaults used to back-fill candidate fields
// the source did not provide.
type ImportContext struct {
	Category    string
	Warehouse   string
	Rack        string
	MinQuantity float64
	Date        time.Time
}

// ImportSummary reports what an import run actually did. FailedAtChunk is zero
// on full success; on a mid-sequence chunk failure it holds the 1-based index
// of the chunk that did not commit, while Inserted counts only the records
// that are durably stored.
type ImportSummary struct {
	Inserted         int `json:"inserted"`
	SkippedDuplicate int `json:"skipped_duplicate"`
	FailedAtChunk    int `json:"failed_at_chunk,omitempty"`
}

// Service implements the Importer interface.
type Service struct {
	catalog   Catalog
	options   OptionRegistry
	chunkSize int
	logger    *zap.Logger
	now       func() time.Time
}

// NewService constructs a reconciliation importer. chunkSize values outside
// (0, MaxBatchSize] fall back to the store ceiling.
func NewService(catalog Catalog, options OptionRegistry, chunkSize int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chunkSize <= 0 || chunkSize > mongodb.MaxBatchSize {
		chunkSize = mongodb.MaxBatchSize
	}
	return &Service{
		catalog:   catalog,
		options:   options,
		chunkSize: chunkSize,
		logger:    logger,
		now:       time.Now,
	}
}

// RunImport deduplicates candidates against a fresh catalog read, provisions
// missing registry options, and commits the remainder in bounded atomic
// chunks. Chunks are submitted sequentially: a failure on chunk k leaves
// chunks 1..k-1 committed and the rest unattempted. Duplicate detection makes
// a re-run of the same batch safe.
func (s *Service) RunImport(ctx context.Context, session models.Session, candidates []models.ScannedItem, importCtx ImportContext) (ImportSummary, error) {
	var summary ImportSummary

	if len(candidates) == 0 {
		return summary, fmt.Errorf("no candidate rows selected: %w", models.ErrValidation)
	}

	// Fresh read: the dedup sets must reflect the catalog as of this run, not
	// whatever a UI cached earlier.
	existing, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return summary, fmt.Errorf("load catalog for reconciliation: %w", err)
	}

	knownCodes := make(map[string]struct{}, len(existing))
	knownNames := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		if key := normalizeKey(p.Nomenclature); key != "" {
			knownCodes[key] = struct{}{}
		}
		if key := normalizeKey(p.Name); key != "" {
			knownNames[key] = struct{}{}
		}
	}

	queued := make([]models.Product, 0, len(candidates))
	for _, item := range candidates {
		if s.isDuplicate(item, knownCodes, knownNames) {
			summary.SkippedDuplicate++
			continue
		}
		queued = append(queued, s.buildProduct(item, importCtx))
	}

	if len(queued) == 0 {
		s.logger.Info("import found nothing new",
			zap.Int("candidates", len(candidates)),
			zap.Int("skipped_duplicate", summary.SkippedDuplicate),
			zap.String("actor", session.UserID))
		return summary, nil
	}

	if err := s.provisionOptions(ctx, queued); err != nil {
		return summary, fmt.Errorf("provision registry options: %w", err)
	}

	for offset := 0; offset < len(queued); offset += s.chunkSize {
		end := offset + s.chunkSize
		if end > len(queued) {
			end = len(queued)
		}
		chunk := queued[offset:end]
		chunkIndex := offset/s.chunkSize + 1

		if err := s.catalog.BatchCreateProducts(ctx, chunk); err != nil {
			summary.Inserted = offset
			summary.FailedAtChunk = chunkIndex
			s.logger.Error("import chunk failed, earlier chunks remain committed",
				zap.Int("chunk", chunkIndex),
				zap.Int("committed", offset),
				zap.Error(err))
			return summary, fmt.Errorf("commit chunk %d: %w", chunkIndex, err)
		}
		summary.Inserted += len(chunk)
	}

	s.logger.Info("import committed",
		zap.Int("inserted", summary.Inserted),
		zap.Int("skipped_duplicate", summary.SkippedDuplicate),
		zap.String("actor", session.UserID))
	return summary, nil
}

func (s *Service) isDuplicate(item models.ScannedItem, knownCodes, knownNames map[string]struct{}) bool {
	if key := normalizeKey(item.Nomenclature); key != "" {
		if _, ok := knownCodes[key]; ok {
			return true
		}
	}
	if key := normalizeKey(item.Name); key != "" {
		if _, ok := knownNames[key]; ok {
			return true
		}
	}
	return false
}

// buildProduct turns a candidate into a catalog entry, back-filling the gaps
// from the form context. Bulk-imported items start untracked for low-stock
// alerting.
func (s *Service) buildProduct(item models.ScannedItem, importCtx ImportContext) models.Product {
	product := models.Product{
		Nomenclature:    item.Nomenclature,
		Name:            item.Name,
		Category:        item.Category,
		Warehouse:       item.Warehouse,
		Rack:            importCtx.Rack,
		Quantity:        item.Quantity,
		Unit:            item.Unit,
		MinQuantity:     importCtx.MinQuantity,
		LowStockTracked: false,
		DateAdded:       importCtx.Date,
		LastUpdated:     s.now(),
	}
	if product.Category == "" {
		product.Category = importCtx.Category
	}
	if product.Warehouse == "" {
		product.Warehouse = importCtx.Warehouse
	}
	if product.DateAdded.IsZero() {
		product.DateAdded = s.now()
	}
	return product
}

// provisionOptions registers every category, unit and warehouse value the
// queued items introduce. Adds are idempotent set unions, so ordering does not
// matter and they run in parallel.
func (s *Service) provisionOptions(ctx context.Context, queued []models.Product) error {
	missing, err := s.collectMissing(ctx, queued)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, entry := range missing {
		entry := entry
		group.Go(func() error {
			_, err := s.options.AddOptionIfAbsent(groupCtx, entry.kind, entry.value)
			return err
		})
	}
	return group.Wait()
}

type optionEntry struct {
	kind  models.OptionKind
	value string
}

func (s *Service) collectMissing(ctx context.Context, queued []models.Product) ([]optionEntry, error) {
	wanted := map[models.OptionKind]map[string]struct{}{
		models.OptionCategories: {},
		models.OptionUnits:      {},
		models.OptionWarehouses: {},
	}
	for _, p := range queued {
		if p.Category != "" {
			wanted[models.OptionCategories][p.Category] = struct{}{}
		}
		if p.Unit != "" {
			wanted[models.OptionUnits][p.Unit] = struct{}{}
		}
		if p.Warehouse != "" {
			wanted[models.OptionWarehouses][p.Warehouse] = struct{}{}
		}
	}

	var missing []optionEntry
	for kind, values := range wanted {
		if len(values) == 0 {
			continue
		}
		registered, err := s.options.GetOptions(ctx, kind)
		if err != nil {
			return nil, err
		}
		known := make(map[string]struct{}, len(registered))
		for _, v := range registered {
			known[v] = struct{}{}
		}
		for value := range values {
			if _, ok := known[value]; !ok {
				missing = append(missing, optionEntry{kind: kind, value: value})
			}
		}
	}
	return missing, nil
}
