package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/depot/internal/domain/models"
)

// Catalog is the slice of the catalog store the reporter needs.
type Catalog interface {
	ListProducts(ctx context.Context, filters ...models.ProductFilter) ([]models.Product, error)
}

// ReportStore persists finished snapshots.
type ReportStore interface {
	SaveStockReport(ctx context.Context, report models.StockReport) error
}

// Service builds scheduled catalog health snapshots.
type Service struct {
	catalog Catalog
	reports ReportStore
	logger  *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(catalog Catalog, reports ReportStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: catalog, reports: reports, logger: logger}
}

// BuildStockReport reads the full catalog, applies the low-stock predicate and
// persists the snapshot.
func (s *Service) BuildStockReport(ctx context.Context, now time.Time) (*models.StockReport, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog for report: %w", err)
	}

	report := models.StockReport{
		Date:         now.Truncate(24 * time.Hour),
		ProductCount: len(products),
		CreatedAt:    now,
	}

	for _, p := range products {
		if !p.IsLow() {
			continue
		}
		report.LowStock = append(report.LowStock, models.LowStockLine{
			Nomenclature: p.Nomenclature,
			Name:         p.Name,
			Warehouse:    p.Warehouse,
			Quantity:     p.Quantity,
			MinQuantity:  p.MinQuantity,
			Unit:         p.Unit,
		})
	}

	if err := s.reports.SaveStockReport(ctx, report); err != nil {
		return nil, fmt.Errorf("persist stock report: %w", err)
	}

	s.logger.Info("stock report saved",
		zap.Int("products", report.ProductCount),
		zap.Int("low_stock", len(report.LowStock)))
	return &report, nil
}
