package mongodb

import (
	"context"
	"fmt"

	"github.com/mamadbah2/depot/internal/domain/models"
)

// SaveStockReport saves a daily stock snapshot to the database.
func (r *Repository) SaveStockReport(ctx context.Context, report models.StockReport) error {
	if _, err := r.collection(reportsCollection).InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert stock report: %w", err)
	}
	return nil
}
