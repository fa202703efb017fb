package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/depot/internal/domain/models"
)

type catalogFake struct {
	products    []models.Product
	batches     [][]models.Product
	failAtBatch int
}

func (f *catalogFake) ListProducts(_ context.Context, _ ...models.ProductFilter) ([]models.Product, error) {
	return append([]models.Product(nil), f.products...), nil
}

func (f *catalogFake) BatchCreateProducts(_ context.Context, batch []models.Product) error {
	call := len(f.batches) + 1
	if f.failAtBatch != 0 && call == f.failAtBatch {
		return errors.New("batch write rejected")
	}
	f.batches = append(f.batches, append([]models.Product(nil), batch...))
	f.products = append(f.products, batch...)
	return nil
}

type registryFake struct {
	mu     sync.Mutex
	values map[models.OptionKind][]string
	adds   []string
}

func newRegistryFake() *registryFake {
	return &registryFake{values: make(map[models.OptionKind][]string)}
}

func (f *registryFake) GetOptions(_ context.Context, kind models.OptionKind) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.values[kind]...), nil
}

func (f *registryFake) AddOptionIfAbsent(_ context.Context, kind models.OptionKind, value string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds = append(f.adds, fmt.Sprintf("%s/%s", kind, value))
	for _, v := range f.values[kind] {
		if v == value {
			return f.values[kind], nil
		}
	}
	f.values[kind] = append(f.values[kind], value)
	return f.values[kind], nil
}

func newTestImporter(catalog *catalogFake, registry *registryFake, chunkSize int) *Service {
	svc := NewService(catalog, registry, chunkSize, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func candidateBatch(n int) []models.ScannedItem {
	items := make([]models.ScannedItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, models.ScannedItem{
			Nomenclature: fmt.Sprintf("N-%04d", i),
			Name:         fmt.Sprintf("Item %04d", i),
			Unit:         models.UnitPieces,
			Quantity:     1,
			Selected:     true,
		})
	}
	return items
}

func TestRunImport_ChunksLargeBatches(t *testing.T) {
	catalog := &catalogFake{}
	svc := newTestImporter(catalog, newRegistryFake(), 450)

	summary, err := svc.RunImport(context.Background(), models.Anonymous(), candidateBatch(500), ImportContext{})
	require.NoError(t, err)

	assert.Equal(t, 500, summary.Inserted)
	assert.Equal(t, 0, summary.SkippedDuplicate)
	assert.Zero(t, summary.FailedAtChunk)

	require.Len(t, catalog.batches, 2)
	assert.Len(t, catalog.batches[0], 450)
	assert.Len(t, catalog.batches[1], 50)
}

func TestRunImport_SkipsCatalogDuplicates(t *testing.T) {
	catalog := &catalogFake{products: []models.Product{
		{Nomenclature: "1001", Name: "Bearing 1001"},
	}}
	svc := newTestImporter(catalog, newRegistryFake(), 450)

	candidates := []models.ScannedItem{
		{Nomenclature: "1001", Name: "Bearing deluxe", Quantity: 5},
		{Nomenclature: "1002", Name: "Bolt 1002", Quantity: 7},
	}

	summary, err := svc.RunImport(context.Background(), models.Anonymous(), candidates, ImportContext{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.SkippedDuplicate)

	require.Len(t, catalog.batches, 1)
	assert.Equal(t, "1002", catalog.batches[0][0].Nomenclature)
}

func TestRunImport_DedupIsNormalized(t *testing.T) {
	catalog := &catalogFake{products: []models.Product{
		{Nomenclature: "AB-1", Name: "Widget"},
	}}
	svc := newTestImporter(catalog, newRegistryFake(), 450)

	candidates := []models.ScannedItem{
		{Nomenclature: "  ab-1 ", Name: "Different name", Quantity: 1},
		{Nomenclature: "XY-9", Name: "  WIDGET  ", Quantity: 1},
	}

	summary, err := svc.RunImport(context.Background(), models.Anonymous(), candidates, ImportContext{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Inserted)
	assert.Equal(t, 2, summary.SkippedDuplicate)
	assert.Empty(t, catalog.batches)
}

func TestRunImport_SecondRunIsIdempotent(t *testing.T) {
	catalog := &catalogFake{}
	svc := newTestImporter(catalog, newRegistryFake(), 450)
	candidates := candidateBatch(20)

	first, err := svc.RunImport(context.Background(), models.Anonymous(), candidates, ImportContext{})
	require.NoError(t, err)
	assert.Equal(t, 20, first.Inserted)

	second, err := svc.RunImport(context.Background(), models.Anonymous(), candidates, ImportContext{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 20, second.SkippedDuplicate)
	assert.Len(t, catalog.batches, 1)
}

func TestRunImport_EmptySelection(t *testing.T) {
	svc := newTestImporter(&catalogFake{}, newRegistryFake(), 450)

	_, err := svc.RunImport(context.Background(), models.Anonymous(), nil, ImportContext{})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestRunImport_BackfillsFromContext(t *testing.T) {
	catalog := &catalogFake{}
	svc := newTestImporter(catalog, newRegistryFake(), 450)

	importCtx := ImportContext{
		Category:    "Spare Parts",
		Warehouse:   "Main",
		Rack:        "R-07",
		MinQuantity: 3,
		Date:        time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	}
	candidates := []models.ScannedItem{
		{Nomenclature: "P-1", Name: "Pump seal", Unit: models.UnitPieces, Quantity: 12},
		{Nomenclature: "P-2", Name: "Pump valve", Category: "Hydraulics", Warehouse: "Annex", Unit: models.UnitPieces, Quantity: 4},
	}

	_, err := svc.RunImport(context.Background(), models.Anonymous(), candidates, importCtx)
	require.NoError(t, err)

	require.Len(t, catalog.batches, 1)
	filled := catalog.batches[0][0]
	assert.Equal(t, "Spare Parts", filled.Category)
	assert.Equal(t, "Main", filled.Warehouse)
	assert.Equal(t, "R-07", filled.Rack)
	assert.Equal(t, 3.0, filled.MinQuantity)
	assert.True(t, filled.DateAdded.Equal(importCtx.Date))
	assert.False(t, filled.LowStockTracked)

	explicit := catalog.batches[0][1]
	assert.Equal(t, "Hydraulics", explicit.Category)
	assert.Equal(t, "Annex", explicit.Warehouse)
}

func TestRunImport_PartialChunkFailure(t *testing.T) {
	catalog := &catalogFake{failAtBatch: 2}
	svc := newTestImporter(catalog, newRegistryFake(), 450)

	summary, err := svc.RunImport(context.Background(), models.Anonymous(), candidateBatch(500), ImportContext{})
	require.Error(t, err)

	assert.Equal(t, 450, summary.Inserted)
	assert.Equal(t, 2, summary.FailedAtChunk)
	require.Len(t, catalog.batches, 1)
	assert.Len(t, catalog.products, 450)
}

func TestRunImport_ProvisionsMissingOptions(t *testing.T) {
	registry := newRegistryFake()
	registry.values[models.OptionCategories] = []string{"Tools"}
	registry.values[models.OptionUnits] = []string{models.UnitPieces}
	svc := newTestImporter(&catalogFake{}, registry, 450)

	candidates := []models.ScannedItem{
		{Nomenclature: "T-1", Name: "Hammer", Category: "Tools", Warehouse: "Main", Unit: models.UnitPieces, Quantity: 2},
		{Nomenclature: "C-1", Name: "Cable", Category: "Electric", Warehouse: "Main", Unit: models.UnitMeters, Quantity: 50},
	}

	_, err := svc.RunImport(context.Background(), models.Anonymous(), candidates, ImportContext{})
	require.NoError(t, err)

	assert.Contains(t, registry.values[models.OptionCategories], "Electric")
	assert.Contains(t, registry.values[models.OptionUnits], models.UnitMeters)
	assert.Contains(t, registry.values[models.OptionWarehouses], "Main")

	// Pre-registered values were not re-added.
	assert.NotContains(t, registry.adds, "categories/Tools")
	assert.NotContains(t, registry.adds, "units/"+models.UnitPieces)
}
