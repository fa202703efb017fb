package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/depot/internal/domain/models"
	"github.com/mamadbah2/depot/internal/repository/mongodb"
)

// fakeCatalog is an in-memory stand-in for the MongoDB catalog. CommitMovement
// honors the last_updated guard the same way the real repository does.
type fakeCatalog struct {
	products      map[primitive.ObjectID]*models.Product
	transactions  []models.Transaction
	staleFailures int
	commitCalls   int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{products: make(map[primitive.ObjectID]*models.Product)}
}

func (f *fakeCatalog) addProduct(p models.Product) primitive.ObjectID {
	id := primitive.NewObjectID()
	p.ID = id
	f.products[id] = &p
	return id
}

func (f *fakeCatalog) ListProducts(_ context.Context, _ ...models.ProductFilter) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id.Hex(), models.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeCatalog) CreateProduct(_ context.Context, p *models.Product) error {
	p.ID = f.addProduct(*p)
	return nil
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, id primitive.ObjectID, update models.ProductUpdate, at time.Time) error {
	p, ok := f.products[id]
	if !ok {
		return models.ErrNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	p.LastUpdated = at
	return nil
}

func (f *fakeCatalog) BatchCreateProducts(_ context.Context, products []models.Product) error {
	for _, p := range products {
		f.addProduct(p)
	}
	return nil
}

func (f *fakeCatalog) ListTransactions(_ context.Context) ([]models.Transaction, error) {
	return append([]models.Transaction(nil), f.transactions...), nil
}

func (f *fakeCatalog) GetTransaction(_ context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	for i := range f.transactions {
		if f.transactions[i].ID == id {
			copied := f.transactions[i]
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("transaction %s: %w", id.Hex(), models.ErrNotFound)
}

func (f *fakeCatalog) ResolveTransactionDebt(_ context.Context, id primitive.ObjectID, proofImage string, at time.Time) error {
	for i := range f.transactions {
		if f.transactions[i].ID != id {
			continue
		}
		if !f.transactions[i].IsDebt {
			return fmt.Errorf("transaction %s is not a pending debt: %w", id.Hex(), models.ErrInvalidState)
		}
		f.transactions[i].IsDebt = false
		f.transactions[i].ResolutionImage = proofImage
		resolved := at
		f.transactions[i].ResolutionDate = &resolved
		return nil
	}
	return models.ErrNotFound
}

func (f *fakeCatalog) CommitMovement(_ context.Context, commit mongodb.MovementCommit) error {
	f.commitCalls++
	if f.staleFailures > 0 {
		f.staleFailures--
		return models.ErrStaleProduct
	}

	p, ok := f.products[commit.ProductID]
	if !ok {
		return models.ErrNotFound
	}
	if !p.LastUpdated.Equal(commit.SeenUpdatedAt) {
		return models.ErrStaleProduct
	}

	p.Quantity = commit.NewQuantity
	p.LastUpdated = commit.UpdatedAt

	txn := commit.Transaction
	if txn.ID.IsZero() {
		txn.ID = primitive.NewObjectID()
	}
	f.transactions = append(f.transactions, txn)
	return nil
}

func newTestService(catalog *fakeCatalog, at time.Time) *Service {
	svc := NewService(catalog, nil)
	svc.now = func() time.Time { return at }
	return svc
}

func testSession() models.Session {
	return models.Session{UserID: "u-42", Name: "Mariama"}
}

func TestApplyMovement_Sequence(t *testing.T) {
	catalog := newFakeCatalog()
	id := catalog.addProduct(models.Product{
		Nomenclature: "A1",
		Name:         "Gasket",
		Unit:         models.UnitPieces,
		Quantity:     10,
		LastUpdated:  time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	})
	svc := newTestService(catalog, time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC))

	t.Run("outbound exceeding stock fails and mutates nothing", func(t *testing.T) {
		_, err := svc.ApplyMovement(context.Background(), testSession(), ApplyMovementInput{
			ProductID: id.Hex(),
			Type:      models.MovementOutbound,
			Quantity:  15,
		})
		require.ErrorIs(t, err, models.ErrInsufficientStock)

		var stockErr *models.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 10.0, stockErr.Available)
		assert.Equal(t, 15.0, stockErr.Requested)

		assert.Equal(t, 10.0, catalog.products[id].Quantity)
		assert.Empty(t, catalog.transactions)
	})

	t.Run("outbound within stock decrements and logs one transaction", func(t *testing.T) {
		txn, err := svc.ApplyMovement(context.Background(), testSession(), ApplyMovementInput{
			ProductID: id.Hex(),
			Type:      models.MovementOutbound,
			Quantity:  4,
			Receiver:  "Atelier B",
		})
		require.NoError(t, err)

		assert.Equal(t, 6.0, catalog.products[id].Quantity)
		require.Len(t, catalog.transactions, 1)
		assert.Equal(t, models.MovementOutbound, txn.Type)
		assert.Equal(t, 4.0, txn.Quantity)
		assert.Equal(t, "u-42", txn.RecordedBy)
	})

	t.Run("inbound increments", func(t *testing.T) {
		_, err := svc.ApplyMovement(context.Background(), testSession(), ApplyMovementInput{
			ProductID: id.Hex(),
			Type:      models.MovementInbound,
			Quantity:  5,
			Receiver:  "Fournisseur Diallo",
		})
		require.NoError(t, err)
		assert.Equal(t, 11.0, catalog.products[id].Quantity)
		assert.Len(t, catalog.transactions, 2)
	})
}

func TestApplyMovement_Validation(t *testing.T) {
	catalog := newFakeCatalog()
	id := catalog.addProduct(models.Product{Nomenclature: "A1", Quantity: 10})
	svc := newTestService(catalog, time.Now())

	cases := map[string]ApplyMovementInput{
		"zero quantity": {
			ProductID: id.Hex(),
			Type:      models.MovementInbound,
			Quantity:  0,
		},
		"negative quantity": {
			ProductID: id.Hex(),
			Type:      models.MovementOutbound,
			Quantity:  -3,
		},
		"unknown movement type": {
			ProductID: id.Hex(),
			Type:      models.MovementType("transfer"),
			Quantity:  1,
		},
		"debt on inbound": {
			ProductID: id.Hex(),
			Type:      models.MovementInbound,
			Quantity:  1,
			IsDebt:    true,
		},
		"malformed product id": {
			ProductID: "not-an-id",
			Type:      models.MovementInbound,
			Quantity:  1,
		},
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ApplyMovement(context.Background(), testSession(), input)
			require.ErrorIs(t, err, models.ErrValidation)
			assert.Empty(t, catalog.transactions)
			assert.Zero(t, catalog.commitCalls)
		})
	}
}

func TestApplyMovement_UnknownProduct(t *testing.T) {
	svc := newTestService(newFakeCatalog(), time.Now())

	_, err := svc.ApplyMovement(context.Background(), testSession(), ApplyMovementInput{
		ProductID: primitive.NewObjectID().Hex(),
		Type:      models.MovementInbound,
		Quantity:  1,
	})
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestApplyMovement_SnapshotSurvivesRename(t *testing.T) {
	catalog := newFakeCatalog()
	id := catalog.addProduct(models.Product{Nomenclature: "A1", Name: "Old Name", Quantity: 10})
	svc := newTestService(catalog, time.Now())

	_, err := svc.ApplyMovement(context.Background(), testSession(), ApplyMovementInput{
		ProductID: id.Hex(),
		Type:      models.MovementOutbound,
		Quantity:  2,
	})
	require.NoError(t, err)

	newName := "New Name"
	require.NoError(t, catalog.UpdateProduct(context.Background(), id, models.ProductUpdate{Name: &newName}, time.Now()))

	txns, err := catalog.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Old Name", txns[0].ProductName)
	assert.Equal(t, "A1", txns[0].ProductNomenclature)
}

func TestApplyMovement_RetriesOnStaleProduct(t *testing.T) {
	catalog := newFakeCatalog()
	id := catalog.addProduct(models.Product{Nomenclature: "A1", Quantity: 10})
	catalog.staleFailures = 2
	svc := newTestService(catalog, time.Now())

	_, err := svc.ApplyMovement(context.Background(), testSession(), ApplyMovementInput{
		ProductID: id.Hex(),
		Type:      models.MovementOutbound,
		Quantity:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, catalog.commitCalls)
	assert.Equal(t, 9.0, catalog.products[id].Quantity)
}

func TestApplyMovement_GivesUpUnderContention(t *testing.T) {
	catalog := newFakeCatalog()
	id := catalog.addProduct(models.Product{Nomenclature: "A1", Quantity: 10})
	catalog.staleFailures = 100
	svc := newTestService(catalog, time.Now())

	_, err := svc.ApplyMovement(context.Background(), testSession(), ApplyMovementInput{
		ProductID: id.Hex(),
		Type:      models.MovementOutbound,
		Quantity:  1,
	})
	require.ErrorIs(t, err, models.ErrStaleProduct)
	assert.Equal(t, maxCommitAttempts, catalog.commitCalls)
	assert.Equal(t, 10.0, catalog.products[id].Quantity)
}
