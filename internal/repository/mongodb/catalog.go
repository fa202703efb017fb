package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/depot/internal/domain/models"
)

// Catalog defines the product and transaction storage operations.
type Catalog interface {
	ListProducts(ctx context.Context, filters ...models.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate, at time.Time) error
	BatchCreateProducts(ctx context.Context, products []models.Product) error
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error)
	ResolveTransactionDebt(ctx context.Context, id primitive.ObjectID, proofImage string, at time.Time) error
	CommitMovement(ctx context.Context, commit MovementCommit) error
}

// MovementCommit bundles the guarded quantity swap with the audit transaction
// it justifies. The two writes are applied as one atomic unit.
type MovementCommit struct {
	ProductID     primitive.ObjectID
	SeenUpdatedAt time.Time
	NewQuantity   float64
	UpdatedAt     time.Time
	Transaction   models.Transaction
}

// ListProducts returns the catalog, optionally narrowed by filters. Filters are
// intersected.
func (r *Repository) ListProducts(ctx context.Context, filters ...models.ProductFilter) ([]models.Product, error) {
	cursor, err := r.collection(productsCollection).Find(ctx, buildProductQuery(filters))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func buildProductQuery(filters []models.ProductFilter) bson.M {
	query := bson.M{}
	for _, f := range filters {
		switch v := f.(type) {
		case models.ByCategory:
			query["category"] = v.Category
		case models.ByWarehouse:
			query["warehouse"] = v.Warehouse
		case models.ByNomenclature:
			query["nomenclature"] = v.Nomenclature
		case models.LowStockOnly:
			query["low_stock_tracked"] = true
			query["$expr"] = bson.M{"$lte": bson.A{"$quantity", "$min_quantity"}}
		}
	}
	return query
}

// GetProduct fetches one product by id.
func (r *Repository) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection(productsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("product %s: %w", id.Hex(), models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

// CreateProduct inserts a single product and backfills its generated id.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	res, err := r.collection(productsCollection).InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

// UpdateProduct applies the provided descriptive fields and refreshes the
// last_updated stamp. Quantity is never touched here; it only moves through
// CommitMovement.
func (r *Repository) UpdateProduct(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate, at time.Time) error {
	set := bson.M{"last_updated": at}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Warehouse != nil {
		set["warehouse"] = *update.Warehouse
	}
	if update.Rack != nil {
		set["rack"] = *update.Rack
	}
	if update.Unit != nil {
		set["unit"] = *update.Unit
	}
	if update.MinQuantity != nil {
		set["min_quantity"] = *update.MinQuantity
	}
	if update.LowStockTracked != nil {
		set["low_stock_tracked"] = *update.LowStockTracked
	}
	if update.Images != nil {
		set["images"] = *update.Images
	}

	res, err := r.collection(productsCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", id.Hex(), models.ErrNotFound)
	}
	return nil
}

// BatchCreateProducts inserts up to MaxBatchSize products as one ordered batch.
func (r *Repository) BatchCreateProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return fmt.Errorf("empty batch: %w", models.ErrValidation)
	}
	if len(products) > MaxBatchSize {
		return fmt.Errorf("batch of %d exceeds limit of %d: %w", len(products), MaxBatchSize, models.ErrValidation)
	}

	docs := make([]interface{}, 0, len(products))
	for i := range products {
		docs = append(docs, products[i])
	}

	opts := options.InsertMany().SetOrdered(true)
	if _, err := r.collection(productsCollection).InsertMany(ctx, docs, opts); err != nil {
		return fmt.Errorf("batch insert %d products: %w", len(products), err)
	}
	return nil
}

// ListTransactions returns the audit log, most recent movement first.
func (r *Repository) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection(transactionsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var transactions []models.Transaction
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return transactions, nil
}

// GetTransaction fetches one transaction by id.
func (r *Repository) GetTransaction(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.collection(transactionsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&txn)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("transaction %s: %w", id.Hex(), models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &txn, nil
}

// ResolveTransactionDebt flips a pending debt to resolved. The filter only
// matches documents still carrying the debt flag, so the transition can happen
// at most once even under concurrent resolution attempts.
func (r *Repository) ResolveTransactionDebt(ctx context.Context, id primitive.ObjectID, proofImage string, at time.Time) error {
	set := bson.M{"is_debt": false, "resolution_date": at}
	if proofImage != "" {
		set["resolution_image"] = proofImage
	}

	filter := bson.M{"_id": id, "is_debt": true}
	res, err := r.collection(transactionsCollection).UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("resolve debt: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("transaction %s is not a pending debt: %w", id.Hex(), models.ErrInvalidState)
	}
	return nil
}

// CommitMovement executes the quantity swap and the audit append inside one
// session transaction. The product update is guarded by the last_updated stamp
// the caller observed; a guard miss aborts with ErrStaleProduct so the caller
// can re-read and retry.
func (r *Repository) CommitMovement(ctx context.Context, commit MovementCommit) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		filter := bson.M{"_id": commit.ProductID, "last_updated": commit.SeenUpdatedAt}
		update := bson.M{"$set": bson.M{"quantity": commit.NewQuantity, "last_updated": commit.UpdatedAt}}

		res := r.collection(productsCollection).FindOneAndUpdate(sc, filter, update)
		if err := res.Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, models.ErrStaleProduct
			}
			return nil, fmt.Errorf("guarded quantity update: %w", err)
		}

		if _, err := r.collection(transactionsCollection).InsertOne(sc, commit.Transaction); err != nil {
			return nil, fmt.Errorf("append transaction: %w", err)
		}
		return nil, nil
	})
	return err
}
