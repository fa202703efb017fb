package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/depot/internal/domain/models"
)

// OptionRegistry defines the set-valued option store: one small document per
// kind (warehouses, racks, categories, units).
type OptionRegistry interface {
	GetOptions(ctx context.Context, kind models.OptionKind) ([]string, error)
	AddOptionIfAbsent(ctx context.Context, kind models.OptionKind, value string) ([]string, error)
	RenameOption(ctx context.Context, kind models.OptionKind, from, to string) error
}

// GetOptions returns the values registered under a kind. A kind that was never
// written yields an empty list, not an error.
func (r *Repository) GetOptions(ctx context.Context, kind models.OptionKind) ([]string, error) {
	var set models.OptionSet
	err := r.collection(optionsCollection).FindOne(ctx, bson.M{"kind": kind}).Decode(&set)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get options %s: %w", kind, err)
	}
	return set.Values, nil
}

// AddOptionIfAbsent registers a value under a kind. The $addToSet upsert makes
// the operation idempotent and safe to run concurrently.
func (r *Repository) AddOptionIfAbsent(ctx context.Context, kind models.OptionKind, value string) ([]string, error) {
	filter := bson.M{"kind": kind}
	update := bson.M{"$addToSet": bson.M{"values": value}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var set models.OptionSet
	if err := r.collection(optionsCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&set); err != nil {
		return nil, fmt.Errorf("add option %s/%s: %w", kind, value, err)
	}
	return set.Values, nil
}

// RenameOption replaces a registered value and cascades the rename into the
// matching product field, so existing catalog entries keep pointing at a label
// that still exists.
func (r *Repository) RenameOption(ctx context.Context, kind models.OptionKind, from, to string) error {
	filter := bson.M{"kind": kind, "values": from}
	update := bson.M{"$set": bson.M{"values.$": to}}
	res, err := r.collection(optionsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("rename option %s/%s: %w", kind, from, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("option %s/%s: %w", kind, from, models.ErrNotFound)
	}

	field := kind.ProductField()
	cascade := bson.M{"$set": bson.M{field: to}}
	if _, err := r.collection(productsCollection).UpdateMany(ctx, bson.M{field: from}, cascade); err != nil {
		return fmt.Errorf("cascade rename into products: %w", err)
	}
	return nil
}
