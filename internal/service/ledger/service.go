package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/depot/internal/domain/models"
	"github.com/mamadbah2/depot/internal/repository/mongodb"
)

// maxCommitAttempts bounds the optimistic retry loop when concurrent movements
// hit the same product.
const maxCommitAttempts = 5

// Ledger applies stock movements and drives the debt lifecycle.
type Ledger interface {
	ApplyMovement(ctx context.Context, session models.Session, input ApplyMovementInput) (*models.Transaction, error)
	ResolveDebt(ctx context.Context, session models.Session, transactionID string, proofImage string) (*models.Transaction, error)
}

// ApplyMovementInput carries one inbound or outbound quantity change request.
type ApplyMovementInput struct {
	ProductID string
	Type      models.MovementType
	Quantity  float64
	Date      time.Time
	Receiver  string
	Notes     string
	Images    []string
	IsDebt    bool
}

// Service implements the Ledger interface.
type Service struct {
	catalog mongodb.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

// NewService constructs a ledger service.
func NewService(catalog mongodb.Catalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}
}

// ApplyMovement mutates one product's quantity and appends the matching audit
// transaction as a single atomic unit. The current quantity is always taken
// from a fresh read; if the product changes under us before the guarded commit
// lands, the read-validate-commit cycle is retried.
func (s *Service) ApplyMovement(ctx context.Context, session models.Session, input ApplyMovementInput) (*models.Transaction, error) {
	productID, err := s.validateMovement(input)
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	for attempt := 1; attempt <= maxCommitAttempts; attempt++ {
		product, err := s.catalog.GetProduct(ctx, productID)
		if err != nil {
			return nil, err
		}

		newQuantity := product.Quantity + input.Quantity
		if input.Type == models.MovementOutbound {
			if input.Quantity > product.Quantity {
				return nil, &models.InsufficientStockError{
					Available: product.Quantity,
					Requested: input.Quantity,
					Unit:      product.Unit,
				}
			}
			newQuantity = product.Quantity - input.Quantity
		}

		txn := models.Transaction{
			ID:                  primitive.NewObjectID(),
			ProductID:           product.ID,
			ProductName:         product.Name,
			ProductNomenclature: product.Nomenclature,
			Type:                input.Type,
			Quantity:            input.Quantity,
			Unit:                product.Unit,
			Date:                date,
			Receiver:            input.Receiver,
			Notes:               input.Notes,
			Images:              input.Images,
			IsDebt:              input.IsDebt,
			RecordedBy:          session.UserID,
		}

		commit := mongodb.MovementCommit{
			ProductID:     product.ID,
			SeenUpdatedAt: product.LastUpdated,
			NewQuantity:   newQuantity,
			UpdatedAt:     s.now(),
			Transaction:   txn,
		}

		err = s.catalog.CommitMovement(ctx, commit)
		if errors.Is(err, models.ErrStaleProduct) {
			s.logger.Debug("movement commit lost the race, retrying",
				zap.String("product_id", productID.Hex()),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("commit movement: %w", err)
		}

		s.logger.Info("movement applied",
			zap.String("product_id", productID.Hex()),
			zap.String("type", string(input.Type)),
			zap.Float64("quantity", input.Quantity),
			zap.Float64("new_quantity", newQuantity),
			zap.Bool("is_debt", input.IsDebt),
			zap.String("actor", session.UserID))
		return &txn, nil
	}

	return nil, fmt.Errorf("movement contention after %d attempts: %w", maxCommitAttempts, models.ErrStaleProduct)
}

func (s *Service) validateMovement(input ApplyMovementInput) (primitive.ObjectID, error) {
	if input.Quantity <= 0 {
		return primitive.NilObjectID, fmt.Errorf("quantity must be positive: %w", models.ErrValidation)
	}
	if !input.Type.Valid() {
		return primitive.NilObjectID, fmt.Errorf("unknown movement type %q: %w", input.Type, models.ErrValidation)
	}
	if input.IsDebt && input.Type != models.MovementOutbound {
		return primitive.NilObjectID, fmt.Errorf("debt flag is only valid on outbound movements: %w", models.ErrValidation)
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("malformed product id %q: %w", input.ProductID, models.ErrValidation)
	}
	return productID, nil
}
