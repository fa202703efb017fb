package ledger

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/depot/internal/domain/models"
)

// ResolveDebt transitions a pending debt transaction to resolved, storing the
// optional proof image and the resolution date. The transition happens exactly
// once: a standard or already resolved transaction is rejected with
// ErrInvalidState, both here and by the guarded update underneath.
func (s *Service) ResolveDebt(ctx context.Context, session models.Session, transactionID string, proofImage string) (*models.Transaction, error) {
	id, err := primitive.ObjectIDFromHex(transactionID)
	if err != nil {
		return nil, fmt.Errorf("malformed transaction id %q: %w", transactionID, models.ErrValidation)
	}

	txn, err := s.catalog.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if state := txn.DebtState(); state != models.DebtPending {
		return nil, fmt.Errorf("transaction %s is %s, not a pending debt: %w", transactionID, state, models.ErrInvalidState)
	}

	resolvedAt := s.now()
	if err := s.catalog.ResolveTransactionDebt(ctx, id, proofImage, resolvedAt); err != nil {
		return nil, err
	}

	txn.IsDebt = false
	txn.ResolutionImage = proofImage
	txn.ResolutionDate = &resolvedAt

	s.logger.Info("debt resolved",
		zap.String("transaction_id", transactionID),
		zap.Bool("with_proof", proofImage != ""),
		zap.String("actor", session.UserID))
	return txn, nil
}
