package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/depot/internal/domain/models"
	"github.com/mamadbah2/depot/internal/repository/mongodb"
	"github.com/mamadbah2/depot/internal/service/ledger"
)

// MovementHandler serves the stock movement and debt resolution endpoints.
type MovementHandler struct {
	ledger  ledger.Ledger
	catalog mongodb.Catalog
	logger  *zap.Logger
}

// NewMovementHandler constructs the ledger HTTP adapter.
func NewMovementHandler(ledgerSvc ledger.Ledger, catalog mongodb.Catalog, logger *zap.Logger) *MovementHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MovementHandler{ledger: ledgerSvc, catalog: catalog, logger: logger}
}

type applyMovementRequest struct {
	ProductID string   `json:"product_id" binding:"required"`
	Type      string   `json:"type" binding:"required,oneof=inbound outbound"`
	Quantity  float64  `json:"quantity" binding:"required,gt=0"`
	Date      string   `json:"date"`
	Receiver  string   `json:"receiver"`
	Notes     string   `json:"notes"`
	Images    []string `json:"images"`
	IsDebt    bool     `json:"is_debt"`
}

// Apply records one inbound or outbound movement.
func (h *MovementHandler) Apply(c *gin.Context) {
	var req applyMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid movement payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	txn, err := h.ledger.ApplyMovement(c.Request.Context(), SessionFrom(c), ledger.ApplyMovementInput{
		ProductID: req.ProductID,
		Type:      models.MovementType(req.Type),
		Quantity:  req.Quantity,
		Date:      date,
		Receiver:  req.Receiver,
		Notes:     req.Notes,
		Images:    req.Images,
		IsDebt:    req.IsDebt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// ListTransactions returns the audit log, most recent first.
func (h *MovementHandler) ListTransactions(c *gin.Context) {
	transactions, err := h.catalog.ListTransactions(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing transactions", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "count": len(transactions)})
}

type resolveDebtRequest struct {
	ProofImage string `json:"proof_image"`
}

// ResolveDebt settles a pending debt transaction.
func (h *MovementHandler) ResolveDebt(c *gin.Context) {
	var req resolveDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.logger.Warn("invalid resolve payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	txn, err := h.ledger.ResolveDebt(c.Request.Context(), SessionFrom(c), c.Param("id"), req.ProofImage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}
