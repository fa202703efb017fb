package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/depot/internal/domain/models"
	"github.com/mamadbah2/depot/internal/repository/mongodb"
)

// OptionHandler serves the option registry endpoints.
type OptionHandler struct {
	registry mongodb.OptionRegistry
	logger   *zap.Logger
}

// NewOptionHandler constructs the option registry HTTP adapter.
func NewOptionHandler(registry mongodb.OptionRegistry, logger *zap.Logger) *OptionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OptionHandler{registry: registry, logger: logger}
}

func optionKind(c *gin.Context) (models.OptionKind, bool) {
	kind := models.OptionKind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown option kind"})
		return "", false
	}
	return kind, true
}

// Get returns the registered values for a kind.
func (h *OptionHandler) Get(c *gin.Context) {
	kind, ok := optionKind(c)
	if !ok {
		return
	}

	values, err := h.registry.GetOptions(c.Request.Context(), kind)
	if err != nil {
		h.logger.Error("failed loading options", zap.String("kind", string(kind)), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "values": values})
}

type addOptionRequest struct {
	Value string `json:"value" binding:"required"`
}

// Add registers a value under a kind. Re-adding an existing value is a no-op.
func (h *OptionHandler) Add(c *gin.Context) {
	kind, ok := optionKind(c)
	if !ok {
		return
	}

	var req addOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	values, err := h.registry.AddOptionIfAbsent(c.Request.Context(), kind, req.Value)
	if err != nil {
		h.logger.Error("failed adding option", zap.String("kind", string(kind)), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "values": values})
}

type renameOptionRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// Rename replaces a registered value and cascades into the catalog.
func (h *OptionHandler) Rename(c *gin.Context) {
	kind, ok := optionKind(c)
	if !ok {
		return
	}

	var req renameOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.registry.RenameOption(c.Request.Context(), kind, req.From, req.To); err != nil {
		h.logger.Error("failed renaming option", zap.String("kind", string(kind)), zap.Error(err))
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
