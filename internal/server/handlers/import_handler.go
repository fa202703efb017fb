package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/depot/internal/domain/models"
	"github.com/mamadbah2/depot/internal/repository/sheets"
	"github.com/mamadbah2/depot/internal/service/reconcile"
	"github.com/mamadbah2/depot/pkg/clients/vision"
)

// ImportHandler serves the bulk-import flow: scanning or parsing a source into
// candidates, then committing the reviewed selection.
type ImportHandler struct {
	importer reconcile.Importer
	vision   vision.Client
	sheets   sheets.Importer
	logger   *zap.Logger
}

// NewImportHandler constructs the import HTTP adapter. The vision and sheets
// collaborators may be nil when not configured; their endpoints then report
// the capability as unavailable.
func NewImportHandler(importer reconcile.Importer, visionClient vision.Client, sheetImporter sheets.Importer, logger *zap.Logger) *ImportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportHandler{importer: importer, vision: visionClient, sheets: sheetImporter, logger: logger}
}

type scanRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
}

// Scan submits a stock document photo to the recognition collaborator and
// returns the candidate rows with their review-time duplicate clusters.
func (h *ImportHandler) Scan(c *gin.Context) {
	if h.vision == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "document recognition is not configured"})
		return
	}

	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid scan payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	items, err := h.vision.Scan(c.Request.Context(), req.ImageURL)
	if err != nil {
		h.logger.Warn("document scan failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"clusters": reconcile.ClusterDuplicates(items),
	})
}

type sheetRequest struct {
	SpreadsheetID string `json:"spreadsheet_id" binding:"required"`
}

// Sheet parses a spreadsheet source into candidate rows with their duplicate
// clusters.
func (h *ImportHandler) Sheet(c *gin.Context) {
	if h.sheets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "spreadsheet import is not configured"})
		return
	}

	var req sheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sheet payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	items, err := h.sheets.Parse(c.Request.Context(), req.SpreadsheetID)
	if err != nil {
		h.logger.Warn("spreadsheet parse failed", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"clusters": reconcile.ClusterDuplicates(items),
	})
}

type commitRequest struct {
	Items   []models.ScannedItem `json:"items" binding:"required"`
	Context importContextPayload `json:"context"`
}

type importContextPayload struct {
	Category    string  `json:"category"`
	Warehouse   string  `json:"warehouse"`
	Rack        string  `json:"rack"`
	MinQuantity float64 `json:"min_quantity"`
	Date        string  `json:"date"`
}

// Commit reconciles the selected candidates against the live catalog and
// inserts the new ones. A partial chunk failure still reports what was saved,
// so the user can re-run the remainder; dedup makes the re-run safe.
func (h *ImportHandler) Commit(c *gin.Context) {
	var req commitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid commit payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	selected := make([]models.ScannedItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Selected {
			selected = append(selected, item)
		}
	}
	if len(selected) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no rows selected for import"})
		return
	}

	importCtx := reconcile.ImportContext{
		Category:    req.Context.Category,
		Warehouse:   req.Context.Warehouse,
		Rack:        req.Context.Rack,
		MinQuantity: req.Context.MinQuantity,
	}
	if req.Context.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Context.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		importCtx.Date = parsed
	}

	summary, err := h.importer.RunImport(c.Request.Context(), SessionFrom(c), selected, importCtx)
	if err != nil {
		if summary.FailedAtChunk > 0 {
			h.logger.Error("import partially committed", zap.Int("failed_at_chunk", summary.FailedAtChunk), zap.Error(err))
			c.JSON(http.StatusConflict, gin.H{"error": "import partially committed", "summary": summary})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
