package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/depot/internal/domain/models"
	"github.com/mamadbah2/depot/internal/repository/mongodb"
)

// ProductHandler serves catalog read and edit endpoints.
type ProductHandler struct {
	catalog mongodb.Catalog
	logger  *zap.Logger
}

// NewProductHandler constructs the catalog HTTP adapter.
func NewProductHandler(catalog mongodb.Catalog, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{catalog: catalog, logger: logger}
}

// List returns the catalog, narrowed by the query parameters. Each recognized
// parameter becomes one typed filter variant.
func (h *ProductHandler) List(c *gin.Context) {
	var filters []models.ProductFilter
	if category := c.Query("category"); category != "" {
		filters = append(filters, models.ByCategory{Category: category})
	}
	if warehouse := c.Query("warehouse"); warehouse != "" {
		filters = append(filters, models.ByWarehouse{Warehouse: warehouse})
	}
	if nomenclature := c.Query("nomenclature"); nomenclature != "" {
		filters = append(filters, models.ByNomenclature{Nomenclature: nomenclature})
	}
	if c.Query("low") == "true" {
		filters = append(filters, models.LowStockOnly{})
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), filters...)
	if err != nil {
		h.logger.Error("failed listing products", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// LowStock returns only tracked products at or below their threshold.
func (h *ProductHandler) LowStock(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context(), models.LowStockOnly{})
	if err != nil {
		h.logger.Error("failed listing low-stock products", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// Get returns one product by id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed product id"})
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type createProductRequest struct {
	Nomenclature    string   `json:"nomenclature" binding:"required"`
	Name            string   `json:"name" binding:"required"`
	Category        string   `json:"category"`
	Warehouse       string   `json:"warehouse"`
	Rack            string   `json:"rack"`
	Quantity        float64  `json:"quantity" binding:"gte=0"`
	Unit            string   `json:"unit"`
	MinQuantity     float64  `json:"min_quantity" binding:"gte=0"`
	LowStockTracked bool     `json:"low_stock_tracked"`
	DateAdded       string   `json:"date_added"`
	Images          []string `json:"images"`
}

// Create registers a single product by hand, outside the bulk-import flow.
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid product payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	now := time.Now()
	dateAdded := now
	if req.DateAdded != "" {
		parsed, err := time.Parse("2006-01-02", req.DateAdded)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_added must be YYYY-MM-DD"})
			return
		}
		dateAdded = parsed
	}

	unit := req.Unit
	if unit == "" {
		unit = models.UnitPieces
	}

	product := models.Product{
		Nomenclature:    req.Nomenclature,
		Name:            req.Name,
		Category:        req.Category,
		Warehouse:       req.Warehouse,
		Rack:            req.Rack,
		Quantity:        req.Quantity,
		Unit:            unit,
		MinQuantity:     req.MinQuantity,
		LowStockTracked: req.LowStockTracked,
		DateAdded:       dateAdded,
		LastUpdated:     now,
		Images:          req.Images,
	}

	if err := h.catalog.CreateProduct(c.Request.Context(), &product); err != nil {
		h.logger.Error("failed creating product", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// Update edits a product's descriptive fields. Quantity changes are rejected
// by shape: the update payload simply has no quantity field, movements are the
// only path that touches it.
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed product id"})
		return
	}

	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.logger.Warn("invalid product update payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.catalog.UpdateProduct(c.Request.Context(), id, update, time.Now()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
