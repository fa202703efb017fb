package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/depot/internal/server/handlers"
)

// Handlers groups the HTTP adapters the router wires up.
type Handlers struct {
	Products  *handlers.ProductHandler
	Movements *handlers.MovementHandler
	Imports   *handlers.ImportHandler
	Options   *handlers.OptionHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(handlers.ActorMiddleware())

	r.GET("/products", h.Products.List)
	r.GET("/products/low-stock", h.Products.LowStock)
	r.GET("/products/:id", h.Products.Get)
	r.POST("/products", h.Products.Create)
	r.PUT("/products/:id", h.Products.Update)

	r.POST("/movements", h.Movements.Apply)
	r.GET("/transactions", h.Movements.ListTransactions)
	r.POST("/transactions/:id/resolve", h.Movements.ResolveDebt)

	r.POST("/import/scan", h.Imports.Scan)
	r.POST("/import/sheet", h.Imports.Sheet)
	r.POST("/import/commit", h.Imports.Commit)

	r.GET("/options/:kind", h.Options.Get)
	r.POST("/options/:kind", h.Options.Add)
	r.POST("/options/:kind/rename", h.Options.Rename)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
