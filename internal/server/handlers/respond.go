package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/depot/internal/domain/models"
)

const sessionContextKey = "depot.session"

// ActorMiddleware builds the per-request session from the actor headers and
// stashes it in the gin context. Requests without identification run as
// anonymous; there is no global logged-in user anywhere.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := models.Anonymous()
		if id := c.GetHeader("X-Actor-ID"); id != "" {
			session = models.Session{UserID: id, Name: c.GetHeader("X-Actor-Name")}
		}
		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// SessionFrom extracts the request session placed by ActorMiddleware.
func SessionFrom(c *gin.Context) models.Session {
	if value, ok := c.Get(sessionContextKey); ok {
		if session, ok := value.(models.Session); ok {
			return session
		}
	}
	return models.Anonymous()
}

// respondError maps domain failures onto HTTP statuses. Insufficient stock
// carries the available quantity so the UI can show what the warehouse
// actually holds.
func respondError(c *gin.Context, err error) {
	var stockErr *models.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "insufficient stock",
			"available": stockErr.Available,
			"requested": stockErr.Requested,
			"unit":      stockErr.Unit,
		})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrStaleProduct):
		c.JSON(http.StatusConflict, gin.H{"error": "product is busy, retry the movement"})
	case errors.Is(err, models.ErrImportFormat):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
