package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCatalog returns the tote and add-on catalog the build form offers.
func (h *Handler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog)
}

// GetHealth reports liveness.
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.sessions.Count()})
}
