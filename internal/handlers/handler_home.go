package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Show the status of server.
// @Description Reports the service name and the currency the ledger is kept in.
// @Tags root
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func getHome(currencyCode string, scale int32) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":       "general-ledger",
			"currency":      currencyCode,
			"currencyScale": scale,
		})
	}
}
