package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports that the process is serving requests.
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} OKResponse
// @Router      /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, OKResponse{OK: true})
}
