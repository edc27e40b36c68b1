package handlers

import (
	"net/http"

	response "khipu_gateway/internal/adapter/http/dto/response"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Ping is the liveness probe served under /v1.
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, response.PingResponse{Message: "pong"})
}

// PaymentsHealthCheck godoc
// @Summary  Payments health check
// @Tags     health
// @Produce  json
// @Success  200  {object}  response.HealthResponse
// @Router   /health_check_payments [get]
func (h *HealthHandler) PaymentsHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, response.NewPaymentsHealthResponse())
}
