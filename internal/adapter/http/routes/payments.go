package routes

import (
	"khipu_gateway/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathPayments           = "/payments"
	PathPaymentsHealth     = "/health_check_payments"
	PathPing               = "/ping"
	PathPaymentsAPIVersion = "/v3"
)

func addPaymentRoutes(rg *gin.RouterGroup, paymentHandler *handlers.PaymentIntentHandler, healthHandler *handlers.HealthHandler, limit gin.HandlerFunc) {
	create := []gin.HandlerFunc{paymentHandler.CreatePaymentIntent}
	if limit != nil {
		create = append([]gin.HandlerFunc{limit}, create...)
	}
	rg.POST(PathPayments, create...)
	rg.GET(PathPaymentsHealth, healthHandler.PaymentsHealthCheck)
}

func addPingRoutes(rg *gin.RouterGroup, healthHandler *handlers.HealthHandler) {
	rg.GET(PathPing, healthHandler.Ping)
}
