package interfaces

import (
	"context"

	"khipu_gateway/internal/domain/entities"
)

//go:generate mockgen -source=payment_gateway_interface.go -destination=mocks/mock_payment_gateway_interface.go -package=mock_interfaces

// IPaymentGateway abstracts the external payment provider (Khipu).
//
// Implementations return the provider answer untouched, whatever its status;
// the use case classifies it. A *entities.TransportError is returned when no
// answer was obtained at all.
type IPaymentGateway interface {
	CreatePayment(ctx context.Context, payload entities.NormalizedPayload) (entities.RawResponse, error)
}
