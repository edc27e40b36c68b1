package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"khipu_gateway/internal/domain/entities"
	"khipu_gateway/internal/infrastructure/logging"
	"khipu_gateway/internal/usecase"
	"khipu_gateway/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const jsonContentType = "application/json; charset=utf-8"

var ErrBodyNotJSONObject = errors.New("request body must be a JSON object")

// PaymentIntentHandler handles HTTP requests for payment intents.
type PaymentIntentHandler struct {
	usecase usecase.IPaymentIntentUseCase
	logger  zerolog.Logger
}

func NewPaymentIntentHandler(uc usecase.IPaymentIntentUseCase, logger zerolog.Logger) *PaymentIntentHandler {
	return &PaymentIntentHandler{usecase: uc, logger: logging.Component(logger, "payment", "handler")}
}

// CreatePaymentIntent godoc
// @Summary      Create a payment intent
// @Description  Validates the request, forwards it to the payment provider and relays the provider answer.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body      entities.PaymentRequest  true  "Payment intent"
// @Success      201      {object}  map[string]interface{}
// @Failure      400      {object}  pkg.HTTPError
// @Failure      500      {object}  pkg.HTTPError
// @Failure      503      {object}  pkg.HTTPError
// @Failure      504      {object}  pkg.HTTPError
// @Router       /payments [post]
func (h *PaymentIntentHandler) CreatePaymentIntent(c *gin.Context) {
	req, err := readPaymentRequest(c)
	if err != nil {
		h.logger.Info().Err(err).Msg("invalid body")
		appErr := pkg.NewDomainError("INVALID_REQUEST", ErrBodyNotJSONObject.Error(), err, http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	result, err := h.usecase.Create(c.Request.Context(), req)
	if err != nil {
		writePaymentFailure(c, err)
		return
	}
	h.logger.Info().Int("status", http.StatusCreated).Msg("create success")

	c.Data(http.StatusCreated, jsonContentType, result.Body)
}

func readPaymentRequest(c *gin.Context) (entities.PaymentRequest, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return entities.PaymentRequest{}, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return entities.PaymentRequest{}, ErrBodyNotJSONObject
	}
	return usecase.DecodePaymentRequest(trimmed)
}

// writePaymentFailure renders a use case failure. Provider JSON error bodies
// are relayed untouched; everything else becomes {"error", "details"}.
func writePaymentFailure(c *gin.Context, err error) {
	var failure *entities.PaymentFailure
	if !errors.As(err, &failure) {
		appErr := pkg.NewDomainError("INTERNAL_ERROR", "unexpected internal error", err, http.StatusInternalServerError)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	if len(failure.Body) > 0 {
		c.Data(failure.HTTPStatus, jsonContentType, failure.Body)
		return
	}

	appErr := mapPaymentFailure(failure)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapPaymentFailure(failure *entities.PaymentFailure) *pkg.AppError {
	appErr := pkg.NewDomainError(failureCode(failure.Category), failure.Message, failure, failure.HTTPStatus)
	switch failure.Category {
	case entities.FailureUpstream, entities.FailureConnectionError:
		appErr.WithDetails(failure.Details)
	}
	return appErr
}

func failureCode(category entities.FailureCategory) string {
	switch category {
	case entities.FailureConfig:
		return "CONFIGURATION_ERROR"
	case entities.FailureValidation:
		return "INVALID_REQUEST"
	case entities.FailureUpstream:
		return "PAYMENT_PROVIDER_ERROR"
	case entities.FailureConnectionTimeout:
		return "PAYMENT_PROVIDER_TIMEOUT"
	case entities.FailureConnectionError:
		return "PAYMENT_PROVIDER_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}
