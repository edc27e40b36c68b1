package response

// PingResponse is returned by the liveness endpoint.
type PingResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by the payments health check.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewPaymentsHealthResponse() HealthResponse {
	return HealthResponse{Status: "OK", Message: "Khipu payments service running"}
}
