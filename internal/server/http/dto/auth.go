package dto

// AdminLoginRequest describes staff username/password payload.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports service availability.
type HealthResponse struct {
	Status string `json:"status"`
}
