package response

// SuccessResponse is returned by endpoints that only acknowledge an action.
type SuccessResponse struct {
	Message string `json:"message" example:"ok"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	// Code for programmatic handling
	// example: VALIDATION_ERROR
	Code string `json:"code"`

	// Human readable message
	// example: scheduleId and action are required
	Message string `json:"message"`

	// Optional details
	Details string `json:"details,omitempty"`
}

// TokenResponse carries a freshly issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// OKResponse mirrors the {"ok": true} acknowledgement used by signup endpoints.
type OKResponse struct {
	OK bool `json:"ok"`
}
