package models

// Response is the success envelope returned by every endpoint.
// swagger:model Response
type Response struct {
	// HTTP status code
	// example: 200
	StatusCode int `json:"statusCode"`

	// Response payload
	Data any `json:"data"`

	// Human-readable message
	// example: success
	Message string `json:"message"`

	// Always true on success
	// example: true
	Success bool `json:"success"`
}

// ErrorResponse is the error envelope returned by every endpoint.
// swagger:model ErrorResponse
type ErrorResponse struct {
	// HTTP status code
	// example: 400
	StatusCode int `json:"statusCode"`

	// Human-readable message
	// example: email and password is required
	Message string `json:"message"`

	// Always false on errors
	// example: false
	Success bool `json:"success"`

	// Additional error details
	Errors []string `json:"errors"`
}
