package sportsdata

import "errors"

// ProviderError represents errors from SportsDataIO operations
type ProviderError struct {
	Endpoint string // Logical endpoint name (e.g. "team_season_stats")
	Code     string // Error code (e.g. "rate_limit_exceeded")
	Message  string // Error message
	Err      error  // Underlying error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Endpoint + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Endpoint + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Sentinel errors for errors.Is matching
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

// NewProviderError creates a new provider error
func NewProviderError(endpoint, code, message string, err error) ProviderError {
	return ProviderError{
		Endpoint: endpoint,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}
