package error

import "errors"

// Recommendation and cache domain errors.
//
// A cache miss is not an error anywhere in this package: lookups report
// misses as an absent value. Only genuine failures are modeled here.
var (
	// ErrAdvisoryUnavailable is returned when the external advisory source
	// fails or times out. It is recoverable: deterministic planning output
	// is still valid and no cache entry is written for the attempt.
	ErrAdvisoryUnavailable = errors.New("advisory source unavailable")

	// ErrAdvisoryNotConfigured is returned when no advisory API key is set.
	ErrAdvisoryNotConfigured = errors.New("advisory source is not configured")

	// ErrCacheStorage is returned when the cache's backing store fails.
	// Callers should treat it as a cache miss rather than a fatal error.
	ErrCacheStorage = errors.New("recommendation cache storage failure")
)

// RecommendationErrorCode defines error codes for recommendation errors.
// Format: REC-XXYYYY where XX is category and YYYY is specific error.
type RecommendationErrorCode string

const (
	// Upstream errors (01XXXX)
	ErrCodeAdvisoryUnavailable   RecommendationErrorCode = "REC-010001"
	ErrCodeAdvisoryNotConfigured RecommendationErrorCode = "REC-010002"

	// Storage errors (02XXXX)
	ErrCodeCacheStorage RecommendationErrorCode = "REC-020001"

	// Throttling (03XXXX)
	ErrCodeRateLimited RecommendationErrorCode = "REC-030001"
)

// RecommendationError represents a recommendation error with code and message.
type RecommendationError struct {
	Code      RecommendationErrorCode
	Message   string
	Retryable bool
	Err       error
}

// Error implements the error interface.
func (e *RecommendationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *RecommendationError) Unwrap() error {
	return e.Err
}

// NewRecommendationError creates a new RecommendationError.
func NewRecommendationError(code RecommendationErrorCode, message string, retryable bool, err error) *RecommendationError {
	return &RecommendationError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Err:       err,
	}
}
