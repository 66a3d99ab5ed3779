// Package error defines domain-specific errors for the planning backend.
package error

import "errors"

// Planning domain errors.
var (
	// ErrInvalidTargetAmount is returned when a goal's target amount is negative or not a number.
	ErrInvalidTargetAmount = errors.New("invalid target amount")

	// ErrInvalidTargetYear is returned when a goal's target year is missing or absurd.
	ErrInvalidTargetYear = errors.New("invalid target year")

	// ErrInvalidRiskTolerance is returned when the risk tolerance is not a known ordinal.
	ErrInvalidRiskTolerance = errors.New("invalid risk tolerance")

	// ErrInvalidPriority is returned when a goal's priority is not a known ordinal.
	ErrInvalidPriority = errors.New("invalid goal priority")

	// ErrMissingGoalID is returned when a goal arrives without a stable identifier.
	ErrMissingGoalID = errors.New("goal id is required")

	// ErrDuplicateGoalID is returned when two goals in one request share an identifier.
	ErrDuplicateGoalID = errors.New("duplicate goal id")

	// ErrInvalidSurplus is returned when the available surplus is negative.
	ErrInvalidSurplus = errors.New("available surplus must not be negative")

	// ErrClientNotFound is returned when the CRM has no profile for the client.
	ErrClientNotFound = errors.New("client profile not found")
)

// PlanningErrorCode defines error codes for planning errors.
// Format: PLN-XXYYYY where XX is category and YYYY is specific error.
type PlanningErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTargetAmount  PlanningErrorCode = "PLN-010001"
	ErrCodeInvalidTargetYear    PlanningErrorCode = "PLN-010002"
	ErrCodeInvalidRiskTolerance PlanningErrorCode = "PLN-010003"
	ErrCodeInvalidPriority      PlanningErrorCode = "PLN-010004"
	ErrCodeMissingGoalID        PlanningErrorCode = "PLN-010005"
	ErrCodeDuplicateGoalID      PlanningErrorCode = "PLN-010006"
	ErrCodeInvalidSurplus       PlanningErrorCode = "PLN-010007"

	// Collaborator errors (02XXXX)
	ErrCodeClientNotFound PlanningErrorCode = "PLN-020001"
)

// PlanningError represents a planning error with code and message.
type PlanningError struct {
	Code    PlanningErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PlanningError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *PlanningError) Unwrap() error {
	return e.Err
}

// NewPlanningError creates a new PlanningError with the given code and message.
func NewPlanningError(code PlanningErrorCode, message string, err error) *PlanningError {
	return &PlanningError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
