package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/ionview/internal/domain/variant"
)

var (
	// ErrInvalidParams indicates tool arguments that could not be decoded.
	ErrInvalidParams = errors.New("invalid params")
	// ErrUnknownMethod indicates a method that names no tool.
	ErrUnknownMethod = errors.New("unknown method")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, variant.ErrUnknownColumn):
		return &APIError{Code: "UNKNOWN_COLUMN", Message: err.Error(), RecoveryHint: "Use a column from get_view columns"}
	case errors.Is(err, variant.ErrInvalidDirection):
		return &APIError{Code: "INVALID_DIRECTION", Message: err.Error(), RecoveryHint: "Use asc or desc, or omit to toggle"}
	case errors.Is(err, ErrInvalidParams):
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error(), RecoveryHint: "Check argument names and types"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
