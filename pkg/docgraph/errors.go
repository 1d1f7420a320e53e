package docgraph

import (
	"context"
	"errors"
	"strings"

	"github.com/dan-solli/docgraph/pkg/graph"
)

// Error type constants for classification
const (
	ErrTypeValidation = "validation"
	ErrTypeCanceled   = "canceled"
	ErrTypeUnknown    = "unknown"
)

// ClassifyError inspects an error and returns its type classification.
// The engine is pure, so errors are either input-validation failures or
// cancellations of the streaming cadence; everything else is unknown.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrTypeCanceled
	}
	if errors.Is(err, graph.ErrInvalidChunk) {
		return ErrTypeValidation
	}

	errStrLower := strings.ToLower(err.Error())
	if strings.Contains(errStrLower, "invalid") ||
		strings.Contains(errStrLower, "missing") ||
		strings.Contains(errStrLower, "cannot be empty") ||
		strings.Contains(errStrLower, "no entities") {
		return ErrTypeValidation
	}
	if strings.Contains(errStrLower, "canceled") || strings.Contains(errStrLower, "deadline exceeded") {
		return ErrTypeCanceled
	}

	return ErrTypeUnknown
}
