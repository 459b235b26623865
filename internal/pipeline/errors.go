package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/image-translate/internal/inpaint"
)

// ErrorCode classifies pipeline failures.
type ErrorCode string

const (
	// ErrorDetectionFailed means the text detector returned an error. Fatal.
	ErrorDetectionFailed ErrorCode = "DETECTION_FAILED"

	// ErrorTranslationFailed is recorded per detection. It never aborts a run;
	// the detection is simply left undrawn.
	ErrorTranslationFailed ErrorCode = "TRANSLATION_FAILED"

	// ErrorDimensionMismatch means a mask did not match its image. Fatal.
	ErrorDimensionMismatch ErrorCode = "DIMENSION_MISMATCH"

	// ErrorIOFailed means an input could not be read or an output written. Fatal.
	ErrorIOFailed ErrorCode = "IO_FAILED"

	// ErrorInpaintFailed covers any other inpainter failure. Fatal.
	ErrorInpaintFailed ErrorCode = "INPAINT_FAILED"

	// ErrorCancelled means the run's context was cancelled or timed out before
	// the output was composed. The cause is ctx.Err().
	ErrorCancelled ErrorCode = "CANCELLED"
)

// Error is a structured pipeline failure.
type Error struct {
	Code      ErrorCode
	Message   string
	RunID     string
	Timestamp time.Time
	Details   map[string]interface{}
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ToMap flattens the error for JSON responses.
func (e *Error) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"error_code": string(e.Code),
		"message":    e.Message,
		"run_id":     e.RunID,
		"timestamp":  e.Timestamp,
	}
	for k, v := range e.Details {
		result[k] = v
	}
	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}
	return result
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// Factory functions for common errors

func NewDetectionFailedError(runID string, cause error) *Error {
	return &Error{
		Code:      ErrorDetectionFailed,
		Message:   "text detection failed",
		RunID:     runID,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

func NewTranslationFailedError(runID string, index int, text string, cause error) *Error {
	return &Error{
		Code:      ErrorTranslationFailed,
		Message:   fmt.Sprintf("translation of detection %d failed", index),
		RunID:     runID,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"index": index,
			"text":  text,
		},
		Cause: cause,
	}
}

// NewInpaintError classifies an inpainter failure as DIMENSION_MISMATCH or
// INPAINT_FAILED.
func NewInpaintError(runID string, cause error) *Error {
	code, msg := ErrorInpaintFailed, "inpainting failed"
	if errors.Is(cause, inpaint.ErrDimensionMismatch) {
		code, msg = ErrorDimensionMismatch, "mask does not match image"
	}
	return &Error{
		Code:      code,
		Message:   msg,
		RunID:     runID,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

func NewIOFailedError(runID, op, path string, cause error) *Error {
	return &Error{
		Code:      ErrorIOFailed,
		Message:   fmt.Sprintf("failed to %s %s", op, path),
		RunID:     runID,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"path": path,
		},
		Cause: cause,
	}
}

func NewCancelledError(runID string, cause error) *Error {
	return &Error{
		Code:      ErrorCancelled,
		Message:   "run cancelled",
		RunID:     runID,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}
