package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalError represents a generic internal error.
	GeneralInternalError ErrorCode = "general_internal_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// InvalidRangeError represents a query whose time range is reversed or
	// wider than a single hour.
	InvalidRangeError ErrorCode = "invalid_range"
	// SourceUnavailableError represents a failed fill source fetch for an hour.
	SourceUnavailableError ErrorCode = "source_unavailable"
	// MalformedRecordError represents a fetched fill that violates the data model.
	MalformedRecordError ErrorCode = "malformed_record"
)

// NewInvalidRange builds an invalid_range error for the given query range.
func NewInvalidRange(queryType string, start, end int64) *ErrorDetails {
	return NewErrorDetailsWithObject(
		fmt.Sprintf("invalid range for query %s: start=%d end=%d", queryType, start, end),
		InvalidRangeError,
		"range",
		[2]int64{start, end},
	)
}

// NewSourceUnavailable builds a source_unavailable error for the given hour.
func NewSourceUnavailable(hourKey int64, cause error) *ErrorDetails {
	return NewErrorDetailsWithObject(
		fmt.Sprintf("fill source unavailable for hour %d: %v", hourKey, cause),
		SourceUnavailableError,
		"hour_key",
		hourKey,
	)
}

// NewMalformedRecord builds a malformed_record error for a fill fetched for
// the given hour.
func NewMalformedRecord(hourKey int64, reason string) *ErrorDetails {
	return NewErrorDetailsWithObject(
		fmt.Sprintf("malformed fill in hour %d: %s", hourKey, reason),
		MalformedRecordError,
		"hour_key",
		hourKey,
	)
}

// HasCode reports whether any error in err's chain carries the given code.
func HasCode(err error, code ErrorCode) bool {
	var details *ErrorDetails
	if stderrors.As(err, &details) {
		return details.Code == code
	}
	return false
}
