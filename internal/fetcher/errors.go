package fetcher

import (
	"fmt"

	"github.com/rohmanhakim/blocklist-tracker/internal/metadata"
	"github.com/rohmanhakim/blocklist-tracker/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseTimeout               FetchErrorCause = "timeout"
	ErrCauseNetworkFailure        FetchErrorCause = "network issues"
	ErrCauseInvalidRequest        FetchErrorCause = "invalid request"
	ErrCauseReadResponseBodyError FetchErrorCause = "failed to read response body"
	ErrCauseRequest4xx            FetchErrorCause = "4xx"
	ErrCauseRequestTooMany        FetchErrorCause = "too many requests"
	ErrCauseRequest5xx            FetchErrorCause = "5xx"
	ErrCauseMissingLastModified   FetchErrorCause = "missing Last-Modified header"
	ErrCauseInvalidLastModified   FetchErrorCause = "invalid Last-Modified header"
	ErrCauseEmptyBody             FetchErrorCause = "empty response body"
)

type FetchError struct {
	Message   string
	Retryable bool
	Cause     FetchErrorCause
}

func (e *FetchError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("fetcher error: %s", e.Cause)
	}
	return fmt.Sprintf("fetcher error: %s: %s", e.Cause, e.Message)
}

// Retryable failures abort the current run only; the next scheduled run
// tries again.
func (e *FetchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}

// mapFetchErrorToMetadataCause maps fetcher-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapFetchErrorToMetadataCause(err *FetchError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseTimeout,
		ErrCauseNetworkFailure,
		ErrCauseReadResponseBodyError,
		ErrCauseRequest4xx,
		ErrCauseRequestTooMany,
		ErrCauseRequest5xx:
		return metadata.CauseNetworkFailure
	case ErrCauseMissingLastModified,
		ErrCauseInvalidLastModified,
		ErrCauseEmptyBody:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
