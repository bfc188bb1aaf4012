package storage

import (
	"fmt"

	"github.com/rohmanhakim/blocklist-tracker/internal/metadata"
	"github.com/rohmanhakim/blocklist-tracker/pkg/failure"
	"github.com/rohmanhakim/blocklist-tracker/pkg/fileutil"
)

type StorageErrorCause string

const (
	ErrCauseDiskFull     StorageErrorCause = "disk is full"
	ErrCauseWriteFailure StorageErrorCause = "write failed"
	ErrCauseReadFailure  StorageErrorCause = "read failed"
	ErrCausePathError    StorageErrorCause = "path error"
)

type StorageError struct {
	Message   string
	Retryable bool
	Cause     StorageErrorCause
	Path      string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s: %s", e.Cause, e.Path)
}

// Storage failures are always fatal.
func (e *StorageError) Severity() failure.Severity {
	return failure.SeverityFatal
}

func fromFileError(ferr *fileutil.FileError) *StorageError {
	cause := ErrCauseWriteFailure
	switch ferr.Cause {
	case fileutil.ErrCauseDiskFull:
		cause = ErrCauseDiskFull
	case fileutil.ErrCauseReadFailure:
		cause = ErrCauseReadFailure
	case fileutil.ErrCausePathError:
		cause = ErrCausePathError
	}
	return &StorageError{
		Message:   ferr.Message,
		Retryable: ferr.Retryable,
		Cause:     cause,
		Path:      ferr.Path,
	}
}

// mapStorageErrorToMetadataCause maps storage-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapStorageErrorToMetadataCause(err *StorageError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseDiskFull, ErrCauseWriteFailure, ErrCauseReadFailure, ErrCausePathError:
		return metadata.CauseStorageFailure
	default:
		return metadata.CauseUnknown
	}
}
