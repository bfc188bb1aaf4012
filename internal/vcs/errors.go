package vcs

import (
	"fmt"

	"github.com/rohmanhakim/blocklist-tracker/internal/metadata"
	"github.com/rohmanhakim/blocklist-tracker/pkg/failure"
)

type CommitErrorCause string

const (
	ErrCauseOpenRepository CommitErrorCause = "cannot open repository"
	ErrCauseWorktree       CommitErrorCause = "cannot access worktree"
	ErrCauseStatus         CommitErrorCause = "cannot read worktree status"
	ErrCausePathOutside    CommitErrorCause = "path outside worktree"
	ErrCauseStage          CommitErrorCause = "cannot stage file"
	ErrCauseCommit         CommitErrorCause = "cannot create commit"
)

type CommitError struct {
	Message string
	Cause   CommitErrorCause
	Path    string
}

func (e *CommitError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("vcs error: %s: %s: %s", e.Cause, e.Path, e.Message)
	}
	return fmt.Sprintf("vcs error: %s: %s", e.Cause, e.Message)
}

// A failed commit never invalidates the files already written.
func (e *CommitError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

// mapCommitErrorToMetadataCause maps vcs-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapCommitErrorToMetadataCause(err *CommitError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseOpenRepository, ErrCauseWorktree, ErrCauseStatus, ErrCausePathOutside, ErrCauseStage, ErrCauseCommit:
		return metadata.CauseVersionControlFailure
	default:
		return metadata.CauseUnknown
	}
}
