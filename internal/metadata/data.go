package metadata

import (
	"time"
)

type FetchEvent struct {
	fetchUrl   string
	method     string
	httpStatus int
	duration   time.Duration
	sizeByte   int
}

/*
runStats
  - Represents a terminal, derived summary of a completed run
  - Contains only counts, the outcome and the duration
  - Is computed by the checker after the run ends
  - Is recorded exactly once
*/
type runStats struct {
	outcome        string
	currentRecords int
	newRecords     int
	durationMs     int64
}

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - Packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown
  - The failure does not map cleanly to any known category.

# CauseNetworkFailure
  - Transport errors, timeouts, non-2xx responses from the blocklist host.

# CauseContentInvalid
  - A response arrived but could not be used: missing or unparseable
    Last-Modified header, empty body, corrupt stored timestamp.

# CauseStorageFailure
  - Reading or writing the state, cache or report file failed.

# CauseVersionControlFailure
  - Opening the repository, staging or committing failed.
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CauseContentInvalid
	CauseStorageFailure
	CauseVersionControlFailure
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseVersionControlFailure:
		return "version_control_failure"
	default:
		return "unknown"
	}
}

type ArtifactKind string

const (
	ArtifactReport       ArtifactKind = "report"
	ArtifactCache        ArtifactKind = "cache"
	ArtifactLastModified ArtifactKind = "last_modified"
	ArtifactCommit       ArtifactKind = "commit"
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrURL          AttributeKey = "url"
	AttrPath         AttributeKey = "path"
	AttrHTTPStatus   AttributeKey = "http_status"
	AttrHeader       AttributeKey = "header"
	AttrEpoch        AttributeKey = "epoch"
	AttrContentHash  AttributeKey = "content_hash"
	AttrCommitHash   AttributeKey = "commit_hash"
	AttrWritePath    AttributeKey = "write_path"
	AttrStoredValue  AttributeKey = "stored_value"
	AttrErrorMessage AttributeKey = "message"
)
