package checker

type Outcome string

const (
	// OutcomeUnchanged means the remote timestamp matched the stored one
	// and nothing was downloaded.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeUpdated means the blocklist was downloaded and compared.
	OutcomeUpdated Outcome = "updated"
	// OutcomeAborted means the run stopped before writing state.
	OutcomeAborted Outcome = "aborted"
)

// CheckParam carries the run settings that are not owned by a dependency.
type CheckParam struct {
	reportTitle   string
	sourceURL     string
	commitMessage string
}

func NewCheckParam(reportTitle, sourceURL, commitMessage string) CheckParam {
	return CheckParam{
		reportTitle:   reportTitle,
		sourceURL:     sourceURL,
		commitMessage: commitMessage,
	}
}

type Result struct {
	Outcome Outcome
	// RemoteLastModified is nil when the probe failed.
	RemoteLastModified *int64
	// StoredLastModified is nil on first run or when the state file was unreadable.
	StoredLastModified *int64
	CurrentRecords     int
	PreviousRecords    int
	NewRecords         int
	// FirstRun is set when no usable cache existed before this run.
	FirstRun bool
	// ContentIdentical is set when the timestamp moved but the downloaded
	// content matches the cache byte for byte.
	ContentIdentical bool
	Committed        bool
}
