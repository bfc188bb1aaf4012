package checker

import (
	"context"
	"fmt"
	"time"

	"github.com/rohmanhakim/blocklist-tracker/internal/fetcher"
	"github.com/rohmanhakim/blocklist-tracker/internal/metadata"
	"github.com/rohmanhakim/blocklist-tracker/internal/records"
	"github.com/rohmanhakim/blocklist-tracker/internal/report"
	"github.com/rohmanhakim/blocklist-tracker/internal/storage"
	"github.com/rohmanhakim/blocklist-tracker/internal/vcs"
	"github.com/rohmanhakim/blocklist-tracker/pkg/failure"
	"github.com/rohmanhakim/blocklist-tracker/pkg/hashutil"
	"github.com/rohmanhakim/blocklist-tracker/pkg/timeutil"
	"github.com/rs/zerolog"
)

/*
 Checker is the sole control-plane authority of a run.

 Run sequence:
 - Probe the remote Last-Modified
 - Compare it with the stored timestamp
 - Unchanged: write an empty report carrying the stored timestamp
 - Changed or unknown: download, parse, diff against the cache, then
   write report, cache and timestamp in that order
 - Commit the generated files

 Failure handling:
 - Probe, download and storage failures abort the run; persisted state
   is left as it was before the failing step
 - Commit failures are logged and the run still succeeds
 - Pipeline stages classify failures, only the checker decides to abort

 Metadata emission is observational only and MUST NOT influence
 control flow.
*/

type Checker struct {
	runFinalizer metadata.RunFinalizer
	logger       zerolog.Logger
	fetcher      fetcher.Fetcher
	store        storage.Store
	committer    vcs.Committer
	clock        timeutil.Clock
	param        CheckParam
}

func NewChecker(
	runFinalizer metadata.RunFinalizer,
	logger zerolog.Logger,
	fetcher fetcher.Fetcher,
	store storage.Store,
	committer vcs.Committer,
	clock timeutil.Clock,
	param CheckParam,
) *Checker {
	return &Checker{
		runFinalizer: runFinalizer,
		logger:       logger.With().Str("component", "checker").Logger(),
		fetcher:      fetcher,
		store:        store,
		committer:    committer,
		clock:        clock,
		param:        param,
	}
}

// Run performs one check. The returned error is non-nil only for aborted
// runs; its severity tells the caller whether the abort is fatal.
func (c *Checker) Run(ctx context.Context) (result Result, err failure.ClassifiedError) {
	startTime := time.Now()
	runAt := c.clock.Now()

	// Ensure final stats are recorded even if the run aborts
	defer func() {
		c.runFinalizer.RecordFinalRunStats(
			string(result.Outcome),
			result.CurrentRecords,
			result.NewRecords,
			time.Since(startTime),
		)
	}()

	c.logger.Info().
		Str("url", c.param.sourceURL).
		Str("run_at", timeutil.FormatRunTime(runAt)).
		Msg("Checking blocklist for updates")

	// 1. Probe remote timestamp
	remote, err := c.fetcher.LastModified(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Could not determine remote Last-Modified, aborting run")
		return c.abort(result, err)
	}
	result.RemoteLastModified = &remote
	c.logger.Info().
		Str("last_modified", timeutil.FormatHTTPDate(remote)).
		Int64("epoch", remote).
		Msg("Remote blocklist timestamp")

	// 2. Compare with stored timestamp
	stored, ok, err := c.store.LoadLastModified()
	if err != nil {
		c.logger.Error().Err(err).Msg("Could not read stored timestamp, aborting run")
		return c.abort(result, err)
	}
	if ok {
		result.StoredLastModified = &stored
	}

	if ok && stored == remote {
		c.logger.Info().Msg("No updates since last check")
		return c.unchanged(result, stored, runAt)
	}

	if ok {
		c.logger.Info().
			Str("previous", timeutil.FormatHTTPDate(stored)).
			Msg("Blocklist has been updated")
	} else {
		c.logger.Info().Msg("No stored timestamp, performing full refresh")
	}

	return c.update(ctx, result, remote, runAt)
}

func (c *Checker) unchanged(result Result, stored int64, runAt time.Time) (Result, failure.ClassifiedError) {
	emptyReport := report.NewReport(
		c.param.reportTitle,
		c.param.sourceURL,
		runAt,
		&stored,
		records.NewSet(),
	)
	if err := c.store.SaveReport(report.Render(emptyReport)); err != nil {
		c.logger.Error().Err(err).Msg("Could not write report, aborting run")
		return c.abort(result, err)
	}

	result.Outcome = OutcomeUnchanged
	result.Committed = c.commit(runAt)
	return result, nil
}

func (c *Checker) update(ctx context.Context, result Result, remote int64, runAt time.Time) (Result, failure.ClassifiedError) {
	// 3. Download
	fetchResult, err := c.fetcher.Fetch(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Could not download blocklist, aborting run")
		return c.abort(result, err)
	}
	content := fetchResult.Text()
	contentDigest := hashutil.Digest(content)
	c.logger.Info().
		Uint64("bytes", fetchResult.SizeByte()).
		Str("content_hash", hashutil.Short(contentDigest)).
		Msg("Downloaded blocklist")

	// 4. Parse and diff against the cache
	current := records.Parse(content)
	result.CurrentRecords = current.Len()
	c.logger.Info().Int("records", current.Len()).Msg("Parsed current records")

	previousContent, exists, err := c.store.LoadCache()
	if err != nil {
		c.logger.Error().Err(err).Msg("Could not read cache, aborting run")
		return c.abort(result, err)
	}

	newRecords := records.NewSet()
	if !exists || previousContent == "" {
		// without a baseline every record would look new
		result.FirstRun = true
		c.logger.Info().Msg("No cache found, recording baseline without new records")
	} else {
		previous := records.Parse(previousContent)
		result.PreviousRecords = previous.Len()
		newRecords = records.Diff(current, previous)
		if hashutil.Digest(previousContent) == contentDigest {
			result.ContentIdentical = true
			c.logger.Info().Msg("Timestamp changed but content is identical to cache")
		}
		c.logger.Info().Int("records", previous.Len()).Msg("Loaded cached records")
	}
	result.NewRecords = newRecords.Len()
	c.logger.Info().Int("new_records", newRecords.Len()).Msg("Found new records")

	// 5. Persist: report, cache, timestamp
	updateReport := report.NewReport(
		c.param.reportTitle,
		c.param.sourceURL,
		runAt,
		&remote,
		newRecords,
	)
	if err := c.store.SaveReport(report.Render(updateReport)); err != nil {
		c.logger.Error().Err(err).Msg("Could not write report, aborting run")
		return c.abort(result, err)
	}
	if err := c.store.SaveCache(content); err != nil {
		c.logger.Error().Err(err).Msg("Could not write cache, aborting run")
		return c.abort(result, err)
	}
	if err := c.store.SaveLastModified(remote); err != nil {
		c.logger.Error().Err(err).Msg("Could not write timestamp, aborting run")
		return c.abort(result, err)
	}
	c.logger.Info().Strs("paths", c.store.Paths()).Msg("Saved report, cache and timestamp")

	result.Outcome = OutcomeUpdated
	result.Committed = c.commit(runAt)
	return result, nil
}

// commit never fails the run; the data files are already written.
func (c *Checker) commit(runAt time.Time) bool {
	message := fmt.Sprintf("%s - %s", c.param.commitMessage, timeutil.FormatRunTime(runAt))
	committed, err := c.committer.Commit(c.store.Paths(), message)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Could not commit generated files")
		return false
	}
	return committed
}

func (c *Checker) abort(result Result, err failure.ClassifiedError) (Result, failure.ClassifiedError) {
	result.Outcome = OutcomeAborted
	return result, err
}
