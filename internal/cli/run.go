package cmd

import (
	"context"
	"io"

	"github.com/rohmanhakim/blocklist-tracker/internal/checker"
	"github.com/rohmanhakim/blocklist-tracker/internal/config"
	"github.com/rohmanhakim/blocklist-tracker/internal/fetcher"
	"github.com/rohmanhakim/blocklist-tracker/internal/logger"
	"github.com/rohmanhakim/blocklist-tracker/internal/metadata"
	"github.com/rohmanhakim/blocklist-tracker/internal/storage"
	"github.com/rohmanhakim/blocklist-tracker/internal/vcs"
	"github.com/rohmanhakim/blocklist-tracker/pkg/failure"
	"github.com/rohmanhakim/blocklist-tracker/pkg/timeutil"
)

// RunCheck wires the components from cfg and performs one check.
// Recoverable aborts are logged and return a nil error so scheduled runs
// exit cleanly; only fatal failures are returned.
func RunCheck(ctx context.Context, cfg config.Config, console io.Writer) (checker.Result, error) {
	level, err := logger.ParseLevel(cfg.LogLevel())
	if err != nil {
		return checker.Result{}, err
	}
	opts := logger.DefaultOptions()
	opts.Level = level
	opts.Format = logger.ParseFormat(cfg.LogFormat())
	opts.FilePath = cfg.LogFile()

	log, closer, err := logger.New(opts, console)
	if err != nil {
		return checker.Result{}, err
	}
	defer closer.Close()

	recorder := metadata.NewRecorder(log)

	layout := storage.NewLayout(cfg.WorkDir(), cfg.LastModifiedFile(), cfg.CacheFile(), cfg.ReportFile())
	store := storage.NewLocalStore(&recorder, log, layout)

	blocklistFetcher := fetcher.NewBlocklistFetcher(
		&recorder,
		fetcher.NewFetchParam(cfg.SourceURL(), cfg.UserAgent(), cfg.ProbeTimeout(), cfg.FetchTimeout()),
	)

	var committer vcs.Committer = vcs.NoopCommitter{}
	if cfg.Commit() {
		committer = vcs.NewGitCommitter(
			&recorder,
			log,
			cfg.WorkDir(),
			vcs.Author{Name: cfg.CommitAuthorName(), Email: cfg.CommitAuthorEmail()},
		)
	}

	source := cfg.SourceURL()
	updateChecker := checker.NewChecker(
		&recorder,
		log,
		blocklistFetcher,
		store,
		committer,
		timeutil.SystemClock{},
		checker.NewCheckParam(cfg.ReportTitle(), source.String(), cfg.CommitMessage()),
	)

	result, runErr := updateChecker.Run(ctx)
	if runErr != nil {
		if failure.IsFatal(runErr) {
			log.Error().Err(runErr).Msg("Check failed")
			return result, runErr
		}
		log.Warn().
			Err(runErr).
			Str("outcome", string(result.Outcome)).
			Msg("Check aborted, state left unchanged")
		return result, nil
	}

	log.Info().
		Str("outcome", string(result.Outcome)).
		Int("new_records", result.NewRecords).
		Bool("committed", result.Committed).
		Msg("Check finished")
	return result, nil
}
