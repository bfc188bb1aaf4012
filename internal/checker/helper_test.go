package checker_test

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rohmanhakim/blocklist-tracker/internal/checker"
	"github.com/rohmanhakim/blocklist-tracker/internal/fetcher"
	"github.com/rohmanhakim/blocklist-tracker/internal/metadata"
	"github.com/rohmanhakim/blocklist-tracker/internal/storage"
	"github.com/rohmanhakim/blocklist-tracker/internal/vcs"
	"github.com/rohmanhakim/blocklist-tracker/pkg/failure"
	"github.com/rohmanhakim/blocklist-tracker/pkg/timeutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSourceURL     = "https://example.com/list.txt"
	testTitle         = "Phishing Army Extended Blocklist"
	testCommitMessage = "Update new phishing records"
	// Wed, 01 Jan 2025 00:00:00 GMT
	testEpoch int64 = 1735689600
)

var testRunAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// fetcherMock is a testify mock for the Fetcher
type fetcherMock struct {
	mock.Mock
}

func (f *fetcherMock) LastModified(ctx context.Context) (int64, failure.ClassifiedError) {
	args := f.Called(ctx)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return args.Get(0).(int64), err
}

func (f *fetcherMock) Fetch(ctx context.Context) (fetcher.FetchResult, failure.ClassifiedError) {
	args := f.Called(ctx)
	result := args.Get(0).(fetcher.FetchResult)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return result, err
}

func setupProbe(m *fetcherMock, epoch int64) {
	m.On("LastModified", mock.Anything).Return(epoch, nil)
}

func setupFetch(m *fetcherMock, body string) {
	u, _ := url.Parse(testSourceURL)
	result := fetcher.NewFetchResultForTest(*u, []byte(body), 200, timeutil.FormatHTTPDate(testEpoch))
	m.On("Fetch", mock.Anything).Return(result, nil)
}

// committerMock is a testify mock for the Committer
type committerMock struct {
	mock.Mock
}

func (c *committerMock) Commit(paths []string, message string) (bool, error) {
	args := c.Called(paths, message)
	return args.Bool(0), args.Error(1)
}

func newCommitterMockForTest(t *testing.T) *committerMock {
	t.Helper()
	m := new(committerMock)
	m.On("Commit", mock.Anything, mock.Anything).Return(true, nil)
	return m
}

// storeMock is a testify mock for the Store, used to inject failures
type storeMock struct {
	mock.Mock
}

func classifiedOrNil(v interface{}) failure.ClassifiedError {
	if v == nil {
		return nil
	}
	return v.(failure.ClassifiedError)
}

func (s *storeMock) LoadLastModified() (int64, bool, failure.ClassifiedError) {
	args := s.Called()
	return args.Get(0).(int64), args.Bool(1), classifiedOrNil(args.Get(2))
}

func (s *storeMock) SaveLastModified(epoch int64) failure.ClassifiedError {
	return classifiedOrNil(s.Called(epoch).Get(0))
}

func (s *storeMock) LoadCache() (string, bool, failure.ClassifiedError) {
	args := s.Called()
	return args.String(0), args.Bool(1), classifiedOrNil(args.Get(2))
}

func (s *storeMock) SaveCache(content string) failure.ClassifiedError {
	return classifiedOrNil(s.Called(content).Get(0))
}

func (s *storeMock) SaveReport(content []byte) failure.ClassifiedError {
	return classifiedOrNil(s.Called(content).Get(0))
}

func (s *storeMock) Paths() []string {
	return s.Called().Get(0).([]string)
}

// finalizerMock captures the final run statistics
type finalizerMock struct {
	calls          int
	outcome        string
	currentRecords int
	newRecords     int
}

func (f *finalizerMock) RecordFinalRunStats(outcome string, currentRecords int, newRecords int, duration time.Duration) {
	f.calls++
	f.outcome = outcome
	f.currentRecords = currentRecords
	f.newRecords = newRecords
}

type testEnv struct {
	dir       string
	store     *storage.LocalStore
	fetcher   *fetcherMock
	committer *committerMock
	finalizer *finalizerMock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	layout := storage.NewLayout(dir, "last_modified.txt", "cache.txt", "report.txt")
	return &testEnv{
		dir:       dir,
		store:     storage.NewLocalStore(&metadata.NoopSink{}, zerolog.Nop(), layout),
		fetcher:   new(fetcherMock),
		committer: newCommitterMockForTest(t),
		finalizer: &finalizerMock{},
	}
}

func (e *testEnv) checker() *checker.Checker {
	return newChecker(e.fetcher, e.store, e.committer, e.finalizer)
}

func newChecker(f fetcher.Fetcher, s storage.Store, c vcs.Committer, fin metadata.RunFinalizer) *checker.Checker {
	return checker.NewChecker(
		fin,
		zerolog.Nop(),
		f,
		s,
		c,
		timeutil.NewFixedClock(testRunAt),
		checker.NewCheckParam(testTitle, testSourceURL, testCommitMessage),
	)
}

func (e *testEnv) write(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(e.dir, name), []byte(content), 0644))
}

func (e *testEnv) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.dir, name))
	require.NoError(t, err)
	return string(data)
}

func (e *testEnv) exists(name string) bool {
	_, err := os.Stat(filepath.Join(e.dir, name))
	return err == nil
}
