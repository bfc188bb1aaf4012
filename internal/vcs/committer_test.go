package vcs_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/rohmanhakim/blocklist-tracker/internal/metadata"
	"github.com/rohmanhakim/blocklist-tracker/internal/vcs"
	"github.com/rohmanhakim/blocklist-tracker/pkg/failure"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkMock struct {
	errorCauses   []metadata.ErrorCause
	artifactKinds []metadata.ArtifactKind
}

func (m *sinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.errorCauses = append(m.errorCauses, cause)
}

func (m *sinkMock) RecordFetch(fetchUrl string, method string, httpStatus int, duration time.Duration, sizeByte int) {
}

func (m *sinkMock) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
	m.artifactKinds = append(m.artifactKinds, kind)
}

var testAuthor = vcs.Author{Name: "Tracker Bot", Email: "bot@example.com"}

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	return root, repo
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func headMessage(t *testing.T, repo *git.Repository) string {
	t.Helper()
	ref, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	return commit.Message
}

func TestGitCommitter_CommitsUntrackedFiles(t *testing.T) {
	root, repo := initRepo(t)
	workDir := filepath.Join(root, "data")
	report := filepath.Join(workDir, "report.txt")
	cache := filepath.Join(workDir, "cache.txt")
	writeFile(t, report, "# report\n")
	writeFile(t, cache, "a\nb\n")

	sink := &sinkMock{}
	committer := vcs.NewGitCommitter(sink, zerolog.Nop(), workDir, testAuthor)

	committed, err := committer.Commit([]string{report, cache}, "Update new phishing records - 2025-01-01 00:00:00 UTC")
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, "Update new phishing records - 2025-01-01 00:00:00 UTC", headMessage(t, repo))
	assert.Equal(t, []metadata.ArtifactKind{metadata.ArtifactCommit}, sink.artifactKinds)

	wt, err := repo.Worktree()
	require.NoError(t, err)
	status, err := wt.Status()
	require.NoError(t, err)
	assert.True(t, status.IsClean())

	ref, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	assert.Equal(t, testAuthor.Name, commit.Author.Name)
	assert.Equal(t, testAuthor.Email, commit.Author.Email)
	_, err = commit.File("data/report.txt")
	assert.NoError(t, err)
	_, err = commit.File("data/cache.txt")
	assert.NoError(t, err)
}

func TestGitCommitter_NoChanges(t *testing.T) {
	root, repo := initRepo(t)
	report := filepath.Join(root, "report.txt")
	writeFile(t, report, "# report\n")

	committer := vcs.NewGitCommitter(&sinkMock{}, zerolog.Nop(), root, testAuthor)

	committed, err := committer.Commit([]string{report}, "first")
	require.NoError(t, err)
	require.True(t, committed)
	firstHead, err := repo.Head()
	require.NoError(t, err)

	committed, err = committer.Commit([]string{report}, "second")
	require.NoError(t, err)
	assert.False(t, committed)

	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, firstHead.Hash(), head.Hash())
}

func TestGitCommitter_ModifiedFile(t *testing.T) {
	root, repo := initRepo(t)
	report := filepath.Join(root, "report.txt")
	state := filepath.Join(root, "last_modified.txt")
	writeFile(t, report, "# report\n")
	writeFile(t, state, "1")

	committer := vcs.NewGitCommitter(&sinkMock{}, zerolog.Nop(), root, testAuthor)
	committed, err := committer.Commit([]string{report, state}, "first")
	require.NoError(t, err)
	require.True(t, committed)

	writeFile(t, state, "2")
	committed, err = committer.Commit([]string{report, state}, "second")
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, "second", headMessage(t, repo))
}

func TestGitCommitter_SkipsMissingFiles(t *testing.T) {
	root, repo := initRepo(t)
	report := filepath.Join(root, "report.txt")
	writeFile(t, report, "# report\n")

	committer := vcs.NewGitCommitter(&sinkMock{}, zerolog.Nop(), root, testAuthor)

	committed, err := committer.Commit([]string{report, filepath.Join(root, "cache.txt")}, "partial")
	require.NoError(t, err)
	assert.True(t, committed)

	ref, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	_, err = commit.File("cache.txt")
	assert.Error(t, err)
}

func TestGitCommitter_AllFilesMissing(t *testing.T) {
	root, _ := initRepo(t)
	committer := vcs.NewGitCommitter(&sinkMock{}, zerolog.Nop(), root, testAuthor)

	committed, err := committer.Commit([]string{filepath.Join(root, "report.txt")}, "nothing")
	require.NoError(t, err)
	assert.False(t, committed)
}

func TestGitCommitter_NotARepository(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "report.txt")
	writeFile(t, report, "# report\n")

	sink := &sinkMock{}
	committer := vcs.NewGitCommitter(sink, zerolog.Nop(), dir, testAuthor)

	committed, err := committer.Commit([]string{report}, "msg")
	assert.False(t, committed)
	require.Error(t, err)

	var commitErr *vcs.CommitError
	require.True(t, errors.As(err, &commitErr))
	assert.Equal(t, vcs.ErrCauseOpenRepository, commitErr.Cause)
	assert.Equal(t, failure.SeverityRecoverable, commitErr.Severity())
	assert.False(t, failure.IsFatal(err))
	assert.Equal(t, []metadata.ErrorCause{metadata.CauseVersionControlFailure}, sink.errorCauses)
}

func TestGitCommitter_PathOutsideRepository(t *testing.T) {
	root, _ := initRepo(t)
	outside := filepath.Join(t.TempDir(), "report.txt")
	writeFile(t, outside, "# report\n")

	committer := vcs.NewGitCommitter(&sinkMock{}, zerolog.Nop(), root, testAuthor)

	_, err := committer.Commit([]string{outside}, "msg")
	var commitErr *vcs.CommitError
	require.True(t, errors.As(err, &commitErr))
	assert.Equal(t, vcs.ErrCausePathOutside, commitErr.Cause)
}

func TestNoopCommitter(t *testing.T) {
	committed, err := vcs.NoopCommitter{}.Commit([]string{"report.txt"}, "msg")
	assert.NoError(t, err)
	assert.False(t, committed)
}
