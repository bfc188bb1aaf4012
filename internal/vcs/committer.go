package vcs

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rohmanhakim/blocklist-tracker/internal/metadata"
	"github.com/rs/zerolog"
)

/*
Responsibilities
- Locate the git repository that contains the working directory
- Stage the generated files when any of them changed
- Create one commit per run

Commit Semantics
- Paths that do not exist are skipped
- Nothing is committed when every existing path is unmodified
- Failures are reported to the caller, which only logs them
*/

type Committer interface {
	// Commit stages the given paths and commits them with message.
	// It returns true when a commit was created.
	Commit(paths []string, message string) (bool, error)
}

// Author overrides the commit signature. A zero Author defers to git config.
type Author struct {
	Name  string
	Email string
}

func (a Author) IsZero() bool {
	return a.Name == "" && a.Email == ""
}

type GitCommitter struct {
	metadataSink metadata.MetadataSink
	logger       zerolog.Logger
	dir          string
	author       Author
	now          func() time.Time
}

func NewGitCommitter(
	metadataSink metadata.MetadataSink,
	logger zerolog.Logger,
	dir string,
	author Author,
) *GitCommitter {
	return &GitCommitter{
		metadataSink: metadataSink,
		logger:       logger.With().Str("component", "vcs").Logger(),
		dir:          dir,
		author:       author,
		now:          time.Now,
	}
}

func (g *GitCommitter) Commit(paths []string, message string) (bool, error) {
	committed, err := g.commit(paths, message)
	if err != nil {
		g.metadataSink.RecordError(
			time.Now(),
			"vcs",
			"GitCommitter.Commit",
			mapCommitErrorToMetadataCause(err),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrPath, err.Path),
			},
		)
		return false, err
	}
	return committed, nil
}

func (g *GitCommitter) commit(paths []string, message string) (bool, *CommitError) {
	repo, err := git.PlainOpenWithOptions(g.dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return false, &CommitError{Message: err.Error(), Cause: ErrCauseOpenRepository, Path: g.dir}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return false, &CommitError{Message: err.Error(), Cause: ErrCauseWorktree, Path: g.dir}
	}

	relPaths, cerr := g.existingRelPaths(wt.Filesystem.Root(), paths)
	if cerr != nil {
		return false, cerr
	}
	if len(relPaths) == 0 {
		g.logger.Debug().Msg("No generated files to commit")
		return false, nil
	}

	status, err := wt.Status()
	if err != nil {
		return false, &CommitError{Message: err.Error(), Cause: ErrCauseStatus, Path: wt.Filesystem.Root()}
	}

	changed := false
	for _, rel := range relPaths {
		// tracked files without changes are absent from the status map
		fileStatus, ok := status[rel]
		if !ok {
			continue
		}
		if fileStatus.Worktree != git.Unmodified || fileStatus.Staging != git.Unmodified {
			changed = true
			break
		}
	}
	if !changed {
		g.logger.Info().Msg("No changes to commit")
		return false, nil
	}

	for _, rel := range relPaths {
		if _, err := wt.Add(rel); err != nil {
			return false, &CommitError{Message: err.Error(), Cause: ErrCauseStage, Path: rel}
		}
	}

	opts := &git.CommitOptions{}
	if !g.author.IsZero() {
		opts.Author = &object.Signature{
			Name:  g.author.Name,
			Email: g.author.Email,
			When:  g.now(),
		}
	}

	hash, err := wt.Commit(message, opts)
	if err != nil {
		return false, &CommitError{Message: err.Error(), Cause: ErrCauseCommit, Path: wt.Filesystem.Root()}
	}

	g.logger.Info().
		Str("commit", hash.String()).
		Strs("files", relPaths).
		Msg("Committed generated files")
	g.metadataSink.RecordArtifact(
		metadata.ArtifactCommit,
		wt.Filesystem.Root(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrCommitHash, hash.String()),
			metadata.NewAttr(metadata.AttrErrorMessage, message),
		},
	)
	return true, nil
}

// existingRelPaths converts paths to slash-separated paths relative to the
// worktree root, dropping those that do not exist.
func (g *GitCommitter) existingRelPaths(root string, paths []string) ([]string, *CommitError) {
	resolvedRoot := resolve(root)

	rels := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, &CommitError{Message: err.Error(), Cause: ErrCausePathOutside, Path: p}
		}
		if _, err := os.Stat(abs); err != nil {
			g.logger.Debug().Str("path", p).Msg("Skipping missing file")
			continue
		}

		rel, err := filepath.Rel(resolvedRoot, resolve(abs))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, &CommitError{Message: "file is not inside the repository", Cause: ErrCausePathOutside, Path: p}
		}
		rels = append(rels, filepath.ToSlash(rel))
	}
	return rels, nil
}

func resolve(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

// NoopCommitter is used when committing is disabled.
type NoopCommitter struct{}

func (NoopCommitter) Commit(paths []string, message string) (bool, error) {
	return false, nil
}
