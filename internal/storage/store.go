package storage

import (
	"strconv"
	"strings"
	"time"

	"github.com/rohmanhakim/blocklist-tracker/internal/metadata"
	"github.com/rohmanhakim/blocklist-tracker/pkg/failure"
	"github.com/rohmanhakim/blocklist-tracker/pkg/fileutil"
	"github.com/rohmanhakim/blocklist-tracker/pkg/hashutil"
	"github.com/rs/zerolog"
)

/*
Responsibilities
- Read and write the last-modified state file
- Read and write the cached snapshot
- Write the report

Output Characteristics
- Fixed file names inside one working directory
- Every write overwrites the previous content
- Writes are not atomic; a rerun repairs a partial run
*/

type Store interface {
	LoadLastModified() (int64, bool, failure.ClassifiedError)
	SaveLastModified(epoch int64) failure.ClassifiedError
	LoadCache() (string, bool, failure.ClassifiedError)
	SaveCache(content string) failure.ClassifiedError
	SaveReport(content []byte) failure.ClassifiedError
	Paths() []string
}

type LocalStore struct {
	metadataSink metadata.MetadataSink
	logger       zerolog.Logger
	layout       Layout
}

func NewLocalStore(
	metadataSink metadata.MetadataSink,
	logger zerolog.Logger,
	layout Layout,
) *LocalStore {
	return &LocalStore{
		metadataSink: metadataSink,
		logger:       logger.With().Str("component", "storage").Logger(),
		layout:       layout,
	}
}

func (s *LocalStore) Layout() Layout {
	return s.layout
}

func (s *LocalStore) Paths() []string {
	return s.layout.Paths()
}

// LoadLastModified returns the stored epoch. A missing file and a file that
// does not hold an integer both report ok=false; the latter is logged.
func (s *LocalStore) LoadLastModified() (int64, bool, failure.ClassifiedError) {
	path := s.layout.LastModifiedPath()
	raw, exists, ferr := fileutil.ReadIfExists(path)
	if ferr != nil {
		return 0, false, s.fail("LocalStore.LoadLastModified", fromFileError(ferr))
	}
	if !exists {
		return 0, false, nil
	}

	value := strings.TrimSpace(raw)
	epoch, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		s.logger.Warn().
			Str("path", path).
			Str("value", value).
			Msg("Invalid epoch timestamp in state file, treating as absent")
		s.metadataSink.RecordError(
			time.Now(),
			"storage",
			"LocalStore.LoadLastModified",
			metadata.CauseContentInvalid,
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrPath, path),
				metadata.NewAttr(metadata.AttrStoredValue, value),
			},
		)
		return 0, false, nil
	}
	return epoch, true, nil
}

func (s *LocalStore) SaveLastModified(epoch int64) failure.ClassifiedError {
	path := s.layout.LastModifiedPath()
	if ferr := fileutil.Overwrite(path, []byte(strconv.FormatInt(epoch, 10))); ferr != nil {
		return s.fail("LocalStore.SaveLastModified", fromFileError(ferr))
	}
	s.metadataSink.RecordArtifact(
		metadata.ArtifactLastModified,
		path,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, path),
			metadata.NewAttr(metadata.AttrEpoch, strconv.FormatInt(epoch, 10)),
		},
	)
	return nil
}

// LoadCache returns the previous snapshot, or ok=false when none is stored.
func (s *LocalStore) LoadCache() (string, bool, failure.ClassifiedError) {
	content, exists, ferr := fileutil.ReadIfExists(s.layout.CachePath())
	if ferr != nil {
		return "", false, s.fail("LocalStore.LoadCache", fromFileError(ferr))
	}
	return content, exists, nil
}

func (s *LocalStore) SaveCache(content string) failure.ClassifiedError {
	path := s.layout.CachePath()
	if ferr := fileutil.Overwrite(path, []byte(content)); ferr != nil {
		return s.fail("LocalStore.SaveCache", fromFileError(ferr))
	}
	s.metadataSink.RecordArtifact(
		metadata.ArtifactCache,
		path,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, path),
			metadata.NewAttr(metadata.AttrContentHash, hashutil.Digest(content)),
		},
	)
	return nil
}

func (s *LocalStore) SaveReport(content []byte) failure.ClassifiedError {
	path := s.layout.ReportPath()
	if ferr := fileutil.Overwrite(path, content); ferr != nil {
		return s.fail("LocalStore.SaveReport", fromFileError(ferr))
	}
	s.metadataSink.RecordArtifact(
		metadata.ArtifactReport,
		path,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, path),
		},
	)
	return nil
}

func (s *LocalStore) fail(action string, storageError *StorageError) failure.ClassifiedError {
	s.metadataSink.RecordError(
		time.Now(),
		"storage",
		action,
		mapStorageErrorToMetadataCause(storageError),
		storageError.Message,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrWritePath, storageError.Path),
		},
	)
	return storageError
}
