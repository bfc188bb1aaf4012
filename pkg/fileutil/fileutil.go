package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// EnsureDir check if a given directory plus the following path exist, then create one if not
func EnsureDir(dir string, path ...string) *FileError {
	targetPath := []string{dir}
	targetPath = append(targetPath, path...)
	full := filepath.Join(targetPath...)

	if err := os.MkdirAll(full, 0755); err != nil {
		return &FileError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCausePathError,
			Path:      full,
		}
	}
	return nil
}

// ReadIfExists returns the file content and true, or "" and false when the
// file does not exist. Any other read failure is returned as a FileError.
func ReadIfExists(path string) (string, bool, *FileError) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, &FileError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseReadFailure,
			Path:      path,
		}
	}
	return string(data), true, nil
}

// Overwrite replaces the file content, creating parent directories as needed.
// The write is not atomic.
func Overwrite(path string, data []byte) *FileError {
	if ferr := EnsureDir(filepath.Dir(path)); ferr != nil {
		return ferr
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		cause := ErrCauseWriteFailure
		retryable := false
		if errors.Is(err, syscall.ENOSPC) {
			cause = ErrCauseDiskFull
			retryable = true
		}
		return &FileError{
			Message:   err.Error(),
			Retryable: retryable,
			Cause:     cause,
			Path:      path,
		}
	}
	return nil
}
