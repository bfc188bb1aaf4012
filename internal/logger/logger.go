package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFormat represents available log formats
type LogFormat int

const (
	FormatConsole LogFormat = iota
	FormatJSON
	FormatText
)

func (lf LogFormat) String() string {
	switch lf {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	default:
		return "console"
	}
}

// ParseFormat maps a config string to a LogFormat, defaulting to console.
func ParseFormat(format string) LogFormat {
	switch strings.ToLower(format) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatConsole
	}
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return parsed, nil
}

type Options struct {
	Level      zerolog.Level
	Format     LogFormat
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

func DefaultOptions() Options {
	return Options{
		Level:      zerolog.InfoLevel,
		Format:     FormatConsole,
		MaxSizeMB:  10,
		MaxBackups: 3,
	}
}

// New builds the process logger. Console output goes to console (stderr when
// nil); when FilePath is set a rotated file writer is added. The returned
// closer releases the file writer and must be called on exit.
func New(opts Options, console io.Writer) (zerolog.Logger, io.Closer, error) {
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{formatWriter(opts.Format, console, false)}

	var closer io.Closer = nopCloser{}
	if opts.FilePath != "" {
		if opts.MaxSizeMB <= 0 {
			return zerolog.Nop(), nil, fmt.Errorf("log max size must be positive, got %d", opts.MaxSizeMB)
		}
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("creating log directory: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			LocalTime:  false,
		}
		writers = append(writers, formatWriter(opts.Format, rotating, true))
		closer = rotating
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(opts.Level).
		With().
		Timestamp().
		Logger()

	return log, closer, nil
}

func formatWriter(format LogFormat, out io.Writer, isFile bool) io.Writer {
	switch format {
	case FormatJSON:
		return out
	case FormatText:
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	default:
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: isFile}
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
