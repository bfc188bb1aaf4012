package metadata

import (
	"time"

	"github.com/rs/zerolog"
)

/*
Metadata Collected
- Probe and download timings and status codes
- Snapshot digests
- Written artifact paths
- Final run outcome and record counts

Metadata is write-only.
No component may read metadata to influence run decisions.
*/

/*
Recorder captures structured run events and emits them through zerolog.
It must not:
- perform I/O decisions
- affect control flow
*/
type Recorder struct {
	logger zerolog.Logger
}

func NewRecorder(logger zerolog.Logger) Recorder {
	return Recorder{
		logger: logger.With().Str("component", "metadata").Logger(),
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	evt := r.logger.Error().
		Time("observed_at", observedAt).
		Str("package", packageName).
		Str("action", action).
		Str("cause", cause.String()).
		Str("error", errorString)
	withAttrs(evt, attrs).Msg("error recorded")
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	method string,
	httpStatus int,
	duration time.Duration,
	sizeByte int,
) {
	event := FetchEvent{
		fetchUrl:   fetchUrl,
		method:     method,
		httpStatus: httpStatus,
		duration:   duration,
		sizeByte:   sizeByte,
	}
	r.logger.Debug().
		Str("url", event.fetchUrl).
		Str("method", event.method).
		Int("http_status", event.httpStatus).
		Dur("duration", event.duration).
		Int("size_byte", event.sizeByte).
		Msg("fetch recorded")
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	evt := r.logger.Debug().
		Str("kind", string(kind)).
		Str("path", path)
	withAttrs(evt, attrs).Msg("artifact recorded")
}

/*
RecordFinalRunStats records a terminal, derived summary of a run.

Contract:
  - MUST be called exactly once per run, after the run has ended.
  - Recorded stats MUST NOT influence control flow.
*/
func (r *Recorder) RecordFinalRunStats(
	outcome string,
	currentRecords int,
	newRecords int,
	duration time.Duration,
) {
	stats := runStats{
		outcome:        outcome,
		currentRecords: currentRecords,
		newRecords:     newRecords,
		durationMs:     duration.Milliseconds(),
	}
	r.logger.Info().
		Str("outcome", stats.outcome).
		Int("current_records", stats.currentRecords).
		Int("new_records", stats.newRecords).
		Int64("duration_ms", stats.durationMs).
		Msg("run finished")
}

func withAttrs(evt *zerolog.Event, attrs []Attribute) *zerolog.Event {
	for _, attr := range attrs {
		evt = evt.Str(string(attr.Key), attr.Value)
	}
	return evt
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)
	RecordFetch(
		fetchUrl string,
		method string,
		httpStatus int,
		duration time.Duration,
		sizeByte int,
	)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

type RunFinalizer interface {
	RecordFinalRunStats(
		outcome string,
		currentRecords int,
		newRecords int,
		duration time.Duration,
	)
}

// NoopSink, struct that implements metadata.MetadataSink but does nothing
// Checker (or Test) can decide whether to inject Recorder or NoopSink
type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	method string,
	httpStatus int,
	duration time.Duration,
	sizeByte int,
) {
}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}

func (n *NoopSink) RecordFinalRunStats(
	outcome string,
	currentRecords int,
	newRecords int,
	duration time.Duration,
) {
}
