package fetcher_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/rohmanhakim/blocklist-tracker/internal/fetcher"
	"github.com/rohmanhakim/blocklist-tracker/internal/metadata"
)

// mockMetadataSink is a test double for metadata.MetadataSink
type mockMetadataSink struct {
	fetchEvents    []fetchEvent
	errorEvents    []errorEvent
	artifactEvents []string
}

type fetchEvent struct {
	fetchUrl   string
	method     string
	httpStatus int
	duration   time.Duration
	sizeByte   int
}

type errorEvent struct {
	observedAt  time.Time
	packageName string
	action      string
	cause       metadata.ErrorCause
	details     string
	attrs       []metadata.Attribute
}

func (m *mockMetadataSink) RecordFetch(
	fetchUrl string,
	method string,
	httpStatus int,
	duration time.Duration,
	sizeByte int,
) {
	m.fetchEvents = append(m.fetchEvents, fetchEvent{
		fetchUrl:   fetchUrl,
		method:     method,
		httpStatus: httpStatus,
		duration:   duration,
		sizeByte:   sizeByte,
	})
}

func (m *mockMetadataSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.errorEvents = append(m.errorEvents, errorEvent{
		observedAt:  observedAt,
		packageName: packageName,
		action:      action,
		cause:       cause,
		details:     details,
		attrs:       attrs,
	})
}

func (m *mockMetadataSink) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
	m.artifactEvents = append(m.artifactEvents, path)
}

func newTestFetcher(t *testing.T, rawURL string, timeout time.Duration) (*fetcher.BlocklistFetcher, *mockMetadataSink) {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	sink := &mockMetadataSink{}
	param := fetcher.NewFetchParam(*u, "blocklist-tracker/test", timeout, timeout)
	return fetcher.NewBlocklistFetcher(sink, param), sink
}
