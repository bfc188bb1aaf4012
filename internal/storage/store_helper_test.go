package storage_test

import (
	"time"

	"github.com/rohmanhakim/blocklist-tracker/internal/metadata"
)

// metadataSinkMock is a mock for metadata.MetadataSink
type metadataSinkMock struct {
	errorCauses    []metadata.ErrorCause
	errorActions   []string
	artifactKinds  []metadata.ArtifactKind
	artifactPaths  []string
	artifactAttrs  [][]metadata.Attribute
	recordFetchHit int
}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.errorCauses = append(m.errorCauses, cause)
	m.errorActions = append(m.errorActions, action)
}

func (m *metadataSinkMock) RecordFetch(
	fetchUrl string,
	method string,
	httpStatus int,
	duration time.Duration,
	sizeByte int,
) {
	m.recordFetchHit++
}

func (m *metadataSinkMock) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
	m.artifactKinds = append(m.artifactKinds, kind)
	m.artifactPaths = append(m.artifactPaths, path)
	m.artifactAttrs = append(m.artifactAttrs, attrs)
}

func attrValue(attrs []metadata.Attribute, key metadata.AttributeKey) string {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}
