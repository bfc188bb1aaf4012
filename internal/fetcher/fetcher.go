package fetcher

import (
	"context"

	"github.com/rohmanhakim/blocklist-tracker/pkg/failure"
)

type Fetcher interface {
	// LastModified probes the resource and returns its Last-Modified
	// header as epoch seconds.
	LastModified(ctx context.Context) (int64, failure.ClassifiedError)
	// Fetch downloads the full resource.
	Fetch(ctx context.Context) (FetchResult, failure.ClassifiedError)
}
