package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rohmanhakim/blocklist-tracker/internal/metadata"
	"github.com/rohmanhakim/blocklist-tracker/pkg/failure"
	"github.com/rohmanhakim/blocklist-tracker/pkg/timeutil"
)

/*
Responsibilities

- Probe the blocklist with HEAD and read Last-Modified
- Download the blocklist with GET
- Apply headers and per-call timeouts
- Classify responses

Fetch Semantics

- Only 2xx responses are accepted
- Redirects follow net/http defaults
- No retries; a failed call aborts the current run
- Every call is recorded with metadata

The fetcher never parses records; it only returns bytes and metadata.
*/

type BlocklistFetcher struct {
	metadataSink metadata.MetadataSink
	httpClient   *http.Client
	param        FetchParam
}

func NewBlocklistFetcher(
	metadataSink metadata.MetadataSink,
	param FetchParam,
) *BlocklistFetcher {
	return &BlocklistFetcher{
		metadataSink: metadataSink,
		httpClient:   &http.Client{},
		param:        param,
	}
}

func (b *BlocklistFetcher) LastModified(ctx context.Context) (int64, failure.ClassifiedError) {
	callerMethod := "BlocklistFetcher.LastModified"

	ctx, cancel := context.WithTimeout(ctx, b.param.probeTimeout)
	defer cancel()

	startTime := time.Now()
	resp, err := b.do(ctx, http.MethodHead)
	if err != nil {
		b.metadataSink.RecordFetch(b.param.fetchUrl.String(), http.MethodHead, 0, time.Since(startTime), 0)
		b.recordFetchError(callerMethod, err)
		return 0, err
	}
	resp.Body.Close()
	b.metadataSink.RecordFetch(b.param.fetchUrl.String(), http.MethodHead, resp.StatusCode, time.Since(startTime), 0)

	if statusErr := classifyStatus(resp.StatusCode); statusErr != nil {
		b.recordFetchError(callerMethod, statusErr,
			metadata.NewAttr(metadata.AttrHTTPStatus, strconv.Itoa(resp.StatusCode)),
		)
		return 0, statusErr
	}

	header := resp.Header.Get("Last-Modified")
	if strings.TrimSpace(header) == "" {
		fetchErr := &FetchError{
			Message:   "no Last-Modified header in response",
			Retryable: true,
			Cause:     ErrCauseMissingLastModified,
		}
		b.recordFetchError(callerMethod, fetchErr)
		return 0, fetchErr
	}

	epoch, parseErr := timeutil.ParseHTTPDate(header)
	if parseErr != nil {
		fetchErr := &FetchError{
			Message:   fmt.Sprintf("cannot parse %q: %v", header, parseErr),
			Retryable: true,
			Cause:     ErrCauseInvalidLastModified,
		}
		b.metadataSink.RecordError(
			time.Now(),
			"fetcher",
			callerMethod,
			mapFetchErrorToMetadataCause(fetchErr),
			fetchErr.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, b.param.fetchUrl.String()),
				metadata.NewAttr(metadata.AttrHeader, header),
			},
		)
		return 0, fetchErr
	}

	return epoch, nil
}

func (b *BlocklistFetcher) Fetch(ctx context.Context) (FetchResult, failure.ClassifiedError) {
	callerMethod := "BlocklistFetcher.Fetch"

	ctx, cancel := context.WithTimeout(ctx, b.param.fetchTimeout)
	defer cancel()

	startTime := time.Now()
	result, err := b.performFetch(ctx)
	b.metadataSink.RecordFetch(
		b.param.fetchUrl.String(),
		http.MethodGet,
		result.Code(),
		time.Since(startTime),
		len(result.body),
	)
	if err != nil {
		var attrs []metadata.Attribute
		if result.Code() != 0 {
			attrs = append(attrs, metadata.NewAttr(metadata.AttrHTTPStatus, strconv.Itoa(result.Code())))
		}
		b.recordFetchError(callerMethod, err, attrs...)
		return FetchResult{}, err
	}
	return result, nil
}

func (b *BlocklistFetcher) performFetch(ctx context.Context) (FetchResult, failure.ClassifiedError) {
	resp, err := b.do(ctx, http.MethodGet)
	if err != nil {
		return FetchResult{}, err
	}
	defer resp.Body.Close()

	partial := FetchResult{
		url:  b.param.fetchUrl,
		meta: ResponseMeta{statusCode: resp.StatusCode},
	}

	if statusErr := classifyStatus(resp.StatusCode); statusErr != nil {
		return partial, statusErr
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		cause := ErrCauseReadResponseBodyError
		if isTimeout(readErr) {
			cause = ErrCauseTimeout
		}
		return partial, &FetchError{
			Message:   fmt.Sprintf("failed to read response body: %v", readErr),
			Retryable: true,
			Cause:     cause,
		}
	}

	if len(body) == 0 {
		return partial, &FetchError{
			Message:   "downloaded content is empty",
			Retryable: true,
			Cause:     ErrCauseEmptyBody,
		}
	}

	return FetchResult{
		url:  b.param.fetchUrl,
		body: body,
		meta: ResponseMeta{
			statusCode:          resp.StatusCode,
			transferredSizeByte: uint64(len(body)),
			lastModified:        resp.Header.Get("Last-Modified"),
		},
	}, nil
}

func (b *BlocklistFetcher) do(ctx context.Context, method string) (*http.Response, *FetchError) {
	req, err := http.NewRequestWithContext(ctx, method, b.param.fetchUrl.String(), nil)
	if err != nil {
		return nil, &FetchError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCauseInvalidRequest,
		}
	}

	for key, value := range requestHeaders(b.param.userAgent) {
		req.Header.Set(key, value)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		cause := ErrCauseNetworkFailure
		if isTimeout(err) {
			cause = ErrCauseTimeout
		}
		return nil, &FetchError{
			Message:   fmt.Sprintf("request failed: %v", err),
			Retryable: true,
			Cause:     cause,
		}
	}
	return resp, nil
}

func (b *BlocklistFetcher) recordFetchError(callerMethod string, err failure.ClassifiedError, extra ...metadata.Attribute) {
	var fetchError *FetchError
	if errors.As(err, &fetchError) {
		attrs := []metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, b.param.fetchUrl.String()),
		}
		b.metadataSink.RecordError(
			time.Now(),
			"fetcher",
			callerMethod,
			mapFetchErrorToMetadataCause(fetchError),
			err.Error(),
			append(attrs, extra...),
		)
	}
}

func classifyStatus(statusCode int) *FetchError {
	switch {
	case statusCode >= 500:
		return &FetchError{
			Message:   fmt.Sprintf("server error: %d", statusCode),
			Retryable: true,
			Cause:     ErrCauseRequest5xx,
		}
	case statusCode == http.StatusTooManyRequests:
		return &FetchError{
			Message:   "rate limited (429)",
			Retryable: true,
			Cause:     ErrCauseRequestTooMany,
		}
	case statusCode >= 400:
		// the blocklist may come back later, so a client error only ends this run
		return &FetchError{
			Message:   fmt.Sprintf("client error: %d", statusCode),
			Retryable: true,
			Cause:     ErrCauseRequest4xx,
		}
	case statusCode >= 300:
		// redirects are followed by http.Client; a 3xx here has no usable Location
		return &FetchError{
			Message:   fmt.Sprintf("unexpected redirect status: %d", statusCode),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	case statusCode < 200:
		return &FetchError{
			Message:   fmt.Sprintf("unexpected status: %d", statusCode),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func requestHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent": userAgent,
		"Accept":     "text/plain,*/*",
	}
}
