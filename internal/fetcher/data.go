package fetcher

import (
	"net/url"
	"time"
)

// HTTP boundary

type FetchParam struct {
	fetchUrl     url.URL
	userAgent    string
	probeTimeout time.Duration
	fetchTimeout time.Duration
}

func NewFetchParam(
	fetchUrl url.URL,
	userAgent string,
	probeTimeout time.Duration,
	fetchTimeout time.Duration,
) FetchParam {
	return FetchParam{
		fetchUrl:     fetchUrl,
		userAgent:    userAgent,
		probeTimeout: probeTimeout,
		fetchTimeout: fetchTimeout,
	}
}

func (p FetchParam) URL() url.URL {
	return p.fetchUrl
}

type FetchResult struct {
	url  url.URL
	body []byte
	meta ResponseMeta
}

func (f *FetchResult) URL() url.URL {
	return f.url
}

func (f *FetchResult) Body() []byte {
	return f.body
}

// Text returns the body as a string.
func (f *FetchResult) Text() string {
	return string(f.body)
}

func (f *FetchResult) Code() int {
	return f.meta.statusCode
}

func (f *FetchResult) SizeByte() uint64 {
	return f.meta.transferredSizeByte
}

// LastModified returns the raw Last-Modified header of the download, if any.
func (f *FetchResult) LastModified() string {
	return f.meta.lastModified
}

type ResponseMeta struct {
	statusCode          int
	transferredSizeByte uint64
	lastModified        string
}

// NewFetchResultForTest creates a FetchResult for testing purposes.
// This allows test packages to construct FetchResult values without
// accessing unexported fields directly.
func NewFetchResultForTest(
	url url.URL,
	body []byte,
	statusCode int,
	lastModified string,
) FetchResult {
	return FetchResult{
		url:  url,
		body: body,
		meta: ResponseMeta{
			statusCode:          statusCode,
			transferredSizeByte: uint64(len(body)),
			lastModified:        lastModified,
		},
	}
}
