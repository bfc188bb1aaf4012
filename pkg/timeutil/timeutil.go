package timeutil

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"
)

// runTimeLayout is used for report headers and commit messages.
const runTimeLayout = "2006-01-02 15:04:05"

// ParseHTTPDate converts an HTTP date header value into epoch seconds (UTC).
//
// The three HTTP-date forms (RFC 1123, RFC 850, ANSI C asctime) are tried
// first, then the general RFC 5322 date-time grammar, which also covers
// numeric zone offsets such as "+0000".
func ParseHTTPDate(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty http date")
	}
	if t, err := http.ParseTime(value); err == nil {
		return t.Unix(), nil
	}
	t, err := mail.ParseDate(value)
	if err != nil {
		return 0, fmt.Errorf("invalid http date %q: %w", value, err)
	}
	return t.Unix(), nil
}

// FormatHTTPDate renders epoch seconds as an RFC 1123 date in GMT,
// e.g. "Wed, 01 Jan 2025 00:00:00 GMT".
func FormatHTTPDate(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format(http.TimeFormat)
}

// FormatRunTime renders t as "2006-01-02 15:04:05 UTC".
func FormatRunTime(t time.Time) string {
	return t.UTC().Format(runTimeLayout) + " UTC"
}
