package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/rohmanhakim/blocklist-tracker/internal/records"
	"github.com/rohmanhakim/blocklist-tracker/pkg/timeutil"
)

const emptyPlaceholder = "# No new records detected in the last check"

// Report is everything rendered into the report file.
// The file is regenerated from scratch on every run.
type Report struct {
	title        string
	sourceURL    string
	generatedAt  time.Time
	lastModified *int64
	newRecords   records.Set
}

func NewReport(
	title string,
	sourceURL string,
	generatedAt time.Time,
	lastModified *int64,
	newRecords records.Set,
) Report {
	return Report{
		title:        title,
		sourceURL:    sourceURL,
		generatedAt:  generatedAt,
		lastModified: lastModified,
		newRecords:   newRecords,
	}
}

func (r Report) Count() int {
	return r.newRecords.Len()
}

// Render produces the report text: "#" metadata lines, a blank line, then
// the new records sorted, or a placeholder comment when there are none.
func Render(r Report) []byte {
	httpDate := "Unknown"
	epoch := "None"
	if r.lastModified != nil {
		httpDate = timeutil.FormatHTTPDate(*r.lastModified)
		epoch = strconv.FormatInt(*r.lastModified, 10)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# New records added to %s\n", r.title)
	fmt.Fprintf(&buf, "# Source: %s\n", r.sourceURL)
	fmt.Fprintf(&buf, "# Last updated: %s\n", timeutil.FormatRunTime(r.generatedAt))
	fmt.Fprintf(&buf, "# Blocklist Last-Modified: %s\n", httpDate)
	fmt.Fprintf(&buf, "# Blocklist Last-Modified (epoch): %s\n", epoch)
	fmt.Fprintf(&buf, "# Total new records: %d\n\n", r.Count())

	if r.Count() == 0 {
		buf.WriteString(emptyPlaceholder)
		buf.WriteByte('\n')
		return buf.Bytes()
	}
	for _, record := range r.newRecords.Sorted() {
		buf.WriteString(record)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
