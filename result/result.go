package result

import "time"

// Outcome is the result of one document download attempt.
type Outcome string

const (
	OutcomeWritten  Outcome = "written"           // No file existed at the destination
	OutcomeSkipped  Outcome = "skipped-identical" // Existing file had identical content
	OutcomeReplaced Outcome = "replaced"          // Existing file had different content
	OutcomeFailed   Outcome = "failed"            // Fetch or filesystem error; destination untouched
)

// DownloadRecord describes the outcome of downloading a single document.
type DownloadRecord struct {
	URL           string        `json:"url"`                  // The document URL
	Filename      string        `json:"filename"`             // Final path segment of the URL
	Path          string        `json:"path,omitempty"`       // Destination path on disk
	Outcome       Outcome       `json:"outcome"`              // What happened to the destination
	Bytes         int64         `json:"bytes"`                // Size of the downloaded content
	Error         string        `json:"error,omitempty"`      // Error message if the download failed
	ErrorCategory ErrorCategory `json:"error_type,omitempty"` // Category classification of the error
}

// PageFailure records a page that could not be fetched or parsed.
// Unreachable pages contribute no descendants and no documents.
type PageFailure struct {
	URL           string        `json:"url"`
	Error         string        `json:"error"`
	ErrorCategory ErrorCategory `json:"error_type"`
}

// Stats contains aggregate counts for one pipeline run.
type Stats struct {
	Pages        int           // Descendant pages discovered
	Documents    int           // Distinct document URLs collected
	Written      int           // Documents written to a new path
	Replaced     int           // Documents that replaced changed content
	Skipped      int           // Documents identical to the existing file
	Failed       int           // Documents that could not be downloaded
	PageFailures int           // Pages skipped because they could not be fetched
	Duration     time.Duration // Total time taken for the run
}

// Report is the complete output of a crawl-and-download run.
type Report struct {
	BaseURL      string
	DestDir      string
	Pages        []string
	Documents    []string
	Records      []DownloadRecord
	PageFailures []PageFailure
	Stats        Stats
}

// Tally counts records by outcome into stats.
func Tally(stats *Stats, records []DownloadRecord) {
	for _, rec := range records {
		switch rec.Outcome {
		case OutcomeWritten:
			stats.Written++
		case OutcomeReplaced:
			stats.Replaced++
		case OutcomeSkipped:
			stats.Skipped++
		case OutcomeFailed:
			stats.Failed++
		}
	}
}

// HasFailures reports whether any document download failed.
func (r *Report) HasFailures() bool {
	return r != nil && r.Stats.Failed > 0
}
