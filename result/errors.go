package result

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net"
	"os"
	"strings"

	"github.com/lukemcguire/docgrab/fetch"
)

// ErrorCategory represents the classification of a crawl or download error.
type ErrorCategory string

const (
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryCanceled          ErrorCategory = "canceled"
	CategoryDNSFailure        ErrorCategory = "dns_failure"
	CategoryConnectionRefused ErrorCategory = "connection_refused"
	CategoryTruncated         ErrorCategory = "truncated"
	Category4xx               ErrorCategory = "4xx"
	Category5xx               ErrorCategory = "5xx"
	CategoryParse             ErrorCategory = "parse"
	CategoryFilesystem        ErrorCategory = "filesystem"
	CategoryUnknown           ErrorCategory = "unknown"
)

// Categorizer is implemented by errors that know their own category.
type Categorizer interface {
	Category() ErrorCategory
}

// ClassifyError determines the error category of err.
func ClassifyError(err error) ErrorCategory {
	if err == nil {
		return CategoryUnknown
	}

	var categorized Categorizer
	if errors.As(err, &categorized) {
		return categorized.Category()
	}

	// Check HTTP status codes
	var fetchErr *fetch.FetchError
	if errors.As(err, &fetchErr) && fetchErr.StatusCode > 0 {
		if fetchErr.StatusCode >= 400 && fetchErr.StatusCode <= 499 {
			return Category4xx
		}
		if fetchErr.StatusCode >= 500 {
			return Category5xx
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}
	if errors.Is(err, context.Canceled) {
		return CategoryCanceled
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return CategoryTruncated
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNSFailure
	}

	// Check for connection refused or other net operation errors
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Op == "dial" && strings.Contains(opErr.Error(), "connection refused") {
			return CategoryConnectionRefused
		}
		if opErr.Timeout() {
			return CategoryTimeout
		}
	}

	var pathErr *fs.PathError
	var linkErr *os.LinkError
	if errors.As(err, &pathErr) || errors.As(err, &linkErr) {
		return CategoryFilesystem
	}

	return CategoryUnknown
}

// FormatCategory returns a human-readable label for an error category.
func FormatCategory(cat ErrorCategory) string {
	switch cat {
	case CategoryTimeout:
		return "Timeouts"
	case CategoryCanceled:
		return "Canceled"
	case CategoryDNSFailure:
		return "DNS Failures"
	case CategoryConnectionRefused:
		return "Connection Refused"
	case CategoryTruncated:
		return "Truncated Responses"
	case Category4xx:
		return "Client Errors (4xx)"
	case Category5xx:
		return "Server Errors (5xx)"
	case CategoryParse:
		return "Parse Errors"
	case CategoryFilesystem:
		return "Filesystem Errors"
	default:
		return "Other Errors"
	}
}
