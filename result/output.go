package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// WriteJSON writes the download records as a formatted JSON array to the writer.
// Uses flat array format (not wrapped with metadata) for simpler scripting.
func WriteJSON(w io.Writer, records []DownloadRecord) error {
	if records == nil {
		records = []DownloadRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteCSV writes the download records as CSV to the writer.
// Always includes a header row, even if there are no records.
// Column order: url, filename, outcome, bytes, error_type, error
func WriteCSV(w io.Writer, records []DownloadRecord) error {
	cw := csv.NewWriter(w)

	header := []string{"url", "filename", "outcome", "bytes", "error_type", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.URL,
			rec.Filename,
			string(rec.Outcome),
			strconv.FormatInt(rec.Bytes, 10),
			string(rec.ErrorCategory),
			rec.Error,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv record for %s: %w", rec.URL, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}
