package result

import (
	"fmt"
	"io"
)

// PrintReport writes per-document outcomes and a summary to w.
func PrintReport(w io.Writer, rep *Report) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	for _, pf := range rep.PageFailures {
		writef("  page unreachable  %s (%s)\n", pf.URL, pf.Error)
	}
	for _, rec := range rep.Records {
		if rec.Outcome == OutcomeFailed {
			writef("  %-17s %s (%s)\n", rec.Outcome, rec.URL, rec.Error)
			continue
		}
		writef("  %-17s %s\n", rec.Outcome, rec.Path)
	}

	writef("Crawled %d pages, found %d documents\n", rep.Stats.Pages, rep.Stats.Documents)
	writef("Written %d, replaced %d, skipped %d, failed %d\n",
		rep.Stats.Written, rep.Stats.Replaced, rep.Stats.Skipped, rep.Stats.Failed)

	if rep.Stats.Failed == 0 {
		writef("All documents downloaded successfully.\n")
	} else {
		writef("%d documents failed to download.\n", rep.Stats.Failed)
	}
}
