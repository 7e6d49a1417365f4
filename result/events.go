package result

// Phase names a stage of the crawl-and-download pipeline.
type Phase string

const (
	PhaseCrawl    Phase = "crawl"    // Discovering descendant pages
	PhaseCollect  Phase = "collect"  // Extracting document links from pages
	PhaseDownload Phase = "download" // Fetching and placing documents
)

// Event reports progress for a single page or document.
type Event struct {
	Phase   Phase
	URL     string
	Outcome Outcome // Set for PhaseDownload events only
	Error   string
	Done    int // Items finished so far in this phase
	Total   int // Items known so far in this phase
}
