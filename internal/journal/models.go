package journal

// Status represents the lifecycle of one manifest item within a run.
type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusDownloaded  Status = "downloaded"
	StatusClassified  Status = "classified"
	StatusEmbedding   Status = "embedding"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// Item is one journaled manifest entry.
type Item struct {
	ID            int64
	URL           string
	DateText      string
	LocationText  string
	Status        Status
	Category      string
	OutputPath    string
	FailureReason string
	CreatedAt     string
	UpdatedAt     string
}

// Summary aggregates item outcomes for the final report.
type Summary struct {
	Total     int
	Completed int
	Failed    int
	Pending   int
}
