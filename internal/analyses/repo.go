package analyses

import "context"

// Repo is the append-only store of analysis records.
type Repo interface {
	// Save appends rec, assigning its ID and AnalysisDate, and returns the stored copy.
	Save(ctx context.Context, rec Record) (Record, error)
	// ListAll returns every record, most recent first.
	ListAll(ctx context.Context) ([]Record, error)
}
