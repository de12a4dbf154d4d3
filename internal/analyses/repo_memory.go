package analyses

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	nextID  int64
	records []Record
	now     func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{now: time.Now}
}

// Save appends the record.
func (r *MemoryRepo) Save(ctx context.Context, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rec.ID = r.nextID
	rec.AnalysisDate = r.now().UTC()
	rec = cloneRecord(rec)
	r.records = append(r.records, rec)
	return cloneRecord(rec), nil
}

// ListAll returns all records, newest first.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, cloneRecord(rec))
	}
	r.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].AnalysisDate.Equal(records[j].AnalysisDate) {
			return records[i].AnalysisDate.After(records[j].AnalysisDate)
		}
		return records[i].ID > records[j].ID
	})
}

func cloneRecord(rec Record) Record {
	rec.ExtractedSkills = append([]string{}, rec.ExtractedSkills...)
	rec.MissingKeywords = append([]string{}, rec.MissingKeywords...)
	return rec
}

var _ Repo = (*MemoryRepo)(nil)
