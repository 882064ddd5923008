package reports

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for dev and tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	records map[string]ReportAnalysis
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{records: make(map[string]ReportAnalysis)}
}

// Create stores the record.
func (r *MemoryRepo) Create(ctx context.Context, rec ReportAnalysis) (ReportAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return ReportAnalysis{}, err
	}
	rec.CreatedAt = time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.ID] = rec
	return rec, nil
}

// GetByID returns a stored record.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (ReportAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return ReportAnalysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return ReportAnalysis{}, ErrNotFound
	}
	return rec, nil
}

// ListByUser returns a user's records newest-first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]ReportAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	var all []ReportAnalysis
	for _, rec := range r.records {
		if rec.UserID == userID {
			all = append(all, rec)
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].ProcessedAt.After(all[j].ProcessedAt)
	})
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

var _ Repo = (*MemoryRepo)(nil)
