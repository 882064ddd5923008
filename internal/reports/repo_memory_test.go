package reports

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMemoryRepoCreateAndGet(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	rec := sampleAnalysis()
	stored, err := repo.Create(context.Background(), rec)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if stored.CreatedAt.IsZero() {
		t.Fatalf("created_at not stamped")
	}

	got, err := repo.GetByID(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.DisputeLetter != rec.DisputeLetter {
		t.Fatalf("record = %+v", got)
	}
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepoListOrderAndPaging(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		rec := sampleAnalysis()
		rec.ID = fmt.Sprintf("rec-%d", i)
		rec.ProcessedAt = base.Add(time.Duration(i) * time.Hour)
		if _, err := repo.Create(context.Background(), rec); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	recs, err := repo.ListByUser(context.Background(), "user-1", 2, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "rec-4" || recs[1].ID != "rec-3" {
		t.Fatalf("page 1 = %+v", recs)
	}

	recs, err = repo.ListByUser(context.Background(), "user-1", 2, 4)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != "rec-0" {
		t.Fatalf("page 3 = %+v", recs)
	}

	recs, err = repo.ListByUser(context.Background(), "user-1", 10, 100)
	if err != nil || recs != nil {
		t.Fatalf("past-end page = %+v, %v", recs, err)
	}

	recs, err = repo.ListByUser(context.Background(), "someone-else", 10, 0)
	if err != nil || len(recs) != 0 {
		t.Fatalf("other user = %+v, %v", recs, err)
	}
}
