package reports

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newPGRepoMock(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &PGRepo{DB: db}, mock
}

func sampleAnalysis() ReportAnalysis {
	return ReportAnalysis{
		ID:            "11111111-2222-3333-4444-555555555555",
		UserID:        "user-1",
		PDFURL:        "https://example.com/report.pdf",
		ExtractedText: "JOHN DOE CHASE BANK",
		ParsedReport:  map[string]any{"accounts": []any{map[string]any{"creditor": "CHASE BANK"}}},
		Violations:    []map[string]any{{"title": "Obsolete Charge-Off"}},
		DisputeLetter: "To whom it may concern...",
		ProcessedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestPGRepoCreate(t *testing.T) {
	t.Parallel()

	repo, mock := newPGRepoMock(t)
	rec := sampleAnalysis()
	created := time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO credit_report_analyses")).
		WithArgs(
			rec.ID,
			rec.UserID,
			rec.PDFURL,
			rec.ExtractedText,
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			rec.DisputeLetter,
			rec.ProcessedAt,
		).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	stored, err := repo.Create(context.Background(), rec)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !stored.CreatedAt.Equal(created) {
		t.Fatalf("created_at = %v, want %v", stored.CreatedAt, created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoCreateError(t *testing.T) {
	t.Parallel()

	repo, mock := newPGRepoMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO credit_report_analyses")).
		WillReturnError(errors.New("connection reset"))

	if _, err := repo.Create(context.Background(), sampleAnalysis()); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func analysisRows(recs ...ReportAnalysis) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "pdf_url", "extracted_text",
		"parsed_report", "violations", "dispute_letter", "processed_at", "created_at",
	})
	for _, rec := range recs {
		rows.AddRow(
			rec.ID, rec.UserID, rec.PDFURL, rec.ExtractedText,
			`{"accounts": [{"creditor": "CHASE BANK"}]}`,
			`[{"title": "Obsolete Charge-Off"}]`,
			rec.DisputeLetter, rec.ProcessedAt, rec.ProcessedAt,
		)
	}
	return rows
}

func TestPGRepoGetByID(t *testing.T) {
	t.Parallel()

	repo, mock := newPGRepoMock(t)
	rec := sampleAnalysis()
	mock.ExpectQuery(regexp.QuoteMeta("FROM credit_report_analyses")).
		WithArgs(rec.ID).
		WillReturnRows(analysisRows(rec))

	got, err := repo.GetByID(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != rec.ID || got.UserID != rec.UserID {
		t.Fatalf("record = %+v", got)
	}
	if len(got.Violations) != 1 || got.Violations[0]["title"] != "Obsolete Charge-Off" {
		t.Fatalf("violations not decoded: %#v", got.Violations)
	}
	if listLen(got.ParsedReport["accounts"]) != 1 {
		t.Fatalf("parsed report not decoded: %#v", got.ParsedReport)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newPGRepoMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM credit_report_analyses")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListByUser(t *testing.T) {
	t.Parallel()

	repo, mock := newPGRepoMock(t)
	a := sampleAnalysis()
	b := sampleAnalysis()
	b.ID = "66666666-7777-8888-9999-000000000000"
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY processed_at DESC")).
		WithArgs("user-1", 20, 0).
		WillReturnRows(analysisRows(a, b))

	recs, err := repo.ListByUser(context.Background(), "user-1", 0, -5)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
