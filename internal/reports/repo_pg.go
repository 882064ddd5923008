package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. The parsed report and violation list
// are stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a completed analysis and returns the stored row.
func (r *PGRepo) Create(ctx context.Context, rec ReportAnalysis) (ReportAnalysis, error) {
	const query = `
INSERT INTO credit_report_analyses (
	id, user_id, pdf_url, extracted_text, parsed_report, violations, dispute_letter, processed_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at`
	parsedPayload, err := marshalJSONB(rec.ParsedReport)
	if err != nil {
		return ReportAnalysis{}, fmt.Errorf("marshal parsed report: %w", err)
	}
	violationsPayload, err := marshalJSONB(rec.Violations)
	if err != nil {
		return ReportAnalysis{}, fmt.Errorf("marshal violations: %w", err)
	}

	err = r.DB.QueryRowContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.PDFURL,
		rec.ExtractedText,
		parsedPayload,
		violationsPayload,
		rec.DisputeLetter,
		rec.ProcessedAt,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return ReportAnalysis{}, err
	}
	return rec, nil
}

// GetByID returns one analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (ReportAnalysis, error) {
	const query = `
SELECT id, user_id, pdf_url, extracted_text, parsed_report, violations, dispute_letter, processed_at, created_at
FROM credit_report_analyses
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, id)
	rec, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReportAnalysis{}, ErrNotFound
		}
		return ReportAnalysis{}, err
	}
	return rec, nil
}

// ListByUser returns analyses for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]ReportAnalysis, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, user_id, pdf_url, extracted_text, parsed_report, violations, dispute_letter, processed_at, created_at
FROM credit_report_analyses
WHERE user_id = $1
ORDER BY processed_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportAnalysis
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (ReportAnalysis, error) {
	var rec ReportAnalysis
	var parsed sql.NullString
	var violations sql.NullString
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.PDFURL,
		&rec.ExtractedText,
		&parsed,
		&violations,
		&rec.DisputeLetter,
		&rec.ProcessedAt,
		&rec.CreatedAt,
	)
	if err != nil {
		return ReportAnalysis{}, err
	}
	if parsed.Valid {
		rec.ParsedReport = map[string]any{}
		if err := json.Unmarshal([]byte(parsed.String), &rec.ParsedReport); err != nil {
			rec.ParsedReport = nil
		}
	}
	if violations.Valid {
		rec.Violations = []map[string]any{}
		if err := json.Unmarshal([]byte(violations.String), &rec.Violations); err != nil {
			rec.Violations = nil
		}
	}
	return rec, nil
}

func marshalJSONB(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

var _ Repo = (*PGRepo)(nil)
