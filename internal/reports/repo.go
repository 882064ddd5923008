package reports

import "context"

// Repo persists completed analyses.
type Repo interface {
	Create(ctx context.Context, rec ReportAnalysis) (ReportAnalysis, error)
	GetByID(ctx context.Context, id string) (ReportAnalysis, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]ReportAnalysis, error)
}
