package reports

import "time"

// Account status values as bureaus report them. Stored as free text; the
// pipeline never validates against this set.
const (
	AccountStatusCurrent        = "current"
	AccountStatus30DaysLate     = "30_days_late"
	AccountStatus60DaysLate     = "60_days_late"
	AccountStatus90DaysLate     = "90_days_late"
	AccountStatus120DaysLate    = "120_days_late"
	AccountStatusChargeOff      = "charge_off"
	AccountStatusCollection     = "collection"
	AccountStatusClosed         = "closed"
	AccountStatusPaid           = "paid"
)

// Violation categories the detection prompt asks for.
const (
	ViolationFCRAObsoleteInfo   = "fcra_obsolete_info"
	ViolationFCRAAccuracy       = "fcra_accuracy"
	ViolationFCRAIncompleteInfo = "fcra_incomplete_info"
	ViolationMetro2FormatError  = "metro2_format_error"
	ViolationDuplicateAccount   = "duplicate_account"
	ViolationInaccurateBalance  = "inaccurate_balance"
)

// Violation severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// ReportAnalysis is the persisted outcome of one processed credit report.
// The parsed report and violation list stay loosely typed; only the
// personal_info, accounts and inquiries keys are ever read here.
type ReportAnalysis struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	PDFURL        string           `json:"pdf_url"`
	ExtractedText string           `json:"extracted_text"`
	ParsedReport  map[string]any   `json:"parsed_data"`
	Violations    []map[string]any `json:"violations"`
	DisputeLetter string           `json:"dispute_letter"`
	ProcessedAt   time.Time        `json:"processed_at"`
	CreatedAt     time.Time        `json:"created_at,omitempty"`
}

// Summary carries the three counts returned alongside a successful response.
type Summary struct {
	ViolationsFound  int `json:"violations_found"`
	AccountsAnalyzed int `json:"accounts_analyzed"`
	InquiriesFound   int `json:"inquiries_found"`
}
