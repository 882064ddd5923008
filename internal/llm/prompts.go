package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/parse_report.txt
	parseReportTemplate string
	//go:embed prompts/detect_violations.txt
	detectViolationsTemplate string
	//go:embed prompts/dispute_letter.txt
	disputeLetterTemplate string
)

// ParseReportPrompt builds the structuring prompt for raw credit report text.
func ParseReportPrompt(reportText string) string {
	return strings.ReplaceAll(parseReportTemplate, "{{REPORT_TEXT}}", reportText)
}

// DetectViolationsPrompt builds the violation-detection prompt for the
// structured report JSON.
func DetectViolationsPrompt(reportJSON string) string {
	return strings.ReplaceAll(detectViolationsTemplate, "{{REPORT_DATA}}", reportJSON)
}

// DisputeLetterPrompt builds the letter-drafting prompt from the personal-info
// sub-record and the violation list, both as JSON.
func DisputeLetterPrompt(personalInfoJSON, violationsJSON string) string {
	out := strings.ReplaceAll(disputeLetterTemplate, "{{PERSONAL_INFO}}", personalInfoJSON)
	return strings.ReplaceAll(out, "{{VIOLATIONS}}", violationsJSON)
}
