package llm

import (
	"strings"
	"testing"
)

func TestParseReportPromptEmbedsText(t *testing.T) {
	t.Parallel()

	prompt := ParseReportPrompt("JOHN DOE 123-45-6789 CHASE BANK")
	if !strings.Contains(prompt, "JOHN DOE 123-45-6789 CHASE BANK") {
		t.Fatalf("prompt missing report text")
	}
	if strings.Contains(prompt, "{{REPORT_TEXT}}") {
		t.Fatalf("placeholder not replaced")
	}
	for _, key := range []string{"personal_info", "accounts", "inquiries"} {
		if !strings.Contains(prompt, key) {
			t.Fatalf("prompt missing required key %q", key)
		}
	}
}

func TestDetectViolationsPromptEmbedsData(t *testing.T) {
	t.Parallel()

	prompt := DetectViolationsPrompt(`{"accounts": []}`)
	if !strings.Contains(prompt, `{"accounts": []}`) {
		t.Fatalf("prompt missing report data")
	}
	for _, key := range []string{"title", "description", "affected_account", "legal_basis", "severity", "dispute_reason"} {
		if !strings.Contains(prompt, key) {
			t.Fatalf("prompt missing required key %q", key)
		}
	}
}

func TestDisputeLetterPromptEmbedsBoth(t *testing.T) {
	t.Parallel()

	prompt := DisputeLetterPrompt(`{"name": "JOHN DOE"}`, `[{"title": "Obsolete Charge-Off"}]`)
	if !strings.Contains(prompt, `{"name": "JOHN DOE"}`) {
		t.Fatalf("prompt missing personal info")
	}
	if !strings.Contains(prompt, `[{"title": "Obsolete Charge-Off"}]`) {
		t.Fatalf("prompt missing violations")
	}
	if strings.Contains(prompt, "{{PERSONAL_INFO}}") || strings.Contains(prompt, "{{VIOLATIONS}}") {
		t.Fatalf("placeholder not replaced")
	}
}
