package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"creditreport-backend/internal/llm"
	"creditreport-backend/internal/ocr"
	"creditreport-backend/internal/shared/storage/object"
	"creditreport-backend/internal/shared/telemetry"
	"creditreport-backend/internal/shared/util"
)

// Step names, in pipeline order. They appear in logs and in tagged errors.
const (
	StepValidate = "validate"
	StepFetch    = "fetch"
	StepExtract  = "extract"
	StepParse    = "parse"
	StepDetect   = "detect"
	StepDraft    = "draft"
	StepPersist  = "persist"
)

// MsgMissingFields is the exact validation message on the wire.
const MsgMissingFields = "Missing pdf_url or user_id"

// Service drives one credit report through fetch, OCR, structuring, violation
// detection, letter drafting and persistence. All collaborators are injected;
// the service holds no per-request state and is safe for concurrent use.
type Service struct {
	Repo    Repo
	Fetcher Fetcher
	OCR     ocr.Extractor
	LLM     llm.Client
	Archive object.ObjectStore
	Now     func() time.Time
}

type requestIDKey struct{}

// WithRequestID stamps the request ID used in pipeline step logs.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Process runs the full pipeline for one request. On failure it returns a
// *PipelineError; nothing is persisted unless every upstream step succeeded.
func (s *Service) Process(ctx context.Context, pdfURL, userID string) (ReportAnalysis, Summary, error) {
	if strings.TrimSpace(pdfURL) == "" || strings.TrimSpace(userID) == "" {
		return ReportAnalysis{}, Summary{}, stepErr(KindValidation, StepValidate, MsgMissingFields, nil)
	}

	// Step 1: fetch the PDF.
	s.logStep(ctx, StepFetch, userID, "start", nil)
	pdfContent, err := s.Fetcher.Fetch(ctx, pdfURL)
	if err != nil {
		s.logStepError(ctx, StepFetch, userID, err, "")
		return ReportAnalysis{}, Summary{}, stepErr(KindFetch, StepFetch, "failed to download pdf", err)
	}
	s.logStep(ctx, StepFetch, userID, "done", map[string]any{"size_bytes": len(pdfContent)})

	// Step 2: OCR.
	s.logStep(ctx, StepExtract, userID, "start", nil)
	extractedText, err := s.OCR.ExtractText(ctx, pdfContent)
	if err != nil {
		s.logStepError(ctx, StepExtract, userID, err, "")
		return ReportAnalysis{}, Summary{}, stepErr(KindExtraction, StepExtract, "could not extract text from pdf", err)
	}
	if strings.TrimSpace(extractedText) == "" {
		s.logStepError(ctx, StepExtract, userID, nil, "")
		return ReportAnalysis{}, Summary{}, stepErr(KindExtraction, StepExtract, "could not extract text from pdf", nil)
	}
	s.logStep(ctx, StepExtract, userID, "done", map[string]any{"text_chars": len(extractedText)})

	// Step 3: structure the raw text.
	s.logStep(ctx, StepParse, userID, "start", nil)
	parseRaw, err := s.LLM.Complete(ctx, llm.ParseReportPrompt(extractedText))
	if err != nil {
		s.logStepError(ctx, StepParse, userID, err, parseRaw)
		return ReportAnalysis{}, Summary{}, stepErr(KindParse, StepParse, "could not parse credit report data", err)
	}
	parsedReport, err := decodeParsedReport(parseRaw)
	if err != nil {
		s.logStepError(ctx, StepParse, userID, err, parseRaw)
		return ReportAnalysis{}, Summary{}, stepErr(KindParse, StepParse, "could not parse credit report data", err)
	}
	s.logStep(ctx, StepParse, userID, "done", map[string]any{
		"accounts":  listLen(parsedReport["accounts"]),
		"inquiries": listLen(parsedReport["inquiries"]),
	})

	// Step 4: detect violations. An empty array is a valid outcome.
	s.logStep(ctx, StepDetect, userID, "start", nil)
	reportJSON, err := json.Marshal(parsedReport)
	if err != nil {
		return ReportAnalysis{}, Summary{}, stepErr(KindParse, StepDetect, "could not detect violations", err)
	}
	detectRaw, err := s.LLM.Complete(ctx, llm.DetectViolationsPrompt(string(reportJSON)))
	if err != nil {
		s.logStepError(ctx, StepDetect, userID, err, detectRaw)
		return ReportAnalysis{}, Summary{}, stepErr(KindParse, StepDetect, "could not detect violations", err)
	}
	violations, err := decodeViolations(detectRaw)
	if err != nil {
		s.logStepError(ctx, StepDetect, userID, err, detectRaw)
		return ReportAnalysis{}, Summary{}, stepErr(KindParse, StepDetect, "could not detect violations", err)
	}
	s.logStep(ctx, StepDetect, userID, "done", map[string]any{"violations": len(violations)})

	// Step 5: draft the dispute letter.
	s.logStep(ctx, StepDraft, userID, "start", nil)
	personalJSON, err := json.Marshal(parsedReport["personal_info"])
	if err != nil {
		return ReportAnalysis{}, Summary{}, stepErr(KindGeneration, StepDraft, "could not generate dispute letter", err)
	}
	violationsJSON, err := json.Marshal(violations)
	if err != nil {
		return ReportAnalysis{}, Summary{}, stepErr(KindGeneration, StepDraft, "could not generate dispute letter", err)
	}
	letter, err := s.LLM.Complete(ctx, llm.DisputeLetterPrompt(string(personalJSON), string(violationsJSON)))
	if err != nil {
		s.logStepError(ctx, StepDraft, userID, err, "")
		return ReportAnalysis{}, Summary{}, stepErr(KindGeneration, StepDraft, "could not generate dispute letter", err)
	}
	if strings.TrimSpace(letter) == "" {
		s.logStepError(ctx, StepDraft, userID, nil, "")
		return ReportAnalysis{}, Summary{}, stepErr(KindGeneration, StepDraft, "could not generate dispute letter", nil)
	}
	s.logStep(ctx, StepDraft, userID, "done", map[string]any{"letter_chars": len(letter)})

	// Step 6: persist. Only fully populated records are ever written.
	s.logStep(ctx, StepPersist, userID, "start", nil)
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	rec := ReportAnalysis{
		ID:            uuid.NewString(),
		UserID:        userID,
		PDFURL:        pdfURL,
		ExtractedText: extractedText,
		ParsedReport:  parsedReport,
		Violations:    violations,
		DisputeLetter: letter,
		ProcessedAt:   now().UTC(),
	}
	stored, err := s.Repo.Create(ctx, rec)
	if err != nil {
		s.logStepError(ctx, StepPersist, userID, err, "")
		return ReportAnalysis{}, Summary{}, stepErr(KindPersistence, StepPersist, "failed to store analysis", err)
	}
	s.logStep(ctx, StepPersist, userID, "done", map[string]any{"analysis_id": stored.ID})

	s.archiveArtifacts(ctx, stored, pdfContent)

	summary := Summary{
		ViolationsFound:  len(violations),
		AccountsAnalyzed: listLen(parsedReport["accounts"]),
		InquiriesFound:   listLen(parsedReport["inquiries"]),
	}
	return stored, summary, nil
}

// Get returns a persisted analysis by ID.
func (s *Service) Get(ctx context.Context, id string) (ReportAnalysis, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns a user's analyses newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]ReportAnalysis, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// archiveArtifacts stores the fetched PDF and generated letter next to the
// record, namespaced by a hashed user key so raw user IDs never appear in
// storage paths. Best-effort: archive failures are logged, never surfaced.
func (s *Service) archiveArtifacts(ctx context.Context, rec ReportAnalysis, pdfContent []byte) {
	if s.Archive == nil {
		return
	}
	base := "users/" + util.HashUserKey(rec.UserID) + "/analyses/" + rec.ID + "/"

	pdfKey := base + archiveFileName(rec.PDFURL)
	if _, err := s.Archive.Save(ctx, pdfKey, "application/pdf", bytes.NewReader(pdfContent)); err != nil {
		telemetry.Error("archive.failed", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"analysis_id": rec.ID,
			"key":         pdfKey,
			"error":       err.Error(),
		})
	}
	letterKey := base + "dispute_letter.txt"
	if _, err := s.Archive.Save(ctx, letterKey, "text/plain; charset=utf-8", strings.NewReader(rec.DisputeLetter)); err != nil {
		telemetry.Error("archive.failed", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"analysis_id": rec.ID,
			"key":         letterKey,
			"error":       err.Error(),
		})
	}
}

// archiveFileName derives a safe file name for the archived source document
// from the URL it was fetched from.
func archiveFileName(pdfURL string) string {
	const fallback = "report.pdf"
	u, err := url.Parse(pdfURL)
	if err != nil {
		return fallback
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return fallback
	}
	name, err := util.SanitizeFileName(base)
	if err != nil {
		return fallback
	}
	return name
}

// decodeParsedReport strips an optional code fence and decodes the structuring
// response. Empty objects are failures: there is nothing to analyze.
func decodeParsedReport(raw string) (map[string]any, error) {
	stripped := llm.StripCodeFence(raw)
	if stripped == "" {
		return nil, errEmptyModelOutput
	}
	parsed := map[string]any{}
	if err := json.Unmarshal([]byte(stripped), &parsed); err != nil {
		return nil, err
	}
	if len(parsed) == 0 {
		return nil, errEmptyModelOutput
	}
	return parsed, nil
}

// decodeViolations strips an optional code fence and decodes the detection
// response. An empty array decodes to an empty, non-nil slice.
func decodeViolations(raw string) ([]map[string]any, error) {
	stripped := llm.StripCodeFence(raw)
	if stripped == "" {
		return nil, errEmptyModelOutput
	}
	violations := []map[string]any{}
	if err := json.Unmarshal([]byte(stripped), &violations); err != nil {
		return nil, err
	}
	return violations, nil
}

func listLen(v any) int {
	if list, ok := v.([]any); ok {
		return len(list)
	}
	return 0
}

func (s *Service) logStep(ctx context.Context, step, userID, phase string, extra map[string]any) {
	fields := map[string]any{
		"request_id": requestIDFromContext(ctx),
		"user_id":    userID,
		"step":       step,
		"phase":      phase,
	}
	for k, v := range extra {
		fields[k] = v
	}
	telemetry.Info("pipeline.step", fields)
}

// logStepError records the failure with full detail, including the raw model
// response when one exists, to aid debugging malformed LLM output.
func (s *Service) logStepError(ctx context.Context, step, userID string, err error, raw string) {
	fields := map[string]any{
		"request_id": requestIDFromContext(ctx),
		"user_id":    userID,
		"step":       step,
		"phase":      "failed",
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	if raw != "" {
		fields["raw_response"] = raw
	}
	telemetry.Error("pipeline.step", fields)
}
