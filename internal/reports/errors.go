package reports

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repositories when no record matches.
var ErrNotFound = errors.New("not found")

var errEmptyModelOutput = errors.New("model returned empty output")

// Kind classifies a pipeline failure. Every kind except KindValidation maps to
// HTTP 500; validation maps to 400 and is the only kind raised before any
// collaborator call.
type Kind string

const (
	KindValidation  Kind = "validation_error"
	KindFetch       Kind = "fetch_error"
	KindExtraction  Kind = "extraction_error"
	KindParse       Kind = "parse_error"
	KindGeneration  Kind = "generation_error"
	KindPersistence Kind = "persistence_error"
)

// PipelineError tags a step failure with its kind and the step that raised it.
// Structuring and detection failures share KindParse but keep distinct Step
// values so operator logs can tell them apart.
type PipelineError struct {
	Kind    Kind
	Step    string
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func stepErr(kind Kind, step, message string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Step: step, Message: message, Err: err}
}

// KindOf returns the failure kind, or "" for errors that did not come from the
// pipeline.
func KindOf(err error) Kind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// PublicMessage returns the short message safe to place in the error envelope.
// Internal error detail stays in the logs.
func PublicMessage(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return "processing failed"
}
