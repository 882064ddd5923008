package ocr

import (
	"bytes"
	"context"
	"errors"
)

// Extractor abstracts the document-vision collaborator that turns PDF bytes
// into plain text. An empty string with a nil error means the document carried
// no recognizable text; the orchestrator treats that as a failure.
type Extractor interface {
	ExtractText(ctx context.Context, pdfContent []byte) (string, error)
}

// ErrNotPDF is returned before any remote call when the payload does not look
// like a PDF document.
var ErrNotPDF = errors.New("document is not a PDF")

var pdfMagic = []byte("%PDF-")

func validatePDF(data []byte) error {
	if len(data) < len(pdfMagic) || !bytes.HasPrefix(data, pdfMagic) {
		return ErrNotPDF
	}
	return nil
}
