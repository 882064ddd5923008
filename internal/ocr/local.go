package ocr

import (
	"bytes"
	"context"
	"io"

	"github.com/ledongthuc/pdf"
)

// LocalExtractor reads the embedded text layer of a PDF without calling out to
// a vision service. Dev-only substitute for scanned documents it returns
// whatever text the PDF itself carries, which may be empty.
type LocalExtractor struct{}

// NewLocalExtractor constructs a LocalExtractor.
func NewLocalExtractor() *LocalExtractor {
	return &LocalExtractor{}
}

// ExtractText pulls the plain-text layer from the PDF bytes.
func (e *LocalExtractor) ExtractText(ctx context.Context, pdfContent []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := validatePDF(pdfContent); err != nil {
		return "", err
	}

	reader := bytes.NewReader(pdfContent)
	pdfReader, err := pdf.NewReader(reader, int64(len(pdfContent)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var _ Extractor = (*LocalExtractor)(nil)
