package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"creditreport-backend/internal/shared/telemetry"
)

const (
	defaultVisionBaseURL = "https://vision.googleapis.com/v1"
	visionScope          = "https://www.googleapis.com/auth/cloud-vision"
)

// VisionClient implements Extractor using the Google Cloud Vision
// DOCUMENT_TEXT_DETECTION feature over REST.
type VisionClient struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
}

// NewVisionClient constructs a Vision client. When apiKey is empty it falls
// back to Application Default Credentials (GOOGLE_APPLICATION_CREDENTIALS).
func NewVisionClient(ctx context.Context, apiKey string, timeout time.Duration) (*VisionClient, error) {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := &VisionClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: defaultVisionBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	if c.apiKey == "" {
		ts, err := google.DefaultTokenSource(ctx, visionScope)
		if err != nil {
			return nil, fmt.Errorf("vision credentials: %w", err)
		}
		c.tokenSource = ts
	}
	return c, nil
}

type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateEntry struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateImage struct {
	Content string `json:"content"`
}

type annotateFeature struct {
	Type string `json:"type"`
}

type annotateResponse struct {
	Responses []struct {
		FullTextAnnotation *struct {
			Text string `json:"text"`
		} `json:"fullTextAnnotation,omitempty"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error,omitempty"`
	} `json:"responses"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// ExtractText runs document text detection over the PDF bytes.
func (c *VisionClient) ExtractText(ctx context.Context, pdfContent []byte) (string, error) {
	if err := validatePDF(pdfContent); err != nil {
		return "", err
	}

	reqBody := annotateRequest{
		Requests: []annotateEntry{
			{
				Image:    annotateImage{Content: base64.StdEncoding.EncodeToString(pdfContent)},
				Features: []annotateFeature{{Type: "DOCUMENT_TEXT_DETECTION"}},
			},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/images:annotate"
	if c.apiKey != "" {
		endpoint += "?key=" + c.apiKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokenSource != nil {
		token, err := c.tokenSource.Token()
		if err != nil {
			return "", fmt.Errorf("vision token: %w", err)
		}
		token.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("vision request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed annotateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return "", fmt.Errorf("vision http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return "", fmt.Errorf("vision response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("vision error: %s (%s)", parsed.Error.Message, parsed.Error.Status)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("vision http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(parsed.Responses) == 0 {
		return "", fmt.Errorf("vision response missing annotations")
	}

	first := parsed.Responses[0]
	if first.Error != nil {
		return "", fmt.Errorf("vision error: %s", first.Error.Message)
	}
	if first.FullTextAnnotation == nil {
		telemetry.Info("ocr.no_text", map[string]any{"size_bytes": len(pdfContent)})
		return "", nil
	}
	return first.FullTextAnnotation.Text, nil
}

var _ Extractor = (*VisionClient)(nil)
