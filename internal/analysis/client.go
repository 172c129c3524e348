// Package analysis calls the external document-analysis service: structured
// entity extraction and risk classification over multipart uploads.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Document is an uploaded contract document handed to the service.
type Document struct {
	FileName string
	Content  io.Reader
}

// Client defines the two independent analysis operations.
type Client interface {
	ExtractEntities(ctx context.Context, doc Document) (EntityExtractionResult, error)
	ClassifyRisk(ctx context.Context, doc Document) (RiskClassificationResult, error)
}

// HTTPClient implements Client against the analysis service's HTTP API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient constructs a client for the given base URL. The timeout is
// an explicit configuration decision; there is no implicit retry.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "http://127.0.0.1:8000"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ExtractEntities sends the document for structured-field extraction.
func (c *HTTPClient) ExtractEntities(ctx context.Context, doc Document) (EntityExtractionResult, error) {
	const op = "extract_entities"

	body, err := c.postMultipart(ctx, op, c.baseURL+"/contract/details", doc)
	if err != nil {
		return EntityExtractionResult{}, err
	}

	var resp contractDetailsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return EntityExtractionResult{}, &Error{Kind: KindMalformed, Op: op, Err: err}
	}
	if !resp.Success {
		return EntityExtractionResult{}, &Error{Kind: KindRejected, Op: op, Err: fmt.Errorf("service error: %s", resp.ErrorMessage)}
	}
	if resp.ContractDetails == nil {
		return EntityExtractionResult{}, &Error{Kind: KindMalformed, Op: op, Err: fmt.Errorf("missing contract_details")}
	}

	d := resp.ContractDetails
	return EntityExtractionResult{
		ContractName:   d.ContractName,
		FirstParty:     d.FirstParty,
		SecondParty:    d.SecondParty,
		StartDateRaw:   d.ContractStartDate,
		EndDateRaw:     d.ContractEndDate,
		DurationRaw:    d.ContractDuration,
		ValueRaw:       d.ContractValue,
		ContractType:   d.ContractType,
		KeyTerms:       d.KeyTerms,
		Confidence:     resp.ConfidenceScore,
		Method:         resp.AnalysisMethod,
		ProcessingTime: resp.ProcessingTime,
	}, nil
}

// ClassifyRisk sends the document for risk classification.
func (c *HTTPClient) ClassifyRisk(ctx context.Context, doc Document) (RiskClassificationResult, error) {
	const op = "classify_risk"

	body, err := c.postMultipart(ctx, op, c.baseURL+"/api/risk/analyze/file", doc)
	if err != nil {
		return RiskClassificationResult{}, err
	}

	var resp riskResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return RiskClassificationResult{}, &Error{Kind: KindMalformed, Op: op, Err: err}
	}
	if !resp.Success {
		return RiskClassificationResult{}, &Error{Kind: KindRejected, Op: op, Err: fmt.Errorf("service error: %s", resp.ErrorMessage)}
	}
	if !validRiskLevel(resp.RiskLevel) {
		return RiskClassificationResult{}, &Error{Kind: KindMalformed, Op: op, Err: fmt.Errorf("unknown risk_level %q", resp.RiskLevel)}
	}

	return RiskClassificationResult{
		RiskLevel:      normalizeRiskLevel(resp.RiskLevel),
		Confidence:     resp.Confidence,
		Factors:        resp.RiskFactors,
		RawResponse:    json.RawMessage(body),
		ModelUsed:      resp.ModelUsed,
		ProcessingTime: resp.ProcessingTime,
	}, nil
}

func (c *HTTPClient) postMultipart(ctx context.Context, op, url string, doc Document) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", doc.FileName)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	if _, err := io.Copy(part, doc.Content); err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindRejected, Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 256))}
	}
	return body, nil
}

func validRiskLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low", "medium", "high":
		return true
	default:
		return false
	}
}

func normalizeRiskLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low":
		return "Low"
	case "medium":
		return "Medium"
	case "high":
		return "High"
	default:
		return level
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ Client = (*HTTPClient)(nil)
