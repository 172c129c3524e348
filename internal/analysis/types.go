package analysis

import "encoding/json"

// Party is one side of a contract as extracted by the analysis service.
type Party struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Address string `json:"address"`
}

// contractDetailsResponse mirrors POST {base}/contract/details.
type contractDetailsResponse struct {
	Success         bool             `json:"success"`
	ContractDetails *contractDetails `json:"contract_details"`
	ExtractedText   string           `json:"extracted_text"`
	ConfidenceScore float64          `json:"confidence_score"`
	AnalysisMethod  string           `json:"analysis_method"`
	ErrorMessage    string           `json:"error_message"`
	ProcessingTime  float64          `json:"processing_time"`
}

type contractDetails struct {
	ContractName      string   `json:"contract_name"`
	FirstParty        Party    `json:"first_party"`
	SecondParty       Party    `json:"second_party"`
	ContractStartDate string   `json:"contract_start_date"`
	ContractEndDate   string   `json:"contract_end_date"`
	ContractDuration  string   `json:"contract_duration"`
	ContractValue     string   `json:"contract_value"`
	ContractType      string   `json:"contract_type"`
	KeyTerms          []string `json:"key_terms"`
}

// EntityExtractionResult is the structured outcome of an extraction call.
// Date and value fields are the raw locale-formatted strings; callers parse
// them through the locale package.
type EntityExtractionResult struct {
	ContractName   string
	FirstParty     Party
	SecondParty    Party
	StartDateRaw   string
	EndDateRaw     string
	DurationRaw    string
	ValueRaw       string
	ContractType   string
	KeyTerms       []string
	Confidence     float64
	Method         string
	ProcessingTime float64
}

// riskResponse mirrors POST {base}/api/risk/analyze/file.
type riskResponse struct {
	Success             bool            `json:"success"`
	RiskLevel           string          `json:"risk_level"`
	Confidence          float64         `json:"confidence"`
	RiskFactors         []RiskFactor    `json:"risk_factors"`
	RiskAssessment      json.RawMessage `json:"risk_assessment"`
	ProcessedTextLength int             `json:"processed_text_length"`
	ModelUsed           string          `json:"model_used"`
	ErrorMessage        string          `json:"error_message"`
	AnalysisTimestamp   string          `json:"analysis_timestamp"`
	ProcessingTime      float64         `json:"processing_time"`
}

// RiskFactor is one detected risk item.
type RiskFactor struct {
	Type          string   `json:"type"`
	Description   string   `json:"description"`
	Severity      string   `json:"severity"`
	FoundKeywords []string `json:"found_keywords"`
	KeywordCount  int      `json:"keyword_count"`
}

// RiskClassificationResult is the structured outcome of a risk call.
type RiskClassificationResult struct {
	RiskLevel      string
	Confidence     float64
	Factors        []RiskFactor
	RawResponse    json.RawMessage
	ModelUsed      string
	ProcessingTime float64
}
