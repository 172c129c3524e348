package analysis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testDoc() Document {
	return Document{FileName: "contract.pdf", Content: strings.NewReader("%PDF-1.4 test")}
}

func TestExtractEntitiesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contract/details" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"contract_details": {
				"contract_name": "Perjanjian Pengadaan",
				"first_party": {"name": "PT Maju", "type": "company", "address": "Jakarta"},
				"second_party": {"name": "PT Jaya", "type": "company", "address": "Bandung"},
				"contract_start_date": "20 Februari 2025",
				"contract_end_date": "20 Februari 2026",
				"contract_duration": "12",
				"contract_value": "Rp 4.338.283.000,00",
				"contract_type": "procurement",
				"key_terms": ["penalty 2%"]
			},
			"confidence_score": 0.93,
			"analysis_method": "layoutlm-v3",
			"processing_time": 1.8
		}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 5*time.Second)
	got, err := client.ExtractEntities(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("ExtractEntities: %v", err)
	}
	if got.FirstParty.Name != "PT Maju" || got.SecondParty.Name != "PT Jaya" {
		t.Fatalf("unexpected parties: %+v", got)
	}
	if got.ValueRaw != "Rp 4.338.283.000,00" {
		t.Fatalf("unexpected value raw: %q", got.ValueRaw)
	}
	if got.Method != "layoutlm-v3" || got.ProcessingTime != 1.8 {
		t.Fatalf("audit fields missing: %+v", got)
	}
}

func TestClassifyRiskSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/risk/analyze/file" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"risk_level": "high",
			"confidence": 0.87,
			"risk_factors": [
				{"type": "penalty", "description": "uncapped penalty clause", "severity": "High", "found_keywords": ["denda"], "keyword_count": 3}
			],
			"model_used": "risk-bert-id",
			"processing_time": 0.9
		}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, 5*time.Second)
	got, err := client.ClassifyRisk(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("ClassifyRisk: %v", err)
	}
	if got.RiskLevel != "High" {
		t.Fatalf("expected normalized High, got %q", got.RiskLevel)
	}
	if got.ModelUsed != "risk-bert-id" {
		t.Fatalf("expected model identifier, got %q", got.ModelUsed)
	}
	if len(got.Factors) != 1 || got.Factors[0].KeywordCount != 3 {
		t.Fatalf("unexpected factors: %+v", got.Factors)
	}
	if len(got.RawResponse) == 0 {
		t.Fatal("expected raw response captured for audit")
	}
}

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		name     string
		handler  http.HandlerFunc
		wantKind ErrorKind
	}{
		{
			name: "rejected status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "overloaded", http.StatusServiceUnavailable)
			},
			wantKind: KindRejected,
		},
		{
			name: "rejected payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success": false, "error_message": "unreadable scan"}`))
			},
			wantKind: KindRejected,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success": tr`))
			},
			wantKind: KindMalformed,
		},
		{
			name: "malformed risk level",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success": true, "risk_level": "catastrophic"}`))
			},
			wantKind: KindMalformed,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			client := NewHTTPClient(srv.URL, 5*time.Second)
			_, err := client.ClassifyRisk(context.Background(), testDoc())
			var aerr *Error
			if !errors.As(err, &aerr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if aerr.Kind != tc.wantKind {
				t.Fatalf("expected kind %s, got %s", tc.wantKind, aerr.Kind)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	client := NewHTTPClient(srv.URL, time.Second)
	_, err := client.ExtractEntities(context.Background(), testDoc())
	var aerr *Error
	if !errors.As(err, &aerr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if aerr.Kind != KindTransport {
		t.Fatalf("expected transport kind, got %s", aerr.Kind)
	}
}
