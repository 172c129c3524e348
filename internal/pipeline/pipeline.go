// Package pipeline orchestrates the contract ingestion flow: document
// upload, concurrent entity extraction and risk classification against the
// analysis service, and independent persistence of each branch's outcome.
package pipeline

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gitaufar/technoday-sub001/internal/analysis"
	"github.com/gitaufar/technoday-sub001/internal/contracts"
	"github.com/gitaufar/technoday-sub001/internal/docstore"
	"github.com/gitaufar/technoday-sub001/internal/entities"
	"github.com/gitaufar/technoday-sub001/internal/live"
	"github.com/gitaufar/technoday-sub001/internal/locale"
	"github.com/gitaufar/technoday-sub001/internal/risk"
	"github.com/gitaufar/technoday-sub001/internal/shared/metrics"
	"github.com/gitaufar/technoday-sub001/internal/shared/telemetry"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// State is where a pipeline run currently is, or how it ended.
type State string

const (
	StateUploading       State = "uploading"
	StateAnalyzing       State = "analyzing"
	StatePersisting      State = "persisting"
	StateDone            State = "done"
	StatePartiallyFailed State = "partially_failed"
	StateFailed          State = "failed"
)

// BranchResult reports how one analysis branch settled.
type BranchResult struct {
	OK        bool   `json:"ok"`
	ErrorKind string `json:"errorKind,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Outcome is the full report of one pipeline run.
type Outcome struct {
	PipelineID string                  `json:"pipelineId"`
	ContractID string                  `json:"contractId"`
	State      State                   `json:"state"`
	Document   docstore.StoredDocument `json:"document"`
	Entities   BranchResult            `json:"entities"`
	Risk       BranchResult            `json:"risk"`
	DurationMs int64                   `json:"durationMs"`
}

// Orchestrator runs the ingestion pipeline. One Run call is one pipeline:
// there is no queue and no retry, a failed branch stays failed until the
// caller uploads again.
type Orchestrator struct {
	Docs      *docstore.Store
	Analyzer  analysis.Client
	Contracts contracts.Repo
	Entities  entities.Repo
	Risk      risk.Repo
	Bus       live.Bus

	now func() time.Time
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(docs *docstore.Store, analyzer analysis.Client, contractRepo contracts.Repo, entityRepo entities.Repo, riskRepo risk.Repo, bus live.Bus) *Orchestrator {
	return &Orchestrator{
		Docs:      docs,
		Analyzer:  analyzer,
		Contracts: contractRepo,
		Entities:  entityRepo,
		Risk:      riskRepo,
		Bus:       bus,
		now:       time.Now,
	}
}

// Run ingests one document for a contract. An upload failure ends the run
// before any analysis starts. The two analysis branches then run
// concurrently and both always settle; each branch's results are persisted
// independently, so one branch failing never discards the other's work.
func (o *Orchestrator) Run(ctx context.Context, scope tenant.Scope, contractID, fileName string, r io.Reader) (Outcome, error) {
	if err := scope.Validate(); err != nil {
		return Outcome{}, err
	}

	started := o.now()
	outcome := Outcome{
		PipelineID: uuid.NewString(),
		ContractID: contractID,
		State:      StateUploading,
	}
	metrics.IncPipelineStarted()
	defer func() {
		outcome.DurationMs = o.now().Sub(started).Milliseconds()
		metrics.IncPipelineOutcome(string(outcome.State))
		metrics.ObservePipelineDurationMs(float64(outcome.DurationMs))
	}()

	// Upload. A failure here is terminal: there is nothing to analyze.
	doc, err := o.Docs.Save(ctx, contractID, fileName, r)
	if err != nil {
		outcome.State = StateFailed
		telemetry.Error("pipeline.upload_failed", map[string]any{
			"pipeline_id": outcome.PipelineID,
			"contract_id": contractID,
			"error":       err.Error(),
		})
		return outcome, err
	}
	outcome.Document = doc
	if err := o.Contracts.SetDocument(ctx, scope, contractID, doc.Path, doc.URL); err != nil {
		outcome.State = StateFailed
		return outcome, err
	}

	// Analyze. Each branch reads its own copy of the stored document and
	// settles on its own; neither can cancel the other.
	outcome.State = StateAnalyzing

	var (
		wg         sync.WaitGroup
		extraction analysis.EntityExtractionResult
		extractErr error
		verdict    analysis.RiskClassificationResult
		riskErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		extraction, extractErr = runBranch(ctx, o.Docs, doc.Path, fileName, o.Analyzer.ExtractEntities)
	}()
	go func() {
		defer wg.Done()
		verdict, riskErr = runBranch(ctx, o.Docs, doc.Path, fileName, o.Analyzer.ClassifyRisk)
	}()
	wg.Wait()

	// Persist. Branch outcomes land independently.
	outcome.State = StatePersisting
	outcome.Entities = o.persistEntities(ctx, scope, contractID, extraction, extractErr)
	outcome.Risk = o.persistRisk(ctx, scope, contractID, verdict, riskErr)

	switch {
	case outcome.Entities.OK && outcome.Risk.OK:
		outcome.State = StateDone
	case outcome.Entities.OK || outcome.Risk.OK:
		outcome.State = StatePartiallyFailed
	default:
		outcome.State = StateFailed
	}

	telemetry.Info("pipeline.settled", map[string]any{
		"pipeline_id": outcome.PipelineID,
		"contract_id": contractID,
		"state":       string(outcome.State),
		"duration_ms": o.now().Sub(started).Milliseconds(),
	})
	return outcome, nil
}

// runBranch hands the stored document to one analysis call. Each branch
// opens its own reader so the two never share stream position.
func runBranch[T any](ctx context.Context, docs *docstore.Store, path, fileName string, call func(context.Context, analysis.Document) (T, error)) (T, error) {
	var zero T
	rc, err := docs.Open(ctx, path)
	if err != nil {
		return zero, err
	}
	defer rc.Close()
	return call(ctx, analysis.Document{FileName: fileName, Content: rc})
}

func (o *Orchestrator) persistEntities(ctx context.Context, scope tenant.Scope, contractID string, result analysis.EntityExtractionResult, branchErr error) BranchResult {
	if branchErr != nil {
		telemetry.Error("pipeline.extract_failed", map[string]any{
			"contract_id": contractID,
			"error":       branchErr.Error(),
		})
		return failedBranch(branchErr)
	}

	extraction := entities.Extraction{
		ID:          uuid.NewString(),
		ContractID:  contractID,
		FirstParty:  result.FirstParty.Name,
		SecondParty: result.SecondParty.Name,
		KeyTerms:    result.KeyTerms,
		Confidence:  result.Confidence,
		Method:      result.Method,
		AnalyzedAt:  o.now().UTC(),
	}
	if result.ValueRaw != "" {
		if v, tag, err := locale.DetectCurrency(result.ValueRaw); err == nil {
			extraction.Value = &v
			telemetry.Info("pipeline.value_parsed", map[string]any{
				"contract_id": contractID,
				"locale":      tag.String(),
			})
		} else {
			telemetry.Error("pipeline.value_unparseable", map[string]any{
				"contract_id": contractID,
				"raw":         result.ValueRaw,
			})
		}
	}
	if months, ok := parseDurationMonths(result.DurationRaw); ok {
		extraction.DurationMonths = &months
	}

	if err := o.Entities.Create(ctx, scope, extraction); err != nil {
		return failedBranch(err)
	}

	// The extraction row is committed; everything below is best-effort.
	start := parsedDate(contractID, result.StartDateRaw)
	end := parsedDate(contractID, result.EndDateRaw)
	if start != nil || end != nil {
		if err := o.Contracts.SetDates(ctx, scope, contractID, start, end); err != nil {
			telemetry.Error("pipeline.set_dates_failed", map[string]any{
				"contract_id": contractID,
				"error":       err.Error(),
			})
		}
	}
	o.publish(live.Event{Table: live.TableEntities, ContractID: contractID, Op: live.OpInsert})
	return BranchResult{OK: true}
}

func (o *Orchestrator) persistRisk(ctx context.Context, scope tenant.Scope, contractID string, result analysis.RiskClassificationResult, branchErr error) BranchResult {
	now := o.now().UTC()

	if branchErr != nil {
		telemetry.Error("pipeline.risk_failed", map[string]any{
			"contract_id": contractID,
			"error":       branchErr.Error(),
		})
		// The failure itself is part of the audit trail.
		audit := risk.AnalysisRecord{
			ID:         uuid.NewString(),
			ContractID: contractID,
			RiskLevel:  "Unknown",
			Confidence: 0,
			ModelUsed:  "error",
			CreatedAt:  now,
		}
		if err := o.Risk.CreateAnalysis(ctx, scope, audit); err != nil {
			telemetry.Error("pipeline.audit_write_failed", map[string]any{
				"contract_id": contractID,
				"error":       err.Error(),
			})
		}
		return failedBranch(branchErr)
	}

	record := risk.AnalysisRecord{
		ID:               uuid.NewString(),
		ContractID:       contractID,
		RawResponse:      result.RawResponse,
		RiskLevel:        result.RiskLevel,
		Confidence:       result.Confidence,
		ModelUsed:        result.ModelUsed,
		ProcessingTimeMs: int64(result.ProcessingTime * 1000),
		CreatedAt:        now,
	}
	if err := o.Risk.CreateAnalysis(ctx, scope, record); err != nil {
		return failedBranch(err)
	}

	findings := make([]risk.Finding, 0, len(result.Factors))
	for _, factor := range result.Factors {
		findings = append(findings, risk.Finding{
			ID:          uuid.NewString(),
			ContractID:  contractID,
			Section:     factor.Type,
			Severity:    factor.Severity,
			Title:       factor.Type,
			Description: factor.Description,
			CreatedAt:   now,
		})
	}

	// The audit row is committed; findings and the contract's risk badge
	// are secondary writes, logged but never fatal.
	if err := o.Risk.CreateFindings(ctx, scope, findings); err != nil {
		telemetry.Error("pipeline.findings_write_failed", map[string]any{
			"contract_id": contractID,
			"error":       err.Error(),
		})
	}
	if err := o.Contracts.SetRisk(ctx, scope, contractID, contracts.RiskLevel(result.RiskLevel)); err != nil {
		telemetry.Error("pipeline.set_risk_failed", map[string]any{
			"contract_id": contractID,
			"error":       err.Error(),
		})
	}

	o.publish(live.Event{Table: live.TableAnalysis, ContractID: contractID, Op: live.OpInsert})
	o.publish(live.Event{Table: live.TableFindings, ContractID: contractID, Op: live.OpInsert})
	o.publish(live.Event{Table: live.TableContracts, ContractID: contractID, Op: live.OpUpdate})
	return BranchResult{OK: true}
}

func (o *Orchestrator) publish(ev live.Event) {
	if o.Bus != nil {
		o.Bus.Publish(ev)
	}
}

func failedBranch(err error) BranchResult {
	result := BranchResult{Error: err.Error()}
	var aerr *analysis.Error
	if errors.As(err, &aerr) {
		result.ErrorKind = string(aerr.Kind)
	}
	return result
}

func parsedDate(contractID, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, tag, err := locale.DetectDate(raw)
	if err != nil {
		telemetry.Error("pipeline.date_unparseable", map[string]any{
			"contract_id": contractID,
			"raw":         raw,
		})
		return nil
	}
	telemetry.Info("pipeline.date_parsed", map[string]any{
		"contract_id": contractID,
		"locale":      tag.String(),
	})
	return &t
}

// parseDurationMonths reads a leading integer out of strings like
// "12 bulan" or "24 months".
func parseDurationMonths(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	i := 0
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(raw[:i])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
