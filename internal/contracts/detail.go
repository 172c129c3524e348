package contracts

import (
	"context"
	"errors"

	"github.com/gitaufar/technoday-sub001/internal/entities"
	"github.com/gitaufar/technoday-sub001/internal/lifecycle"
	"github.com/gitaufar/technoday-sub001/internal/notes"
	"github.com/gitaufar/technoday-sub001/internal/risk"
	"github.com/gitaufar/technoday-sub001/internal/shared/tenant"
)

// Detail is everything the contract detail page shows in one fetch.
// Contract carries the display fields already merged with the latest
// extraction pass.
type Detail struct {
	Contract   Contract              `json:"contract"`
	Extraction *entities.Extraction  `json:"extraction,omitempty"`
	Findings   []risk.Finding        `json:"findings"`
	Notes      []notes.LegalNote     `json:"notes"`
	Timeline   []lifecycle.Entry     `json:"timeline"`
	Analyses   []risk.AnalysisRecord `json:"analyses"`
}

// DetailService assembles the detail bundle from the per-table stores.
type DetailService struct {
	Contracts *Service
	Entities  entities.Repo
	Risk      risk.Repo
	Notes     notes.Repo
	Lifecycle lifecycle.Repo
}

// Get fetches the contract and all of its child rows. Extracted values
// take precedence over the caller-entered contract fields; the contract
// fields remain as the fallback when no extraction pass exists yet.
func (s *DetailService) Get(ctx context.Context, scope tenant.Scope, contractID string) (Detail, error) {
	contract, err := s.Contracts.Get(ctx, scope, contractID)
	if err != nil {
		return Detail{}, err
	}

	detail := Detail{Contract: contract}

	latest, err := s.Entities.LatestByContract(ctx, scope, contractID)
	switch {
	case err == nil:
		detail.Extraction = &latest
		detail.Contract = mergeExtraction(contract, latest)
	case errors.Is(err, entities.ErrNotFound):
	default:
		return Detail{}, err
	}

	if detail.Findings, err = s.Risk.ListFindings(ctx, scope, contractID); err != nil {
		return Detail{}, err
	}
	if detail.Notes, err = s.Notes.ListByContract(ctx, scope, contractID); err != nil {
		return Detail{}, err
	}
	if detail.Timeline, err = s.Lifecycle.ListByContract(ctx, scope, contractID); err != nil {
		return Detail{}, err
	}
	if detail.Analyses, err = s.Risk.ListAnalyses(ctx, scope, contractID); err != nil {
		return Detail{}, err
	}
	return detail, nil
}

func mergeExtraction(contract Contract, latest entities.Extraction) Contract {
	if latest.FirstParty != "" {
		contract.FirstParty = latest.FirstParty
	}
	if latest.SecondParty != "" {
		contract.SecondParty = latest.SecondParty
	}
	if latest.Value != nil {
		contract.Value = latest.Value
	}
	if latest.DurationMonths != nil {
		contract.DurationMonths = latest.DurationMonths
	}
	return contract
}
