package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"mf360/internal/models"
	"mf360/internal/repositories"
)

// ErrNoInvestors means none of the requested ids resolved to a record.
var ErrNoInvestors = errors.New("no investors found")

type AnalysisService interface {
	// Run computes an analysis over the resolved investor set and appends
	// the result to history. Live mode degrades to mock on any failure.
	Run(ctx context.Context, investorIDs []uuid.UUID, analysisType string, useLiveAI bool) (*models.AnalysisResult, error)
	History(ctx context.Context) ([]*models.AnalysisResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.AnalysisResult, error)
}

type analysisService struct {
	investorRepo repositories.InvestorRepository
	analysisRepo repositories.AnalysisRepository
	llmClient    LLMClient
}

// NewAnalysisService creates the analysis engine. llmClient may be nil when
// no model backend is configured; live requests then fall back to mock.
func NewAnalysisService(investorRepo repositories.InvestorRepository, analysisRepo repositories.AnalysisRepository, llmClient LLMClient) AnalysisService {
	return &analysisService{
		investorRepo: investorRepo,
		analysisRepo: analysisRepo,
		llmClient:    llmClient,
	}
}

func (s *analysisService) Run(ctx context.Context, investorIDs []uuid.UUID, analysisType string, useLiveAI bool) (*models.AnalysisResult, error) {
	investors, err := s.investorRepo.ListByIDs(ctx, investorIDs)
	if err != nil {
		return nil, err
	}
	if len(investors) == 0 {
		return nil, ErrNoInvestors
	}

	var result *models.AnalysisResult
	if useLiveAI {
		result = s.runLive(ctx, analysisType, investors)
	} else {
		result = runMockAnalysis(analysisType, investors)
	}

	if err := s.analysisRepo.Create(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *analysisService) History(ctx context.Context) ([]*models.AnalysisResult, error) {
	return s.analysisRepo.ListRecent(ctx)
}

func (s *analysisService) Get(ctx context.Context, id uuid.UUID) (*models.AnalysisResult, error) {
	return s.analysisRepo.GetByID(ctx, id)
}

// runLive attempts the external model call and silently degrades to the
// deterministic mock on any failure, including absent configuration.
func (s *analysisService) runLive(ctx context.Context, analysisType string, investors []*models.Investor) *models.AnalysisResult {
	if s.llmClient == nil {
		log.Printf("Live analysis requested but no model backend configured; using mock")
		return runMockAnalysis(analysisType, investors)
	}

	narrative, err := s.llmClient.Analyze(ctx, analysisType, investors)
	if err != nil {
		log.Printf("Live analysis failed, falling back to mock: %v", err)
		return runMockAnalysis(analysisType, investors)
	}

	return &models.AnalysisResult{
		ID:               uuid.New(),
		InvestorIDs:      investorIDsOf(investors),
		AnalysisType:     analysisType,
		ExecutiveSummary: narrative.ExecutiveSummary,
		ActionItems:      narrative.ActionItems,
		RiskAlerts:       narrative.RiskAlerts,
		Details: map[string]interface{}{
			"total_investors": len(investors),
			"ai_generated":    true,
		},
		CreatedAt: time.Now().UTC(),
	}
}

func runMockAnalysis(analysisType string, investors []*models.Investor) *models.AnalysisResult {
	switch analysisType {
	case models.AnalysisRiskSummary:
		return mockRiskSummary(investors)
	case models.AnalysisAllocationCheck:
		return mockAllocationCheck(investors)
	}

	return &models.AnalysisResult{
		ID:               uuid.New(),
		InvestorIDs:      investorIDsOf(investors),
		AnalysisType:     analysisType,
		ExecutiveSummary: "Analysis type not supported",
		ActionItems:      []string{},
		RiskAlerts:       []string{},
		Details:          map[string]interface{}{},
		CreatedAt:        time.Now().UTC(),
	}
}

func mockRiskSummary(investors []*models.Investor) *models.AnalysisResult {
	highRiskCount := 0
	noKYCCount := 0
	totalAUM := 0.0
	for _, inv := range investors {
		if inv.RiskProfile == "High" {
			highRiskCount++
		}
		if inv.KYCStatus == models.KYCIncomplete {
			noKYCCount++
		}
		totalAUM += inv.AmtAUM
	}

	summary := fmt.Sprintf("Analyzed %d investor(s). %d are high-risk profile. %d have incomplete KYC.",
		len(investors), highRiskCount, noKYCCount)

	actionItems := []string{
		"Complete KYC for all pending investors",
		"Review high-risk portfolios for rebalancing opportunities",
		"Schedule quarterly review meetings with high-AUM clients",
	}

	riskAlerts := []string{}
	if noKYCCount > 0 {
		riskAlerts = append(riskAlerts, fmt.Sprintf("%d investor(s) have incomplete KYC - regulatory compliance issue", noKYCCount))
	}
	if float64(highRiskCount) > float64(len(investors))*0.5 {
		riskAlerts = append(riskAlerts, "Over 50% of analyzed investors have high-risk profiles")
	}

	return &models.AnalysisResult{
		ID:               uuid.New(),
		InvestorIDs:      investorIDsOf(investors),
		AnalysisType:     models.AnalysisRiskSummary,
		ExecutiveSummary: summary,
		ActionItems:      actionItems,
		RiskAlerts:       riskAlerts,
		Details: map[string]interface{}{
			"total_investors": len(investors),
			"high_risk_count": highRiskCount,
			"no_kyc_count":    noKYCCount,
			"total_aum":       totalAUM,
		},
		CreatedAt: time.Now().UTC(),
	}
}

func mockAllocationCheck(investors []*models.Investor) *models.AnalysisResult {
	totalAUM := 0.0
	lowFolioCount := 0
	for _, inv := range investors {
		totalAUM += inv.AmtAUM
		if len(inv.FolioIDs) < 2 {
			lowFolioCount++
		}
	}
	avgAUM := totalAUM / float64(len(investors))

	summary := fmt.Sprintf("Portfolio allocation analysis for %d investor(s). Total AUM: ₹%s. Average AUM: ₹%s.",
		len(investors), formatCurrency(totalAUM), formatCurrency(avgAUM))

	actionItems := []string{
		"Diversify portfolios with less than 3 folios",
		"Review allocation for investors with AUM > ₹1 Cr",
		"Consider SIP recommendations for low-AUM clients",
	}

	riskAlerts := []string{}
	if lowFolioCount > 0 {
		riskAlerts = append(riskAlerts, fmt.Sprintf("%d investor(s) have limited diversification (< 2 folios)", lowFolioCount))
	}

	return &models.AnalysisResult{
		ID:               uuid.New(),
		InvestorIDs:      investorIDsOf(investors),
		AnalysisType:     models.AnalysisAllocationCheck,
		ExecutiveSummary: summary,
		ActionItems:      actionItems,
		RiskAlerts:       riskAlerts,
		Details: map[string]interface{}{
			"total_investors":           len(investors),
			"total_aum":                 totalAUM,
			"average_aum":               avgAUM,
			"low_diversification_count": lowFolioCount,
		},
		CreatedAt: time.Now().UTC(),
	}
}

func investorIDsOf(investors []*models.Investor) []uuid.UUID {
	ids := make([]uuid.UUID, len(investors))
	for i, inv := range investors {
		ids[i] = inv.ID
	}
	return ids
}

// formatCurrency renders an amount with comma grouping and exactly two
// decimals, e.g. 1234567.5 -> "1,234,567.50".
func formatCurrency(amount float64) string {
	return humanize.FormatFloat("#,###.##", math.Round(amount*100)/100)
}
