package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"mf360/internal/models"
)

// Narrative is what a model backend must return for an analysis request.
type Narrative struct {
	ExecutiveSummary string   `json:"executive_summary"`
	ActionItems      []string `json:"action_items"`
	RiskAlerts       []string `json:"risk_alerts"`
}

// LLMClient is the external-model capability. Implementations must return an
// error for every failure; the analysis engine owns the fallback.
type LLMClient interface {
	Analyze(ctx context.Context, analysisType string, investors []*models.Investor) (*Narrative, error)
}

type httpLLMClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPLLMClient returns nil when endpoint or key is missing, which the
// analysis engine treats as "no backend configured".
func NewHTTPLLMClient(endpoint, apiKey string) LLMClient {
	if endpoint == "" || apiKey == "" {
		return nil
	}
	return &httpLLMClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   http.DefaultClient,
	}
}

type llmRequest struct {
	System string `json:"system"`
	Prompt string `json:"prompt"`
}

func (c *httpLLMClient) Analyze(ctx context.Context, analysisType string, investors []*models.Investor) (*Narrative, error) {
	body, err := json.Marshal(llmRequest{
		System: "You are an expert financial analyst specializing in mutual fund portfolio analysis for Indian investors.",
		Prompt: buildPrompt(analysisType, investors),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model backend returned status %d", resp.StatusCode)
	}

	var narrative Narrative
	if err := json.NewDecoder(resp.Body).Decode(&narrative); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}
	if narrative.ExecutiveSummary == "" {
		return nil, fmt.Errorf("model response missing executive summary")
	}
	return &narrative, nil
}

func buildPrompt(analysisType string, investors []*models.Investor) string {
	var lines []string
	for i, inv := range investors {
		if i == 10 {
			break
		}
		lines = append(lines, fmt.Sprintf("- %s %s: Risk Profile: %s, AUM: ₹%s, KYC: %s, Folios: %d",
			inv.FirstName, inv.LastName, inv.RiskProfile, formatCurrency(inv.AmtAUM), inv.KYCStatus, len(inv.FolioIDs)))
	}
	roster := strings.Join(lines, "\n")

	switch analysisType {
	case models.AnalysisRiskSummary:
		return fmt.Sprintf(`Analyze the following investors and provide:
1. Executive Summary (2-3 sentences)
2. Top 3 Action Items
3. Risk Alerts (if any)

Investors:
%s

Provide the response in JSON format with keys: executive_summary, action_items (array), risk_alerts (array).`, roster)
	case models.AnalysisAllocationCheck:
		return fmt.Sprintf(`Analyze the portfolio allocation for the following investors and provide:
1. Executive Summary (2-3 sentences)
2. Top 3 Action Items for better allocation
3. Risk Alerts regarding concentration (if any)

Investors:
%s

Provide the response in JSON format with keys: executive_summary, action_items (array), risk_alerts (array).`, roster)
	}
	return fmt.Sprintf("Analyze these investors: %s", roster)
}
