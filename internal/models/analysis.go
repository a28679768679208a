package models

import (
	"time"

	"github.com/google/uuid"
)

// Recognized analysis types. Anything else produces a well-formed placeholder
// result rather than an error.
const (
	AnalysisRiskSummary     = "risk_summary"
	AnalysisAllocationCheck = "allocation_check"
)

// AnalysisResult is an immutable record of one analysis run. Results are only
// ever appended and read back, never updated.
type AnalysisResult struct {
	ID               uuid.UUID              `json:"analysis_id" db:"id"`
	InvestorIDs      []uuid.UUID            `json:"investor_ids" db:"investor_ids"`
	AnalysisType     string                 `json:"analysis_type" db:"analysis_type"`
	ExecutiveSummary string                 `json:"executive_summary" db:"executive_summary"`
	ActionItems      []string               `json:"action_items" db:"action_items"`
	RiskAlerts       []string               `json:"risk_alerts" db:"risk_alerts"`
	Details          map[string]interface{} `json:"details" db:"details"`
	CreatedAt        time.Time              `json:"created_at" db:"created_at"`
}
