package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"mf360/internal/models"
)

// historyCap bounds history retrieval regardless of how many analyses exist.
const historyCap = 50

type AnalysisRepository interface {
	Create(ctx context.Context, result *models.AnalysisResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisResult, error)
	ListRecent(ctx context.Context) ([]*models.AnalysisResult, error)
	Count(ctx context.Context) (int64, error)
}

type analysisRepo struct {
	db Database
}

func NewAnalysisRepository(db Database) AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Create(ctx context.Context, result *models.AnalysisResult) error {
	details, err := json.Marshal(result.Details)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO analyses (id, investor_ids, analysis_type, executive_summary, action_items, risk_alerts, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.Exec(ctx, query, result.ID, result.InvestorIDs, result.AnalysisType,
		result.ExecutiveSummary, result.ActionItems, result.RiskAlerts, details, result.CreatedAt)
	return err
}

func (r *analysisRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AnalysisResult, error) {
	result := &models.AnalysisResult{}
	var details []byte
	query := `
		SELECT id, investor_ids, analysis_type, executive_summary, action_items, risk_alerts, details, created_at
		FROM analyses
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&result.ID, &result.InvestorIDs, &result.AnalysisType,
		&result.ExecutiveSummary, &result.ActionItems, &result.RiskAlerts, &details, &result.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(details, &result.Details); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *analysisRepo) ListRecent(ctx context.Context) ([]*models.AnalysisResult, error) {
	query := `
		SELECT id, investor_ids, analysis_type, executive_summary, action_items, risk_alerts, details, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, historyCap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.AnalysisResult
	for rows.Next() {
		result := &models.AnalysisResult{}
		var details []byte
		if err := rows.Scan(&result.ID, &result.InvestorIDs, &result.AnalysisType,
			&result.ExecutiveSummary, &result.ActionItems, &result.RiskAlerts, &details, &result.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(details, &result.Details); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (r *analysisRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&count)
	return count, err
}
