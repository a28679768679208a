package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"mf360/internal/models"
)

type AnalysisRepoTestSuite struct {
	suite.Suite
	mock       pgxmock.PgxPoolIface
	repo       AnalysisRepository
	analysisID uuid.UUID
	context    context.Context
}

func (suite *AnalysisRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewAnalysisRepository(mock)
	suite.analysisID = uuid.New()
	suite.context = context.Background()
}

func (suite *AnalysisRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestAnalysisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(AnalysisRepoTestSuite))
}

var analysisColumnNames = []string{
	"id", "investor_ids", "analysis_type", "executive_summary", "action_items",
	"risk_alerts", "details", "created_at",
}

func (suite *AnalysisRepoTestSuite) TestCreate_SerializesDetails() {
	result := &models.AnalysisResult{
		ID:               suite.analysisID,
		InvestorIDs:      []uuid.UUID{uuid.New()},
		AnalysisType:     models.AnalysisRiskSummary,
		ExecutiveSummary: "Analyzed 1 investor(s). 0 are high-risk profile. 0 have incomplete KYC.",
		ActionItems:      []string{"Complete KYC for all pending investors"},
		RiskAlerts:       []string{},
		Details:          map[string]interface{}{"total_investors": 1},
		CreatedAt:        time.Now().UTC(),
	}

	suite.mock.ExpectExec(`INSERT INTO analyses`).
		WithArgs(result.ID, result.InvestorIDs, result.AnalysisType, result.ExecutiveSummary,
			result.ActionItems, result.RiskAlerts, []byte(`{"total_investors":1}`), result.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, result)
	assert.NoError(suite.T(), err)
}

func (suite *AnalysisRepoTestSuite) TestGetByID_Success() {
	investorIDs := []uuid.UUID{uuid.New(), uuid.New()}
	createdAt := time.Now().UTC()
	rows := pgxmock.NewRows(analysisColumnNames).
		AddRow(suite.analysisID, investorIDs, models.AnalysisRiskSummary,
			"Analyzed 2 investor(s). 1 are high-risk profile. 0 have incomplete KYC.",
			[]string{"Review high-risk portfolios for rebalancing opportunities"},
			[]string{}, []byte(`{"total_investors":2,"high_risk_count":1}`), createdAt)

	suite.mock.ExpectQuery(`FROM analyses\s+WHERE id = \$1`).
		WithArgs(suite.analysisID).
		WillReturnRows(rows)

	result, err := suite.repo.GetByID(suite.context, suite.analysisID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.analysisID, result.ID)
	assert.Equal(suite.T(), investorIDs, result.InvestorIDs)
	assert.Equal(suite.T(), float64(2), result.Details["total_investors"])
}

func (suite *AnalysisRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`FROM analyses\s+WHERE id = \$1`).
		WithArgs(suite.analysisID).
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.repo.GetByID(suite.context, suite.analysisID)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), result)
}

func (suite *AnalysisRepoTestSuite) TestListRecent_AppliesCap() {
	rows := pgxmock.NewRows(analysisColumnNames).
		AddRow(uuid.New(), []uuid.UUID{uuid.New()}, models.AnalysisAllocationCheck,
			"Portfolio allocation analysis for 1 investor(s). Total AUM: ₹100,000.00. Average AUM: ₹100,000.00.",
			[]string{}, []string{}, []byte(`{}`), time.Now().UTC()).
		AddRow(uuid.New(), []uuid.UUID{uuid.New()}, models.AnalysisRiskSummary,
			"Analyzed 1 investor(s). 0 are high-risk profile. 0 have incomplete KYC.",
			[]string{}, []string{}, []byte(`{}`), time.Now().UTC())

	suite.mock.ExpectQuery(`ORDER BY created_at DESC\s+LIMIT \$1`).
		WithArgs(historyCap).
		WillReturnRows(rows)

	results, err := suite.repo.ListRecent(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), results, 2)
}

func (suite *AnalysisRepoTestSuite) TestListRecent_Empty() {
	suite.mock.ExpectQuery(`ORDER BY created_at DESC\s+LIMIT \$1`).
		WithArgs(historyCap).
		WillReturnRows(pgxmock.NewRows(analysisColumnNames))

	results, err := suite.repo.ListRecent(suite.context)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), results)
}

func (suite *AnalysisRepoTestSuite) TestCount_Success() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM analyses`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

	count, err := suite.repo.Count(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), count)
}
