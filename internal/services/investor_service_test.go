package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"mf360/internal/models"
)

type InvestorServiceTestSuite struct {
	suite.Suite
	mockInvestorRepo *MockInvestorRepository
	mockCache        *MockCacheService
	service          InvestorService
}

func (suite *InvestorServiceTestSuite) SetupTest() {
	suite.mockInvestorRepo = &MockInvestorRepository{}
	suite.mockCache = &MockCacheService{}
	suite.service = NewInvestorService(suite.mockInvestorRepo, suite.mockCache)
}

func (suite *InvestorServiceTestSuite) TearDownTest() {
	suite.mockInvestorRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func TestInvestorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvestorServiceTestSuite))
}

func validInvestor() *models.Investor {
	return &models.Investor{
		ARN:              "ARN-123456",
		FirstName:        "Amit",
		LastName:         "Sharma",
		Email:            "amit@example.com",
		Phone:            "+919876543210",
		DOB:              "1985-05-15",
		KYCStatus:        models.KYCComplete,
		PAN:              "ABCDE1234F",
		Address:          "123 MG Road",
		City:             "Mumbai",
		State:            "Maharashtra",
		Pincode:          "400001",
		FolioIDs:         []string{"FOL12345"},
		RiskProfile:      "Medium",
		AmtAUM:           500000,
		PreferredContact: "email",
		Notes:            "VIP Client",
	}
}

func (suite *InvestorServiceTestSuite) TestCreate_Success() {
	investor := validInvestor()

	suite.mockInvestorRepo.On("Create", mock.Anything, investor).Return(nil).Once()
	suite.mockCache.On("InvalidateDashboardStats", mock.Anything).Return(nil).Once()

	err := suite.service.Create(context.Background(), investor)

	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, investor.ID)
	assert.False(suite.T(), investor.CreatedAt.IsZero())
	assert.Equal(suite.T(), investor.CreatedAt, investor.UpdatedAt)
}

func (suite *InvestorServiceTestSuite) TestCreate_ValidationMissingARN() {
	investor := validInvestor()
	investor.ARN = ""

	err := suite.service.Create(context.Background(), investor)

	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), "arn is required", err.Error())
}

func (suite *InvestorServiceTestSuite) TestCreate_ValidationBadKYCStatus() {
	investor := validInvestor()
	investor.KYCStatus = "maybe"

	err := suite.service.Create(context.Background(), investor)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "kyc_status")
}

func (suite *InvestorServiceTestSuite) TestCreate_ValidationNegativeAUM() {
	investor := validInvestor()
	investor.AmtAUM = -1

	err := suite.service.Create(context.Background(), investor)

	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), "amt_aum cannot be negative", err.Error())
}

func (suite *InvestorServiceTestSuite) TestUpdate_PartialPreservesUntouchedFields() {
	id := uuid.New()
	stored := validInvestor()
	stored.ID = id

	city := "Pune"
	aum := 750000.0
	update := &models.InvestorUpdate{City: &city, AmtAUM: &aum}

	suite.mockInvestorRepo.On("GetByID", mock.Anything, id).Return(stored, nil).Once()
	suite.mockInvestorRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Investor")).Return(nil).Run(func(args mock.Arguments) {
		updated := args.Get(1).(*models.Investor)
		assert.Equal(suite.T(), "Pune", updated.City)
		assert.Equal(suite.T(), 750000.0, updated.AmtAUM)
		assert.Equal(suite.T(), "Amit", updated.FirstName)
		assert.Equal(suite.T(), "ARN-123456", updated.ARN)
	}).Once()
	suite.mockCache.On("InvalidateDashboardStats", mock.Anything).Return(nil).Once()

	investor, err := suite.service.Update(context.Background(), id, update)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Pune", investor.City)
	assert.False(suite.T(), investor.UpdatedAt.IsZero())
}

func (suite *InvestorServiceTestSuite) TestUpdate_InvalidFieldRejected() {
	id := uuid.New()
	stored := validInvestor()
	stored.ID = id

	badEmail := "not-an-email"
	update := &models.InvestorUpdate{Email: &badEmail}

	suite.mockInvestorRepo.On("GetByID", mock.Anything, id).Return(stored, nil).Once()

	_, err := suite.service.Update(context.Background(), id, update)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "invalid email")
}

func (suite *InvestorServiceTestSuite) TestDelete_Success() {
	id := uuid.New()

	suite.mockInvestorRepo.On("Delete", mock.Anything, id).Return(nil).Once()
	suite.mockCache.On("InvalidateDashboardStats", mock.Anything).Return(nil).Once()

	err := suite.service.Delete(context.Background(), id)

	assert.NoError(suite.T(), err)
}

func (suite *InvestorServiceTestSuite) TestDelete_RepoErrorSkipsInvalidation() {
	id := uuid.New()

	suite.mockInvestorRepo.On("Delete", mock.Anything, id).Return(errors.New("boom")).Once()

	err := suite.service.Delete(context.Background(), id)

	assert.Error(suite.T(), err)
}

func (suite *InvestorServiceTestSuite) TestImportCSV_MixedRows() {
	csvData := strings.Join([]string{
		strings.Join(csvColumns, ","),
		`ARN-111111,Priya,Patel,priya@example.com,+919800000001,1990-01-01,Y,FGHIJ5678K,45 Park St,Delhi,Delhi,110001,"FOL11111,FOL22222",Low,250000,phone,`,
		`ARN-222222,Rahul,Kumar,rahul@example.com,+919800000002,1988-03-12,N,KLMNO9012P,9 Lake Rd,Pune,Maharashtra,411001,FOL33333,High,not-a-number,email,`,
		`ARN-333333,Sneha,Singh,sneha@example.com,+919800000003,1992-07-20,Y,QRSTU3456V,71 Hill View,Jaipur,Rajasthan,302001,FOL44444,Medium,1200000,whatsapp,New client`,
	}, "\n")

	suite.mockInvestorRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Investor")).Return(nil).Twice()
	suite.mockCache.On("InvalidateDashboardStats", mock.Anything).Return(nil).Twice()

	result, err := suite.service.ImportCSV(context.Background(), strings.NewReader(csvData))

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, result.ImportedCount)
	assert.Len(suite.T(), result.Errors, 1)
	assert.Equal(suite.T(), 3, result.Errors[0].Row)
	assert.Contains(suite.T(), result.Errors[0].Error, "amt_aum")
}

func (suite *InvestorServiceTestSuite) TestImportCSV_MissingRequiredColumn() {
	csvData := "arn,first_name\nARN-111111,Priya\n"

	_, err := suite.service.ImportCSV(context.Background(), strings.NewReader(csvData))

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "missing required column")
}

func (suite *InvestorServiceTestSuite) TestImportCSV_ValidationErrorReportedPerRow() {
	csvData := strings.Join([]string{
		strings.Join(csvColumns, ","),
		`ARN-111111,Priya,Patel,priya@example.com,+919800000001,1990-01-01,X,FGHIJ5678K,45 Park St,Delhi,Delhi,110001,FOL11111,Low,250000,phone,`,
	}, "\n")

	result, err := suite.service.ImportCSV(context.Background(), strings.NewReader(csvData))

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, result.ImportedCount)
	assert.Len(suite.T(), result.Errors, 1)
	assert.Equal(suite.T(), 2, result.Errors[0].Row)
	assert.Contains(suite.T(), result.Errors[0].Error, "kyc_status")
}

func (suite *InvestorServiceTestSuite) TestReseed_WipesThenSeedsValidRecords() {
	suite.mockInvestorRepo.On("DeleteAll", mock.Anything).Return(nil).Once()

	var seeded []*models.Investor
	suite.mockInvestorRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Investor")).Return(nil).Times(seedRosterSize).Run(func(args mock.Arguments) {
		seeded = append(seeded, args.Get(1).(*models.Investor))
	})
	suite.mockCache.On("InvalidateDashboardStats", mock.Anything).Return(nil).Once()

	err := suite.service.Reseed(context.Background())

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), seeded, seedRosterSize)
	for _, inv := range seeded {
		assert.NotEqual(suite.T(), uuid.Nil, inv.ID)
		assert.Regexp(suite.T(), `^ARN-\d{6}$`, inv.ARN)
		assert.Regexp(suite.T(), `^[A-Z]{5}\d{4}[A-Z]$`, inv.PAN)
		assert.Contains(suite.T(), []string{models.KYCComplete, models.KYCIncomplete}, inv.KYCStatus)
		assert.GreaterOrEqual(suite.T(), inv.AmtAUM, 50000.0)
		assert.LessOrEqual(suite.T(), inv.AmtAUM, 5000000.0)
		assert.GreaterOrEqual(suite.T(), len(inv.FolioIDs), 1)
		assert.LessOrEqual(suite.T(), len(inv.FolioIDs), 4)
	}
}

func (suite *InvestorServiceTestSuite) TestEnsureSeeded_NoopWhenRosterPopulated() {
	suite.mockInvestorRepo.On("CountAll", mock.Anything).Return(int64(12), nil).Once()

	err := suite.service.EnsureSeeded(context.Background())

	assert.NoError(suite.T(), err)
}

func (suite *InvestorServiceTestSuite) TestEnsureSeeded_SeedsEmptyRoster() {
	suite.mockInvestorRepo.On("CountAll", mock.Anything).Return(int64(0), nil).Once()
	suite.mockInvestorRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Investor")).Return(nil).Times(seedRosterSize)
	suite.mockCache.On("InvalidateDashboardStats", mock.Anything).Return(nil).Once()

	err := suite.service.EnsureSeeded(context.Background())

	assert.NoError(suite.T(), err)
}

func (suite *InvestorServiceTestSuite) TestList_PassesFilterThrough() {
	filter := &models.InvestorFilter{Search: "sharma", KYCStatus: models.KYCComplete}
	expected := []*models.Investor{validInvestor()}

	suite.mockInvestorRepo.On("List", mock.Anything, filter).Return(expected, nil).Once()

	investors, err := suite.service.List(context.Background(), filter)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), expected, investors)
}
