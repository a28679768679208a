package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"mf360/internal/caching"
	"mf360/internal/common"
	"mf360/internal/models"
	"mf360/internal/repositories"
)

// seedRosterSize is the size of the synthetic roster generated for a fresh book.
const seedRosterSize = 50

type InvestorService interface {
	List(ctx context.Context, filter *models.InvestorFilter) ([]*models.Investor, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Investor, error)
	Create(ctx context.Context, investor *models.Investor) error
	Update(ctx context.Context, id uuid.UUID, update *models.InvestorUpdate) (*models.Investor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ImportCSV(ctx context.Context, r io.Reader) (*models.ImportResult, error)
	// Reseed wipes the roster and regenerates it.
	Reseed(ctx context.Context) error
	// EnsureSeeded seeds only when the roster is empty. Gated on a count
	// against the store so it stays idempotent across restarts and instances.
	EnsureSeeded(ctx context.Context) error
}

type investorService struct {
	investorRepo repositories.InvestorRepository
	cacheSvc     caching.CacheService
}

func NewInvestorService(investorRepo repositories.InvestorRepository, cacheSvc caching.CacheService) InvestorService {
	return &investorService{
		investorRepo: investorRepo,
		cacheSvc:     cacheSvc,
	}
}

func (s *investorService) List(ctx context.Context, filter *models.InvestorFilter) ([]*models.Investor, error) {
	return s.investorRepo.List(ctx, filter)
}

func (s *investorService) Get(ctx context.Context, id uuid.UUID) (*models.Investor, error) {
	return s.investorRepo.GetByID(ctx, id)
}

func (s *investorService) Create(ctx context.Context, investor *models.Investor) error {
	if err := common.ValidateInvestor(investor); err != nil {
		return err
	}

	now := time.Now().UTC()
	investor.ID = uuid.New()
	investor.CreatedAt = now
	investor.UpdatedAt = now
	if investor.FolioIDs == nil {
		investor.FolioIDs = []string{}
	}

	if err := s.investorRepo.Create(ctx, investor); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *investorService) Update(ctx context.Context, id uuid.UUID, update *models.InvestorUpdate) (*models.Investor, error) {
	investor, err := s.investorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyInvestorUpdate(investor, update)

	if err := common.ValidateInvestor(investor); err != nil {
		return nil, err
	}

	investor.UpdatedAt = time.Now().UTC()
	if err := s.investorRepo.Update(ctx, investor); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	return investor, nil
}

func (s *investorService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.investorRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

// applyInvestorUpdate copies the non-nil fields over the stored record.
func applyInvestorUpdate(investor *models.Investor, update *models.InvestorUpdate) {
	if update.ARN != nil {
		investor.ARN = *update.ARN
	}
	if update.FirstName != nil {
		investor.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		investor.LastName = *update.LastName
	}
	if update.Email != nil {
		investor.Email = *update.Email
	}
	if update.Phone != nil {
		investor.Phone = *update.Phone
	}
	if update.DOB != nil {
		investor.DOB = *update.DOB
	}
	if update.KYCStatus != nil {
		investor.KYCStatus = *update.KYCStatus
	}
	if update.PAN != nil {
		investor.PAN = *update.PAN
	}
	if update.Address != nil {
		investor.Address = *update.Address
	}
	if update.City != nil {
		investor.City = *update.City
	}
	if update.State != nil {
		investor.State = *update.State
	}
	if update.Pincode != nil {
		investor.Pincode = *update.Pincode
	}
	if update.FolioIDs != nil {
		investor.FolioIDs = *update.FolioIDs
	}
	if update.RiskProfile != nil {
		investor.RiskProfile = *update.RiskProfile
	}
	if update.AmtAUM != nil {
		investor.AmtAUM = *update.AmtAUM
	}
	if update.PreferredContact != nil {
		investor.PreferredContact = *update.PreferredContact
	}
	if update.Notes != nil {
		investor.Notes = *update.Notes
	}
}

// csvColumns is the required header set for roster imports; it matches the
// downloadable template.
var csvColumns = []string{
	"arn", "first_name", "last_name", "email", "phone", "dob", "kyc_status",
	"pan", "address", "city", "state", "pincode", "folio_ids", "risk_profile",
	"amt_aum", "preferred_contact", "notes",
}

// ImportCSV inserts each valid row independently. A bad row is reported with
// its file position (header counts as row 1) and never aborts the rest.
func (s *investorService) ImportCSV(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[name] = i
	}
	for _, col := range csvColumns {
		if col == "notes" {
			continue // optional, defaults to empty
		}
		if _, ok := colIdx[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	result := &models.ImportResult{Errors: []models.ImportError{}}
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, models.ImportError{Row: rowNum, Error: err.Error()})
			continue
		}

		investor, err := investorFromRecord(record, colIdx)
		if err != nil {
			result.Errors = append(result.Errors, models.ImportError{Row: rowNum, Error: err.Error()})
			continue
		}
		if err := s.Create(ctx, investor); err != nil {
			result.Errors = append(result.Errors, models.ImportError{Row: rowNum, Error: err.Error()})
			continue
		}
		result.ImportedCount++
	}
	return result, nil
}

func investorFromRecord(record []string, colIdx map[string]int) (*models.Investor, error) {
	field := func(name string) string {
		idx, ok := colIdx[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	aum, err := strconv.ParseFloat(strings.TrimSpace(field("amt_aum")), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amt_aum %q", field("amt_aum"))
	}

	return &models.Investor{
		ARN:              field("arn"),
		FirstName:        field("first_name"),
		LastName:         field("last_name"),
		Email:            field("email"),
		Phone:            field("phone"),
		DOB:              field("dob"),
		KYCStatus:        field("kyc_status"),
		PAN:              field("pan"),
		Address:          field("address"),
		City:             field("city"),
		State:            field("state"),
		Pincode:          field("pincode"),
		FolioIDs:         models.SplitFolioIDs(field("folio_ids")),
		RiskProfile:      field("risk_profile"),
		AmtAUM:           aum,
		PreferredContact: field("preferred_contact"),
		Notes:            field("notes"),
	}, nil
}

func (s *investorService) Reseed(ctx context.Context) error {
	if err := s.investorRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear investors: %w", err)
	}
	if err := s.seed(ctx); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *investorService) EnsureSeeded(ctx context.Context) error {
	count, err := s.investorRepo.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to count investors: %w", err)
	}
	if count > 0 {
		return nil
	}
	if err := s.seed(ctx); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

var seedCities = []struct{ City, State string }{
	{"Mumbai", "Maharashtra"}, {"Delhi", "Delhi"}, {"Bangalore", "Karnataka"},
	{"Hyderabad", "Telangana"}, {"Chennai", "Tamil Nadu"}, {"Kolkata", "West Bengal"},
	{"Pune", "Maharashtra"}, {"Ahmedabad", "Gujarat"}, {"Jaipur", "Rajasthan"},
	{"Surat", "Gujarat"},
}

var seedFirstNames = []string{"Amit", "Priya", "Rahul", "Sneha", "Vijay", "Anjali", "Sanjay", "Pooja", "Rajesh", "Kavita"}

var seedLastNames = []string{"Sharma", "Patel", "Kumar", "Singh", "Reddy", "Gupta", "Joshi", "Mehta", "Nair", "Desai"}

func (s *investorService) seed(ctx context.Context) error {
	now := time.Now().UTC()
	for i := 0; i < seedRosterSize; i++ {
		loc := seedCities[rand.Intn(len(seedCities))]
		investor := &models.Investor{
			ID:        uuid.New(),
			ARN:       fmt.Sprintf("ARN-%06d", 100000+rand.Intn(900000)),
			FirstName: seedFirstNames[rand.Intn(len(seedFirstNames))],
			LastName:  seedLastNames[rand.Intn(len(seedLastNames))],
			Email:     fmt.Sprintf("investor%d@example.com", i+1),
			Phone:     fmt.Sprintf("+91%d", 7000000000+rand.Int63n(3000000000)),
			DOB: fmt.Sprintf("%d-%02d-%02d",
				1960+rand.Intn(41), 1+rand.Intn(12), 1+rand.Intn(28)),
			KYCStatus:        randomKYCStatus(),
			PAN:              randomPAN(),
			Address:          fmt.Sprintf("%d MG Road", 1+rand.Intn(999)),
			City:             loc.City,
			State:            loc.State,
			Pincode:          fmt.Sprintf("%06d", 100000+rand.Intn(900000)),
			FolioIDs:         randomFolios(),
			RiskProfile:      models.RiskProfiles[rand.Intn(len(models.RiskProfiles))],
			AmtAUM:           math.Round((50000+rand.Float64()*4950000)*100) / 100,
			PreferredContact: models.ContactChannels[rand.Intn(len(models.ContactChannels))],
			Notes:            fmt.Sprintf("Client since %d", 2015+rand.Intn(9)),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.investorRepo.Create(ctx, investor); err != nil {
			return fmt.Errorf("failed to seed investor %d: %w", i+1, err)
		}
	}
	log.Printf("Seeded %d synthetic investors", seedRosterSize)
	return nil
}

// randomKYCStatus returns Y three times out of four, matching real books
// where most folios are compliant.
func randomKYCStatus() string {
	if rand.Intn(4) == 0 {
		return models.KYCIncomplete
	}
	return models.KYCComplete
}

// randomPAN builds an AAAAA0000A-shaped synthetic PAN.
func randomPAN() string {
	letters := make([]byte, 6)
	for i := range letters {
		letters[i] = byte('A' + rand.Intn(26))
	}
	return fmt.Sprintf("%s%04d%c", letters[:5], 1000+rand.Intn(9000), letters[5])
}

func randomFolios() []string {
	n := 1 + rand.Intn(4)
	folios := make([]string, n)
	for i := range folios {
		folios[i] = fmt.Sprintf("FOL%05d", 10000+rand.Intn(90000))
	}
	return folios
}

// invalidateStats drops the cached dashboard snapshot after any roster write.
// Cache trouble is logged, never surfaced.
func (s *investorService) invalidateStats(ctx context.Context) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.InvalidateDashboardStats(ctx); err != nil {
		log.Printf("Failed to invalidate dashboard stats cache: %v", err)
	}
}
