package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mf360/internal/models"
)

// listCap bounds every roster listing; the API deliberately has no pagination.
const listCap = 1000

type InvestorRepository interface {
	List(ctx context.Context, filter *models.InvestorFilter) ([]*models.Investor, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Investor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Investor, error)
	Create(ctx context.Context, investor *models.Investor) error
	Update(ctx context.Context, investor *models.Investor) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
	CountAll(ctx context.Context) (int64, error)
	CountByKYCStatus(ctx context.Context, status string) (int64, error)
	TotalAUM(ctx context.Context) (float64, error)
}

type investorRepo struct {
	db Database
}

func NewInvestorRepository(db Database) InvestorRepository {
	return &investorRepo{db: db}
}

const investorColumns = `id, arn, first_name, last_name, email, phone, dob, kyc_status, pan, address, city, state, pincode, folio_ids, risk_profile, amt_aum, preferred_contact, notes, created_at, updated_at`

func scanInvestor(row pgx.Row) (*models.Investor, error) {
	inv := &models.Investor{}
	err := row.Scan(&inv.ID, &inv.ARN, &inv.FirstName, &inv.LastName, &inv.Email, &inv.Phone,
		&inv.DOB, &inv.KYCStatus, &inv.PAN, &inv.Address, &inv.City, &inv.State, &inv.Pincode,
		&inv.FolioIDs, &inv.RiskProfile, &inv.AmtAUM, &inv.PreferredContact, &inv.Notes,
		&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *investorRepo) List(ctx context.Context, filter *models.InvestorFilter) ([]*models.Investor, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if filter != nil {
		if filter.Search != "" {
			conditions = append(conditions, fmt.Sprintf(`(
				first_name ILIKE $%d OR
				last_name ILIKE $%d OR
				email ILIKE $%d OR
				arn ILIKE $%d OR
				pan ILIKE $%d
			)`, argIdx, argIdx, argIdx, argIdx, argIdx))
			args = append(args, "%"+filter.Search+"%")
			argIdx++
		}
		if filter.KYCStatus != "" {
			conditions = append(conditions, fmt.Sprintf("kyc_status = $%d", argIdx))
			args = append(args, filter.KYCStatus)
			argIdx++
		}
		if filter.RiskProfile != "" {
			conditions = append(conditions, fmt.Sprintf("risk_profile = $%d", argIdx))
			args = append(args, filter.RiskProfile)
			argIdx++
		}
		if filter.City != "" {
			conditions = append(conditions, fmt.Sprintf("city = $%d", argIdx))
			args = append(args, filter.City)
			argIdx++
		}
	}

	query := `SELECT ` + investorColumns + ` FROM investors`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, listCap)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var investors []*models.Investor
	for rows.Next() {
		inv, err := scanInvestor(rows)
		if err != nil {
			return nil, err
		}
		investors = append(investors, inv)
	}
	return investors, rows.Err()
}

func (r *investorRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Investor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + investorColumns + ` FROM investors WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var investors []*models.Investor
	for rows.Next() {
		inv, err := scanInvestor(rows)
		if err != nil {
			return nil, err
		}
		investors = append(investors, inv)
	}
	return investors, rows.Err()
}

func (r *investorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Investor, error) {
	query := `SELECT ` + investorColumns + ` FROM investors WHERE id = $1`
	return scanInvestor(r.db.QueryRow(ctx, query, id))
}

func (r *investorRepo) Create(ctx context.Context, investor *models.Investor) error {
	query := `
		INSERT INTO investors (id, arn, first_name, last_name, email, phone, dob, kyc_status, pan, address, city, state, pincode, folio_ids, risk_profile, amt_aum, preferred_contact, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err := r.db.Exec(ctx, query, investor.ID, investor.ARN, investor.FirstName, investor.LastName,
		investor.Email, investor.Phone, investor.DOB, investor.KYCStatus, investor.PAN,
		investor.Address, investor.City, investor.State, investor.Pincode, investor.FolioIDs,
		investor.RiskProfile, investor.AmtAUM, investor.PreferredContact, investor.Notes,
		investor.CreatedAt, investor.UpdatedAt)
	return err
}

func (r *investorRepo) Update(ctx context.Context, investor *models.Investor) error {
	query := `
		UPDATE investors
		SET arn = $1, first_name = $2, last_name = $3, email = $4, phone = $5, dob = $6,
		    kyc_status = $7, pan = $8, address = $9, city = $10, state = $11, pincode = $12,
		    folio_ids = $13, risk_profile = $14, amt_aum = $15, preferred_contact = $16,
		    notes = $17, updated_at = $18
		WHERE id = $19
	`
	tag, err := r.db.Exec(ctx, query, investor.ARN, investor.FirstName, investor.LastName,
		investor.Email, investor.Phone, investor.DOB, investor.KYCStatus, investor.PAN,
		investor.Address, investor.City, investor.State, investor.Pincode, investor.FolioIDs,
		investor.RiskProfile, investor.AmtAUM, investor.PreferredContact, investor.Notes,
		investor.UpdatedAt, investor.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *investorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM investors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *investorRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM investors`)
	return err
}

func (r *investorRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM investors`).Scan(&count)
	return count, err
}

func (r *investorRepo) CountByKYCStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM investors WHERE kyc_status = $1`, status).Scan(&count)
	return count, err
}

func (r *investorRepo) TotalAUM(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amt_aum), 0) FROM investors`).Scan(&total)
	return total, err
}
