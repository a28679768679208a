package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// KYC status values as reported by the registrar feed.
const (
	KYCComplete   = "Y"
	KYCIncomplete = "N"
)

// Risk profile values. "Unknown" is a real value in imported books, not a
// placeholder for missing data.
var RiskProfiles = []string{"Low", "Medium", "High", "Unknown"}

// Preferred contact channels.
var ContactChannels = []string{"email", "phone", "whatsapp"}

type Investor struct {
	ID               uuid.UUID `json:"investor_id" db:"id"`
	ARN              string    `json:"arn" db:"arn"`
	FirstName        string    `json:"first_name" db:"first_name"`
	LastName         string    `json:"last_name" db:"last_name"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	DOB              string    `json:"dob" db:"dob"`
	KYCStatus        string    `json:"kyc_status" db:"kyc_status"`
	PAN              string    `json:"pan" db:"pan"`
	Address          string    `json:"address" db:"address"`
	City             string    `json:"city" db:"city"`
	State            string    `json:"state" db:"state"`
	Pincode          string    `json:"pincode" db:"pincode"`
	FolioIDs         []string  `json:"folio_ids" db:"folio_ids"`
	RiskProfile      string    `json:"risk_profile" db:"risk_profile"`
	AmtAUM           float64   `json:"amt_aum" db:"amt_aum"`
	PreferredContact string    `json:"preferred_contact" db:"preferred_contact"`
	Notes            string    `json:"notes" db:"notes"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// InvestorUpdate carries a partial update; nil fields are left untouched.
type InvestorUpdate struct {
	ARN              *string   `json:"arn"`
	FirstName        *string   `json:"first_name"`
	LastName         *string   `json:"last_name"`
	Email            *string   `json:"email"`
	Phone            *string   `json:"phone"`
	DOB              *string   `json:"dob"`
	KYCStatus        *string   `json:"kyc_status"`
	PAN              *string   `json:"pan"`
	Address          *string   `json:"address"`
	City             *string   `json:"city"`
	State            *string   `json:"state"`
	Pincode          *string   `json:"pincode"`
	FolioIDs         *[]string `json:"folio_ids"`
	RiskProfile      *string   `json:"risk_profile"`
	AmtAUM           *float64  `json:"amt_aum"`
	PreferredContact *string   `json:"preferred_contact"`
	Notes            *string   `json:"notes"`
}

// InvestorFilter narrows a roster listing. Equality filters AND together;
// Search is an OR of case-insensitive substring matches over first name,
// last name, email, ARN and PAN.
type InvestorFilter struct {
	Search      string
	KYCStatus   string
	RiskProfile string
	City        string
}

// ImportError records one rejected CSV row. Row numbers count the header as
// row 1, so the first data row is 2.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

type ImportResult struct {
	ImportedCount int           `json:"imported_count"`
	Errors        []ImportError `json:"errors"`
}

// JoinFolioIDs renders folio ids the way the CSV template carries them.
func JoinFolioIDs(ids []string) string {
	return strings.Join(ids, ",")
}

// SplitFolioIDs is the inverse of JoinFolioIDs: trim each entry, drop empties.
func SplitFolioIDs(s string) []string {
	parts := strings.Split(s, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
