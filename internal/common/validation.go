package common

import (
	"fmt"
	"regexp"
	"strings"

	"mf360/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateRequiredString validates required string fields.
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateEmail validates email address shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address: %q", email)
	}
	return nil
}

// ValidateKYCStatus accepts the registrar's Y/N flag only.
func ValidateKYCStatus(status string) error {
	if status != models.KYCComplete && status != models.KYCIncomplete {
		return fmt.Errorf("kyc_status must be %q or %q", models.KYCComplete, models.KYCIncomplete)
	}
	return nil
}

// ValidateRiskProfile validates the risk profile enum.
func ValidateRiskProfile(profile string) error {
	for _, p := range models.RiskProfiles {
		if profile == p {
			return nil
		}
	}
	return fmt.Errorf("risk_profile must be one of: %s", strings.Join(models.RiskProfiles, ", "))
}

// ValidatePreferredContact validates the contact channel enum.
func ValidatePreferredContact(channel string) error {
	for _, c := range models.ContactChannels {
		if channel == c {
			return nil
		}
	}
	return fmt.Errorf("preferred_contact must be one of: %s", strings.Join(models.ContactChannels, ", "))
}

// ValidateInvestor checks everything a new or imported investor record must
// satisfy before it is written.
func ValidateInvestor(inv *models.Investor) error {
	required := []struct{ value, name string }{
		{inv.ARN, "arn"},
		{inv.FirstName, "first_name"},
		{inv.LastName, "last_name"},
		{inv.Email, "email"},
		{inv.Phone, "phone"},
		{inv.DOB, "dob"},
		{inv.PAN, "pan"},
		{inv.Address, "address"},
		{inv.City, "city"},
		{inv.State, "state"},
		{inv.Pincode, "pincode"},
	}
	for _, f := range required {
		if err := ValidateRequiredString(f.value, f.name); err != nil {
			return err
		}
	}
	if err := ValidateEmail(inv.Email); err != nil {
		return err
	}
	if err := ValidateKYCStatus(inv.KYCStatus); err != nil {
		return err
	}
	if err := ValidateRiskProfile(inv.RiskProfile); err != nil {
		return err
	}
	if err := ValidatePreferredContact(inv.PreferredContact); err != nil {
		return err
	}
	if inv.AmtAUM < 0 {
		return fmt.Errorf("amt_aum cannot be negative")
	}
	return nil
}
