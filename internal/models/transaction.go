package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is part of the persisted schema but no endpoint writes or reads
// it yet; the CAMS/KFin feed importer that will populate it is a later phase.
type Transaction struct {
	ID         uuid.UUID `json:"transaction_id" db:"id"`
	InvestorID uuid.UUID `json:"investor_id" db:"investor_id"`
	Date       string    `json:"date" db:"date"`
	FolioID    string    `json:"folio_id" db:"folio_id"`
	Scheme     string    `json:"scheme" db:"scheme"`
	Type       string    `json:"type" db:"type"`
	Amount     float64   `json:"amount" db:"amount"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
