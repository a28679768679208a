package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleMFD is the only role issued at signup; the platform is single-tenant
// and every account belongs to a mutual-fund distributor.
const RoleMFD = "MFD"

type User struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Email              string    `json:"email" db:"email"`
	FullName           string    `json:"full_name" db:"full_name"`
	HashedPassword     string    `json:"-" db:"hashed_password"`
	Role               string    `json:"role" db:"role"`
	SubscriptionActive bool      `json:"subscription_active" db:"subscription_active"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}
