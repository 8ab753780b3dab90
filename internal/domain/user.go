package domain

import "time"

// Role represents a user's role in the marketplace.
type Role string

const (
	RoleDriver      Role = "DRIVER"
	RoleSellerC2B   Role = "SELLER_C2B"
	RoleOperatorB2B Role = "OPERATOR_B2B"
)

// User represents a driver or seller in the system.
type User struct {
	ID        string
	Phone     string
	Name      string
	Role      Role
	CreatedAt time.Time
}

// PayoutAccount holds a seller's linked payout destination.
type PayoutAccount struct {
	ID          string
	UserID      string
	AccountType string // "upi" or "bank_account"
	AccountRef  string // opaque reference passed to the payout provider
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
