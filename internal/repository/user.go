package repository

import (
	"context"

	"parkease/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByPhone retrieves a user by phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)

	// UpdateRole updates a user's role.
	UpdateRole(ctx context.Context, id string, role domain.Role) error
}

// PayoutAccountRepository defines the persistence operations for payout accounts.
type PayoutAccountRepository interface {
	// Upsert creates or replaces the payout account for account.UserID.
	Upsert(ctx context.Context, account *domain.PayoutAccount) error

	// GetByUserID retrieves the payout account linked to a user.
	GetByUserID(ctx context.Context, userID string) (*domain.PayoutAccount, error)
}
