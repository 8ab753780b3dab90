package postgres

import (
	"context"
	"database/sql"
	"errors"

	"parkease/internal/domain"
	"parkease/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// NewUserRepositoryWithTx creates a user repository using a transaction.
func NewUserRepositoryWithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{q: tx}
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, phone, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Phone,
		user.Name,
		user.Role,
		user.CreatedAt,
	)

	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, phone, name, role, created_at
		FROM users WHERE id = $1
	`

	return r.scanUser(r.q.QueryRowContext(ctx, query, id))
}

// GetByPhone retrieves a user by phone number.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `
		SELECT id, phone, name, role, created_at
		FROM users WHERE phone = $1
	`

	return r.scanUser(r.q.QueryRowContext(ctx, query, phone))
}

// UpdateRole updates a user's role.
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	query := `UPDATE users SET role = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, role, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Phone,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

// PayoutAccountRepository is a PostgreSQL implementation of
// repository.PayoutAccountRepository.
type PayoutAccountRepository struct {
	q Querier
}

// NewPayoutAccountRepository creates a new PostgreSQL payout account repository.
func NewPayoutAccountRepository(db *sql.DB) *PayoutAccountRepository {
	return &PayoutAccountRepository{q: db}
}

// Upsert creates or replaces the payout account for account.UserID.
func (r *PayoutAccountRepository) Upsert(ctx context.Context, account *domain.PayoutAccount) error {
	query := `
		INSERT INTO payout_accounts (id, user_id, account_type, account_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET account_type = EXCLUDED.account_type,
		    account_ref = EXCLUDED.account_ref,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.q.ExecContext(ctx, query,
		account.ID,
		account.UserID,
		account.AccountType,
		account.AccountRef,
		account.CreatedAt,
		account.UpdatedAt,
	)

	return err
}

// GetByUserID retrieves the payout account linked to a user.
func (r *PayoutAccountRepository) GetByUserID(ctx context.Context, userID string) (*domain.PayoutAccount, error) {
	query := `
		SELECT id, user_id, account_type, account_ref, created_at, updated_at
		FROM payout_accounts WHERE user_id = $1
	`

	var account domain.PayoutAccount
	err := r.q.QueryRowContext(ctx, query, userID).Scan(
		&account.ID,
		&account.UserID,
		&account.AccountType,
		&account.AccountRef,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &account, nil
}
