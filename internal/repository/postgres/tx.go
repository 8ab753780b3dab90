package postgres

import (
	"context"
	"database/sql"

	"parkease/internal/repository"
)

// TxManager is a PostgreSQL implementation of repository.TxManager.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a new transaction manager.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// Ensure TxManager implements repository.TxManager.
var _ repository.TxManager = (*TxManager)(nil)

// WithinTx runs fn with transaction-scoped repositories. The transaction
// commits if fn returns nil and rolls back otherwise.
func (m *TxManager) WithinTx(ctx context.Context, fn func(tx *repository.Tx) error) error {
	sqlTx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	tx := &repository.Tx{
		Users:    NewUserRepositoryWithTx(sqlTx),
		Lots:     NewLotRepositoryWithTx(sqlTx),
		Spots:    NewSpotRepositoryWithTx(sqlTx),
		Windows:  NewAvailabilityRepositoryWithTx(sqlTx),
		Pricing:  NewPricingRepositoryWithTx(sqlTx),
		Bookings: NewBookingRepositoryWithTx(sqlTx),
		Payments: NewPaymentRepositoryWithTx(sqlTx),
	}

	if err := fn(tx); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	return sqlTx.Commit()
}
