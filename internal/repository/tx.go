package repository

import "context"

// Tx bundles transaction-scoped repositories. Every repository in the
// bundle shares one database transaction.
type Tx struct {
	Users    UserRepository
	Lots     LotRepository
	Spots    SpotRepository
	Windows  AvailabilityRepository
	Pricing  PricingRepository
	Bookings BookingRepository
	Payments PaymentRepository
}

// TxManager runs a function inside a database transaction. An error from
// fn rolls the transaction back; nil commits it.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx *Tx) error) error
}
