package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"

	"github.com/google/uuid"

	"parkease/internal/domain"
	"parkease/internal/metrics"
	"parkease/internal/provider"
	"parkease/internal/redis"
	"parkease/internal/repository"
)

const settleLockTTL = 5 * time.Minute

// PayoutService handles payout account linking and batch settlement of
// seller earnings.
type PayoutService struct {
	paymentRepo    repository.PaymentRepository
	accountRepo    repository.PayoutAccountRepository
	accounts       *AccountService
	payoutProvider provider.PayoutProvider
	lockStore      redis.LockStoreInterface
	notification   *NotificationService
	events         *EventLogger
}

// NewPayoutService creates a new PayoutService.
func NewPayoutService(
	paymentRepo repository.PaymentRepository,
	accountRepo repository.PayoutAccountRepository,
	accounts *AccountService,
	payoutProvider provider.PayoutProvider,
	lockStore redis.LockStoreInterface,
	notification *NotificationService,
	events *EventLogger,
) *PayoutService {
	return &PayoutService{
		paymentRepo:    paymentRepo,
		accountRepo:    accountRepo,
		accounts:       accounts,
		payoutProvider: payoutProvider,
		lockStore:      lockStore,
		notification:   notification,
		events:         events,
	}
}

// LinkPayoutAccountRequest contains the parameters for linking a payout
// destination.
type LinkPayoutAccountRequest struct {
	UserID      string
	AccountType string // "upi" or "bank_account"
	AccountRef  string
}

// LinkPayoutAccount stores where a seller's earnings go. Linking an account
// also upgrades a plain driver to a seller, since it signals intent to list.
func (s *PayoutService) LinkPayoutAccount(ctx context.Context, req LinkPayoutAccountRequest) (*domain.PayoutAccount, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if req.AccountType != "upi" && req.AccountType != "bank_account" {
		return nil, ErrNoPayoutAccount
	}
	if req.AccountRef == "" {
		return nil, ErrNoPayoutAccount
	}

	now := time.Now()
	account := &domain.PayoutAccount{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		AccountType: req.AccountType,
		AccountRef:  req.AccountRef,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.accountRepo.Upsert(ctx, account); err != nil {
		return nil, err
	}

	if _, err := s.accounts.PromoteToSeller(ctx, req.UserID); err != nil {
		return nil, err
	}

	return account, nil
}

// GetPayoutAccount retrieves the caller's linked payout account.
func (s *PayoutService) GetPayoutAccount(ctx context.Context, userID string) (*domain.PayoutAccount, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.accountRepo.GetByUserID(ctx, userID)
}

// BatchSettleResult summarises one settlement run.
type BatchSettleResult struct {
	SellersSettled int
	SellersSkipped int
	SellersFailed  int
	PaymentsMarked int
	TotalAmount    float64
}

// sellerBatch accumulates one seller's due payments.
type sellerBatch struct {
	userID     string
	phone      string
	paymentIDs []string
	amount     float64
}

// BatchSettle transfers every PAID_BY_DRIVER payment's seller share to the
// owed seller and marks the payments settled. Runs are single-flight: a
// Redis lock rejects overlapping invocations. Each seller's transfer
// carries a deterministic idempotency key derived from the payment IDs in
// the batch, so a crash between transfer and ledger update cannot pay a
// seller twice on the retry.
func (s *PayoutService) BatchSettle(ctx context.Context) (*BatchSettleResult, error) {
	locked, err := s.lockStore.AcquireSettleLock(ctx, settleLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrSettlementInProgress
	}
	defer func() { _ = s.lockStore.ReleaseSettleLock(ctx) }()

	items, err := s.paymentRepo.ListDueForPayout(ctx)
	if err != nil {
		return nil, err
	}

	// Group due payments per seller, keeping a stable order for logging.
	batches := make(map[string]*sellerBatch)
	var order []string
	for _, item := range items {
		batch, ok := batches[item.SellerUserID]
		if !ok {
			batch = &sellerBatch{userID: item.SellerUserID, phone: item.SellerPhone}
			batches[item.SellerUserID] = batch
			order = append(order, item.SellerUserID)
		}
		batch.paymentIDs = append(batch.paymentIDs, item.PaymentID)
		batch.amount += item.Amount
	}

	result := &BatchSettleResult{}
	var allPaymentIDs []string

	for _, sellerID := range order {
		batch := batches[sellerID]

		account, err := s.accountRepo.GetByUserID(ctx, sellerID)
		if err != nil {
			if err == repository.ErrNotFound {
				// No destination yet; the payments stay due until the
				// seller links an account.
				result.SellersSkipped++
				metrics.IncPayout("skipped")
				continue
			}
			return result, err
		}

		key := settlementKey(batch.paymentIDs)

		if _, err := s.payoutProvider.Transfer(ctx, account.AccountRef, batch.amount, key); err != nil {
			result.SellersFailed++
			metrics.IncPayout("failed")
			if s.events != nil {
				s.events.PayoutFailed(sellerID, batch.amount, err)
			}
			continue
		}

		if err := s.paymentRepo.MarkPaidOut(ctx, batch.paymentIDs); err != nil {
			return result, err
		}

		result.SellersSettled++
		result.PaymentsMarked += len(batch.paymentIDs)
		result.TotalAmount += batch.amount
		allPaymentIDs = append(allPaymentIDs, batch.paymentIDs...)
		metrics.IncPayout("settled")

		if s.notification != nil {
			_ = s.notification.NotifyPayoutSent(ctx, batch.phone, batch.amount)
		}
	}

	if s.events != nil {
		s.events.PayoutBatch(settlementKey(allPaymentIDs), result.SellersSettled, result.SellersSkipped, result.TotalAmount)
	}

	return result, nil
}

// settlementKey derives a deterministic idempotency key from a set of
// payment IDs. Order of discovery does not matter; the same due set always
// produces the same key.
func settlementKey(paymentIDs []string) string {
	sorted := make([]string, len(paymentIDs))
	copy(sorted, paymentIDs)
	sort.Strings(sorted)

	h := sha256.New()
	for _, id := range sorted {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
