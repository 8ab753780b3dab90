package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"parkease/internal/domain"
	"parkease/internal/provider"
	"parkease/internal/service"
)

type payoutEnv struct {
	payments *MockPaymentRepository
	accounts *MockPayoutAccountRepository
	users    *MockUserRepository
	locks    *MockLockStore
	gateway  *provider.MockPayoutProvider
	svc      *service.PayoutService
}

func newPayoutEnv() *payoutEnv {
	env := &payoutEnv{
		payments: NewMockPaymentRepository(),
		accounts: NewMockPayoutAccountRepository(),
		users:    NewMockUserRepository(),
		locks:    NewMockLockStore(),
		gateway:  provider.NewMockPayoutProvider(),
	}
	accountService := service.NewAccountService(env.users, NewMockOTPStore(), nil, nil, nil, time.Hour)
	env.svc = service.NewPayoutService(env.payments, env.accounts, accountService, env.gateway, env.locks, nil, nil)
	return env
}

// addDuePayment records a settled driver payment owed to the given seller.
func (env *payoutEnv) addDuePayment(id, bookingID, sellerUserID string, sellerShare float64) {
	env.payments.AddPayment(&domain.Payment{
		ID:                 id,
		BookingID:          bookingID,
		Status:             domain.PaymentStatusPaidByDriver,
		AmountCharged:      sellerShare * 1.25,
		CommissionFee:      sellerShare * 0.25,
		SellerPayoutAmount: sellerShare,
	})
	env.payments.SetSeller(bookingID, sellerUserID, "+919900000000")
}

func (env *payoutEnv) linkAccount(t *testing.T, userID string) {
	t.Helper()
	env.users.AddUser(&domain.User{ID: userID, Phone: "+919900000000", Role: domain.RoleSellerC2B})
	env.accounts.AddAccount(&domain.PayoutAccount{
		ID: "acct-" + userID, UserID: userID,
		AccountType: "upi", AccountRef: userID + "@upi",
	})
}

func TestBatchSettle_GroupsPaymentsPerSeller(t *testing.T) {
	t.Parallel()

	env := newPayoutEnv()
	env.linkAccount(t, "seller-1")
	env.linkAccount(t, "seller-2")
	env.addDuePayment("payment-1", "booking-1", "seller-1", 100)
	env.addDuePayment("payment-2", "booking-2", "seller-1", 60)
	env.addDuePayment("payment-3", "booking-3", "seller-2", 40)

	result, err := env.svc.BatchSettle(context.Background())
	if err != nil {
		t.Fatalf("settlement failed: %v", err)
	}

	if result.SellersSettled != 2 {
		t.Errorf("expected 2 sellers settled, got %d", result.SellersSettled)
	}
	if result.PaymentsMarked != 3 {
		t.Errorf("expected 3 payments marked, got %d", result.PaymentsMarked)
	}
	if result.TotalAmount != 200 {
		t.Errorf("expected total 200, got %.2f", result.TotalAmount)
	}
	// One transfer per seller, not per payment.
	if env.gateway.TransferCallCount != 2 {
		t.Errorf("expected 2 transfers, got %d", env.gateway.TransferCallCount)
	}
	for _, id := range []string{"payment-1", "payment-2", "payment-3"} {
		if got := env.payments.GetPayment(id).Status; got != domain.PaymentStatusPayoutComplete {
			t.Errorf("expected %s settled, got %s", id, got)
		}
	}
}

func TestBatchSettle_SecondRunSettlesNothing(t *testing.T) {
	t.Parallel()

	env := newPayoutEnv()
	env.linkAccount(t, "seller-1")
	env.addDuePayment("payment-1", "booking-1", "seller-1", 100)
	ctx := context.Background()

	if _, err := env.svc.BatchSettle(ctx); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	result, err := env.svc.BatchSettle(ctx)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if result.SellersSettled != 0 || result.PaymentsMarked != 0 {
		t.Errorf("expected empty second run, got %+v", result)
	}
	if env.gateway.TransferCallCount != 1 {
		t.Errorf("expected no new transfers, got %d", env.gateway.TransferCallCount)
	}
}

func TestBatchSettle_SkipsSellerWithoutAccount(t *testing.T) {
	t.Parallel()

	env := newPayoutEnv()
	env.linkAccount(t, "seller-1")
	env.users.AddUser(&domain.User{ID: "seller-2", Phone: "+919911111111", Role: domain.RoleSellerC2B})
	env.addDuePayment("payment-1", "booking-1", "seller-1", 100)
	env.addDuePayment("payment-2", "booking-2", "seller-2", 80)

	result, err := env.svc.BatchSettle(context.Background())
	if err != nil {
		t.Fatalf("settlement failed: %v", err)
	}

	if result.SellersSettled != 1 || result.SellersSkipped != 1 {
		t.Errorf("expected 1 settled / 1 skipped, got %+v", result)
	}
	// The skipped seller's payment stays due for a later run.
	if got := env.payments.GetPayment("payment-2").Status; got != domain.PaymentStatusPaidByDriver {
		t.Errorf("expected payment-2 to stay due, got %s", got)
	}
}

func TestBatchSettle_TransferFailureLeavesPaymentsDue(t *testing.T) {
	t.Parallel()

	env := newPayoutEnv()
	env.linkAccount(t, "seller-1")
	env.addDuePayment("payment-1", "booking-1", "seller-1", 100)
	env.gateway.TransferError = errors.New("gateway timeout")

	result, err := env.svc.BatchSettle(context.Background())
	if err != nil {
		t.Fatalf("settlement run failed: %v", err)
	}
	if result.SellersFailed != 1 || result.SellersSettled != 0 {
		t.Errorf("expected 1 failed seller, got %+v", result)
	}
	if got := env.payments.GetPayment("payment-1").Status; got != domain.PaymentStatusPaidByDriver {
		t.Errorf("expected payment to stay due after failure, got %s", got)
	}

	// The retry after the gateway recovers settles it.
	env.gateway.TransferError = nil
	result, err = env.svc.BatchSettle(context.Background())
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if result.SellersSettled != 1 {
		t.Errorf("expected retry to settle, got %+v", result)
	}
}

func TestBatchSettle_ConcurrentRunRejected(t *testing.T) {
	t.Parallel()

	env := newPayoutEnv()
	env.locks.FailSettleAcquire = true

	_, err := env.svc.BatchSettle(context.Background())
	if !errors.Is(err, service.ErrSettlementInProgress) {
		t.Errorf("expected ErrSettlementInProgress, got %v", err)
	}
}

func TestBatchSettle_IdempotencyKeyIsDeterministic(t *testing.T) {
	t.Parallel()

	env := newPayoutEnv()
	env.linkAccount(t, "seller-1")
	env.addDuePayment("payment-1", "booking-1", "seller-1", 100)
	env.addDuePayment("payment-2", "booking-2", "seller-1", 60)

	if _, err := env.svc.BatchSettle(context.Background()); err != nil {
		t.Fatalf("settlement failed: %v", err)
	}

	// Re-mark the same payments as due, simulating a crash after the
	// transfer but before the ledger update. The provider dedupes the
	// repeated key, so no second transfer happens.
	env.payments.GetPayment("payment-1").Status = domain.PaymentStatusPaidByDriver
	env.payments.GetPayment("payment-2").Status = domain.PaymentStatusPaidByDriver

	if _, err := env.svc.BatchSettle(context.Background()); err != nil {
		t.Fatalf("rerun failed: %v", err)
	}
	if env.gateway.TransferCallCount != 1 {
		t.Errorf("expected the repeated batch to dedupe, got %d transfers", env.gateway.TransferCallCount)
	}
}

func TestLinkPayoutAccount_PromotesDriverToSeller(t *testing.T) {
	t.Parallel()

	env := newPayoutEnv()
	env.users.AddUser(&domain.User{ID: "driver-1", Phone: "+919900112233", Role: domain.RoleDriver})

	account, err := env.svc.LinkPayoutAccount(context.Background(), service.LinkPayoutAccountRequest{
		UserID:      "driver-1",
		AccountType: "upi",
		AccountRef:  "driver@upi",
	})
	if err != nil {
		t.Fatalf("failed to link account: %v", err)
	}
	if account.AccountRef != "driver@upi" {
		t.Errorf("unexpected account ref %q", account.AccountRef)
	}
	if got := env.users.GetUser("driver-1").Role; got != domain.RoleSellerC2B {
		t.Errorf("expected SELLER_C2B after linking, got %s", got)
	}
}

func TestLinkPayoutAccount_RejectsUnknownAccountType(t *testing.T) {
	t.Parallel()

	env := newPayoutEnv()
	env.users.AddUser(&domain.User{ID: "driver-1", Phone: "+919900112233", Role: domain.RoleDriver})

	_, err := env.svc.LinkPayoutAccount(context.Background(), service.LinkPayoutAccountRequest{
		UserID:      "driver-1",
		AccountType: "paypal",
		AccountRef:  "driver@paypal",
	})
	if !errors.Is(err, service.ErrNoPayoutAccount) {
		t.Errorf("expected ErrNoPayoutAccount, got %v", err)
	}
}
