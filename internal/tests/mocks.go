package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"parkease/internal/domain"
	"parkease/internal/redis"
	"parkease/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount     int32
	UpdateRoleCallCount int32

	// Error injection
	CreateError     error
	UpdateRoleError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Phone == phone {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	atomic.AddInt32(&m.UpdateRoleCallCount, 1)
	if m.UpdateRoleError != nil {
		return m.UpdateRoleError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Role = role
	return nil
}

// GetUser returns the stored user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// ──────────────────────────────────────────────
// MOCK PAYOUT ACCOUNT REPOSITORY
// ──────────────────────────────────────────────

// MockPayoutAccountRepository is a mock implementation of PayoutAccountRepository.
type MockPayoutAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.PayoutAccount // keyed by user ID

	UpsertCallCount int32
	UpsertError     error
}

// NewMockPayoutAccountRepository creates a new mock payout account repository.
func NewMockPayoutAccountRepository() *MockPayoutAccountRepository {
	return &MockPayoutAccountRepository{accounts: make(map[string]*domain.PayoutAccount)}
}

// AddAccount adds an account to the mock repository.
func (m *MockPayoutAccountRepository) AddAccount(account *domain.PayoutAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.UserID] = account
}

func (m *MockPayoutAccountRepository) Upsert(ctx context.Context, account *domain.PayoutAccount) error {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.UserID] = account
	return nil
}

func (m *MockPayoutAccountRepository) GetByUserID(ctx context.Context, userID string) (*domain.PayoutAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *account
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK LOT / SPOT REPOSITORIES
// ──────────────────────────────────────────────

// MockLotRepository is a mock implementation of LotRepository.
type MockLotRepository struct {
	mu   sync.RWMutex
	lots map[string]*domain.Lot

	CreateCallCount int32
	CreateError     error
}

// NewMockLotRepository creates a new mock lot repository.
func NewMockLotRepository() *MockLotRepository {
	return &MockLotRepository{lots: make(map[string]*domain.Lot)}
}

// AddLot adds a lot to the mock repository.
func (m *MockLotRepository) AddLot(lot *domain.Lot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lots[lot.ID] = lot
}

func (m *MockLotRepository) Create(ctx context.Context, lot *domain.Lot) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lots[lot.ID] = lot
	return nil
}

func (m *MockLotRepository) GetByID(ctx context.Context, id string) (*domain.Lot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lot, ok := m.lots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *lot
	return &copy, nil
}

func (m *MockLotRepository) GetByOwner(ctx context.Context, ownerUserID string) ([]*domain.Lot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Lot
	for _, lot := range m.lots {
		if lot.OwnerUserID == ownerUserID {
			copy := *lot
			result = append(result, &copy)
		}
	}
	return result, nil
}

// MockSpotRepository is a mock implementation of SpotRepository.
type MockSpotRepository struct {
	mu    sync.RWMutex
	spots map[string]*domain.Spot

	CreateCallCount int32
	CreateError     error
}

// NewMockSpotRepository creates a new mock spot repository.
func NewMockSpotRepository() *MockSpotRepository {
	return &MockSpotRepository{spots: make(map[string]*domain.Spot)}
}

// AddSpot adds a spot to the mock repository.
func (m *MockSpotRepository) AddSpot(spot *domain.Spot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spots[spot.ID] = spot
}

func (m *MockSpotRepository) Create(ctx context.Context, spot *domain.Spot) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spots[spot.ID] = spot
	return nil
}

func (m *MockSpotRepository) GetByID(ctx context.Context, id string) (*domain.Spot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	spot, ok := m.spots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *spot
	return &copy, nil
}

func (m *MockSpotRepository) GetByLot(ctx context.Context, lotID string) ([]*domain.Spot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Spot
	for _, spot := range m.spots {
		if spot.LotID == lotID {
			copy := *spot
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK AVAILABILITY REPOSITORY
// ──────────────────────────────────────────────

// MockAvailabilityRepository is a mock implementation of AvailabilityRepository.
// FindOpenSpot consults the linked spot and booking mocks the way the SQL
// query joins their tables.
type MockAvailabilityRepository struct {
	mu      sync.RWMutex
	windows map[string]*domain.AvailabilityWindow

	// Linked mocks for FindOpenSpot.
	Spots    *MockSpotRepository
	Bookings *MockBookingRepository

	// FindOpenSpotHook, when set, runs at the start of every FindOpenSpot
	// call. Tests use it to interleave concurrent callers.
	FindOpenSpotHook func()

	CreateCallCount int32
	DeleteCallCount int32

	CreateError error
	DeleteError error
}

// NewMockAvailabilityRepository creates a new mock availability repository.
func NewMockAvailabilityRepository() *MockAvailabilityRepository {
	return &MockAvailabilityRepository{windows: make(map[string]*domain.AvailabilityWindow)}
}

// AddWindow adds a window to the mock repository.
func (m *MockAvailabilityRepository) AddWindow(window *domain.AvailabilityWindow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows[window.ID] = window
}

func (m *MockAvailabilityRepository) Create(ctx context.Context, window *domain.AvailabilityWindow) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows[window.ID] = window
	return nil
}

func (m *MockAvailabilityRepository) GetByID(ctx context.Context, id string) (*domain.AvailabilityWindow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	window, ok := m.windows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *window
	return &copy, nil
}

func (m *MockAvailabilityRepository) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.windows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.windows, id)
	return nil
}

func (m *MockAvailabilityRepository) ListBySpot(ctx context.Context, spotID string) ([]*domain.AvailabilityWindow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.AvailabilityWindow
	for _, w := range m.windows {
		if w.SpotID == spotID {
			copy := *w
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (m *MockAvailabilityRepository) FindContaining(ctx context.Context, spotID string, start, end time.Time) (*domain.AvailabilityWindow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.windows {
		if w.SpotID == spotID && w.Status == domain.WindowStatusAvailable && w.Contains(start, end) {
			copy := *w
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockAvailabilityRepository) FindBookedByBookingID(ctx context.Context, bookingID string) (*domain.AvailabilityWindow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.windows {
		if w.BookingID == bookingID && w.Status == domain.WindowStatusBooked {
			copy := *w
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockAvailabilityRepository) FindOpenSpot(ctx context.Context, lotID string, spotType domain.SpotType, start, end time.Time, holdCutoff time.Time) (*domain.Spot, error) {
	if m.FindOpenSpotHook != nil {
		m.FindOpenSpotHook()
	}
	spots, err := m.Spots.GetByLot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	for _, spot := range spots {
		if spot.SpotType != spotType {
			continue
		}

		covered := false
		m.mu.RLock()
		for _, w := range m.windows {
			if w.SpotID == spot.ID && w.Status == domain.WindowStatusAvailable && w.Contains(start, end) {
				covered = true
				break
			}
		}
		m.mu.RUnlock()
		if !covered {
			continue
		}

		if m.Bookings != nil && m.Bookings.hasLiveHold(spot.ID, start, end, holdCutoff) {
			continue
		}

		return spot, nil
	}

	return nil, repository.ErrNotFound
}

// Windows returns a snapshot of all stored windows for assertions.
func (m *MockAvailabilityRepository) Windows() []*domain.AvailabilityWindow {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.AvailabilityWindow, 0, len(m.windows))
	for _, w := range m.windows {
		copy := *w
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result
}

// ──────────────────────────────────────────────
// MOCK PRICING REPOSITORY
// ──────────────────────────────────────────────

// MockPricingRepository is a mock implementation of PricingRepository.
type MockPricingRepository struct {
	mu    sync.RWMutex
	rules map[string]*domain.PricingRule

	CreateCallCount int32
	CreateError     error
}

// NewMockPricingRepository creates a new mock pricing repository.
func NewMockPricingRepository() *MockPricingRepository {
	return &MockPricingRepository{rules: make(map[string]*domain.PricingRule)}
}

// AddRule adds a rule to the mock repository.
func (m *MockPricingRepository) AddRule(rule *domain.PricingRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
}

func (m *MockPricingRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules[rule.ID] = rule
	return nil
}

func (m *MockPricingRepository) GetByID(ctx context.Context, id string) (*domain.PricingRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rule, ok := m.rules[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *rule
	return &copy, nil
}

func (m *MockPricingRepository) GetActiveTopRule(ctx context.Context, lotID string) (*domain.PricingRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *domain.PricingRule
	for _, rule := range m.rules {
		if rule.LotID != lotID || !rule.IsActive {
			continue
		}
		if best == nil || ruleWins(rule, best) {
			best = rule
		}
	}

	if best == nil {
		return nil, repository.ErrNotFound
	}
	copy := *best
	return &copy, nil
}

// ruleWins mirrors the SQL ordering: priority DESC, created_at DESC, id DESC.
func ruleWins(a, b *domain.PricingRule) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (m *MockPricingRepository) ListByLot(ctx context.Context, lotID string) ([]*domain.PricingRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.PricingRule
	for _, rule := range m.rules {
		if rule.LotID == lotID {
			copy := *rule
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return ruleWins(result[i], result[j]) })
	return result, nil
}

func (m *MockPricingRepository) Deactivate(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rule, ok := m.rules[id]
	if !ok {
		return repository.ErrNotFound
	}
	rule.IsActive = false
	return nil
}

func (m *MockPricingRepository) DeactivateAllForLot(ctx context.Context, lotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rule := range m.rules {
		if rule.LotID == lotID {
			rule.IsActive = false
		}
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// LotDetails supplies lot name/address for ListByDriver rows.
	LotDetails map[string][2]string // lot ID -> {name, address}

	CreateCallCount int32
	UpdateCallCount int32

	CreateError error
	UpdateError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings:   make(map[string]*domain.Booking),
		LotDetails: make(map[string][2]string),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetByQRCode(ctx context.Context, qrCodeData string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.QRCodeData != "" && b.QRCodeData == qrCodeData {
			copy := *b
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *booking
	m.bookings[booking.ID] = &copy
	return nil
}

func (m *MockBookingRepository) ListByDriver(ctx context.Context, driverUserID string) ([]*repository.BookingListRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*repository.BookingListRow
	for _, b := range m.bookings {
		if b.DriverUserID != driverUserID {
			continue
		}
		copy := *b
		details := m.LotDetails[b.LotID]
		result = append(result, &repository.BookingListRow{
			Booking:    &copy,
			LotName:    details[0],
			LotAddress: details[1],
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Booking.CreatedAt.After(result[j].Booking.CreatedAt)
	})
	return result, nil
}

func (m *MockBookingRepository) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.Status == domain.BookingStatusPending && b.CreatedAt.Before(cutoff) {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

// GetBooking returns the stored booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// CountOnSpot returns the number of stored bookings on the spot with the
// given status.
func (m *MockBookingRepository) CountOnSpot(spotID string, status domain.BookingStatus) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, b := range m.bookings {
		if b.SpotID == spotID && b.Status == status {
			n++
		}
	}
	return n
}

// hasLiveHold reports whether a PENDING booking created after holdCutoff
// overlaps [start, end] on the spot. Mirrors the NOT EXISTS clause the SQL
// open-spot query uses.
func (m *MockBookingRepository) hasLiveHold(spotID string, start, end time.Time, holdCutoff time.Time) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.SpotID != spotID || b.Status != domain.BookingStatusPending {
			continue
		}
		if !b.CreatedAt.After(holdCutoff) {
			continue
		}
		if b.StartTime.Before(end) && b.EndTime.After(start) {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// sellers maps booking ID to the seller owed its payout, standing in
	// for the lots/users join the SQL implementation performs.
	sellers map[string][2]string // booking ID -> {seller user ID, phone}

	CreateCallCount      int32
	MarkPaidCallCount    int32
	MarkPaidOutCallCount int32

	CreateError      error
	MarkPaidError    error
	MarkPaidOutError error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
		sellers:  make(map[string][2]string),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
}

// SetSeller records which seller is owed a booking's payout.
func (m *MockPaymentRepository) SetSeller(bookingID, sellerUserID, phone string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sellers[bookingID] = [2]string{sellerUserID, phone}
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetByProviderOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.ProviderOrderID == orderID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentRepository) MarkPaid(ctx context.Context, id, providerPaymentID string) error {
	atomic.AddInt32(&m.MarkPaidCallCount, 1)
	if m.MarkPaidError != nil {
		return m.MarkPaidError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	if payment.Status != domain.PaymentStatusPending {
		return nil
	}
	payment.Status = domain.PaymentStatusPaidByDriver
	payment.ProviderPaymentID = providerPaymentID
	payment.UpdatedAt = time.Now()
	return nil
}

func (m *MockPaymentRepository) ListDueForPayout(ctx context.Context) ([]*repository.PayoutItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*repository.PayoutItem
	for _, p := range m.payments {
		if p.Status != domain.PaymentStatusPaidByDriver {
			continue
		}
		seller := m.sellers[p.BookingID]
		result = append(result, &repository.PayoutItem{
			PaymentID:    p.ID,
			BookingID:    p.BookingID,
			SellerUserID: seller[0],
			SellerPhone:  seller[1],
			Amount:       p.SellerPayoutAmount,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PaymentID < result[j].PaymentID })
	return result, nil
}

func (m *MockPaymentRepository) MarkPaidOut(ctx context.Context, paymentIDs []string) error {
	atomic.AddInt32(&m.MarkPaidOutCallCount, 1)
	if m.MarkPaidOutError != nil {
		return m.MarkPaidOutError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range paymentIDs {
		if payment, ok := m.payments[id]; ok && payment.Status == domain.PaymentStatusPaidByDriver {
			payment.Status = domain.PaymentStatusPayoutComplete
			payment.UpdatedAt = time.Now()
		}
	}
	return nil
}

// GetPayment returns the stored payment for test assertions.
func (m *MockPaymentRepository) GetPayment(id string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[id]
}

// ──────────────────────────────────────────────
// MOCK REVIEW REPOSITORY
// ──────────────────────────────────────────────

// MockReviewRepository is a mock implementation of ReviewRepository.
type MockReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]*domain.Review

	CreateCallCount int32
	CreateError     error
}

// NewMockReviewRepository creates a new mock review repository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{reviews: make(map[string]*domain.Review)}
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[review.ID] = review
	return nil
}

func (m *MockReviewRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reviews {
		if r.BookingID == bookingID {
			copy := *r
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockReviewRepository) ListByLot(ctx context.Context, lotID string) ([]*repository.ReviewListRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*repository.ReviewListRow
	for _, r := range m.reviews {
		if r.LotID == lotID {
			copy := *r
			result = append(result, &repository.ReviewListRow{Review: &copy})
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK SEARCH REPOSITORY
// ──────────────────────────────────────────────

// MockSearchRepository is a mock implementation of SearchRepository. Rows
// are returned as seeded; the service layer does the distance filtering.
type MockSearchRepository struct {
	mu   sync.RWMutex
	rows []*repository.SearchRow

	FindCallCount int32
	FindError     error
}

// NewMockSearchRepository creates a new mock search repository.
func NewMockSearchRepository() *MockSearchRepository {
	return &MockSearchRepository{}
}

// AddRow seeds a lot row the next search will return.
func (m *MockSearchRepository) AddRow(row *repository.SearchRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, row)
}

func (m *MockSearchRepository) FindAvailableLots(ctx context.Context, spotType domain.SpotType, start, end time.Time) ([]*repository.SearchRow, error) {
	atomic.AddInt32(&m.FindCallCount, 1)
	if m.FindError != nil {
		return nil, m.FindError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*repository.SearchRow, len(m.rows))
	copy(result, m.rows)
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK REDIS STORES
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu         sync.Mutex
	spotLocks  map[string]bool
	settleLock bool

	AcquireSpotCallCount   int32
	AcquireSettleCallCount int32

	// FailSpotAcquire makes every spot lock attempt report contention.
	FailSpotAcquire bool
	// FailSettleAcquire makes the settle lock report contention.
	FailSettleAcquire bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{spotLocks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireSpotLock(ctx context.Context, spotID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireSpotCallCount, 1)
	if m.FailSpotAcquire {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.spotLocks[spotID] {
		return false, nil
	}
	m.spotLocks[spotID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseSpotLock(ctx context.Context, spotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.spotLocks, spotID)
	return nil
}

func (m *MockLockStore) AcquireSettleLock(ctx context.Context, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireSettleCallCount, 1)
	if m.FailSettleAcquire {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settleLock {
		return false, nil
	}
	m.settleLock = true
	return true, nil
}

func (m *MockLockStore) ReleaseSettleLock(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settleLock = false
	return nil
}

// MockOTPStore is a mock implementation of OTPStoreInterface.
type MockOTPStore struct {
	mu    sync.Mutex
	codes map[string]string
}

// NewMockOTPStore creates a new mock OTP store.
func NewMockOTPStore() *MockOTPStore {
	return &MockOTPStore{codes: make(map[string]string)}
}

func (m *MockOTPStore) Set(ctx context.Context, phone, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[phone] = code
	return nil
}

func (m *MockOTPStore) Get(ctx context.Context, phone string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[phone], nil
}

func (m *MockOTPStore) Delete(ctx context.Context, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, phone)
	return nil
}

// GetCode returns the stored code for test assertions.
func (m *MockOTPStore) GetCode(phone string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[phone]
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION MANAGER
// ──────────────────────────────────────────────

// MockTxManager is a mock implementation of TxManager. It hands fn the same
// in-memory repositories the service already uses, so "transactions" are
// visible immediately and rollback is not simulated.
type MockTxManager struct {
	Repos repository.Tx

	WithinTxCallCount int32
	BeginError        error
}

// NewMockTxManager creates a transaction manager over the given repositories.
func NewMockTxManager(repos repository.Tx) *MockTxManager {
	return &MockTxManager{Repos: repos}
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(tx *repository.Tx) error) error {
	atomic.AddInt32(&m.WithinTxCallCount, 1)
	if m.BeginError != nil {
		return m.BeginError
	}
	return fn(&m.Repos)
}

// ──────────────────────────────────────────────
// MOCK SMS SENDER
// ──────────────────────────────────────────────

// MockSMSSender records sent messages.
type MockSMSSender struct {
	mu       sync.Mutex
	Messages []string
	Phones   []string
}

// NewMockSMSSender creates a new mock SMS sender.
func NewMockSMSSender() *MockSMSSender {
	return &MockSMSSender{}
}

func (m *MockSMSSender) Send(ctx context.Context, phone, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Phones = append(m.Phones, phone)
	m.Messages = append(m.Messages, message)
	return nil
}

// LastMessage returns the most recent message, or "".
func (m *MockSMSSender) LastMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Messages) == 0 {
		return ""
	}
	return m.Messages[len(m.Messages)-1]
}

// Ensure mocks satisfy the interfaces they stand in for.
var (
	_ repository.UserRepository          = (*MockUserRepository)(nil)
	_ repository.PayoutAccountRepository = (*MockPayoutAccountRepository)(nil)
	_ repository.LotRepository           = (*MockLotRepository)(nil)
	_ repository.SpotRepository          = (*MockSpotRepository)(nil)
	_ repository.AvailabilityRepository  = (*MockAvailabilityRepository)(nil)
	_ repository.PricingRepository       = (*MockPricingRepository)(nil)
	_ repository.BookingRepository       = (*MockBookingRepository)(nil)
	_ repository.PaymentRepository       = (*MockPaymentRepository)(nil)
	_ repository.ReviewRepository        = (*MockReviewRepository)(nil)
	_ repository.SearchRepository        = (*MockSearchRepository)(nil)
	_ repository.TxManager               = (*MockTxManager)(nil)
	_ redis.LockStoreInterface           = (*MockLockStore)(nil)
	_ redis.OTPStoreInterface            = (*MockOTPStore)(nil)
)
