package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"parkease/internal/domain"
	"parkease/internal/redis"
	"parkease/internal/repository"
)

// AccountService handles phone-based login and role management.
type AccountService struct {
	userRepo     repository.UserRepository
	otpStore     redis.OTPStoreInterface
	tokens       TokenIssuer
	notification *NotificationService
	events       *EventLogger
	tokenTTL     time.Duration
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	userRepo repository.UserRepository,
	otpStore redis.OTPStoreInterface,
	tokens TokenIssuer,
	notification *NotificationService,
	events *EventLogger,
	tokenTTL time.Duration,
) *AccountService {
	return &AccountService{
		userRepo:     userRepo,
		otpStore:     otpStore,
		tokens:       tokens,
		notification: notification,
		events:       events,
		tokenTTL:     tokenTTL,
	}
}

// RequestOTP generates a login code for the phone and sends it over SMS.
// Requesting again before the previous code expires replaces it.
func (s *AccountService) RequestOTP(ctx context.Context, phone string) error {
	if !isValidPhone(phone) {
		return ErrInvalidPhone
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}

	if err := s.otpStore.Set(ctx, phone, code); err != nil {
		return err
	}

	return s.notification.SendOTP(ctx, phone, code)
}

// VerifyOTPResponse contains the result of a successful login.
type VerifyOTPResponse struct {
	User      *domain.User
	Token     string
	IsNewUser bool
}

// VerifyOTP checks the code, consumes it, and logs the user in. Unknown
// phones get a fresh DRIVER account.
func (s *AccountService) VerifyOTP(ctx context.Context, phone, code, name string) (*VerifyOTPResponse, error) {
	if !isValidPhone(phone) {
		return nil, ErrInvalidPhone
	}

	stored, err := s.otpStore.Get(ctx, phone)
	if err != nil {
		return nil, err
	}

	if stored == "" || stored != code {
		return nil, ErrInvalidOTP
	}

	// Single use: consume the code before issuing anything.
	if err := s.otpStore.Delete(ctx, phone); err != nil {
		return nil, err
	}

	isNew := false
	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		if err != repository.ErrNotFound {
			return nil, err
		}

		user = &domain.User{
			ID:        uuid.New().String(),
			Phone:     phone,
			Name:      name,
			Role:      domain.RoleDriver,
			CreatedAt: time.Now(),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		isNew = true
	}

	token, err := s.tokens.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &VerifyOTPResponse{User: user, Token: token, IsNewUser: isNew}, nil
}

// GetUser retrieves a user profile.
func (s *AccountService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.userRepo.GetByID(ctx, userID)
}

// PromoteToSeller upgrades a DRIVER to SELLER_C2B. Idempotent: users who
// already sell keep their current role untouched.
func (s *AccountService) PromoteToSeller(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Role != domain.RoleDriver {
		return user, nil
	}

	if err := s.userRepo.UpdateRole(ctx, userID, domain.RoleSellerC2B); err != nil {
		return nil, err
	}
	user.Role = domain.RoleSellerC2B

	if s.events != nil {
		s.events.RoleUpgraded(userID, string(domain.RoleSellerC2B))
	}

	return user, nil
}

// isValidPhone accepts E.164-ish numbers: optional +, 10 to 15 digits.
func isValidPhone(phone string) bool {
	if phone == "" {
		return false
	}

	digits := phone
	if digits[0] == '+' {
		digits = digits[1:]
	}

	if len(digits) < 10 || len(digits) > 15 {
		return false
	}

	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// generateOTP returns a 6-digit numeric code from a CSPRNG.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
