package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"parkease/internal/domain"
	"parkease/internal/service"
)

type accountEnv struct {
	users *MockUserRepository
	otps  *MockOTPStore
	sms   *MockSMSSender
	svc   *service.AccountService
}

func newAccountEnv() *accountEnv {
	env := &accountEnv{
		users: NewMockUserRepository(),
		otps:  NewMockOTPStore(),
		sms:   NewMockSMSSender(),
	}
	env.svc = service.NewAccountService(
		env.users, env.otps,
		service.NewJWTManager("test-secret"),
		service.NewNotificationService(env.sms),
		nil, time.Hour,
	)
	return env
}

func TestRequestOTP_SendsSixDigitCode(t *testing.T) {
	t.Parallel()

	env := newAccountEnv()

	if err := env.svc.RequestOTP(context.Background(), "+919900112233"); err != nil {
		t.Fatalf("failed to request OTP: %v", err)
	}

	code := env.otps.GetCode("+919900112233")
	if len(code) != 6 {
		t.Errorf("expected a 6-digit code, got %q", code)
	}
	if !strings.Contains(env.sms.LastMessage(), code) {
		t.Errorf("SMS %q does not carry the code %q", env.sms.LastMessage(), code)
	}
}

func TestRequestOTP_RejectsBadPhone(t *testing.T) {
	t.Parallel()

	env := newAccountEnv()

	for _, phone := range []string{"", "abc", "12345", "+91 99001"} {
		if err := env.svc.RequestOTP(context.Background(), phone); !errors.Is(err, service.ErrInvalidPhone) {
			t.Errorf("phone %q: expected ErrInvalidPhone, got %v", phone, err)
		}
	}
}

func TestVerifyOTP_CreatesDriverOnFirstLogin(t *testing.T) {
	t.Parallel()

	env := newAccountEnv()
	ctx := context.Background()

	if err := env.svc.RequestOTP(ctx, "+919900112233"); err != nil {
		t.Fatalf("failed to request OTP: %v", err)
	}
	code := env.otps.GetCode("+919900112233")

	result, err := env.svc.VerifyOTP(ctx, "+919900112233", code, "Asha")
	if err != nil {
		t.Fatalf("failed to verify OTP: %v", err)
	}
	if !result.IsNewUser {
		t.Error("expected a new user on first login")
	}
	if result.User.Role != domain.RoleDriver {
		t.Errorf("expected DRIVER role, got %s", result.User.Role)
	}
	if result.User.Name != "Asha" {
		t.Errorf("expected name recorded, got %q", result.User.Name)
	}
	if result.Token == "" {
		t.Error("expected a session token")
	}

	// Second login with the same phone reuses the account.
	if err := env.svc.RequestOTP(ctx, "+919900112233"); err != nil {
		t.Fatalf("failed to request second OTP: %v", err)
	}
	again, err := env.svc.VerifyOTP(ctx, "+919900112233", env.otps.GetCode("+919900112233"), "")
	if err != nil {
		t.Fatalf("failed second login: %v", err)
	}
	if again.IsNewUser {
		t.Error("expected existing user on second login")
	}
	if again.User.ID != result.User.ID {
		t.Errorf("expected same user, got %s and %s", result.User.ID, again.User.ID)
	}
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	t.Parallel()

	env := newAccountEnv()
	ctx := context.Background()

	if err := env.svc.RequestOTP(ctx, "+919900112233"); err != nil {
		t.Fatalf("failed to request OTP: %v", err)
	}

	if _, err := env.svc.VerifyOTP(ctx, "+919900112233", "000000", ""); !errors.Is(err, service.ErrInvalidOTP) {
		t.Errorf("expected ErrInvalidOTP, got %v", err)
	}
	// A wrong attempt does not burn the real code.
	if _, err := env.svc.VerifyOTP(ctx, "+919900112233", env.otps.GetCode("+919900112233"), ""); err != nil {
		t.Errorf("correct code should still work, got %v", err)
	}
}

func TestVerifyOTP_CodeIsSingleUse(t *testing.T) {
	t.Parallel()

	env := newAccountEnv()
	ctx := context.Background()

	if err := env.svc.RequestOTP(ctx, "+919900112233"); err != nil {
		t.Fatalf("failed to request OTP: %v", err)
	}
	code := env.otps.GetCode("+919900112233")

	if _, err := env.svc.VerifyOTP(ctx, "+919900112233", code, ""); err != nil {
		t.Fatalf("first verify failed: %v", err)
	}
	if _, err := env.svc.VerifyOTP(ctx, "+919900112233", code, ""); !errors.Is(err, service.ErrInvalidOTP) {
		t.Errorf("expected consumed code to be rejected, got %v", err)
	}
}

func TestVerifyOTP_NoCodeRequested(t *testing.T) {
	t.Parallel()

	env := newAccountEnv()

	_, err := env.svc.VerifyOTP(context.Background(), "+919900112233", "123456", "")
	if !errors.Is(err, service.ErrInvalidOTP) {
		t.Errorf("expected ErrInvalidOTP, got %v", err)
	}
}

func TestPromoteToSeller_IsIdempotent(t *testing.T) {
	t.Parallel()

	env := newAccountEnv()
	ctx := context.Background()
	env.users.AddUser(&domain.User{ID: "user-1", Phone: "+919900112233", Role: domain.RoleDriver})

	user, err := env.svc.PromoteToSeller(ctx, "user-1")
	if err != nil {
		t.Fatalf("failed to promote: %v", err)
	}
	if user.Role != domain.RoleSellerC2B {
		t.Errorf("expected SELLER_C2B, got %s", user.Role)
	}

	again, err := env.svc.PromoteToSeller(ctx, "user-1")
	if err != nil {
		t.Fatalf("repeat promotion failed: %v", err)
	}
	if again.Role != domain.RoleSellerC2B {
		t.Errorf("expected role unchanged, got %s", again.Role)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	issuer := service.NewJWTManager("test-secret")

	token, err := issuer.Issue("user-1", time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("failed to verify token: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("expected user-1, got %q", userID)
	}
}

func TestTokenVerify_RejectsTamperAndExpiry(t *testing.T) {
	t.Parallel()

	issuer := service.NewJWTManager("test-secret")

	expired, err := issuer.Issue("user-1", -time.Minute)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if _, err := issuer.Verify(expired); !errors.Is(err, service.ErrInvalidToken) {
		t.Errorf("expected expired token rejected, got %v", err)
	}

	other := service.NewJWTManager("another-secret")
	foreign, err := other.Issue("user-1", time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if _, err := issuer.Verify(foreign); !errors.Is(err, service.ErrInvalidToken) {
		t.Errorf("expected foreign-signed token rejected, got %v", err)
	}
	if _, err := issuer.Verify("garbage"); !errors.Is(err, service.ErrInvalidToken) {
		t.Errorf("expected malformed token rejected, got %v", err)
	}
}
