package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nexora/nexora-backend/internal/domain"
	"github.com/nexora/nexora-backend/internal/testutil"
)

func newAuthService() (*AuthService, *testutil.MockUserRepository, *testutil.MockTokenRepository, *testutil.MockMailer) {
	userRepo := testutil.NewMockUserRepository()
	tokenRepo := testutil.NewMockTokenRepository()
	mailer := &testutil.MockMailer{}
	svc := NewAuthService(userRepo, tokenRepo, mailer, "test-secret", 15*time.Minute, 7*24*time.Hour, "http://localhost:8080")
	return svc, userRepo, tokenRepo, mailer
}

func mustRegister(t *testing.T, svc *AuthService) *domain.User {
	t.Helper()
	user, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Registration failed: %v", err)
	}
	return user
}

func TestRegister_SeedsDefaultsAndSendsMail(t *testing.T) {
	svc, userRepo, _, mailer := newAuthService()

	user := mustRegister(t, svc)

	if user.IsActive {
		t.Error("Expected new account to be inactive")
	}
	if len(userRepo.CreatedWallets) != 1 {
		t.Fatalf("Expected 1 seeded wallet, got %d", len(userRepo.CreatedWallets))
	}
	wallet := userRepo.CreatedWallets[0]
	if wallet.Name != domain.SeedWalletName || !wallet.IsDefault {
		t.Errorf("Expected default %q wallet, got %q default=%v", domain.SeedWalletName, wallet.Name, wallet.IsDefault)
	}
	if len(userRepo.CreatedPrefs) != 1 || userRepo.CreatedPrefs[0].Currency != domain.DefaultCurrency {
		t.Error("Expected seeded preference row with default currency")
	}
	if len(mailer.Sent) != 1 {
		t.Fatalf("Expected 1 verification mail, got %d", len(mailer.Sent))
	}
	if !strings.Contains(mailer.Sent[0].VerifyURL, "/api/auth/verify-email?token=") {
		t.Errorf("Unexpected verify URL %q", mailer.Sent[0].VerifyURL)
	}
}

func TestRegister_MailFailureDoesNotFailRegistration(t *testing.T) {
	svc, _, _, mailer := newAuthService()
	mailer.Err = errors.New("smtp down")

	if _, err := svc.Register(RegisterInput{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "long-enough",
	}); err != nil {
		t.Fatalf("Expected registration to survive mail failure, got %v", err)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	svc, _, _, _ := newAuthService()

	_, err := svc.Register(RegisterInput{Username: "x", Email: "x@example.com", Password: "short"})
	if !errors.Is(err, domain.ErrPasswordTooShort) {
		t.Errorf("Expected ErrPasswordTooShort, got %v", err)
	}
}

func TestLogin_InactiveAccountRejected(t *testing.T) {
	svc, _, _, _ := newAuthService()
	mustRegister(t, svc)

	_, err := svc.Login("alice", "correct-horse")
	if !errors.Is(err, domain.ErrAccountInactive) {
		t.Errorf("Expected ErrAccountInactive, got %v", err)
	}
}

func TestVerifyEmailThenLogin(t *testing.T) {
	svc, userRepo, _, mailer := newAuthService()
	user := mustRegister(t, svc)

	raw := extractToken(t, mailer.Sent[0].VerifyURL)
	if err := svc.VerifyEmail(raw); err != nil {
		t.Fatalf("Verification failed: %v", err)
	}
	if !userRepo.ByID[user.ID].IsActive {
		t.Fatal("Expected account to be active after verification")
	}

	pair, err := svc.Login("alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("Expected both tokens to be issued")
	}
	if userRepo.ByID[user.ID].LastLogin == nil {
		t.Error("Expected login to be recorded")
	}
}

func TestVerifyEmail_TokenIsSingleUse(t *testing.T) {
	svc, _, _, mailer := newAuthService()
	mustRegister(t, svc)

	raw := extractToken(t, mailer.Sent[0].VerifyURL)
	if err := svc.VerifyEmail(raw); err != nil {
		t.Fatalf("First verification failed: %v", err)
	}
	if err := svc.VerifyEmail(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("Expected ErrTokenInvalid on reuse, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, _ := newAuthService()
	mustRegister(t, svc)

	_, err := svc.Login("alice", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	_, err = svc.Login("nobody", "whatever")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _, _, mailer := newAuthService()
	mustRegister(t, svc)
	if err := svc.VerifyEmail(extractToken(t, mailer.Sent[0].VerifyURL)); err != nil {
		t.Fatalf("Verification failed: %v", err)
	}

	pair, err := svc.Login("alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	next, err := svc.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Error("Expected refresh to issue a new token")
	}

	// The old token is revoked by rotation
	if _, err := svc.Refresh(pair.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("Expected ErrTokenInvalid for rotated token, got %v", err)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, _, mailer := newAuthService()
	mustRegister(t, svc)
	if err := svc.VerifyEmail(extractToken(t, mailer.Sent[0].VerifyURL)); err != nil {
		t.Fatalf("Verification failed: %v", err)
	}

	pair, err := svc.Login("alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := svc.Logout(pair.RefreshToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if err := svc.Logout(pair.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("Expected ErrTokenInvalid for revoked token, got %v", err)
	}
}

func extractToken(t *testing.T, verifyURL string) string {
	t.Helper()
	idx := strings.Index(verifyURL, "token=")
	if idx < 0 {
		t.Fatalf("No token in URL %q", verifyURL)
	}
	return verifyURL[idx+len("token="):]
}
