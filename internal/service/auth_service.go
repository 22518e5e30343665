package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexora/nexora-backend/internal/domain"
)

const verificationTokenTTL = 24 * time.Hour

// AuthService handles registration, email verification and token issuance
type AuthService struct {
	userRepo  domain.UserRepository
	tokenRepo domain.TokenRepository
	mailer    Mailer

	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	backendURL      string
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, tokenRepo domain.TokenRepository, mailer Mailer, jwtSecret string, accessTTL, refreshTTL time.Duration, backendURL string) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		tokenRepo:       tokenRepo,
		mailer:          mailer,
		jwtSecret:       []byte(jwtSecret),
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
		backendURL:      backendURL,
	}
}

// RegisterInput holds the input for account registration
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// TokenPair is the result of a successful login or refresh
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// Register creates an inactive account with its preference row and a default
// "Principal" wallet, then emails a verification link. A mail delivery
// failure does not fail the registration.
func (s *AuthService) Register(input RegisterInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" || input.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(input.Username) > domain.MaxUsernameLength {
		return nil, domain.ErrNameTooLong
	}
	if len(input.Password) < domain.MinPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     false,
	}
	wallet := &domain.Wallet{
		Name:      domain.SeedWalletName,
		Color:     domain.SeedWalletColor,
		IsDefault: true,
	}

	created, err := s.userRepo.CreateWithDefaults(user, domain.NewDefaultPreference(uuid.Nil), wallet)
	if err != nil {
		return nil, err
	}

	if err := s.sendVerification(created); err != nil {
		log.Error().Err(err).Str("user_id", created.ID.String()).Msg("failed to send verification email")
	}

	return created, nil
}

func (s *AuthService) sendVerification(user *domain.User) error {
	raw, err := newRawToken()
	if err != nil {
		return err
	}

	if err := s.tokenRepo.CreateVerification(&domain.EmailVerificationToken{
		UserID:    user.ID,
		TokenHash: hashToken(raw),
		ExpiresAt: time.Now().UTC().Add(verificationTokenTTL),
	}); err != nil {
		return err
	}

	verifyURL := fmt.Sprintf("%s/api/auth/verify-email?token=%s", s.backendURL, raw)
	return s.mailer.SendVerification(user.Email, user.Username, verifyURL)
}

// VerifyEmail activates the account the token belongs to. Tokens are single
// use and expire after 24 hours.
func (s *AuthService) VerifyEmail(rawToken string) error {
	if rawToken == "" {
		return domain.ErrTokenInvalid
	}

	token, err := s.tokenRepo.GetVerificationByHash(hashToken(rawToken))
	if err != nil {
		return err
	}
	if token.UsedAt != nil || time.Now().UTC().After(token.ExpiresAt) {
		return domain.ErrTokenInvalid
	}

	if err := s.userRepo.Activate(token.UserID); err != nil {
		return err
	}
	return s.tokenRepo.MarkVerificationUsed(token.ID)
}

// Login checks the credentials and issues an access/refresh token pair.
// Unverified accounts cannot log in.
func (s *AuthService) Login(username, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}

	if err := s.userRepo.TouchLastLogin(user.ID); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to record last login")
	}

	return s.issuePair(user.ID)
}

// Refresh exchanges a valid refresh token for a new pair, revoking the old
// token.
func (s *AuthService) Refresh(rawRefresh string) (*TokenPair, error) {
	token, err := s.lookupRefresh(rawRefresh)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.RevokeRefresh(token.ID); err != nil {
		return nil, err
	}
	return s.issuePair(token.UserID)
}

// Logout revokes the refresh token
func (s *AuthService) Logout(rawRefresh string) error {
	token, err := s.lookupRefresh(rawRefresh)
	if err != nil {
		return err
	}
	return s.tokenRepo.RevokeRefresh(token.ID)
}

func (s *AuthService) lookupRefresh(rawRefresh string) (*domain.RefreshToken, error) {
	if rawRefresh == "" {
		return nil, domain.ErrTokenInvalid
	}
	token, err := s.tokenRepo.GetRefreshByHash(hashToken(rawRefresh))
	if err != nil {
		return nil, err
	}
	if token.RevokedAt != nil || time.Now().UTC().After(token.ExpiresAt) {
		return nil, domain.ErrTokenInvalid
	}
	return token, nil
}

func (s *AuthService) issuePair(userID uuid.UUID) (*TokenPair, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	rawRefresh, err := newRawToken()
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.CreateRefresh(&domain.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(rawRefresh),
		ExpiresAt: now.Add(s.refreshTokenTTL),
	}); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: rawRefresh}, nil
}

func newRawToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
