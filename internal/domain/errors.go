package domain

import "errors"

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrAlreadyExists        = errors.New("resource already exists")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrUserNotFound         = errors.New("user not found")
	ErrWalletNotFound       = errors.New("wallet not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrBudgetNotFound       = errors.New("budget not found")
	ErrPreferenceNotFound   = errors.New("preferences not found")
	ErrNameRequired         = errors.New("name is required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidCategoryType  = errors.New("invalid category type")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountInactive      = errors.New("account is not activated")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrTokenInvalid         = errors.New("token invalid or expired")
	ErrConfirmationRequired = errors.New("confirmation required")
)

// Validation constants
const (
	MaxWalletNameLength   = 100
	MaxCategoryNameLength = 100
	MaxUsernameLength     = 150
	MinPasswordLength     = 8
)
