package domain

import "github.com/google/uuid"

// AccountResetRepository wipes and reseeds a user's financial data as one
// atomic unit: transactions, budgets, wallets and owned categories are
// deleted, preferences return to their defaults, and a fresh default
// "Principal" wallet is created. No reader may observe a partial reset.
type AccountResetRepository interface {
	Reset(userID uuid.UUID) error
}
