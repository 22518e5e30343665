package testutil

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexora/nexora-backend/internal/domain"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID       map[uuid.UUID]*domain.User
	ByUsername map[string]*domain.User

	// CreatedPrefs and CreatedWallets record what CreateWithDefaults seeded.
	CreatedPrefs   []*domain.UserPreference
	CreatedWallets []*domain.Wallet
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:       make(map[uuid.UUID]*domain.User),
		ByUsername: make(map[string]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByUsername retrieves a user by username
func (m *MockUserRepository) GetByUsername(username string) (*domain.User, error) {
	if user, ok := m.ByUsername[username]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateWithDefaults creates the user and records the seeded rows
func (m *MockUserRepository) CreateWithDefaults(user *domain.User, pref *domain.UserPreference, wallet *domain.Wallet) (*domain.User, error) {
	if _, taken := m.ByUsername[user.Username]; taken {
		return nil, domain.ErrUsernameTaken
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.ByID[user.ID] = user
	m.ByUsername[user.Username] = user

	pref.UserID = user.ID
	wallet.UserID = user.ID
	m.CreatedPrefs = append(m.CreatedPrefs, pref)
	m.CreatedWallets = append(m.CreatedWallets, wallet)
	return user, nil
}

// UpdateProfile updates the user's mutable profile fields
func (m *MockUserRepository) UpdateProfile(id uuid.UUID, update *domain.UserProfileUpdate) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	return user, nil
}

// Activate marks the user account as active
func (m *MockUserRepository) Activate(id uuid.UUID) error {
	user, ok := m.ByID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.IsActive = true
	return nil
}

// TouchLastLogin records a login timestamp
func (m *MockUserRepository) TouchLastLogin(id uuid.UUID) error {
	user, ok := m.ByID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	now := time.Now()
	user.LastLogin = &now
	return nil
}

// MockWalletRepository is a mock implementation of domain.WalletRepository
type MockWalletRepository struct {
	Wallets map[int32]*domain.Wallet
	nextID  int32
}

// NewMockWalletRepository creates a new MockWalletRepository
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{Wallets: make(map[int32]*domain.Wallet), nextID: 1}
}

// Create creates a new wallet
func (m *MockWalletRepository) Create(wallet *domain.Wallet) (*domain.Wallet, error) {
	for _, w := range m.Wallets {
		if w.UserID == wallet.UserID && w.Name == wallet.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	wallet.ID = m.nextID
	wallet.CreatedAt = time.Now()
	m.nextID++
	m.Wallets[wallet.ID] = wallet
	return wallet, nil
}

// GetByID retrieves a wallet owned by the user
func (m *MockWalletRepository) GetByID(userID uuid.UUID, id int32) (*domain.Wallet, error) {
	if w, ok := m.Wallets[id]; ok && w.UserID == userID {
		return w, nil
	}
	return nil, domain.ErrWalletNotFound
}

// GetAllByUser lists the user's wallets, default first then by name
func (m *MockWalletRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Wallet, error) {
	var wallets []*domain.Wallet
	for _, w := range m.Wallets {
		if w.UserID == userID {
			wallets = append(wallets, w)
		}
	}
	sort.Slice(wallets, func(i, j int) bool {
		if wallets[i].IsDefault != wallets[j].IsDefault {
			return wallets[i].IsDefault
		}
		return wallets[i].Name < wallets[j].Name
	})
	return wallets, nil
}

// GetDefault retrieves the user's default wallet
func (m *MockWalletRepository) GetDefault(userID uuid.UUID) (*domain.Wallet, error) {
	for _, w := range m.Wallets {
		if w.UserID == userID && w.IsDefault {
			return w, nil
		}
	}
	return nil, domain.ErrWalletNotFound
}

// HasAny reports whether the user owns any wallet
func (m *MockWalletRepository) HasAny(userID uuid.UUID) (bool, error) {
	for _, w := range m.Wallets {
		if w.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// Update updates a wallet's name and color
func (m *MockWalletRepository) Update(userID uuid.UUID, id int32, name, color string) (*domain.Wallet, error) {
	w, err := m.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	w.Name = name
	w.Color = color
	return w, nil
}

// Delete deletes a wallet
func (m *MockWalletRepository) Delete(userID uuid.UUID, id int32) error {
	if _, err := m.GetByID(userID, id); err != nil {
		return err
	}
	delete(m.Wallets, id)
	return nil
}

// MakeDefault clears the previous default and sets the new one
func (m *MockWalletRepository) MakeDefault(userID uuid.UUID, id int32) error {
	target, err := m.GetByID(userID, id)
	if err != nil {
		return err
	}
	for _, w := range m.Wallets {
		if w.UserID == userID {
			w.IsDefault = false
		}
	}
	target.IsDefault = true
	return nil
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	nextID     int32
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make(map[int32]*domain.Category), nextID: 1}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	category.ID = m.nextID
	m.nextID++
	m.Categories[category.ID] = category
	return category, nil
}

func (m *MockCategoryRepository) visible(userID uuid.UUID, c *domain.Category) bool {
	return c.UserID == nil || *c.UserID == userID
}

// GetVisibleByID retrieves an owned or global category
func (m *MockCategoryRepository) GetVisibleByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	if c, ok := m.Categories[id]; ok && m.visible(userID, c) {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAllVisible lists the user's own categories plus global ones
func (m *MockCategoryRepository) GetAllVisible(userID uuid.UUID) ([]*domain.Category, error) {
	var categories []*domain.Category
	for _, c := range m.Categories {
		if m.visible(userID, c) {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// FindVisibleByName finds a visible category by name, own before global
func (m *MockCategoryRepository) FindVisibleByName(userID uuid.UUID, name string) (*domain.Category, error) {
	var global *domain.Category
	for _, c := range m.Categories {
		if !strings.EqualFold(c.Name, name) || !m.visible(userID, c) {
			continue
		}
		if c.UserID != nil {
			return c, nil
		}
		global = c
	}
	if global != nil {
		return global, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// Update updates an owned category
func (m *MockCategoryRepository) Update(userID uuid.UUID, id int32, name string, catType domain.CategoryType, icon, color string) (*domain.Category, error) {
	c, ok := m.Categories[id]
	if !ok || c.UserID == nil || *c.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	c.Name = name
	c.Type = catType
	c.Icon = icon
	c.Color = color
	return c, nil
}

// Delete deletes an owned category
func (m *MockCategoryRepository) Delete(userID uuid.UUID, id int32) error {
	c, ok := m.Categories[id]
	if !ok || c.UserID == nil || *c.UserID != userID {
		return domain.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return nil
}

// MockTransactionRepository is a mock implementation of
// domain.TransactionRepository. Find applies domain.TransactionFilter.Matches
// so filter semantics are identical to the SQL implementation.
type MockTransactionRepository struct {
	Transactions map[int64]*domain.Transaction
	nextID       int64
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{Transactions: make(map[int64]*domain.Transaction), nextID: 1}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	transaction.ID = m.nextID
	transaction.CreatedAt = time.Now()
	m.nextID++
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction owned by the user
func (m *MockTransactionRepository) GetByID(userID uuid.UUID, id int64) (*domain.Transaction, error) {
	if t, ok := m.Transactions[id]; ok && t.UserID == userID {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// Find returns the user's matching transactions, date descending then id
// descending.
func (m *MockTransactionRepository) Find(userID uuid.UUID, filter *domain.TransactionFilter) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID == userID && filter.Matches(t) {
			transactions = append(transactions, t)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.After(transactions[j].Date)
		}
		return transactions[i].ID > transactions[j].ID
	})
	return transactions, nil
}

// Update updates a transaction
func (m *MockTransactionRepository) Update(userID uuid.UUID, id int64, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	t, err := m.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	t.WalletID = data.WalletID
	t.CategoryID = data.CategoryID
	t.Amount = data.Amount
	t.Description = data.Description
	t.Date = data.Date
	return t, nil
}

// Delete deletes a transaction
func (m *MockTransactionRepository) Delete(userID uuid.UUID, id int64) error {
	if _, err := m.GetByID(userID, id); err != nil {
		return err
	}
	delete(m.Transactions, id)
	return nil
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[int32]*domain.Budget
	nextID  int32
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{Budgets: make(map[int32]*domain.Budget), nextID: 1}
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	for _, b := range m.Budgets {
		if b.UserID == budget.UserID && b.CategoryID == budget.CategoryID &&
			b.Month.Equal(budget.Month) && int32PtrEqual(b.WalletID, budget.WalletID) {
			return nil, domain.ErrAlreadyExists
		}
	}
	budget.ID = m.nextID
	m.nextID++
	m.Budgets[budget.ID] = budget
	return budget, nil
}

// GetByID retrieves a budget owned by the user
func (m *MockBudgetRepository) GetByID(userID uuid.UUID, id int32) (*domain.Budget, error) {
	if b, ok := m.Budgets[id]; ok && b.UserID == userID {
		return b, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// Find returns the user's budgets, month descending then category name
func (m *MockBudgetRepository) Find(userID uuid.UUID, filter *domain.BudgetFilter) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for _, b := range m.Budgets {
		if b.UserID != userID {
			continue
		}
		if filter != nil {
			if filter.Month != nil && !b.Month.Equal(*filter.Month) {
				continue
			}
			if filter.WalletID != nil && !int32PtrEqual(b.WalletID, filter.WalletID) {
				continue
			}
		}
		budgets = append(budgets, b)
	}
	sort.Slice(budgets, func(i, j int) bool {
		if !budgets[i].Month.Equal(budgets[j].Month) {
			return budgets[i].Month.After(budgets[j].Month)
		}
		return budgets[i].CategoryName < budgets[j].CategoryName
	})
	return budgets, nil
}

// FindByMonth returns the budgets of a month ordered by id ascending
func (m *MockBudgetRepository) FindByMonth(userID uuid.UUID, month time.Time) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for _, b := range m.Budgets {
		if b.UserID == userID && b.Month.Equal(month) {
			budgets = append(budgets, b)
		}
	}
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].ID < budgets[j].ID })
	return budgets, nil
}

// Update updates a budget
func (m *MockBudgetRepository) Update(userID uuid.UUID, id int32, walletID *int32, categoryID int32, month time.Time, limit decimal.Decimal) (*domain.Budget, error) {
	b, err := m.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	b.WalletID = walletID
	b.CategoryID = categoryID
	b.Month = month
	b.LimitAmount = limit
	return b, nil
}

// Delete deletes a budget
func (m *MockBudgetRepository) Delete(userID uuid.UUID, id int32) error {
	if _, err := m.GetByID(userID, id); err != nil {
		return err
	}
	delete(m.Budgets, id)
	return nil
}

// MockPreferenceRepository is a mock implementation of
// domain.PreferenceRepository
type MockPreferenceRepository struct {
	Prefs map[uuid.UUID]*domain.UserPreference
}

// NewMockPreferenceRepository creates a new MockPreferenceRepository
func NewMockPreferenceRepository() *MockPreferenceRepository {
	return &MockPreferenceRepository{Prefs: make(map[uuid.UUID]*domain.UserPreference)}
}

// GetByUser retrieves the user's preference row
func (m *MockPreferenceRepository) GetByUser(userID uuid.UUID) (*domain.UserPreference, error) {
	if p, ok := m.Prefs[userID]; ok {
		return p, nil
	}
	return nil, domain.ErrPreferenceNotFound
}

// Update applies a partial preference update
func (m *MockPreferenceRepository) Update(userID uuid.UUID, update *domain.PreferenceUpdate) (*domain.UserPreference, error) {
	p, ok := m.Prefs[userID]
	if !ok {
		return nil, domain.ErrPreferenceNotFound
	}
	if update.AvatarURL != nil {
		p.AvatarURL = *update.AvatarURL
	}
	if update.Currency != nil {
		p.Currency = *update.Currency
	}
	if update.Timezone != nil {
		p.Timezone = *update.Timezone
	}
	if update.DateFormat != nil {
		p.DateFormat = *update.DateFormat
	}
	return p, nil
}

// MockTokenRepository is a mock implementation of domain.TokenRepository
type MockTokenRepository struct {
	Verifications map[string]*domain.EmailVerificationToken
	Refreshes     map[string]*domain.RefreshToken
}

// NewMockTokenRepository creates a new MockTokenRepository
func NewMockTokenRepository() *MockTokenRepository {
	return &MockTokenRepository{
		Verifications: make(map[string]*domain.EmailVerificationToken),
		Refreshes:     make(map[string]*domain.RefreshToken),
	}
}

// CreateVerification stores a verification token, invalidating unused priors
func (m *MockTokenRepository) CreateVerification(token *domain.EmailVerificationToken) error {
	now := time.Now()
	for _, t := range m.Verifications {
		if t.UserID == token.UserID && t.UsedAt == nil {
			used := now
			t.UsedAt = &used
		}
	}
	token.ID = uuid.New()
	token.CreatedAt = now
	m.Verifications[token.TokenHash] = token
	return nil
}

// GetVerificationByHash retrieves a verification token by its hash
func (m *MockTokenRepository) GetVerificationByHash(hash string) (*domain.EmailVerificationToken, error) {
	if t, ok := m.Verifications[hash]; ok {
		return t, nil
	}
	return nil, domain.ErrTokenInvalid
}

// MarkVerificationUsed consumes a verification token
func (m *MockTokenRepository) MarkVerificationUsed(id uuid.UUID) error {
	for _, t := range m.Verifications {
		if t.ID == id {
			now := time.Now()
			t.UsedAt = &now
			return nil
		}
	}
	return domain.ErrTokenInvalid
}

// CreateRefresh stores a refresh token
func (m *MockTokenRepository) CreateRefresh(token *domain.RefreshToken) error {
	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	m.Refreshes[token.TokenHash] = token
	return nil
}

// GetRefreshByHash retrieves a refresh token by its hash
func (m *MockTokenRepository) GetRefreshByHash(hash string) (*domain.RefreshToken, error) {
	if t, ok := m.Refreshes[hash]; ok {
		return t, nil
	}
	return nil, domain.ErrTokenInvalid
}

// RevokeRefresh revokes a refresh token
func (m *MockTokenRepository) RevokeRefresh(id uuid.UUID) error {
	for _, t := range m.Refreshes {
		if t.ID == id {
			now := time.Now()
			t.RevokedAt = &now
			return nil
		}
	}
	return domain.ErrTokenInvalid
}

// MockMailer records outgoing verification mail
type MockMailer struct {
	Sent []SentMail
	Err  error
}

// SentMail is one recorded verification mail
type SentMail struct {
	To        string
	Username  string
	VerifyURL string
}

// SendVerification records the mail or returns the configured error
func (m *MockMailer) SendVerification(to, username, verifyURL string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{To: to, Username: username, VerifyURL: verifyURL})
	return nil
}

// MockResetRepository records reset calls
type MockResetRepository struct {
	ResetCalls []uuid.UUID
	Err        error
}

// Reset records the call or returns the configured error
func (m *MockResetRepository) Reset(userID uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}
	m.ResetCalls = append(m.ResetCalls, userID)
	return nil
}

func int32PtrEqual(a, b *int32) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
