package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nexora/nexora-backend/internal/domain"
)

// UncategorizedLabel is used in per-category breakdowns for transactions
// without a category.
const UncategorizedLabel = "Sans categorie"

// CalculationService computes aggregates over already-filtered transaction
// sequences. All arithmetic is exact decimal; classification follows the
// sign of the amount and nothing else.
type CalculationService struct{}

// NewCalculationService creates a new CalculationService
func NewCalculationService() *CalculationService {
	return &CalculationService{}
}

// Summarize computes income, expenses, balance and count over the sequence.
// Income sums strictly positive amounts; expenses is the absolute value of
// the sum of strictly negative amounts; zero amounts contribute to neither
// but are counted.
func (s *CalculationService) Summarize(transactions []*domain.Transaction) *domain.Summary {
	income := decimal.Zero
	negatives := decimal.Zero

	for _, t := range transactions {
		switch {
		case t.Amount.IsPositive():
			income = income.Add(t.Amount)
		case t.Amount.IsNegative():
			negatives = negatives.Add(t.Amount)
		}
	}

	expenses := negatives.Abs()
	return &domain.Summary{
		Income:   income,
		Expenses: expenses,
		Balance:  income.Sub(expenses),
		Count:    int64(len(transactions)),
	}
}

// CategoryTotal is one slice of the expenses-by-category breakdown.
type CategoryTotal struct {
	Name  string
	Total decimal.Decimal
}

// ExpensesByCategory groups the expense side of the sequence by category
// name, largest total first. Only strictly negative amounts participate;
// totals are absolute values.
func (s *CalculationService) ExpensesByCategory(transactions []*domain.Transaction) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		if !t.Amount.IsNegative() {
			continue
		}
		name := UncategorizedLabel
		if t.CategoryName != nil {
			name = *t.CategoryName
		}
		totals[name] = totals[name].Add(t.Amount.Abs())
	}

	result := make([]CategoryTotal, 0, len(totals))
	for name, total := range totals {
		result = append(result, CategoryTotal{Name: name, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Total.Equal(result[j].Total) {
			return result[i].Total.GreaterThan(result[j].Total)
		}
		return result[i].Name < result[j].Name
	})
	return result
}
