package finance

import (
	"slices"
	"strings"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// DefaultHistoryMonths is the window used when none is requested
	DefaultHistoryMonths = 6
	// MaxHistoryMonths bounds the window
	MaxHistoryMonths = 36

	trendCategoryCount = 3
)

// trendFloor keeps small series from being stretched to the full scale
var trendFloor = decimal.NewFromInt(100)

// MonthPoint is one month of the history series
type MonthPoint struct {
	Month       domain.MonthYear `json:"month"`
	Income      decimal.Decimal  `json:"income"`
	Expense     decimal.Decimal  `json:"expense"`
	Savings     decimal.Decimal  `json:"savings"`
	SavingsRate int64            `json:"savingsRate"`
}

// CategoryTrend is the monthly spend of one of the top categories
type CategoryTrend struct {
	Name       string            `json:"name"`
	Points     []decimal.Decimal `json:"points"`
	Normalized []float64         `json:"normalized"`
}

// LargestExpense is the single biggest budgetable expense in the window
type LargestExpense struct {
	Amount decimal.Decimal `json:"amount"`
	Label  string          `json:"label"`
}

// History is the multi-month projection ending at End
type History struct {
	Start                domain.MonthYear `json:"start"`
	End                  domain.MonthYear `json:"end"`
	Months               []MonthPoint     `json:"months"`
	CategoryTrends       []CategoryTrend  `json:"categoryTrends"`
	AvgSavingsRate       int64            `json:"avgSavingsRate"`
	LargestExpense       LargestExpense   `json:"largestExpense"`
	AvgExpenseValue      int64            `json:"avgExpenseValue"`
	MostFrequentCategory string           `json:"mostFrequentCategory"`
}

type monthBucket struct {
	income     decimal.Decimal
	expense    decimal.Decimal
	categories map[string]decimal.Decimal
}

// MonthlyHistory projects the months (end-months+1 .. end). Income counts
// every income transaction; expense counts budgetable expenses only, so money
// lent to contacts does not read as spending.
func MonthlyHistory(end domain.MonthYear, months int, transactions []*domain.Transaction, categories []*domain.Category) History {
	if months <= 0 {
		months = DefaultHistoryMonths
	}
	months = min(months, MaxHistoryMonths)
	start := end.AddMonths(-(months - 1))

	keys := make([]domain.MonthYear, months)
	buckets := make(map[domain.MonthYear]*monthBucket, months)
	for i := range months {
		keys[i] = start.AddMonths(i)
		buckets[keys[i]] = &monthBucket{
			income:     decimal.Zero,
			expense:    decimal.Zero,
			categories: make(map[string]decimal.Decimal),
		}
	}

	largest := LargestExpense{Amount: decimal.Zero, Label: "-"}
	expenseCount := 0
	frequency := make(map[string]int)

	for _, t := range transactions {
		if t == nil {
			continue
		}
		bucket, ok := buckets[domain.MonthYearOf(t.TransactionDate)]
		if !ok {
			continue
		}
		switch {
		case t.Type == domain.TransactionTypeIncome:
			bucket.income = bucket.income.Add(t.Amount)
		case t.IsBudgetable():
			name := categoryName(t, categories)
			bucket.expense = bucket.expense.Add(t.Amount)
			bucket.categories[name] = bucket.categories[name].Add(t.Amount)

			if t.Amount.GreaterThan(largest.Amount) {
				largest = LargestExpense{Amount: t.Amount, Label: expenseLabel(t, name)}
			}
			expenseCount++
			frequency[name]++
		}
	}

	h := History{
		Start:                start,
		End:                  end,
		Months:               make([]MonthPoint, 0, months),
		LargestExpense:       largest,
		MostFrequentCategory: "-",
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, key := range keys {
		b := buckets[key]
		var rate int64
		if b.income.IsPositive() {
			rate = percentOf(b.income.Sub(b.expense), b.income)
		}
		h.Months = append(h.Months, MonthPoint{
			Month:       key,
			Income:      b.income,
			Expense:     b.expense,
			Savings:     b.income.Sub(b.expense),
			SavingsRate: rate,
		})
		totalIncome = totalIncome.Add(b.income)
		totalExpense = totalExpense.Add(b.expense)
	}

	if totalIncome.IsPositive() {
		h.AvgSavingsRate = percentOf(totalIncome.Sub(totalExpense), totalIncome)
	}
	if expenseCount > 0 {
		h.AvgExpenseValue = roundHalfUp(totalExpense.Div(decimal.NewFromInt(int64(expenseCount))))
	}
	if name, ok := mostFrequent(frequency); ok {
		h.MostFrequentCategory = name
	}
	h.CategoryTrends = categoryTrends(keys, buckets)
	return h
}

func categoryTrends(keys []domain.MonthYear, buckets map[domain.MonthYear]*monthBucket) []CategoryTrend {
	totals := make(map[string]decimal.Decimal)
	for _, b := range buckets {
		for name, amount := range b.categories {
			totals[name] = totals[name].Add(amount)
		}
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := totals[b].Cmp(totals[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	if len(names) > trendCategoryCount {
		names = names[:trendCategoryCount]
	}

	trends := make([]CategoryTrend, 0, len(names))
	for _, name := range names {
		points := make([]decimal.Decimal, len(keys))
		peak := trendFloor
		for i, key := range keys {
			points[i] = buckets[key].categories[name].Add(decimal.Zero)
			peak = decimal.Max(peak, points[i])
		}
		normalized := make([]float64, len(points))
		for i, p := range points {
			normalized[i] = p.Div(peak).InexactFloat64()
		}
		trends = append(trends, CategoryTrend{Name: name, Points: points, Normalized: normalized})
	}
	return trends
}

func mostFrequent(frequency map[string]int) (string, bool) {
	best := ""
	bestCount := 0
	for name, count := range frequency {
		if count > bestCount || (count == bestCount && name < best) {
			best, bestCount = name, count
		}
	}
	return best, bestCount > 0
}

func expenseLabel(t *domain.Transaction, category string) string {
	if t.Description != nil && *t.Description != "" {
		return *t.Description
	}
	if category != UncategorizedName {
		return category
	}
	return "Expense"
}
