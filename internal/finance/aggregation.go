package finance

import (
	"cmp"
	"slices"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// UncategorizedName labels budgetable expenses without a known category
	UncategorizedName = "Uncategorized"

	// NoExpensesName is the top category reported when nothing was spent
	NoExpensesName = "No expenses"

	RunwayNoBurn = "No Burn"
	RunwayZero   = "0"
	RunwayCapped = "60+"

	// runwayCapMonths is the largest runway reported as a number
	runwayCapMonths = 60
)

// DefaultGlobalBudgetLimit applies to a month without a GlobalBudget record
var DefaultGlobalBudgetLimit = decimal.NewFromInt(80000)

// Solvency compares budget headroom against the month's net cash
type Solvency struct {
	IsInsolvent bool            `json:"isInsolvent"`
	Gap         decimal.Decimal `json:"gap"`
}

// TopCategory is the category with the largest budgetable spend
type TopCategory struct {
	CategoryID *int32          `json:"categoryId,omitempty"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
}

// CategoryMetric is the budget position of one expense category in a month
type CategoryMetric struct {
	ID        int32           `json:"id"`
	Name      string          `json:"name"`
	Icon      string          `json:"icon"`
	Limit     decimal.Decimal `json:"limit"`
	Used      decimal.Decimal `json:"used"`
	Remaining decimal.Decimal `json:"remaining"`
	Pct       int64           `json:"pct"`
}

// FinancialSnapshot is every derived figure for one month
type FinancialSnapshot struct {
	Month              domain.MonthYear `json:"month"`
	Income             decimal.Decimal  `json:"income"`
	Expense            decimal.Decimal  `json:"expense"`
	Balance            decimal.Decimal  `json:"balance"`
	BudgetLimit        decimal.Decimal  `json:"budgetLimit"`
	BudgetUsed         decimal.Decimal  `json:"budgetUsed"`
	BudgetRemaining    decimal.Decimal  `json:"budgetRemaining"`
	SpendingPercentage int64            `json:"spendingPercentage"`
	Solvency           Solvency         `json:"solvency"`
	SavingsRate        int64            `json:"savingsRate"`
	Runway             string           `json:"runway"`
	GlobalBalance      decimal.Decimal  `json:"globalBalance"`
	TopCategory        TopCategory      `json:"topCategory"`
	CategoryMetrics    []CategoryMetric `json:"categoryMetrics"`
}

type options struct {
	defaultBudgetLimit decimal.Decimal
}

// Option tunes the aggregation
type Option func(*options)

// WithDefaultBudgetLimit overrides DefaultGlobalBudgetLimit
func WithDefaultBudgetLimit(limit decimal.Decimal) Option {
	return func(o *options) {
		o.defaultBudgetLimit = limit
	}
}

func buildOptions(opts []Option) options {
	o := options{defaultBudgetLimit: DefaultGlobalBudgetLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ComputeFinancials derives the FinancialSnapshot of month from the records.
// Transactions linked to a contact never count against the budget.
func ComputeFinancials(month domain.MonthYear, transactions []*domain.Transaction, categories []*domain.Category,
	globalBudgets []*domain.GlobalBudget, categoryBudgets []*domain.CategoryBudget, opts ...Option) FinancialSnapshot {
	o := buildOptions(opts)

	monthTx := TransactionsInMonth(month, transactions)

	income := decimal.Zero
	expense := decimal.Zero
	budgetUsed := decimal.Zero
	for _, t := range monthTx {
		switch t.Type {
		case domain.TransactionTypeIncome:
			income = income.Add(t.Amount)
		case domain.TransactionTypeExpense:
			expense = expense.Add(t.Amount)
			if t.IsBudgetable() {
				budgetUsed = budgetUsed.Add(t.Amount)
			}
		}
	}
	balance := income.Sub(expense)

	budgetLimit := o.defaultBudgetLimit
	if b := findGlobalBudget(month, globalBudgets); b != nil {
		budgetLimit = b.AmountLimit
	}
	budgetRemaining := budgetLimit.Sub(budgetUsed)

	gap := budgetRemaining.Sub(balance)

	var savingsRate int64
	if income.IsPositive() {
		savingsRate = percentOf(balance, income)
	}

	globalBalance := GlobalBalance(transactions)

	return FinancialSnapshot{
		Month:              month,
		Income:             income,
		Expense:            expense,
		Balance:            balance,
		BudgetLimit:        budgetLimit,
		BudgetUsed:         budgetUsed,
		BudgetRemaining:    budgetRemaining,
		SpendingPercentage: percentOf(budgetUsed, budgetLimit),
		Solvency: Solvency{
			IsInsolvent: gap.IsPositive(),
			Gap:         gap,
		},
		SavingsRate:     savingsRate,
		Runway:          Runway(globalBalance, expense),
		GlobalBalance:   globalBalance,
		TopCategory:     topCategory(monthTx, categories),
		CategoryMetrics: categoryMetrics(month, monthTx, categories, categoryBudgets),
	}
}

// TransactionsInMonth returns the transactions dated in month, in input order
func TransactionsInMonth(month domain.MonthYear, transactions []*domain.Transaction) []*domain.Transaction {
	var out []*domain.Transaction
	for _, t := range transactions {
		if t != nil && month.Contains(t.TransactionDate) {
			out = append(out, t)
		}
	}
	return out
}

// BudgetTransactions returns the budgetable expenses of month, newest first.
// Their amounts add up to FinancialSnapshot.BudgetUsed.
func BudgetTransactions(month domain.MonthYear, transactions []*domain.Transaction) []*domain.Transaction {
	var out []*domain.Transaction
	for _, t := range TransactionsInMonth(month, transactions) {
		if t.IsBudgetable() {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b *domain.Transaction) int {
		return compareChronological(b, a)
	})
	return out
}

// GlobalBalance is all-time income minus all-time expense
func GlobalBalance(transactions []*domain.Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range transactions {
		if t == nil {
			continue
		}
		switch t.Type {
		case domain.TransactionTypeIncome:
			balance = balance.Add(t.Amount)
		case domain.TransactionTypeExpense:
			balance = balance.Sub(t.Amount)
		}
	}
	return balance
}

// Runway is the number of months globalBalance lasts at burnRate per month
func Runway(globalBalance, burnRate decimal.Decimal) string {
	if !burnRate.IsPositive() {
		if globalBalance.IsZero() {
			return RunwayZero
		}
		return RunwayNoBurn
	}
	months := globalBalance.Div(burnRate)
	if months.GreaterThan(decimal.NewFromInt(runwayCapMonths)) {
		return RunwayCapped
	}
	return formatInt(roundHalfUp(months))
}

// findGlobalBudget returns the record for month; duplicates resolve to the
// most recently updated one.
func findGlobalBudget(month domain.MonthYear, budgets []*domain.GlobalBudget) *domain.GlobalBudget {
	var found *domain.GlobalBudget
	for _, b := range budgets {
		if b == nil || b.MonthYear != month {
			continue
		}
		if found == nil || newerRecord(b.UpdatedAt.UnixNano(), b.ID, found.UpdatedAt.UnixNano(), found.ID) {
			found = b
		}
	}
	return found
}

func findCategoryBudget(categoryID int32, month domain.MonthYear, budgets []*domain.CategoryBudget) *domain.CategoryBudget {
	var found *domain.CategoryBudget
	for _, b := range budgets {
		if b == nil || b.CategoryID != categoryID || b.MonthYear != month {
			continue
		}
		if found == nil || newerRecord(b.UpdatedAt.UnixNano(), b.ID, found.UpdatedAt.UnixNano(), found.ID) {
			found = b
		}
	}
	return found
}

func newerRecord(updatedA int64, idA int32, updatedB int64, idB int32) bool {
	if updatedA != updatedB {
		return updatedA > updatedB
	}
	return idA > idB
}

type categoryTotal struct {
	id     *int32
	name   string
	amount decimal.Decimal
}

// spendByCategory groups budgetable expenses by category id
func spendByCategory(txs []*domain.Transaction, categories []*domain.Category) []categoryTotal {
	byID := make(map[int32]int)
	uncategorized := -1
	var totals []categoryTotal

	for _, t := range txs {
		if !t.IsBudgetable() {
			continue
		}
		if t.CategoryID == nil {
			if uncategorized < 0 {
				uncategorized = len(totals)
				totals = append(totals, categoryTotal{name: UncategorizedName, amount: decimal.Zero})
			}
			totals[uncategorized].amount = totals[uncategorized].amount.Add(t.Amount)
			continue
		}
		idx, ok := byID[*t.CategoryID]
		if !ok {
			id := *t.CategoryID
			idx = len(totals)
			byID[id] = idx
			totals = append(totals, categoryTotal{id: &id, name: categoryName(t, categories), amount: decimal.Zero})
		}
		totals[idx].amount = totals[idx].amount.Add(t.Amount)
	}
	return totals
}

// rankCategoryTotals orders by amount descending; ties go to the lower
// category id, and uncategorized spend loses every tie.
func rankCategoryTotals(totals []categoryTotal) {
	slices.SortStableFunc(totals, func(a, b categoryTotal) int {
		if c := b.amount.Cmp(a.amount); c != 0 {
			return c
		}
		switch {
		case a.id == nil && b.id == nil:
			return 0
		case a.id == nil:
			return 1
		case b.id == nil:
			return -1
		}
		return cmp.Compare(*a.id, *b.id)
	})
}

func topCategory(monthTx []*domain.Transaction, categories []*domain.Category) TopCategory {
	totals := spendByCategory(monthTx, categories)
	if len(totals) == 0 {
		return TopCategory{Name: NoExpensesName, Amount: decimal.Zero}
	}
	rankCategoryTotals(totals)
	top := totals[0]
	return TopCategory{CategoryID: top.id, Name: top.name, Amount: top.amount}
}

func categoryName(t *domain.Transaction, categories []*domain.Category) string {
	if t.CategoryID != nil {
		for _, c := range categories {
			if c != nil && c.ID == *t.CategoryID {
				return c.Name
			}
		}
	}
	if t.CategoryName != nil && *t.CategoryName != "" {
		return *t.CategoryName
	}
	return UncategorizedName
}

func categoryMetrics(month domain.MonthYear, monthTx []*domain.Transaction, categories []*domain.Category,
	categoryBudgets []*domain.CategoryBudget) []CategoryMetric {
	used := make(map[int32]decimal.Decimal)
	for _, t := range monthTx {
		if t.IsBudgetable() && t.CategoryID != nil {
			used[*t.CategoryID] = used[*t.CategoryID].Add(t.Amount)
		}
	}

	metrics := make([]CategoryMetric, 0, len(categories))
	for _, c := range categories {
		if c == nil || c.Type != domain.TransactionTypeExpense {
			continue
		}
		limit := decimal.Zero
		if b := findCategoryBudget(c.ID, month, categoryBudgets); b != nil {
			limit = b.AmountLimit
		}
		spent := used[c.ID]

		var pct int64
		if limit.IsPositive() {
			pct = min(100, percentOf(spent, limit))
		}

		metrics = append(metrics, CategoryMetric{
			ID:        c.ID,
			Name:      c.Name,
			Icon:      c.Icon,
			Limit:     limit,
			Used:      spent,
			Remaining: decimal.Max(decimal.Zero, limit.Sub(spent)),
			Pct:       pct,
		})
	}
	slices.SortFunc(metrics, func(a, b CategoryMetric) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return metrics
}
