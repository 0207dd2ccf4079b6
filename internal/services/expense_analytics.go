package services

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	apperrors "prodash/internal/errors"
	"prodash/internal/models"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.New(5, -1)
)

// GetExpenseAnalytics computes the category breakdown and the
// income-vs-expense series for a month. Nothing is cached or stored.
func (s *expenseService) GetExpenseAnalytics(userID uint, year, month int) (*ExpenseAnalytics, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, err
	}

	breakdown, err := s.expenseBreakdown(userID, year, month)
	if err != nil {
		return nil, err
	}

	series, err := s.incomeVsExpense(userID, year, month)
	if err != nil {
		return nil, err
	}

	return &ExpenseAnalytics{ExpenseBreakdown: *breakdown, IncomeVsExpense: *series}, nil
}

func (s *expenseService) expenseBreakdown(userID uint, year, month int) (*ExpenseBreakdown, error) {
	from, to := monthWindow(year, month)
	categories, err := s.categoryTotals(userID, from, to)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(c.Value)
	}

	prevYear, prevMonth := previousMonth(year, month)
	prevFrom, prevTo := monthWindow(prevYear, prevMonth)
	prevTotals, err := s.typeTotals(userID, prevFrom, prevTo)
	if err != nil {
		return nil, err
	}

	return &ExpenseBreakdown{
		Total:      total,
		Change:     percentChange(total, prevTotals[models.ExpenseTypeExpense]),
		Categories: categories,
	}, nil
}

// incomeVsExpense builds one net value per month from January through month.
func (s *expenseService) incomeVsExpense(userID uint, year, month int) (*IncomeVsExpense, error) {
	series := &IncomeVsExpense{
		Labels: make([]string, 0, month),
		Values: make([]decimal.Decimal, 0, month),
	}

	for m := 1; m <= month; m++ {
		from, to := monthWindow(year, m)
		totals, err := s.typeTotals(userID, from, to)
		if err != nil {
			return nil, err
		}
		net := totals[models.ExpenseTypeIncome].Sub(totals[models.ExpenseTypeExpense])
		series.Labels = append(series.Labels, time.Month(m).String()[:3])
		series.Values = append(series.Values, net)
	}

	if n := len(series.Values); n >= 2 {
		series.Change = percentChange(series.Values[n-1], series.Values[n-2])
	}
	return series, nil
}

// categoryTotals sums expense-type rows per category, largest first.
func (s *expenseService) categoryTotals(userID uint, from, to time.Time) ([]CategoryAmount, error) {
	var rows []struct {
		Category string
		Total    decimal.Decimal
	}
	err := s.db.Model(&models.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND type = ?", userID, models.ExpenseTypeExpense).
		Scopes(inWindow("expense_date", from, to)).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := make([]CategoryAmount, 0, len(rows))
	for _, r := range rows {
		out = append(out, CategoryAmount{Label: r.Category, Value: r.Total})
	}
	slices.SortFunc(out, func(a, b CategoryAmount) int {
		if c := b.Value.Cmp(a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out, nil
}

// typeTotals sums amounts per expense type. Missing types read as zero.
func (s *expenseService) typeTotals(userID uint, from, to time.Time) (map[models.ExpenseType]decimal.Decimal, error) {
	var rows []struct {
		Type  models.ExpenseType
		Total decimal.Decimal
	}
	err := s.db.Model(&models.Expense{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ?", userID).
		Scopes(inWindow("expense_date", from, to)).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := map[models.ExpenseType]decimal.Decimal{
		models.ExpenseTypeIncome:  decimal.Zero,
		models.ExpenseTypeExpense: decimal.Zero,
	}
	for _, r := range rows {
		totals[r.Type] = r.Total
	}
	return totals, nil
}

// percentChange is round((current-previous)/previous*100), halves rounded
// up. It is 0 unless previous is positive.
func percentChange(current, previous decimal.Decimal) int64 {
	if !previous.IsPositive() {
		return 0
	}
	return current.Sub(previous).Mul(hundred).Div(previous).Add(half).Floor().IntPart()
}
