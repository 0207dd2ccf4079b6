package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodash/internal/models"
	"prodash/internal/testutil"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPercentChange(t *testing.T) {
	tests := []struct {
		cur, prev string
		want      int64
	}{
		{"150", "100", 50},
		{"50", "100", -50},
		{"100", "100", 0},
		{"100", "0", 0},
		{"100", "-20", 0},
		{"1", "3", -67},
		{"2", "3", -33},
		{"100.5", "100", 1},
		{"100.49", "100", 0},
		{"99.5", "100", 0},
		{"0", "100", -100},
		{"300", "100", 200},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, percentChange(dec(tt.cur), dec(tt.prev)), "percentChange(%s, %s)", tt.cur, tt.prev)
	}
}

func TestMonthWindow(t *testing.T) {
	from, to := monthWindow(2024, 2)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC), to)

	from, to = monthWindow(2025, 12)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 12, 31, 23, 59, 59, 999999999, time.UTC), to)
}

func TestPreviousMonth(t *testing.T) {
	y, m := previousMonth(2025, 1)
	assert.Equal(t, 2024, y)
	assert.Equal(t, 12, m)

	y, m = previousMonth(2025, 7)
	assert.Equal(t, 2025, y)
	assert.Equal(t, 6, m)
}

func TestGetExpenseAnalytics_CategoryBreakdown(t *testing.T) {
	svc, user, done := newTestExpenseService(t)
	defer done()

	mar := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeExpense, "Food", "100", mar)
	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeExpense, "Food", "50", mar)
	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeExpense, "Food", "100", feb)

	analytics, err := svc.GetExpenseAnalytics(user.ID, 2025, 3)
	require.NoError(t, err)

	b := analytics.ExpenseBreakdown
	assert.True(t, b.Total.Equal(dec("150")), "total = %s", b.Total)
	assert.Equal(t, int64(50), b.Change)
	require.Len(t, b.Categories, 1)
	assert.Equal(t, "Food", b.Categories[0].Label)
	assert.True(t, b.Categories[0].Value.Equal(dec("150")))
}

func TestGetExpenseAnalytics_BreakdownIgnoresIncomeAndOthers(t *testing.T) {
	svc, user, done := newTestExpenseService(t)
	defer done()
	other := testutil.CreateTestUser(t, svc.db)

	mar := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeExpense, "Food", "20.25", mar)
	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeExpense, "Rent", "800", mar)
	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeExpense, "Food", "0.25", mar)
	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeIncome, "Salary", "3000", mar)
	testutil.CreateTestExpense(t, svc.db, other.ID, models.ExpenseTypeExpense, "Food", "999", mar)
	gone := testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeExpense, "Food", "500", mar)
	require.NoError(t, svc.SoftDeleteExpense(user.ID, gone.ID))

	analytics, err := svc.GetExpenseAnalytics(user.ID, 2025, 3)
	require.NoError(t, err)

	b := analytics.ExpenseBreakdown
	assert.True(t, b.Total.Equal(dec("820.50")), "total = %s", b.Total)
	assert.Equal(t, int64(0), b.Change, "no previous month spending")
	require.Len(t, b.Categories, 2)
	assert.Equal(t, "Rent", b.Categories[0].Label)
	assert.Equal(t, "Food", b.Categories[1].Label)
	assert.True(t, b.Categories[1].Value.Equal(dec("20.50")), "food = %s", b.Categories[1].Value)

	sum := decimal.Zero
	for _, c := range b.Categories {
		sum = sum.Add(c.Value)
	}
	assert.True(t, sum.Equal(b.Total))
}

func TestGetExpenseAnalytics_JanuaryComparesWithDecember(t *testing.T) {
	svc, user, done := newTestExpenseService(t)
	defer done()

	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeExpense, "Gifts", "200", time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeExpense, "Gifts", "50", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC))

	analytics, err := svc.GetExpenseAnalytics(user.ID, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(-75), analytics.ExpenseBreakdown.Change)
}

func TestGetExpenseAnalytics_IncomeVsExpense(t *testing.T) {
	svc, user, done := newTestExpenseService(t)
	defer done()

	at := func(m int) time.Time { return time.Date(2025, time.Month(m), 15, 0, 0, 0, 0, time.UTC) }
	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeIncome, "Salary", "1000", at(1))
	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeExpense, "Rent", "400", at(1))
	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeExpense, "Rent", "300", at(2))
	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeIncome, "Salary", "1000", at(3))
	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeIncome, "Bonus", "200", at(4))
	testutil.CreateTestExpense(t, svc.db, user.ID, models.ExpenseTypeIncome, "Salary", "1000", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC))

	analytics, err := svc.GetExpenseAnalytics(user.ID, 2025, 4)
	require.NoError(t, err)

	series := analytics.IncomeVsExpense
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr"}, series.Labels)
	require.Len(t, series.Values, 4)
	for i, want := range []string{"600", "-300", "1000", "200"} {
		assert.True(t, series.Values[i].Equal(dec(want)), "month %d net = %s, want %s", i+1, series.Values[i], want)
	}
	assert.Equal(t, int64(-80), series.Change)
}

func TestGetExpenseAnalytics_SingleMonthSeries(t *testing.T) {
	svc, user, done := newTestExpenseService(t)
	defer done()

	analytics, err := svc.GetExpenseAnalytics(user.ID, 2025, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jan"}, analytics.IncomeVsExpense.Labels)
	assert.Equal(t, int64(0), analytics.IncomeVsExpense.Change)
	assert.Empty(t, analytics.ExpenseBreakdown.Categories)
	assert.True(t, analytics.ExpenseBreakdown.Total.IsZero())
}

func TestGetExpenseAnalytics_InvalidMonth(t *testing.T) {
	svc := NewExpenseService(nil)
	_, err := svc.GetExpenseAnalytics(1, 2025, 0)
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}
