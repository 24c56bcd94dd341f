package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkozlov/finance_assistant/internal/model"
	"github.com/dkozlov/finance_assistant/internal/repository"
)

const testUser int64 = 42

func newTestLedger() *Ledger {
	return New(repository.NewMemoryRepository())
}

func TestPostExpense_NewCategory(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	record, err := l.PostExpense(ctx, testUser, 25, model.CategoryFood, "lunch", "Cash", "")
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, 25.0, record.Amount)
	assert.Equal(t, "ℹ️ New category - consider setting a budget", record.BudgetImpact)

	row, err := l.BudgetFor(ctx, testUser, model.CategoryFood)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 25.0, row.CurrentSpent)
	assert.Equal(t, model.StatusNoBudget, row.Status)
}

func TestPostExpense_RejectsNonPositiveAmount(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	_, err := l.PostExpense(ctx, testUser, 0, model.CategoryFood, "lunch", "Cash", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = l.PostExpense(ctx, testUser, -5, model.CategoryFood, "lunch", "Cash", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPostExpense_UnknownCategoryCoercesToOther(t *testing.T) {
	l := newTestLedger()

	record, err := l.PostExpense(context.Background(), testUser, 10, "Gadgets", "thing", "Cash", "")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryOther, record.Category)
}

func TestPostExpense_ImpactStrings(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	_, err := l.SetBudget(ctx, testUser, model.CategoryFood, 100)
	require.NoError(t, err)

	record, err := l.PostExpense(ctx, testUser, 50, model.CategoryFood, "lunch", "Cash", "")
	require.NoError(t, err)
	assert.Equal(t, "✅ Within budget (50.0% used)", record.BudgetImpact)

	record, err = l.PostExpense(ctx, testUser, 40, model.CategoryFood, "dinner", "Cash", "")
	require.NoError(t, err)
	assert.Equal(t, "⚠️ Will use 90.0% of budget", record.BudgetImpact)

	record, err = l.PostExpense(ctx, testUser, 20, model.CategoryFood, "groceries", "Cash", "")
	require.NoError(t, err)
	assert.Equal(t, "⚠️ Will exceed budget by $10.00", record.BudgetImpact)
}

func TestPostExpense_NoBudgetImpact(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	// Seed the row without giving it a budget.
	_, err := l.PostExpense(ctx, testUser, 10, model.CategoryFood, "snack", "Cash", "")
	require.NoError(t, err)

	record, err := l.PostExpense(ctx, testUser, 10, model.CategoryFood, "snack", "Cash", "")
	require.NoError(t, err)
	assert.Equal(t, "ℹ️ No budget set for this category", record.BudgetImpact)
}

// Posting 30 then 20 must leave the budget row exactly where a single
// 50 post would.
func TestPostExpense_SplitEqualsCombined(t *testing.T) {
	ctx := context.Background()

	split := newTestLedger()
	_, err := split.SetBudget(ctx, testUser, model.CategoryFood, 100)
	require.NoError(t, err)
	_, err = split.PostExpense(ctx, testUser, 30, model.CategoryFood, "lunch", "Cash", "")
	require.NoError(t, err)
	_, err = split.PostExpense(ctx, testUser, 20, model.CategoryFood, "coffee", "Cash", "")
	require.NoError(t, err)

	combined := newTestLedger()
	_, err = combined.SetBudget(ctx, testUser, model.CategoryFood, 100)
	require.NoError(t, err)
	_, err = combined.PostExpense(ctx, testUser, 50, model.CategoryFood, "lunch and coffee", "Cash", "")
	require.NoError(t, err)

	splitRow, err := split.BudgetFor(ctx, testUser, model.CategoryFood)
	require.NoError(t, err)
	combinedRow, err := combined.BudgetFor(ctx, testUser, model.CategoryFood)
	require.NoError(t, err)

	assert.Equal(t, combinedRow.CurrentSpent, splitRow.CurrentSpent)
	assert.Equal(t, combinedRow.Remaining, splitRow.Remaining)
	assert.Equal(t, combinedRow.Percentage, splitRow.Percentage)
	assert.Equal(t, combinedRow.Status, splitRow.Status)
}

func TestSetBudget_RecalculatesAgainstSpent(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	_, err := l.PostExpense(ctx, testUser, 100, model.CategoryFood, "groceries", "Cash", "")
	require.NoError(t, err)

	row, err := l.SetBudget(ctx, testUser, model.CategoryFood, 500)
	require.NoError(t, err)

	assert.Equal(t, 100.0, row.CurrentSpent)
	assert.Equal(t, 400.0, row.Remaining)
	assert.InDelta(t, 0.2, row.Percentage, 1e-9)
	assert.Equal(t, model.StatusOK, row.Status)
}

func TestSetBudget_Validation(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	_, err := l.SetBudget(ctx, testUser, model.CategoryFood, 0)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = l.SetBudget(ctx, testUser, "Gadgets", 100)
	assert.ErrorIs(t, err, ErrValidation)
}

// Status thresholds are strict: exactly 80% is OK, exactly 100% is
// WARNING, only beyond 100% is OVER_BUDGET.
func TestBudgetStatus_Boundaries(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	_, err := l.SetBudget(ctx, testUser, model.CategoryFood, 100)
	require.NoError(t, err)

	_, err = l.PostExpense(ctx, testUser, 80, model.CategoryFood, "groceries", "Cash", "")
	require.NoError(t, err)
	row, err := l.BudgetFor(ctx, testUser, model.CategoryFood)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOK, row.Status)

	_, err = l.PostExpense(ctx, testUser, 20, model.CategoryFood, "dinner", "Cash", "")
	require.NoError(t, err)
	row, err = l.BudgetFor(ctx, testUser, model.CategoryFood)
	require.NoError(t, err)
	assert.Equal(t, model.StatusWarning, row.Status)

	_, err = l.PostExpense(ctx, testUser, 50, model.CategoryFood, "party", "Cash", "")
	require.NoError(t, err)
	row, err = l.BudgetFor(ctx, testUser, model.CategoryFood)
	require.NoError(t, err)
	assert.Equal(t, model.StatusOverBudget, row.Status)
	assert.Equal(t, -50.0, row.Remaining)
}

func TestBudgetStatus_InsertionOrder(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	for _, c := range []model.Category{model.CategoryTravel, model.CategoryFood, model.CategoryBills} {
		_, err := l.SetBudget(ctx, testUser, c, 100)
		require.NoError(t, err)
	}

	rows, err := l.BudgetStatus(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, model.CategoryTravel, rows[0].Category)
	assert.Equal(t, model.CategoryFood, rows[1].Category)
	assert.Equal(t, model.CategoryBills, rows[2].Category)
}

func TestSetUserBalance_Validation(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	assert.ErrorIs(t, l.SetUserBalance(ctx, testUser, 0), ErrValidation)
	assert.ErrorIs(t, l.SetUserBalance(ctx, testUser, -100), ErrValidation)
	assert.NoError(t, l.SetUserBalance(ctx, testUser, 1500))
}

func TestSetupStatus(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	hasBalance, budgetCount, err := l.SetupStatus(ctx, testUser)
	require.NoError(t, err)
	assert.False(t, hasBalance)
	assert.Zero(t, budgetCount)

	require.NoError(t, l.SetUserBalance(ctx, testUser, 1500))
	_, err = l.SetBudget(ctx, testUser, model.CategoryFood, 500)
	require.NoError(t, err)
	_, err = l.SetBudget(ctx, testUser, model.CategoryTransport, 200)
	require.NoError(t, err)

	// A NO_BUDGET row created by an expense must not count as configured.
	_, err = l.PostExpense(ctx, testUser, 10, model.CategoryShopping, "book", "Cash", "")
	require.NoError(t, err)

	hasBalance, budgetCount, err = l.SetupStatus(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, hasBalance)
	assert.Equal(t, 2, budgetCount)
}

func TestUserState_Cache(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	state, err := l.UserState(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, model.StateNew, state)

	require.NoError(t, l.SaveUserState(ctx, testUser, model.StateAwaitingBalance))
	state, err = l.UserState(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, model.StateAwaitingBalance, state)
}

func TestSpendingSummary(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	_, err := l.PostExpense(ctx, testUser, 30, model.CategoryFood, "lunch", "Cash", "")
	require.NoError(t, err)
	_, err = l.PostExpense(ctx, testUser, 50, model.CategoryFood, "dinner", "Cash", "")
	require.NoError(t, err)
	_, err = l.PostExpense(ctx, testUser, 40, model.CategoryTransport, "gas", "Cash", "")
	require.NoError(t, err)

	record, err := l.PostExpense(ctx, testUser, 10, model.CategoryShopping, "book", "Cash", "")
	require.NoError(t, err)

	summary, err := l.SpendingSummary(ctx, testUser, record.Date.Month(), record.Date.Year())
	require.NoError(t, err)

	assert.Equal(t, 130.0, summary.TotalSpent)
	assert.Equal(t, 4, summary.TransactionCount)
	assert.InDelta(t, 32.5, summary.AverageTransaction, 1e-9)
	assert.Equal(t, model.CategoryFood, summary.TopCategory)
	assert.Equal(t, 80.0, summary.TopCategoryAmount)
	assert.Equal(t, 40.0, summary.CategoryBreakdown[model.CategoryTransport])
	assert.Equal(t, []model.Category{model.CategoryFood, model.CategoryTransport, model.CategoryShopping}, summary.CategoryOrder)
}

func TestSpendingSummary_EmptyMonth(t *testing.T) {
	l := newTestLedger()

	summary, err := l.SpendingSummary(context.Background(), testUser, 1, 2020)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalSpent)
	assert.Zero(t, summary.TransactionCount)
	assert.Zero(t, summary.AverageTransaction)
	assert.Empty(t, summary.CategoryOrder)
}

func TestConfiguredCategories(t *testing.T) {
	l := newTestLedger()
	ctx := context.Background()

	_, err := l.SetBudget(ctx, testUser, model.CategoryFood, 500)
	require.NoError(t, err)
	_, err = l.PostExpense(ctx, testUser, 10, model.CategoryShopping, "book", "Cash", "")
	require.NoError(t, err)

	configured, err := l.ConfiguredCategories(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, []model.Category{model.CategoryFood}, configured)
}
