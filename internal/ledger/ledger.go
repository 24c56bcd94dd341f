package ledger

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dkozlov/finance_assistant/internal/model"
)

// Repository is the slice of the backing store the ledger needs.
type Repository interface {
	AppendExpense(ctx context.Context, expense *model.ExpenseRecord) error
	GetExpenses(ctx context.Context, userID int64, filter model.ExpenseFilter) ([]model.ExpenseRecord, error)
	UpsertBudget(ctx context.Context, budget *model.BudgetRecord) error
	GetBudgets(ctx context.Context, userID int64) ([]model.BudgetRecord, error)
	GetUser(ctx context.Context, userID int64) (*model.UserProfile, error)
	UpsertUser(ctx context.Context, user *model.UserProfile) error
}

// Ledger owns the expense and budget collections. Every mutating
// operation is one atomic read-modify-write under the store lock, so two
// expenses posting against the same category cannot lose an update.
type Ledger struct {
	mu   sync.RWMutex
	repo Repository
}

func New(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// PostExpense appends an expense record and advances the matching budget
// row, creating a NO_BUDGET row for a category seen for the first time.
// The record's BudgetImpact is computed from the post-update percentage.
// On a failed write the expense is not considered logged.
func (l *Ledger) PostExpense(ctx context.Context, userID int64, amount float64, category model.Category, description, paymentMethod, notes string) (*model.ExpenseRecord, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !model.ValidCategory(string(category)) {
		category = model.CategoryOther
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	budgets, err := l.repo.GetBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: reading budgets: %v", ErrPersistence, err)
	}

	row, known := findBudget(budgets, category)
	if !known {
		now := time.Now()
		row = model.BudgetRecord{
			UserID:    userID,
			Category:  category,
			CreatedAt: now,
		}
	}

	newSpent := row.CurrentSpent + amount
	impact := budgetImpact(row.MonthlyBudget, newSpent, known)

	now := time.Now()
	expense := &model.ExpenseRecord{
		UserID:        userID,
		Date:          time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Amount:        amount,
		Category:      category,
		Description:   description,
		PaymentMethod: paymentMethod,
		Notes:         notes,
		BudgetImpact:  impact,
		CreatedAt:     now,
	}
	expense.GenerateID()

	if err := l.repo.AppendExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("%w: writing expense: %v", ErrPersistence, err)
	}

	row.CurrentSpent = newSpent
	row.UpdatedAt = now
	row.Recalculate()
	if err := l.repo.UpsertBudget(ctx, &row); err != nil {
		return nil, fmt.Errorf("%w: updating budget tracking: %v", ErrPersistence, err)
	}

	log.Printf("posted expense user=%d amount=%.2f category=%q status=%s", userID, amount, category, row.Status)
	return expense, nil
}

// SetBudget creates or overwrites the monthly budget for a category and
// recomputes the derived fields against whatever is already spent.
func (l *Ledger) SetBudget(ctx context.Context, userID int64, category model.Category, amount float64) (*model.BudgetRecord, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: budget amount must be positive", ErrValidation)
	}
	if !model.ValidCategory(string(category)) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	budgets, err := l.repo.GetBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: reading budgets: %v", ErrPersistence, err)
	}

	now := time.Now()
	row, known := findBudget(budgets, category)
	if !known {
		row = model.BudgetRecord{
			UserID:    userID,
			Category:  category,
			CreatedAt: now,
		}
	}
	row.MonthlyBudget = amount
	row.UpdatedAt = now
	row.Recalculate()

	if err := l.repo.UpsertBudget(ctx, &row); err != nil {
		return nil, fmt.Errorf("%w: writing budget: %v", ErrPersistence, err)
	}
	return &row, nil
}

// BudgetStatus returns every budget row for the user in insertion order.
func (l *Ledger) BudgetStatus(ctx context.Context, userID int64) ([]model.BudgetRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.repo.GetBudgets(ctx, userID)
}

// BudgetFor returns the budget row for one category, or nil when the
// category has never been seen.
func (l *Ledger) BudgetFor(ctx context.Context, userID int64, category model.Category) (*model.BudgetRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	budgets, err := l.repo.GetBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}
	if row, ok := findBudget(budgets, category); ok {
		return &row, nil
	}
	return nil, nil
}

// SetUserBalance stores the user's declared balance. Zero and negative
// values are rejected.
func (l *Ledger) SetUserBalance(ctx context.Context, userID int64, balance float64) error {
	if balance <= 0 {
		return fmt.Errorf("%w: balance must be positive", ErrValidation)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	user, err := l.repo.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: reading user: %v", ErrPersistence, err)
	}
	if user == nil {
		user = &model.UserProfile{UserID: userID, State: model.StateNew.String()}
	}
	user.Balance = balance
	user.UpdatedAt = time.Now()
	if err := l.repo.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("%w: writing user: %v", ErrPersistence, err)
	}
	return nil
}

// SaveUserState caches the onboarding state on the profile row. The
// ledger contents stay the source of truth; see SetupStatus.
func (l *Ledger) SaveUserState(ctx context.Context, userID int64, state model.UserState) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	user, err := l.repo.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: reading user: %v", ErrPersistence, err)
	}
	if user == nil {
		user = &model.UserProfile{UserID: userID}
	}
	user.State = state.String()
	user.UpdatedAt = time.Now()
	if err := l.repo.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("%w: writing user: %v", ErrPersistence, err)
	}
	return nil
}

// UserState returns the onboarding state cached on the profile row.
// Callers should prefer SetupStatus; the cache only matters before any
// balance or budget exists to derive from.
func (l *Ledger) UserState(ctx context.Context, userID int64) (model.UserState, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	user, err := l.repo.GetUser(ctx, userID)
	if err != nil {
		return model.StateNew, err
	}
	if user == nil {
		return model.StateNew, nil
	}
	return model.ParseUserState(user.State), nil
}

// SetupStatus re-derives onboarding completeness from ledger contents
// alone: a stored positive balance and the number of budgets actually
// configured. A process restart must not re-trigger onboarding for a
// configured user.
func (l *Ledger) SetupStatus(ctx context.Context, userID int64) (hasBalance bool, budgetCount int, err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	user, err := l.repo.GetUser(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	if user != nil && user.Balance > 0 {
		hasBalance = true
	}

	budgets, err := l.repo.GetBudgets(ctx, userID)
	if err != nil {
		return hasBalance, 0, err
	}
	for _, b := range budgets {
		if b.MonthlyBudget > 0 {
			budgetCount++
		}
	}
	return hasBalance, budgetCount, nil
}

// ConfiguredCategories returns the categories that have a positive
// monthly budget, in insertion order.
func (l *Ledger) ConfiguredCategories(ctx context.Context, userID int64) ([]model.Category, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	budgets, err := l.repo.GetBudgets(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Category, 0, len(budgets))
	for _, b := range budgets {
		if b.MonthlyBudget > 0 {
			out = append(out, b.Category)
		}
	}
	return out, nil
}

func findBudget(budgets []model.BudgetRecord, category model.Category) (model.BudgetRecord, bool) {
	for _, b := range budgets {
		if b.Category == category {
			return b, true
		}
	}
	return model.BudgetRecord{}, false
}

// budgetImpact renders the pre-write impact string from the post-update
// spend total.
func budgetImpact(monthlyBudget, newSpent float64, knownCategory bool) string {
	if monthlyBudget <= 0 {
		if knownCategory {
			return "ℹ️ No budget set for this category"
		}
		return "ℹ️ New category - consider setting a budget"
	}
	pct := newSpent / monthlyBudget * 100
	switch {
	case pct > 100:
		return fmt.Sprintf("⚠️ Will exceed budget by $%.2f", newSpent-monthlyBudget)
	case pct > 80:
		return fmt.Sprintf("⚠️ Will use %.1f%% of budget", pct)
	default:
		return fmt.Sprintf("✅ Within budget (%.1f%% used)", pct)
	}
}
