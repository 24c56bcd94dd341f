package repository

import (
	"context"
	"sync"

	"github.com/dkozlov/finance_assistant/internal/model"
)

// MemoryRepository keeps the ledger in process memory. It backs tests and
// local runs without Supabase credentials. Budget insertion order is
// preserved per user, matching the table ordering of the Supabase store.
type MemoryRepository struct {
	mu       sync.Mutex
	expenses map[int64][]model.ExpenseRecord
	budgets  map[int64][]model.BudgetRecord
	users    map[int64]model.UserProfile
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		expenses: make(map[int64][]model.ExpenseRecord),
		budgets:  make(map[int64][]model.BudgetRecord),
		users:    make(map[int64]model.UserProfile),
	}
}

func (r *MemoryRepository) AppendExpense(ctx context.Context, expense *model.ExpenseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expenses[expense.UserID] = append(r.expenses[expense.UserID], *expense)
	return nil
}

func (r *MemoryRepository) GetExpenses(ctx context.Context, userID int64, filter model.ExpenseFilter) ([]model.ExpenseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ExpenseRecord, 0)
	for _, e := range r.expenses[userID] {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MemoryRepository) UpsertBudget(ctx context.Context, budget *model.BudgetRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.budgets[budget.UserID]
	for i := range rows {
		if rows[i].Category == budget.Category {
			rows[i] = *budget
			return nil
		}
	}
	r.budgets[budget.UserID] = append(rows, *budget)
	return nil
}

func (r *MemoryRepository) GetBudgets(ctx context.Context, userID int64) ([]model.BudgetRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.BudgetRecord, len(r.budgets[userID]))
	copy(out, r.budgets[userID])
	return out, nil
}

func (r *MemoryRepository) GetUser(ctx context.Context, userID int64) (*model.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *MemoryRepository) UpsertUser(ctx context.Context, user *model.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.UserID] = *user
	return nil
}
