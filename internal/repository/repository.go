package repository

import (
	"context"

	"github.com/dkozlov/finance_assistant/internal/model"
)

// Repository is the persistent ledger backing store: append-only expenses,
// budgets upserted by (user, category), and per-user profile rows.
type Repository interface {
	// Expenses
	AppendExpense(ctx context.Context, expense *model.ExpenseRecord) error
	GetExpenses(ctx context.Context, userID int64, filter model.ExpenseFilter) ([]model.ExpenseRecord, error)

	// Budgets
	UpsertBudget(ctx context.Context, budget *model.BudgetRecord) error
	GetBudgets(ctx context.Context, userID int64) ([]model.BudgetRecord, error)

	// Users
	GetUser(ctx context.Context, userID int64) (*model.UserProfile, error)
	UpsertUser(ctx context.Context, user *model.UserProfile) error
}
