package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/supabase-community/supabase-go"

	"github.com/dkozlov/finance_assistant/internal/model"
)

// SupabaseRepository stores the ledger in three Supabase tables:
// expenses (append-only), budgets (one row per user+category) and users.
type SupabaseRepository struct {
	client *supabase.Client
}

func NewSupabaseRepository(url, key string) (*SupabaseRepository, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, err
	}

	return &SupabaseRepository{
		client: client,
	}, nil
}

func (r *SupabaseRepository) AppendExpense(ctx context.Context, expense *model.ExpenseRecord) error {
	data, _, err := r.client.From("expenses").Insert(expense, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to append expense: %w", err)
	}

	var created []model.ExpenseRecord
	if err := json.Unmarshal(data, &created); err != nil {
		return fmt.Errorf("failed to parse created expense: %w", err)
	}
	if len(created) > 0 {
		expense.ID = created[0].ID
		expense.CreatedAt = created[0].CreatedAt
	}
	return nil
}

func (r *SupabaseRepository) GetExpenses(ctx context.Context, userID int64, filter model.ExpenseFilter) ([]model.ExpenseRecord, error) {
	data, _, err := r.client.From("expenses").
		Select("*", "", false).
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Order("created_at.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}

	var expenses []model.ExpenseRecord
	if err := json.Unmarshal(data, &expenses); err != nil {
		return nil, fmt.Errorf("failed to parse expenses: %w", err)
	}

	// Month filtering happens client-side so the same filter semantics
	// apply to every Repository implementation.
	filtered := make([]model.ExpenseRecord, 0, len(expenses))
	for _, e := range expenses {
		if filter.Matches(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (r *SupabaseRepository) UpsertBudget(ctx context.Context, budget *model.BudgetRecord) error {
	_, _, err := r.client.From("budgets").
		Insert(budget, true, "user_id,category", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}
	return nil
}

func (r *SupabaseRepository) GetBudgets(ctx context.Context, userID int64) ([]model.BudgetRecord, error) {
	data, _, err := r.client.From("budgets").
		Select("*", "", false).
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Order("created_at.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get budgets: %w", err)
	}

	var budgets []model.BudgetRecord
	if err := json.Unmarshal(data, &budgets); err != nil {
		return nil, fmt.Errorf("failed to parse budgets: %w", err)
	}
	return budgets, nil
}

func (r *SupabaseRepository) GetUser(ctx context.Context, userID int64) (*model.UserProfile, error) {
	data, _, err := r.client.From("users").
		Select("*", "", false).
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var users []model.UserProfile
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (r *SupabaseRepository) UpsertUser(ctx context.Context, user *model.UserProfile) error {
	_, _, err := r.client.From("users").
		Insert(user, true, "user_id", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}
