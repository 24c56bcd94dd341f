package ledger

import (
	"context"
	"time"

	"github.com/dkozlov/finance_assistant/internal/model"
)

// SpendingSummary aggregates one month of expenses.
type SpendingSummary struct {
	Month              time.Month
	Year               int
	TotalSpent         float64
	TransactionCount   int
	AverageTransaction float64
	CategoryBreakdown  map[model.Category]float64
	// CategoryOrder lists breakdown keys by first appearance, so callers
	// can render deterministically and top-category ties resolve to the
	// earliest-seen category.
	CategoryOrder     []model.Category
	TopCategory       model.Category
	TopCategoryAmount float64
}

// SpendingSummary computes the month's aggregation for a user. It is a
// pure read and observes a consistent snapshot of the store.
func (l *Ledger) SpendingSummary(ctx context.Context, userID int64, month time.Month, year int) (*SpendingSummary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	expenses, err := l.repo.GetExpenses(ctx, userID, model.ExpenseFilter{Month: month, Year: year})
	if err != nil {
		return nil, err
	}

	summary := &SpendingSummary{
		Month:             month,
		Year:              year,
		CategoryBreakdown: make(map[model.Category]float64),
	}

	for _, e := range expenses {
		summary.TotalSpent += e.Amount
		summary.TransactionCount++
		if _, seen := summary.CategoryBreakdown[e.Category]; !seen {
			summary.CategoryOrder = append(summary.CategoryOrder, e.Category)
		}
		summary.CategoryBreakdown[e.Category] += e.Amount
	}

	if summary.TransactionCount > 0 {
		summary.AverageTransaction = summary.TotalSpent / float64(summary.TransactionCount)
	}

	for _, c := range summary.CategoryOrder {
		if summary.CategoryBreakdown[c] > summary.TopCategoryAmount {
			summary.TopCategory = c
			summary.TopCategoryAmount = summary.CategoryBreakdown[c]
		}
	}
	return summary, nil
}

// DailySpending returns the summed spend per day for the month, keyed by
// "2006-01-02". Used by the trend chart.
func (l *Ledger) DailySpending(ctx context.Context, userID int64, month time.Month, year int) (map[string]float64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	expenses, err := l.repo.GetExpenses(ctx, userID, model.ExpenseFilter{Month: month, Year: year})
	if err != nil {
		return nil, err
	}

	daily := make(map[string]float64)
	for _, e := range expenses {
		daily[e.Date.Format("2006-01-02")] += e.Amount
	}
	return daily, nil
}
