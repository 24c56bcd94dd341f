package model

import "time"

// BudgetStatus is the derived health tier of a budget row.
type BudgetStatus string

const (
	StatusNoBudget   BudgetStatus = "NO_BUDGET"
	StatusOK         BudgetStatus = "OK"
	StatusWarning    BudgetStatus = "WARNING"
	StatusOverBudget BudgetStatus = "OVER_BUDGET"
)

// BudgetRecord tracks one category's monthly budget for a user. A zero
// MonthlyBudget means no budget has been set. Remaining, Percentage and
// Status are derived; Recalculate is the only place they are computed, so
// they can never be stored stale relative to MonthlyBudget/CurrentSpent.
type BudgetRecord struct {
	UserID        int64        `json:"user_id"`
	Category      Category     `json:"category"`
	MonthlyBudget float64      `json:"monthly_budget"`
	CurrentSpent  float64      `json:"current_spent"`
	Remaining     float64      `json:"remaining"`
	Percentage    float64      `json:"percentage"`
	Status        BudgetStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Recalculate recomputes the derived fields from MonthlyBudget and
// CurrentSpent. Percentage is left at 0 when no budget is set; the
// formatting layer renders it as "N/A".
func (b *BudgetRecord) Recalculate() {
	b.Remaining = b.MonthlyBudget - b.CurrentSpent
	if b.MonthlyBudget <= 0 {
		b.Percentage = 0
		b.Status = StatusNoBudget
		return
	}
	b.Percentage = b.CurrentSpent / b.MonthlyBudget
	switch {
	case b.Percentage > 1.0:
		b.Status = StatusOverBudget
	case b.Percentage > 0.8:
		b.Status = StatusWarning
	default:
		b.Status = StatusOK
	}
}
