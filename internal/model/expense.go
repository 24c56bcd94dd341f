package model

import (
	"time"

	"github.com/google/uuid"
)

// ExpenseRecord is a single logged expense. Records are append-only and
// immutable once written.
type ExpenseRecord struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"user_id"`
	Date          time.Time `json:"date"`
	Amount        float64   `json:"amount"`
	Category      Category  `json:"category"`
	Description   string    `json:"description"`
	PaymentMethod string    `json:"payment_method"`
	Notes         string    `json:"notes"`
	BudgetImpact  string    `json:"budget_impact"`
	CreatedAt     time.Time `json:"created_at"`
}

// GenerateID assigns a new UUID if the record does not have one yet.
func (e *ExpenseRecord) GenerateID() {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
}

// ExpenseFilter narrows expense scans to a single month.
type ExpenseFilter struct {
	Month time.Month
	Year  int
}

// Matches reports whether the record falls inside the filter period.
// A zero filter matches everything.
func (f ExpenseFilter) Matches(e ExpenseRecord) bool {
	if f.Year == 0 {
		return true
	}
	return e.Date.Month() == f.Month && e.Date.Year() == f.Year
}
