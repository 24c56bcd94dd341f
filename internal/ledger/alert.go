package ledger

import (
	"fmt"

	"github.com/dkozlov/finance_assistant/internal/model"
)

// Alert thresholds as fractions of the monthly budget, checked against
// the projected spend (spent so far plus the expense being posted).
const (
	alertWarning  = 0.8
	alertCritical = 1.0
	alertSevere   = 1.2
)

// EvaluateAlert returns the alert to surface alongside an expense
// confirmation, evaluated before the ledger write commits the new spend.
// It returns ok=false when no alert applies or no budget is set.
func EvaluateAlert(category model.Category, spentBefore, newAmount, monthlyBudget float64) (string, bool) {
	if monthlyBudget <= 0 {
		return "", false
	}

	projected := spentBefore + newAmount
	ratio := projected / monthlyBudget

	switch {
	case ratio >= alertSevere:
		return fmt.Sprintf("🚨 CRITICAL: %s budget exceeded by $%.2f!", category, projected-monthlyBudget), true
	case ratio >= alertCritical:
		return fmt.Sprintf("🔴 ALERT: %s budget limit reached!", category), true
	case ratio >= alertWarning:
		return fmt.Sprintf("🟡 WARNING: %s approaching budget limit (%.1f%% used)", category, ratio*100), true
	default:
		return "", false
	}
}
