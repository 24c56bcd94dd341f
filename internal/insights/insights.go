// Package insights builds the monthly spending report: current month
// aggregation, month-over-month movement and budget adjustment hints.
package insights

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dkozlov/finance_assistant/internal/ledger"
	"github.com/dkozlov/finance_assistant/internal/model"
)

// Budget hint thresholds against the monthly budget.
const (
	hintRaiseRatio = 1.2
	hintLowerRatio = 0.5
)

// Service produces report text from ledger aggregations.
type Service struct {
	ledger *ledger.Ledger
}

func NewService(l *ledger.Ledger) *Service {
	return &Service{ledger: l}
}

// MonthlyReport renders the full report for the current month.
func (s *Service) MonthlyReport(ctx context.Context, userID int64) (string, error) {
	now := time.Now()
	current, err := s.ledger.SpendingSummary(ctx, userID, now.Month(), now.Year())
	if err != nil {
		return "", fmt.Errorf("current month summary: %w", err)
	}

	prevTime := now.AddDate(0, -1, 0)
	previous, err := s.ledger.SpendingSummary(ctx, userID, prevTime.Month(), prevTime.Year())
	if err != nil {
		return "", fmt.Errorf("previous month summary: %w", err)
	}

	budgets, err := s.ledger.BudgetStatus(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("budget status: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Monthly Report - %s %d*\n\n", now.Month(), now.Year())

	fmt.Fprintf(&b, "💰 *Spending*\n")
	fmt.Fprintf(&b, "• Total: $%.2f across %d transactions\n", current.TotalSpent, current.TransactionCount)
	if current.TransactionCount > 0 {
		fmt.Fprintf(&b, "• Average transaction: $%.2f\n", current.AverageTransaction)
	}
	if current.TopCategory != "" {
		fmt.Fprintf(&b, "• Biggest category: %s ($%.2f)\n", current.TopCategory, current.TopCategoryAmount)
	}

	writeBreakdown(&b, current)
	writeComparison(&b, current, previous, prevTime)
	writeHints(&b, budgets)

	return b.String(), nil
}

func writeBreakdown(b *strings.Builder, current *ledger.SpendingSummary) {
	if len(current.CategoryOrder) == 0 {
		b.WriteString("\nNo expenses recorded this month yet.\n")
		return
	}

	type catAmount struct {
		category model.Category
		amount   float64
	}
	ranked := make([]catAmount, 0, len(current.CategoryOrder))
	for _, c := range current.CategoryOrder {
		ranked = append(ranked, catAmount{c, current.CategoryBreakdown[c]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].amount > ranked[j].amount })

	b.WriteString("\n📋 *By Category*\n")
	for _, ca := range ranked {
		share := 0.0
		if current.TotalSpent > 0 {
			share = ca.amount / current.TotalSpent * 100
		}
		fmt.Fprintf(b, "• %s: $%.2f (%.1f%%)\n", ca.category, ca.amount, share)
	}
}

func writeComparison(b *strings.Builder, current, previous *ledger.SpendingSummary, prevTime time.Time) {
	if previous.TransactionCount == 0 {
		return
	}

	b.WriteString("\n📈 *vs Last Month*\n")
	delta := current.TotalSpent - previous.TotalSpent
	switch {
	case previous.TotalSpent > 0 && delta > 0:
		fmt.Fprintf(b, "• Spending up $%.2f (%.1f%%) from %s\n", delta, delta/previous.TotalSpent*100, prevTime.Month())
	case previous.TotalSpent > 0 && delta < 0:
		fmt.Fprintf(b, "• Spending down $%.2f (%.1f%%) from %s\n", -delta, -delta/previous.TotalSpent*100, prevTime.Month())
	default:
		fmt.Fprintf(b, "• Spending level with %s\n", prevTime.Month())
	}

	// Call out the single category that moved the most.
	var mover model.Category
	var moverDelta float64
	for _, c := range model.Categories() {
		d := current.CategoryBreakdown[c] - previous.CategoryBreakdown[c]
		if math.Abs(d) > math.Abs(moverDelta) {
			mover, moverDelta = c, d
		}
	}
	if mover != "" && moverDelta != 0 {
		direction := "up"
		if moverDelta < 0 {
			direction = "down"
		}
		fmt.Fprintf(b, "• Biggest mover: %s, %s $%.2f\n", mover, direction, math.Abs(moverDelta))
	}
}

// writeHints suggests budget adjustments where usage is far off the
// configured amount.
func writeHints(b *strings.Builder, budgets []model.BudgetRecord) {
	var hints []string
	for _, row := range budgets {
		if row.MonthlyBudget <= 0 {
			if row.CurrentSpent > 0 {
				hints = append(hints, fmt.Sprintf("• %s has $%.2f spent but no budget - consider setting one", row.Category, row.CurrentSpent))
			}
			continue
		}
		switch {
		case row.Percentage > hintRaiseRatio:
			suggested := math.Ceil(row.CurrentSpent/50) * 50
			hints = append(hints, fmt.Sprintf("• %s is at %.0f%% of budget - consider raising it to $%.0f", row.Category, row.Percentage*100, suggested))
		case row.Percentage < hintLowerRatio && row.CurrentSpent > 0:
			hints = append(hints, fmt.Sprintf("• %s uses only %.0f%% of its budget - you could lower it and free up $%.2f", row.Category, row.Percentage*100, row.Remaining))
		}
	}
	if len(hints) == 0 {
		return
	}
	b.WriteString("\n💡 *Budget Hints*\n")
	b.WriteString(strings.Join(hints, "\n"))
	b.WriteString("\n")
}
