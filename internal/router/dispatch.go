package router

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/dkozlov/finance_assistant/internal/ledger"
	"github.com/dkozlov/finance_assistant/internal/llm"
	"github.com/dkozlov/finance_assistant/internal/model"
)

// ReportGenerator produces the insights report for a user. It is invoked
// for the INSIGHTS intent and by the /report command.
type ReportGenerator interface {
	MonthlyReport(ctx context.Context, userID int64) (string, error)
}

// Router classifies active-user messages and dispatches them to the
// ledger or to the report collaborator.
type Router struct {
	ledger    *ledger.Ledger
	completer llm.Completer
	reports   ReportGenerator
}

func New(l *ledger.Ledger, completer llm.Completer, reports ReportGenerator) *Router {
	return &Router{
		ledger:    l,
		completer: completer,
		reports:   reports,
	}
}

// Response tags recorded in the conversation context. The session loop
// guard keys off the "general" prefix.
const (
	TagExpenseLogged  = "expense_logged"
	TagExpenseUnclear = "expense_unclear"
	TagExpenseFailed  = "expense_failed"
	TagBudget         = "budget"
	TagBalance        = "balance"
	TagInsights       = "insights"
	TagHelp           = "help"
	TagGeneralGreet   = "general_greeting"
	TagGeneralThanks  = "general_thanks"
	TagGeneralUnclear = "general_unclear"
)

// Dispatch executes the classified intent and returns the reply text plus
// the response tag for the conversation context. It never returns an
// error: every failure path produces next-step guidance instead.
func (r *Router) Dispatch(ctx context.Context, intent Intent, message string, userID int64) (string, string) {
	switch intent {
	case IntentExpense:
		return r.handleExpense(ctx, message, userID)
	case IntentBudget:
		return r.handleBudget(ctx, message, userID)
	case IntentBalance:
		return r.handleBalance(ctx, userID), TagBalance
	case IntentInsights:
		return r.handleInsights(ctx, userID), TagInsights
	case IntentHelp:
		return helpText, TagHelp
	default:
		return handleGeneral(message)
	}
}

func (r *Router) handleExpense(ctx context.Context, message string, userID int64) (string, string) {
	parsed := ParseExpense(message)
	if parsed == nil {
		parsed = r.extractExpenseSemantic(ctx, message)
	}
	if parsed == nil {
		return expenseUnclearText, TagExpenseUnclear
	}

	// The alert is evaluated against the pre-commit spend so it can be
	// surfaced alongside the confirmation.
	var spentBefore, monthlyBudget float64
	if row, err := r.ledger.BudgetFor(ctx, userID, parsed.Category); err == nil && row != nil {
		spentBefore = row.CurrentSpent
		monthlyBudget = row.MonthlyBudget
	}
	alert, hasAlert := ledger.EvaluateAlert(parsed.Category, spentBefore, parsed.Amount, monthlyBudget)

	record, err := r.ledger.PostExpense(ctx, userID, parsed.Amount, parsed.Category, parsed.Description, parsed.PaymentMethod, "")
	if err != nil {
		if errors.Is(err, ledger.ErrValidation) {
			return expenseUnclearText, TagExpenseUnclear
		}
		log.Printf("post expense failed for user %d: %v", userID, err)
		return "❌ I couldn't save that expense just now. Please try sending it again in a moment.", TagExpenseFailed
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ *Expense logged!*\n\n")
	fmt.Fprintf(&b, "💰 Amount: $%.2f\n", record.Amount)
	fmt.Fprintf(&b, "📝 Description: %s\n", record.Description)
	fmt.Fprintf(&b, "📊 Category: %s\n", record.Category)
	fmt.Fprintf(&b, "💳 Payment: %s\n\n", record.PaymentMethod)
	b.WriteString(record.BudgetImpact)
	if hasAlert {
		b.WriteString("\n\n")
		b.WriteString(alert)
	}
	return b.String(), TagExpenseLogged
}

func (r *Router) handleBudget(ctx context.Context, message string, userID int64) (string, string) {
	if category, amount, ok := ParseBudgetCommand(message); ok {
		row, err := r.ledger.SetBudget(ctx, userID, category, amount)
		if err != nil {
			if errors.Is(err, ledger.ErrValidation) {
				return "❌ Budget amounts must be positive. Try e.g. \"Set budget for Food & Dining $500\".", TagBudget
			}
			log.Printf("set budget failed for user %d: %v", userID, err)
			return "❌ I couldn't save that budget just now. Please try again in a moment.", TagBudget
		}
		return formatBudgetSet(row), TagBudget
	}

	lower := strings.ToLower(message)
	if containsAny(lower, []string{"status", "overview", "check", "show"}) {
		return r.formatBudgetStatus(ctx, userID), TagBudget
	}
	return budgetHelpText, TagBudget
}

func formatBudgetSet(row *model.BudgetRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ *Budget set!*\n\n")
	fmt.Fprintf(&b, "📊 Category: %s\n", row.Category)
	fmt.Fprintf(&b, "💰 Monthly budget: $%.2f\n", row.MonthlyBudget)
	fmt.Fprintf(&b, "💸 Spent so far: $%.2f\n", row.CurrentSpent)
	fmt.Fprintf(&b, "💵 Remaining: $%.2f\n", row.Remaining)

	switch row.Status {
	case model.StatusOverBudget:
		fmt.Fprintf(&b, "\n⚠️ You've already exceeded this budget by $%.2f this month.", -row.Remaining)
	case model.StatusWarning:
		fmt.Fprintf(&b, "\n⚠️ You've already used %.1f%% of this budget.", row.Percentage*100)
	default:
		fmt.Fprintf(&b, "\n✅ On track: %.1f%% used.", row.Percentage*100)
	}
	return b.String()
}

func (r *Router) formatBudgetStatus(ctx context.Context, userID int64) string {
	rows, err := r.ledger.BudgetStatus(ctx, userID)
	if err != nil {
		log.Printf("budget status failed for user %d: %v", userID, err)
		return "❌ I couldn't read your budgets just now. Please try again in a moment."
	}
	if len(rows) == 0 {
		return "📊 *Budget Status*\n\nNo budgets set yet. Try: \"Set budget for Food & Dining $500\""
	}

	var b strings.Builder
	b.WriteString("📊 *Current Budget Status*\n\n")

	var totalBudget, totalSpent float64
	var alerts []string
	for _, row := range rows {
		totalBudget += row.MonthlyBudget
		totalSpent += row.CurrentSpent

		emoji := "⚪"
		switch row.Status {
		case model.StatusOverBudget:
			emoji = "🔴"
			alerts = append(alerts, fmt.Sprintf("• %s: over budget by $%.2f", row.Category, -row.Remaining))
		case model.StatusWarning:
			emoji = "🟡"
			alerts = append(alerts, fmt.Sprintf("• %s: approaching limit ($%.2f left)", row.Category, row.Remaining))
		case model.StatusOK:
			emoji = "🟢"
		}

		if row.MonthlyBudget > 0 {
			fmt.Fprintf(&b, "%s *%s*\n   Budget: $%.2f | Spent: $%.2f (%.1f%%)\n   Remaining: $%.2f\n\n",
				emoji, row.Category, row.MonthlyBudget, row.CurrentSpent, row.Percentage*100, row.Remaining)
		} else {
			fmt.Fprintf(&b, "%s *%s*\n   No budget set | Spent: $%.2f (N/A)\n\n",
				emoji, row.Category, row.CurrentSpent)
		}
	}

	if totalBudget > 0 {
		fmt.Fprintf(&b, "💰 *Overall*\nTotal budget: $%.2f\nTotal spent: $%.2f (%.1f%%)\nTotal remaining: $%.2f\n",
			totalBudget, totalSpent, totalSpent/totalBudget*100, totalBudget-totalSpent)
	}
	if len(alerts) > 0 {
		b.WriteString("\n⚠️ *Budget Alerts*\n")
		b.WriteString(strings.Join(alerts, "\n"))
	}
	return b.String()
}

func (r *Router) handleBalance(ctx context.Context, userID int64) string {
	now := time.Now()
	summary, err := r.ledger.SpendingSummary(ctx, userID, now.Month(), now.Year())
	if err != nil {
		log.Printf("spending summary failed for user %d: %v", userID, err)
		return "❌ I couldn't read your spending just now. Please try again in a moment."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💰 *Balance Summary - %s %d*\n\n", now.Month(), now.Year())
	fmt.Fprintf(&b, "📊 *Overview*\n")
	fmt.Fprintf(&b, "• Total spent: $%.2f\n", summary.TotalSpent)
	fmt.Fprintf(&b, "• Transactions: %d\n", summary.TransactionCount)
	fmt.Fprintf(&b, "• Average per transaction: $%.2f\n\n", summary.AverageTransaction)

	b.WriteString("🏆 *Top Categories*\n")
	if len(summary.CategoryOrder) == 0 {
		b.WriteString("No expenses recorded this month.\n")
	} else {
		type catAmount struct {
			category model.Category
			amount   float64
		}
		ranked := make([]catAmount, 0, len(summary.CategoryOrder))
		for _, c := range summary.CategoryOrder {
			ranked = append(ranked, catAmount{c, summary.CategoryBreakdown[c]})
		}
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].amount > ranked[j].amount })
		if len(ranked) > 5 {
			ranked = ranked[:5]
		}
		for i, ca := range ranked {
			share := 0.0
			if summary.TotalSpent > 0 {
				share = ca.amount / summary.TotalSpent * 100
			}
			fmt.Fprintf(&b, "%d. %s: $%.2f (%.1f%%)\n", i+1, ca.category, ca.amount, share)
		}
	}

	rows, err := r.ledger.BudgetStatus(ctx, userID)
	if err == nil && len(rows) > 0 {
		var over, warning []string
		for _, row := range rows {
			switch row.Status {
			case model.StatusOverBudget:
				over = append(over, string(row.Category))
			case model.StatusWarning:
				warning = append(warning, string(row.Category))
			}
		}
		if len(over) > 0 {
			fmt.Fprintf(&b, "\n⚠️ *Over budget:* %s", strings.Join(over, ", "))
		}
		if len(warning) > 0 {
			fmt.Fprintf(&b, "\n🟡 *Approaching limit:* %s", strings.Join(warning, ", "))
		}
		if len(over) == 0 && len(warning) == 0 {
			b.WriteString("\n✅ *All categories within budget!*")
		}
	}
	return b.String()
}

func (r *Router) handleInsights(ctx context.Context, userID int64) string {
	report, err := r.reports.MonthlyReport(ctx, userID)
	if err != nil {
		log.Printf("insights report failed for user %d: %v", userID, err)
		return "❌ I couldn't build your report just now. Please try again in a moment."
	}
	return report
}

var greetings = []string{"hi", "hello", "hey", "good morning", "good evening"}

func handleGeneral(message string) (string, string) {
	lower := strings.ToLower(strings.TrimSpace(message))

	if containsAny(lower, greetings) || lower == "" {
		return greetingText, TagGeneralGreet
	}
	if strings.Contains(lower, "thank") || strings.Contains(lower, "thx") {
		return "🙏 You're welcome! Happy to help with your finances. Need anything else?", TagGeneralThanks
	}
	return unclearText, TagGeneralUnclear
}

const helpText = `🤖 *Personal Finance Assistant Help*

📝 *Logging expenses* - just type naturally:
• "Spent $25 on lunch at Joe's"
• "Gas $45"
• "$28 movie tickets"

💰 *Budgets*
• "Set budget for Food & Dining $500"
• "budget status" - view all budgets

📊 *Reports & analysis*
• /balance - current month summary
• /report - detailed monthly report with charts

💡 I understand natural language - just tell me what you spent money on and I'll categorize it, track your budgets and warn you before you overspend.`

const expenseUnclearText = `🤔 I couldn't identify an expense in your message.

Try formats like:
• "Spent $25 on lunch"
• "Gas $45"
• "Paid $150 for groceries"
• "$28 movie tickets"

Or just tell me what you spent money on!`

const greetingText = `👋 *Hello! I'm your personal finance assistant.*

I help you track expenses, manage budgets and understand your spending.

Quick start:
• Tell me about an expense: "Spent $25 on lunch"
• Check your month: /balance
• Set a budget: "Set budget for Food & Dining $500"
• Get help: /help

What would you like to do? 💰`

const unclearText = `🤔 I'm not sure what you'd like to do. Here are some things I can help with:

💸 Log an expense: "Spent $20 on groceries"
💰 Check your month: /balance
📊 View reports: /report
🎯 Manage budgets: "budget status"
❓ Get help: /help`

const budgetHelpText = `📊 *Budget Commands*

• "Set budget for [category] $[amount]" - set a monthly budget
• "budget status" - show all budgets

Examples:
• "Set budget for Food & Dining $500"
• "Set budget for Transportation $200"`
