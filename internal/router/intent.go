package router

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/dkozlov/finance_assistant/internal/categorize"
	"github.com/dkozlov/finance_assistant/internal/model"
)

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentExpense  Intent = "EXPENSE"
	IntentBudget   Intent = "BUDGET"
	IntentBalance  Intent = "BALANCE"
	IntentInsights Intent = "INSIGHTS"
	IntentHelp     Intent = "HELP"
	IntentGeneral  Intent = "GENERAL"
)

var validIntents = map[Intent]bool{
	IntentExpense:  true,
	IntentBudget:   true,
	IntentBalance:  true,
	IntentInsights: true,
	IntentHelp:     true,
	IntentGeneral:  true,
}

var amountToken = regexp.MustCompile(`\$\s*\d|\d+(?:\.\d{1,2})?`)

var expenseVerbs = []string{"spent", "paid", "bought", "purchased"}

var budgetKeywords = []string{"budget", "limit", "allowance"}

var balanceKeywords = []string{"balance", "how much", "total", "summary", "account status"}

var insightsKeywords = []string{"report", "insight", "analysis", "analyze", "trend", "recommend", "pattern"}

var helpKeywords = []string{"help", "commands", "what can you do", "how do i"}

// Classify resolves a message to an intent. Tier one is a deterministic
// keyword match in fixed priority order; tier two asks the completion
// collaborator. Classification never fails outward: any ambiguity or
// collaborator error degrades to GENERAL.
func (r *Router) Classify(ctx context.Context, message string) Intent {
	if intent, ok := classifyKeyword(message); ok {
		return intent
	}
	return r.classifySemantic(ctx, message)
}

// classifyKeyword is the deterministic tier. EXPENSE is checked first:
// expense-indicating words are the most common and the most specific.
func classifyKeyword(message string) (Intent, bool) {
	lower := strings.ToLower(strings.TrimSpace(message))
	if lower == "" {
		return IntentGeneral, false
	}

	if looksLikeExpense(lower) {
		return IntentExpense, true
	}
	if containsAny(lower, budgetKeywords) {
		return IntentBudget, true
	}
	if containsAny(lower, balanceKeywords) {
		return IntentBalance, true
	}
	if containsAny(lower, insightsKeywords) {
		return IntentInsights, true
	}
	if containsAny(lower, helpKeywords) {
		return IntentHelp, true
	}
	return IntentGeneral, false
}

// looksLikeExpense requires an amount token plus an expense signal: an
// expense verb, a dollar sign, or a category noun. Messages that talk
// about budgets are excluded so "set food budget to 400" falls through
// to the BUDGET tier.
func looksLikeExpense(lower string) bool {
	if containsAny(lower, budgetKeywords) {
		return false
	}
	if !amountToken.MatchString(lower) {
		return false
	}
	if containsAny(lower, expenseVerbs) || strings.Contains(lower, "$") {
		return true
	}
	return categorize.Match(lower) != model.CategoryOther
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

const classifyPromptFormat = `Classify the user's intent from their message for a personal finance assistant.

Message: %q

Intent options:
EXPENSE - logging expenses, recording transactions
BUDGET - managing budgets, checking limits, modifying allocations
INSIGHTS - reports, analysis, spending patterns, recommendations
BALANCE - current balance, spending summaries, account status
HELP - commands, guidance, feature explanations
GENERAL - greetings, small talk, unclear requests

Examples:
"Spent $25 on lunch" -> EXPENSE
"Set budget for Food & Dining $500" -> BUDGET
"How am I doing this month?" -> BALANCE
"Show me my spending trends" -> INSIGHTS
"hi there" -> GENERAL

Return only the intent name.`

func (r *Router) classifySemantic(ctx context.Context, message string) Intent {
	reply, err := r.completer.Complete(ctx, fmt.Sprintf(classifyPromptFormat, message))
	if err != nil {
		log.Printf("semantic classification failed: %v", err)
		return IntentGeneral
	}

	// Take the first token and coerce anything outside the label set.
	label := strings.ToUpper(strings.TrimSpace(reply))
	if i := strings.IndexAny(label, " \n\t"); i > 0 {
		label = label[:i]
	}
	label = strings.Trim(label, `"'.`)
	if intent := Intent(label); validIntents[intent] {
		return intent
	}
	return IntentGeneral
}
