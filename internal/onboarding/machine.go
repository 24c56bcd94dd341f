// Package onboarding walks a new user through initial setup: declaring a
// starting balance, then budgets for the priority categories.
package onboarding

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/dkozlov/finance_assistant/internal/ledger"
	"github.com/dkozlov/finance_assistant/internal/llm"
	"github.com/dkozlov/finance_assistant/internal/model"
)

// PriorityCategories are offered during setup, in this order. The rest
// of the category set stays reachable through normal budget commands.
var PriorityCategories = []model.Category{
	model.CategoryFood,
	model.CategoryTransport,
	model.CategoryShopping,
	model.CategoryBills,
	model.CategoryEntertainment,
}

const (
	// maxSetupBudget caps onboarding budget answers; typo protection for
	// people who merge their balance into the first budget prompt.
	maxSetupBudget = 10000

	// minBudgetsForDone is how many configured budgets "done" requires.
	minBudgetsForDone = 2
)

// Machine drives the setup conversation. It is stateless itself: the
// current state and the budget prompt cursor travel with the session.
type Machine struct {
	ledger    *ledger.Ledger
	completer llm.Completer
}

func NewMachine(l *ledger.Ledger, completer llm.Completer) *Machine {
	return &Machine{ledger: l, completer: completer}
}

// Result carries the reply plus the state and cursor the session should
// hold after this turn.
type Result struct {
	Reply  string
	State  model.UserState
	Cursor int
}

// Handle advances the setup conversation by one message.
func (m *Machine) Handle(ctx context.Context, userID int64, state model.UserState, cursor int, text string) Result {
	switch state {
	case model.StateAwaitingBalance:
		return m.handleBalance(ctx, userID, text)
	case model.StateAwaitingBudgets:
		return m.handleBudget(ctx, userID, cursor, text)
	default:
		return m.welcome(ctx, userID)
	}
}

// DeriveCursor recomputes the budget prompt position from the ledger:
// the first priority category without a configured budget. After a
// restart the conversation resumes exactly where the data says it is.
func (m *Machine) DeriveCursor(ctx context.Context, userID int64) int {
	configured, err := m.ledger.ConfiguredCategories(ctx, userID)
	if err != nil {
		return 0
	}
	have := make(map[model.Category]bool, len(configured))
	for _, c := range configured {
		have[c] = true
	}
	for i, c := range PriorityCategories {
		if !have[c] {
			return i
		}
	}
	return len(PriorityCategories)
}

func (m *Machine) welcome(ctx context.Context, userID int64) Result {
	if err := m.ledger.SaveUserState(ctx, userID, model.StateAwaitingBalance); err != nil {
		log.Printf("saving state for user %d: %v", userID, err)
	}
	return Result{
		Reply: `👋 *Welcome! I'm your personal finance assistant.*

I'll help you track expenses, manage budgets and understand where your money goes.

Let's get set up - it takes under a minute.

💰 First: what's your current account balance? Just send a number, e.g. "2500" or "$2,500".`,
		State: model.StateAwaitingBalance,
	}
}

func (m *Machine) handleBalance(ctx context.Context, userID int64, text string) Result {
	amount, ok := parseAmount(text)
	if !ok {
		amount, ok = m.extractAmountSemantic(ctx, text)
	}
	if !ok || amount <= 0 {
		return Result{
			Reply: `🤔 I couldn't read a balance from that.

Please send your current account balance as a number, e.g. "2500" or "$1,234.56". It doesn't have to be exact - you can update it later.`,
			State: model.StateAwaitingBalance,
		}
	}

	if err := m.ledger.SetUserBalance(ctx, userID, amount); err != nil {
		log.Printf("saving balance for user %d: %v", userID, err)
		return Result{
			Reply: "❌ I couldn't save that just now. Please send your balance again.",
			State: model.StateAwaitingBalance,
		}
	}
	if err := m.ledger.SaveUserState(ctx, userID, model.StateAwaitingBudgets); err != nil {
		log.Printf("saving state for user %d: %v", userID, err)
	}

	return Result{
		Reply: fmt.Sprintf(`✅ Balance saved: $%.2f

Now let's set some monthly budgets. I'll walk you through the main categories - for each one, send an amount, "skip" to move on, or "done" when you've set enough (at least %d).

📊 How much per month for *%s*?`, amount, minBudgetsForDone, PriorityCategories[0]),
		State:  model.StateAwaitingBudgets,
		Cursor: 0,
	}
}

func (m *Machine) handleBudget(ctx context.Context, userID int64, cursor int, text string) Result {
	lower := strings.ToLower(strings.TrimSpace(text))

	switch {
	case lower == "done":
		return m.tryFinish(ctx, userID, cursor)
	case lower == "skip":
		return m.advance(ctx, userID, cursor+1)
	}

	amount, ok := parseAmount(text)
	if !ok {
		return Result{
			Reply: fmt.Sprintf(`🤔 I didn't catch that.

For *%s*, send a monthly amount like "400", or "skip" to move on, or "done" to finish setup.`, currentCategory(cursor)),
			State:  model.StateAwaitingBudgets,
			Cursor: cursor,
		}
	}
	if amount <= 0 || amount > maxSetupBudget {
		return Result{
			Reply: fmt.Sprintf(`⚠️ That doesn't look like a monthly budget (I accept $1 to $%d during setup).

How much per month for *%s*? Or "skip" / "done".`, maxSetupBudget, currentCategory(cursor)),
			State:  model.StateAwaitingBudgets,
			Cursor: cursor,
		}
	}

	category := currentCategory(cursor)
	if _, err := m.ledger.SetBudget(ctx, userID, category, amount); err != nil {
		log.Printf("saving setup budget for user %d: %v", userID, err)
		return Result{
			Reply:  "❌ I couldn't save that budget just now. Please send the amount again.",
			State:  model.StateAwaitingBudgets,
			Cursor: cursor,
		}
	}

	next := m.advance(ctx, userID, cursor+1)
	next.Reply = fmt.Sprintf("✅ %s budget set to $%.2f\n\n%s", category, amount, next.Reply)
	return next
}

// advance moves the prompt to the next priority category, finishing or
// restarting the pass when the list is exhausted.
func (m *Machine) advance(ctx context.Context, userID int64, cursor int) Result {
	if cursor < len(PriorityCategories) {
		return Result{
			Reply:  fmt.Sprintf("📊 How much per month for *%s*? (or \"skip\" / \"done\")", PriorityCategories[cursor]),
			State:  model.StateAwaitingBudgets,
			Cursor: cursor,
		}
	}
	return m.tryFinish(ctx, userID, cursor)
}

func (m *Machine) tryFinish(ctx context.Context, userID int64, cursor int) Result {
	_, budgetCount, err := m.ledger.SetupStatus(ctx, userID)
	if err != nil {
		log.Printf("checking setup status for user %d: %v", userID, err)
	}
	if budgetCount >= minBudgetsForDone {
		return m.finish(ctx, userID)
	}

	// Not enough budgets: restart the pass at the first unset category.
	restart := m.DeriveCursor(ctx, userID)
	if restart >= len(PriorityCategories) {
		restart = 0
	}
	return Result{
		Reply: fmt.Sprintf(`ℹ️ I need at least %d budgets set before we finish - that's what makes the spending alerts useful.

📊 How much per month for *%s*? (or "skip")`, minBudgetsForDone, PriorityCategories[restart]),
		State:  model.StateAwaitingBudgets,
		Cursor: restart,
	}
}

func (m *Machine) finish(ctx context.Context, userID int64) Result {
	if err := m.ledger.SaveUserState(ctx, userID, model.StateActive); err != nil {
		log.Printf("saving state for user %d: %v", userID, err)
	}
	return Result{
		Reply: `🎉 *Setup complete!*

You're ready to go. From now on, just talk to me naturally:

💸 "Spent $25 on lunch" - I'll log and categorize it
💰 /balance - see your month at a glance
📊 /report - detailed report with charts
🎯 "Set budget for Travel $300" - budgets for any category

I'll warn you before any category goes over budget. What did you spend today?`,
		State: model.StateActive,
	}
}

func currentCategory(cursor int) model.Category {
	if cursor >= 0 && cursor < len(PriorityCategories) {
		return PriorityCategories[cursor]
	}
	return PriorityCategories[0]
}

var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?)`),
	regexp.MustCompile(`((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{1,2})?)`),
}

// parseAmount pulls a dollar amount out of free text. Dollar-prefixed
// numbers win over bare ones, commas are tolerated.
func parseAmount(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	for _, re := range amountPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		return amount, true
	}
	return 0, false
}

const extractBalancePromptFormat = `Extract the monetary amount from this message: %q

Return only the number, without currency symbols or commas.
If there is no monetary amount, return NONE.`

func (m *Machine) extractAmountSemantic(ctx context.Context, text string) (float64, bool) {
	reply, err := m.completer.Complete(ctx, fmt.Sprintf(extractBalancePromptFormat, text))
	if err != nil {
		return 0, false
	}
	reply = strings.TrimSpace(reply)
	if strings.EqualFold(reply, "NONE") {
		return 0, false
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(reply, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
