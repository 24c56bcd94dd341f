package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkozlov/finance_assistant/internal/ledger"
	"github.com/dkozlov/finance_assistant/internal/llm"
	"github.com/dkozlov/finance_assistant/internal/repository"
)

// newTestRouter runs with the completer disabled, so everything past the
// keyword tier degrades to GENERAL.
func newTestRouter() *Router {
	l := ledger.New(repository.NewMemoryRepository())
	return New(l, llm.Disabled{}, nil)
}

func TestClassify_Expense(t *testing.T) {
	r := newTestRouter()
	ctx := context.Background()

	for _, msg := range []string{
		"Spent $25 on lunch at Joe's",
		"Paid $150 for groceries",
		"Gas $45",
		"$28 movie tickets",
		"bought a book for 12.50",
	} {
		assert.Equal(t, IntentExpense, r.Classify(ctx, msg), "message %q", msg)
	}
}

func TestClassify_Budget(t *testing.T) {
	r := newTestRouter()
	ctx := context.Background()

	for _, msg := range []string{
		"Set budget for Food & Dining $500",
		"set my food budget to 400",
		"what's my spending limit?",
		"budget status",
	} {
		assert.Equal(t, IntentBudget, r.Classify(ctx, msg), "message %q", msg)
	}
}

// "spent" alone must not force EXPENSE: without an amount the message is
// a question about spending, not a transaction.
func TestClassify_BalanceQuestionsWithExpenseWords(t *testing.T) {
	r := newTestRouter()
	ctx := context.Background()

	assert.Equal(t, IntentBalance, r.Classify(ctx, "How much have I spent this month?"))
	assert.Equal(t, IntentBalance, r.Classify(ctx, "what's my balance"))
	assert.Equal(t, IntentBalance, r.Classify(ctx, "show me a summary"))
}

func TestClassify_Insights(t *testing.T) {
	r := newTestRouter()
	ctx := context.Background()

	assert.Equal(t, IntentInsights, r.Classify(ctx, "show me my spending trends"))
	assert.Equal(t, IntentInsights, r.Classify(ctx, "monthly report please"))
}

func TestClassify_Help(t *testing.T) {
	r := newTestRouter()
	ctx := context.Background()

	assert.Equal(t, IntentHelp, r.Classify(ctx, "help"))
	assert.Equal(t, IntentHelp, r.Classify(ctx, "what can you do?"))
}

func TestClassify_FallsBackToGeneral(t *testing.T) {
	r := newTestRouter()
	ctx := context.Background()

	assert.Equal(t, IntentGeneral, r.Classify(ctx, "hi there"))
	assert.Equal(t, IntentGeneral, r.Classify(ctx, ""))
}

type fixedCompleter struct {
	reply string
}

func (c fixedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return c.reply, nil
}

func TestClassifySemantic_CoercesUnknownLabels(t *testing.T) {
	l := ledger.New(repository.NewMemoryRepository())
	ctx := context.Background()

	r := New(l, fixedCompleter{reply: "BALANCE"}, nil)
	assert.Equal(t, IntentBalance, r.Classify(ctx, "how am I doing?"))

	r = New(l, fixedCompleter{reply: "balance - the user wants a summary"}, nil)
	assert.Equal(t, IntentBalance, r.Classify(ctx, "how am I doing?"))

	r = New(l, fixedCompleter{reply: "SOMETHING_ELSE"}, nil)
	assert.Equal(t, IntentGeneral, r.Classify(ctx, "how am I doing?"))
}
