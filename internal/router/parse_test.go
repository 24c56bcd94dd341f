package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkozlov/finance_assistant/internal/ledger"
	"github.com/dkozlov/finance_assistant/internal/model"
	"github.com/dkozlov/finance_assistant/internal/repository"
)

func TestParseExpense_SpentOn(t *testing.T) {
	parsed := ParseExpense("Spent $25 on lunch at Joe's")
	require.NotNil(t, parsed)
	assert.Equal(t, 25.0, parsed.Amount)
	assert.Equal(t, "lunch at Joe's", parsed.Description)
	assert.Equal(t, model.CategoryFood, parsed.Category)
}

func TestParseExpense_PaidFor(t *testing.T) {
	parsed := ParseExpense("Paid $150 for groceries")
	require.NotNil(t, parsed)
	assert.Equal(t, 150.0, parsed.Amount)
	assert.Equal(t, "groceries", parsed.Description)
	assert.Equal(t, model.CategoryFood, parsed.Category)
}

func TestParseExpense_TrailingAmount(t *testing.T) {
	parsed := ParseExpense("Gas $45")
	require.NotNil(t, parsed)
	assert.Equal(t, 45.0, parsed.Amount)
	assert.Equal(t, "Gas", parsed.Description)
	assert.Equal(t, model.CategoryTransport, parsed.Category)
}

func TestParseExpense_LeadingAmount(t *testing.T) {
	parsed := ParseExpense("$28 movie tickets")
	require.NotNil(t, parsed)
	assert.Equal(t, 28.0, parsed.Amount)
	assert.Equal(t, "movie tickets", parsed.Description)
	assert.Equal(t, model.CategoryEntertainment, parsed.Category)
}

func TestParseExpense_DecimalAmount(t *testing.T) {
	parsed := ParseExpense("coffee 4.75")
	require.NotNil(t, parsed)
	assert.Equal(t, 4.75, parsed.Amount)
	assert.Equal(t, model.CategoryFood, parsed.Category)
}

func TestParseExpense_PaymentMethod(t *testing.T) {
	parsed := ParseExpense("paid $30 for dinner on my credit card")
	require.NotNil(t, parsed)
	assert.Equal(t, "Credit Card", parsed.PaymentMethod)

	parsed = ParseExpense("paid $12 for lunch in cash")
	require.NotNil(t, parsed)
	assert.Equal(t, "Cash", parsed.PaymentMethod)

	parsed = ParseExpense("Gas $45")
	require.NotNil(t, parsed)
	assert.Equal(t, "Unknown", parsed.PaymentMethod)
}

func TestParseExpense_NoMatch(t *testing.T) {
	assert.Nil(t, ParseExpense("had a lovely day"))
	assert.Nil(t, ParseExpense(""))
}

func TestParseBudgetCommand(t *testing.T) {
	category, amount, ok := ParseBudgetCommand("Set budget for Food & Dining $500")
	require.True(t, ok)
	assert.Equal(t, model.CategoryFood, category)
	assert.Equal(t, 500.0, amount)

	category, amount, ok = ParseBudgetCommand("set my food budget to 400")
	require.True(t, ok)
	assert.Equal(t, model.CategoryFood, category)
	assert.Equal(t, 400.0, amount)

	category, amount, ok = ParseBudgetCommand("set entertainment budget at $75.50")
	require.True(t, ok)
	assert.Equal(t, model.CategoryEntertainment, category)
	assert.Equal(t, 75.50, amount)
}

func TestParseBudgetCommand_Rejects(t *testing.T) {
	_, _, ok := ParseBudgetCommand("set gibberish budget to 100")
	assert.False(t, ok)

	_, _, ok = ParseBudgetCommand("budget status")
	assert.False(t, ok)
}

func TestExtractExpenseSemantic(t *testing.T) {
	l := ledger.New(repository.NewMemoryRepository())
	ctx := context.Background()

	r := New(l, fixedCompleter{reply: `Sure! {"amount": 25, "description": "grabbing a bite", "category": "Food & Dining"}`}, nil)
	parsed := r.extractExpenseSemantic(ctx, "grabbed a bite with Sam, 25 bucks")
	require.NotNil(t, parsed)
	assert.Equal(t, 25.0, parsed.Amount)
	assert.Equal(t, model.CategoryFood, parsed.Category)

	// Unknown categories resolve through the keyword table.
	r = New(l, fixedCompleter{reply: `{"amount": 45, "description": "gas for the car", "category": "Fuel"}`}, nil)
	parsed = r.extractExpenseSemantic(ctx, "topped up, forty five")
	require.NotNil(t, parsed)
	assert.Equal(t, model.CategoryTransport, parsed.Category)

	// Non-JSON and null replies yield nothing.
	r = New(l, fixedCompleter{reply: "null"}, nil)
	assert.Nil(t, r.extractExpenseSemantic(ctx, "hello"))

	r = New(l, fixedCompleter{reply: `{"amount": 0, "description": "nothing"}`}, nil)
	assert.Nil(t, r.extractExpenseSemantic(ctx, "hello"))
}
