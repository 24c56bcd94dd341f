package router

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dkozlov/finance_assistant/internal/categorize"
	"github.com/dkozlov/finance_assistant/internal/model"
)

// ParsedExpense is the result of extracting an expense from free text.
type ParsedExpense struct {
	Amount        float64
	Description   string
	Category      model.Category
	PaymentMethod string
}

// expenseStrategy is one pure extraction attempt. Strategies run in a
// fixed order; the first non-nil result wins. The order matters for
// disambiguation ("$X for Y" must be tried before "Y $X") and must not
// be changed.
type expenseStrategy func(text string) *ParsedExpense

var (
	spentOnPattern   = regexp.MustCompile(`(?i)(?:spent|paid)\s+\$?(\d+(?:\.\d{1,2})?)\s+(?:on|for)\s+(.+)`)
	amountForPattern = regexp.MustCompile(`(?i)\$?(\d+(?:\.\d{1,2})?)\s+(?:for|on)\s+(.+)`)
	trailingPattern  = regexp.MustCompile(`(?i)^(.+?)\s+\$?(\d+(?:\.\d{1,2})?)$`)
	leadingPattern   = regexp.MustCompile(`(?i)^\$?(\d+(?:\.\d{1,2})?)\s+(.+)$`)
)

var expenseStrategies = []expenseStrategy{
	matchAmountDescription(spentOnPattern),
	matchAmountDescription(amountForPattern),
	matchDescriptionAmount(trailingPattern),
	matchAmountDescription(leadingPattern),
}

func matchAmountDescription(re *regexp.Regexp) expenseStrategy {
	return func(text string) *ParsedExpense {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return nil
		}
		return buildParsed(m[1], m[2], text)
	}
}

func matchDescriptionAmount(re *regexp.Regexp) expenseStrategy {
	return func(text string) *ParsedExpense {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return nil
		}
		return buildParsed(m[2], m[1], text)
	}
}

func buildParsed(amountText, description, raw string) *ParsedExpense {
	amount, err := strconv.ParseFloat(amountText, 64)
	if err != nil || amount <= 0 {
		return nil
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil
	}
	return &ParsedExpense{
		Amount:        amount,
		Description:   description,
		Category:      categorize.Match(description),
		PaymentMethod: detectPaymentMethod(raw),
	}
}

func detectPaymentMethod(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "credit"):
		return "Credit Card"
	case strings.Contains(lower, "debit"):
		return "Debit Card"
	case strings.Contains(lower, "cash"):
		return "Cash"
	default:
		return "Unknown"
	}
}

// ParseExpense runs the deterministic strategy cascade.
func ParseExpense(text string) *ParsedExpense {
	text = strings.TrimSpace(text)
	for _, strategy := range expenseStrategies {
		if parsed := strategy(text); parsed != nil {
			return parsed
		}
	}
	return nil
}

const extractPromptFormat = `Extract expense information from this text: %q

Return a JSON object with fields:
- "amount": numeric value (required)
- "description": brief description of the expense (required)
- "category": one of %s (required)

If this does not describe an expense, return null.

Examples:
"Spent 25 bucks grabbing a bite with Sam" -> {"amount": 25, "description": "grabbing a bite with Sam", "category": "Food & Dining"}
"topped up the car yesterday, forty five" -> {"amount": 45, "description": "topped up the car", "category": "Transportation"}`

var jsonObjectPattern = regexp.MustCompile(`\{[^{}]*\}`)

// extractExpenseSemantic is the final strategy: ask the collaborator for
// JSON and parse it defensively. The completion is never trusted to be
// clean structured output.
func (r *Router) extractExpenseSemantic(ctx context.Context, text string) *ParsedExpense {
	categoryNames := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		categoryNames = append(categoryNames, string(c))
	}
	prompt := fmt.Sprintf(extractPromptFormat, text, strings.Join(categoryNames, ", "))

	reply, err := r.completer.Complete(ctx, prompt)
	if err != nil {
		return nil
	}

	raw := jsonObjectPattern.FindString(reply)
	if raw == "" {
		return nil
	}

	var payload struct {
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}
	if payload.Amount <= 0 || payload.Description == "" {
		return nil
	}

	category := model.Category(payload.Category)
	if !model.ValidCategory(payload.Category) {
		category = categorize.Match(payload.Description)
	}
	return &ParsedExpense{
		Amount:        payload.Amount,
		Description:   payload.Description,
		Category:      category,
		PaymentMethod: "Unknown",
	}
}

var (
	budgetForPattern  = regexp.MustCompile(`(?i)set\s+(?:a\s+)?budget\s+(?:for\s+)?(.+?)\s+(?:to|at|of)?\s*\$?(\d+(?:\.\d{1,2})?)$`)
	budgetNamePattern = regexp.MustCompile(`(?i)set\s+(?:a\s+|my\s+)?(.+?)\s+budget\s+(?:to|at|of)?\s*\$?(\d+(?:\.\d{1,2})?)$`)
)

// ParseBudgetCommand understands "set budget for <category> $<amount>"
// and "set <category> budget to <amount>". The category words resolve
// through an exact match against the category set first, then through
// the keyword categorizer.
func ParseBudgetCommand(text string) (model.Category, float64, bool) {
	text = strings.TrimSpace(text)
	for _, re := range []*regexp.Regexp{budgetForPattern, budgetNamePattern} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount, err := strconv.ParseFloat(m[2], 64)
		if err != nil || amount <= 0 {
			continue
		}
		if category, ok := resolveCategory(m[1]); ok {
			return category, amount, true
		}
	}
	return "", 0, false
}

func resolveCategory(text string) (model.Category, bool) {
	text = strings.TrimSpace(text)
	for _, c := range model.Categories() {
		if strings.EqualFold(text, string(c)) {
			return c, true
		}
	}
	if c := categorize.Match(text); c != model.CategoryOther {
		return c, true
	}
	return "", false
}
