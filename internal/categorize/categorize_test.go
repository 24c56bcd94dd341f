package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkozlov/finance_assistant/internal/model"
)

func TestMatch_Keywords(t *testing.T) {
	cases := []struct {
		description string
		want        model.Category
	}{
		{"lunch at Joe's", model.CategoryFood},
		{"starbucks run", model.CategoryFood},
		{"weekly groceries", model.CategoryFood},
		{"uber to the airport", model.CategoryTransport},
		{"filled up on gas", model.CategoryTransport},
		{"amazon order", model.CategoryShopping},
		{"new running shoes", model.CategoryShopping},
		{"netflix subscription", model.CategoryEntertainment},
		{"movie tickets", model.CategoryEntertainment},
		{"rent payment", model.CategoryBills},
		{"electric bill", model.CategoryBills},
		{"pharmacy pickup", model.CategoryHealthcare},
		{"online course", model.CategoryEducation},
		{"flight to Denver", model.CategoryTravel},
		{"monthly deposit", model.CategorySavings},
		{"miscellaneous stuff", model.CategoryOther},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Match(tc.description), "description %q", tc.description)
	}
}

func TestMatch_CaseInsensitive(t *testing.T) {
	assert.Equal(t, model.CategoryFood, Match("LUNCH WITH THE TEAM"))
	assert.Equal(t, model.CategoryTransport, Match("Uber Home"))
}

// Earlier table rules win when a description matches several keywords.
func TestMatch_FirstRuleWins(t *testing.T) {
	assert.Equal(t, model.CategoryFood, Match("lunch near the parking lot"))
}

func TestMatch_EmptyFallsBackToOther(t *testing.T) {
	assert.Equal(t, model.CategoryOther, Match(""))
}
