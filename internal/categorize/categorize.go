// Package categorize maps free-text expense descriptions onto the fixed
// category set by keyword lookup.
package categorize

import (
	"strings"

	"github.com/dkozlov/finance_assistant/internal/model"
)

type keywordRule struct {
	keyword  string
	category model.Category
}

// The table is a slice, not a map: iteration order is part of the
// contract. When a description contains several matchable keywords the
// earliest rule wins.
var keywordTable = []keywordRule{
	// Food & Dining
	{"lunch", model.CategoryFood},
	{"dinner", model.CategoryFood},
	{"breakfast", model.CategoryFood},
	{"restaurant", model.CategoryFood},
	{"food", model.CategoryFood},
	{"groceries", model.CategoryFood},
	{"grocery", model.CategoryFood},
	{"coffee", model.CategoryFood},
	{"cafe", model.CategoryFood},
	{"pizza", model.CategoryFood},
	{"mcdonald", model.CategoryFood},
	{"starbucks", model.CategoryFood},

	// Transportation
	{"gas", model.CategoryTransport},
	{"fuel", model.CategoryTransport},
	{"uber", model.CategoryTransport},
	{"lyft", model.CategoryTransport},
	{"taxi", model.CategoryTransport},
	{"bus", model.CategoryTransport},
	{"train", model.CategoryTransport},
	{"parking", model.CategoryTransport},
	{"car", model.CategoryTransport},

	// Shopping
	{"amazon", model.CategoryShopping},
	{"shopping", model.CategoryShopping},
	{"clothes", model.CategoryShopping},
	{"clothing", model.CategoryShopping},
	{"shoes", model.CategoryShopping},
	{"electronics", model.CategoryShopping},
	{"book", model.CategoryShopping},

	// Entertainment
	{"movie", model.CategoryEntertainment},
	{"cinema", model.CategoryEntertainment},
	{"theater", model.CategoryEntertainment},
	{"concert", model.CategoryEntertainment},
	{"game", model.CategoryEntertainment},
	{"netflix", model.CategoryEntertainment},
	{"spotify", model.CategoryEntertainment},

	// Bills & Utilities
	{"electric", model.CategoryBills},
	{"water", model.CategoryBills},
	{"internet", model.CategoryBills},
	{"phone", model.CategoryBills},
	{"rent", model.CategoryBills},
	{"mortgage", model.CategoryBills},
	{"insurance", model.CategoryBills},

	// Healthcare
	{"doctor", model.CategoryHealthcare},
	{"hospital", model.CategoryHealthcare},
	{"pharmacy", model.CategoryHealthcare},
	{"medicine", model.CategoryHealthcare},
	{"dental", model.CategoryHealthcare},
	{"medical", model.CategoryHealthcare},

	// Education
	{"school", model.CategoryEducation},
	{"course", model.CategoryEducation},
	{"tuition", model.CategoryEducation},
	{"training", model.CategoryEducation},

	// Travel
	{"hotel", model.CategoryTravel},
	{"flight", model.CategoryTravel},
	{"vacation", model.CategoryTravel},
	{"trip", model.CategoryTravel},
	{"travel", model.CategoryTravel},

	// Savings & Investment
	{"savings", model.CategorySavings},
	{"investment", model.CategorySavings},
	{"deposit", model.CategorySavings},
}

// Match resolves a description to a category by case-insensitive
// substring match, first rule wins. Unmatched descriptions fall back to
// Other; Match never fails.
func Match(description string) model.Category {
	lower := strings.ToLower(description)
	for _, rule := range keywordTable {
		if strings.Contains(lower, rule.keyword) {
			return rule.category
		}
	}
	return model.CategoryOther
}
