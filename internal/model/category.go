package model

// Category is one of the fixed expense categories. The set is closed:
// the categorizer always resolves to a member, defaulting to CategoryOther.
type Category string

const (
	CategoryFood          Category = "Food & Dining"
	CategoryTransport     Category = "Transportation"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryBills         Category = "Bills & Utilities"
	CategoryHealthcare    Category = "Healthcare"
	CategoryEducation     Category = "Education"
	CategoryTravel        Category = "Travel"
	CategorySavings       Category = "Savings & Investment"
	CategoryOther         Category = "Other"
)

var categories = []Category{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryEntertainment,
	CategoryBills,
	CategoryHealthcare,
	CategoryEducation,
	CategoryTravel,
	CategorySavings,
	CategoryOther,
}

// Categories returns the full category set in its fixed order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ValidCategory reports whether name is a member of the category set.
func ValidCategory(name string) bool {
	for _, c := range categories {
		if string(c) == name {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
