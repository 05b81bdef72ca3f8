// ABOUTME: Category enum used to colour metric cards and charts.
// ABOUTME: Maps each category to its chart colour.
package models

// Category is the fixed classification tag derived from a metric's name.
type Category string

const (
	CategoryHeart    Category = "heart"
	CategoryWeight   Category = "weight"
	CategorySteps    Category = "steps"
	CategorySleep    Category = "sleep"
	CategoryWater    Category = "water"
	CategoryCalories Category = "calories"
	CategoryDefault  Category = "default"
)

// AllCategories returns every category, default last.
var AllCategories = []Category{
	CategoryHeart, CategoryWeight, CategorySteps,
	CategorySleep, CategoryWater, CategoryCalories,
	CategoryDefault,
}

// CategoryColors maps categories to their chart colour.
var CategoryColors = map[Category]string{
	CategoryHeart:    "#FF5252",
	CategoryWeight:   "#4CAF50",
	CategorySteps:    "#FFC107",
	CategorySleep:    "#9C27B0",
	CategoryWater:    "#2196F3",
	CategoryCalories: "#FF9800",
	CategoryDefault:  "#1E88E5",
}

// Hex returns the category's chart colour, falling back to the default colour.
func (c Category) Hex() string {
	if hex, ok := CategoryColors[c]; ok {
		return hex
	}
	return CategoryColors[CategoryDefault]
}

// IsValidCategory checks if a string is a known category.
func IsValidCategory(s string) bool {
	for _, c := range AllCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}
