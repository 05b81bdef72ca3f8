// ABOUTME: Classifies metric names into chart categories.
// ABOUTME: Ordered keyword rules, first match wins.
package metrics

import (
	"strings"

	"github.com/harperreed/healthdash/internal/models"
	"github.com/samber/lo"
)

// Rule maps a set of lowercase name keywords to a category.
type Rule struct {
	Category models.Category
	Keywords []string
}

// DefaultRules is evaluated top to bottom. Order matters: "heart rate walk"
// is heart, not steps.
var DefaultRules = []Rule{
	{Category: models.CategoryHeart, Keywords: []string{"heart", "pulse", "bpm"}},
	{Category: models.CategoryWeight, Keywords: []string{"weight", "bmi", "body mass"}},
	{Category: models.CategorySteps, Keywords: []string{"step", "walk", "distance"}},
	{Category: models.CategorySleep, Keywords: []string{"sleep", "rest", "bed"}},
	{Category: models.CategoryWater, Keywords: []string{"water", "fluid", "hydration"}},
	{Category: models.CategoryCalories, Keywords: []string{"calorie", "energy", "kcal"}},
}

// Classify returns the category for a metric name using DefaultRules.
func Classify(name string) models.Category {
	return ClassifyWith(DefaultRules, name)
}

// ClassifyWith returns the category of the first rule with a keyword
// contained in name (case-insensitive), or CategoryDefault.
func ClassifyWith(rules []Rule, name string) models.Category {
	lower := strings.ToLower(name)
	rule, ok := lo.Find(rules, func(r Rule) bool {
		return lo.SomeBy(r.Keywords, func(k string) bool {
			return strings.Contains(lower, strings.ToLower(k))
		})
	})
	if !ok {
		return models.CategoryDefault
	}
	return rule.Category
}
