// ABOUTME: Tests for metric name classification.
// ABOUTME: Verifies keyword matching and first-match-wins priority.
package metrics

import (
	"testing"

	"github.com/harperreed/healthdash/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want models.Category
	}{
		{"Heart Rate", models.CategoryHeart},
		{"Resting Pulse", models.CategoryHeart},
		{"Avg BPM", models.CategoryHeart},
		{"Weight", models.CategoryWeight},
		{"BMI", models.CategoryWeight},
		{"Body Mass Index", models.CategoryWeight},
		{"Daily Steps", models.CategorySteps},
		{"Walking Distance", models.CategorySteps},
		{"Sleep Duration", models.CategorySleep},
		{"Time in Bed", models.CategorySleep},
		{"Water Intake", models.CategoryWater},
		{"Hydration", models.CategoryWater},
		{"Calories Burned", models.CategoryCalories},
		{"Active Energy", models.CategoryCalories},
		{"kcal", models.CategoryCalories},
		{"Mood", models.CategoryDefault},
		{"", models.CategoryDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.name); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name string
		want models.Category
	}{
		{"heart steps tracker", models.CategoryHeart},
		{"heart rate walk", models.CategoryHeart},
		{"weight after sleep", models.CategoryWeight},
		// "rest" matches sleep before "energy" matches calories.
		{"Resting Energy", models.CategorySleep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.name); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestClassifyWithCustomOrder(t *testing.T) {
	rules := []Rule{
		{Category: models.CategorySteps, Keywords: []string{"step"}},
		{Category: models.CategoryHeart, Keywords: []string{"heart"}},
	}

	if got := ClassifyWith(rules, "heart steps tracker"); got != models.CategorySteps {
		t.Errorf("ClassifyWith = %s, want steps", got)
	}
	if got := ClassifyWith(nil, "heart"); got != models.CategoryDefault {
		t.Errorf("ClassifyWith(nil) = %s, want default", got)
	}
}
