package usecase

import (
	"strings"
	"testing"
)

func TestCleanFoodQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"quantity with unit", "2 cups of cooked brown rice", "cooked brown rice"},
		{"grams glued to number", "150g Greek Yogurt", "greek yogurt"},
		{"size words", "A large banana", "banana"},
		{"fraction", "1/2 avocado", "avocado"},
		{"ampersand", "Mac & Cheese", "mac and cheese"},
		{"special characters", "chicken (grilled)!", "chicken grilled"},
		{"tablespoons", "2 tbsp peanut butter", "peanut butter"},
		{"already clean", "spinach", "spinach"},
		{"only numbers", "3 4 5", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanFoodQuery(tt.query); got != tt.want {
				t.Errorf("CleanFoodQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestCleanFoodQuery_LongInput(t *testing.T) {
	long := strings.Repeat("salmon ", 40)

	got := CleanFoodQuery(long)

	if len(got) > maxQueryLength {
		t.Errorf("len = %d, want <= %d", len(got), maxQueryLength)
	}
	if strings.HasSuffix(got, " ") || strings.HasSuffix(got, "salm") {
		t.Errorf("query %q was not cut at a word boundary", got)
	}
}
