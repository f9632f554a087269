package usecase

import (
	"regexp"
	"strings"
)

const maxQueryLength = 100

var (
	// "2 cups", "150 g", "1.5 oz", "3 slices"
	quantityPattern = regexp.MustCompile(
		`(?i)\b\d+(?:[.,/]\d+)?\s*(?:fl\s*oz|oz|ounces?|g|grams?|kg|mg|ml|l|liters?|lbs?|pounds?|cups?|tbsp|tablespoons?|tsp|teaspoons?|slices?|pieces?|servings?|bowls?|handfuls?)\b`)

	// "½", "1/2", bare leading numbers
	bareNumberPattern = regexp.MustCompile(`\b\d+(?:[.,/]\d+)?\b|[¼½¾]`)

	// characters that upstream search rejects
	specialCharsPattern = regexp.MustCompile(`[#%+@!^*()=\[\]{}<>|\\~"` + "`" + `;:?]`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// queryNoiseWords carry no information for a food search
var queryNoiseWords = map[string]bool{
	"a": true, "an": true, "the": true, "some": true, "of": true,
	"about": true, "approx": true, "approximately": true, "around": true,
	"portion": true, "serving": true, "plate": true, "helping": true,
	"homemade": true, "delicious": true, "tasty": true, "favorite": true,
	"small": true, "medium": true, "large": true, "big": true,
}

// CleanFoodQuery turns free text such as "2 cups of cooked brown rice" into a focused
// USDA search query ("cooked brown rice"). It returns "" when nothing is left.
func CleanFoodQuery(query string) string {
	cleaned := strings.ReplaceAll(query, "&", " and ")
	cleaned = quantityPattern.ReplaceAllString(cleaned, " ")
	cleaned = bareNumberPattern.ReplaceAllString(cleaned, " ")
	cleaned = specialCharsPattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.Trim(removeNoiseWords(cleaned), " ,.-")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")

	if len(cleaned) > maxQueryLength {
		cleaned = cleaned[:maxQueryLength]
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > maxQueryLength/2 {
			cleaned = cleaned[:lastSpace]
		}
	}
	return strings.TrimSpace(cleaned)
}

func removeNoiseWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if !queryNoiseWords[strings.Trim(word, ",.-'")] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}
