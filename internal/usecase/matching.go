package usecase

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/bitebot/backend/internal/domain"
)

var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

// Token weights
const (
	weightFood        = 3.0 // core food terms (rice, chicken, oats)
	weightDescriptive = 2.0 // preparation and variety (cooked, brown, raw)
	weightDefault     = 1.0
	fuzzyWeightFactor = 0.8
	fuzzyEditDistance = 1
)

// Score bonuses, applied on top of a 0-100 base
const (
	substringMatchBonus     = 10.0
	dataTypeFoundationBonus = 8.0
	dataTypeLegacyBonus     = 6.0
	dataTypeSurveyBonus     = 5.0
	dataTypeBrandedBonus    = 0.0
)

const defaultMinConfidence = 40.0

// foodTerms are high-importance food keywords
var foodTerms = map[string]bool{
	"chicken": true, "beef": true, "pork": true, "fish": true, "salmon": true,
	"turkey": true, "lamb": true, "shrimp": true, "tuna": true, "tofu": true,
	"egg": true, "eggs": true, "milk": true, "cheese": true, "yogurt": true,
	"butter": true, "rice": true, "pasta": true, "bread": true, "oats": true,
	"oatmeal": true, "quinoa": true, "noodles": true, "tortilla": true, "cereal": true,
	"apple": true, "banana": true, "orange": true, "berries": true, "blueberries": true,
	"strawberries": true, "avocado": true, "spinach": true, "kale": true, "broccoli": true,
	"carrot": true, "carrots": true, "potato": true, "potatoes": true, "tomato": true,
	"lentils": true, "beans": true, "chickpeas": true, "almonds": true, "walnuts": true,
	"peanut": true, "soup": true, "salad": true, "pizza": true, "burger": true,
}

// descriptiveTerms are medium-importance modifiers
var descriptiveTerms = map[string]bool{
	"whole": true, "skim": true, "lowfat": true, "nonfat": true, "fat": true,
	"raw": true, "cooked": true, "boiled": true, "baked": true, "fried": true,
	"grilled": true, "roasted": true, "steamed": true, "dried": true, "frozen": true,
	"canned": true, "fresh": true, "brown": true, "white": true, "wild": true,
	"plain": true, "sweetened": true, "unsweetened": true, "greek": true, "wheat": true,
	"grain": true, "breast": true, "thigh": true, "ground": true, "lean": true,
}

// stopWords are dropped before matching
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "with": true, "without": true,
	"for": true, "by": true, "from": true, "to": true, "ns": true,
	"as": true, "purchased": true, "nfs": true, "includes": true, "usda": true,
}

// Matcher picks the USDA search hit that best fits a food query
type Matcher struct {
	minConfidence float64
	logger        *slog.Logger
}

// NewMatcher creates a matcher. A non-positive threshold uses the default.
func NewMatcher(minConfidence float64, logger *slog.Logger) *Matcher {
	if minConfidence <= 0 {
		minConfidence = defaultMinConfidence
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{minConfidence: minConfidence, logger: logger}
}

// FindBestMatch scores every candidate and returns the best one. When its confidence is
// below the threshold the match is still returned together with ErrLowConfidence.
// Ties keep the earlier candidate, i.e. USDA's own ranking.
func (m *Matcher) FindBestMatch(
	ctx context.Context,
	query string,
	foods []domain.USDAFood,
) (*domain.MatchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if len(foods) == 0 {
		return nil, domain.ErrProductNotFound
	}

	var best *domain.MatchResult
	highest := -1.0

	for _, food := range foods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		score, matched := calculateMatchScore(query, food.Description, food.DataType)
		m.logger.Debug("match candidate",
			slog.String("query", query),
			slog.String("description", food.Description),
			slog.String("data_type", food.DataType),
			slog.Float64("score", score))

		if score > highest {
			highest = score
			best = &domain.MatchResult{
				FdcID:         food.FdcID,
				Description:   food.Description,
				MatchScore:    score,
				MatchedTokens: matched,
			}
		}
	}

	if best.MatchScore < m.minConfidence {
		return best, domain.ErrLowConfidence
	}
	return best, nil
}

// calculateMatchScore blends weighted query coverage (70%), description coverage (15%) and
// Jaccard similarity (15%) into 0-100, then adds substring and data type bonuses.
func calculateMatchScore(query, description, dataType string) (float64, []string) {
	queryTokens := tokenize(query)
	descTokens := tokenize(description)
	if len(queryTokens) == 0 || len(descTokens) == 0 {
		return 0, nil
	}

	descSet := make(map[string]bool, len(descTokens))
	for _, t := range descTokens {
		descSet[t] = true
	}

	var matched []string
	var totalWeight, matchedWeight float64
	exact := 0
	for _, qt := range queryTokens {
		w := tokenWeight(qt)
		totalWeight += w
		if descSet[qt] {
			matchedWeight += w
			matched = append(matched, qt)
			exact++
			continue
		}
		for _, dt := range descTokens {
			if fuzzyTokenMatch(qt, dt, fuzzyEditDistance) {
				matchedWeight += w * fuzzyWeightFactor
				matched = append(matched, qt)
				break
			}
		}
	}

	queryCoverage := matchedWeight / totalWeight
	descCoverage := float64(len(matched)) / float64(len(descTokens))
	if descCoverage > 1 {
		descCoverage = 1
	}
	jaccard := float64(exact) / float64(findUnion(queryTokens, descTokens))

	score := (queryCoverage*0.70 + descCoverage*0.15 + jaccard*0.15) * 100

	queryLower := strings.Join(queryTokens, " ")
	if len(queryLower) > 3 && strings.Contains(strings.Join(descTokens, " "), queryLower) {
		score += substringMatchBonus
	}
	if len(matched) > 0 {
		score += dataTypeBonus(dataType)
	}

	if score > 100 {
		score = 100
	}
	return score, matched
}

func dataTypeBonus(dataType string) float64 {
	switch dataType {
	case "Foundation":
		return dataTypeFoundationBonus
	case "SR Legacy":
		return dataTypeLegacyBonus
	case "Survey (FNDDS)":
		return dataTypeSurveyBonus
	default:
		return dataTypeBrandedBonus
	}
}

func tokenWeight(token string) float64 {
	switch {
	case foodTerms[token]:
		return weightFood
	case descriptiveTerms[token]:
		return weightDescriptive
	default:
		return weightDefault
	}
}

// tokenize splits a string into lowercase tokens without punctuation, stop words or numbers
func tokenize(s string) []string {
	words := strings.Fields(punctuationRegex.ReplaceAllString(strings.ToLower(s), " "))

	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) <= 1 || stopWords[word] || isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// fuzzyTokenMatch reports whether two tokens of at least 4 characters are within the
// edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}
	if len(token1) < 4 || len(token2) < 4 {
		return false
	}
	lenDiff := len(token1) - len(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}
	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

// findUnion returns the count of unique tokens across both sets
func findUnion(tokens1, tokens2 []string) int {
	set := make(map[string]bool, len(tokens1)+len(tokens2))
	for _, t := range tokens1 {
		set[t] = true
	}
	for _, t := range tokens2 {
		set[t] = true
	}
	return len(set)
}
