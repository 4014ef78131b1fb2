package categorize

import (
	"context"
	"strings"
	"unicode"
)

// Keyword categorizes by matching words of the title and description against
// fixed keyword lists. It is deterministic and needs no network.
type Keyword struct {
	keywords map[string]string // word -> category
}

var defaultKeywords = map[string][]string{
	FoodAndDining:  {"restaurant", "dinner", "lunch", "breakfast", "brunch", "cafe", "coffee", "bar", "pizza", "sushi", "burger", "takeout", "drinks", "beer"},
	Transportation: {"flight", "train", "bus", "taxi", "uber", "lyft", "metro", "parking", "toll", "ferry", "rental", "airport"},
	Accommodation:  {"hotel", "airbnb", "hostel", "motel", "lodging", "rent", "cabin"},
	Activities:     {"museum", "tour", "concert", "movie", "cinema", "tickets", "show", "ski", "zoo", "park", "game"},
	Shopping:       {"clothes", "shoes", "souvenir", "electronics", "amazon", "mall", "store"},
	Healthcare:     {"pharmacy", "doctor", "dentist", "hospital", "medicine", "clinic"},
	Groceries:      {"groceries", "grocery", "supermarket", "market", "costco", "aldi", "lidl"},
	GasAndFuel:     {"gas", "fuel", "petrol", "diesel", "charging"},
	Utilities:      {"electricity", "water", "internet", "wifi", "phone", "utilities", "power", "heating"},
	Insurance:      {"insurance"},
	Education:      {"course", "books", "tuition", "class", "workshop", "training"},
	PersonalCare:   {"haircut", "spa", "salon", "massage", "cosmetics", "barber"},
	Gifts:          {"gift", "present", "donation", "charity", "tip"},
}

// NewKeyword returns a Keyword categorizer with the built-in keyword lists.
func NewKeyword() *Keyword {
	k := &Keyword{keywords: make(map[string]string)}
	for category, words := range defaultKeywords {
		for _, w := range words {
			k.keywords[w] = category
		}
	}
	return k
}

// Categorize picks the category with the most keyword hits. Title hits count
// double. Ties go to the category listed first in Categories.
func (k *Keyword) Categorize(_ context.Context, in Input) (Analysis, error) {
	scores := make(map[string]int)
	for _, w := range words(in.Title) {
		if c, ok := k.keywords[w]; ok {
			scores[c] += 2
		}
	}
	for _, w := range words(in.Description) {
		if c, ok := k.keywords[w]; ok {
			scores[c]++
		}
	}

	best, bestScore := Other, 0
	for _, c := range Categories {
		if scores[c] > bestScore {
			best, bestScore = c, scores[c]
		}
	}
	if bestScore == 0 {
		return Default, nil
	}

	// Confidence grows with the number of hits and caps at 0.9.
	confidence := 0.6 + 0.1*float64(bestScore-1)
	if confidence > 0.9 {
		confidence = 0.9
	}
	return Analysis{Category: best, Confidence: confidence}, nil
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
