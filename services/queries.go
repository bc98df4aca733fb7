package services

import (
	"fmt"
	"strings"
	"unicode"
)

const maxQueries = 5

var industryKeywords = map[string][]string{
	"fashion":     {"clothing", "apparel", "style", "wear", "fashion"},
	"technology":  {"tech", "gadget", "device", "software", "digital"},
	"food":        {"food", "snack", "organic", "healthy", "gourmet"},
	"beauty":      {"beauty", "cosmetic", "skincare", "makeup", "natural"},
	"electronics": {"electronic", "device", "gadget", "smart", "wireless"},
	"home":        {"home", "decor", "furniture", "kitchen", "living"},
	"fitness":     {"fitness", "health", "workout", "sports", "wellness"},
	"education":   {"education", "learning", "course", "training", "skill"},
	"automotive":  {"car", "auto", "vehicle", "automotive", "parts"},
	"jewelry":     {"jewelry", "gold", "silver", "diamond", "accessories"},
}

// GenerateSearchQueries builds up to five marketplace search queries from a
// business profile: the business name, the first three industry keywords
// paired with the description's first key term, and the first two key terms
// together. Key terms are description words longer than three letters.
func GenerateSearchQueries(name, description, industry string) []string {
	industry = strings.ToLower(strings.TrimSpace(industry))
	terms := keyTerms(description)

	var queries []string
	if n := normaliseText(strings.ToLower(name)); n != "" {
		queries = append(queries, n)
	}

	keywords, ok := industryKeywords[industry]
	if !ok && industry != "" {
		keywords = []string{industry}
	}
	if len(keywords) > 3 {
		keywords = keywords[:3]
	}
	for _, kw := range keywords {
		if len(terms) > 0 {
			queries = append(queries, fmt.Sprintf("%s %s", kw, terms[0]))
		} else {
			queries = append(queries, kw)
		}
	}

	if len(terms) >= 2 {
		queries = append(queries, terms[0]+" "+terms[1])
	}

	if len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}
	return queries
}

func keyTerms(description string) []string {
	words := strings.FieldsFunc(strings.ToLower(description), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	var terms []string
	for _, w := range words {
		if len([]rune(w)) > 3 {
			terms = append(terms, w)
		}
	}
	return terms
}
