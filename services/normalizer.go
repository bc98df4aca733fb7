package services

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"growth-hub/models"
	"growth-hub/utils"
)

var (
	// ratingRegexp captures the leading number of strings like "4.2 out of 5 stars"
	ratingRegexp = regexp.MustCompile(`\d+(?:\.\d+)?`)
	// rateRegexp captures a signed decimal such as "3.5%" or "-1"
	rateRegexp = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
)

// Normalizer turns loosely-typed collector output into Listings.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize converts every raw record. It never drops a record: a field that
// cannot be parsed is left absent and the rest of the record is kept.
// Records without a platform key are attributed to platform.
func (n *Normalizer) Normalize(platform models.Platform, raw []models.RawListing) []models.Listing {
	out := make([]models.Listing, 0, len(raw))
	var malformed int

	for _, r := range raw {
		l := models.Listing{
			Platform: platform,
			Title:    normaliseText(asString(r[models.KeyTitle])),
			URL:      strings.TrimSpace(asString(r[models.KeyURL])),
			Query:    normaliseText(asString(r[models.KeyQuery])),
		}
		if p := asString(r[models.KeyPlatform]); strings.TrimSpace(p) != "" {
			l.Platform, _ = models.ParsePlatform(p)
		}

		var ok bool
		if l.Price, ok = parsePrice(r[models.KeyPrice]); !ok {
			malformed++
		}
		if l.Rating, ok = parseRating(r[models.KeyRating]); !ok {
			malformed++
		}
		if l.ReviewsCount, ok = parseCount(r[models.KeyReviewsCount]); !ok {
			malformed++
		}
		if l.EngagementRate, ok = parseRate(r[models.KeyEngagementRate]); !ok {
			malformed++
		}
		if v := r[models.KeyCompetitionLevel]; !isAbsent(v) {
			if lvl, tagged := models.ParseCompetitionLevel(asString(v)); tagged {
				l.CompetitionLevel = lvl
			} else {
				malformed++
			}
		}

		out = append(out, l)
	}

	if n.logger != nil {
		n.logger.Debug("[normalizer] %s: normalised %d records (%d malformed fields left absent)",
			platform, len(out), malformed)
	}
	return out
}

// Each parser returns (value, ok). A nil value with ok=true means the field was
// simply absent; ok=false means it was present but unusable.

// parsePrice reduces strings to their digit characters, so "₹1,299" is 1299.
// A string with no digits at all, such as "N/A", leaves the price absent.
func parsePrice(v any) (*float64, bool) {
	if isAbsent(v) {
		return nil, true
	}
	if s, isString := v.(string); isString {
		digits := digitsOnly(s)
		if digits == "" {
			return nil, false
		}
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil || math.IsInf(f, 0) {
			return nil, false
		}
		return &f, true
	}
	return finite(numeric(v))
}

// parseRating accepts numbers and strings like "4.2 out of 5 stars", within 0-5.
func parseRating(v any) (*float64, bool) {
	if isAbsent(v) {
		return nil, true
	}
	f, ok := numeric(v)
	if s, isString := v.(string); isString {
		match := ratingRegexp.FindString(s)
		if match == "" {
			return nil, false
		}
		var err error
		f, err = strconv.ParseFloat(match, 64)
		ok = err == nil
	}
	if !ok || math.IsNaN(f) || f < 0 || f > 5 {
		return nil, false
	}
	return &f, true
}

// parseCount accepts integers in [0, MaxInt32]; strings like "(1,234)" are
// reduced to their digits, and a leading minus makes them malformed.
func parseCount(v any) (*int, bool) {
	if isAbsent(v) {
		return nil, true
	}
	if s, isString := v.(string); isString {
		if strings.HasPrefix(strings.TrimLeft(s, " \t("), "-") {
			return nil, false
		}
		n, err := strconv.ParseInt(digitsOnly(s), 10, 64)
		if err != nil || n > math.MaxInt32 {
			return nil, false
		}
		count := int(n)
		return &count, true
	}
	f, ok := numeric(v)
	if !ok || math.IsNaN(f) || f < 0 || f > math.MaxInt32 || f != math.Trunc(f) {
		return nil, false
	}
	n := int(f)
	return &n, true
}

// parseRate accepts non-negative percentages, as numbers or strings like "3.5%".
func parseRate(v any) (*float64, bool) {
	if isAbsent(v) {
		return nil, true
	}
	f, ok := numeric(v)
	if s, isString := v.(string); isString {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
		if !rateRegexp.MatchString(s) {
			return nil, false
		}
		var err error
		f, err = strconv.ParseFloat(s, 64)
		ok = err == nil
	}
	if !ok || f < 0 {
		return nil, false
	}
	return finite(f, true)
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	s, isString := v.(string)
	return isString && strings.TrimSpace(s) == ""
}

func finite(f float64, ok bool) (*float64, bool) {
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &f, true
}

// numeric converts the number types JSON decoders and collectors produce.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	}
	if f, ok := numeric(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
