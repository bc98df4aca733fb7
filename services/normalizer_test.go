package services

import (
	"encoding/json"
	"math"
	"testing"

	"growth-hub/models"
	"growth-hub/utils"
)

func newTestLogger() *utils.Logger { return utils.NewDiscardLogger() }

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw    any
		want   float64
		absent bool
	}{
		{"₹1,299", 1299, false},
		{"1299", 1299, false},
		{"Rs. 45", 45, false},
		{"N/A", 0, true},
		{"", 0, true},
		{nil, 0, true},
		{799.0, 799, false},
		{250, 250, false},
		{json.Number("99"), 99, false},
		{math.NaN(), 0, true},
		{[]string{"12"}, 0, true},
	}

	for _, tt := range tests {
		got, _ := parsePrice(tt.raw)
		if tt.absent {
			if got != nil {
				t.Errorf("parsePrice(%v) = %v; want absent", tt.raw, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("parsePrice(%v) = %v; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		raw    any
		want   float64
		absent bool
	}{
		{"4.2 out of 5 stars", 4.2, false},
		{"3.9", 3.9, false},
		{4.5, 4.5, false},
		{5, 5, false},
		{"New", 0, true},
		{"6.0", 0, true},
		{-1.0, 0, true},
		{nil, 0, true},
	}

	for _, tt := range tests {
		got, _ := parseRating(tt.raw)
		if tt.absent {
			if got != nil {
				t.Errorf("parseRating(%v) = %v; want absent", tt.raw, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("parseRating(%v) = %v; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestParseCountAndRate(t *testing.T) {
	if n, _ := parseCount("(1,234)"); n == nil || *n != 1234 {
		t.Errorf("parseCount(\"(1,234)\") = %v; want 1234", n)
	}
	if n, _ := parseCount(87); n == nil || *n != 87 {
		t.Errorf("parseCount(87) = %v; want 87", n)
	}
	if n, ok := parseCount(-3); n != nil || ok {
		t.Errorf("parseCount(-3) should be malformed")
	}
	if n, ok := parseCount(2.5); n != nil || ok {
		t.Errorf("parseCount(2.5) should be malformed")
	}
	if n, ok := parseCount("(99,999,999,999)"); n != nil || ok {
		t.Errorf("parseCount(\"(99,999,999,999)\") = %v; want malformed, not an out-of-range count", n)
	}
	if n, ok := parseCount("-42"); n != nil || ok {
		t.Errorf("parseCount(\"-42\") should be malformed")
	}
	if n, ok := parseCount("(-42)"); n != nil || ok {
		t.Errorf("parseCount(\"(-42)\") should be malformed")
	}
	if n, _ := parseCount("2,147,483,647"); n == nil || *n != math.MaxInt32 {
		t.Errorf("parseCount at the upper bound = %v; want %d", n, math.MaxInt32)
	}

	if r, _ := parseRate("3.5%"); r == nil || *r != 3.5 {
		t.Errorf("parseRate(\"3.5%%\") = %v; want 3.5", r)
	}
	if r, _ := parseRate(6.25); r == nil || *r != 6.25 {
		t.Errorf("parseRate(6.25) = %v; want 6.25", r)
	}
	if r, ok := parseRate("-1"); r != nil || ok {
		t.Errorf("parseRate(\"-1\") should be malformed")
	}
	if r, ok := parseRate("high"); r != nil || ok {
		t.Errorf("parseRate(\"high\") should be malformed")
	}
	if r, ok := parseRate(nil); r != nil || !ok {
		t.Errorf("parseRate(nil) should be absent, not malformed")
	}
}

func TestNormalizeKeepsRecordsWithBadFields(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	raw := []models.RawListing{
		{
			"title":             "  Cotton   Kurta ",
			"price":             "₹1,299",
			"rating":            "4.1 out of 5 stars",
			"reviews_count":     "(2,045)",
			"competition_level": "high",
			"url":               "https://www.amazon.in/dp/1",
		},
		{
			"title":             "Broken",
			"price":             "N/A",
			"rating":            "unrated",
			"reviews_count":     "many",
			"engagement_rate":   "lots",
			"competition_level": "Extreme",
		},
		{},
	}

	got := n.Normalize(models.Amazon, raw)
	if len(got) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(got))
	}

	first := got[0]
	if first.Title != "Cotton Kurta" {
		t.Errorf("Title: got %q", first.Title)
	}
	if first.Platform != models.Amazon {
		t.Errorf("Platform: got %q", first.Platform)
	}
	if first.Price == nil || *first.Price != 1299 {
		t.Errorf("Price: got %v", first.Price)
	}
	if first.Rating == nil || *first.Rating != 4.1 {
		t.Errorf("Rating: got %v", first.Rating)
	}
	if first.ReviewsCount == nil || *first.ReviewsCount != 2045 {
		t.Errorf("ReviewsCount: got %v", first.ReviewsCount)
	}
	if first.CompetitionLevel != models.CompetitionHigh {
		t.Errorf("CompetitionLevel: got %q", first.CompetitionLevel)
	}

	broken := got[1]
	if broken.Title != "Broken" {
		t.Errorf("Title should survive bad numeric fields, got %q", broken.Title)
	}
	if broken.Price != nil || broken.Rating != nil || broken.ReviewsCount != nil || broken.EngagementRate != nil {
		t.Errorf("malformed numeric fields should be absent: %+v", broken)
	}
	if broken.Tagged() {
		t.Errorf("unknown competition level should be left untagged, got %q", broken.CompetitionLevel)
	}

	if got[2].Tagged() || got[2].Price != nil {
		t.Errorf("empty record should normalise to an empty listing: %+v", got[2])
	}
}

func TestNormalizePlatformKeyWins(t *testing.T) {
	n := NewNormalizer(newTestLogger())
	got := n.Normalize(models.Instagram, []models.RawListing{
		{"platform": "YouTube", "engagement_rate": 4.2},
		{"engagement_rate": 2.0},
	})

	if got[0].Platform != models.YouTube {
		t.Errorf("platform key should win, got %q", got[0].Platform)
	}
	if got[1].Platform != models.Instagram {
		t.Errorf("missing platform key should default, got %q", got[1].Platform)
	}
	if got[0].EngagementRate == nil || *got[0].EngagementRate != 4.2 {
		t.Errorf("EngagementRate: got %v", got[0].EngagementRate)
	}
}
