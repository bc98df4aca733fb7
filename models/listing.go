package models

import "strings"

// Platform identifies a marketplace or social network a listing was observed on.
type Platform string

const (
	Amazon    Platform = "amazon"
	Flipkart  Platform = "flipkart"
	Instagram Platform = "instagram"
	YouTube   Platform = "youtube"
	Facebook  Platform = "facebook"
)

// Platforms lists every platform the collectors know how to source.
var Platforms = []Platform{Amazon, Flipkart, Instagram, YouTube, Facebook}

// ParsePlatform normalises s and reports whether it names a known platform.
// Unknown names are still returned lower-cased so callers can score them with
// default weights.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Platforms {
		if p == known {
			return p, true
		}
	}
	return p, false
}

// CompetitionLevel is the saturation class of a listing or of a whole platform.
type CompetitionLevel string

const (
	CompetitionLow     CompetitionLevel = "Low"
	CompetitionMedium  CompetitionLevel = "Medium"
	CompetitionHigh    CompetitionLevel = "High"
	CompetitionUnknown CompetitionLevel = "Unknown"
)

// ParseCompetitionLevel accepts Low/Medium/High in any case. Anything else,
// including "Unknown", is reported as not tagged.
func ParseCompetitionLevel(s string) (CompetitionLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return CompetitionLow, true
	case "medium":
		return CompetitionMedium, true
	case "high":
		return CompetitionHigh, true
	}
	return "", false
}

// RawListing is one record exactly as a collector produced it. Any of the keys
// title, price, rating, reviews_count, engagement_rate and competition_level
// may be missing, and values may be strings, numbers or nil.
type RawListing map[string]any

// Keys used in RawListing.
const (
	KeyPlatform         = "platform"
	KeyTitle            = "title"
	KeyPrice            = "price"
	KeyRating           = "rating"
	KeyReviewsCount     = "reviews_count"
	KeyEngagementRate   = "engagement_rate"
	KeyCompetitionLevel = "competition_level"
	KeyURL              = "url"
	KeyQuery            = "query"
)

// Listing is the normalised, immutable view of a RawListing. Optional numeric
// fields are nil when the source value was absent or could not be parsed.
type Listing struct {
	Platform         Platform
	Title            string
	URL              string
	Query            string
	Price            *float64
	Rating           *float64
	ReviewsCount     *int
	EngagementRate   *float64
	CompetitionLevel CompetitionLevel // empty when not tagged
}

// Tagged reports whether the collector assigned a competition level.
func (l Listing) Tagged() bool {
	return l.CompetitionLevel != ""
}
