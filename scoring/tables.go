package scoring

import (
	"errors"
	"fmt"
	"strings"

	"growth-hub/models"
)

// ErrInvalidTables is returned by ValidateTables when a static table is malformed.
var ErrInvalidTables = errors.New("scoring: invalid static table")

// Weight is the trust/reach profile of a platform, each in [0,1].
type Weight struct {
	Trust float64
	Reach float64
}

var defaultWeight = Weight{Trust: 0.5, Reach: 0.5}

var platformWeights = map[models.Platform]Weight{
	models.Amazon:    {Trust: 0.9, Reach: 0.95},
	models.Flipkart:  {Trust: 0.85, Reach: 0.8},
	models.Instagram: {Trust: 0.7, Reach: 0.9},
	models.YouTube:   {Trust: 0.8, Reach: 0.85},
	models.Facebook:  {Trust: 0.75, Reach: 0.8},
}

// industryPlatforms orders each industry's platforms from most to least suited.
var industryPlatforms = map[string][]models.Platform{
	"fashion":     {models.Instagram, models.Amazon, models.Flipkart},
	"technology":  {models.Amazon, models.Flipkart, models.YouTube},
	"food":        {models.Instagram, models.YouTube, models.Amazon},
	"beauty":      {models.Instagram, models.Amazon, models.YouTube},
	"electronics": {models.Amazon, models.Flipkart, models.YouTube},
	"home":        {models.Amazon, models.Flipkart, models.Instagram},
	"fitness":     {models.Instagram, models.YouTube, models.Amazon},
	"education":   {models.YouTube, models.Instagram, models.Amazon},
	"automotive":  {models.YouTube, models.Amazon, models.Flipkart},
	"jewelry":     {models.Instagram, models.Amazon, models.Flipkart},
}

var genericPlatforms = []models.Platform{models.Instagram, models.Amazon}

var contentFocusAreas = map[string][]string{
	"fashion":     {"Style tips", "Outfit ideas", "Fashion trends", "Seasonal collections"},
	"technology":  {"Product demos", "Tech tutorials", "Innovation updates", "User guides"},
	"food":        {"Recipe sharing", "Ingredient sourcing", "Cooking tips", "Health benefits"},
	"beauty":      {"Tutorials", "Before/after", "Ingredient benefits", "Skin care tips"},
	"electronics": {"Product reviews", "Comparisons", "Tech tips", "Troubleshooting"},
	"home":        {"Interior design", "DIY projects", "Organization tips", "Seasonal decor"},
	"fitness":     {"Workout routines", "Health tips", "Progress tracking", "Motivation"},
	"education":   {"Learning tips", "Success stories", "Course previews", "Industry insights"},
}

var genericFocusAreas = []string{"Product showcases", "Customer stories", "Industry tips"}

var seasonalTrends = map[string]string{
	"fashion":     "Spring: Light colors, Summer: Bright patterns, Fall: Earth tones, Winter: Warm fabrics",
	"food":        "Spring: Fresh ingredients, Summer: Cold dishes, Fall: Comfort food, Winter: Warm beverages",
	"beauty":      "Spring: Fresh looks, Summer: Sun protection, Fall: Rich colors, Winter: Hydrating products",
	"electronics": "Back-to-school (Aug-Sep), Holiday season (Nov-Dec), New Year resolutions (Jan)",
	"home":        "Spring cleaning (Mar-Apr), Summer outdoor (May-Jul), Fall cozy (Sep-Oct), Holiday decor (Nov-Dec)",
}

const genericSeasonalTrend = "Monitor industry-specific seasonal patterns"

var peakSeasons = map[string][]string{
	"fashion":     {"Back-to-school", "Holiday season", "Spring fashion week"},
	"technology":  {"Back-to-school", "Black Friday", "New Year"},
	"food":        {"Holiday season", "Summer BBQ", "New Year health trends"},
	"beauty":      {"Wedding season", "Holiday gifting", "New Year resolutions"},
	"electronics": {"Black Friday", "Holiday season", "Back-to-school"},
	"home":        {"Spring cleaning", "Holiday decorating", "Back-to-school"},
	"fitness":     {"New Year", "Summer prep", "Back-to-school"},
	"education":   {"New Year", "Back-to-school", "Professional development seasons"},
}

var genericPeakSeasons = []string{"Holiday season", "New Year", "Back-to-school"}

// Posting windows are the same for every industry.
var postingTimes = map[models.Platform]string{
	models.Instagram: "6-9 PM weekdays, 11 AM-1 PM weekends",
	models.YouTube:   "2-4 PM weekdays, 9-11 AM weekends",
	models.Facebook:  "1-3 PM weekdays, 12-2 PM weekends",
	models.Amazon:    "Update during weekday mornings (9-11 AM)",
}

var postingSchedule = map[models.Platform]string{
	models.Instagram: "1-2 posts daily, stories 3-4 times",
	models.YouTube:   "1-2 videos weekly",
	models.Amazon:    "Update product listings monthly",
}

func init() {
	if err := ValidateTables(); err != nil {
		panic(err)
	}
}

// ValidateTables checks the shape of the static lookup tables: weights lie in
// [0,1], industry keys are lower-case, preference lists name known platforms
// at most once and are short enough that every position earns a
// non-negative bonus.
func ValidateTables() error {
	for p, w := range platformWeights {
		if !unitInterval(w.Trust) || !unitInterval(w.Reach) {
			return fmt.Errorf("%w: weight for %q out of [0,1]", ErrInvalidTables, p)
		}
	}
	return validatePreferences(industryPlatforms)
}

func validatePreferences(prefs map[string][]models.Platform) error {
	for industry, list := range prefs {
		if industry != normaliseIndustry(industry) {
			return fmt.Errorf("%w: industry key %q is not normalised", ErrInvalidTables, industry)
		}
		if len(list) == 0 || len(list) > maxPreferenceDepth {
			return fmt.Errorf("%w: industry %q has %d preferred platforms", ErrInvalidTables, industry, len(list))
		}
		seen := make(map[models.Platform]struct{}, len(list))
		for _, p := range list {
			if _, ok := platformWeights[p]; !ok {
				return fmt.Errorf("%w: industry %q prefers unknown platform %q", ErrInvalidTables, industry, p)
			}
			if _, dup := seen[p]; dup {
				return fmt.Errorf("%w: industry %q lists %q twice", ErrInvalidTables, industry, p)
			}
			seen[p] = struct{}{}
		}
	}
	return nil
}

func unitInterval(v float64) bool { return v >= 0 && v <= 1 }

func normaliseIndustry(industry string) string {
	return strings.ToLower(strings.TrimSpace(industry))
}

// WeightFor returns the platform's weight profile, or {0.5, 0.5} when unknown.
func WeightFor(p models.Platform) Weight {
	if w, ok := platformWeights[p]; ok {
		return w
	}
	return defaultWeight
}

// PreferredPlatforms returns a copy of the industry's ordered preference list,
// or nil for an unknown industry.
func PreferredPlatforms(industry string) []models.Platform {
	list, ok := industryPlatforms[normaliseIndustry(industry)]
	if !ok {
		return nil
	}
	return append([]models.Platform(nil), list...)
}
