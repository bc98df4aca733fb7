package services

import (
	"growth-hub/models"
	"growth-hub/scoring"
	"growth-hub/utils"
)

// Analyzer turns one platform's raw batch into a scored analytic.
type Analyzer struct {
	normalizer *Normalizer
	logger     *utils.Logger
}

func NewAnalyzer(logger *utils.Logger) *Analyzer {
	return &Analyzer{normalizer: NewNormalizer(logger), logger: logger}
}

// AnalyzePlatform normalizes the full batch and scores it. The normalized
// listings are returned alongside the analytic so callers can persist them.
func (a *Analyzer) AnalyzePlatform(platform models.Platform, raw []models.RawListing, industry string) (models.PlatformAnalytic, []models.Listing) {
	listings := a.normalizer.Normalize(platform, raw)
	analytic := scoring.Analyze(platform, listings, industry)

	if len(listings) == 0 {
		a.logger.Warn("[analyzer] %s: empty batch, scored %.0f", platform, analytic.RecommendationScore)
	} else {
		a.logger.Info("[analyzer] %s: %d listings | competition %s | engagement %.2f%% | score %.1f",
			platform, analytic.TotalListings, analytic.CompetitionLevel,
			analytic.EngagementRate, analytic.RecommendationScore)
	}
	return analytic, listings
}
