package scoring

import "growth-hub/models"

// Analyze summarises one platform's full listing batch. The platform argument
// labels the result even when the batch is empty; scoring itself reads the
// platform from the listings.
func Analyze(platform models.Platform, listings []models.Listing, industry string) models.PlatformAnalytic {
	b := Score(listings, industry)
	return models.PlatformAnalytic{
		Platform:            platform,
		TotalListings:       len(listings),
		AvgRating:           AverageRating(listings),
		AvgPrice:            AveragePrice(listings),
		CompetitionLevel:    b.Competition,
		EngagementRate:      b.AvgEngagement,
		RecommendationScore: b.Total,
	}
}
