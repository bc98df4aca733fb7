package scoring

import (
	"math"

	"growth-hub/models"
)

// AveragePrice is the mean of the positive prices in the batch, 0 if none.
func AveragePrice(listings []models.Listing) float64 {
	return meanPositive(listings, func(l models.Listing) *float64 { return l.Price })
}

// AverageEngagement is the mean of the positive engagement rates, 0 if none.
func AverageEngagement(listings []models.Listing) float64 {
	return meanPositive(listings, func(l models.Listing) *float64 { return l.EngagementRate })
}

// AverageRating is the mean of the positive ratings, 0 if none. Unrated
// listings are left out rather than counted as zero stars.
func AverageRating(listings []models.Listing) float64 {
	return meanPositive(listings, func(l models.Listing) *float64 { return l.Rating })
}

func meanPositive(listings []models.Listing, field func(models.Listing) *float64) float64 {
	var sum float64
	var n int
	for _, l := range listings {
		v := field(l)
		if v == nil || !(*v > 0) || math.IsInf(*v, 0) {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
