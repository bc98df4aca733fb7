package scoring

import (
	"math"

	"growth-hub/models"
)

const (
	// EmptyBatchScore is returned when there is nothing to score.
	EmptyBatchScore = 0
	// NeutralScore is returned when the terms do not add up to a finite number.
	NeutralScore = 50

	MinScore = 0
	MaxScore = 100

	industryBonusTop   = 20
	industryBonusStep  = 5
	maxPreferenceDepth = industryBonusTop/industryBonusStep + 1

	engagementMultiplier = 2
	maxEngagementBonus   = 15
)

var competitionAdjustments = map[models.CompetitionLevel]float64{
	models.CompetitionLow:    15,
	models.CompetitionMedium: 5,
	models.CompetitionHigh:   -10,
}

// Breakdown holds each term of a recommendation score.
type Breakdown struct {
	Platform              models.Platform
	Base                  float64
	IndustryBonus         float64
	Competition           models.CompetitionLevel
	CompetitionAdjustment float64
	AvgEngagement         float64
	EngagementBonus       float64
	Total                 float64
}

// Score breaks down the recommendation score of a same-platform batch for a
// business in the given industry. The platform is read from the first
// listing. An empty batch scores EmptyBatchScore with every term zero and
// competition Unknown.
func Score(listings []models.Listing, industry string) Breakdown {
	if len(listings) == 0 {
		return Breakdown{Competition: models.CompetitionUnknown, Total: EmptyBatchScore}
	}

	b := Breakdown{Platform: listings[0].Platform}
	b.Base = BaseScore(b.Platform)
	b.IndustryBonus = IndustryBonus(industry, b.Platform)
	b.Competition = ClassifyCompetition(listings)
	b.CompetitionAdjustment = CompetitionAdjustment(b.Competition)
	b.AvgEngagement = AverageEngagement(listings)
	b.EngagementBonus = EngagementBonus(b.AvgEngagement)

	b.Total = combine(b.Base, b.IndustryBonus, b.CompetitionAdjustment, b.EngagementBonus)
	return b
}

// combine sums the terms into [MinScore, MaxScore], falling back to
// NeutralScore when the sum is not a finite number.
func combine(terms ...float64) float64 {
	var total float64
	for _, t := range terms {
		total += t
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return NeutralScore
	}
	return clamp(total, MinScore, MaxScore)
}

// RecommendationScore is Score(listings, industry).Total, always in [0,100].
func RecommendationScore(listings []models.Listing, industry string) float64 {
	return Score(listings, industry).Total
}

// BaseScore is (trust + reach) * 50 for the platform.
func BaseScore(p models.Platform) float64 {
	w := WeightFor(p)
	return (w.Trust + w.Reach) * 50
}

// IndustryBonus rewards a platform by its position in the industry's
// preference list: 20 for the first, 15 for the second, 10 for the third.
// Unlisted platforms and unknown industries get 0.
func IndustryBonus(industry string, p models.Platform) float64 {
	for i, preferred := range industryPlatforms[normaliseIndustry(industry)] {
		if preferred == p {
			return float64(industryBonusTop - industryBonusStep*i)
		}
	}
	return 0
}

// CompetitionAdjustment maps Low/Medium/High to +15/+5/-10, Unknown to 0.
func CompetitionAdjustment(level models.CompetitionLevel) float64 {
	return competitionAdjustments[level]
}

// EngagementBonus is twice the average engagement rate, capped at 15.
func EngagementBonus(avgEngagement float64) float64 {
	if !(avgEngagement > 0) {
		return 0
	}
	return math.Min(avgEngagement*engagementMultiplier, maxEngagementBonus)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
