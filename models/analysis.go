package models

import (
	"time"

	"github.com/google/uuid"
)

// Business is the owner-scoped subject of an analysis run.
type Business struct {
	ID               int64     `json:"id"`
	OwnerID          int64     `json:"owner_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Industry         string    `json:"industry"`
	TargetAudience   string    `json:"target_audience"`
	BudgetRange      string    `json:"budget_range"`
	CurrentPlatforms []string  `json:"current_platforms"`
	Goals            string    `json:"goals"`
	CreatedAt        time.Time `json:"created_at"`
}

// PlatformAnalytic is the scored summary of one platform for one run.
type PlatformAnalytic struct {
	RunID               uuid.UUID        `json:"run_id"`
	BusinessID          int64            `json:"business_id"`
	Platform            Platform         `json:"platform"`
	TotalListings       int              `json:"total_listings"`
	AvgRating           float64          `json:"avg_rating"`
	AvgPrice            float64          `json:"avg_price"`
	CompetitionLevel    CompetitionLevel `json:"competition_level"`
	EngagementRate      float64          `json:"engagement_rate"`
	RecommendationScore float64          `json:"recommendation_score"`
	CreatedAt           time.Time        `json:"created_at"`
}

// InsightType names one of the fixed recommendation bundles.
type InsightType string

const (
	InsightPlatformRecommendation InsightType = "platform_recommendation"
	InsightPricingStrategy        InsightType = "pricing_strategy"
	InsightContentStrategy        InsightType = "content_strategy"
	InsightMarketTiming           InsightType = "market_timing"
	InsightGrowthTactics          InsightType = "growth_tactics"
)

// Insight is one templated recommendation bundle.
type Insight struct {
	RunID      uuid.UUID      `json:"run_id"`
	BusinessID int64          `json:"business_id"`
	Type       InsightType    `json:"type"`
	Payload    map[string]any `json:"data"`
	Confidence int            `json:"confidence"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Title returns the payload's title, or the insight type when none is set.
func (i Insight) Title() string {
	if t, ok := i.Payload["title"].(string); ok && t != "" {
		return t
	}
	return string(i.Type)
}
