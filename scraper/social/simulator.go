// Package social produces listing batches for platforms that have no
// scrapeable search page. The figures are simulated within the ranges those
// platforms typically show, and every item carries a competition tag.
package social

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"growth-hub/models"
)

var competitionLevels = []models.CompetitionLevel{
	models.CompetitionLow,
	models.CompetitionMedium,
	models.CompetitionHigh,
}

// Simulator generates listing batches from a seeded random source. It is safe
// for concurrent use.
type Simulator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	limit int
}

// NewSimulator creates a Simulator. A zero seed uses the current time, so
// consecutive runs differ; any other seed gives reproducible batches.
// limit caps the marketplace mock batch and is ignored for social platforms.
func NewSimulator(seed int64, limit int) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if limit < 1 {
		limit = 10
	}
	return &Simulator{rng: rand.New(rand.NewSource(seed)), limit: limit}
}

// Collect implements scraper.Collector. Only the first query is used as the
// topic of the generated items.
func (s *Simulator) Collect(ctx context.Context, platform models.Platform, queries []string) ([]models.RawListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query := ""
	if len(queries) > 0 {
		query = queries[0]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch platform {
	case models.Instagram:
		return s.instagram(query), nil
	case models.YouTube:
		return s.youtube(query), nil
	case models.Facebook:
		return s.facebook(query), nil
	case models.Flipkart:
		return s.marketplace(platform, query), nil
	}
	return nil, fmt.Errorf("social: cannot simulate %s", platform)
}

func (s *Simulator) instagram(query string) []models.RawListing {
	n := s.between(10, 25)
	posts := make([]models.RawListing, 0, n)
	for i := 1; i <= n; i++ {
		posts = append(posts, models.RawListing{
			models.KeyPlatform:         string(models.Instagram),
			models.KeyTitle:            fmt.Sprintf("Instagram post about %s #%d", query, i),
			models.KeyQuery:            query,
			models.KeyEngagementRate:   s.uniform(2, 8),
			models.KeyCompetitionLevel: s.level(),
			"followers":                s.between(1000, 50000),
			"likes":                    s.between(100, 5000),
			"comments":                 s.between(10, 500),
			"hashtags":                 s.between(15, 30),
		})
	}
	return posts
}

func (s *Simulator) youtube(query string) []models.RawListing {
	n := s.between(8, 20)
	videos := make([]models.RawListing, 0, n)
	for i := 1; i <= n; i++ {
		views := s.between(1000, 100000)
		likes := int(float64(views) * s.uniform(0.02, 0.05))
		videos = append(videos, models.RawListing{
			models.KeyPlatform:         string(models.YouTube),
			models.KeyTitle:            fmt.Sprintf("YouTube video about %s #%d", query, i),
			models.KeyQuery:            query,
			models.KeyEngagementRate:   float64(likes) / float64(views) * 100,
			models.KeyCompetitionLevel: s.level(),
			"views":                    views,
			"likes":                    likes,
			"subscribers":              s.between(500, 20000),
		})
	}
	return videos
}

// facebook pages report post engagement, not an engagement rate, so they do
// not contribute to the engagement average.
func (s *Simulator) facebook(query string) []models.RawListing {
	n := s.between(5, 15)
	pages := make([]models.RawListing, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, models.RawListing{
			models.KeyPlatform:         string(models.Facebook),
			models.KeyTitle:            fmt.Sprintf("Facebook page about %s #%d", query, i),
			models.KeyQuery:            query,
			models.KeyCompetitionLevel: s.level(),
			"page_likes":               s.between(500, 25000),
			"post_engagement":          s.uniform(1, 6),
			"reach":                    s.between(1000, 15000),
		})
	}
	return pages
}

// marketplace stands in for a marketplace whose search page could not be
// scraped.
func (s *Simulator) marketplace(platform models.Platform, query string) []models.RawListing {
	n := min(s.limit, s.between(5, 15))
	products := make([]models.RawListing, 0, n)
	for i := 1; i <= n; i++ {
		products = append(products, models.RawListing{
			models.KeyPlatform:         string(platform),
			models.KeyTitle:            fmt.Sprintf("%s %s product #%d", titleCase(string(platform)), query, i),
			models.KeyQuery:            query,
			models.KeyPrice:            fmt.Sprintf("%d", s.between(500, 5000)),
			models.KeyRating:           math.Round(s.uniform(3.0, 4.8)*10) / 10,
			models.KeyReviewsCount:     s.between(50, 2000),
			models.KeyCompetitionLevel: s.level(),
		})
	}
	return products
}

// between returns an int in [lo, hi].
func (s *Simulator) between(lo, hi int) int {
	return lo + s.rng.Intn(hi-lo+1)
}

func (s *Simulator) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *Simulator) level() string {
	return string(competitionLevels[s.rng.Intn(len(competitionLevels))])
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
