package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"growth-hub/models"
	"growth-hub/utils"
)

// Scraper collects product listings from marketplace search result pages.
type Scraper struct {
	fetcher Fetcher
	logger  *utils.Logger
	retry   *utils.RetryConfig
	limit   int
}

// New creates a Scraper that keeps at most limit products per query.
func New(fetcher Fetcher, limit, maxRetries int, logger *utils.Logger) *Scraper {
	if limit < 1 {
		limit = 10
	}
	return &Scraper{
		fetcher: fetcher,
		logger:  logger,
		limit:   limit,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Collect scrapes every query for platform. A failing query is logged and
// skipped; an error is returned only when no query produced anything.
func (s *Scraper) Collect(ctx context.Context, platform models.Platform, queries []string) ([]models.RawListing, error) {
	parse, ok := parsers[platform]
	if !ok {
		return nil, fmt.Errorf("marketplace: no parser for %s", platform)
	}

	seen := utils.NewSeenSet()
	var listings []models.RawListing
	var errs []error

	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		s.logger.Info("[%s] Scraping query: %q", platform, query)
		products, err := s.search(ctx, platform, parse, query)
		if err != nil {
			s.logger.Warn("[%s] Query %q failed: %v", platform, query, err)
			errs = append(errs, err)
			continue
		}

		kept := 0
		for _, p := range products {
			if p.url != "" && !seen.Add(p.url) {
				s.logger.Debug("[%s] Skipping duplicate: %s", platform, p.url)
				continue
			}
			listings = append(listings, p.raw(platform, query))
			kept++
		}
		s.logger.Info("[%s] Query %q: %d products", platform, query, kept)
	}

	if len(listings) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("marketplace: %s: %w", platform, errors.Join(errs...))
	}
	return listings, nil
}

func (s *Scraper) search(ctx context.Context, platform models.Platform, parse parser, query string) ([]product, error) {
	var products []product
	err := s.retry.Do(ctx, fmt.Sprintf("%s-search", platform), func(ctx context.Context) error {
		html, err := s.fetcher.Fetch(ctx, SearchURL(platform, query))
		if err != nil {
			return err
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return fmt.Errorf("parsing results: %w", err)
		}
		products = parse(doc, s.limit)
		return nil
	})
	return products, err
}
