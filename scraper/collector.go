package scraper

import (
	"context"
	"errors"
	"fmt"

	"growth-hub/models"
	"growth-hub/utils"
)

// ErrUnsupportedPlatform is returned for platforms with no registered collector.
var ErrUnsupportedPlatform = errors.New("scraper: unsupported platform")

// Collector gathers raw listings for one platform from a set of search queries.
type Collector interface {
	Collect(ctx context.Context, platform models.Platform, queries []string) ([]models.RawListing, error)
}

// CollectorFunc adapts a function to the Collector interface.
type CollectorFunc func(ctx context.Context, platform models.Platform, queries []string) ([]models.RawListing, error)

// Collect calls f.
func (f CollectorFunc) Collect(ctx context.Context, platform models.Platform, queries []string) ([]models.RawListing, error) {
	return f(ctx, platform, queries)
}

// Router dispatches collection by platform, optionally retrying a platform on
// a fallback collector when the primary fails or finds nothing.
type Router struct {
	logger    *utils.Logger
	routes    map[models.Platform]Collector
	fallbacks map[models.Platform]Collector
}

// NewRouter creates an empty Router.
func NewRouter(logger *utils.Logger) *Router {
	return &Router{
		logger:    logger,
		routes:    make(map[models.Platform]Collector),
		fallbacks: make(map[models.Platform]Collector),
	}
}

// Handle registers c as the primary collector for the given platforms.
func (r *Router) Handle(c Collector, platforms ...models.Platform) *Router {
	for _, p := range platforms {
		r.routes[p] = c
	}
	return r
}

// Fallback registers c as the collector used when the primary for p fails.
func (r *Router) Fallback(p models.Platform, c Collector) *Router {
	r.fallbacks[p] = c
	return r
}

// Collect implements Collector.
func (r *Router) Collect(ctx context.Context, platform models.Platform, queries []string) ([]models.RawListing, error) {
	primary, ok := r.routes[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
	}

	listings, err := primary.Collect(ctx, platform, queries)
	if err == nil && len(listings) > 0 {
		return listings, nil
	}

	fallback, ok := r.fallbacks[platform]
	if !ok || ctx.Err() != nil {
		return listings, err
	}
	if err != nil {
		r.logger.Warn("[collector] %s collection failed (%v), using fallback", platform, err)
	} else {
		r.logger.Warn("[collector] %s returned no listings, using fallback", platform)
	}
	return fallback.Collect(ctx, platform, queries)
}
