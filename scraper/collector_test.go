package scraper

import (
	"context"
	"errors"
	"testing"

	"growth-hub/models"
	"growth-hub/utils"
)

func fixed(n int, err error) CollectorFunc {
	return func(_ context.Context, p models.Platform, _ []string) ([]models.RawListing, error) {
		out := make([]models.RawListing, n)
		for i := range out {
			out[i] = models.RawListing{models.KeyPlatform: string(p)}
		}
		return out, err
	}
}

func TestRouterDispatch(t *testing.T) {
	r := NewRouter(utils.NewDiscardLogger()).
		Handle(fixed(2, nil), models.Amazon).
		Handle(fixed(5, nil), models.Instagram, models.YouTube)

	tests := []struct {
		platform models.Platform
		want     int
	}{
		{models.Amazon, 2},
		{models.Instagram, 5},
		{models.YouTube, 5},
	}
	for _, tt := range tests {
		got, err := r.Collect(context.Background(), tt.platform, []string{"q"})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.platform, err)
		}
		if len(got) != tt.want {
			t.Errorf("%s: got %d listings, want %d", tt.platform, len(got), tt.want)
		}
	}

	if _, err := r.Collect(context.Background(), models.Facebook, nil); !errors.Is(err, ErrUnsupportedPlatform) {
		t.Errorf("expected ErrUnsupportedPlatform, got %v", err)
	}
}

func TestRouterFallback(t *testing.T) {
	tests := []struct {
		name    string
		primary Collector
		want    int
	}{
		{"primary fails", fixed(0, errors.New("blocked")), 7},
		{"primary empty", fixed(0, nil), 7},
		{"primary succeeds", fixed(3, nil), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(utils.NewDiscardLogger()).
				Handle(tt.primary, models.Flipkart).
				Fallback(models.Flipkart, fixed(7, nil))

			got, err := r.Collect(context.Background(), models.Flipkart, []string{"q"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d listings, want %d", len(got), tt.want)
			}
		})
	}
}

func TestRouterNoFallbackKeepsError(t *testing.T) {
	r := NewRouter(utils.NewDiscardLogger()).Handle(fixed(0, errors.New("blocked")), models.Amazon)
	if _, err := r.Collect(context.Background(), models.Amazon, nil); err == nil {
		t.Fatal("expected the primary error")
	}
}
