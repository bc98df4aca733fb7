package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growth-hub/models"
)

func TestCSVWriterWritesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "raw.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	w.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	require.NoError(t, w.WriteRaw([]models.RawListing{
		{
			models.KeyPlatform:         "amazon",
			models.KeyQuery:            "kurta",
			models.KeyTitle:            "Cotton, Kurta",
			models.KeyPrice:            "₹1,299",
			models.KeyRating:           4.5,
			models.KeyReviewsCount:     120,
			models.KeyCompetitionLevel: "High",
		},
		{
			models.KeyPlatform:       "instagram",
			models.KeyEngagementRate: 3.25,
		},
	}))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"platform", "query", "title", "price", "rating", "reviews_count",
		"engagement_rate", "competition_level", "url", "collected_at"}, records[0])
	assert.Equal(t, []string{"amazon", "kurta", "Cotton, Kurta", "₹1,299", "4.5", "120",
		"", "High", "", "2025-01-02T03:04:05Z"}, records[1])
	assert.Equal(t, "3.25", records[2][6])
	assert.Equal(t, "", records[2][2])
}
