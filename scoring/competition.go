package scoring

import "growth-hub/models"

const (
	highCompetitionRatio   = 0.6
	mediumCompetitionRatio = 0.3
)

// ClassifyCompetition returns the platform-level competition class of a batch.
//
// The ratio is High-tagged listings over tagged listings; untagged listings do
// not count towards either side. A batch with nothing tagged (including an
// empty batch) is Unknown.
func ClassifyCompetition(listings []models.Listing) models.CompetitionLevel {
	var tagged, high int
	for _, l := range listings {
		if !l.Tagged() {
			continue
		}
		tagged++
		if l.CompetitionLevel == models.CompetitionHigh {
			high++
		}
	}
	if tagged == 0 {
		return models.CompetitionUnknown
	}

	ratio := float64(high) / float64(tagged)
	switch {
	case ratio > highCompetitionRatio:
		return models.CompetitionHigh
	case ratio > mediumCompetitionRatio:
		return models.CompetitionMedium
	default:
		return models.CompetitionLow
	}
}
