package music

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"streambeats/internal/models"
)

const matchThreshold = 0.55

// cleanTitle drops bracketed noise ("(Official Video)" etc.) so search
// and scoring compare the actual song name.
func cleanTitle(title string) string {
	if idx := strings.IndexAny(title, "(["); idx != -1 {
		title = title[:idx]
	}
	return strings.TrimSpace(title)
}

// BestMatch scores candidates against the target track with
// Jaro-Winkler over "artist title" and returns the best one. When no
// candidate clears the threshold the first result is used anyway; a
// mediocre match beats no audio at all. False only when the candidate
// list is empty.
func BestMatch(target models.Track, candidates []models.Track) (models.Track, bool) {
	if len(candidates) == 0 {
		return models.Track{}, false
	}

	query := strings.ToLower(target.Artist + " " + cleanTitle(target.Title))
	jw := metrics.NewJaroWinkler()

	best := candidates[0]
	var highest float64

	for _, cand := range candidates {
		candStr := strings.ToLower(cand.Artist + " " + cleanTitle(cand.Title))
		score := strutil.Similarity(query, candStr, jw)
		if score > highest && score >= matchThreshold {
			highest = score
			best = cand
		}
	}
	return best, true
}
