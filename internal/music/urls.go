package music

import (
	"regexp"

	"streambeats/internal/models"
)

var (
	youtubeURLRegex = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`)
	spotifyURLRegex = regexp.MustCompile(`(?:open\.spotify\.com/track/|spotify:track:)([a-zA-Z0-9]+)`)
)

// ParseURL detects the platform of a pasted link and extracts the
// platform-specific id. Returns false for anything unrecognized.
func ParseURL(raw string) (models.Platform, string, bool) {
	if m := youtubeURLRegex.FindStringSubmatch(raw); m != nil {
		return models.PlatformYouTube, m[1], true
	}
	if m := spotifyURLRegex.FindStringSubmatch(raw); m != nil {
		return models.PlatformSpotify, m[1], true
	}
	return "", "", false
}
