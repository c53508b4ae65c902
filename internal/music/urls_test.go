package music

import (
	"testing"

	"streambeats/internal/models"
)

func TestParseURL(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		platform models.Platform
		id       string
		ok       bool
	}{
		{"youtube watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", models.PlatformYouTube, "dQw4w9WgXcQ", true},
		{"youtube short", "https://youtu.be/dQw4w9WgXcQ", models.PlatformYouTube, "dQw4w9WgXcQ", true},
		{"youtube embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", models.PlatformYouTube, "dQw4w9WgXcQ", true},
		{"youtube with params", "https://www.youtube.com/watch?v=abc123&t=42s", models.PlatformYouTube, "abc123", true},
		{"spotify track", "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT", models.PlatformSpotify, "4cOdK2wGLETKBW3PvgPWqT", true},
		{"spotify uri", "spotify:track:4cOdK2wGLETKBW3PvgPWqT", models.PlatformSpotify, "4cOdK2wGLETKBW3PvgPWqT", true},
		{"plain text", "bohemian rhapsody", "", "", false},
		{"other url", "https://example.com/song", "", "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			platform, id, ok := ParseURL(c.in)
			if ok != c.ok || platform != c.platform || id != c.id {
				t.Errorf("ParseURL(%q) = (%v, %q, %v), want (%v, %q, %v)",
					c.in, platform, id, ok, c.platform, c.id, c.ok)
			}
		})
	}
}
