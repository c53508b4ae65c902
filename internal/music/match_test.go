package music

import (
	"testing"

	"streambeats/internal/models"
)

func yt(id, title, artist string) models.Track {
	return models.Track{Platform: models.PlatformYouTube, ID: id, Title: title, Artist: artist}
}

func TestBestMatchPrefersClosestCandidate(t *testing.T) {
	target := models.Track{
		Platform: models.PlatformSpotify,
		Title:    "Bohemian Rhapsody",
		Artist:   "Queen",
	}
	candidates := []models.Track{
		yt("a", "Bohemian Rhapsody cover by somebody else entirely", "Random Channel"),
		yt("b", "Bohemian Rhapsody (Official Video)", "Queen"),
		yt("c", "Unrelated Song", "Unrelated Artist"),
	}

	got, ok := BestMatch(target, candidates)
	if !ok || got.ID != "b" {
		t.Errorf("BestMatch = %v %v, want candidate b", got.ID, ok)
	}
}

func TestBestMatchFallsBackToFirst(t *testing.T) {
	target := models.Track{Platform: models.PlatformSpotify, Title: "Xyzzy", Artist: "Nobody"}
	candidates := []models.Track{
		yt("first", "Completely Different", "Someone"),
		yt("second", "Also Different", "Else"),
	}

	got, ok := BestMatch(target, candidates)
	if !ok || got.ID != "first" {
		t.Errorf("fallback = %v %v, want first", got.ID, ok)
	}
}

func TestBestMatchEmptyCandidates(t *testing.T) {
	if _, ok := BestMatch(models.Track{Title: "x"}, nil); ok {
		t.Error("empty candidate list should report no match")
	}
}

func TestCleanTitle(t *testing.T) {
	cases := map[string]string{
		"Song (Official Video)":  "Song",
		"Song [Lyrics]":          "Song",
		"Song":                   "Song",
		"(everything bracketed)": "",
	}
	for in, want := range cases {
		if got := cleanTitle(in); got != want {
			t.Errorf("cleanTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
