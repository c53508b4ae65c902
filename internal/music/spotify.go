package music

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"

	"streambeats/internal/models"
)

var ErrSpotifyDisabled = errors.New("spotify is disabled")

func (s *Service) spotifySearch(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if s.spotify == nil {
		return nil, ErrSpotifyDisabled
	}

	results, err := s.spotify.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("spotify search: %w", err)
	}
	if results.Tracks == nil {
		return nil, nil
	}

	tracks := make([]models.Track, 0, len(results.Tracks.Tracks))
	for _, item := range results.Tracks.Tracks {
		tracks = append(tracks, spotifyTrack(&item))
	}
	return tracks, nil
}

func (s *Service) spotifyTrackInfo(ctx context.Context, id string) (models.Track, error) {
	if s.spotify == nil {
		return models.Track{}, ErrSpotifyDisabled
	}

	full, err := s.spotify.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		return models.Track{}, fmt.Errorf("spotify track lookup: %w", err)
	}
	return spotifyTrack(full), nil
}

func spotifyTrack(full *spotify.FullTrack) models.Track {
	artists := make([]string, 0, len(full.Artists))
	for _, a := range full.Artists {
		artists = append(artists, a.Name)
	}

	t := models.Track{
		Platform: models.PlatformSpotify,
		ID:       string(full.ID),
		Title:    full.Name,
		Artist:   strings.Join(artists, ", "),
		Duration: models.FormatMillis(int(full.Duration)),
	}
	if len(full.Album.Images) > 0 {
		t.Thumbnail = full.Album.Images[0].URL
	}
	if url, ok := full.ExternalURLs["spotify"]; ok {
		t.URL = url
	}
	return t
}

// spotifyAudio streams the closest YouTube equivalent of a Spotify
// track; Spotify itself exposes no full-length download.
func (s *Service) spotifyAudio(ctx context.Context, id string) (*Audio, error) {
	info, err := s.spotifyTrackInfo(ctx, id)
	if err != nil {
		return nil, err
	}

	query := info.Artist + " " + cleanTitle(info.Title)
	candidates, err := s.search.Search(ctx, query, 5)
	if err != nil {
		return nil, fmt.Errorf("youtube equivalent search: %w", err)
	}

	match, ok := BestMatch(info, candidates)
	if !ok {
		return nil, fmt.Errorf("no youtube equivalent found for %q", info.Title)
	}

	audio, err := s.youtubeAudio(ctx, match.ID)
	if err != nil {
		return nil, err
	}
	// Keep the Spotify metadata on the sent file; the stream is just
	// the delivery vehicle.
	audio.Track.Title = info.Title
	audio.Track.Artist = info.Artist
	return audio, nil
}
