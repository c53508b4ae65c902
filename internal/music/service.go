// Package music is the media backend: search, metadata, and audio
// streams for YouTube and Spotify, plus the per-chat download
// admission counter.
package music

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/kkdai/youtube/v2"
	spotifyapi "github.com/zmb3/spotify/v2"

	"streambeats/internal/database"
	"streambeats/internal/models"
)

type Service struct {
	yt      youtube.Client
	search  *YouTubeSearch
	spotify *spotifyapi.Client // nil when credentials are absent
	db      *sql.DB            // nil disables the metadata cache
	adm     *Admission
}

// NewService wires the backend. spotifyClient and db may be nil; the
// corresponding features degrade instead of failing.
func NewService(spotifyClient *spotifyapi.Client, db *sql.DB, maxConcurrentDownloads int) *Service {
	return &Service{
		search:  NewYouTubeSearch(),
		spotify: spotifyClient,
		db:      db,
		adm:     NewAdmission(maxConcurrentDownloads),
	}
}

// Admission exposes the download counter to the command layer.
func (s *Service) Admission() *Admission {
	return s.adm
}

// SpotifyEnabled reports whether Spotify credentials were configured.
func (s *Service) SpotifyEnabled() bool {
	return s.spotify != nil
}

// Search returns ranked track metadata for a free-text query. A
// disabled Spotify backend yields an empty result, not an error, so
// the caller always has something to render.
func (s *Service) Search(ctx context.Context, query string, platform models.Platform, limit int) ([]models.Track, error) {
	switch platform {
	case models.PlatformSpotify:
		tracks, err := s.spotifySearch(ctx, query, limit)
		if errors.Is(err, ErrSpotifyDisabled) {
			return nil, nil
		}
		return tracks, err
	default:
		return s.search.Search(ctx, query, limit)
	}
}

// TrackInfo resolves metadata for a platform item, consulting the
// sqlite cache first and filling it on a miss.
func (s *Service) TrackInfo(ctx context.Context, platform models.Platform, id string) (models.Track, error) {
	if cached, err := database.LookupTrack(s.db, platform, id); err == nil {
		return cached, nil
	}

	var (
		track models.Track
		err   error
	)
	switch platform {
	case models.PlatformSpotify:
		track, err = s.spotifyTrackInfo(ctx, id)
	default:
		track, err = s.youtubeTrackInfo(ctx, id)
	}
	if err != nil {
		return models.Track{}, err
	}

	if err := database.UpsertTrack(s.db, track); err != nil {
		log.Printf("music: cache track %s/%s: %v", platform, id, err)
	}
	return track, nil
}

// Audio fetches a streamable download for the track. Spotify tracks
// are resolved to their closest YouTube equivalent.
func (s *Service) Audio(ctx context.Context, track models.Track) (*Audio, error) {
	switch track.Platform {
	case models.PlatformSpotify:
		return s.spotifyAudio(ctx, track.ID)
	default:
		return s.youtubeAudio(ctx, track.ID)
	}
}

// Stats summarizes backend state for the stats commands.
type Stats struct {
	ActiveDownloads int
	SpotifyEnabled  bool
	CachedTracks    int
}

func (s *Service) Stats() Stats {
	cached, err := database.CountTracks(s.db)
	if err != nil {
		log.Printf("music: count cached tracks: %v", err)
	}
	return Stats{
		ActiveDownloads: s.adm.Active(),
		SpotifyEnabled:  s.spotify != nil,
		CachedTracks:    cached,
	}
}
