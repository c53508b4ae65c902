package player

import (
	"sort"
	"time"

	"streambeats/internal/models"
)

// PlaylistInfo is the summary row returned by Playlists.
type PlaylistInfo struct {
	Name          string
	SongCount     int
	TotalDuration int // seconds; malformed durations contribute 0
	LastModified  time.Time
}

// CreatePlaylist creates an empty playlist for the user. Names are
// unique per user.
func (s *Service) CreatePlaylist(userID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.playlists[userID]
	if !ok {
		user = make(map[string][]models.Track)
		s.playlists[userID] = user
	}
	if _, exists := user[name]; exists {
		return ErrAlreadyExists
	}
	user[name] = []models.Track{}
	return nil
}

// AddToPlaylist appends a track, stamping AddedAt. Duplicate
// (platform, id) pairs are rejected.
func (s *Service) AddToPlaylist(userID int64, name string, track models.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.playlists[userID]
	if !ok {
		return ErrNotFound
	}
	tracks, ok := user[name]
	if !ok {
		return ErrNotFound
	}
	for _, existing := range tracks {
		if existing.Same(track) {
			return ErrDuplicateTrack
		}
	}
	track.AddedAt = s.now()
	user[name] = append(tracks, track)
	return nil
}

// RemoveFromPlaylist removes and returns the track at index.
func (s *Service) RemoveFromPlaylist(userID int64, name string, index int) (models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.playlists[userID]
	if !ok {
		return models.Track{}, ErrNotFound
	}
	tracks, ok := user[name]
	if !ok {
		return models.Track{}, ErrNotFound
	}
	if index < 0 || index >= len(tracks) {
		return models.Track{}, ErrIndexOutOfRange
	}
	removed := tracks[index]
	user[name] = append(tracks[:index], tracks[index+1:]...)
	return removed, nil
}

// Playlists summarizes every playlist the user owns, sorted by name.
func (s *Service) Playlists(userID int64) []PlaylistInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.playlists[userID]
	infos := make([]PlaylistInfo, 0, len(user))
	for name, tracks := range user {
		info := PlaylistInfo{Name: name, SongCount: len(tracks)}
		for _, t := range tracks {
			info.TotalDuration += models.ParseDuration(t.Duration)
			if t.AddedAt.After(info.LastModified) {
				info.LastModified = t.AddedAt
			}
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Playlist returns the ordered tracks of the named playlist. The second
// return distinguishes "not found" from "found but empty".
func (s *Service) Playlist(userID int64, name string) ([]models.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracks, ok := s.playlists[userID][name]
	if !ok {
		return nil, false
	}
	out := make([]models.Track, len(tracks))
	copy(out, tracks)
	return out, true
}

// DeletePlaylist removes the named playlist permanently.
func (s *Service) DeletePlaylist(userID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.playlists[userID]
	if !ok {
		return ErrNotFound
	}
	if _, exists := user[name]; !exists {
		return ErrNotFound
	}
	delete(user, name)
	return nil
}

// AllTracks flattens every playlist the user owns into one sequence,
// playlist by playlist (name order), preserving in-playlist order.
func (s *Service) AllTracks(userID int64) []models.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.playlists[userID]
	names := make([]string, 0, len(user))
	for name := range user {
		names = append(names, name)
	}
	sort.Strings(names)

	var all []models.Track
	for _, name := range names {
		all = append(all, user[name]...)
	}
	return all
}
