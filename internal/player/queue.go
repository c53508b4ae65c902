package player

import "streambeats/internal/models"

// queue is the mutable per-chat state. The exported Queue snapshot is
// what callers see.
type queue struct {
	songs        []models.Track
	currentIndex int
	repeat       bool
	shuffle      bool
	playing      bool
}

// Queue is a point-in-time copy of a chat's queue.
type Queue struct {
	Songs        []models.Track
	CurrentIndex int
	Repeat       bool
	Shuffle      bool
	Playing      bool
}

func (s *Service) chatQueue(chatID int64) *queue {
	q, ok := s.queues[chatID]
	if !ok {
		q = &queue{}
		s.queues[chatID] = q
	}
	return q
}

// Enqueue inserts track at position (append when position is -1 or past
// the end) and returns the index of the last element. The chat's queue
// is created on first use.
func (s *Service) Enqueue(chatID int64, track models.Track, position int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.chatQueue(chatID)
	if position < 0 || position >= len(q.songs) {
		q.songs = append(q.songs, track)
	} else {
		q.songs = append(q.songs[:position], append([]models.Track{track}, q.songs[position:]...)...)
	}
	return len(q.songs) - 1
}

// GetQueue returns a snapshot of the chat's queue, or an empty default
// when none exists. Reading never creates a stored entry.
func (s *Service) GetQueue(chatID int64) Queue {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[chatID]
	if !ok {
		return Queue{}
	}
	snap := Queue{
		Songs:        make([]models.Track, len(q.songs)),
		CurrentIndex: q.currentIndex,
		Repeat:       q.repeat,
		Shuffle:      q.shuffle,
		Playing:      q.playing,
	}
	copy(snap.Songs, q.songs)
	return snap
}

// CurrentTrack returns the track under the cursor. The second return is
// false when the queue is empty or the cursor is out of bounds.
func (s *Service) CurrentTrack(chatID int64) (models.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked(chatID)
}

func (s *Service) currentLocked(chatID int64) (models.Track, bool) {
	q, ok := s.queues[chatID]
	if !ok || len(q.songs) == 0 || q.currentIndex >= len(q.songs) {
		return models.Track{}, false
	}
	return q.songs[q.currentIndex], true
}

// Advance moves the cursor forward. Repeat keeps the cursor in place;
// shuffle jumps to a uniformly random index (immediate repeats are
// allowed); otherwise the cursor increments and wraps to 0 past the
// end.
func (s *Service) Advance(chatID int64) (models.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[chatID]
	if !ok || len(q.songs) == 0 {
		return models.Track{}, false
	}

	if q.repeat {
		return s.currentLocked(chatID)
	}

	if q.shuffle {
		q.currentIndex = s.randIndex(len(q.songs))
	} else {
		q.currentIndex++
		if q.currentIndex >= len(q.songs) {
			q.currentIndex = 0
		}
	}
	return s.currentLocked(chatID)
}

// Retreat moves the cursor backward, wrapping to the last index below
// 0. Repeat has no effect here; only shuffle changes the selection.
func (s *Service) Retreat(chatID int64) (models.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[chatID]
	if !ok || len(q.songs) == 0 {
		return models.Track{}, false
	}

	if q.shuffle {
		q.currentIndex = s.randIndex(len(q.songs))
	} else {
		q.currentIndex--
		if q.currentIndex < 0 {
			q.currentIndex = len(q.songs) - 1
		}
	}
	return s.currentLocked(chatID)
}

// ClearQueue resets the chat's queue to empty with all flags off. The
// queue entry itself survives; queues are emptied, never destroyed.
func (s *Service) ClearQueue(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.queues[chatID]; ok {
		s.queues[chatID] = &queue{}
	}
}

// RemoveFromQueue removes the track at index. When the removed index
// precedes the cursor the cursor shifts down to stay on the same
// logical track; removing the cursor's own track past the new end
// resets the cursor to 0. Out-of-range indexes return false.
func (s *Service) RemoveFromQueue(chatID int64, index int) (models.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[chatID]
	if !ok || index < 0 || index >= len(q.songs) {
		return models.Track{}, false
	}

	removed := q.songs[index]
	q.songs = append(q.songs[:index], q.songs[index+1:]...)

	if index < q.currentIndex {
		q.currentIndex--
	} else if index == q.currentIndex && q.currentIndex >= len(q.songs) {
		q.currentIndex = 0
	}
	return removed, true
}

// ToggleRepeat flips the repeat flag and returns the new value. A chat
// without a queue reports false.
func (s *Service) ToggleRepeat(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[chatID]
	if !ok {
		return false
	}
	q.repeat = !q.repeat
	return q.repeat
}

// ToggleShuffle flips the shuffle flag and returns the new value.
func (s *Service) ToggleShuffle(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[chatID]
	if !ok {
		return false
	}
	q.shuffle = !q.shuffle
	return q.shuffle
}

// SetPlaying records the display-only playing flag. No-op for a chat
// without a queue.
func (s *Service) SetPlaying(chatID int64, playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q, ok := s.queues[chatID]; ok {
		q.playing = playing
	}
}

// LoadPlaylist enqueues every track of the named playlist in order,
// optionally clearing the queue first. Returns the number of tracks
// enqueued.
func (s *Service) LoadPlaylist(chatID, userID int64, name string, replace bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracks, ok := s.playlists[userID][name]
	if !ok {
		return 0, ErrNotFound
	}

	if replace {
		if _, exists := s.queues[chatID]; exists {
			s.queues[chatID] = &queue{}
		}
	}

	q := s.chatQueue(chatID)
	q.songs = append(q.songs, tracks...)
	return len(tracks), nil
}
