package player

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"streambeats/internal/models"
)

var (
	ErrNotFound        = errors.New("playlist not found")
	ErrAlreadyExists   = errors.New("playlist already exists")
	ErrDuplicateTrack  = errors.New("track already in playlist")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Service owns the per-chat playback queues and the per-user named
// playlists. Handlers receive it by injection; there is no package
// level state.
type Service struct {
	mu        sync.Mutex
	queues    map[int64]*queue
	playlists map[int64]map[string][]models.Track

	// Overridable in tests.
	randIndex func(n int) int
	now       func() time.Time
}

func NewService() *Service {
	return &Service{
		queues:    make(map[int64]*queue),
		playlists: make(map[int64]map[string][]models.Track),
		randIndex: rand.Intn,
		now:       time.Now,
	}
}
