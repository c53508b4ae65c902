package music

import (
	"errors"
	"sync"
)

var ErrRateLimited = errors.New("too many active downloads")

// Admission is the per-chat download ceiling: a saturating counter,
// incremented on start and decremented on completion. Requests over
// the ceiling are rejected; callers retry later, nothing is queued.
type Admission struct {
	mu     sync.Mutex
	active map[int64]int
	max    int
}

func NewAdmission(maxConcurrent int) *Admission {
	return &Admission{active: make(map[int64]int), max: maxConcurrent}
}

// TryAcquire reserves a download slot for the chat or returns
// ErrRateLimited.
func (a *Admission) TryAcquire(chatID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active[chatID] >= a.max {
		return ErrRateLimited
	}
	a.active[chatID]++
	return nil
}

// Release frees a slot. Releasing below zero is clamped.
func (a *Admission) Release(chatID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active[chatID] > 0 {
		a.active[chatID]--
	}
}

// Active returns the total in-flight downloads across all chats.
func (a *Admission) Active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0
	for _, n := range a.active {
		total += n
	}
	return total
}
