package membership

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the latest membership-check outcome per user as two
// id sets in a single JSON file. The whole file is rewritten on every
// update; writes are serialized by the mutex.
type Store struct {
	mu   sync.Mutex
	path string
	data fileData
}

type fileData struct {
	Checked    userSet `json:"CHECKED"`
	NotChecked userSet `json:"NOT_CHECKED"`
}

type userSet struct {
	Users []int64 `json:"users"`
}

// OpenStore loads the check file, falling back to an empty state when
// the file is missing or unreadable.
func OpenStore(path string) *Store {
	s := &Store{path: path}
	raw, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			log.Printf("membership: corrupt check file %s, starting fresh: %v", path, err)
			s.data = fileData{}
		}
	}
	return s
}

// MarkChecked records the user as having passed the join check, moving
// them out of the failed set if present.
func (s *Store) MarkChecked(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.NotChecked.Users = remove(s.data.NotChecked.Users, userID)
	s.data.Checked.Users = add(s.data.Checked.Users, userID)
	s.save()
}

// MarkNotChecked records a failed join check.
func (s *Store) MarkNotChecked(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Checked.Users = remove(s.data.Checked.Users, userID)
	s.data.NotChecked.Users = add(s.data.NotChecked.Users, userID)
	s.save()
}

// IsChecked reports whether the user's latest recorded outcome was a
// pass.
func (s *Store) IsChecked(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.data.Checked.Users {
		if id == userID {
			return true
		}
	}
	return false
}

func (s *Store) save() {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		log.Printf("membership: marshal check data: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		log.Printf("membership: create data dir: %v", err)
		return
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		log.Printf("membership: write check file: %v", err)
	}
}

func add(ids []int64, id int64) []int64 {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func remove(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
