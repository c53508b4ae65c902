package music

import (
	"errors"
	"testing"
)

func TestAdmissionCeiling(t *testing.T) {
	a := NewAdmission(2)

	if err := a.TryAcquire(1); err != nil {
		t.Fatal(err)
	}
	if err := a.TryAcquire(1); err != nil {
		t.Fatal(err)
	}
	if err := a.TryAcquire(1); !errors.Is(err, ErrRateLimited) {
		t.Errorf("third acquire = %v, want ErrRateLimited", err)
	}

	// Other chats have their own budget.
	if err := a.TryAcquire(2); err != nil {
		t.Errorf("separate chat acquire = %v", err)
	}

	a.Release(1)
	if err := a.TryAcquire(1); err != nil {
		t.Errorf("acquire after release = %v", err)
	}
}

func TestAdmissionReleaseClamps(t *testing.T) {
	a := NewAdmission(1)
	a.Release(5) // never acquired
	if err := a.TryAcquire(5); err != nil {
		t.Errorf("acquire after stray release = %v", err)
	}
	if got := a.Active(); got != 1 {
		t.Errorf("active = %d, want 1", got)
	}
}
