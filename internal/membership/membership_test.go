package membership

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"streambeats/internal/models"
)

const testBotID int64 = 999

var testChannels = []models.Channel{
	{ID: "@one", Name: "One", DisplayName: "one"},
	{ID: "@two", Name: "Two", DisplayName: "two"},
	{ID: "@three", Name: "Three", DisplayName: "three"},
}

// fakeAPI maps (channel, user) to a status; missing entries simulate
// lookup failures.
type fakeAPI struct {
	statuses map[string]string // "channel/userID" -> status
	botErr   error
}

func key(channelID string, userID int64) string {
	return channelID + "/" + itoa(userID)
}

func itoa(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func (f *fakeAPI) MemberStatus(_ context.Context, channelID string, userID int64) (string, error) {
	st, ok := f.statuses[key(channelID, userID)]
	if !ok {
		return "", errors.New("chat member lookup failed")
	}
	return st, nil
}

func (f *fakeAPI) BotID(context.Context) (int64, error) {
	if f.botErr != nil {
		return 0, f.botErr
	}
	return testBotID, nil
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{statuses: make(map[string]string)}
}

func (f *fakeAPI) setAll(userID int64, status string) {
	for _, ch := range testChannels {
		f.statuses[key(ch.ID, userID)] = status
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return OpenStore(filepath.Join(t.TempDir(), "user-checks.json"))
}

func TestGateAllowed(t *testing.T) {
	api := newFakeAPI()
	api.setAll(1, "member")
	api.setAll(testBotID, "administrator")
	store := newTestStore(t)
	checker := NewChecker(api, store, testChannels)

	verdict, res := checker.Gate(context.Background(), 1)
	if verdict != Allowed {
		t.Fatalf("verdict = %v, want Allowed (result %+v)", verdict, res)
	}
	if !store.IsChecked(1) {
		t.Error("user should be in the CHECKED set")
	}
	for _, id := range store.data.NotChecked.Users {
		if id == 1 {
			t.Error("user must not be in NOT_CHECKED")
		}
	}
}

func TestGateMissingChannels(t *testing.T) {
	api := newFakeAPI()
	api.setAll(1, "member")
	api.statuses[key("@two", 1)] = "left"
	api.setAll(testBotID, "creator")
	store := newTestStore(t)
	checker := NewChecker(api, store, testChannels)

	verdict, res := checker.Gate(context.Background(), 1)
	if verdict != MissingChannels {
		t.Fatalf("verdict = %v, want MissingChannels", verdict)
	}
	if len(res.MissingUser) != 1 || res.MissingUser[0].ID != "@two" {
		t.Errorf("missing channels = %+v, want exactly @two", res.MissingUser)
	}
	if store.IsChecked(1) {
		t.Error("user must not be in CHECKED")
	}
	if len(store.data.NotChecked.Users) != 1 || store.data.NotChecked.Users[0] != 1 {
		t.Errorf("NOT_CHECKED = %v", store.data.NotChecked.Users)
	}
}

func TestGateBotNotAdminShortCircuits(t *testing.T) {
	api := newFakeAPI()
	api.setAll(1, "member")
	api.setAll(testBotID, "administrator")
	api.statuses[key("@three", testBotID)] = "member" // present but not admin
	store := newTestStore(t)
	checker := NewChecker(api, store, testChannels)

	verdict, res := checker.Gate(context.Background(), 1)
	if verdict != BotNotAdmin {
		t.Fatalf("verdict = %v, want BotNotAdmin", verdict)
	}
	if len(res.MissingBotAdmin) != 1 || res.MissingBotAdmin[0] != "@three" {
		t.Errorf("missing bot admin = %v", res.MissingBotAdmin)
	}
	// Neither set gains the user, regardless of join status.
	if len(store.data.Checked.Users) != 0 || len(store.data.NotChecked.Users) != 0 {
		t.Errorf("sets modified: %+v", store.data)
	}
}

func TestLookupFailureCountsAsNegative(t *testing.T) {
	api := newFakeAPI()
	// No statuses registered at all: every lookup errors.
	store := newTestStore(t)
	checker := NewChecker(api, store, testChannels)

	res := checker.Status(context.Background(), 1)
	if len(res.MissingUser) != len(testChannels) {
		t.Errorf("all user lookups failed; missing = %d, want %d", len(res.MissingUser), len(testChannels))
	}
	if len(res.MissingBotAdmin) != len(testChannels) {
		t.Errorf("all bot lookups failed; missing admin = %d, want %d", len(res.MissingBotAdmin), len(testChannels))
	}
}

func TestBotIDFailureDegrades(t *testing.T) {
	api := newFakeAPI()
	api.setAll(1, "member")
	api.botErr = errors.New("getMe failed")
	checker := NewChecker(api, newTestStore(t), testChannels)

	res := checker.Status(context.Background(), 1)
	if len(res.MissingUser) != 0 {
		t.Errorf("user checks should still run: %+v", res.MissingUser)
	}
	if len(res.MissingBotAdmin) != len(testChannels) {
		t.Errorf("bot id failure should mark every channel: %v", res.MissingBotAdmin)
	}
}

func TestRecheckMovesUserBetweenSets(t *testing.T) {
	api := newFakeAPI()
	api.setAll(1, "left")
	api.setAll(testBotID, "administrator")
	store := newTestStore(t)
	checker := NewChecker(api, store, testChannels)

	checker.Gate(context.Background(), 1)
	if store.IsChecked(1) {
		t.Fatal("first check should fail")
	}

	// User joins everything and retries.
	api.setAll(1, "member")
	checker.Gate(context.Background(), 1)
	if !store.IsChecked(1) {
		t.Fatal("retry should pass")
	}
	if len(store.data.NotChecked.Users) != 0 {
		t.Errorf("NOT_CHECKED should be emptied, got %v", store.data.NotChecked.Users)
	}
}

func TestStorePersistsAndReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "user-checks.json")

	store := OpenStore(path)
	store.MarkChecked(7)
	store.MarkNotChecked(8)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("check file not written: %v", err)
	}
	var onDisk struct {
		Checked struct {
			Users []int64 `json:"users"`
		} `json:"CHECKED"`
		NotChecked struct {
			Users []int64 `json:"users"`
		} `json:"NOT_CHECKED"`
	}
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("check file is not valid JSON: %v", err)
	}
	if len(onDisk.Checked.Users) != 1 || onDisk.Checked.Users[0] != 7 {
		t.Errorf("CHECKED on disk = %v", onDisk.Checked.Users)
	}

	reloaded := OpenStore(path)
	if !reloaded.IsChecked(7) {
		t.Error("reloaded store lost CHECKED entry")
	}
	if reloaded.IsChecked(8) {
		t.Error("user 8 should not be checked")
	}
}

func TestStoreSurvivesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user-checks.json")
	os.WriteFile(path, []byte("{not json"), 0644)

	store := OpenStore(path)
	if store.IsChecked(1) {
		t.Error("corrupt file should yield empty state")
	}
	store.MarkChecked(1)
	if !store.IsChecked(1) {
		t.Error("store unusable after corrupt load")
	}
}
