package bot

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"streambeats/internal/models"
	"streambeats/internal/music"
)

// fakeTransport records every outbound call. Optional func fields
// override individual methods for failure-path tests. It also backs
// the membership checker in router tests via memberStatuses.
type fakeTransport struct {
	mu sync.Mutex

	sends  []sentMessage
	edits  []sentMessage
	audios []sentAudio

	deleted   []int
	callbacks []string

	sendFn      func(chatID int64, text, parseMode string, kb *Keyboard) (int, error)
	editFn      func(chatID int64, messageID int, text, parseMode string, kb *Keyboard) error
	sendAudioFn func(chatID int64, audio *music.Audio, caption string) error

	// "channelID/userID" -> Telegram status string
	memberStatuses map[string]string
	botID          int64

	nextMessageID int
}

type sentMessage struct {
	chatID    int64
	messageID int
	text      string
	parseMode string
	kb        *Keyboard
}

type sentAudio struct {
	chatID  int64
	title   string
	caption string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{memberStatuses: make(map[string]string), botID: 42}
}

func (f *fakeTransport) Send(chatID int64, text, parseMode string, kb *Keyboard) (int, error) {
	if f.sendFn != nil {
		return f.sendFn(chatID, text, parseMode, kb)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextMessageID++
	f.sends = append(f.sends, sentMessage{chatID: chatID, messageID: f.nextMessageID, text: text, parseMode: parseMode, kb: kb})
	return f.nextMessageID, nil
}

func (f *fakeTransport) Edit(chatID int64, messageID int, text, parseMode string, kb *Keyboard) error {
	if f.editFn != nil {
		return f.editFn(chatID, messageID, text, parseMode, kb)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, sentMessage{chatID: chatID, messageID: messageID, text: text, parseMode: parseMode, kb: kb})
	return nil
}

func (f *fakeTransport) Delete(chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeTransport) SendAudio(chatID int64, audio *music.Audio, caption string) error {
	if f.sendAudioFn != nil {
		if err := f.sendAudioFn(chatID, audio, caption); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audios = append(f.audios, sentAudio{chatID: chatID, title: audio.Track.Title, caption: caption})
	return nil
}

func (f *fakeTransport) AnswerCallback(callbackID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks = append(f.callbacks, callbackID)
	return nil
}

func (f *fakeTransport) MemberStatus(ctx context.Context, channelID string, userID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status, ok := f.memberStatuses[fmt.Sprintf("%s/%d", channelID, userID)]
	if !ok {
		return "left", nil
	}
	return status, nil
}

func (f *fakeTransport) BotID(ctx context.Context) (int64, error) {
	return f.botID, nil
}

func (f *fakeTransport) lastSend() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sends) == 0 {
		return sentMessage{}
	}
	return f.sends[len(f.sends)-1]
}

func (f *fakeTransport) sentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	texts := make([]string, len(f.sends))
	for i, s := range f.sends {
		texts[i] = s.text
	}
	return texts
}

func anyContains(texts []string, substr string) bool {
	for _, t := range texts {
		if strings.Contains(t, substr) {
			return true
		}
	}
	return false
}

// fakeMusic satisfies MusicBackend without network access.
type fakeMusic struct {
	searchFn    func(ctx context.Context, query string, platform models.Platform, limit int) ([]models.Track, error)
	trackInfoFn func(ctx context.Context, platform models.Platform, id string) (models.Track, error)
	audioFn     func(ctx context.Context, track models.Track) (*music.Audio, error)

	adm *music.Admission
}

func newFakeMusic() *fakeMusic {
	return &fakeMusic{adm: music.NewAdmission(2)}
}

func (f *fakeMusic) Search(ctx context.Context, query string, platform models.Platform, limit int) ([]models.Track, error) {
	if f.searchFn != nil {
		return f.searchFn(ctx, query, platform, limit)
	}
	return []models.Track{{
		Platform: models.PlatformYouTube,
		ID:       "vid1",
		Title:    "Found: " + query,
		Artist:   "Some Channel",
		Duration: "3:00",
		URL:      "https://www.youtube.com/watch?v=vid1",
	}}, nil
}

func (f *fakeMusic) TrackInfo(ctx context.Context, platform models.Platform, id string) (models.Track, error) {
	if f.trackInfoFn != nil {
		return f.trackInfoFn(ctx, platform, id)
	}
	return models.Track{Platform: platform, ID: id, Title: "Track " + id, Artist: "Artist", Duration: "2:30"}, nil
}

func (f *fakeMusic) Audio(ctx context.Context, track models.Track) (*music.Audio, error) {
	if f.audioFn != nil {
		return f.audioFn(ctx, track)
	}
	return &music.Audio{
		Stream: io.NopCloser(strings.NewReader("audio-bytes")),
		Size:   11,
		Track:  track,
	}, nil
}

func (f *fakeMusic) Stats() music.Stats {
	return music.Stats{ActiveDownloads: f.adm.Active(), SpotifyEnabled: false, CachedTracks: 7}
}

func (f *fakeMusic) Admission() *music.Admission { return f.adm }

func (f *fakeMusic) SpotifyEnabled() bool { return false }
