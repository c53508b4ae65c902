package models

import (
	"strings"
	"time"
)

type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformSpotify Platform = "spotify"
)

// Track is one playable item. Identity within a playlist is the
// (Platform, ID) pair.
type Track struct {
	Platform  Platform  `json:"platform"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Duration  string    `json:"duration"` // display string, M:SS
	Thumbnail string    `json:"thumbnail,omitempty"`
	URL       string    `json:"url,omitempty"`
	AddedAt   time.Time `json:"addedAt"` // zero value means never saved to a playlist
}

// Same reports whether two tracks refer to the same platform item.
func (t Track) Same(other Track) bool {
	return t.Platform == other.Platform && t.ID == other.ID
}

// Channel is one required channel the user must join before the bot
// unlocks. Static configuration, loaded at process start.
type Channel struct {
	ID          string // "@handle" form
	Name        string
	DisplayName string
}

// JoinURL returns the public t.me link for the channel.
func (c Channel) JoinURL() string {
	return "https://t.me/" + strings.TrimPrefix(c.ID, "@")
}
