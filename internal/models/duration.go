package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDuration converts an "M:SS" display string to seconds.
// Malformed input contributes 0.
func ParseDuration(s string) int {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0
	}
	mins, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	secs, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0
	}
	return mins*60 + secs
}

// FormatSeconds converts seconds to an "M:SS" display string.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatMillis converts milliseconds to an "M:SS" display string.
// Spotify reports track lengths in milliseconds.
func FormatMillis(ms int) string {
	return FormatSeconds(ms / 1000)
}
