package models

import "testing"

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"3:00", 180},
		{"0:45", 45},
		{"10:05", 605},
		{"0:00", 0},
		{"", 0},
		{"3", 0},
		{"1:2:3", 0},
		{"abc:def", 0},
	}
	for _, c := range cases {
		if got := ParseDuration(c.in); got != c.want {
			t.Errorf("ParseDuration(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{180, "3:00"},
		{45, "0:45"},
		{605, "10:05"},
		{0, "0:00"},
		{-5, "0:00"},
	}
	for _, c := range cases {
		if got := FormatSeconds(c.in); got != c.want {
			t.Errorf("FormatSeconds(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatMillis(t *testing.T) {
	if got := FormatMillis(183500); got != "3:03" {
		t.Errorf("FormatMillis(183500) = %q, want 3:03", got)
	}
}

func TestTrackSame2(t *testing.T) {
	a := Track{Platform: PlatformYouTube, ID: "v1", Title: "A"}
	b := Track{Platform: PlatformYouTube, ID: "v1", Title: "different title"}
	c := Track{Platform: PlatformSpotify, ID: "v1"}
	if !a.Same(b) {
		t.Error("tracks with same platform and id should match")
	}
	if a.Same(c) {
		t.Error("tracks on different platforms should not match")
	}
}

func TestChannelJoinURL2(t *testing.T) {
	ch := Channel{ID: "@Jk_Bots"}
	if got := ch.JoinURL(); got != "https://t.me/Jk_Bots" {
		t.Errorf("JoinURL() = %q", got)
	}
}
