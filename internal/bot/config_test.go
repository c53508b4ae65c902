package bot

import (
	"strings"
	"testing"
)

func TestLoadConfigRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	if _, err := LoadConfig(); err == nil {
		t.Error("expected error without a token")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name() != "Stream Beats" {
		t.Errorf("default name = %q", cfg.Name())
	}
	if cfg.Port != "8000" {
		t.Errorf("default port = %q", cfg.Port)
	}
	if !cfg.CommandEnabled("play") || !cfg.CommandEnabled("PLAY") {
		t.Error("default allowlist should enable play case-insensitively")
	}
	if len(cfg.RequiredChannels) != 3 {
		t.Errorf("default channels = %d, want 3", len(cfg.RequiredChannels))
	}
	if cfg.MaxEchoLength != 500 {
		t.Errorf("default echo length = %d", cfg.MaxEchoLength)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ENABLED_COMMANDS", "start, Help")
	t.Setenv("REQUIRED_CHANNELS", "@one|One|The One,@two")
	t.Setenv("BOT_ADMINS", "5, 6, junk")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CommandEnabled("play") {
		t.Error("play should be disabled by the explicit allowlist")
	}
	if !cfg.CommandEnabled("help") {
		t.Error("help should be enabled")
	}
	if len(cfg.RequiredChannels) != 2 {
		t.Fatalf("channels = %+v", cfg.RequiredChannels)
	}
	if cfg.RequiredChannels[0].DisplayName != "The One" {
		t.Errorf("display name = %q", cfg.RequiredChannels[0].DisplayName)
	}
	if cfg.RequiredChannels[1].DisplayName != "@two" {
		t.Errorf("bare channel display = %q", cfg.RequiredChannels[1].DisplayName)
	}
	if len(cfg.BotAdmins) != 2 || cfg.BotAdmins[0] != 5 || cfg.BotAdmins[1] != 6 {
		t.Errorf("admins = %v", cfg.BotAdmins)
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{AdminUserID: 1, BotAdmins: []int64{2, 3}}
	for _, id := range []int64{1, 2, 3} {
		if !cfg.IsAdmin(id) {
			t.Errorf("IsAdmin(%d) = false", id)
		}
	}
	if cfg.IsAdmin(4) {
		t.Error("IsAdmin(4) = true")
	}
}

func TestWelcomeMessageTemplate(t *testing.T) {
	cfg := &Config{name: "Beats", Owner: "boss", WelcomeTemplate: "Hi {name}, this is {bot_name} by {owner}"}
	got := cfg.WelcomeMessage("Ana")
	if got != "Hi Ana, this is Beats by boss" {
		t.Errorf("templated welcome = %q", got)
	}
}

func TestWelcomeMessageDefault(t *testing.T) {
	cfg := &Config{name: "Beats", BotID: "beats_bot", Owner: "boss"}
	got := cfg.WelcomeMessage("")
	if !strings.Contains(got, "Welcome, User") {
		t.Errorf("default welcome missing fallback name: %q", got)
	}
	if !strings.Contains(got, "beats_bot") {
		t.Errorf("default welcome missing bot link: %q", got)
	}
}
