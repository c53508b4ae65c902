package bot

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"streambeats/internal/models"
)

// Config carries every environment-driven setting. Values are read
// once at startup; main fails fast when the token is missing. The bot
// name and description can be changed at runtime by /config while
// updates are handled on separate goroutines, so those two fields are
// unexported behind the mutex.
type Config struct {
	Token      string
	UseWebhook bool
	WebhookURL string
	Port       string

	BotID   string // bot username, for t.me links
	Owner   string
	Version string

	mu          sync.RWMutex
	name        string
	description string

	WelcomeTemplate string
	AdminUserID     int64
	BotAdmins       []int64

	RateLimitCooldown      time.Duration
	MaxEchoLength          int
	MaxConcurrentDownloads int

	EnabledCommands  map[string]bool
	RequiredChannels []models.Channel

	DataFile string
	DBPath   string
}

var defaultCommands = []string{
	"start", "help", "ping", "echo", "time", "chatinfo", "config", "stats",
	"play", "search", "queue", "skip", "previous", "clear", "repeat", "shuffle",
	"playlist", "nowplaying", "musicstats",
	"menu_music", "menu_settings",
}

var defaultChannels = []models.Channel{
	{ID: "@Jk_Bots", Name: "Jk Bots", DisplayName: "Jk Bots"},
	{ID: "@G1me0n", Name: "Game ON !", DisplayName: "Game ON !"},
	{ID: "@FreeGameSOne", Name: "Free GameS", DisplayName: "Free GameS"},
}

var defaultBotAdmins = []int64{1154246588, 987654321}

// LoadConfig reads the environment. Only BOT_TOKEN is mandatory.
func LoadConfig() (*Config, error) {
	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		token = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN or TELEGRAM_BOT_TOKEN must be set")
	}

	cfg := &Config{
		Token:      token,
		UseWebhook: os.Getenv("USE_WEBHOOK") == "true",
		WebhookURL: envStr("WEBHOOK_URL", ""),
		Port:       envStr("PORT", "8000"),

		name:        envStr("BOT_NAME", "Stream Beats"),
		BotID:       envStr("BOT_ID", "Stream_BeatsBot"),
		Owner:       envStr("OWNER_NAME", "Jkey_GameS"),
		description: envStr("BOT_DESCRIPTION", "A powerful music streaming & downloading bot for Telegram"),
		Version:     envStr("BOT_VERSION", "1.0.0"),

		WelcomeTemplate: os.Getenv("WELCOME_MESSAGE"),
		AdminUserID:     envInt64("ADMIN_USER_ID", 0),

		RateLimitCooldown:      time.Duration(envInt("RATE_LIMIT_COOLDOWN", 1000)) * time.Millisecond,
		MaxEchoLength:          envInt("MAX_ECHO_LENGTH", 500),
		MaxConcurrentDownloads: envInt("MAX_CONCURRENT_DOWNLOADS", 2),

		DataFile: envStr("DATA_FILE", "data/user-checks.json"),
		DBPath:   envStr("DB_PATH", "data/streambeats.db"),
	}

	cfg.BotAdmins = parseAdmins(os.Getenv("BOT_ADMINS"))
	cfg.EnabledCommands = parseEnabledCommands(os.Getenv("ENABLED_COMMANDS"))
	cfg.RequiredChannels = parseChannels(os.Getenv("REQUIRED_CHANNELS"))

	log.Printf("bot configuration loaded: name=%q version=%s commands=%d channels=%d",
		cfg.Name(), cfg.Version, len(cfg.EnabledCommands), len(cfg.RequiredChannels))
	return cfg, nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func parseAdmins(raw string) []int64 {
	if raw == "" {
		return append([]int64(nil), defaultBotAdmins...)
	}
	var admins []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			log.Printf("config: skipping malformed admin id %q", part)
			continue
		}
		admins = append(admins, id)
	}
	return admins
}

func parseEnabledCommands(raw string) map[string]bool {
	enabled := make(map[string]bool)
	if raw == "" {
		for _, cmd := range defaultCommands {
			enabled[cmd] = true
		}
		return enabled
	}
	for _, cmd := range strings.Split(raw, ",") {
		enabled[strings.ToLower(strings.TrimSpace(cmd))] = true
	}
	return enabled
}

// parseChannels reads "id|name|display" triples separated by commas,
// e.g. "@foo|Foo|FOO,@bar|Bar|BAR".
func parseChannels(raw string) []models.Channel {
	if raw == "" {
		return append([]models.Channel(nil), defaultChannels...)
	}
	var channels []models.Channel
	for _, part := range strings.Split(raw, ",") {
		fields := strings.Split(strings.TrimSpace(part), "|")
		if len(fields) < 1 || fields[0] == "" {
			continue
		}
		ch := models.Channel{ID: fields[0]}
		ch.Name = ch.ID
		ch.DisplayName = ch.ID
		if len(fields) > 1 {
			ch.Name = fields[1]
			ch.DisplayName = fields[1]
		}
		if len(fields) > 2 {
			ch.DisplayName = fields[2]
		}
		channels = append(channels, ch)
	}
	return channels
}

// Name returns the bot's display name.
func (c *Config) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// SetName changes the display name at runtime.
func (c *Config) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

// Description returns the bot's description.
func (c *Config) Description() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.description
}

// SetDescription changes the description at runtime.
func (c *Config) SetDescription(description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.description = description
}

// CommandEnabled checks the allowlist.
func (c *Config) CommandEnabled(name string) bool {
	return c.EnabledCommands[strings.ToLower(name)]
}

// IsAdmin reports whether the user may run admin-only commands or
// mutate configuration. Both the single ADMIN_USER_ID and the
// BOT_ADMINS list qualify.
func (c *Config) IsAdmin(userID int64) bool {
	if c.AdminUserID != 0 && c.AdminUserID == userID {
		return true
	}
	for _, id := range c.BotAdmins {
		if id == userID {
			return true
		}
	}
	return false
}

// WelcomeMessage renders the welcome text for a user, applying the
// {name}/{bot_name}/{owner} placeholders when a template is set.
func (c *Config) WelcomeMessage(firstName string) string {
	if firstName == "" {
		firstName = "User"
	}
	if c.WelcomeTemplate != "" {
		msg := strings.ReplaceAll(c.WelcomeTemplate, "{name}", firstName)
		msg = strings.ReplaceAll(msg, "{bot_name}", c.Name())
		return strings.ReplaceAll(msg, "{owner}", c.Owner)
	}
	return fmt.Sprintf(`<blockquote>🎧 Welcome, %s, to <b><a href="https://t.me/%s">%s</a></b> — your music streaming companion on Telegram</blockquote>

<blockquote><b>Features:</b>
• Play &amp; download songs from YouTube &amp; Spotify
• Create and save playlists
• Per-chat queues with repeat and shuffle
• Simple commands for quick control

Powered by <b><a href="https://t.me/%s">%s</a></b> ⚡</blockquote>`,
		escapeHTML(firstName), c.BotID, escapeHTML(c.Name()), c.Owner, escapeHTML(c.Owner))
}

// HelpMessage is the complete command guide shown by /help.
func (c *Config) HelpMessage() string {
	return fmt.Sprintf(`🎵 <b>%s — Complete Help Guide</b>

<b>🎶 Music commands:</b>
/play &lt;song or url&gt; — search and play music
/search &lt;song name&gt; — search without downloading
/queue — show current queue
/skip — skip to next song
/previous — play previous song
/repeat — toggle repeat mode
/shuffle — toggle shuffle mode
/clear — clear current queue
/nowplaying — show current track info

<b>📝 Playlist management:</b>
/playlist create &lt;name&gt;
/playlist list
/playlist show &lt;name&gt;
/playlist play &lt;name&gt;
/playlist delete &lt;name&gt;

<b>⚡ Utility:</b>
/start /help /ping /config /musicstats /time /chatinfo
/menu_music — open the music menu
/menu_settings — open the settings menu

<b>🔗 Supported platforms:</b> YouTube and Spotify links, plus automatic platform detection.

Bot version: %s`, escapeHTML(c.Name()), c.Version)
}
