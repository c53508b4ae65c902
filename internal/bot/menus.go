package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"streambeats/internal/models"
	"streambeats/internal/player"
)

func btn(label, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, data)
}

func urlBtn(label, url string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonURL(label, url)
}

func (r *Router) mainMenu() (string, *Keyboard) {
	text := fmt.Sprintf(`🎛 <b>%s — Main Menu</b>

Pick a section below, or jump straight in with /play.`, escapeHTML(r.cfg.Name()))

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn("🎵 Music", "menu_music:1"),
			btn("📝 Playlists", "menu_playlists"),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("⚙️ Settings", "menu_settings"),
			btn("🧰 Utilities", "menu_utility"),
		),
		tgbotapi.NewInlineKeyboardRow(
			urlBtn("➕ Add me to a group", "https://t.me/"+r.cfg.BotID+"?startgroup=true"),
		),
	)
	return text, &kb
}

// musicMenu is paged: page 1 holds playback controls plus a preview
// of the user's saved tracks, page 2 the queue and info actions.
func (r *Router) musicMenu(userID int64, page int) (string, *Keyboard) {
	if page != 2 {
		page = 1
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🎵 <b>Music Menu</b> (page %d/2)\n\n", page)
	b.WriteString("Control playback here, or use /play &lt;song&gt; to add music.")

	if page == 1 {
		if saved := r.player.AllTracks(userID); len(saved) > 0 {
			fmt.Fprintf(&b, "\n\n💾 <b>Your saved tracks</b> (%d):\n", len(saved))
			for i, track := range saved {
				if i == 5 {
					b.WriteString("…\n")
					break
				}
				fmt.Fprintf(&b, "%d. %s — %s\n", i+1, escapeHTML(track.Title), escapeHTML(track.Artist))
			}
		}
	}
	text := b.String()

	var rows [][]tgbotapi.InlineKeyboardButton
	if page == 1 {
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				btn("▶️ Quick Play", "quick_play"),
				btn("⏭ Skip", "music_skip"),
				btn("⏮ Previous", "music_previous"),
			),
			tgbotapi.NewInlineKeyboardRow(
				btn("🔁 Repeat", "music_repeat"),
				btn("🔀 Shuffle", "music_shuffle"),
			),
			tgbotapi.NewInlineKeyboardRow(
				btn("➡️ More", "menu_music:2"),
			),
		)
	} else {
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				btn("📋 Queue", "music_queue"),
				btn("🎧 Now Playing", "music_nowplaying"),
			),
			tgbotapi.NewInlineKeyboardRow(
				btn("🗑 Clear Queue", "music_clear"),
				btn("📊 Music Stats", "utility_musicstats"),
			),
			tgbotapi.NewInlineKeyboardRow(
				btn("⬅️ Back", "menu_music:1"),
			),
		)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn("🏠 Main Menu", "menu_main")))

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return text, &kb
}

func (r *Router) settingsMenu() (string, *Keyboard) {
	text := fmt.Sprintf(`⚙️ <b>Settings</b>

<b>Name:</b> %s
<b>Version:</b> %s
<b>Owner:</b> @%s

Admins can change these with /config name|description &lt;value&gt;.`,
		escapeHTML(r.cfg.Name()), r.cfg.Version, r.cfg.Owner)

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn("ℹ️ Bot Config", "utility_config"),
			urlBtn("👤 Owner", "https://t.me/"+r.cfg.Owner),
		),
		tgbotapi.NewInlineKeyboardRow(btn("🏠 Main Menu", "menu_main")),
	)
	return text, &kb
}

func (r *Router) playlistsMenu(userID int64) (string, *Keyboard) {
	lists := r.player.Playlists(userID)

	var b strings.Builder
	b.WriteString("📝 <b>Your Playlists</b>\n\n")
	if len(lists) == 0 {
		b.WriteString("No playlists yet. Create one with /playlist create &lt;name&gt;.")
	} else {
		for _, pl := range lists {
			fmt.Fprintf(&b, "• <b>%s</b> — %d songs, %s\n",
				escapeHTML(pl.Name), pl.SongCount, models.FormatSeconds(pl.TotalDuration))
		}
		b.WriteString("\nUse /playlist play &lt;name&gt; to load one into the queue.")
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(btn("🏠 Main Menu", "menu_main")),
	)
	return b.String(), &kb
}

func (r *Router) utilityMenu() (string, *Keyboard) {
	text := `🧰 <b>Utilities</b>

Quick access to the info commands.`

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			btn("🏓 Ping", "utility_ping"),
			btn("🕐 Time", "utility_time"),
		),
		tgbotapi.NewInlineKeyboardRow(
			btn("💬 Chat Info", "utility_chatinfo"),
			btn("❓ Help", "quick_help"),
		),
		tgbotapi.NewInlineKeyboardRow(btn("🏠 Main Menu", "menu_main")),
	)
	return text, &kb
}

// membershipKeyboard pairs a join button per missing channel with a
// recheck button wired to the check_membership callback.
func membershipKeyboard(missing []models.Channel) *Keyboard {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, ch := range missing {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			urlBtn("📢 Join "+ch.DisplayName, ch.JoinURL()),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		btn("✅ I joined, check again", "check_membership"),
	))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func membershipText(missing []models.Channel) string {
	var b strings.Builder
	b.WriteString("🔒 <b>Almost there!</b>\n\nJoin the channels below to unlock the bot:\n\n")
	for _, ch := range missing {
		fmt.Fprintf(&b, "• <b>%s</b>\n", escapeHTML(ch.DisplayName))
	}
	b.WriteString("\nThen tap the button to verify.")
	return b.String()
}

// queueText renders the /queue listing with a playback cursor marker.
func queueText(q player.Queue) string {
	if len(q.Songs) == 0 {
		return "📋 The queue is empty. Add something with /play."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Queue</b> (%d songs)\n", len(q.Songs))
	if q.Repeat {
		b.WriteString("🔁 repeat on\n")
	}
	if q.Shuffle {
		b.WriteString("🔀 shuffle on\n")
	}
	b.WriteString("\n")
	for i, song := range q.Songs {
		marker := "  "
		if i == q.CurrentIndex {
			marker = "▶️"
		}
		fmt.Fprintf(&b, "%s %d. <b>%s</b> — %s (%s)\n",
			marker, i+1, escapeHTML(song.Title), escapeHTML(song.Artist), song.Duration)
	}
	return b.String()
}

func trackCaption(track models.Track) string {
	caption := fmt.Sprintf("🎵 <b>%s</b>\n👤 %s", escapeHTML(track.Title), escapeHTML(track.Artist))
	if track.Duration != "" {
		caption += fmt.Sprintf("\n⏱ %s", track.Duration)
	}
	return caption
}
