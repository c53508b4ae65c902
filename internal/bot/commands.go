package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"streambeats/internal/membership"
)

// cmdStart runs the membership gate before unlocking the main menu.
// Admin users bypass the gate entirely.
func (r *Router) cmdStart(ctx context.Context, msg *tgbotapi.Message) Render {
	userID := msg.From.ID
	firstName := msg.From.FirstName

	if r.cfg.IsAdmin(userID) {
		body, kb := r.mainMenu()
		return Text{Body: r.cfg.WelcomeMessage(firstName) + "\n\n" + body, Keyboard: kb}
	}

	verdict, res := r.checker.Gate(ctx, userID)
	switch verdict {
	case membership.Allowed:
		body, kb := r.mainMenu()
		return Text{Body: r.cfg.WelcomeMessage(firstName) + "\n\n" + body, Keyboard: kb}
	case membership.MissingChannels:
		return Text{Body: membershipText(res.MissingUser), Keyboard: membershipKeyboard(res.MissingUser)}
	default: // BotNotAdmin
		r.notifyAdmins(res.MissingBotAdmin)
		return Text{Body: "⚙️ I'm still being set up in the required channels. Please try again in a little while."}
	}
}

// recheckMembership backs the check_membership button: rerun the gate
// and edit the prompt in place with the new outcome.
func (r *Router) recheckMembership(ctx context.Context, chatID int64, msgID int, userID int64, firstName string) {
	if r.cfg.IsAdmin(userID) {
		body, kb := r.mainMenu()
		sendOrEdit(r.transport, chatID, msgID, body, kb)
		return
	}

	verdict, res := r.checker.Gate(ctx, userID)
	switch verdict {
	case membership.Allowed:
		body, kb := r.mainMenu()
		sendOrEdit(r.transport, chatID, msgID,
			"✅ Verified! Welcome aboard.\n\n"+r.cfg.WelcomeMessage(firstName)+"\n\n"+body, kb)
	case membership.MissingChannels:
		sendOrEdit(r.transport, chatID, msgID,
			membershipText(res.MissingUser), membershipKeyboard(res.MissingUser))
	default:
		r.notifyAdmins(res.MissingBotAdmin)
		sendOrEdit(r.transport, chatID, msgID,
			"⚙️ I'm still being set up in the required channels. Please try again in a little while.", nil)
	}
}

// notifyAdmins tells every configured admin which channels still lack
// bot admin rights. Failures are logged only; the user-facing flow
// already answered.
func (r *Router) notifyAdmins(channelIDs []string) {
	if len(channelIDs) == 0 {
		return
	}
	text := "⚠️ I need admin rights in: " + strings.Join(channelIDs, ", ")
	for _, adminID := range r.cfg.BotAdmins {
		if _, err := r.transport.Send(adminID, text, "", nil); err != nil {
			log.Printf("bot: notify admin %d: %v", adminID, err)
		}
	}
}

func (r *Router) cmdPing() Render {
	return Text{Body: "🏓 Pong! The bot is alive."}
}

// cmdEcho repeats the argument, clamped to the configured maximum.
func (r *Router) cmdEcho(args string) Render {
	if args == "" {
		return Text{Body: "Usage: /echo <text>"}
	}
	runes := []rune(args)
	if len(runes) > r.cfg.MaxEchoLength {
		runes = runes[:r.cfg.MaxEchoLength]
	}
	return Text{Body: escapeHTML(string(runes))}
}

func (r *Router) cmdTime() Render {
	now := time.Now().UTC()
	return Text{Body: fmt.Sprintf("🕐 <b>Current time (UTC):</b>\n%s", now.Format("Monday, 2 January 2006 15:04:05"))}
}

func (r *Router) cmdChatInfo(chat *tgbotapi.Chat) Render {
	if chat == nil {
		return Text{Body: "No chat information available."}
	}
	var b strings.Builder
	b.WriteString("💬 <b>Chat Info</b>\n\n")
	fmt.Fprintf(&b, "<b>ID:</b> <code>%d</code>\n", chat.ID)
	fmt.Fprintf(&b, "<b>Type:</b> %s\n", chat.Type)
	if chat.Title != "" {
		fmt.Fprintf(&b, "<b>Title:</b> %s\n", escapeHTML(chat.Title))
	}
	if chat.UserName != "" {
		fmt.Fprintf(&b, "<b>Username:</b> @%s\n", chat.UserName)
	}
	return Text{Body: b.String()}
}

// cmdConfig shows bot identity; admins may change the name or
// description with "/config name <value>".
func (r *Router) cmdConfig(userID int64, args string) Render {
	if args != "" {
		field, value, _ := strings.Cut(args, " ")
		value = strings.TrimSpace(value)
		if !r.cfg.IsAdmin(userID) {
			return Text{Body: "🔒 Only bot admins can change the configuration."}
		}
		if value == "" {
			return Text{Body: "Usage: /config name|description <value>"}
		}
		switch strings.ToLower(field) {
		case "name":
			r.cfg.SetName(value)
			return Text{Body: "✅ Bot name updated to <b>" + escapeHTML(value) + "</b>."}
		case "description":
			r.cfg.SetDescription(value)
			return Text{Body: "✅ Bot description updated."}
		default:
			return Text{Body: "Unknown field. Usage: /config name|description <value>"}
		}
	}

	return Text{Body: fmt.Sprintf(`🤖 <b>Bot Configuration</b>

<b>Name:</b> %s
<b>Description:</b> %s
<b>Version:</b> %s
<b>Owner:</b> @%s`,
		escapeHTML(r.cfg.Name()), escapeHTML(r.cfg.Description()), r.cfg.Version, r.cfg.Owner)}
}

// cmdStats is admin-only runtime information.
func (r *Router) cmdStats(userID int64) Render {
	if !r.cfg.IsAdmin(userID) {
		return Text{Body: "🔒 This command is restricted to bot admins."}
	}
	stats := r.music.Stats()
	uptime := time.Since(r.started).Round(time.Second)
	return Text{Body: fmt.Sprintf(`📊 <b>Bot Stats</b>

<b>Uptime:</b> %s
<b>Active downloads:</b> %d
<b>Cached tracks:</b> %d
<b>Spotify:</b> %s`,
		uptime, stats.ActiveDownloads, stats.CachedTracks, enabledWord(stats.SpotifyEnabled))}
}

func enabledWord(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
