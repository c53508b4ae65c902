package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"streambeats/internal/membership"
	"streambeats/internal/models"
	"streambeats/internal/music"
	"streambeats/internal/player"
)

// MusicBackend is the slice of the media service the router needs.
// Narrowed to an interface so command tests can swap in a fake that
// never touches the network.
type MusicBackend interface {
	Search(ctx context.Context, query string, platform models.Platform, limit int) ([]models.Track, error)
	TrackInfo(ctx context.Context, platform models.Platform, id string) (models.Track, error)
	Audio(ctx context.Context, track models.Track) (*music.Audio, error)
	Stats() music.Stats
	Admission() *music.Admission
	SpotifyEnabled() bool
}

// Router dispatches Telegram updates to command, callback, text, and
// group-event handlers.
type Router struct {
	cfg       *Config
	transport Transport
	player    *player.Service
	music     MusicBackend
	checker   *membership.Checker
	started   time.Time

	mu       sync.Mutex
	limiters map[int64]*rate.Limiter // per-user conversational cooldown
}

func NewRouter(cfg *Config, t Transport, p *player.Service, m MusicBackend, checker *membership.Checker) *Router {
	return &Router{
		cfg:       cfg,
		transport: t,
		player:    p,
		music:     m,
		checker:   checker,
		started:   time.Now(),
		limiters:  make(map[int64]*rate.Limiter),
	}
}

// HandleUpdate is the single entry point for both polling and webhook
// delivery.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		r.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		r.handleMessage(ctx, upd.Message)
	}
}

func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch {
	case len(msg.NewChatMembers) > 0:
		r.handleNewMembers(ctx, msg)
	case msg.LeftChatMember != nil:
		r.handleLeftMember(msg)
	case msg.IsCommand():
		r.handleCommand(ctx, msg)
	case msg.Text != "":
		r.handleText(msg)
	}
}

func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := strings.ToLower(msg.Command())
	if !r.cfg.CommandEnabled(cmd) {
		log.Printf("bot: ignoring disabled command /%s from %d", cmd, msg.From.ID)
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID
	userID := msg.From.ID

	var res Render
	switch cmd {
	case "start":
		res = r.cmdStart(ctx, msg)
	case "help":
		res = Text{Body: r.cfg.HelpMessage()}
	case "ping":
		res = r.cmdPing()
	case "echo":
		res = r.cmdEcho(args)
	case "time":
		res = r.cmdTime()
	case "chatinfo":
		res = r.cmdChatInfo(msg.Chat)
	case "config":
		res = r.cmdConfig(userID, args)
	case "stats":
		res = r.cmdStats(userID)
	case "play":
		res = r.cmdPlay(ctx, chatID, userID, args)
	case "search":
		res = r.cmdSearch(ctx, chatID, args)
	case "queue":
		res = Text{Body: queueText(r.player.GetQueue(chatID))}
	case "skip":
		res = r.cmdSkip(ctx, chatID)
	case "previous":
		res = r.cmdPrevious(ctx, chatID)
	case "clear":
		res = r.cmdClear(chatID)
	case "repeat":
		res = r.cmdRepeat(chatID)
	case "shuffle":
		res = r.cmdShuffle(chatID)
	case "playlist":
		res = r.cmdPlaylist(ctx, chatID, userID, args)
	case "nowplaying":
		res = r.cmdNowPlaying(chatID)
	case "musicstats":
		res = r.cmdMusicStats()
	case "menu_music":
		body, kb := r.musicMenu(userID, 1)
		res = Text{Body: body, Keyboard: kb}
	case "menu_settings":
		body, kb := r.settingsMenu()
		res = Text{Body: body, Keyboard: kb}
	default:
		res = Text{Body: "Unknown command. Try /help."}
	}
	r.deliver(chatID, res)
}

// deliver pushes a handler result out through the transport.
func (r *Router) deliver(chatID int64, res Render) {
	switch v := res.(type) {
	case Text:
		sendNew(r.transport, chatID, v.Body, v.Keyboard)
	case Media:
		if err := r.transport.SendAudio(chatID, v.Audio, v.Caption); err != nil {
			log.Printf("bot: send audio to chat %d: %v", chatID, err)
			sendNew(r.transport, chatID, "❌ Failed to send the audio file. Please try again.", nil)
		}
	case Handled:
	}
}

// handleCallback answers the callback first so the client spinner
// stops, then routes on the data payload ("name" or "name:arg").
func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if err := r.transport.AnswerCallback(cb.ID, ""); err != nil {
		log.Printf("bot: answer callback %s: %v", cb.ID, err)
	}
	if cb.Message == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	userID := cb.From.ID

	name, arg := cb.Data, ""
	if i := strings.IndexByte(cb.Data, ':'); i >= 0 {
		name, arg = cb.Data[:i], cb.Data[i+1:]
	}

	switch name {
	case "menu_main":
		body, kb := r.mainMenu()
		sendOrEdit(r.transport, chatID, msgID, body, kb)
	case "menu_music":
		page, _ := strconv.Atoi(arg)
		body, kb := r.musicMenu(userID, page)
		sendOrEdit(r.transport, chatID, msgID, body, kb)
	case "menu_settings":
		body, kb := r.settingsMenu()
		sendOrEdit(r.transport, chatID, msgID, body, kb)
	case "menu_playlists":
		body, kb := r.playlistsMenu(userID)
		sendOrEdit(r.transport, chatID, msgID, body, kb)
	case "menu_utility":
		body, kb := r.utilityMenu()
		sendOrEdit(r.transport, chatID, msgID, body, kb)
	case "quick_play":
		sendOrEdit(r.transport, chatID, msgID,
			"▶️ Send /play followed by a song name or a YouTube/Spotify link.", nil)
	case "quick_help":
		sendOrEdit(r.transport, chatID, msgID, r.cfg.HelpMessage(), nil)
	case "music_skip":
		r.deliver(chatID, r.cmdSkip(ctx, chatID))
	case "music_previous":
		r.deliver(chatID, r.cmdPrevious(ctx, chatID))
	case "music_repeat":
		r.deliver(chatID, r.cmdRepeat(chatID))
	case "music_shuffle":
		r.deliver(chatID, r.cmdShuffle(chatID))
	case "music_clear":
		r.deliver(chatID, r.cmdClear(chatID))
	case "music_queue":
		sendOrEdit(r.transport, chatID, msgID, queueText(r.player.GetQueue(chatID)), nil)
	case "music_nowplaying":
		r.deliver(chatID, r.cmdNowPlaying(chatID))
	case "utility_ping":
		r.deliver(chatID, r.cmdPing())
	case "utility_time":
		r.deliver(chatID, r.cmdTime())
	case "utility_chatinfo":
		r.deliver(chatID, r.cmdChatInfo(cb.Message.Chat))
	case "utility_config":
		r.deliver(chatID, r.cmdConfig(userID, ""))
	case "utility_musicstats":
		r.deliver(chatID, r.cmdMusicStats())
	case "check_membership":
		r.recheckMembership(ctx, chatID, msgID, userID, cb.From.FirstName)
	default:
		log.Printf("bot: unknown callback %q from %d", cb.Data, userID)
	}
}

// handleText replies to plain conversational messages. A per-user
// limiter drops rapid-fire messages silently.
func (r *Router) handleText(msg *tgbotapi.Message) {
	if !r.allowText(msg.From.ID) {
		return
	}
	reply := conversationalReply(msg.Text, msg.From.FirstName)
	sendNew(r.transport, msg.Chat.ID, reply, nil)
}

func (r *Router) allowText(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	lim, ok := r.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(r.cfg.RateLimitCooldown), 1)
		r.limiters[userID] = lim
	}
	return lim.Allow()
}

func conversationalReply(text, firstName string) string {
	if firstName == "" {
		firstName = "there"
	}
	switch lower := strings.ToLower(text); {
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi"):
		return fmt.Sprintf("👋 Hello %s! Send /help to see what I can do.", firstName)
	case strings.Contains(lower, "how are you"):
		return "I'm doing great, thanks for asking! Ready to play some music? 🎵"
	case strings.Contains(lower, "bye"):
		return fmt.Sprintf("Goodbye %s! Come back soon. 👋", firstName)
	case strings.Contains(lower, "thank"):
		return "You're welcome! 😊"
	case strings.Contains(lower, "help"):
		return "Send /help for the full command guide."
	case strings.Contains(lower, "joke"):
		return "Why did the musician get locked out? He left his keys in the piano. 🎹"
	default:
		return "🎵 I'm a music bot. Try /play <song name> or /help for all commands."
	}
}

func (r *Router) handleNewMembers(ctx context.Context, msg *tgbotapi.Message) {
	botID, err := r.transport.BotID(ctx)
	if err != nil {
		log.Printf("bot: resolve own id: %v", err)
	}
	for _, member := range msg.NewChatMembers {
		if member.ID == botID {
			sendNew(r.transport, msg.Chat.ID, fmt.Sprintf(
				"🎉 Thanks for adding <b>%s</b> to <b>%s</b>!\nSend /play to start the music.",
				escapeHTML(r.cfg.Name()), escapeHTML(msg.Chat.Title)), nil)
			continue
		}
		sendNew(r.transport, msg.Chat.ID, fmt.Sprintf(
			"👋 Welcome to the group, <b>%s</b>!", escapeHTML(member.FirstName)), nil)
	}
}

func (r *Router) handleLeftMember(msg *tgbotapi.Message) {
	left := msg.LeftChatMember
	if left.IsBot {
		return
	}
	sendNew(r.transport, msg.Chat.ID, fmt.Sprintf(
		"👋 <b>%s</b> left the group. See you around!", escapeHTML(left.FirstName)), nil)
}
