package bot

import (
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"streambeats/internal/music"
)

// Render is the outcome of a command or callback handler. Text and
// Media describe a reply for the router to deliver; Handled means the
// handler already drove the transport itself.
type Render interface{ isRender() }

type Text struct {
	Body     string
	Keyboard *Keyboard
}

type Media struct {
	Audio   *music.Audio
	Caption string
}

type Handled struct{}

func (Text) isRender()    {}
func (Media) isRender()   {}
func (Handled) isRender() {}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}

// allowedTags are the HTML tags Telegram accepts that we emit.
var allowedTags = []string{"b", "i", "code", "blockquote", "a"}

// safeHTML neutralizes any angle bracket that does not open or close
// one of the allowed tags. Used as the retry payload when Telegram
// rejects a message over malformed entities.
func safeHTML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '<' {
			b.WriteByte(c)
			continue
		}
		if tagAt(s[i:]) {
			b.WriteByte(c)
			continue
		}
		b.WriteString("&lt;")
	}
	return b.String()
}

// tagAt reports whether s begins with an allowed opening or closing
// tag, e.g. "<b>" or "</blockquote>" or "<a href=...>".
func tagAt(s string) bool {
	rest := strings.TrimPrefix(s[1:], "/")
	for _, tag := range allowedTags {
		if !strings.HasPrefix(rest, tag) {
			continue
		}
		switch after := rest[len(tag):]; {
		case strings.HasPrefix(after, ">"):
			return true
		case tag == "a" && strings.HasPrefix(after, " "):
			return strings.Contains(after, ">")
		}
	}
	return false
}

// sendOrEdit edits messageID in place, falling back the way Telegram's
// error descriptions demand: an unmodified message is success, a
// malformed-entity rejection retries with neutralized text, and a
// media message that cannot carry text gets a fresh send. Errors are
// logged, never propagated, so a menu tap always lands somewhere.
func sendOrEdit(t Transport, chatID int64, messageID int, text string, kb *Keyboard) {
	if messageID == 0 {
		sendNew(t, chatID, text, kb)
		return
	}
	err := t.Edit(chatID, messageID, text, tgbotapi.ModeHTML, kb)
	if err == nil {
		return
	}
	desc := err.Error()
	switch {
	case strings.Contains(desc, "message is not modified"):
		return
	case strings.Contains(desc, "parse entities"):
		if err := t.Edit(chatID, messageID, safeHTML(text), "", kb); err != nil {
			log.Printf("bot: edit retry without entities failed: %v", err)
		}
	case strings.Contains(desc, "no text in the message to edit"):
		sendNew(t, chatID, text, kb)
	default:
		log.Printf("bot: edit message %d in chat %d: %v", messageID, chatID, err)
	}
}

// sendNew sends text as HTML and retries once with neutralized text
// when Telegram rejects the entity markup.
func sendNew(t Transport, chatID int64, text string, kb *Keyboard) int {
	id, err := t.Send(chatID, text, tgbotapi.ModeHTML, kb)
	if err == nil {
		return id
	}
	if strings.Contains(err.Error(), "parse entities") {
		id, err = t.Send(chatID, safeHTML(text), "", kb)
		if err == nil {
			return id
		}
	}
	log.Printf("bot: send to chat %d: %v", chatID, err)
	return 0
}
