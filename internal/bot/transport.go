package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"streambeats/internal/music"
)

// Keyboard is the inline keyboard attached to outgoing messages.
type Keyboard = tgbotapi.InlineKeyboardMarkup

// Transport is the outbound side of the Telegram API. The router only
// talks to this interface so command handlers can be tested against a
// recording fake. The membership checker shares the MemberStatus and
// BotID methods.
type Transport interface {
	Send(chatID int64, text, parseMode string, kb *Keyboard) (int, error)
	Edit(chatID int64, messageID int, text, parseMode string, kb *Keyboard) error
	Delete(chatID int64, messageID int) error
	SendAudio(chatID int64, audio *music.Audio, caption string) error
	AnswerCallback(callbackID, text string) error
	MemberStatus(ctx context.Context, channelID string, userID int64) (string, error)
	BotID(ctx context.Context) (int64, error)
}

// Telegram adapts *tgbotapi.BotAPI to the Transport interface.
type Telegram struct {
	api *tgbotapi.BotAPI
}

func NewTelegram(api *tgbotapi.BotAPI) *Telegram {
	return &Telegram{api: api}
}

func (t *Telegram) Send(chatID int64, text, parseMode string, kb *Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode
	msg.DisableWebPagePreview = true
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	sent, err := t.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (t *Telegram) Edit(chatID int64, messageID int, text, parseMode string, kb *Keyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = parseMode
	edit.DisableWebPagePreview = true
	if kb != nil {
		edit.ReplyMarkup = kb
	}
	_, err := t.api.Send(edit)
	return err
}

func (t *Telegram) Delete(chatID int64, messageID int) error {
	_, err := t.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

// SendAudio uploads the stream as an audio message and closes it.
func (t *Telegram) SendAudio(chatID int64, audio *music.Audio, caption string) error {
	defer audio.Stream.Close()

	file := tgbotapi.FileReader{
		Name:   audio.Track.Title + ".mp3",
		Reader: audio.Stream,
	}
	msg := tgbotapi.NewAudio(chatID, file)
	msg.Title = audio.Track.Title
	msg.Performer = audio.Track.Artist
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := t.api.Send(msg)
	return err
}

func (t *Telegram) AnswerCallback(callbackID, text string) error {
	_, err := t.api.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

func (t *Telegram) MemberStatus(ctx context.Context, channelID string, userID int64) (string, error) {
	member, err := t.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: channelID,
			UserID:             userID,
		},
	})
	if err != nil {
		return "", err
	}
	return member.Status, nil
}

func (t *Telegram) BotID(ctx context.Context) (int64, error) {
	return t.api.Self.ID, nil
}
