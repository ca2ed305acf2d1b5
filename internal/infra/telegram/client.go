package telegram

import (
	"context"
	"fmt"

	"trash_reminder_bot/internal/domain/reminder"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the reminder.Client delivery capability using
// the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// Deliver sends the reminder text with the media URL appended. When
// allowBroadcast is false the message is sent silently (no client-side
// notification), the closest Telegram analog of suppressing a mass mention.
func (a *TelebotAdapter) Deliver(_ context.Context, target reminder.Target, text, mediaURL string, allowBroadcast bool) error {
	body := text
	if mediaURL != "" {
		body = fmt.Sprintf("%s\n%s", text, mediaURL)
	}
	opts := &telebot.SendOptions{DisableNotification: !allowBroadcast}
	recipient := &telebot.Chat{ID: target.ID}
	_, err := a.bot.Send(recipient, body, opts)
	return err
}

// CanBroadcast reports whether a notifying send is permitted for the target:
// always in a private chat, and in groups only when the bot is an
// administrator. Any lookup failure degrades to false.
func (a *TelebotAdapter) CanBroadcast(_ context.Context, target reminder.Target) bool {
	chat, err := a.bot.ChatByID(target.ID)
	if err != nil {
		return false
	}
	if chat.Type == telebot.ChatPrivate {
		return true
	}
	member, err := a.bot.ChatMemberOf(chat, a.bot.Me)
	if err != nil {
		return false
	}
	return member.Role == telebot.Administrator || member.Role == telebot.Creator
}
