package telegram

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterChatTracking wires the handlers that keep the chat registry
// current: automatic registration when the bot joins a group, id migration
// when a group becomes a supergroup, and explicit /here and /quiet commands.
func RegisterChatTracking(bot *telebot.Bot, registry *ChatRegistry, logger *logrus.Logger) {
	bot.Handle(telebot.OnAddedToGroup, func(c telebot.Context) error {
		chat := c.Chat()
		registry.Add(chat.ID, chat.Title)
		logger.Infof("Added to chat %q (%d); registered for reminders.", chat.Title, chat.ID)
		return c.Send("I'll post the weekly reminder here. Use /quiet to stop.")
	})

	bot.Handle(telebot.OnMigration, func(c telebot.Context) error {
		from, to := c.Migration()
		registry.Migrate(from, to)
		logger.Infof("Chat migrated %d -> %d; registry updated.", from, to)
		return nil
	})

	bot.Handle("/here", func(c telebot.Context) error {
		chat := c.Chat()
		registry.Add(chat.ID, chatTitle(chat))
		logger.Infof("Chat %q (%d) subscribed via /here.", chatTitle(chat), chat.ID)
		return c.Send("Got it. Weekly reminders will be posted here.")
	})

	bot.Handle("/quiet", func(c telebot.Context) error {
		chat := c.Chat()
		registry.Remove(chat.ID)
		logger.Infof("Chat %q (%d) unsubscribed via /quiet.", chatTitle(chat), chat.ID)
		return c.Send("Okay, no more reminders here.")
	})
}
