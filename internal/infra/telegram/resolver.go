package telegram

import (
	"context"
	"fmt"

	"trash_reminder_bot/internal/domain/reminder"

	"gopkg.in/telebot.v3"
)

// TargetResolverImpl resolves delivery targets: either exactly the fixed
// configured chat, or every chat in the registry. Both modes produce the
// same uniform target list for the orchestrator.
type TargetResolverImpl struct {
	bot         *telebot.Bot
	fixedChatID int64
	registry    *ChatRegistry
}

func NewTargetResolver(bot *telebot.Bot, fixedChatID int64, registry *ChatRegistry) *TargetResolverImpl {
	return &TargetResolverImpl{
		bot:         bot,
		fixedChatID: fixedChatID,
		registry:    registry,
	}
}

// ResolveTargets enumerates the destinations for one orchestration pass. An
// unreachable fixed chat is configuration-fatal and wraps
// reminder.ErrFixedTargetUnavailable.
func (r *TargetResolverImpl) ResolveTargets(_ context.Context) ([]reminder.Target, error) {
	if r.fixedChatID != 0 {
		chat, err := r.bot.ChatByID(r.fixedChatID)
		if err != nil {
			return nil, fmt.Errorf("chat %d: %v: %w", r.fixedChatID, err, reminder.ErrFixedTargetUnavailable)
		}
		return []reminder.Target{{
			Kind:  reminder.KindChannel,
			ID:    chat.ID,
			Title: chatTitle(chat),
		}}, nil
	}
	return r.registry.Targets(), nil
}

func chatTitle(chat *telebot.Chat) string {
	if chat.Title != "" {
		return chat.Title
	}
	return chat.FirstName
}
