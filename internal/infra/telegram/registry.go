package telegram

import (
	"sort"
	"strconv"
	"sync"

	"trash_reminder_bot/internal/domain/reminder"

	"github.com/sirupsen/logrus"
)

// ChatRegistry tracks the group chats the bot delivers to when no fixed chat
// is configured. It is the Telegram counterpart of enumerating the servers a
// bot has joined. Membership survives restarts via a reminder.StateStore
// (chat id -> title).
type ChatRegistry struct {
	store  reminder.StateStore
	logger *logrus.Logger

	mu    sync.Mutex
	chats map[int64]string
}

func NewChatRegistry(store reminder.StateStore, logger *logrus.Logger) *ChatRegistry {
	reg := &ChatRegistry{
		store:  store,
		logger: logger,
		chats:  make(map[int64]string),
	}
	for key, title := range store.Load() {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			logger.Warnf("Ignoring malformed chat registry key %q: %v", key, err)
			continue
		}
		reg.chats[id] = title
	}
	return reg
}

// Add registers a chat. Re-adding an existing chat refreshes its title.
func (r *ChatRegistry) Add(id int64, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats[id] = title
	r.persistLocked()
}

// Remove drops a chat from the registry.
func (r *ChatRegistry) Remove(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[id]; !ok {
		return
	}
	delete(r.chats, id)
	r.persistLocked()
}

// Migrate moves a registration when Telegram upgrades a group to a
// supergroup and changes its id.
func (r *ChatRegistry) Migrate(from, to int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	title, ok := r.chats[from]
	if !ok {
		return
	}
	delete(r.chats, from)
	r.chats[to] = title
	r.persistLocked()
}

// Targets returns the registered chats as delivery targets, ordered by id
// for deterministic processing.
func (r *ChatRegistry) Targets() []reminder.Target {
	r.mu.Lock()
	defer r.mu.Unlock()

	targets := make([]reminder.Target, 0, len(r.chats))
	for id, title := range r.chats {
		targets = append(targets, reminder.Target{Kind: reminder.KindGuild, ID: id, Title: title})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].ID < targets[j].ID })
	return targets
}

func (r *ChatRegistry) persistLocked() {
	flat := make(map[string]string, len(r.chats))
	for id, title := range r.chats {
		flat[strconv.FormatInt(id, 10)] = title
	}
	if err := r.store.Save(flat); err != nil {
		r.logger.Errorf("Failed to persist chat registry: %v", err)
	}
}
