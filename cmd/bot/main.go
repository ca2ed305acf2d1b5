package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trash_reminder_bot/internal/app"
	"trash_reminder_bot/internal/domain/reminder"
	"trash_reminder_bot/internal/domain/schedule"
	"trash_reminder_bot/internal/infra/config"
	idb "trash_reminder_bot/internal/infra/database"
	"trash_reminder_bot/internal/infra/logger"
	"trash_reminder_bot/internal/infra/scheduler"
	"trash_reminder_bot/internal/infra/state"
	"trash_reminder_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. Environment: %s, DryRun: %t, FixedChatID: %d",
		cfg.Environment, cfg.DryRun, cfg.FixedChatID)

	spec, err := schedule.New(cfg.ReminderWeekday, cfg.ReminderHour, cfg.ReminderMinute, cfg.Timezone)
	if err != nil {
		log.Fatalf("FATAL: Invalid reminder schedule: %v", err)
	}

	// Dedup store: Postgres when DATABASE_URL is configured, otherwise the
	// JSON file store.
	var store reminder.StateStore
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to database: %v", err)
		}
		defer db.Close()
		repo := idb.NewPostgresStateRepository(db, log)
		if err := repo.EnsureSchema(); err != nil {
			log.Fatalf("FATAL: Could not prepare database schema: %v", err)
		}
		store = repo
		log.Info("Using Postgres dedup store.")
	} else {
		store = state.NewFileStore(cfg.StateFile, log)
		log.Infof("Using file dedup store at %s.", cfg.StateFile)
	}

	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			if c != nil && c.Chat() != nil {
				log.Errorf("telebot error in chat %d: %v", c.Chat().ID, err)
				return
			}
			log.Errorf("telebot error: %v", err)
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}

	registry := telegram.NewChatRegistry(state.NewFileStore(cfg.ChatsFile, log), log)
	telegram.RegisterChatTracking(bot, registry, log)

	resolver := telegram.NewTargetResolver(bot, cfg.FixedChatID, registry)
	adapter := telegram.NewTelebotAdapter(bot)
	service := app.NewReminderService(
		resolver,
		adapter,
		app.NewRandomPicker(),
		store,
		log,
		cfg.Message,
		cfg.MediaURLs,
		cfg.DryRun,
	)

	sched := scheduler.NewReminderScheduler(
		service,
		spec,
		scheduler.CatchUpPolicy{Enabled: cfg.CatchUpEnabled, MaxStaleness: cfg.CatchUpMaxStaleness},
		log,
		cfg.CronSpecHeartbeat,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go bot.Start()
	log.Info("Telegram bot polling started.")

	schedDone := make(chan error, 1)
	go func() {
		schedDone <- sched.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infof("Received signal %s; shutting down.", sig)
		cancel()
		if err := <-schedDone; err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("Scheduler exited with error during shutdown: %v", err)
		}
	case err := <-schedDone:
		// The scheduler only stops on its own for configuration-fatal
		// conditions; report and exit non-zero.
		if err != nil && !errors.Is(err, context.Canceled) {
			bot.Stop()
			log.Fatalf("FATAL: Scheduler stopped: %v", err)
		}
	}

	bot.Stop()
	log.Info("Application shut down gracefully.")
}
