package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"karrah/internal/config"
	"karrah/internal/notify"
	"karrah/internal/repository"
	"karrah/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv("KARRAH_CONFIG"))
	if err != nil {
		fatal("config", err)
	}

	log := newLogger(cfg.LogLevel)

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		fatal("db", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	formRepo := repository.NewFormRepository(db)
	noticeRepo := repository.NewNotificationRepository(db)

	var email service.EmailSender
	if cfg.SMTP.Host != "" {
		email = notify.NewSMTPSender(cfg.SMTP)
	}
	var chat service.ChatSender
	if cfg.Telegram.Token != "" {
		sender, err := notify.NewTelegramSender(cfg.Telegram.Token)
		if err != nil {
			log.Warn().Err(err).Msg("telegram channel disabled")
		} else {
			chat = sender
		}
	}

	notifier := service.NewNotificationService(noticeRepo, userRepo, teamRepo, email, chat, cfg.BaseURL, log)
	spawner := service.NewSpawnerService(templateRepo, taskRepo, boardRepo, teamRepo, notifier, log)
	reminders := service.NewReminderService(taskRepo, formRepo, noticeRepo, notifier, log)

	overdueEvery, err := cfg.Scheduler.OverdueIntervalOr(15 * time.Minute)
	if err != nil {
		fatal("config", err)
	}
	remindEvery, err := cfg.Scheduler.ReminderIntervalOr(5 * time.Minute)
	if err != nil {
		fatal("config", err)
	}
	spawnEvery, err := cfg.Scheduler.SpawnIntervalOr(time.Hour)
	if err != nil {
		fatal("config", err)
	}
	startupDelay, err := cfg.Scheduler.StartupDelayOr(5 * time.Second)
	if err != nil {
		fatal("config", err)
	}

	sched := service.NewSchedulerService(time.Local, log)
	if err := sched.ScheduleInterval("sweep:overdue", overdueEvery, reminders.CheckAndNotifyOverdueItems); err != nil {
		fatal("schedule", err)
	}
	if err := sched.ScheduleInterval("sweep:reminders", remindEvery, reminders.CheckAndSendReminders); err != nil {
		fatal("schedule", err)
	}
	if err := sched.ScheduleInterval("spawner:all-teams", spawnEvery, spawner.GenerateForAllTeams); err != nil {
		fatal("schedule", err)
	}
	sched.ScheduleOnceAfter("sweep:startup", startupDelay, func(ctx context.Context) error {
		if err := reminders.CheckAndNotifyOverdueItems(ctx); err != nil {
			log.Error().Err(err).Msg("initial overdue sweep failed")
		}
		return reminders.CheckAndSendReminders(ctx)
	})

	sched.Start()
	defer sched.Stop()

	log.Info().
		Dur("overdue_every", overdueEvery).
		Dur("reminders_every", remindEvery).
		Dur("spawn_every", spawnEvery).
		Msg("karrah scheduler started")

	<-ctx.Done()
	log.Info().Msg("shutting down")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger()
}

func fatal(scope string, err error) {
	log := zerolog.New(os.Stderr)
	log.Error().Err(err).Str("scope", scope).Msg("startup failed")
	os.Exit(1)
}
