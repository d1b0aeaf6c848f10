package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"karrah/internal/notify"
)

// Config keeps runtime settings for the service. Values come from an
// optional YAML file, with environment variables overriding secrets.
type Config struct {
	DatabaseURL string `yaml:"database_url"`
	BaseURL     string `yaml:"base_url"`
	LogLevel    string `yaml:"log_level"`

	SMTP     notify.SMTPConfig `yaml:"smtp"`
	Telegram TelegramConfig    `yaml:"telegram"`

	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
}

// SchedulerConfig holds sweep cadences as Go duration strings
// (e.g. "15m", "5s").
type SchedulerConfig struct {
	OverdueInterval  string `yaml:"overdue_interval"`
	ReminderInterval string `yaml:"reminder_interval"`
	SpawnInterval    string `yaml:"spawn_interval"`
	StartupDelay     string `yaml:"startup_delay"`
}

// Load reads the config file at path (if non-empty), applies
// environment overrides and fills defaults.
func Load(path string) (Config, error) {
	cfg := Config{
		DatabaseURL: "karrah.db",
		LogLevel:    "info",
		Scheduler: SchedulerConfig{
			OverdueInterval:  "15m",
			ReminderInterval: "5m",
			SpawnInterval:    "1h",
			StartupDelay:     "5s",
		},
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")); v != "" {
		cfg.Telegram.Token = v
	}
	if v := strings.TrimSpace(os.Getenv("SMTP_PASSWORD")); v != "" {
		cfg.SMTP.Password = v
	}

	return cfg, nil
}

// OverdueIntervalOr returns the overdue sweep cadence.
func (c SchedulerConfig) OverdueIntervalOr(def time.Duration) (time.Duration, error) {
	return parseIntervalOr("scheduler.overdue_interval", c.OverdueInterval, def)
}

// ReminderIntervalOr returns the upcoming-reminder sweep cadence.
func (c SchedulerConfig) ReminderIntervalOr(def time.Duration) (time.Duration, error) {
	return parseIntervalOr("scheduler.reminder_interval", c.ReminderInterval, def)
}

// SpawnIntervalOr returns the template spawner cadence.
func (c SchedulerConfig) SpawnIntervalOr(def time.Duration) (time.Duration, error) {
	return parseIntervalOr("scheduler.spawn_interval", c.SpawnInterval, def)
}

// StartupDelayOr returns the delay before the initial sweep.
func (c SchedulerConfig) StartupDelayOr(def time.Duration) (time.Duration, error) {
	return parseIntervalOr("scheduler.startup_delay", c.StartupDelay, def)
}

func parseIntervalOr(path, raw string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}
