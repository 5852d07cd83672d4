package checklist

import (
	"fmt"
	"time"
)

// Config holds the checklist settings.
type Config struct {
	// SystemUser is recorded on cells created by reconciliation.
	SystemUser string `mapstructure:"system_user" default:"sistema"`
	// Concurrency bounds parallel cell creation during reconciliation.
	Concurrency int `mapstructure:"concurrency" default:"4"`
	// Timezone is the operation's timezone; it defines calendar days.
	Timezone string `mapstructure:"timezone" default:"America/Sao_Paulo"`
	// SchedulerEnabled runs the daily jobs inside the server.
	SchedulerEnabled bool `mapstructure:"scheduler_enabled" default:"true"`
	// EnsureSchedule is the cron expression of the daily matrix reconciliation.
	EnsureSchedule string `mapstructure:"ensure_schedule" default:"0 5 * * *"`
	// ArchiveSchedule is the cron expression of the daily archive.
	ArchiveSchedule string `mapstructure:"archive_schedule" default:"55 23 * * *"`
}

// Location loads the configured timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid checklist timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
