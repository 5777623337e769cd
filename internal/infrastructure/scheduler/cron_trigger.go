package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SpaceProvider provides the spaces that nightly maintenance covers
type SpaceProvider interface {
	GetAllActiveSpaceIDs(ctx context.Context) ([]uuid.UUID, error)
}

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	// MaintenanceHour/Minute is the time of day to run nightly maintenance (24h clock)
	MaintenanceHour   int
	MaintenanceMinute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		MaintenanceHour:   3, // 3am
		MaintenanceMinute: 0,
		CheckInterval:     time.Minute,
	}
}

// ParseCronSchedule parses a simplified cron expression of the form
// "minute hour * * *". Only daily schedules are supported; an empty or
// partial expression falls back to the defaults.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	// Default values
	hour = 3
	minute = 0

	if cronExpr == "" {
		return hour, minute, nil
	}

	parts := strings.Fields(cronExpr)

	if len(parts) < 2 {
		return hour, minute, nil
	}

	// Parse minute
	if parts[0] != "*" {
		if val, parseErr := parseIntOrDefault(parts[0], 0); parseErr == nil {
			minute = val
		}
	}

	// Parse hour
	if parts[1] != "*" {
		if val, parseErr := parseIntOrDefault(parts[1], 3); parseErr == nil {
			hour = val
		}
	}

	// Validate ranges
	if minute < 0 || minute > 59 {
		return 3, 0, fmt.Errorf("minute must be 0-59, got %d", minute)
	}
	if hour < 0 || hour > 23 {
		return 3, 0, fmt.Errorf("hour must be 0-23, got %d", hour)
	}

	return hour, minute, nil
}

// parseIntOrDefault parses an int string or returns default
func parseIntOrDefault(s string, defaultVal int) (int, error) {
	if s == "" || s == "*" {
		return defaultVal, nil
	}
	var val int
	for _, c := range s {
		if c < '0' || c > '9' {
			return defaultVal, ErrInvalidConfig
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}

// CronTrigger starts the nightly maintenance run at the configured time
type CronTrigger struct {
	config        CronTriggerConfig
	scheduler     *Scheduler
	spaceProvider SpaceProvider
	logger        *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string // Track which date we last ran for
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(
	config CronTriggerConfig,
	scheduler *Scheduler,
	spaceProvider SpaceProvider,
	logger *zap.Logger,
) *CronTrigger {
	return &CronTrigger{
		config:        config,
		scheduler:     scheduler,
		spaceProvider: spaceProvider,
		logger:        logger,
	}
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started",
		zap.Int("maintenance_hour", c.config.MaintenanceHour),
		zap.Int("maintenance_minute", c.config.MaintenanceMinute),
		zap.Duration("check_interval", c.config.CheckInterval),
	)

	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically if it's time to run nightly maintenance
func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger checks if it's time to run and submits the nightly jobs
func (c *CronTrigger) checkAndTrigger(ctx context.Context) {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	// Skip if we already ran today
	c.mu.Lock()
	if c.lastRunDate == currentDate {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// Check if it's the right time
	if now.Hour() != c.config.MaintenanceHour || now.Minute() != c.config.MaintenanceMinute {
		return
	}

	// It's time to run!
	c.mu.Lock()
	c.lastRunDate = currentDate
	c.mu.Unlock()

	c.logger.Info("Triggering nightly maintenance")
	c.triggerMaintenance(ctx)
}

// triggerMaintenance submits the full nightly maintenance run
func (c *CronTrigger) triggerMaintenance(ctx context.Context) {
	spaceIDs, err := c.spaceProvider.GetAllActiveSpaceIDs(ctx)
	if err != nil {
		c.logger.Error("Failed to get space IDs for nightly maintenance", zap.Error(err))
		return
	}

	c.logger.Info("Scheduling nightly maintenance",
		zap.Int("space_count", len(spaceIDs)),
	)

	if err := c.scheduler.ScheduleNightlyMaintenance(spaceIDs); err != nil {
		c.logger.Error("Failed to schedule nightly maintenance", zap.Error(err))
	}
}

// TriggerManualRun submits maintenance jobs outside the nightly schedule.
// A nil jobType runs the full maintenance set.
func (c *CronTrigger) TriggerManualRun(ctx context.Context, jobType *JobType, day time.Time) error {
	if jobType == nil {
		spaceIDs, err := c.spaceProvider.GetAllActiveSpaceIDs(ctx)
		if err != nil {
			return err
		}
		return c.scheduler.ScheduleNightlyMaintenance(spaceIDs)
	}

	switch *jobType {
	case JobTypeMessagePrune:
		spaceIDs, err := c.spaceProvider.GetAllActiveSpaceIDs(ctx)
		if err != nil {
			return err
		}
		for _, spaceID := range spaceIDs {
			sid := spaceID
			if err := c.scheduler.SubmitJob(NewJob(&sid, JobTypeMessagePrune, day, 0)); err != nil {
				return err
			}
		}
		return nil
	case JobTypeAnalyticsRollup, JobTypeNotificationPrune, JobTypeOverdueChoreScan:
		return c.scheduler.SubmitJob(NewJob(nil, *jobType, day, 0))
	default:
		return ErrInvalidJobType
	}
}
