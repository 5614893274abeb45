package trainer

import (
	"log"
	"strconv"
	"time"
)

// Key-value store keys for persisted scalar settings
const (
	keyWarmupSeconds        = "warmup_seconds"
	keyHighIntensitySeconds = "high_intensity_seconds"
	keyRestSeconds          = "rest_seconds"
	keyNumberOfIntervals    = "number_of_intervals"

	keyReminderEnabled    = "reminder_enabled"
	keyReminderMode       = "reminder_mode"
	keyReminderEveryXDays = "reminder_every_x_days"
	keyReminderWeekday    = "reminder_weekday"

	keyNotifPermissionRequested  = "notification_permission_requested"
	keyHealthPermissionRequested = "health_permission_requested"
)

// Settings holds the persisted scalar configuration. Every write is
// clamped once inside the setter and then persisted; side effects of a
// write (rebuilding the plan, rescheduling reminders) are explicit calls
// made by the owner afterwards, never implicit observers. Single-writer:
// the session controller serializes all access.
type Settings struct {
	logger *log.Logger
	store  KeyValueStore

	warmupSeconds        int
	highIntensitySeconds int
	restSeconds          int
	numberOfIntervals    int

	reminder ReminderConfig

	notifPermissionRequested  bool
	healthPermissionRequested bool
}

// LoadSettings reads all persisted scalars, falling back to the Norwegian
// 4x4 defaults for anything missing or unparseable.
func LoadSettings(store KeyValueStore, logger *log.Logger) *Settings {
	if store == nil {
		panic("Settings: store cannot be nil")
	}
	if logger == nil {
		panic("Settings: logger cannot be nil")
	}
	s := &Settings{logger: logger, store: store}

	s.warmupSeconds = s.readInt(keyWarmupSeconds, int(DefaultWarmupDuration/time.Second))
	s.highIntensitySeconds = s.readInt(keyHighIntensitySeconds, int(DefaultHighIntensityDuration/time.Second))
	s.restSeconds = s.readInt(keyRestSeconds, int(DefaultRestDuration/time.Second))
	s.numberOfIntervals = s.readInt(keyNumberOfIntervals, DefaultNumberOfIntervals)

	s.reminder = ReminderConfig{
		Mode:       ReminderMode(s.readInt(keyReminderMode, int(ReminderModeEveryXDays))),
		EveryXDays: s.readInt(keyReminderEveryXDays, 2),
		Weekday:    s.readInt(keyReminderWeekday, 0),
		Enabled:    s.readBool(keyReminderEnabled, false),
	}

	s.notifPermissionRequested = s.readBool(keyNotifPermissionRequested, false)
	s.healthPermissionRequested = s.readBool(keyHealthPermissionRequested, false)

	// Re-apply the clamps so out-of-range persisted values are corrected
	// once at load instead of surfacing later.
	s.SetWarmupSeconds(s.warmupSeconds)
	s.SetHighIntensitySeconds(s.highIntensitySeconds)
	s.SetRestSeconds(s.restSeconds)
	s.SetNumberOfIntervals(s.numberOfIntervals)
	s.SetReminderEveryXDays(s.reminder.EveryXDays)
	s.SetReminderWeekday(s.reminder.Weekday)

	logger.Printf("Settings: loaded (warmup=%ds work=%ds rest=%ds intervals=%d reminder=%s enabled=%v)",
		s.warmupSeconds, s.highIntensitySeconds, s.restSeconds, s.numberOfIntervals, s.reminder.Mode, s.reminder.Enabled)
	return s
}

// PlanParams returns the interval plan inputs in builder form
func (s *Settings) PlanParams() (warmup, highIntensity, rest time.Duration, repeatCount int) {
	return time.Duration(s.warmupSeconds) * time.Second,
		time.Duration(s.highIntensitySeconds) * time.Second,
		time.Duration(s.restSeconds) * time.Second,
		s.numberOfIntervals
}

func (s *Settings) WarmupSeconds() int        { return s.warmupSeconds }
func (s *Settings) HighIntensitySeconds() int { return s.highIntensitySeconds }
func (s *Settings) RestSeconds() int          { return s.restSeconds }
func (s *Settings) NumberOfIntervals() int    { return s.numberOfIntervals }

// Reminder returns a copy of the current reminder configuration
func (s *Settings) Reminder() ReminderConfig { return s.reminder }

func (s *Settings) NotificationPermissionRequested() bool { return s.notifPermissionRequested }
func (s *Settings) HealthPermissionRequested() bool       { return s.healthPermissionRequested }

func (s *Settings) SetWarmupSeconds(v int) {
	if v < 0 {
		v = 0
	}
	s.warmupSeconds = v
	s.writeInt(keyWarmupSeconds, v)
}

func (s *Settings) SetHighIntensitySeconds(v int) {
	if v < 1 {
		v = 1
	}
	s.highIntensitySeconds = v
	s.writeInt(keyHighIntensitySeconds, v)
}

func (s *Settings) SetRestSeconds(v int) {
	if v < 0 {
		v = 0
	}
	s.restSeconds = v
	s.writeInt(keyRestSeconds, v)
}

func (s *Settings) SetNumberOfIntervals(v int) {
	if v < 1 {
		v = 1
	}
	s.numberOfIntervals = v
	s.writeInt(keyNumberOfIntervals, v)
}

func (s *Settings) SetReminderEnabled(v bool) {
	s.reminder.Enabled = v
	s.writeBool(keyReminderEnabled, v)
}

func (s *Settings) SetReminderMode(m ReminderMode) {
	if m != ReminderModeEveryXDays && m != ReminderModeWeeklyOnWeekday {
		m = ReminderModeEveryXDays
	}
	s.reminder.Mode = m
	s.writeInt(keyReminderMode, int(m))
}

func (s *Settings) SetReminderEveryXDays(v int) {
	v = clampInt(v, MinReminderDays, MaxReminderDays)
	s.reminder.EveryXDays = v
	s.writeInt(keyReminderEveryXDays, v)
}

// SetReminderWeekday accepts 1..7 (1 = Sunday) or 0 for unset
func (s *Settings) SetReminderWeekday(v int) {
	if v != 0 {
		v = clampInt(v, MinWeekday, MaxWeekday)
	}
	s.reminder.Weekday = v
	s.writeInt(keyReminderWeekday, v)
}

func (s *Settings) SetNotificationPermissionRequested(v bool) {
	s.notifPermissionRequested = v
	s.writeBool(keyNotifPermissionRequested, v)
}

func (s *Settings) SetHealthPermissionRequested(v bool) {
	s.healthPermissionRequested = v
	s.writeBool(keyHealthPermissionRequested, v)
}

func (s *Settings) readInt(key string, fallback int) int {
	raw, ok := s.store.GetString(key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		s.logger.Printf("Settings: %s holds %q, using default %d", key, raw, fallback)
		return fallback
	}
	return v
}

func (s *Settings) readBool(key string, fallback bool) bool {
	raw, ok := s.store.GetString(key)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		s.logger.Printf("Settings: %s holds %q, using default %v", key, raw, fallback)
		return fallback
	}
	return v
}

func (s *Settings) writeInt(key string, v int) {
	if err := s.store.SetString(key, strconv.Itoa(v)); err != nil {
		s.logger.Printf("Settings: persisting %s failed: %v", key, err)
	}
}

func (s *Settings) writeBool(key string, v bool) {
	if err := s.store.SetString(key, strconv.FormatBool(v)); err != nil {
		s.logger.Printf("Settings: persisting %s failed: %v", key, err)
	}
}
