package trainer

import "time"

// ReminderConfig holds the user's reminder preferences. EveryXDays and
// Weekday are both persisted regardless of mode; only the active mode's
// parameter drives scheduling, the other is stored but inert.
type ReminderConfig struct {
	Mode       ReminderMode
	EveryXDays int // [1,30]
	Weekday    int // 1..7, 1 = Sunday; 0 = unset
	Enabled    bool
}

// ReminderDecision is the set of intents a reminder recomputation wants
// applied to the notification service, plus config corrections.
type ReminderDecision struct {
	Schedule []NotificationIntent
	Cancel   []NotificationID

	// ForceDisable is set when reminders are enabled but the permission is
	// Denied or Unavailable: enabling is never honored silently without a
	// granted permission, so the owning toggle must be flipped off.
	ForceDisable bool

	// ResolvedWeekday carries the weekday actually used for a weekly
	// schedule, so an unset config value can be persisted (0 when weekly
	// scheduling did not run).
	ResolvedWeekday int
}

// DecideReminders computes what reminders should exist for the given
// config and permission state. Pure: no side effects, no I/O. loggedOn
// reports whether a workout log entry exists on the given calendar day;
// a nil loggedOn is treated as "nothing logged".
//
// Both reminder IDs are always cancelled before anything is scheduled, so
// re-deciding after any parameter or mode change is idempotent and the two
// modes can never have standing reminders at the same time.
func DecideReminders(cfg ReminderConfig, perm PermissionStatus, now time.Time, loggedOn func(day time.Time) bool) ReminderDecision {
	d := ReminderDecision{
		Cancel: []NotificationID{NotificationIDReminder, NotificationIDFollowUp},
	}

	if !cfg.Enabled || perm != PermissionGranted {
		if cfg.Enabled && (perm == PermissionDenied || perm == PermissionUnavailable) {
			d.ForceDisable = true
		}
		return d
	}

	switch cfg.Mode {
	case ReminderModeEveryXDays:
		days := clampInt(cfg.EveryXDays, MinReminderDays, MaxReminderDays)
		d.Schedule = append(d.Schedule, NotificationIntent{
			ID:        NotificationIDReminder,
			Title:     "Time to train",
			Body:      "Your interval workout is waiting.",
			FireAfter: time.Duration(days) * 24 * time.Hour,
			Repeats:   true,
		})

	case ReminderModeWeeklyOnWeekday:
		wd := cfg.Weekday
		if wd < MinWeekday || wd > MaxWeekday {
			wd = int(now.Weekday()) + 1
		}
		d.ResolvedWeekday = wd

		d.Schedule = append(d.Schedule, NotificationIntent{
			ID:       NotificationIDReminder,
			Title:    "Time to train",
			Body:     "Your weekly interval workout is scheduled for today.",
			Calendar: true,
			Weekday:  time.Weekday(wd - 1),
			Hour:     ReminderHour,
			Repeats:  true,
		})

		// The follow-up only considers the scheduled weekday's own date:
		// logging a workout on a different day of the same week does not
		// cancel it.
		scheduled := nextWeekdayDate(now, wd)
		if loggedOn == nil || !loggedOn(scheduled) {
			followUpAt := time.Date(scheduled.Year(), scheduled.Month(), scheduled.Day(), ReminderHour, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
			if fireAfter := followUpAt.Sub(now); fireAfter > 0 {
				d.Schedule = append(d.Schedule, NotificationIntent{
					ID:        NotificationIDFollowUp,
					Title:     "Missed your workout?",
					Body:      "You did not log a workout yesterday. There is still time today.",
					FireAfter: fireAfter,
				})
			}
		}
	}

	return d
}

// nextWeekdayDate returns the next calendar day (possibly today) falling
// on the given weekday (1..7, 1 = Sunday), at midnight local time.
func nextWeekdayDate(now time.Time, weekday int) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	target := time.Weekday(weekday - 1)
	for i := 0; i < 7; i++ {
		if day.Weekday() == target {
			return day
		}
		day = day.AddDate(0, 0, 1)
	}
	return day
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
