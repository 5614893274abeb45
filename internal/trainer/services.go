package trainer

import "time"

// NotificationIntent describes one notification the engine wants the
// platform to deliver. Exactly one of FireAfter or the calendar match
// (Calendar=true with Weekday/Hour) is meaningful per intent.
type NotificationIntent struct {
	ID    NotificationID
	Title string
	Body  string

	// FireAfter schedules relative to now. Used for one-shot intents and
	// for fixed-period recurring intents (every N days).
	FireAfter time.Duration

	// Calendar match fields. When Calendar is true the intent fires on
	// Weekday at Hour local time.
	Calendar bool
	Weekday  time.Weekday
	Hour     int

	Repeats bool
}

// NotificationService is the platform notification collaborator. Scheduling
// the same ID twice replaces the earlier schedule; cancelling an absent ID
// is a no-op.
type NotificationService interface {
	Schedule(intent NotificationIntent) error
	Cancel(id NotificationID)
	QueryPermission() PermissionStatus
	RequestPermission() PermissionStatus
}

// TrendSample is one (timestamp, value) point from the health store
type TrendSample struct {
	At    time.Time
	Value float64
}

// HealthService is the platform health-data collaborator. WriteWorkout
// failures are non-fatal to the caller.
type HealthService interface {
	RequestAuthorization() (bool, error)
	QueryTrendSamples(metric string, limit int) ([]TrendSample, error)
	WriteWorkout(workoutType WorkoutType, start, end time.Time) error
}

// KeyValueStore is the persistence substrate for settings scalars and the
// serialized workout-log blob.
type KeyValueStore interface {
	GetString(key string) (string, bool)
	SetString(key, value string) error
}

// AlarmPlayer plays a short alarm sound. Fire-and-forget; failures must be
// swallowed by the implementation.
type AlarmPlayer interface {
	Play(soundID string)
}
