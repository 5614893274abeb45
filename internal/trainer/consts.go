package trainer

import "time"

// IntervalKind categorizes the segments of a workout plan
type IntervalKind int

const (
	IntervalKindWarmup        IntervalKind = iota // Optional warmup segment at the start of the plan
	IntervalKindHighIntensity                     // Work segment
	IntervalKindRest                              // Recovery segment between work segments
)

// String returns a human-readable name for the interval kind
func (k IntervalKind) String() string {
	switch k {
	case IntervalKindWarmup:
		return "Warmup"
	case IntervalKindHighIntensity:
		return "High Intensity"
	case IntervalKindRest:
		return "Rest"
	default:
		return "Unknown"
	}
}

// Interval is one timed segment of a workout. Immutable once built.
type Interval struct {
	Name     string
	Duration time.Duration
	Kind     IntervalKind
}

// IntervalPlan is the full ordered sequence of intervals for one session
type IntervalPlan []Interval

// TotalDuration returns the total duration of all intervals in the plan
func (p IntervalPlan) TotalDuration() time.Duration {
	var total time.Duration
	for _, iv := range p {
		total += iv.Duration
	}
	return total
}

// Default plan parameters (Norwegian 4x4 protocol)
const (
	DefaultWarmupDuration        = 10 * time.Minute
	DefaultHighIntensityDuration = 4 * time.Minute
	DefaultRestDuration          = 3 * time.Minute
	DefaultNumberOfIntervals     = 4
)

// MinHighIntensityDuration is the floor a non-positive work duration is clamped to
const MinHighIntensityDuration = 1 * time.Second

// TimerStatus represents the current status of the timer engine
type TimerStatus int

const (
	TimerStatusIdle     TimerStatus = iota // Plan loaded, session not started
	TimerStatusRunning                     // Countdown in progress
	TimerStatusPaused                      // Position held, no countdown
	TimerStatusFinished                    // All intervals completed
)

// String returns a human-readable name for the timer status
func (s TimerStatus) String() string {
	switch s {
	case TimerStatusIdle:
		return "Idle"
	case TimerStatusRunning:
		return "Running"
	case TimerStatusPaused:
		return "Paused"
	case TimerStatusFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// WorkoutType tags a logged workout
type WorkoutType string

const (
	WorkoutTypeNorwegian4x4  WorkoutType = "norwegian_4x4"
	WorkoutTypeRunning       WorkoutType = "running"
	WorkoutTypeCycling       WorkoutType = "cycling"
	WorkoutTypeSwimming      WorkoutType = "swimming"
	WorkoutTypeRowing        WorkoutType = "rowing"
	WorkoutTypeHIIT          WorkoutType = "hiit"
	WorkoutTypeStrength      WorkoutType = "strength"
	WorkoutTypeWalking       WorkoutType = "walking"
	WorkoutTypeHiking        WorkoutType = "hiking"
	WorkoutTypeElliptical    WorkoutType = "elliptical"
	WorkoutTypeStairClimbing WorkoutType = "stair_climbing"
	WorkoutTypeOther         WorkoutType = "other"
)

// DefaultWorkoutType is used when a stored workout type cannot be recognized
const DefaultWorkoutType = WorkoutTypeNorwegian4x4

// WorkoutTypeInfo contains display information for a workout type
type WorkoutTypeInfo struct {
	Type        WorkoutType
	DisplayName string
}

// AllWorkoutTypes defines all supported workout types in display order
var AllWorkoutTypes = []WorkoutTypeInfo{
	{Type: WorkoutTypeNorwegian4x4, DisplayName: "Norwegian 4x4"},
	{Type: WorkoutTypeRunning, DisplayName: "Running"},
	{Type: WorkoutTypeCycling, DisplayName: "Cycling"},
	{Type: WorkoutTypeSwimming, DisplayName: "Swimming"},
	{Type: WorkoutTypeRowing, DisplayName: "Rowing"},
	{Type: WorkoutTypeHIIT, DisplayName: "HIIT"},
	{Type: WorkoutTypeStrength, DisplayName: "Strength"},
	{Type: WorkoutTypeWalking, DisplayName: "Walking"},
	{Type: WorkoutTypeHiking, DisplayName: "Hiking"},
	{Type: WorkoutTypeElliptical, DisplayName: "Elliptical"},
	{Type: WorkoutTypeStairClimbing, DisplayName: "Stair Climbing"},
	{Type: WorkoutTypeOther, DisplayName: "Other"},
}

// GetWorkoutTypeInfo returns the info for a given workout type
func GetWorkoutTypeInfo(t WorkoutType) (WorkoutTypeInfo, bool) {
	for _, info := range AllWorkoutTypes {
		if info.Type == t {
			return info, true
		}
	}
	return WorkoutTypeInfo{}, false
}

// ParseWorkoutType maps a stored string to a workout type. It accepts both
// the stable tag and the display name (older log blobs stored display names).
func ParseWorkoutType(s string) (WorkoutType, bool) {
	for _, info := range AllWorkoutTypes {
		if s == string(info.Type) || s == info.DisplayName {
			return info.Type, true
		}
	}
	return "", false
}

// NotificationID identifies a standing notification owned by the engine
type NotificationID string

const (
	NotificationIDNextInterval NotificationID = "next_interval"
	NotificationIDReminder     NotificationID = "workout_reminder"
	NotificationIDFollowUp     NotificationID = "missed_workout_follow_up"
)

// Alarm sound identifiers
const (
	SoundIntervalChange  = "interval_change"
	SoundWorkoutComplete = "workout_complete"
)

// PermissionStatus tracks a platform capability grant
type PermissionStatus int

const (
	PermissionUnknown     PermissionStatus = iota // Not yet queried or requested
	PermissionGranted                             // Capability available
	PermissionDenied                              // User declined
	PermissionUnavailable                         // Capability does not exist on this host
)

// String returns a human-readable name for the permission status
func (s PermissionStatus) String() string {
	switch s {
	case PermissionUnknown:
		return "Unknown"
	case PermissionGranted:
		return "Granted"
	case PermissionDenied:
		return "Denied"
	case PermissionUnavailable:
		return "Unavailable"
	default:
		return "Invalid"
	}
}

// ReminderMode selects one of the two mutually exclusive reminder policies
type ReminderMode int

const (
	ReminderModeEveryXDays      ReminderMode = iota // Recurring every N days from now
	ReminderModeWeeklyOnWeekday                     // Recurring weekly on a fixed weekday
)

// String returns a human-readable name for the reminder mode
func (m ReminderMode) String() string {
	switch m {
	case ReminderModeEveryXDays:
		return "EveryXDays"
	case ReminderModeWeeklyOnWeekday:
		return "WeeklyOnWeekday"
	default:
		return "Unknown"
	}
}

// Reminder policy limits. Weekdays use 1..7 with 1 = Sunday; 0 means unset.
const (
	MinReminderDays = 1
	MaxReminderDays = 30
	MinWeekday      = 1
	MaxWeekday      = 7

	// ReminderHour is the local hour all calendar reminders anchor to
	ReminderHour = 9
)
