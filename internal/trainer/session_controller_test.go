package trainer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type controllerFixture struct {
	ctrl     *SessionController
	engine   *TimerEngine
	settings *Settings
	log      *WorkoutLog
	notifier *fakeNotifier
	health   *fakeHealth
	alarm    *fakeAlarm
	now      time.Time
}

// newControllerFixture builds a controller over fakes with a manual clock.
// The background tick loop is shut down immediately so tests drive time
// explicitly.
func newControllerFixture(t *testing.T, plan IntervalPlan, notifier *fakeNotifier, health *fakeHealth) *controllerFixture {
	t.Helper()
	settings := LoadSettings(newFakeStore(), testLogger())
	workoutLog := NewWorkoutLog(newFakeStore(), testLogger())
	gate := NewPermissionGate(notifier, health, settings, testLogger())
	engine := NewTimerEngine(plan, testLogger())
	alarm := &fakeAlarm{}

	ctrl := NewSessionController(engine, settings, workoutLog, gate, notifier, health, alarm, testLogger())
	ctrl.Shutdown()

	f := &controllerFixture{
		ctrl:     ctrl,
		engine:   engine,
		settings: settings,
		log:      workoutLog,
		notifier: notifier,
		health:   health,
		alarm:    alarm,
		now:      t0,
	}
	ctrl.clock = func() time.Time { return f.now }
	return f
}

func TestControllerStartSchedulesBoundaryNotification(t *testing.T) {
	notifier := newFakeNotifier(PermissionGranted, PermissionGranted)
	f := newControllerFixture(t, twoByTenPlan(), notifier, &fakeHealth{authGranted: true})

	f.ctrl.Start()

	require.Equal(t, TimerStatusRunning, f.ctrl.State().Status)
	intent, ok := notifier.intentFor(NotificationIDNextInterval)
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, intent.FireAfter)
	assert.False(t, intent.Repeats)
	assert.Contains(t, intent.Body, "Rest")
}

func TestControllerPauseCancelsBoundaryNotification(t *testing.T) {
	notifier := newFakeNotifier(PermissionGranted, PermissionGranted)
	f := newControllerFixture(t, twoByTenPlan(), notifier, &fakeHealth{authGranted: true})

	f.ctrl.Start()
	f.now = f.now.Add(3 * time.Second)
	f.ctrl.Pause()

	_, ok := notifier.intentFor(NotificationIDNextInterval)
	assert.False(t, ok)
	assert.Contains(t, notifier.cancelled, NotificationIDNextInterval)
}

func TestControllerDeniedPermissionSkipsBoundaryNotification(t *testing.T) {
	notifier := newFakeNotifier(PermissionDenied, PermissionDenied)
	f := newControllerFixture(t, twoByTenPlan(), notifier, &fakeHealth{})

	f.ctrl.Start()

	assert.Equal(t, TimerStatusRunning, f.ctrl.State().Status)
	_, ok := notifier.intentFor(NotificationIDNextInterval)
	assert.False(t, ok)
}

func TestControllerFinishConfirmFlow(t *testing.T) {
	notifier := newFakeNotifier(PermissionGranted, PermissionGranted)
	health := &fakeHealth{authGranted: true}
	f := newControllerFixture(t, BuildPlan(0, time.Second, time.Second, 1), notifier, health)

	f.ctrl.Start()
	f.now = f.now.Add(5 * time.Second)
	f.ctrl.HandleResume() // silent catch-up past the end

	require.Equal(t, TimerStatusFinished, f.ctrl.State().Status)
	assert.Equal(t, 0, f.alarm.playCount(), "silent reconcile must not fire stale alarms")

	pending := f.ctrl.PendingConfirmation()
	require.NotNil(t, pending)
	assert.Equal(t, t0, pending.StartedAt)
	assert.Equal(t, f.now, pending.FinishedAt)

	require.NoError(t, f.ctrl.ConfirmCompletedWorkout(WorkoutTypeNorwegian4x4, "  strong finish  "))

	entries := f.log.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, WorkoutTypeNorwegian4x4, entries[0].WorkoutType)
	assert.Equal(t, "strong finish", entries[0].Notes)

	assert.Equal(t, 1, health.writeCount())

	// Confirming resets the session to Idle at the start of the plan
	st := f.ctrl.State()
	assert.Equal(t, TimerStatusIdle, st.Status)
	assert.Equal(t, 0, st.CurrentIndex)

	assert.Nil(t, f.ctrl.PendingConfirmation())
	assert.Error(t, f.ctrl.ConfirmCompletedWorkout(WorkoutTypeNorwegian4x4, ""))
}

func TestControllerFinishViaTickPlaysCompletionAlarm(t *testing.T) {
	notifier := newFakeNotifier(PermissionGranted, PermissionGranted)
	f := newControllerFixture(t, BuildPlan(0, time.Second, time.Second, 1), notifier, &fakeHealth{})

	f.ctrl.Start()
	f.engine.Tick(t0.Add(5 * time.Second))

	require.Equal(t, 1, f.alarm.playCount())
	f.alarm.mu.Lock()
	assert.Equal(t, SoundWorkoutComplete, f.alarm.played[0])
	f.alarm.mu.Unlock()
}

func TestControllerHealthWriteFailureIsNonFatal(t *testing.T) {
	notifier := newFakeNotifier(PermissionGranted, PermissionGranted)
	health := &fakeHealth{authGranted: true, writeErr: assert.AnError}
	f := newControllerFixture(t, BuildPlan(0, time.Second, time.Second, 1), notifier, health)

	f.ctrl.Start()
	f.now = f.now.Add(5 * time.Second)
	f.ctrl.HandleResume()

	require.NoError(t, f.ctrl.ConfirmCompletedWorkout(WorkoutTypeHIIT, ""))
	assert.Len(t, f.log.Entries(), 1)
}

func TestControllerReminderDeniedAutoDisables(t *testing.T) {
	notifier := newFakeNotifier(PermissionUnknown, PermissionDenied)
	f := newControllerFixture(t, twoByTenPlan(), notifier, &fakeHealth{})

	f.ctrl.SetReminderEnabled(true)

	assert.False(t, f.settings.Reminder().Enabled, "denied permission must flip the toggle back off")
	_, ok := notifier.intentFor(NotificationIDReminder)
	assert.False(t, ok)
}

func TestControllerWeeklyWeekdayAutoPopulated(t *testing.T) {
	notifier := newFakeNotifier(PermissionGranted, PermissionGranted)
	f := newControllerFixture(t, twoByTenPlan(), notifier, &fakeHealth{})

	f.ctrl.SetReminderMode(ReminderModeWeeklyOnWeekday)
	f.ctrl.SetReminderEnabled(true)

	wd := f.settings.Reminder().Weekday
	assert.GreaterOrEqual(t, wd, MinWeekday)
	assert.LessOrEqual(t, wd, MaxWeekday)
}

func TestControllerConfirmCancelsSameDayFollowUp(t *testing.T) {
	notifier := newFakeNotifier(PermissionGranted, PermissionGranted)
	f := newControllerFixture(t, BuildPlan(0, time.Second, time.Second, 1), notifier, &fakeHealth{authGranted: true})

	// Weekly reminder scheduled for today (t0 is a Monday -> weekday 2)
	f.ctrl.SetReminderMode(ReminderModeWeeklyOnWeekday)
	f.ctrl.SetReminderWeekday(2)
	f.ctrl.SetReminderEnabled(true)
	_, ok := notifier.intentFor(NotificationIDFollowUp)
	require.True(t, ok, "follow-up should be armed while nothing is logged today")

	// Complete and log a workout today
	f.ctrl.Start()
	f.now = f.now.Add(5 * time.Second)
	f.ctrl.HandleResume()
	require.NoError(t, f.ctrl.ConfirmCompletedWorkout(WorkoutTypeNorwegian4x4, ""))

	_, ok = notifier.intentFor(NotificationIDFollowUp)
	assert.False(t, ok, "logging on the scheduled day must cancel the follow-up")
	// The weekly recurring reminder itself stays armed
	_, ok = notifier.intentFor(NotificationIDReminder)
	assert.True(t, ok)
}

func TestControllerModeSwitchCancelsOtherModeIntents(t *testing.T) {
	notifier := newFakeNotifier(PermissionGranted, PermissionGranted)
	f := newControllerFixture(t, twoByTenPlan(), notifier, &fakeHealth{})

	f.ctrl.SetReminderMode(ReminderModeWeeklyOnWeekday)
	f.ctrl.SetReminderEnabled(true)
	_, ok := notifier.intentFor(NotificationIDFollowUp)
	require.True(t, ok)

	f.ctrl.SetReminderMode(ReminderModeEveryXDays)

	intent, ok := notifier.intentFor(NotificationIDReminder)
	require.True(t, ok)
	assert.False(t, intent.Calendar)
	_, ok = notifier.intentFor(NotificationIDFollowUp)
	assert.False(t, ok, "switching modes must cancel the weekly follow-up")
}

func TestControllerApplyIntervalSettingsRebuildsPlan(t *testing.T) {
	notifier := newFakeNotifier(PermissionGranted, PermissionGranted)
	f := newControllerFixture(t, twoByTenPlan(), notifier, &fakeHealth{})

	f.ctrl.Start()
	f.settings.SetNumberOfIntervals(3)
	f.settings.SetWarmupSeconds(60)
	f.ctrl.ApplyIntervalSettings()

	st := f.ctrl.State()
	assert.Equal(t, TimerStatusIdle, st.Status, "rebuilding the plan discards the in-flight session")
	// Warmup + 3 work + 2 rest
	assert.Len(t, st.Plan, 6)
}
