package trainer

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/lowaak/interval-trainer/internal/go_func_utils"
)

// PendingSession is a finished session waiting for the user to confirm
// logging it.
type PendingSession struct {
	StartedAt  time.Time
	FinishedAt time.Time
}

// SessionController wires the timer engine to the platform collaborators:
// it drives the engine with a periodic tick, turns engine state changes
// into alarm playback and next-interval notifications, and handles the
// finish-confirm-log-reset flow plus reminder recomputation.
type SessionController struct {
	logger     *log.Logger
	engine     *TimerEngine
	settings   *Settings
	workoutLog *WorkoutLog
	gate       *PermissionGate
	notifier   NotificationService
	health     HealthService
	alarm      AlarmPlayer
	clock      func() time.Time

	mu      sync.Mutex
	pending *PendingSession

	doneChan     chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewSessionController creates the controller and starts its tick loop
func NewSessionController(engine *TimerEngine, settings *Settings, workoutLog *WorkoutLog, gate *PermissionGate, notifier NotificationService, health HealthService, alarm AlarmPlayer, logger *log.Logger) *SessionController {
	if engine == nil || settings == nil || workoutLog == nil || gate == nil {
		panic("SessionController: core dependencies cannot be nil")
	}
	if notifier == nil || health == nil || alarm == nil {
		panic("SessionController: collaborator dependencies cannot be nil")
	}
	if logger == nil {
		panic("SessionController: logger cannot be nil")
	}

	c := &SessionController{
		logger:     logger,
		engine:     engine,
		settings:   settings,
		workoutLog: workoutLog,
		gate:       gate,
		notifier:   notifier,
		health:     health,
		alarm:      alarm,
		clock:      time.Now,
		doneChan:   make(chan struct{}),
	}

	engine.ListenToState(c.onTimerState)

	c.wg.Add(1)
	go_func_utils.SafeGo(logger, func() { c.runTickLoop() })

	return c
}

// Shutdown stops the tick loop. Safe to call multiple times.
func (c *SessionController) Shutdown() {
	c.shutdownOnce.Do(func() {
		c.logger.Printf("SessionController: shutting down")
		close(c.doneChan)
		c.wg.Wait()
	})
}

// Start begins or resumes the session. The notification permission is
// resolved first so the next-interval boundary notification can be
// scheduled.
func (c *SessionController) Start() {
	c.gate.EnsureNotificationPermission()
	c.engine.Start(c.clock())
}

// Pause toggles the countdown (pausing a paused session resumes it)
func (c *SessionController) Pause() {
	c.engine.Pause(c.clock())
}

// Skip advances one interval
func (c *SessionController) Skip() {
	c.engine.Skip(c.clock())
}

// Reset abandons the session and returns to the start of the plan
func (c *SessionController) Reset() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
	c.engine.Reset()
}

// HandleResume reconciles against the current wall clock after the host
// process was suspended, without firing alarms for boundaries that passed
// while asleep.
func (c *SessionController) HandleResume() {
	c.logger.Printf("SessionController: reconciling after host resume")
	c.engine.Reconcile(c.clock(), true)
}

// State returns the current engine state
func (c *SessionController) State() TimerState {
	return c.engine.State()
}

// PendingConfirmation returns the finished session awaiting confirmation,
// or nil.
func (c *SessionController) PendingConfirmation() *PendingSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	p := *c.pending
	return &p
}

// ConfirmCompletedWorkout logs the finished session, writes it to the
// health store (failure is non-fatal), resets the engine to the start of
// the plan, and recomputes reminders so a follow-up for today is
// cancelled.
func (c *SessionController) ConfirmCompletedWorkout(workoutType WorkoutType, notes string) error {
	c.mu.Lock()
	p := c.pending
	c.pending = nil
	c.mu.Unlock()
	if p == nil {
		return errors.New("no completed session awaiting confirmation")
	}

	c.workoutLog.Append(WorkoutLogEntry{
		CompletedAt: p.FinishedAt,
		WorkoutType: workoutType,
		Notes:       notes,
	})

	if c.gate.EnsureHealthAuthorization() == PermissionGranted {
		if err := c.health.WriteWorkout(workoutType, p.StartedAt, p.FinishedAt); err != nil {
			c.logger.Printf("SessionController: health write failed (continuing): %v", err)
		}
	}

	c.engine.Reset()
	c.RescheduleReminders()
	return nil
}

// ApplyIntervalSettings rebuilds the plan from the current settings. Any
// in-flight session is discarded.
func (c *SessionController) ApplyIntervalSettings() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()

	warmup, highIntensity, rest, repeat := c.settings.PlanParams()
	c.engine.SetPlan(BuildPlan(warmup, highIntensity, rest, repeat))
}

// SetReminderEnabled flips the reminder toggle. Enabling resolves the
// notification permission first; a denied permission force-disables the
// toggle again during rescheduling.
func (c *SessionController) SetReminderEnabled(enabled bool) {
	if enabled {
		c.gate.EnsureNotificationPermission()
	}
	c.settings.SetReminderEnabled(enabled)
	c.RescheduleReminders()
}

// SetReminderMode switches between the two policies
func (c *SessionController) SetReminderMode(mode ReminderMode) {
	c.settings.SetReminderMode(mode)
	c.RescheduleReminders()
}

// SetReminderEveryXDays updates the fixed-interval parameter
func (c *SessionController) SetReminderEveryXDays(days int) {
	c.settings.SetReminderEveryXDays(days)
	c.RescheduleReminders()
}

// SetReminderWeekday updates the weekly parameter (0 = unset)
func (c *SessionController) SetReminderWeekday(weekday int) {
	c.settings.SetReminderWeekday(weekday)
	c.RescheduleReminders()
}

// RescheduleReminders recomputes the reminder decision and applies it to
// the notification service. Cancels run before schedules so switching
// modes never leaves both policies standing.
func (c *SessionController) RescheduleReminders() {
	cfg := c.settings.Reminder()
	d := DecideReminders(cfg, c.gate.NotificationStatus(), c.clock(), c.workoutLog.HasEntryOn)

	for _, id := range d.Cancel {
		c.notifier.Cancel(id)
	}
	if d.ForceDisable {
		c.logger.Printf("SessionController: reminders force-disabled (permission %s)", c.gate.NotificationStatus())
		c.settings.SetReminderEnabled(false)
	}
	if d.ResolvedWeekday != 0 && cfg.Weekday == 0 {
		c.settings.SetReminderWeekday(d.ResolvedWeekday)
	}
	for _, intent := range d.Schedule {
		if err := c.notifier.Schedule(intent); err != nil {
			c.logger.Printf("SessionController: scheduling %s failed (continuing): %v", intent.ID, err)
		}
	}
}

// onTimerState reacts to every engine state change: alarms, the
// next-interval boundary notification, and capturing a finished session
// for confirmation.
func (c *SessionController) onTimerState(st TimerState) {
	if st.PlayAlarm {
		sound := SoundIntervalChange
		if st.Status == TimerStatusFinished {
			sound = SoundWorkoutComplete
		}
		c.alarm.Play(sound)
	}

	if st.Status == TimerStatusRunning && !st.IntervalEndAt.IsZero() {
		c.scheduleBoundaryNotification(st)
	} else {
		c.notifier.Cancel(NotificationIDNextInterval)
	}

	if st.Status == TimerStatusFinished && st.Transitioned {
		c.mu.Lock()
		c.pending = &PendingSession{StartedAt: st.SessionStartedAt, FinishedAt: c.clock()}
		c.mu.Unlock()
		c.logger.Printf("SessionController: workout finished, awaiting confirmation")
	}
}

// scheduleBoundaryNotification arms a one-shot notification for the
// upcoming interval boundary, announcing what comes next.
func (c *SessionController) scheduleBoundaryNotification(st TimerState) {
	if !c.gate.AllowNotifications() {
		return
	}

	body := "Workout complete. Great job!"
	if st.CurrentIndex+1 < len(st.Plan) {
		body = "Time for: " + st.Plan[st.CurrentIndex+1].Name
	}
	intent := NotificationIntent{
		ID:        NotificationIDNextInterval,
		Title:     "Interval finished",
		Body:      body,
		FireAfter: st.TimeRemaining,
	}
	if err := c.notifier.Schedule(intent); err != nil {
		c.logger.Printf("SessionController: boundary notification failed (continuing): %v", err)
	}
}

// runTickLoop drives the engine once per second. Reconciliation is a
// no-op unless the engine is running, so the ticker stays on.
func (c *SessionController) runTickLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.doneChan:
			c.logger.Printf("SessionController: tick loop exiting")
			return
		case <-ticker.C:
			c.engine.Tick(c.clock())
		}
	}
}
