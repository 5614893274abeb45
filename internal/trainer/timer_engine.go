package trainer

import (
	"log"
	"sync"
	"time"

	"github.com/lowaak/interval-trainer/internal/events"
)

// TimerState is a snapshot of the engine published after every mutation
type TimerState struct {
	Status           TimerStatus
	Plan             IntervalPlan
	CurrentIndex     int           // Index of the current interval (0-based)
	TimeRemaining    time.Duration // Time remaining in the current interval
	IntervalEndAt    time.Time     // Wall-clock deadline of the current interval (zero when no countdown)
	SessionStartedAt time.Time     // When the session was first started (zero before first start)
	Transitioned     bool          // At least one interval boundary was crossed by the operation
	PlayAlarm        bool          // The boundary alarm should sound for this change
}

// TimerEngine advances through an interval plan against wall-clock time.
// All state is reconciled from `now` on every call, so the engine stays
// correct across host suspension: the catch-up walk can cross any number
// of elapsed intervals in a single call.
//
// Entry points are serialized with a mutex at the boundary; the host must
// still avoid driving a session from multiple goroutines at once, since
// operation ordering is what gives the session its meaning.
type TimerEngine struct {
	logger *log.Logger

	mu               sync.Mutex
	plan             IntervalPlan
	status           TimerStatus
	currentIndex     int
	timeRemaining    time.Duration
	intervalEndAt    time.Time
	sessionStartedAt time.Time

	stateChanged *events.CallbackEvent[TimerState]
}

// NewTimerEngine creates an engine positioned at the start of plan
func NewTimerEngine(plan IntervalPlan, logger *log.Logger) *TimerEngine {
	if logger == nil {
		panic("TimerEngine: logger cannot be nil")
	}
	e := &TimerEngine{
		logger:       logger,
		stateChanged: events.NewCallbackEvent[TimerState](true),
	}
	e.resetLocked(plan)
	return e
}

// ListenToState registers a callback invoked after every engine mutation.
// The last published state is replayed to new listeners.
func (e *TimerEngine) ListenToState(callback func(TimerState)) func() {
	return e.stateChanged.Listen(callback)
}

// State returns a snapshot of the current engine state
func (e *TimerEngine) State() TimerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// SetPlan replaces the plan. Any in-flight session is discarded: position
// and running state are not meaningful across a changed plan.
func (e *TimerEngine) SetPlan(plan IntervalPlan) {
	e.mu.Lock()
	e.resetLocked(plan)
	st := e.snapshotLocked()
	e.mu.Unlock()

	e.logger.Printf("TimerEngine: plan set (%d intervals, %v total)", len(plan), plan.TotalDuration())
	e.stateChanged.Notify(st)
}

// Start begins or resumes the countdown. Starting a Running or Finished
// session is a no-op. Reconciliation runs immediately to absorb any time
// already elapsed against an existing deadline.
func (e *TimerEngine) Start(now time.Time) {
	e.mu.Lock()
	if e.status == TimerStatusRunning || e.status == TimerStatusFinished {
		e.mu.Unlock()
		e.logger.Printf("TimerEngine: start ignored in status %s", e.status)
		return
	}
	if !e.validIndexLocked() {
		st := e.stopDefensivelyLocked()
		e.mu.Unlock()
		e.stateChanged.Notify(st)
		return
	}

	e.status = TimerStatusRunning
	if e.sessionStartedAt.IsZero() {
		e.sessionStartedAt = now
	}
	if e.intervalEndAt.IsZero() {
		e.intervalEndAt = now.Add(e.timeRemaining)
	}
	st := e.reconcileLocked(now, false)
	e.mu.Unlock()

	e.logger.Printf("TimerEngine: started at interval %d (%v remaining)", st.CurrentIndex, st.TimeRemaining)
	e.stateChanged.Notify(st)
}

// Pause freezes the countdown. Pausing an already-paused session resumes
// it; the toggle is symmetric.
func (e *TimerEngine) Pause(now time.Time) {
	e.mu.Lock()
	if e.status == TimerStatusPaused {
		e.mu.Unlock()
		e.Start(now)
		return
	}
	if e.status != TimerStatusRunning {
		e.mu.Unlock()
		e.logger.Printf("TimerEngine: pause ignored in status %s", e.status)
		return
	}

	remaining := e.intervalEndAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	e.timeRemaining = remaining
	e.intervalEndAt = time.Time{}
	e.status = TimerStatusPaused
	st := e.snapshotLocked()
	e.mu.Unlock()

	e.logger.Printf("TimerEngine: paused with %v remaining", remaining)
	e.stateChanged.Notify(st)
}

// Skip advances one interval unconditionally, firing the boundary alarm
// exactly as a natural boundary would. When the engine is not running the
// position moves but no countdown begins, so a skip while paused leaves
// the engine paused. Skipping the final interval finishes the workout.
func (e *TimerEngine) Skip(now time.Time) {
	e.mu.Lock()
	if e.status == TimerStatusFinished {
		e.mu.Unlock()
		e.logger.Printf("TimerEngine: skip ignored, workout already finished")
		return
	}
	if !e.validIndexLocked() {
		st := e.stopDefensivelyLocked()
		e.mu.Unlock()
		e.stateChanged.Notify(st)
		return
	}

	var st TimerState
	if e.currentIndex+1 >= len(e.plan) {
		e.finishLocked()
		st = e.snapshotLocked()
	} else {
		e.currentIndex++
		next := e.plan[e.currentIndex]
		e.timeRemaining = next.Duration
		if e.status == TimerStatusRunning {
			e.intervalEndAt = now.Add(next.Duration)
		} else {
			e.intervalEndAt = time.Time{}
		}
		st = e.snapshotLocked()
	}
	st.Transitioned = true
	st.PlayAlarm = true
	e.mu.Unlock()

	e.logger.Printf("TimerEngine: skipped to interval %d (status %s)", st.CurrentIndex, st.Status)
	e.stateChanged.Notify(st)
}

// Tick is the periodic entry point while running
func (e *TimerEngine) Tick(now time.Time) {
	e.Reconcile(now, false)
}

// Reconcile recomputes the position from wall-clock time. Idempotent:
// reconciling twice with the same now and no intervening mutation produces
// the same result as reconciling once. With silent=true any boundary alarm
// is suppressed, for catching up after a host resume without firing stale
// alarms.
func (e *TimerEngine) Reconcile(now time.Time, silent bool) {
	e.mu.Lock()
	if e.status != TimerStatusRunning {
		e.mu.Unlock()
		return
	}
	if !e.validIndexLocked() {
		st := e.stopDefensivelyLocked()
		e.mu.Unlock()
		e.stateChanged.Notify(st)
		return
	}
	st := e.reconcileLocked(now, silent)
	e.mu.Unlock()

	e.stateChanged.Notify(st)
}

// Reset clears the session back to the start of the plan
func (e *TimerEngine) Reset() {
	e.mu.Lock()
	e.resetLocked(e.plan)
	st := e.snapshotLocked()
	e.mu.Unlock()

	e.logger.Printf("TimerEngine: reset")
	e.stateChanged.Notify(st)
}

// --- locked helpers ---

// reconcileLocked runs the catch-up walk. MUST be called with mu held and
// status Running.
//
// If now is before the current deadline only the remaining time is
// recomputed. Otherwise the cursor walks forward one interval at a time,
// accumulating each next interval's duration onto the deadline, until now
// falls inside an interval or the plan is exhausted. Exhaustion finishes
// the workout in this same call no matter how far past the plan's total
// duration now is. The alarm flag is set at most once per call.
func (e *TimerEngine) reconcileLocked(now time.Time, silent bool) TimerState {
	if now.Before(e.intervalEndAt) {
		e.timeRemaining = e.intervalEndAt.Sub(now)
		return e.snapshotLocked()
	}

	cursorEnd := e.intervalEndAt
	idx := e.currentIndex
	for {
		if idx+1 >= len(e.plan) {
			e.finishLocked()
			e.logger.Printf("TimerEngine: reconcile crossed end of plan, workout finished")
			break
		}
		idx++
		cursorEnd = cursorEnd.Add(e.plan[idx].Duration)
		if now.Before(cursorEnd) {
			e.currentIndex = idx
			e.intervalEndAt = cursorEnd
			e.timeRemaining = cursorEnd.Sub(now)
			e.logger.Printf("TimerEngine: reconcile advanced to interval %d (%v remaining)", idx, e.timeRemaining)
			break
		}
	}

	st := e.snapshotLocked()
	st.Transitioned = true
	st.PlayAlarm = !silent
	return st
}

// finishLocked marks the workout complete. MUST be called with mu held.
func (e *TimerEngine) finishLocked() {
	e.status = TimerStatusFinished
	e.timeRemaining = 0
	e.intervalEndAt = time.Time{}
}

// resetLocked restores the engine to Idle at the start of plan. MUST be
// called with mu held (or before the engine is shared).
func (e *TimerEngine) resetLocked(plan IntervalPlan) {
	e.plan = plan
	e.status = TimerStatusIdle
	e.currentIndex = 0
	e.intervalEndAt = time.Time{}
	e.sessionStartedAt = time.Time{}
	if len(plan) > 0 {
		e.timeRemaining = plan[0].Duration
	} else {
		e.timeRemaining = 0
	}
}

// validIndexLocked reports whether the current index points at a real
// interval. MUST be called with mu held.
func (e *TimerEngine) validIndexLocked() bool {
	return e.currentIndex >= 0 && e.currentIndex < len(e.plan)
}

// stopDefensivelyLocked handles a session with no valid current interval
// (corrupted or empty plan): the timer stops rather than continuing with
// an undefined position. MUST be called with mu held.
func (e *TimerEngine) stopDefensivelyLocked() TimerState {
	e.logger.Printf("TimerEngine: no valid current interval (index %d of %d), stopping timer", e.currentIndex, len(e.plan))
	e.status = TimerStatusIdle
	e.currentIndex = 0
	e.timeRemaining = 0
	e.intervalEndAt = time.Time{}
	return e.snapshotLocked()
}

// snapshotLocked builds the published state. MUST be called with mu held.
func (e *TimerEngine) snapshotLocked() TimerState {
	return TimerState{
		Status:           e.status,
		Plan:             e.plan,
		CurrentIndex:     e.currentIndex,
		TimeRemaining:    e.timeRemaining,
		IntervalEndAt:    e.intervalEndAt,
		SessionStartedAt: e.sessionStartedAt,
	}
}
