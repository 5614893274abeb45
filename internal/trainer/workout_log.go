package trainer

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// workoutLogKey is the key-value store key holding the serialized log blob
const workoutLogKey = "workout_log"

// WorkoutLogEntry is one completed workout. Never mutated after creation.
type WorkoutLogEntry struct {
	ID          string      `json:"id"`
	CompletedAt time.Time   `json:"completedAt"`
	WorkoutType WorkoutType `json:"workoutType"`
	Notes       string      `json:"notes"`
}

// WorkoutLog is the append-only collection of completed workouts, newest
// first. The full sequence is persisted as one blob through the key-value
// store; older stored shapes are migrated on load.
type WorkoutLog struct {
	logger *log.Logger
	store  KeyValueStore

	mu      sync.Mutex
	entries []WorkoutLogEntry
}

// NewWorkoutLog loads the persisted log. A missing or unparseable blob
// yields an empty log; data in a legacy shape is migrated and immediately
// re-persisted in the current schema.
func NewWorkoutLog(store KeyValueStore, logger *log.Logger) *WorkoutLog {
	if store == nil {
		panic("WorkoutLog: store cannot be nil")
	}
	if logger == nil {
		panic("WorkoutLog: logger cannot be nil")
	}
	l := &WorkoutLog{logger: logger, store: store}
	l.load()
	return l
}

// Append prepends entry to the log and persists the full sequence. A
// missing ID is filled in and notes are trimmed.
func (l *WorkoutLog) Append(entry WorkoutLogEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if _, ok := GetWorkoutTypeInfo(entry.WorkoutType); !ok {
		entry.WorkoutType = DefaultWorkoutType
	}
	entry.Notes = strings.TrimSpace(entry.Notes)

	l.mu.Lock()
	l.entries = append([]WorkoutLogEntry{entry}, l.entries...)
	l.persistLocked()
	l.mu.Unlock()

	l.logger.Printf("WorkoutLog: appended %s workout completed at %v", entry.WorkoutType, entry.CompletedAt)
}

// Entries returns a copy of the log, newest first
func (l *WorkoutLog) Entries() []WorkoutLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]WorkoutLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// HasEntryOn reports whether any entry was completed on the given
// calendar day (local time).
func (l *WorkoutLog) HasEntryOn(day time.Time) bool {
	y, m, d := day.Date()
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		ey, em, ed := e.CompletedAt.Date()
		if ey == y && em == m && ed == d {
			return true
		}
	}
	return false
}

func (l *WorkoutLog) load() {
	raw, ok := l.store.GetString(workoutLogKey)
	if !ok || raw == "" {
		l.logger.Printf("WorkoutLog: no stored log, starting empty")
		return
	}

	entries, migrated := decodeWorkoutLog([]byte(raw), l.logger)

	l.mu.Lock()
	l.entries = entries
	if migrated {
		l.persistLocked()
	}
	l.mu.Unlock()

	l.logger.Printf("WorkoutLog: loaded %d entries (migrated=%v)", len(entries), migrated)
}

// persistLocked serializes the full sequence through the store. MUST be
// called with mu held. Failures are logged and dropped: the in-memory log
// stays valid and the next append retries the write.
func (l *WorkoutLog) persistLocked() {
	raw, err := json.Marshal(l.entries)
	if err != nil {
		l.logger.Printf("WorkoutLog: marshal failed: %v", err)
		return
	}
	if err := l.store.SetString(workoutLogKey, string(raw)); err != nil {
		l.logger.Printf("WorkoutLog: persist failed: %v", err)
	}
}

// legacyEntryV2 is the middle-aged stored shape: unix timestamp plus a
// free-form type string and optional notes.
type legacyEntryV2 struct {
	Timestamp float64 `json:"timestamp"`
	Type      string  `json:"type"`
	Notes     *string `json:"notes,omitempty"`
}

// decodeWorkoutLog deserializes the stored blob, attempting each schema
// shape from newest to oldest and returning the first structural match:
//
//	(a) current: objects with id/completedAt/workoutType/notes
//	(b) legacy:  objects with a unix timestamp and a string-named type
//	(c) oldest:  a bare array of unix completion timestamps
//
// Legacy shapes report migrated=true so the caller re-persists in the
// current schema. An unparseable blob yields an empty log.
func decodeWorkoutLog(raw []byte, logger *log.Logger) (entries []WorkoutLogEntry, migrated bool) {
	var current []WorkoutLogEntry
	if err := json.Unmarshal(raw, &current); err == nil && currentShapeValid(current) {
		for i := range current {
			if _, ok := GetWorkoutTypeInfo(current[i].WorkoutType); !ok {
				current[i].WorkoutType = DefaultWorkoutType
			}
			current[i].Notes = strings.TrimSpace(current[i].Notes)
		}
		return current, false
	}

	var v2 []legacyEntryV2
	if err := json.Unmarshal(raw, &v2); err == nil && legacyV2ShapeValid(v2) {
		out := make([]WorkoutLogEntry, 0, len(v2))
		for _, le := range v2 {
			t, ok := ParseWorkoutType(le.Type)
			if !ok {
				t = DefaultWorkoutType
			}
			notes := ""
			if le.Notes != nil {
				notes = strings.TrimSpace(*le.Notes)
			}
			out = append(out, WorkoutLogEntry{
				ID:          uuid.NewString(),
				CompletedAt: unixToTime(le.Timestamp),
				WorkoutType: t,
				Notes:       notes,
			})
		}
		logger.Printf("WorkoutLog: migrated %d entries from legacy typed shape", len(out))
		return out, true
	}

	var v1 []float64
	if err := json.Unmarshal(raw, &v1); err == nil && len(v1) > 0 {
		out := make([]WorkoutLogEntry, 0, len(v1))
		for _, ts := range v1 {
			out = append(out, WorkoutLogEntry{
				ID:          uuid.NewString(),
				CompletedAt: unixToTime(ts),
				WorkoutType: DefaultWorkoutType,
				Notes:       "",
			})
		}
		logger.Printf("WorkoutLog: migrated %d entries from legacy timestamp shape", len(out))
		return out, true
	}

	logger.Printf("WorkoutLog: stored blob matched no known shape, starting empty")
	return nil, false
}

// currentShapeValid requires every entry to carry the fields only the
// current schema writes; a legacy blob decoded into the current struct
// leaves them zero.
func currentShapeValid(entries []WorkoutLogEntry) bool {
	for _, e := range entries {
		if e.ID == "" || e.CompletedAt.IsZero() {
			return false
		}
	}
	return true
}

func legacyV2ShapeValid(entries []legacyEntryV2) bool {
	if len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		if e.Timestamp <= 0 {
			return false
		}
	}
	return true
}

func unixToTime(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}
