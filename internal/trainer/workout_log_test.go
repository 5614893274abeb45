package trainer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCurrentSchema(t *testing.T) {
	store := newFakeStore()
	blob := `[{"id":"abc","completedAt":"2026-01-05T08:00:00Z","workoutType":"running","notes":"felt good"}]`
	store.data[workoutLogKey] = blob

	l := NewWorkoutLog(store, testLogger())

	entries := l.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].ID)
	assert.Equal(t, WorkoutTypeRunning, entries[0].WorkoutType)
	assert.Equal(t, "felt good", entries[0].Notes)

	// Already current: not rewritten
	assert.Equal(t, blob, store.data[workoutLogKey])
}

func TestLoadLegacyTypedShape(t *testing.T) {
	store := newFakeStore()
	store.data[workoutLogKey] = `[
		{"timestamp":1767600000,"type":"Running","notes":"  easy run  "},
		{"timestamp":1767686400,"type":"Bench Press"}
	]`

	l := NewWorkoutLog(store, testLogger())

	entries := l.Entries()
	require.Len(t, entries, 2)

	// Known display name maps through; notes are trimmed
	assert.Equal(t, WorkoutTypeRunning, entries[0].WorkoutType)
	assert.Equal(t, "easy run", entries[0].Notes)
	assert.NotEmpty(t, entries[0].ID)

	// Unrecognized type string falls back to the Norwegian 4x4 default
	assert.Equal(t, WorkoutTypeNorwegian4x4, entries[1].WorkoutType)
	assert.Equal(t, "", entries[1].Notes)

	// Migrated data is immediately re-persisted in the current schema
	var repersisted []WorkoutLogEntry
	require.NoError(t, json.Unmarshal([]byte(store.data[workoutLogKey]), &repersisted))
	require.Len(t, repersisted, 2)
	assert.NotEmpty(t, repersisted[0].ID)
}

func TestLoadOldestTimestampShape(t *testing.T) {
	store := newFakeStore()
	store.data[workoutLogKey] = `[1767600000, 1767686400.5]`

	l := NewWorkoutLog(store, testLogger())

	entries := l.Entries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, WorkoutTypeNorwegian4x4, e.WorkoutType)
		assert.Equal(t, "", e.Notes)
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.CompletedAt.IsZero())
	}
	assert.Equal(t, int64(1767600000), entries[0].CompletedAt.Unix())

	// Re-persisted in the current schema
	var repersisted []WorkoutLogEntry
	require.NoError(t, json.Unmarshal([]byte(store.data[workoutLogKey]), &repersisted))
	assert.Len(t, repersisted, 2)
}

func TestLoadUnparseableBlobYieldsEmptyLog(t *testing.T) {
	store := newFakeStore()
	store.data[workoutLogKey] = `{not json at all`

	var l *WorkoutLog
	require.NotPanics(t, func() { l = NewWorkoutLog(store, testLogger()) })
	assert.Empty(t, l.Entries())
}

func TestLoadMissingBlobYieldsEmptyLog(t *testing.T) {
	l := NewWorkoutLog(newFakeStore(), testLogger())
	assert.Empty(t, l.Entries())
}

func TestAppendPrependsAndPersists(t *testing.T) {
	store := newFakeStore()
	l := NewWorkoutLog(store, testLogger())

	first := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)
	l.Append(WorkoutLogEntry{CompletedAt: first, WorkoutType: WorkoutTypeCycling, Notes: " one "})
	l.Append(WorkoutLogEntry{CompletedAt: second, WorkoutType: WorkoutTypeRowing})

	entries := l.Entries()
	require.Len(t, entries, 2)
	// Newest first
	assert.Equal(t, WorkoutTypeRowing, entries[0].WorkoutType)
	assert.Equal(t, WorkoutTypeCycling, entries[1].WorkoutType)
	assert.Equal(t, "one", entries[1].Notes)
	assert.NotEmpty(t, entries[0].ID)

	// A reload sees the same sequence
	reloaded := NewWorkoutLog(store, testLogger())
	require.Len(t, reloaded.Entries(), 2)
	assert.Equal(t, entries[0].ID, reloaded.Entries()[0].ID)
}

func TestAppendNormalizesUnknownType(t *testing.T) {
	l := NewWorkoutLog(newFakeStore(), testLogger())
	l.Append(WorkoutLogEntry{CompletedAt: time.Now(), WorkoutType: WorkoutType("mystery")})
	assert.Equal(t, DefaultWorkoutType, l.Entries()[0].WorkoutType)
}

func TestHasEntryOn(t *testing.T) {
	l := NewWorkoutLog(newFakeStore(), testLogger())
	day := time.Date(2026, 1, 5, 18, 30, 0, 0, time.UTC)
	l.Append(WorkoutLogEntry{CompletedAt: day, WorkoutType: WorkoutTypeNorwegian4x4})

	assert.True(t, l.HasEntryOn(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.False(t, l.HasEntryOn(time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)))
}

func TestPersistFailureKeepsInMemoryLog(t *testing.T) {
	store := newFakeStore()
	l := NewWorkoutLog(store, testLogger())
	store.setErr = assert.AnError

	require.NotPanics(t, func() {
		l.Append(WorkoutLogEntry{CompletedAt: time.Now(), WorkoutType: WorkoutTypeHIIT})
	})
	assert.Len(t, l.Entries(), 1)
}
