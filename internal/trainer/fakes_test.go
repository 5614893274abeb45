package trainer

import (
	"io"
	"log"
	"sync"
	"time"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// fakeStore is an in-memory KeyValueStore
type fakeStore struct {
	mu     sync.Mutex
	data   map[string]string
	setErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (s *fakeStore) GetString(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *fakeStore) SetString(key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// fakeNotifier records scheduled and cancelled intents and answers
// permission calls with scripted statuses.
type fakeNotifier struct {
	mu            sync.Mutex
	queryStatus   PermissionStatus
	requestStatus PermissionStatus
	requests      int
	scheduled     map[NotificationID]NotificationIntent
	cancelled     []NotificationID
	scheduleErr   error
}

func newFakeNotifier(query, request PermissionStatus) *fakeNotifier {
	return &fakeNotifier{
		queryStatus:   query,
		requestStatus: request,
		scheduled:     make(map[NotificationID]NotificationIntent),
	}
}

func (n *fakeNotifier) Schedule(intent NotificationIntent) error {
	if n.scheduleErr != nil {
		return n.scheduleErr
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scheduled[intent.ID] = intent
	return nil
}

func (n *fakeNotifier) Cancel(id NotificationID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.scheduled, id)
	n.cancelled = append(n.cancelled, id)
}

func (n *fakeNotifier) QueryPermission() PermissionStatus {
	return n.queryStatus
}

func (n *fakeNotifier) RequestPermission() PermissionStatus {
	n.mu.Lock()
	n.requests++
	n.mu.Unlock()
	return n.requestStatus
}

func (n *fakeNotifier) intentFor(id NotificationID) (NotificationIntent, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	intent, ok := n.scheduled[id]
	return intent, ok
}

// fakeHealth records workout writes
type fakeHealth struct {
	mu          sync.Mutex
	authGranted bool
	authErr     error
	writeErr    error
	written     []WorkoutLogEntry
}

func (h *fakeHealth) RequestAuthorization() (bool, error) {
	return h.authGranted, h.authErr
}

func (h *fakeHealth) QueryTrendSamples(metric string, limit int) ([]TrendSample, error) {
	return nil, nil
}

func (h *fakeHealth) WriteWorkout(workoutType WorkoutType, start, end time.Time) error {
	if h.writeErr != nil {
		return h.writeErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.written = append(h.written, WorkoutLogEntry{WorkoutType: workoutType, CompletedAt: end})
	return nil
}

func (h *fakeHealth) writeCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.written)
}

// fakeAlarm records played sounds
type fakeAlarm struct {
	mu     sync.Mutex
	played []string
}

func (a *fakeAlarm) Play(soundID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.played = append(a.played, soundID)
}

func (a *fakeAlarm) playCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.played)
}
