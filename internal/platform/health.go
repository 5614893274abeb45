package platform

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lowaak/interval-trainer/internal/trainer"
)

// MetricWorkoutMinutes is the trend metric exposed by FileHealth
const MetricWorkoutMinutes = "workout_duration_minutes"

// healthRecord is one written workout summary, stored as a JSON line
type healthRecord struct {
	Type  trainer.WorkoutType `json:"type"`
	Start time.Time           `json:"start"`
	End   time.Time           `json:"end"`
}

// FileHealth is an in-process stand-in for the platform health store:
// workout summaries append to a JSON-lines file and trend queries read
// them back. Authorization checks that the file location is writable.
type FileHealth struct {
	logger *log.Logger
	path   string

	mu sync.Mutex
}

// NewFileHealth creates a health store writing to path
func NewFileHealth(path string, logger *log.Logger) *FileHealth {
	if logger == nil {
		panic("FileHealth: logger cannot be nil")
	}
	return &FileHealth{logger: logger, path: path}
}

// RequestAuthorization grants access when the store location is writable
func (h *FileHealth) RequestAuthorization() (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return false, fmt.Errorf("health store location unavailable: %w", err)
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return false, fmt.Errorf("health store not writable: %w", err)
	}
	f.Close()
	return true, nil
}

// WriteWorkout appends one workout summary
func (h *FileHealth) WriteWorkout(workoutType trainer.WorkoutType, start, end time.Time) error {
	raw, err := json.Marshal(healthRecord{Type: workoutType, Start: start, End: end})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(raw, '\n')); err != nil {
		return err
	}
	h.logger.Printf("FileHealth: wrote %s workout (%v)", workoutType, end.Sub(start))
	return nil
}

// QueryTrendSamples returns up to limit newest samples for metric,
// ordered oldest to newest.
func (h *FileHealth) QueryTrendSamples(metric string, limit int) ([]trainer.TrendSample, error) {
	if metric != MetricWorkoutMinutes {
		return nil, fmt.Errorf("unknown trend metric %q", metric)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	f, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var samples []trainer.TrendSample
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec healthRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			h.logger.Printf("FileHealth: skipping unreadable record: %v", err)
			continue
		}
		samples = append(samples, trainer.TrendSample{
			At:    rec.End,
			Value: rec.End.Sub(rec.Start).Minutes(),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}
	return samples, nil
}
