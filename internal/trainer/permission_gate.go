package trainer

import (
	"log"
	"sync"
)

// PermissionGate tracks the grant state of the notification and health
// capabilities and gates scheduling and health writes on them. A denied
// capability is surfaced as state for the owner to react to (disable the
// feature toggle), never as an error.
type PermissionGate struct {
	logger        *log.Logger
	notifications NotificationService
	health        HealthService
	settings      *Settings

	mu           sync.Mutex
	notifStatus  PermissionStatus
	healthStatus PermissionStatus
}

// NewPermissionGate creates a gate with both capabilities Unknown until
// queried or requested.
func NewPermissionGate(notifications NotificationService, health HealthService, settings *Settings, logger *log.Logger) *PermissionGate {
	if notifications == nil {
		panic("PermissionGate: notifications cannot be nil")
	}
	if health == nil {
		panic("PermissionGate: health cannot be nil")
	}
	if settings == nil {
		panic("PermissionGate: settings cannot be nil")
	}
	if logger == nil {
		panic("PermissionGate: logger cannot be nil")
	}
	return &PermissionGate{
		logger:        logger,
		notifications: notifications,
		health:        health,
		settings:      settings,
	}
}

// NotificationStatus returns the last known notification grant state
func (g *PermissionGate) NotificationStatus() PermissionStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.notifStatus
}

// HealthStatus returns the last known health grant state
func (g *PermissionGate) HealthStatus() PermissionStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.healthStatus
}

// RefreshNotificationStatus re-queries the platform grant state
func (g *PermissionGate) RefreshNotificationStatus() PermissionStatus {
	status := g.notifications.QueryPermission()
	g.mu.Lock()
	g.notifStatus = status
	g.mu.Unlock()
	g.logger.Printf("PermissionGate: notification permission is %s", status)
	return status
}

// EnsureNotificationPermission queries the grant state and, if it has
// never been requested before, requests it once and records the request.
func (g *PermissionGate) EnsureNotificationPermission() PermissionStatus {
	status := g.RefreshNotificationStatus()
	if status != PermissionUnknown {
		return status
	}
	if g.settings.NotificationPermissionRequested() {
		// Requested before but the platform still reports undetermined:
		// treat as denied rather than prompting forever.
		g.mu.Lock()
		g.notifStatus = PermissionDenied
		g.mu.Unlock()
		return PermissionDenied
	}

	g.settings.SetNotificationPermissionRequested(true)
	status = g.notifications.RequestPermission()
	g.mu.Lock()
	g.notifStatus = status
	g.mu.Unlock()
	g.logger.Printf("PermissionGate: notification permission requested -> %s", status)
	return status
}

// EnsureHealthAuthorization requests health authorization once and caches
// the outcome. An error from the platform maps to Unavailable.
func (g *PermissionGate) EnsureHealthAuthorization() PermissionStatus {
	g.mu.Lock()
	if g.healthStatus != PermissionUnknown {
		defer g.mu.Unlock()
		return g.healthStatus
	}
	g.mu.Unlock()

	g.settings.SetHealthPermissionRequested(true)
	granted, err := g.health.RequestAuthorization()
	status := PermissionGranted
	if err != nil {
		g.logger.Printf("PermissionGate: health authorization unavailable: %v", err)
		status = PermissionUnavailable
	} else if !granted {
		status = PermissionDenied
	}

	g.mu.Lock()
	g.healthStatus = status
	g.mu.Unlock()
	g.logger.Printf("PermissionGate: health authorization -> %s", status)
	return status
}

// AllowNotifications reports whether scheduling may proceed
func (g *PermissionGate) AllowNotifications() bool {
	return g.NotificationStatus() == PermissionGranted
}

// AllowHealthWrites reports whether workout summaries may be written
func (g *PermissionGate) AllowHealthWrites() bool {
	return g.HealthStatus() == PermissionGranted
}
