package platform

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron"

	"github.com/lowaak/interval-trainer/internal/trainer"
)

// CronNotifier is an in-process notification service. Recurring intents
// become cron entries (the v1 cron API has no per-entry removal, so the
// cron set is rebuilt on every mutation); one-shot intents are plain
// timers. Delivery goes through the injected deliver callback.
//
// Local delivery needs no platform grant, so permission queries always
// report Granted.
type CronNotifier struct {
	logger  *log.Logger
	deliver func(trainer.NotificationIntent)

	mu        sync.Mutex
	recurring map[trainer.NotificationID]trainer.NotificationIntent
	oneShots  map[trainer.NotificationID]*time.Timer
	c         *cron.Cron
}

// NewCronNotifier creates a notifier delivering through deliver
func NewCronNotifier(deliver func(trainer.NotificationIntent), logger *log.Logger) *CronNotifier {
	if deliver == nil {
		panic("CronNotifier: deliver cannot be nil")
	}
	if logger == nil {
		panic("CronNotifier: logger cannot be nil")
	}
	return &CronNotifier{
		logger:    logger,
		deliver:   deliver,
		recurring: make(map[trainer.NotificationID]trainer.NotificationIntent),
		oneShots:  make(map[trainer.NotificationID]*time.Timer),
	}
}

// Schedule arms the intent, replacing any earlier schedule under the same ID
func (n *CronNotifier) Schedule(intent trainer.NotificationIntent) error {
	if intent.Calendar {
		if intent.Hour < 0 || intent.Hour > 23 {
			return fmt.Errorf("calendar intent %s: hour %d out of range", intent.ID, intent.Hour)
		}
	} else if intent.FireAfter <= 0 {
		return fmt.Errorf("intent %s: fire-after %v must be positive", intent.ID, intent.FireAfter)
	}
	if intent.Repeats {
		if _, err := cron.Parse(cronSpec(intent)); err != nil {
			return fmt.Errorf("intent %s: %w", intent.ID, err)
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelLocked(intent.ID)

	if intent.Repeats {
		n.recurring[intent.ID] = intent
		n.rebuildLocked()
		n.logger.Printf("CronNotifier: scheduled recurring %s (%s)", intent.ID, cronSpec(intent))
		return nil
	}

	fired := intent
	n.oneShots[intent.ID] = time.AfterFunc(intent.FireAfter, func() {
		n.mu.Lock()
		delete(n.oneShots, fired.ID)
		n.mu.Unlock()
		n.deliver(fired)
	})
	n.logger.Printf("CronNotifier: scheduled one-shot %s in %v", intent.ID, intent.FireAfter)
	return nil
}

// Cancel removes any standing schedule for id. Cancelling an absent ID is
// a no-op.
func (n *CronNotifier) Cancel(id trainer.NotificationID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelLocked(id)
}

// QueryPermission reports the in-process delivery grant (always granted)
func (n *CronNotifier) QueryPermission() trainer.PermissionStatus {
	return trainer.PermissionGranted
}

// RequestPermission reports the in-process delivery grant (always granted)
func (n *CronNotifier) RequestPermission() trainer.PermissionStatus {
	return trainer.PermissionGranted
}

// Stop tears down all pending schedules
func (n *CronNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for id, t := range n.oneShots {
		t.Stop()
		delete(n.oneShots, id)
	}
	n.recurring = make(map[trainer.NotificationID]trainer.NotificationIntent)
	n.rebuildLocked()
}

// cancelLocked removes id from both schedule sets. MUST be called with mu
// held.
func (n *CronNotifier) cancelLocked(id trainer.NotificationID) {
	if t, ok := n.oneShots[id]; ok {
		t.Stop()
		delete(n.oneShots, id)
		n.logger.Printf("CronNotifier: cancelled one-shot %s", id)
	}
	if _, ok := n.recurring[id]; ok {
		delete(n.recurring, id)
		n.rebuildLocked()
		n.logger.Printf("CronNotifier: cancelled recurring %s", id)
	}
}

// rebuildLocked replaces the cron runner with one holding the current
// recurring set. MUST be called with mu held.
func (n *CronNotifier) rebuildLocked() {
	if n.c != nil {
		n.c.Stop()
		n.c = nil
	}
	if len(n.recurring) == 0 {
		return
	}

	c := cron.New()
	for _, intent := range n.recurring {
		fired := intent
		if err := c.AddFunc(cronSpec(fired), func() { n.deliver(fired) }); err != nil {
			// Validated at Schedule time; a failure here means the spec
			// builder and validator disagree.
			n.logger.Printf("CronNotifier: dropping %s: %v", fired.ID, err)
		}
	}
	c.Start()
	n.c = c
}

// cronSpec renders an intent as a robfig/cron v1 spec (seconds field
// included). Calendar intents fire weekly on Weekday at Hour:00 local;
// fixed-period intents use the @every syntax.
func cronSpec(intent trainer.NotificationIntent) string {
	if intent.Calendar {
		return fmt.Sprintf("0 0 %d * * %d", intent.Hour, int(intent.Weekday))
	}
	return "@every " + intent.FireAfter.String()
}
