package kernel

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dexie-space/splash/internal/logger"
)

var triggerLog = logger.New("kernel.trigger")

// HousekeepingTrigger decides when the node loop should re-invoke
// bootstrap() to refresh the DHT routing table (spec §4.7). It fires on a
// fixed interval by default; an optional cron expression can be used
// instead when the node loop is configured for calendar-style housekeeping
// rather than "every N seconds".
type HousekeepingTrigger struct {
	Interval      time.Duration
	CronExpr      string
	lastTriggered time.Time
}

// NewHousekeepingTrigger returns a trigger that fires every interval,
// matching the 60-second cadence described in spec §4.7.
func NewHousekeepingTrigger(interval time.Duration) *HousekeepingTrigger {
	return &HousekeepingTrigger{Interval: interval, lastTriggered: time.Now()}
}

// IsReady reports whether housekeeping should run now.
func (t *HousekeepingTrigger) IsReady() bool {
	if t.CronExpr != "" {
		sched, err := cron.ParseStandard(t.CronExpr)
		if err != nil {
			triggerLog.Sugar().Errorf("invalid housekeeping cron expression %q: %v", t.CronExpr, err)
			return t.Interval > 0 && t.lastTriggered.Add(t.Interval).Before(time.Now())
		}
		return sched.Next(t.lastTriggered).Before(time.Now())
	}
	return t.Interval > 0 && t.lastTriggered.Add(t.Interval).Before(time.Now())
}

// Reset marks housekeeping as having just run.
func (t *HousekeepingTrigger) Reset() {
	t.lastTriggered = time.Now()
}
