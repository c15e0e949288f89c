package scheduler

import (
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Handle supervises the periodic trigger. Alive is the thread-safe
// accessor the health endpoint queries: true while the schedule is
// running, false after Stop or after a panic escapes a run.
type Handle struct {
	cron  *cron.Cron
	alive atomic.Bool
}

// Start runs the task once immediately on its own goroutine, then on
// every interval tick. The task is expected to contain its own
// per-request error handling; only an escaped panic kills the
// schedule.
func Start(intervalHours int, task func()) (*Handle, error) {
	if intervalHours <= 0 {
		return nil, errors.Errorf("invalid schedule interval: %d hours", intervalHours)
	}

	h := &Handle{cron: cron.New()}
	guarded := func() {
		defer func() {
			if r := recover(); r != nil {
				h.alive.Store(false)
				log.Errorf("scheduled run panicked, marking scheduler dead: %v", r)
			}
		}()
		task()
	}

	spec := fmt.Sprintf("@every %dh", intervalHours)
	if _, err := h.cron.AddFunc(spec, guarded); err != nil {
		return nil, errors.Wrapf(err, "could not schedule %q", spec)
	}

	h.alive.Store(true)

	log.Infof("scheduler started, interval %dh plus an immediate run", intervalHours)
	go guarded()
	h.cron.Start()

	return h, nil
}

// Alive reports whether the schedule is still running. Advisory only.
func (h *Handle) Alive() bool {
	return h.alive.Load()
}

// Stop halts the schedule and waits for an in-flight tick to finish.
func (h *Handle) Stop() {
	ctx := h.cron.Stop()
	<-ctx.Done()
	h.alive.Store(false)
}
