// Package schedule fires a job once a week at a fixed local time.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Weekly is a day-of-week and minute-of-day trigger in a time zone.
type Weekly struct {
	Weekday  time.Weekday
	Hour     int
	Minute   int
	Location *time.Location
}

func (w Weekly) String() string {
	return fmt.Sprintf("%s %s %s", w.Weekday, w.Clock(), w.Zone())
}

// Clock returns the trigger time of day as HH:MM.
func (w Weekly) Clock() string {
	return fmt.Sprintf("%02d:%02d", w.Hour, w.Minute)
}

// Zone names the trigger's time zone.
func (w Weekly) Zone() string {
	return w.location().String()
}

func (w Weekly) location() *time.Location {
	if w.Location == nil {
		return time.Local
	}
	return w.Location
}

// slot returns the start of the trigger minute containing t, and whether t
// falls inside a trigger minute at all.
func (w Weekly) slot(t time.Time) (time.Time, bool) {
	t = t.In(w.location())
	if t.Weekday() != w.Weekday || t.Hour() != w.Hour || t.Minute() != w.Minute {
		return time.Time{}, false
	}
	return t.Truncate(time.Minute), true
}

// Next returns the first trigger time strictly after t.
func (w Weekly) Next(t time.Time) time.Time {
	t = t.In(w.location())
	candidate := time.Date(t.Year(), t.Month(), t.Day(), w.Hour, w.Minute, 0, 0, t.Location())
	days := (int(w.Weekday) - int(t.Weekday()) + 7) % 7
	candidate = candidate.AddDate(0, 0, days)
	if !candidate.After(t) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// ParseWeekday accepts English weekday names and their three-letter forms.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// Job is the work run on each trigger.
type Job func(ctx context.Context) error

type Scheduler struct {
	trigger  Weekly
	interval time.Duration
	job      Job
	logger   *slog.Logger
	now      func() time.Time

	lastSlot time.Time
}

func New(trigger Weekly, interval time.Duration, job Job, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Scheduler{
		trigger:  trigger,
		interval: interval,
		job:      job,
		logger:   logger,
		now:      time.Now,
	}
}

// Run checks the clock every interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "trigger", s.trigger.String(), "next", s.trigger.Next(s.now()))

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs the job if the current minute is a trigger minute that has not
// fired yet. It reports whether the job ran.
func (s *Scheduler) Tick(ctx context.Context) bool {
	slot, ok := s.trigger.slot(s.now())
	if !ok || slot.Equal(s.lastSlot) {
		return false
	}
	s.lastSlot = slot
	s.runJob(ctx)
	return true
}

func (s *Scheduler) runJob(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled job panicked", "panic", r)
		}
	}()

	s.logger.Info("running scheduled job")
	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled job failed", "error", err)
	}
}
